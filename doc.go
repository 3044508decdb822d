// Package wikicorpus builds plain text corpora from the wikipedia xml
// dumps.
//
// The dumps are available from the wikimedia group here:
//    http://dumps.wikimedia.org/
//
// DownloadCorpus fetches the enwiki pages-articles dump, strips the
// wiki markup from each article and writes one tokenized article per
// line. LoadCorpus reads such a file back.
//
// The parser and index readers underneath work on any dump, see the
// programs under tools/ for other uses.
package wikicorpus
