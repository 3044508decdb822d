package wikicorpus

import (
	"compress/bzip2"
	"io"
	"os"
	"strings"
)

// DefaultMinArticleTokens is the shortest article, in tokens, a Corpus
// will emit.
const DefaultMinArticleTokens = 50

// An Article is one tokenized article body.
type Article struct {
	ID     uint64
	Title  string
	Tokens []string
	// Links and Files are only filled in when the Corpus collects
	// references.
	Links []string
	Files []string
}

// An ArticleSource emits articles until it returns io.EOF.
type ArticleSource interface {
	Next() (*Article, error)
}

// A Corpus turns the pages of a dump into articles.
//
// Pages outside Namespaces, redirects and articles shorter than
// MinArticleTokens are skipped.
type Corpus struct {
	Tokenizer        Tokenizer
	MinArticleTokens int
	Namespaces       []int
	// CollectRefs fills Article.Links and Article.Files.
	CollectRefs bool

	p      Parser
	closer io.Closer

	pages, skipped int64
}

// NewCorpus gets a Corpus over p with the default filters: main
// namespace only, at least 50 tokens per article.
func NewCorpus(p Parser) *Corpus {
	return &Corpus{
		Tokenizer:        DefaultTokenizer,
		MinArticleTokens: DefaultMinArticleTokens,
		Namespaces:       []int{0},
		p:                p,
	}
}

// OpenDump opens a dump file for corpus extraction.
//
// With an empty indexPath the dump is read as a single stream,
// bzip2 compressed if its name ends in .bz2. Otherwise it is treated
// as a multistream dump and decoded on the given number of workers.
// The returned Corpus must be closed.
func OpenDump(dumpPath, indexPath string, workers int) (*Corpus, error) {
	if indexPath != "" {
		p, err := NewIndexedParser(indexPath, dumpPath, workers)
		if err != nil {
			return nil, err
		}
		c := NewCorpus(p)
		c.closer = p
		return c, nil
	}

	f, err := os.Open(dumpPath)
	if err != nil {
		return nil, err
	}
	var r io.Reader = f
	if strings.HasSuffix(dumpPath, ".bz2") {
		r = bzip2.NewReader(f)
	}
	p, err := NewParser(r)
	if err != nil {
		f.Close()
		return nil, err
	}
	c := NewCorpus(p)
	c.closer = f
	return c, nil
}

// SiteInfo of the underlying dump.
func (c *Corpus) SiteInfo() SiteInfo {
	return c.p.SiteInfo()
}

// Pages returns how many pages were read and how many of those were
// skipped so far.
func (c *Corpus) Pages() (read, skipped int64) {
	return c.pages, c.skipped
}

func (c *Corpus) wantNamespace(ns int) bool {
	if len(c.Namespaces) == 0 {
		return true
	}
	for _, n := range c.Namespaces {
		if n == ns {
			return true
		}
	}
	return false
}

// Next returns the next article, or io.EOF.
func (c *Corpus) Next() (*Article, error) {
	for {
		page, err := c.p.Next()
		if err != nil {
			return nil, err
		}
		c.pages++

		if page.Redirect != nil || !c.wantNamespace(page.Ns) {
			c.skipped++
			continue
		}

		text := page.Text()
		tokens := c.Tokenizer.Tokenize(StripMarkup(text))
		if len(tokens) < c.MinArticleTokens {
			c.skipped++
			continue
		}

		a := &Article{ID: page.ID, Title: page.Title, Tokens: tokens}
		if c.CollectRefs {
			a.Links = FindLinks(text)
			a.Files = FindFiles(text)
		}
		return a, nil
	}
}

// Close releases the dump file and any parsing workers.
func (c *Corpus) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}
