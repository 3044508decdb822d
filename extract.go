package wikicorpus

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// CorpusFilename is the name of the corpus file in the output
// directory.
const CorpusFilename = "wiki_corpus.txt"

// DefaultArticles is how many articles DownloadCorpus writes.
const DefaultArticles = 10000

const defaultReportFreq = 1000

// An Extractor builds a corpus file from a dump, fetching the dump
// first if needed.
type Extractor struct {
	Dump *Fetcher
	// Index is set for multistream dumps.
	Index *Fetcher
	// Workers decoding a multistream dump.
	Workers int
	// CorpusFilename defaults to wiki_corpus.txt.
	CorpusFilename string
	// ReportFreq is how many articles go by between progress lines.
	ReportFreq int64
	// Open turns the fetched files into articles. indexPath is empty
	// for single stream dumps. OpenDump is used when nil.
	Open func(dumpPath, indexPath string) (ArticleSource, error)
}

// NewExtractor gets an Extractor for the english pages-articles dump.
func NewExtractor() *Extractor {
	return &Extractor{Dump: NewFetcher(DumpURL, DumpFilename)}
}

// NewMultistreamExtractor gets an Extractor for the english
// multistream dump and its index.
func NewMultistreamExtractor(workers int) *Extractor {
	return &Extractor{
		Dump:    NewFetcher(MultistreamURL, MultistreamFilename),
		Index:   NewFetcher(MultistreamIndexURL, MultistreamIndexFilename),
		Workers: workers,
	}
}

func (e *Extractor) open(dumpPath, indexPath string) (ArticleSource, error) {
	if e.Open != nil {
		return e.Open(dumpPath, indexPath)
	}
	return OpenDump(dumpPath, indexPath, e.Workers)
}

// CorpusPath is where the corpus file is written under outputPath.
func (e *Extractor) CorpusPath(outputPath string) string {
	name := e.CorpusFilename
	if name == "" {
		name = CorpusFilename
	}
	return filepath.Join(outputPath, name)
}

// Extract writes up to numArticles articles to the corpus file in
// outputPath, replacing whatever was there. A numArticles of zero or
// less writes an empty corpus.
func (e *Extractor) Extract(outputPath string, numArticles int) (int, error) {
	dumpPath, err := e.Dump.Fetch(outputPath)
	if err != nil {
		return 0, err
	}
	indexPath := ""
	if e.Index != nil {
		if indexPath, err = e.Index.Fetch(outputPath); err != nil {
			return 0, err
		}
	}

	src, err := e.open(dumpPath, indexPath)
	if err != nil {
		return 0, fmt.Errorf("opening %v: %w", dumpPath, err)
	}
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}

	fn := e.CorpusPath(outputPath)
	out, err := os.Create(fn)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	n, err := writeCorpus(out, src, numArticles, e.ReportFreq)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, err
	}
	d := time.Since(start)
	log.Printf("Wrote %s articles to %v in %v (%.2f a/s)",
		humanize.Comma(int64(n)), fn, d, float64(n)/d.Seconds())
	return n, nil
}

// WriteCorpus writes one line per article from src to w, tokens
// joined by single spaces, stopping after limit articles. It returns
// how many lines were written.
func WriteCorpus(w io.Writer, src ArticleSource, limit int) (int, error) {
	return writeCorpus(w, src, limit, defaultReportFreq)
}

func writeCorpus(w io.Writer, src ArticleSource, limit int, reportfreq int64) (int, error) {
	if reportfreq <= 0 {
		reportfreq = defaultReportFreq
	}
	bw := bufio.NewWriter(w)

	written := 0
	for written < limit {
		a, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			bw.Flush()
			return written, err
		}

		if _, err := bw.WriteString(strings.Join(a.Tokens, " ")); err != nil {
			return written, err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return written, err
		}
		if int64(written)%reportfreq == 0 {
			log.Printf("Processed %s articles", humanize.Comma(int64(written)))
		}
		written++
	}
	return written, bw.Flush()
}

// DownloadCorpus fetches the english dump into outputPath if needed
// and writes its first numArticles articles to wiki_corpus.txt there.
func DownloadCorpus(outputPath string, numArticles int) error {
	_, err := NewExtractor().Extract(outputPath, numArticles)
	return err
}
