package wikicorpus

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/httputil"
)

// Where the english dumps live.
const (
	DumpURL      = "https://dumps.wikimedia.org/enwiki/latest/enwiki-latest-pages-articles.xml.bz2"
	DumpFilename = "enwiki-latest-pages-articles.xml.bz2"

	MultistreamURL      = "https://dumps.wikimedia.org/enwiki/latest/enwiki-latest-pages-articles-multistream.xml.bz2"
	MultistreamFilename = "enwiki-latest-pages-articles-multistream.xml.bz2"

	MultistreamIndexURL      = "https://dumps.wikimedia.org/enwiki/latest/enwiki-latest-pages-articles-multistream-index.txt.bz2"
	MultistreamIndexFilename = "enwiki-latest-pages-articles-multistream-index.txt.bz2"
)

const defaultReportBytes = 64 << 20

// A Fetcher downloads one remote file into a directory, unless it is
// already there.
//
// Any existing file counts, there's no integrity or size check.
type Fetcher struct {
	URL      string
	Filename string
	// Client defaults to http.DefaultClient.
	Client *http.Client
	// ReportBytes is how often to log transfer progress.
	ReportBytes int64
}

// NewFetcher gets a Fetcher storing u as filename.
func NewFetcher(u, filename string) *Fetcher {
	return &Fetcher{URL: u, Filename: filename}
}

// EnsureDir creates path and any missing parents.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// Path is where the fetched file lives under outputPath.
func (f *Fetcher) Path(outputPath string) string {
	return filepath.Join(outputPath, f.Filename)
}

// Fetch makes sure outputPath exists and holds the file, downloading
// it if it is missing. It returns the file's path.
func (f *Fetcher) Fetch(outputPath string) (string, error) {
	if err := EnsureDir(outputPath); err != nil {
		return "", err
	}

	fn := f.Path(outputPath)
	if _, err := os.Stat(fn); err == nil {
		log.Printf("%v already exists at %v", f.Filename, fn)
		return fn, nil
	} else if !os.IsNotExist(err) {
		return "", err
	}

	log.Printf("Downloading %v", f.URL)
	log.Printf("This may take a while...")
	start := time.Now()
	n, err := f.download(fn)
	if err != nil {
		return "", err
	}
	log.Printf("Download complete: %s in %v", humanize.Bytes(uint64(n)),
		time.Since(start).Round(time.Second))
	return fn, nil
}

func (f *Fetcher) download(fn string) (int64, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	res, err := client.Get(f.URL)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return 0, httputil.HTTPErrorf(res, "Error fetching %v: %S\n%B", f.URL)
	}

	part := fn + ".part"
	out, err := os.Create(part)
	if err != nil {
		return 0, err
	}

	every := f.ReportBytes
	if every <= 0 {
		every = defaultReportBytes
	}
	pw := &progressWriter{w: out, every: every, total: res.ContentLength}
	n, err := io.Copy(pw, res.Body)
	if err == nil {
		err = out.Close()
	} else {
		out.Close()
	}
	if err != nil {
		os.Remove(part)
		return n, fmt.Errorf("downloading %v: %w", f.URL, err)
	}

	return n, os.Rename(part, fn)
}

// progressWriter logs every time another `every` bytes went through.
type progressWriter struct {
	w     io.Writer
	every int64
	total int64
	n     int64
	next  int64
}

func (pw *progressWriter) Write(b []byte) (int, error) {
	n, err := pw.w.Write(b)
	pw.n += int64(n)
	if pw.next == 0 {
		pw.next = pw.every
	}
	if pw.n >= pw.next {
		if pw.total > 0 {
			log.Printf("Downloaded %s of %s", humanize.Bytes(uint64(pw.n)),
				humanize.Bytes(uint64(pw.total)))
		} else {
			log.Printf("Downloaded %s", humanize.Bytes(uint64(pw.n)))
		}
		for pw.next <= pw.n {
			pw.next += pw.every
		}
	}
	return n, err
}

// DownloadDump fetches the english pages-articles dump into
// outputPath if it isn't already there.
func DownloadDump(outputPath string) error {
	_, err := NewFetcher(DumpURL, DumpFilename).Fetch(outputPath)
	return err
}
