package wikicorpus

import (
	"bytes"
	"log"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// sliceSource hands out canned token lists, then err (io.EOF if nil).
type sliceSource struct {
	docs   [][]string
	err    error
	i      int
	closed bool
}

func (s *sliceSource) Next() (*Article, error) {
	if s.i >= len(s.docs) {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	a := &Article{ID: uint64(s.i), Tokens: s.docs[s.i]}
	s.i++
	return a, nil
}

func (s *sliceSource) Close() error {
	s.closed = true
	return nil
}

func numberedDocs(n int) [][]string {
	rv := make([][]string, n)
	for i := range rv {
		rv[i] = []string{"doc", fmt.Sprint(i)}
	}
	return rv
}

func TestWriteCorpusExample(t *testing.T) {
	buf := &bytes.Buffer{}
	src := &sliceSource{docs: [][]string{{"a", "b"}, {"c"}}}
	n, err := WriteCorpus(buf, src, 10)
	if err != nil {
		t.Fatalf("Error writing: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 lines, got %v", n)
	}
	if buf.String() != "a b\nc\n" {
		t.Errorf("Expected %q, got %q", "a b\nc\n", buf.String())
	}
}

func TestWriteCorpusLimits(t *testing.T) {
	tests := []struct {
		records, limit, exp int
	}{
		{0, 10, 0},
		{3, 10, 3},
		{10, 3, 3},
		{5, 5, 5},
		{7, 0, 0},
		{7, -1, 0},
		{5000, 10000, 5000},
		{2500, 1000, 1000},
	}

	for _, test := range tests {
		buf := &bytes.Buffer{}
		docs := numberedDocs(test.records)
		n, err := WriteCorpus(buf, &sliceSource{docs: docs}, test.limit)
		if err != nil {
			t.Fatalf("Error writing %v records: %v", test.records, err)
		}
		if n != test.exp {
			t.Errorf("Expected %v lines for %v/%v, got %v",
				test.exp, test.records, test.limit, n)
		}

		lines := strings.SplitAfter(buf.String(), "\n")
		lines = lines[:len(lines)-1]
		if len(lines) != test.exp {
			t.Fatalf("Expected %v lines in output, got %v", test.exp, len(lines))
		}
		for i, l := range lines {
			if exp := strings.Join(docs[i], " ") + "\n"; l != exp {
				t.Fatalf("Expected line %v to be %q, got %q", i, exp, l)
			}
		}
	}
}

func TestWriteCorpusError(t *testing.T) {
	boom := errors.New("boom")
	buf := &bytes.Buffer{}
	n, err := WriteCorpus(buf, &sliceSource{docs: numberedDocs(2), err: boom}, 10)
	if err != boom {
		t.Fatalf("Expected boom, got %v", err)
	}
	if n != 2 || buf.String() != "doc 0\ndoc 1\n" {
		t.Fatalf("Expected the first two lines flushed, got %v / %q", n, buf.String())
	}
}

func TestExtractExistingDump(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("Error creating dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, DumpFilename), []byte("x"), 0644); err != nil {
		t.Fatalf("Error writing dump: %v", err)
	}
	// Stale content must be replaced.
	corpus := filepath.Join(dir, CorpusFilename)
	if err := os.WriteFile(corpus, []byte("old old old\n"), 0644); err != nil {
		t.Fatalf("Error writing corpus: %v", err)
	}

	srv := newCountingServer(t, http.StatusOK, "")
	src := &sliceSource{docs: [][]string{{"a", "b"}, {"c"}}}
	var opened string
	e := NewExtractor()
	e.Dump.URL = srv.URL
	e.Open = func(dumpPath, indexPath string) (ArticleSource, error) {
		opened = dumpPath
		if indexPath != "" {
			t.Errorf("Expected no index, got %v", indexPath)
		}
		return src, nil
	}

	n, err := e.Extract(dir, DefaultArticles)
	if err != nil {
		t.Fatalf("Error extracting: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 articles, got %v", n)
	}
	if srv.Hits() != 0 {
		t.Errorf("Expected no download, got %v requests", srv.Hits())
	}
	if opened != filepath.Join(dir, DumpFilename) {
		t.Errorf("Opened the wrong dump: %v", opened)
	}
	if !src.closed {
		t.Errorf("Expected the source to be closed")
	}

	got, err := LoadCorpus(corpus)
	if err != nil {
		t.Fatalf("Error loading corpus: %v", err)
	}
	exp := [][]string{{"a", "b"}, {"c"}}
	if !reflect.DeepEqual(exp, got) {
		t.Fatalf("Expected %#v, got %#v", exp, got)
	}
}

func TestExtractOpenError(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, DumpFilename), []byte("x"), 0644)

	boom := errors.New("bad archive")
	e := NewExtractor()
	e.Open = func(string, string) (ArticleSource, error) { return nil, boom }
	if _, err := e.Extract(dir, 10); !errors.Is(err, boom) {
		t.Fatalf("Expected bad archive, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, CorpusFilename)); !os.IsNotExist(err) {
		t.Fatalf("Expected no corpus file, got %v", err)
	}
}

func TestExtractDownloadsAndParses(t *testing.T) {
	dump, err := os.ReadFile("testdata/dump.xml.bz2")
	if err != nil {
		t.Fatalf("Error reading fixture: %v", err)
	}
	srv := newCountingServer(t, http.StatusOK, string(dump))
	dir := filepath.Join(t.TempDir(), "out")

	e := NewExtractor()
	e.Dump.URL = srv.URL + "/" + DumpFilename
	e.Open = func(dumpPath, indexPath string) (ArticleSource, error) {
		c, err := OpenDump(dumpPath, indexPath, 1)
		if err != nil {
			return nil, err
		}
		c.MinArticleTokens = 5
		return c, nil
	}

	n, err := e.Extract(dir, 1)
	if err != nil {
		t.Fatalf("Error extracting: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected a single article, got %v", n)
	}
	if srv.Hits() != 1 {
		t.Errorf("Expected one download, got %v", srv.Hits())
	}

	got, err := LoadCorpus(e.CorpusPath(dir))
	if err != nil {
		t.Fatalf("Error loading corpus: %v", err)
	}
	exp := [][]string{fixtureArticles[0].Tokens}
	if !reflect.DeepEqual(exp, got) {
		t.Fatalf("Expected %#v, got %#v", exp, got)
	}
}

func TestExtractMultistream(t *testing.T) {
	dir := t.TempDir()
	for src, dst := range map[string]string{
		"testdata/multistream.xml.bz2":       MultistreamFilename,
		"testdata/multistream-index.txt.bz2": MultistreamIndexFilename,
	} {
		b, err := os.ReadFile(src)
		if err != nil {
			t.Fatalf("Error reading fixture: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, dst), b, 0644); err != nil {
			t.Fatalf("Error writing fixture: %v", err)
		}
	}

	e := NewMultistreamExtractor(2)
	e.CorpusFilename = "multi.txt"
	e.Open = func(dumpPath, indexPath string) (ArticleSource, error) {
		c, err := OpenDump(dumpPath, indexPath, e.Workers)
		if err != nil {
			return nil, err
		}
		c.MinArticleTokens = 5
		return c, nil
	}
	n, err := e.Extract(dir, DefaultArticles)
	if err != nil {
		t.Fatalf("Error extracting: %v", err)
	}
	if n != 2 {
		t.Fatalf("Expected 2 articles, got %v", n)
	}
	got, err := LoadCorpus(filepath.Join(dir, "multi.txt"))
	if err != nil {
		t.Fatalf("Error loading corpus: %v", err)
	}
	exp := [][]string{fixtureArticles[0].Tokens, fixtureArticles[1].Tokens}
	if !reflect.DeepEqual(exp, got) {
		t.Fatalf("Expected %#v, got %#v", exp, got)
	}
}

func progressLines(out string) []string {
	var rv []string
	for _, l := range strings.Split(out, "\n") {
		if i := strings.Index(l, "Processed "); i >= 0 {
			rv = append(rv, l[i:])
		}
	}
	return rv
}

func captureLog(t *testing.T) *bytes.Buffer {
	buf := &bytes.Buffer{}
	flags := log.Flags()
	log.SetOutput(buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	return buf
}

func TestWriteCorpusProgress(t *testing.T) {
	tests := []struct {
		records, limit int
		exp            []string
	}{
		{0, 10, nil},
		{1, 10, []string{"Processed 0 articles"}},
		{999, 10000, []string{"Processed 0 articles"}},
		{1001, 10000, []string{"Processed 0 articles", "Processed 1,000 articles"}},
		{2500, 10000, []string{"Processed 0 articles", "Processed 1,000 articles",
			"Processed 2,000 articles"}},
		{2500, 1500, []string{"Processed 0 articles", "Processed 1,000 articles"}},
	}

	for _, test := range tests {
		logged := captureLog(t)
		_, err := WriteCorpus(&bytes.Buffer{}, &sliceSource{docs: numberedDocs(test.records)}, test.limit)
		if err != nil {
			t.Fatalf("Error writing %v records: %v", test.records, err)
		}
		if got := progressLines(logged.String()); !reflect.DeepEqual(test.exp, got) {
			t.Errorf("Expected %q for %v/%v, got %q",
				test.exp, test.records, test.limit, got)
		}
	}
}

func TestExtractReportFreq(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, DumpFilename), []byte("x"), 0644); err != nil {
		t.Fatalf("Error writing dump: %v", err)
	}

	e := NewExtractor()
	e.ReportFreq = 2
	e.Open = func(string, string) (ArticleSource, error) {
		return &sliceSource{docs: numberedDocs(5)}, nil
	}

	logged := captureLog(t)
	if _, err := e.Extract(dir, 10); err != nil {
		t.Fatalf("Error extracting: %v", err)
	}
	exp := []string{"Processed 0 articles", "Processed 2 articles", "Processed 4 articles"}
	if got := progressLines(logged.String()); !reflect.DeepEqual(exp, got) {
		t.Fatalf("Expected %q, got %q", exp, got)
	}
}
