package wikicorpus

import (
	"io"
	"reflect"
	"testing"
)

var fixtureArticles = []Article{
	{ID: 10, Title: "Alpha", Tokens: []string{"alpha", "is", "the", "first",
		"letter", "of", "the", "alphabet", "history", "it", "came", "from",
		"phoenicia"}},
	{ID: 13, Title: "Gamma", Tokens: []string{"gamma", "rays", "are", "gamma",
		"ray", "burst", "energetic", "photons", "emitted", "by", "nuclei"}},
}

func readArticles(t *testing.T, src ArticleSource) []Article {
	var rv []Article
	for {
		a, err := src.Next()
		if err == io.EOF {
			return rv
		}
		if err != nil {
			t.Fatalf("Error reading article %d: %v", len(rv), err)
		}
		rv = append(rv, *a)
	}
}

func TestCorpusFiltering(t *testing.T) {
	tests := []struct {
		dump, index string
	}{
		{"testdata/dump.xml", ""},
		{"testdata/dump.xml.bz2", ""},
		{"testdata/multistream.xml.bz2", "testdata/multistream-index.txt.bz2"},
	}

	for _, test := range tests {
		c, err := OpenDump(test.dump, test.index, 2)
		if err != nil {
			t.Fatalf("Error opening %v: %v", test.dump, err)
		}
		c.MinArticleTokens = 5

		got := readArticles(t, c)
		if !reflect.DeepEqual(fixtureArticles, got) {
			t.Errorf("Expected %#v from %v, got %#v", fixtureArticles, test.dump, got)
		}
		read, skipped := c.Pages()
		if read != 5 || skipped != 3 {
			t.Errorf("Expected 5 read and 3 skipped from %v, got %v and %v",
				test.dump, read, skipped)
		}
		if err := c.Close(); err != nil {
			t.Errorf("Error closing %v: %v", test.dump, err)
		}
	}
}

func TestCorpusDefaultMinimum(t *testing.T) {
	c, err := OpenDump("testdata/dump.xml.bz2", "", 0)
	if err != nil {
		t.Fatalf("Error opening dump: %v", err)
	}
	defer c.Close()

	if got := readArticles(t, c); len(got) != 0 {
		t.Fatalf("Expected every fixture article to be too short, got %#v", got)
	}
}

func TestCorpusNamespaces(t *testing.T) {
	c, err := OpenDump("testdata/dump.xml", "", 0)
	if err != nil {
		t.Fatalf("Error opening dump: %v", err)
	}
	defer c.Close()
	c.MinArticleTokens = 1
	c.Namespaces = nil

	var titles []string
	for _, a := range readArticles(t, c) {
		titles = append(titles, a.Title)
	}
	exp := []string{"Alpha", "Talk:Alpha", "Gamma", "Delta"}
	if !reflect.DeepEqual(exp, titles) {
		t.Fatalf("Expected %v, got %v", exp, titles)
	}
}

func TestCorpusRefs(t *testing.T) {
	c, err := OpenDump("testdata/dump.xml", "", 0)
	if err != nil {
		t.Fatalf("Error opening dump: %v", err)
	}
	defer c.Close()
	c.MinArticleTokens = 5
	c.CollectRefs = true

	got := readArticles(t, c)
	if len(got) != 2 {
		t.Fatalf("Expected 2 articles, got %v", len(got))
	}
	expLinks := []string{"Greek alphabet", "Phoenicia", "Category:Letters"}
	if !reflect.DeepEqual(expLinks, got[0].Links) {
		t.Errorf("Expected links %#v, got %#v", expLinks, got[0].Links)
	}
	expFiles := []string{"Gamma.png"}
	if !reflect.DeepEqual(expFiles, got[1].Files) {
		t.Errorf("Expected files %#v, got %#v", expFiles, got[1].Files)
	}
}

func TestOpenDumpMissing(t *testing.T) {
	if _, err := OpenDump("testdata/nope.xml.bz2", "", 0); err == nil {
		t.Fatalf("Expected error opening a missing dump")
	}
}
