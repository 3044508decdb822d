// Load a tokenized wikipedia corpus into CouchDB
package main

import (
	"flag"
	"log"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-couch"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-wikicorpus"
	"github.com/dustin/httputil"
)

var wg sync.WaitGroup

type Article struct {
	ID     string   `json:"_id"`
	Rev    string   `json:"_rev,omitempty"`
	PageID uint64   `json:"pageid"`
	Title  string   `json:"title"`
	Text   string   `json:"text"`
	Tokens int      `json:"tokens"`
	Files  []string `json:"files,omitempty"`
	Links  []string `json:"links,omitempty"`
}

func escapeTitle(in string) string {
	return strings.Replace(strings.Replace(in, "/", "%2f", -1),
		"+", "%2b", -1)
}

// replaceExisting overwrites the stored copy of an article from an
// earlier load.
func replaceExisting(db *couch.Database, a *Article) {
	var prev Article
	err := db.Retrieve(a.ID, &prev)
	if err != nil {
		log.Printf("  Error retrieving existing %v: %v", a.ID, err)
		return
	}
	if prev.Rev == "" {
		log.Printf("Got no rev from %v", a.ID)
		return
	}
	if prev.Text == a.Text {
		return
	}
	if _, err = db.EditWith(a, a.ID, prev.Rev); err != nil {
		log.Printf("  Error updating %v: %v", prev.ID, err)
	}
}

func doArticle(db *couch.Database, a *wikicorpus.Article) {
	defer wg.Done()
	article := Article{
		ID:     escapeTitle(a.Title),
		PageID: a.ID,
		Title:  a.Title,
		Text:   strings.Join(a.Tokens, " "),
		Tokens: len(a.Tokens),
		Links:  a.Links,
	}
	for _, f := range a.Files {
		article.Files = append(article.Files, wikicorpus.URLForFile(f))
	}

	_, _, err := db.Insert(&article)
	switch {
	case err == nil:
		// yay
	case httputil.IsHTTPStatus(err, 409):
		replaceExisting(db, &article)
	default:
		log.Printf("Error inserting %v: %v", article.ID, err)
	}
}

func articleHandler(db couch.Database, ch <-chan *wikicorpus.Article) {
	for a := range ch {
		doArticle(&db, a)
	}
}

func main() {
	dburl := flag.String("db", "http://localhost:5984/wikipedia", "CouchDB database URL")
	idx := flag.String("index", "", "Multistream index, if the dump is a multistream dump")
	workers := flag.Int("workers", 20, "Number of insert workers")
	maxArticles := flag.Int("articles", 0, "Stop after this many articles (0 for all)")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("Usage: couchload [opts] wikipedia.xml.bz2")
	}

	db, err := couch.Connect(*dburl)
	if err != nil {
		log.Fatalf("Error connecting to couchdb: %v", err)
	}

	c, err := wikicorpus.OpenDump(flag.Arg(0), *idx, runtime.GOMAXPROCS(0))
	if err != nil {
		log.Fatalf("Error opening dump: %v", err)
	}
	defer c.Close()
	c.CollectRefs = true

	log.Printf("Got site info:  %+v", c.SiteInfo())

	ch := make(chan *wikicorpus.Article, 1000)

	for i := 0; i < *workers; i++ {
		go articleHandler(db, ch)
	}

	articles := int64(0)
	start := time.Now()
	prev := start
	reportfreq := int64(1000)
	for err == nil && (*maxArticles <= 0 || articles < int64(*maxArticles)) {
		var a *wikicorpus.Article
		a, err = c.Next()
		if err != nil {
			break
		}
		wg.Add(1)
		ch <- a

		articles++
		if articles%reportfreq == 0 {
			now := time.Now()
			d := now.Sub(prev)
			log.Printf("Processed %s articles total (%.2f/s)",
				humanize.Comma(articles), float64(reportfreq)/d.Seconds())
			prev = now
		}
	}
	wg.Wait()
	close(ch)
	log.Printf("Ended with err after %v:  %v after %s articles",
		time.Since(start), err, humanize.Comma(articles))
}
