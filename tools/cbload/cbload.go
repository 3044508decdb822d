// Load a tokenized wikipedia corpus into Couchbase
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/couchbase/go-couchbase"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-wikicorpus"
)

var numWorkers = flag.Int("numWorkers", 8, "Number of article workers")
var maxArticles = flag.Int("articles", 0, "Stop after this many articles (0 for all)")

var wg sync.WaitGroup

func init() {
	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(os.Stderr,
		"Usage:\n  %s [opts] wikipedia.xml.bz2 [wikipedia.index.bz2]\n",
		os.Args[0])
	fmt.Fprintf(os.Stderr, "\nOptions:\n")
	flag.PrintDefaults()
	os.Exit(1)
}

type Document struct {
	ID     uint64   `json:"id"`
	Title  string   `json:"title"`
	Text   string   `json:"text"`
	Tokens int      `json:"tokens"`
	Files  []string `json:"files,omitempty"`
	Links  []string `json:"links,omitempty"`
}

func doArticle(db *couchbase.Bucket, a *wikicorpus.Article) {
	doc := Document{
		ID:     a.ID,
		Title:  a.Title,
		Text:   strings.Join(a.Tokens, " "),
		Tokens: len(a.Tokens),
		Links:  a.Links,
	}
	for _, f := range a.Files {
		doc.Files = append(doc.Files, wikicorpus.URLForFile(f))
	}

	if err := db.Set(a.Title, 0, doc); err != nil {
		log.Printf("Error setting %v: %v", a.Title, err)
	}
}

func articleHandler(db *couchbase.Bucket, ch <-chan *wikicorpus.Article) {
	defer wg.Done()
	for a := range ch {
		doArticle(db, a)
	}
}

func main() {
	couchbaseServer := flag.String("couchbase", "http://localhost:8091/",
		"Couchbase URL")
	couchbaseBucket := flag.String("bucket", "default", "Couchbase bucket")
	procs := flag.Int("cpus", runtime.NumCPU(), "Number of CPUS to use")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}

	runtime.GOMAXPROCS(*procs)

	db, err := couchbase.GetBucket(*couchbaseServer,
		"default", *couchbaseBucket)
	if err != nil {
		log.Fatalf("Error connecting to couchbase: %v", err)
	}
	defer db.Close()

	c, err := wikicorpus.OpenDump(flag.Arg(0), flag.Arg(1),
		runtime.GOMAXPROCS(0))
	if err != nil {
		log.Fatalf("Error opening dump: %v", err)
	}
	defer c.Close()
	c.CollectRefs = true

	ch := make(chan *wikicorpus.Article, 1000)

	for i := 0; i < *numWorkers; i++ {
		wg.Add(1)
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
	close(ch)
	wg.Wait()
	log.Printf("Ended with err after %v:  %v after %s articles",
		time.Since(start), err, humanize.Comma(articles))
}
