package main

import (
	"flag"
	"log"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-wikicorpus"
	"gopkg.in/mgo.v2"
)

var proc = flag.Int("proc", 8, "How many inserters to run.")
var file = flag.String("file", "", "The bz2 dump file.")
var index = flag.String("index", "", "The multistream index, if any.")
var cpus = flag.Int("cpus", runtime.NumCPU(), "Number of CPUs to use.")
var dburl = flag.String("dburl", "localhost", "The dburl(s). I.e. localhost.")
var verbose = flag.Bool("v", false, "Verbose logging?")
var collection = flag.String("collection", "articles", "The collection to store tokenized articles in.")
var dbname = flag.String("dbname", "wp", "The database name to use.")
var maxArticles = flag.Int("articles", 0, "Stop after this many articles (0 for all).")

var wg sync.WaitGroup

// Titles are unique since the title is the URL path in wikimedia,
// My Title => My_Title
var titleIndex = mgo.Index{
	Key:        []string{"title"},
	Unique:     true,
	DropDups:   true,
	Background: true,
	Sparse:     true,
}

type article struct {
	PageID uint64   `bson:"pageid"`
	Title  string   `bson:"title"`
	Tokens []string `bson:"tokens"`
	Links  []string `bson:"links,omitempty"`
	Files  []string `bson:"files,omitempty"`
}

func articleHandler(db *mgo.Database, ch <-chan *wikicorpus.Article) {
	for a := range ch {
		storeArticle(db, a)
	}
}

func storeArticle(db *mgo.Database, a *wikicorpus.Article) {
	defer wg.Done()
	doc := article{
		PageID: a.ID,
		Title:  a.Title,
		Tokens: a.Tokens,
		Links:  a.Links,
		Files:  a.Files,
	}
	err := db.C(*collection).Insert(&doc)
	if err != nil {
		if mgo.IsDup(err) {
			if *verbose {
				log.Printf("Duplicate Key Error inserting %s", doc.Title)
			}
		} else {
			log.Printf("Error inserting %s: %s", doc.Title, err)
		}
	}
}

func processCorpus(c *wikicorpus.Corpus, db *mgo.Database) {
	ch := make(chan *wikicorpus.Article, 1000)
	for i := 0; i < *proc; i++ {
		go articleHandler(db, ch)
	}

	articles := int64(0)
	start := time.Now()
	prev := start
	reportfreq := int64(10000)
	var err error
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
			log.Printf("Processed %s articles total (%.2f/s)\n",
				humanize.Comma(articles), float64(reportfreq)/d.Seconds())
			prev = now
		}
	}
	wg.Wait()
	close(ch)

	read, skipped := c.Pages()
	d := time.Since(start)
	log.Printf("Ended with err after %v:  %v after %s articles (%.2f a/s), %s of %s pages skipped",
		d, err, humanize.Comma(articles), float64(articles)/d.Seconds(),
		humanize.Comma(skipped), humanize.Comma(read))
}

func main() {
	flag.Parse()
	if *file == "" {
		log.Fatal("You must supply a bz2 dump file.")
	}
	runtime.GOMAXPROCS(*cpus)

	session, err := mgo.Dial(*dburl)
	if err != nil {
		log.Fatalf("Error connecting to %v: %v", *dburl, err)
	}
	defer session.Close()

	if _, err := os.Stat(*file); err != nil {
		log.Fatalf("Error opening file: %v", err)
	}
	c, err := wikicorpus.OpenDump(*file, *index, runtime.GOMAXPROCS(0))
	if err != nil {
		log.Fatalf("Error setting up corpus:  %v", err)
	}
	defer c.Close()
	c.CollectRefs = true

	err = session.DB(*dbname).C(*collection).EnsureIndex(titleIndex)
	if err != nil {
		log.Fatal("Error creating title index", err)
	}
	processCorpus(c, session.DB(*dbname))
}
