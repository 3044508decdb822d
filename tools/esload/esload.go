// Load a tokenized wikipedia corpus into ElasticSearch
package main

import (
	"flag"
	"log"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-elasticsearch"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-wikicorpus"
)

var wg = sync.WaitGroup{}

var esIndex = flag.String("index", "wikipedia", "ElasticSearch index name")
var batchSize = flag.Int("batch", 1000, "Articles per bulk request")

func articleHandler(u string, ch <-chan *wikicorpus.Article) {
	defer wg.Done()
	counter := 0
	es := elasticsearch.ElasticSearch{URL: u}
	bulkLoader := es.Bulk()

	for a := range ch {
		counter++
		if counter > *batchSize {
			bulkLoader.SendBatch()
			counter = 0
		}
		ui := elasticsearch.UpdateInstruction{
			Id:    a.Title,
			Index: *esIndex,
			Type:  "article",
			Body: map[string]interface{}{
				"pageid": a.ID,
				"title":  a.Title,
				"text":   strings.Join(a.Tokens, " "),
				"tokens": len(a.Tokens),
			},
		}
		bulkLoader.Update(&ui)
	}
	bulkLoader.Quit()
}

func main() {
	idx := flag.String("multistream", "", "Multistream index for the dump")
	workers := flag.Int("workers", 4, "Number of bulk loaders")
	maxArticles := flag.Int("articles", 0, "Stop after this many articles (0 for all)")
	flag.Parse()

	if flag.NArg() != 2 {
		log.Fatalf("Usage: esload [opts] wikipedia.xml.bz2 http://localhost:9200/")
	}
	filename, esurl := flag.Arg(0), flag.Arg(1)

	c, err := wikicorpus.OpenDump(filename, *idx, runtime.GOMAXPROCS(0))
	if err != nil {
		log.Fatalf("Error opening dump: %v", err)
	}
	defer c.Close()

	log.Printf("Got site info:  %+v", c.SiteInfo())

	ch := make(chan *wikicorpus.Article, 1000)

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go articleHandler(esurl, ch)
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
