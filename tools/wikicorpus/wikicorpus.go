// Build a tokenized text corpus from a wikipedia dump.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-wikicorpus"
)

func init() {
	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(os.Stderr,
		"Usage:\n  %s [opts]\n  %s -load wiki_corpus.txt\n",
		os.Args[0], os.Args[0])
	fmt.Fprintf(os.Stderr, "\nOptions:\n")
	flag.PrintDefaults()
	os.Exit(1)
}

func load(fn string) {
	docs, err := wikicorpus.LoadCorpus(fn)
	if err != nil {
		log.Fatalf("Error loading %v: %v", fn, err)
	}
	tokens := int64(0)
	for _, d := range docs {
		tokens += int64(len(d))
	}
	log.Printf("Loaded %s articles, %s tokens from %v",
		humanize.Comma(int64(len(docs))), humanize.Comma(tokens), fn)
}

func main() {
	confFile := flag.String("config", "", "YAML config file")
	output := flag.String("output", "", "Directory for the dump and corpus")
	articles := flag.Int("articles", 0, "Number of articles to write (0 for all)")
	dumpURL := flag.String("url", "", "Dump URL")
	multi := flag.Bool("multistream", false, "Use the multistream dump and index")
	workers := flag.Int("workers", runtime.GOMAXPROCS(0), "Multistream decoding workers")
	loadFile := flag.String("load", "", "Read back a corpus file and report on it")
	flag.Parse()

	if *loadFile != "" {
		load(*loadFile)
		return
	}

	conf := wikicorpus.DefaultConfig()
	if *confFile != "" {
		var err error
		conf, err = wikicorpus.LoadConfig(*confFile)
		if err != nil {
			log.Fatalf("Error reading config %v: %v", *confFile, err)
		}
	}

	// Explicit flags win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "output":
			conf.Output = *output
		case "articles":
			conf.Articles = *articles
		case "url":
			conf.DumpURL = *dumpURL
		case "multistream":
			conf.Multistream = *multi
		case "workers":
			conf.Workers = *workers
		}
	})

	limit := conf.Articles
	if limit == 0 {
		limit = math.MaxInt
	}

	e := conf.Extractor()
	n, err := e.Extract(conf.Output, limit)
	if err != nil {
		log.Fatalf("Error building corpus after %s articles: %v",
			humanize.Comma(int64(n)), err)
	}
}
