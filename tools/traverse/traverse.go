// Sample program that reports corpus statistics for a wikipedia dump.
package main

import (
	"compress/bzip2"
	"encoding/gob"
	"flag"
	"log"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-wikicorpus"
)

var numWorkers int
var topN int
var emptyFile string

var wg, emptywg sync.WaitGroup

type stats struct {
	sync.Mutex
	articles, short, tokens int64
	vocab                   map[string]int64
}

var st = stats{vocab: map[string]int64{}}

func (s *stats) add(tokens []string) {
	s.Lock()
	defer s.Unlock()
	if len(tokens) < wikicorpus.DefaultMinArticleTokens {
		s.short++
		return
	}
	s.articles++
	s.tokens += int64(len(tokens))
	for _, t := range tokens {
		s.vocab[t]++
	}
}

func pageHandler(ch <-chan *wikicorpus.Page, chempty chan<- *wikicorpus.Page) {
	for p := range ch {
		tokens := wikicorpus.Tokenize(p.Text())
		if len(tokens) == 0 && chempty != nil {
			chempty <- p
		}
		st.add(tokens)
		wg.Done()
	}
}

// emptyHandler records pages that had nothing left after stripping.
func emptyHandler(ch <-chan *wikicorpus.Page) {
	defer emptywg.Done()
	f, err := os.Create(emptyFile)
	if err != nil {
		log.Fatalf("Error creating empty page file: %v", err)
	}
	defer f.Close()
	g := gob.NewEncoder(f)

	for p := range ch {
		if err := g.Encode(p); err != nil {
			log.Fatalf("Error gobbing page: %v\n%#v", err, p)
		}
	}
}

func process(p wikicorpus.Parser) {
	log.Printf("Got site info:  %+v", p.SiteInfo())

	ch := make(chan *wikicorpus.Page, 1000)
	var chempty chan *wikicorpus.Page
	if emptyFile != "" {
		chempty = make(chan *wikicorpus.Page, 10)
		emptywg.Add(1)
		go emptyHandler(chempty)
	}

	for i := 0; i < numWorkers; i++ {
		go pageHandler(ch, chempty)
	}

	pages := int64(0)
	start := time.Now()
	prev := start
	reportfreq := int64(1000)
	var err error
	for err == nil {
		var page *wikicorpus.Page
		page, err = p.Next()
		if err != nil {
			break
		}
		if page.Ns == 0 && page.Redirect == nil {
			wg.Add(1)
			ch <- page
		}

		pages++
		if pages%reportfreq == 0 {
			now := time.Now()
			d := now.Sub(prev)
			log.Printf("Processed %s pages total (%.2f/s)",
				humanize.Comma(pages), float64(reportfreq)/d.Seconds())
			prev = now
		}
	}
	wg.Wait()
	close(ch)
	if chempty != nil {
		close(chempty)
		emptywg.Wait()
	}
	d := time.Since(start)
	log.Printf("Ended with err after %v:  %v after %s pages (%.2f p/s)",
		d, err, humanize.Comma(pages), float64(pages)/d.Seconds())

	report()
}

func report() {
	st.Lock()
	defer st.Unlock()
	log.Printf("%s articles (%s too short), %s tokens, %s distinct",
		humanize.Comma(st.articles), humanize.Comma(st.short),
		humanize.Comma(st.tokens), humanize.Comma(int64(len(st.vocab))))

	words := make([]string, 0, len(st.vocab))
	for w := range st.vocab {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if st.vocab[words[i]] != st.vocab[words[j]] {
			return st.vocab[words[i]] > st.vocab[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > topN {
		words = words[:topN]
	}
	for _, w := range words {
		log.Printf("  %-15s %s", w, humanize.Comma(st.vocab[w]))
	}
}

func processSingleStream(filename string) {
	f, err := os.Open(filename)
	if err != nil {
		log.Fatalf("Error opening file: %v", err)
	}
	defer f.Close()

	z := bzip2.NewReader(f)

	p, err := wikicorpus.NewParser(z)
	if err != nil {
		log.Fatalf("Error setting up new page parser:  %v", err)
	}

	process(p)
}

func processMultiStream(data, idx string) {
	p, err := wikicorpus.NewIndexedParser(idx, data, runtime.GOMAXPROCS(0))
	if err != nil {
		log.Fatalf("Error initializing multistream parser: %v", err)
	}
	defer p.Close()
	process(p)
}

func main() {
	var cpus int
	flag.IntVar(&numWorkers, "workers", 8, "Number of tokenizing workers")
	flag.IntVar(&cpus, "cpus", runtime.GOMAXPROCS(0), "Number of CPUS to utilize")
	flag.IntVar(&topN, "top", 20, "Number of most frequent tokens to report")
	flag.StringVar(&emptyFile, "empty", "",
		"Gob file recording articles with no tokens after stripping")
	flag.Parse()

	runtime.GOMAXPROCS(cpus)

	switch flag.NArg() {
	case 1:
		processSingleStream(flag.Arg(0))
	case 2:
		processMultiStream(flag.Arg(0), flag.Arg(1))
	default:
		log.Fatalf("Usage: traverse [opts] wikipedia.xml.bz2 [wikipedia.index.bz2]")
	}
}
