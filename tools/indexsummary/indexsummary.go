// Print the streams of a multistream index, or every entry with -entries.
package main

import (
	"compress/bzip2"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-wikicorpus"
)

var entries = flag.Bool("entries", false, "Print every index entry")

func openIndex(fn string) (io.Reader, func() error) {
	f, err := os.Open(fn)
	if err != nil {
		log.Fatalf("Error opening %v: %v", fn, err)
	}
	if strings.HasSuffix(fn, ".bz2") {
		return bzip2.NewReader(f), f.Close
	}
	return f, f.Close
}

func printEntries(r io.Reader) {
	ir := wikicorpus.NewIndexReader(r)
	for {
		e, err := ir.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("Error reading stream:  %v", err)
		}
		fmt.Println(e.String())
	}
}

func printStreams(r io.Reader) {
	isr, err := wikicorpus.NewIndexSummaryReader(r)
	if err != nil {
		log.Fatalf("Error reading index:  %v", err)
	}
	streams, pages := int64(0), int64(0)
	for {
		offset, count, err := isr.Next()
		if count > 0 {
			fmt.Printf("%v\t%v\n", offset, count)
			streams++
			pages += int64(count)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("Error reading stream:  %v", err)
		}
	}
	log.Printf("%s pages in %s streams",
		humanize.Comma(pages), humanize.Comma(streams))
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatalf("Usage: %s [-entries] index.txt.bz2", os.Args[0])
	}

	r, closer := openIndex(flag.Arg(0))
	defer closer()

	if *entries {
		printEntries(r)
	} else {
		printStreams(r)
	}
}
