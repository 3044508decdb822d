package wikicorpus

import (
	"compress/bzip2"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// A streamChunk is one bzip2 stream of the multistream dump. Workers
// fill pages and close it, err is set before the close.
type streamChunk struct {
	offset int64
	count  int
	pages  chan *Page
	err    error
}

func newStreamChunk(offset int64, count int) *streamChunk {
	return &streamChunk{
		offset: offset,
		count:  count,
		pages:  make(chan *Page, count),
	}
}

func failedChunk(err error) *streamChunk {
	c := newStreamChunk(0, 0)
	c.err = err
	close(c.pages)
	return c
}

// decode reads the chunk's pages from r, which must be seekable to
// the chunk's offset.
func (c *streamChunk) decode(r io.ReadSeeker) {
	defer close(c.pages)

	if _, err := r.Seek(c.offset, io.SeekStart); err != nil {
		c.err = fmt.Errorf("seeking to %v: %w", c.offset, err)
		return
	}
	d := xml.NewDecoder(bzip2.NewReader(r))

	// Stop at count, the final stream ends with an unmatched
	// </mediawiki>.
	for i := 0; i < c.count; i++ {
		p := new(Page)
		err := d.Decode(p)
		if err == io.EOF {
			return
		}
		if err != nil {
			c.err = fmt.Errorf("stream at %v: %w", c.offset, err)
			return
		}
		c.pages <- p
	}
}

// IndexedParser is a Parser over a multistream dump.
type IndexedParser struct {
	siteInfo SiteInfo

	work    chan *streamChunk
	ordered chan *streamChunk
	done    chan struct{}
	once    sync.Once

	cur *streamChunk
}

// NewIndexedParser gets a parser for a multistream dump, decoding
// streams on numWorkers goroutines.
//
// Pages are returned in dump order. Close the parser when abandoning
// it before io.EOF.
func NewIndexedParser(indexfn, datafn string, numWorkers int) (*IndexedParser, error) {
	if numWorkers < 1 {
		numWorkers = 1
	}

	r, err := os.Open(datafn)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	si, err := readHeader(xml.NewDecoder(bzip2.NewReader(r)))
	if err != nil {
		return nil, fmt.Errorf("reading header of %v: %w", datafn, err)
	}

	rv := &IndexedParser{
		siteInfo: si,
		work:     make(chan *streamChunk, numWorkers),
		ordered:  make(chan *streamChunk, numWorkers*2),
		done:     make(chan struct{}),
	}

	for i := 0; i < numWorkers; i++ {
		go rv.decodeWorker(datafn)
	}
	go rv.indexWorker(indexfn)

	return rv, nil
}

// send queues a chunk for ordered delivery and, if it still needs
// decoding, for the workers.
func (p *IndexedParser) send(c *streamChunk, decode bool) bool {
	select {
	case p.ordered <- c:
	case <-p.done:
		return false
	}
	if !decode {
		return true
	}
	select {
	case p.work <- c:
		return true
	case <-p.done:
		// Nobody will read it now.
		c.err = io.ErrClosedPipe
		close(c.pages)
		return false
	}
}

// openIndexStream decompresses the index if its name says it is
// compressed.
func openIndexStream(name string, r io.Reader) io.Reader {
	if strings.HasSuffix(name, ".bz2") {
		return bzip2.NewReader(r)
	}
	return r
}

func (p *IndexedParser) indexWorker(indexfn string) {
	defer close(p.ordered)
	defer close(p.work)

	f, err := os.Open(indexfn)
	if err != nil {
		p.send(failedChunk(err), false)
		return
	}
	defer f.Close()

	isr, err := NewIndexSummaryReader(openIndexStream(indexfn, f))
	if err == io.EOF {
		return
	}
	if err != nil {
		p.send(failedChunk(fmt.Errorf("reading index %v: %w", indexfn, err)), false)
		return
	}
	for {
		offset, count, err := isr.Next()
		if count > 0 {
			if !p.send(newStreamChunk(offset, count), true) {
				return
			}
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			p.send(failedChunk(fmt.Errorf("reading index %v: %w", indexfn, err)), false)
			return
		}
	}
}

func (p *IndexedParser) decodeWorker(datafn string) {
	r, err := os.Open(datafn)
	if err == nil {
		defer r.Close()
	}
	for c := range p.work {
		if err != nil {
			c.err = err
			close(c.pages)
			continue
		}
		c.decode(r)
	}
}

// Next returns the next page in dump order, or io.EOF.
func (p *IndexedParser) Next() (*Page, error) {
	for {
		if p.cur == nil {
			c, ok := <-p.ordered
			if !ok {
				return nil, io.EOF
			}
			p.cur = c
		}
		if pg, ok := <-p.cur.pages; ok {
			return pg, nil
		}
		err := p.cur.err
		p.cur = nil
		if err != nil {
			return nil, err
		}
	}
}

// SiteInfo returns the site info from the dump's first stream.
func (p *IndexedParser) SiteInfo() SiteInfo {
	return p.siteInfo
}

// Close stops the background workers. It is safe to call more than
// once.
func (p *IndexedParser) Close() error {
	p.once.Do(func() { close(p.done) })
	return nil
}
