package wikicorpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var errBadIndexLine = errors.New("bad index record")

// An IndexEntry is an individual article from a multistream index.
type IndexEntry struct {
	StreamOffset int64
	PageID       uint64
	ArticleName  string
}

func (i IndexEntry) String() string {
	return fmt.Sprintf("%v:%v:%v",
		i.StreamOffset, i.PageID, i.ArticleName)
}

// An IndexReader reads a wikipedia multistream index, one
// offset:pageid:title line at a time.
type IndexReader struct {
	lines      *bufio.Reader
	lineno     int
	base       int64
	prevOffset int64
}

// NewIndexReader gets a wikipedia index reader.
func NewIndexReader(r io.Reader) *IndexReader {
	return &IndexReader{lines: bufio.NewReader(r)}
}

func (ir *IndexReader) readLine() (string, error) {
	for {
		line, err := ir.lines.ReadString('\n')
		if line == "" && err != nil {
			return "", err
		}
		ir.lineno++
		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			return line, nil
		}
		if err != nil {
			return "", err
		}
	}
}

// Next gets the next entry from the index stream.
//
// Old indexes stored offsets as signed 32 bit values, so a drop in
// offset is taken to mean the counter wrapped.
func (ir *IndexReader) Next() (IndexEntry, error) {
	line, err := ir.readLine()
	if err != nil {
		return IndexEntry{}, err
	}

	parts := strings.SplitN(line, ":", 3)
	if len(parts) != 3 {
		return IndexEntry{}, fmt.Errorf("line %d: %w", ir.lineno, errBadIndexLine)
	}
	offset, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return IndexEntry{}, fmt.Errorf("line %d: %w", ir.lineno, err)
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return IndexEntry{}, fmt.Errorf("line %d: %w", ir.lineno, err)
	}

	if offset < ir.prevOffset {
		ir.base += 1 << 32
	}
	ir.prevOffset = offset

	return IndexEntry{
		StreamOffset: ir.base + offset,
		PageID:       id,
		ArticleName:  parts[2],
	}, nil
}

// IndexSummaryReader collapses index entries into one (offset, count)
// pair per bzip2 stream.
type IndexSummaryReader struct {
	index   *IndexReader
	pending IndexEntry
	count   int
}

// NewIndexSummaryReader gets a new IndexSummaryReader from the given
// stream of index lines.
func NewIndexSummaryReader(r io.Reader) (*IndexSummaryReader, error) {
	ir := NewIndexReader(r)
	first, err := ir.Next()
	if err != nil {
		return nil, err
	}
	return &IndexSummaryReader{index: ir, pending: first, count: 1}, nil
}

// Next gets the next offset and count from the index summary reader.
//
// The last stream is returned along with io.EOF. Calls after that
// return a zero offset and count.
func (isr *IndexSummaryReader) Next() (offset int64, count int, err error) {
	for {
		e, err := isr.index.Next()
		if err != nil {
			offset, count = isr.pending.StreamOffset, isr.count
			isr.pending = IndexEntry{}
			isr.count = 0
			return offset, count, err
		}

		if e.StreamOffset != isr.pending.StreamOffset {
			offset, count = isr.pending.StreamOffset, isr.count
			isr.pending = e
			isr.count = 1
			return offset, count, nil
		}
		isr.count++
	}
}
