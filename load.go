package wikicorpus

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// LoadCorpus reads a corpus file back into memory, one token list per
// line, in file order.
func LoadCorpus(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadCorpus(f)
}

// ReadCorpus splits every line of r on whitespace.
//
// Lines may be of any length, articles routinely exceed
// bufio.Scanner's default limit.
func ReadCorpus(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)
	rv := [][]string{}
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			rv = append(rv, strings.Fields(line))
		}
		if err == io.EOF {
			return rv, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
