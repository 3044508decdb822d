package wikicorpus

import (
	"encoding/xml"
	"errors"
	"io"
)

// SiteInfo is the toplevel site info describing basic dump properties.
type SiteInfo struct {
	SiteName   string      `xml:"sitename"`
	Base       string      `xml:"base"`
	Generator  string      `xml:"generator"`
	Case       string      `xml:"case"`
	Namespaces []Namespace `xml:"namespaces>namespace"`
}

// A Namespace as declared in the site info.
type Namespace struct {
	Key   int    `xml:"key,attr"`
	Case  string `xml:"case,attr"`
	Value string `xml:",chardata"`
}

// A Contributor is a user who contributed a revision.
type Contributor struct {
	ID       uint64 `xml:"id"`
	Username string `xml:"username"`
}

// A Revision to a page.
type Revision struct {
	ID          uint64      `xml:"id"`
	Timestamp   string      `xml:"timestamp"`
	Contributor Contributor `xml:"contributor"`
	Comment     string      `xml:"comment"`
	Text        string      `xml:"text"`
}

// Redirect names the page a redirect page points at.
type Redirect struct {
	Title string `xml:"title,attr"`
}

// A Page from the dump.
type Page struct {
	Title     string     `xml:"title"`
	Ns        int        `xml:"ns"`
	ID        uint64     `xml:"id"`
	Redirect  *Redirect  `xml:"redirect"`
	Revisions []Revision `xml:"revision"`
}

// Text returns the body of the most recent revision.
func (p *Page) Text() string {
	if len(p.Revisions) == 0 {
		return ""
	}
	return p.Revisions[len(p.Revisions)-1].Text
}

// A Parser emits wiki pages.
type Parser interface {
	// Next returns the next page, or io.EOF when the dump is exhausted.
	Next() (*Page, error)
	// SiteInfo returns the site info found at the top of the dump.
	SiteInfo() SiteInfo
}

var errNoMediawiki = errors.New("no mediawiki root element found")

type singleStreamParser struct {
	siteInfo SiteInfo
	x        *xml.Decoder
}

// readHeader positions d just past <siteinfo>.
func readHeader(d *xml.Decoder) (SiteInfo, error) {
	for {
		t, err := d.Token()
		if err == io.EOF {
			return SiteInfo{}, errNoMediawiki
		}
		if err != nil {
			return SiteInfo{}, err
		}
		if se, ok := t.(xml.StartElement); ok {
			if se.Name.Local != "mediawiki" {
				return SiteInfo{}, errNoMediawiki
			}
			break
		}
	}

	si := SiteInfo{}
	err := d.Decode(&si)
	return si, err
}

// NewParser gets a wikipedia dump parser reading from the given reader.
//
// The reader must deliver uncompressed XML, wrap it in bzip2.NewReader
// for the usual dump files.
func NewParser(r io.Reader) (Parser, error) {
	d := xml.NewDecoder(r)
	si, err := readHeader(d)
	if err != nil {
		return nil, err
	}

	return &singleStreamParser{
		siteInfo: si,
		x:        d,
	}, nil
}

func (p *singleStreamParser) Next() (*Page, error) {
	rv := new(Page)
	if err := p.x.Decode(rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (p *singleStreamParser) SiteInfo() SiteInfo {
	return p.siteInfo
}
