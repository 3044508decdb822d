package wikicorpus

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"regexp"
	"strings"
)

var linkRE, fileRE *regexp.Regexp

func init() {
	linkRE = regexp.MustCompile(`\[\[([^\|\]\[]+)`)
	fileRE = regexp.MustCompile(`\[\[(?:[Ff]ile|[Ii]mage):([^\|\]]+)`)
}

// FindLinks finds all the link targets within an article body.
//
// Commented out and nowiki'd links are ignored.
func FindLinks(text string) []string {
	cleaned := nowikiRE.ReplaceAllString(commentRE.ReplaceAllString(text, ""), "")
	matches := linkRE.FindAllStringSubmatch(cleaned, -1)

	rv := make([]string, 0, len(matches))
	for _, x := range matches {
		rv = append(rv, strings.TrimSpace(x[1]))
	}
	return rv
}

// FindFiles finds all the File and Image references within an
// article body.
//
// This includes things in comments, as many are commented out.
func FindFiles(text string) []string {
	cleaned := nowikiRE.ReplaceAllString(text, "")
	matches := fileRE.FindAllStringSubmatch(cleaned, -1)

	rv := []string{}
	for _, x := range matches {
		rv = append(rv, strings.TrimSpace(x[1]))
	}
	return rv
}

// URLForFile gets the wikimedia commons URL for the given named file.
func URLForFile(name string) string {
	name = strings.Replace(name, " ", "_", -1)
	sum := md5.Sum([]byte(name))
	h := hex.EncodeToString(sum[:])

	return "http://upload.wikimedia.org/wikipedia/commons/" +
		h[0:1] + "/" + h[0:2] + "/" + url.QueryEscape(name)
}
