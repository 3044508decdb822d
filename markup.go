package wikicorpus

import (
	"html"
	"regexp"
	"strings"
)

const maxMarkupPasses = 3

var (
	commentRE, nowikiRE, refRE, mathRE *regexp.Regexp
	tagRE, categoryRE, interwikiRE     *regexp.Regexp
	extLinkRE, labeledLinkRE           *regexp.Regexp
	tableRE, cellRE, headingRE         *regexp.Regexp
	quoteRE                            *regexp.Regexp
)

func init() {
	commentRE = regexp.MustCompile(`(?s)<!--.*?-->`)
	nowikiRE = regexp.MustCompile(`(?s)<nowiki([> ].*?)?(</nowiki>|/>)`)
	refRE = regexp.MustCompile(`(?s)<ref([> ].*?)?(</ref>|/>)`)
	mathRE = regexp.MustCompile(`(?s)<math([> ].*?)?(</math>|/>)`)
	tagRE = regexp.MustCompile(`(?s)<[^<>]*>`)
	categoryRE = regexp.MustCompile(`\[\[[Cc]ategory:[^\[\]]*\]\]`)
	interwikiRE = regexp.MustCompile(`(?m)^\[\[[a-z][a-z][\w-]*:[^:\[\]]+\]\][ \t]*$`)
	extLinkRE = regexp.MustCompile(`\[(?:https?|ftp)://[^\s\[\]]*(?: ([^\[\]]*))?\]`)
	labeledLinkRE = regexp.MustCompile(`\[\[[^\[\]|]*\|([^\[\]]*)\]\]`)
	tableRE = regexp.MustCompile(`(?m)^[ \t]*(\{\||\|\}|\|-|\|\+)[^\n]*$`)
	cellRE = regexp.MustCompile(`\|\||!!`)
	headingRE = regexp.MustCompile(`(?m)^={1,6}[ \t]*(.*?)[ \t]*={1,6}[ \t]*$`)
	quoteRE = regexp.MustCompile(`'{2,}`)
}

// StripMarkup reduces wikitext to plain text.
//
// Link labels, external link descriptions, file captions and heading
// text survive. Templates, footnotes, comments, categories, interwiki
// links, math and html tags are dropped.
func StripMarkup(text string) string {
	text = html.UnescapeString(text)
	text = commentRE.ReplaceAllString(text, "")
	text = refRE.ReplaceAllString(text, "")

	for i := 0; i < maxMarkupPasses; i++ {
		prev := text
		text = stripOnce(text)
		if text == prev {
			break
		}
	}
	return text
}

func stripOnce(text string) string {
	text = removeTemplates(text)
	text = removeFiles(text)
	text = categoryRE.ReplaceAllString(text, "")
	text = interwikiRE.ReplaceAllString(text, "")
	text = extLinkRE.ReplaceAllString(text, "$1")
	text = labeledLinkRE.ReplaceAllString(text, "$1")
	text = nowikiRE.ReplaceAllString(text, "")
	text = mathRE.ReplaceAllString(text, "")
	text = tagRE.ReplaceAllString(text, "")
	text = tableRE.ReplaceAllString(text, "")
	text = cellRE.ReplaceAllString(text, "\n")
	text = headingRE.ReplaceAllString(text, "$1")
	text = strings.NewReplacer("[[", "", "]]", "").Replace(text)
	return quoteRE.ReplaceAllString(text, "")
}

// removeTemplates drops {{...}} blocks, including nested ones. An
// unterminated template swallows the rest of the text.
func removeTemplates(s string) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	depth := 0
	for i := 0; i < len(s); i++ {
		switch {
		case strings.HasPrefix(s[i:], "{{"):
			depth++
			i++
		case depth > 0 && strings.HasPrefix(s[i:], "}}"):
			depth--
			i++
		case depth == 0:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

var filePrefixes = []string{"[[File:", "[[file:", "[[Image:", "[[image:"}

func nextFileLink(s string) int {
	at := -1
	for _, p := range filePrefixes {
		if i := strings.Index(s, p); i >= 0 && (at < 0 || i < at) {
			at = i
		}
	}
	return at
}

// removeFiles replaces [[File:...]] and [[Image:...]] links with their
// caption. Links without one vanish.
func removeFiles(s string) string {
	var b strings.Builder
	for {
		start := nextFileLink(s)
		if start < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:start])

		depth, end := 0, -1
		for i := start; i+1 < len(s); i++ {
			if s[i] == '[' && s[i+1] == '[' {
				depth++
				i++
			} else if s[i] == ']' && s[i+1] == ']' {
				depth--
				i++
				if depth == 0 {
					end = i + 1
					break
				}
			}
		}
		if end < 0 {
			// Unbalanced, leave it to the bracket stripping.
			b.WriteString(s[start:])
			return b.String()
		}

		b.WriteString(fileCaption(s[start+2 : end-2]))
		s = s[end:]
	}
}

// fileCaption returns what follows the last '|' that is not inside a
// nested link.
func fileCaption(inner string) string {
	depth, bar := 0, -1
	for i := 0; i < len(inner); i++ {
		switch {
		case strings.HasPrefix(inner[i:], "[["):
			depth++
			i++
		case strings.HasPrefix(inner[i:], "]]"):
			depth--
			i++
		case inner[i] == '|' && depth == 0:
			bar = i
		}
	}
	if bar < 0 {
		return ""
	}
	return inner[bar+1:]
}
