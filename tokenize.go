package wikicorpus

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Default token length bounds, in runes.
const (
	DefaultMinTokenLen = 2
	DefaultMaxTokenLen = 15
)

// A Tokenizer splits plain text into lowercase word tokens.
//
// A token is a maximal run of letters, combining marks and
// underscores. Digits, punctuation and whitespace separate tokens.
// Tokens starting with an underscore are dropped.
type Tokenizer struct {
	MinLen int
	MaxLen int
	// KeepCase disables lowercasing.
	KeepCase bool
}

// DefaultTokenizer keeps tokens of 2 to 15 runes, lowercased.
var DefaultTokenizer = Tokenizer{
	MinLen: DefaultMinTokenLen,
	MaxLen: DefaultMaxTokenLen,
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || r == '_'
}

// Tokenize returns the tokens of text in order.
func (t Tokenizer) Tokenize(text string) []string {
	text = norm.NFC.String(text)
	if !t.KeepCase {
		text = strings.ToLower(text)
	}

	var rv []string
	for _, w := range strings.FieldsFunc(text, func(r rune) bool { return !isWordRune(r) }) {
		if w[0] == '_' {
			continue
		}
		n := utf8.RuneCountInString(w)
		if n < t.MinLen || (t.MaxLen > 0 && n > t.MaxLen) {
			continue
		}
		rv = append(rv, w)
	}
	return rv
}

// Tokenize strips markup from a wikitext body and tokenizes what
// remains with the DefaultTokenizer.
func Tokenize(wikitext string) []string {
	return DefaultTokenizer.Tokenize(StripMarkup(wikitext))
}
