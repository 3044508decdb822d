package wikicorpus

import (
	"reflect"
	"testing"
)

func TestTokenizer(t *testing.T) {
	tests := []struct {
		tok Tokenizer
		in  string
		exp []string
	}{
		{DefaultTokenizer, "Hello, World! It's 2023 and café_au_lait",
			[]string{"hello", "world", "it", "and", "café_au_lait"}},
		{DefaultTokenizer, "foo_bar __init__ _x y_", []string{"foo_bar", "y_"}},
		{DefaultTokenizer, "x2_y z3", nil},
		{DefaultTokenizer, "Cafe\u0301", []string{"caf\u00e9"}},
		{DefaultTokenizer, "Привет мир", []string{"привет", "мир"}},
		{DefaultTokenizer, "a supercalifragilistic word", []string{"word"}},
		{DefaultTokenizer, "", nil},
		{Tokenizer{MinLen: 1}, "a supercalifragilistic word",
			[]string{"a", "supercalifragilistic", "word"}},
		{Tokenizer{MinLen: 2, MaxLen: 15, KeepCase: true}, "Hello world",
			[]string{"Hello", "world"}},
	}

	for _, test := range tests {
		got := test.tok.Tokenize(test.in)
		if !reflect.DeepEqual(test.exp, got) {
			t.Errorf("Expected %#v for %q, got %#v", test.exp, test.in, got)
		}
	}
}

func TestTokenizeWikitext(t *testing.T) {
	got := Tokenize("'''Gamma''' rays are [[photon|photons]].{{cite}}")
	exp := []string{"gamma", "rays", "are", "photons"}
	if !reflect.DeepEqual(exp, got) {
		t.Fatalf("Expected %#v, got %#v", exp, got)
	}
}
