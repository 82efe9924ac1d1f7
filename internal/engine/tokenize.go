package engine

import (
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// token is one word of a document with its byte offsets into the original text.
type token struct {
	start, end int
	key        string // lowered form used for frequency counting
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// tokenize splits text into maximal runs of word runes. Keys are lowered with
// a fresh Caser, since Casers carry state and must not be shared.
func tokenize(text string) []token {
	lower := cases.Lower(language.Und)

	var tokens []token
	start := -1
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, token{start: start, end: i, key: lower.String(text[start:i])})
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, token{start: start, end: len(text), key: lower.String(text[start:])})
	}
	return tokens
}

// repeated returns the distinct token keys occurring more than minRepeats
// times, in order of first occurrence, plus the tokenization they came from.
func repeated(text string, minRepeats int) ([]string, []token) {
	tokens := tokenize(text)
	freq := make(map[string]int, len(tokens))
	var order []string
	for _, t := range tokens {
		if freq[t.key] == 0 {
			order = append(order, t.key)
		}
		freq[t.key]++
	}

	var keys []string
	for _, k := range order {
		if freq[k] > minRepeats {
			keys = append(keys, k)
		}
	}
	return keys, tokens
}
