package domain

import (
	"fmt"
	"unicode/utf8"
)

// Document is one entry of an input batch. ID is its stable, non-negative
// index in the batch.
type Document struct {
	ID      int    `json:"id"`
	RawText string `json:"text"`
}

// CoerceText converts any cell or JSON value into document text. It never fails:
// nil becomes "", strings and byte slices are used as-is, anything else is
// formatted with fmt.Sprint.
func CoerceText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// PreviewSuffix is appended to every text preview.
const PreviewSuffix = "..."

// Preview returns the first n characters of text followed by PreviewSuffix.
// The suffix is appended even when text is shorter than n.
func Preview(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text + PreviewSuffix
	}

	count := 0
	for i := range text {
		if count == n {
			return text[:i] + PreviewSuffix
		}
		count++
	}
	return text + PreviewSuffix
}
