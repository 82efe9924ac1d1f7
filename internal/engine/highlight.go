package engine

import (
	"sort"
	"strings"
)

// Default highlight markers.
const (
	DefaultHighlightOpen  = `<span class="highlight">`
	DefaultHighlightClose = `</span>`
)

var escaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// Span is a byte range [Start, End) of the original text matched by a rule.
// Order is the evaluation position of the rule that produced it.
type Span struct {
	Start int
	End   int
	Order int
}

// Markers is the pair of strings wrapped around highlighted regions.
type Markers struct {
	Open  string
	Close string
}

// DefaultMarkers returns the standard highlight span markers.
func DefaultMarkers() Markers {
	return Markers{Open: DefaultHighlightOpen, Close: DefaultHighlightClose}
}

// Render escapes text and wraps every span in the default markers.
func Render(text string, spans []Span) string {
	return DefaultMarkers().Render(text, spans)
}

// Render escapes text and wraps every span in m. Overlapping or touching spans
// are merged into one region so markers never nest. text is not modified.
func (m Markers) Render(text string, spans []Span) string {
	regions := mergeSpans(spans, len(text))
	if len(regions) == 0 {
		return escaper.Replace(text)
	}

	var b strings.Builder
	b.Grow(len(text) + len(regions)*(len(m.Open)+len(m.Close)))

	prev := 0
	for _, r := range regions {
		_, _ = escaper.WriteString(&b, text[prev:r.Start])
		b.WriteString(m.Open)
		_, _ = escaper.WriteString(&b, text[r.Start:r.End])
		b.WriteString(m.Close)
		prev = r.End
	}
	_, _ = escaper.WriteString(&b, text[prev:])

	return b.String()
}

// mergeSpans sorts spans by start then rule order and collapses overlapping
// or adjacent ones. Empty and out-of-range spans are dropped.
func mergeSpans(spans []Span, limit int) []Span {
	valid := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Start < 0 || s.End > limit || s.Start >= s.End {
			continue
		}
		valid = append(valid, s)
	}
	if len(valid) == 0 {
		return nil
	}

	sort.SliceStable(valid, func(i, j int) bool {
		if valid[i].Start != valid[j].Start {
			return valid[i].Start < valid[j].Start
		}
		return valid[i].Order < valid[j].Order
	})

	merged := []Span{valid[0]}
	for _, s := range valid[1:] {
		last := &merged[len(merged)-1]
		if s.Start <= last.End {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}
