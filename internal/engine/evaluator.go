package engine

import (
	"unicode/utf8"

	"github.com/Ruchi0214/Regexia/internal/domain"
	"github.com/Ruchi0214/Regexia/internal/rules"
)

// Evaluation is the result of applying one rule to one text.
type Evaluation struct {
	Count int
	// Spans is only populated when annotation was requested and Count > 0.
	Spans []Span
}

// Evaluate applies rule to text. Count does not depend on annotate.
func Evaluate(rule *domain.Rule, text string, annotate bool) Evaluation {
	switch rule.Kind {
	case domain.KindPattern:
		return evaluatePattern(rule, text, annotate)
	case domain.KindStatistical:
		return evaluateRepetition(rule, text, annotate)
	default:
		panic(&rules.ConfigurationError{Rule: rule.Name, Reason: "unknown rule kind " + rule.Kind.String()})
	}
}

// EvaluateText applies a single rule and renders its highlighting with the
// default markers. Without annotate the text is returned as-is.
func EvaluateText(rule *domain.Rule, text string, annotate bool) (int, string) {
	ev := Evaluate(rule, text, annotate)
	if !annotate {
		return ev.Count, text
	}
	return ev.Count, Render(text, ev.Spans)
}

func evaluatePattern(rule *domain.Rule, text string, annotate bool) Evaluation {
	locs := rule.Pattern.FindAllStringIndex(text, -1)
	if rule.WholeWord {
		locs = wholeWords(text, locs)
	}
	ev := Evaluation{Count: len(locs)}
	if !annotate || ev.Count == 0 {
		return ev
	}

	ev.Spans = make([]Span, 0, len(locs))
	for _, loc := range locs {
		ev.Spans = append(ev.Spans, Span{Start: loc[0], End: loc[1]})
	}
	return ev
}

// wholeWords keeps the matches that neither start nor end inside a word,
// using the tokenizer's notion of a word rune.
func wholeWords(text string, locs [][]int) [][]int {
	kept := locs[:0]
	for _, loc := range locs {
		if !continuesWord(text, loc[0], loc[1]) {
			kept = append(kept, loc)
		}
	}
	return kept
}

func continuesWord(text string, start, end int) bool {
	if start >= end {
		return false
	}
	if start > 0 {
		first, _ := utf8.DecodeRuneInString(text[start:])
		prev, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(first) && isWordRune(prev) {
			return true
		}
	}
	if end < len(text) {
		last, _ := utf8.DecodeLastRuneInString(text[:end])
		next, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(last) && isWordRune(next) {
			return true
		}
	}
	return false
}

func evaluateRepetition(rule *domain.Rule, text string, annotate bool) Evaluation {
	keys, tokens := repeated(text, rule.MinRepeats)
	ev := Evaluation{Count: len(keys)}
	if !annotate || ev.Count == 0 {
		return ev
	}

	hot := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		hot[k] = struct{}{}
	}
	for _, t := range tokens {
		if _, ok := hot[t.key]; ok {
			ev.Spans = append(ev.Spans, Span{Start: t.start, End: t.end})
		}
	}
	return ev
}
