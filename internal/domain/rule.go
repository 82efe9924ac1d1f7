// Package domain defines the types shared by the rule registry, the scoring
// engine and the outer API and storage layers.
package domain

import "regexp"

// RuleKind is the closed set of detector kinds. Every switch over RuleKind
// must handle each value; the registry refuses anything else.
type RuleKind int

const (
	// KindPattern rules count matches of a case-insensitive regular expression.
	KindPattern RuleKind = iota + 1
	// KindStatistical rules compute a property of the document's token stream.
	KindStatistical
)

// String returns the configuration name of the kind.
func (k RuleKind) String() string {
	switch k {
	case KindPattern:
		return "pattern"
	case KindStatistical:
		return "statistical"
	default:
		return "unknown"
	}
}

// ParseRuleKind maps a configuration name to a RuleKind.
// Unknown names return 0, which the registry rejects.
func ParseRuleKind(s string) RuleKind {
	switch s {
	case "pattern", "regex":
		return KindPattern
	case "statistical", "logic":
		return KindStatistical
	default:
		return 0
	}
}

// Rule is an immutable named detector.
type Rule struct {
	Name string
	Kind RuleKind

	// Pattern is set for KindPattern.
	Pattern *regexp.Regexp
	// Anchors are lowercase literals, at least one of which appears (case-folded)
	// in any text Pattern can match. Empty means the rule cannot be prefiltered.
	Anchors []string
	// WholeWord drops matches that start or end inside a Unicode word.
	// Regexp \b only knows ASCII word characters.
	WholeWord bool

	// MinRepeats is the frequency a token must exceed to count, for KindStatistical.
	MinRepeats int
}
