package rules

import (
	"errors"
	"regexp/syntax"
	"strings"

	"golang.org/x/text/cases"
)

const (
	// maxLiteralSet bounds the literal sets built while checking anchors.
	maxLiteralSet = 1024
	// maxClassRunes is the largest character class expanded into literals.
	maxClassRunes = 64
)

var (
	errEmptyAnchor       = errors.New("anchors must not be empty strings")
	errAnchorsIncomplete = errors.New("anchors do not cover every match of the expression")
)

// checkAnchors verifies that every text expression can match contains one of
// anchors, case-folded. The prefilter skips a rule whose anchors are absent,
// so anchors that miss a match would silently zero the rule's count.
func checkAnchors(expression string, anchors []string) error {
	re, err := syntax.Parse("(?i)"+expression, syntax.Perl)
	if err != nil {
		return err
	}

	c := anchorChecker{fold: cases.Fold(), anchors: make([]string, 0, len(anchors))}
	for _, a := range anchors {
		if a == "" {
			return errEmptyAnchor
		}
		c.anchors = append(c.anchors, c.fold.String(a))
	}

	set, _, ok := c.literals(re)
	if !ok || !c.covered(set) {
		return errAnchorsIncomplete
	}
	return nil
}

type anchorChecker struct {
	fold    cases.Caser
	anchors []string
}

// literals returns a set of folded strings such that every match of re
// contains at least one of them. exact means every match is exactly one of
// them. ok is false when no such set is known.
func (c *anchorChecker) literals(re *syntax.Regexp) (set []string, exact, ok bool) {
	switch re.Op {
	case syntax.OpLiteral:
		return []string{c.fold.String(string(re.Rune))}, true, true

	case syntax.OpEmptyMatch, syntax.OpBeginLine, syntax.OpEndLine,
		syntax.OpBeginText, syntax.OpEndText, syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return []string{""}, true, true

	case syntax.OpCharClass:
		return c.class(re.Rune)

	case syntax.OpCapture:
		return c.literals(re.Sub[0])

	case syntax.OpPlus:
		set, _, ok = c.literals(re.Sub[0])
		return set, false, ok

	case syntax.OpRepeat:
		if re.Min < 1 {
			return nil, false, false
		}
		set, _, ok = c.literals(re.Sub[0])
		return set, false, ok

	case syntax.OpAlternate:
		exact = true
		for _, sub := range re.Sub {
			s, ex, subOK := c.literals(sub)
			if !subOK {
				return nil, false, false
			}
			exact = exact && ex
			set = union(set, s)
		}
		return set, exact, len(set) <= maxLiteralSet

	case syntax.OpConcat:
		return c.concat(re.Sub)

	default:
		return nil, false, false
	}
}

// concat joins runs of exact sub-expressions into products. When the whole
// concatenation is not exact, the first run or inexact part whose literals
// are all covered by anchors stands for it.
func (c *anchorChecker) concat(subs []*syntax.Regexp) ([]string, bool, bool) {
	var candidates [][]string
	run := []string{""}
	allExact := true

	flush := func() {
		candidates = append(candidates, run)
		run = []string{""}
	}

	for _, sub := range subs {
		s, ex, ok := c.literals(sub)
		switch {
		case ok && ex:
			if len(run)*len(s) <= maxLiteralSet {
				run = product(run, s)
				continue
			}
			allExact = false
			flush()
			run = s
		case ok:
			allExact = false
			flush()
			candidates = append(candidates, s)
		default:
			allExact = false
			flush()
		}
	}

	if allExact {
		return run, true, true
	}
	flush()
	for _, cand := range candidates {
		if c.covered(cand) {
			return cand, false, true
		}
	}
	return nil, false, false
}

func (c *anchorChecker) class(ranges []rune) ([]string, bool, bool) {
	size := 0
	for i := 0; i+1 < len(ranges); i += 2 {
		size += int(ranges[i+1]-ranges[i]) + 1
		if size > maxClassRunes {
			return nil, false, false
		}
	}

	var set []string
	for i := 0; i+1 < len(ranges); i += 2 {
		for r := ranges[i]; r <= ranges[i+1]; r++ {
			set = union(set, []string{c.fold.String(string(r))})
		}
	}
	return set, true, len(set) > 0
}

func (c *anchorChecker) covered(set []string) bool {
	if len(set) == 0 {
		return false
	}
	for _, s := range set {
		found := false
		for _, a := range c.anchors {
			if strings.Contains(s, a) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func product(prefixes, suffixes []string) []string {
	out := make([]string, 0, len(prefixes)*len(suffixes))
	seen := make(map[string]struct{}, cap(out))
	for _, p := range prefixes {
		for _, s := range suffixes {
			v := p + s
			if _, dup := seen[v]; !dup {
				seen[v] = struct{}{}
				out = append(out, v)
			}
		}
	}
	return out
}

func union(a, b []string) []string {
	for _, s := range b {
		dup := false
		for _, have := range a {
			if have == s {
				dup = true
				break
			}
		}
		if !dup {
			a = append(a, s)
		}
	}
	return a
}
