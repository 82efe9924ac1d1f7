// Package rules holds the catalog of named detection rules. A Registry is
// built once at startup, validated, and shared read-only afterwards.
package rules

import (
	"regexp"

	"github.com/Ruchi0214/Regexia/internal/domain"
	ahocorasick "github.com/cloudflare/ahocorasick"
	"golang.org/x/text/cases"
)

// Registry is the immutable rule catalog. It is safe for concurrent use.
type Registry struct {
	rules  []*domain.Rule
	byName map[string]int

	// anchor prefilter: one automaton over every distinct anchor
	matcher     *ahocorasick.Matcher
	anchorRules [][]int // anchor index -> rule positions
}

// NewRegistry validates specs and compiles them. Any invalid entry aborts
// construction with a *ConfigurationError.
func NewRegistry(specs []Spec) (*Registry, error) {
	r := &Registry{
		rules:  make([]*domain.Rule, 0, len(specs)),
		byName: make(map[string]int, len(specs)),
	}

	fold := cases.Fold()
	anchorIndex := make(map[string]int)
	var anchors []string

	for _, spec := range specs {
		rule, err := compile(spec)
		if err != nil {
			return nil, err
		}
		if _, dup := r.byName[rule.Name]; dup {
			return nil, &ConfigurationError{Rule: rule.Name, Reason: "duplicate rule name"}
		}

		pos := len(r.rules)
		r.byName[rule.Name] = pos
		r.rules = append(r.rules, rule)

		for i, a := range rule.Anchors {
			folded := fold.String(a)
			rule.Anchors[i] = folded
			idx, seen := anchorIndex[folded]
			if !seen {
				idx = len(anchors)
				anchorIndex[folded] = idx
				anchors = append(anchors, folded)
				r.anchorRules = append(r.anchorRules, nil)
			}
			r.anchorRules[idx] = append(r.anchorRules[idx], pos)
		}
	}

	if len(anchors) > 0 {
		r.matcher = ahocorasick.NewStringMatcher(anchors)
	}

	return r, nil
}

// MustDefault builds the registry from DefaultCatalog and panics on error.
func MustDefault() *Registry {
	r, err := NewRegistry(DefaultCatalog())
	if err != nil {
		panic(err)
	}
	return r
}

func compile(spec Spec) (*domain.Rule, error) {
	if spec.Name == "" {
		return nil, &ConfigurationError{Reason: "rule name is required"}
	}

	kind := spec.Kind
	if kind == 0 && spec.KindName != "" {
		kind = domain.ParseRuleKind(spec.KindName)
	}

	rule := &domain.Rule{
		Name:      spec.Name,
		Kind:      kind,
		Anchors:   append([]string(nil), spec.Anchors...),
		WholeWord: spec.WholeWord,
	}

	switch kind {
	case domain.KindPattern:
		if spec.Expression == "" {
			return nil, &ConfigurationError{Rule: spec.Name, Reason: "pattern rule requires an expression"}
		}
		re, err := regexp.Compile("(?i)" + spec.Expression)
		if err != nil {
			return nil, &ConfigurationError{Rule: spec.Name, Reason: "invalid expression: " + err.Error()}
		}
		rule.Pattern = re
		if len(spec.Anchors) > 0 {
			if err = checkAnchors(spec.Expression, spec.Anchors); err != nil {
				return nil, &ConfigurationError{Rule: spec.Name, Reason: err.Error()}
			}
		}

	case domain.KindStatistical:
		if spec.Expression != "" || len(spec.Anchors) > 0 || spec.WholeWord {
			return nil, &ConfigurationError{Rule: spec.Name, Reason: "statistical rule takes no expression, anchors or whole_word"}
		}
		switch {
		case spec.MinRepeats < 0:
			return nil, &ConfigurationError{Rule: spec.Name, Reason: "min_repeats must not be negative"}
		case spec.MinRepeats == 0:
			rule.MinRepeats = DefaultMinRepeats
		default:
			rule.MinRepeats = spec.MinRepeats
		}

	default:
		name := spec.KindName
		if name == "" {
			name = kind.String()
		}
		return nil, &ConfigurationError{Rule: spec.Name, Reason: "unknown rule kind " + name}
	}

	return rule, nil
}

// Lookup returns the rule registered under name.
func (r *Registry) Lookup(name string) (*domain.Rule, bool) {
	pos, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.rules[pos], true
}

// Position returns the catalog position of name, or -1.
func (r *Registry) Position(name string) int {
	if pos, ok := r.byName[name]; ok {
		return pos
	}
	return -1
}

// Names lists the rule names in catalog order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.Name
	}
	return names
}

// Len is the number of registered rules.
func (r *Registry) Len() int {
	return len(r.rules)
}

// Candidates records which anchored rules might fire on a text.
type Candidates struct {
	registry *Registry
	possible []bool
}

// Candidates runs the anchor prefilter once over text. A rule reported as
// impossible has zero matches in text.
func (r *Registry) Candidates(text string) Candidates {
	c := Candidates{registry: r, possible: make([]bool, len(r.rules))}
	if r.matcher == nil || text == "" {
		return c
	}

	folded := cases.Fold().String(text)
	for _, hit := range r.matcher.MatchThreadSafe([]byte(folded)) {
		for _, pos := range r.anchorRules[hit] {
			c.possible[pos] = true
		}
	}
	return c
}

// MayMatch reports whether rule can have a non-zero count. Rules without
// anchors always may.
func (c Candidates) MayMatch(rule *domain.Rule) bool {
	if len(rule.Anchors) == 0 || c.registry == nil {
		return true
	}
	pos := c.registry.Position(rule.Name)
	if pos < 0 || pos >= len(c.possible) {
		return true
	}
	return c.possible[pos]
}
