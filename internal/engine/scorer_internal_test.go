package engine

import (
	"testing"

	"github.com/Ruchi0214/Regexia/internal/domain"
	"github.com/Ruchi0214/Regexia/internal/rules"
	"github.com/stretchr/testify/assert"
)

func TestScore_RecoversDocumentFault(t *testing.T) {
	s := NewScorer(rules.MustDefault(), Markers{}, 0, nil, nil)
	good, _ := s.registry.Lookup(rules.AttackWords)
	broken := &domain.Rule{Name: "broken"}

	res, annotated := s.score(domain.Document{ID: 4, RawText: "a <fake> b"}, []*domain.Rule{good, broken}, true)

	assert.Equal(t, 4, res.DocumentID)
	assert.Equal(t, 0, res.Score)
	assert.Empty(t, res.Matches)
	assert.Equal(t, "a &lt;fake&gt; b", annotated)
	assert.Equal(t, "a <fake> b...", res.TextPreview)
}

func TestResolve_CatalogOrderAndDedup(t *testing.T) {
	s := NewScorer(rules.MustDefault(), Markers{}, 0, nil, nil)

	got := s.resolve([]string{rules.Repetition, "nope", rules.EmotionalTrigger, rules.Repetition})

	names := make([]string, len(got))
	for i, r := range got {
		names[i] = r.Name
	}
	assert.Equal(t, []string{rules.EmotionalTrigger, rules.Repetition}, names)
	assert.Nil(t, s.resolve(nil))
}

func TestTokenize(t *testing.T) {
	toks := tokenize("Héllo, wörld_2! ÉTÉ")

	keys := make([]string, len(toks))
	for i, tk := range toks {
		keys[i] = tk.key
	}
	assert.Equal(t, []string{"héllo", "wörld_2", "été"}, keys)
	assert.Equal(t, "Héllo", "Héllo, wörld_2! ÉTÉ"[toks[0].start:toks[0].end])
}
