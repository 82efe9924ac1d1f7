package engine_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Ruchi0214/Regexia/internal/domain"
	"github.com/Ruchi0214/Regexia/internal/engine"
	"github.com/Ruchi0214/Regexia/internal/rules"
	"github.com/Ruchi0214/Regexia/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const crisisText = "This is a crisis, a total crisis! 100% guaranteed danger."

func newEngine(t *testing.T, concurrency int) *engine.Engine {
	t.Helper()
	tp := telemetry.NewProvider(prometheus.NewRegistry())
	return engine.New(rules.MustDefault(), engine.Config{Concurrency: concurrency}, nil, tp)
}

func docs(texts ...string) []domain.Document {
	out := make([]domain.Document, len(texts))
	for i, text := range texts {
		out[i] = domain.Document{ID: i, RawText: text}
	}
	return out
}

func TestEngine_ListRuleNames(t *testing.T) {
	e := newEngine(t, 1)
	assert.Equal(t, rules.MustDefault().Names(), e.ListRuleNames())
	assert.Len(t, e.ListRuleNames(), 6)
}

func TestScorer_CrisisScenario(t *testing.T) {
	e := newEngine(t, 1)

	res, annotated := e.Scorer().Score(
		domain.Document{ID: 7, RawText: crisisText},
		[]string{rules.EmotionalTrigger, rules.Exaggeration},
		true,
	)

	assert.Equal(t, 7, res.DocumentID)
	assert.Equal(t, 6, res.Score)
	assert.Equal(t, map[string]int{rules.EmotionalTrigger: 3, rules.Exaggeration: 3}, res.Matches)
	assert.Equal(t, crisisText+"...", res.TextPreview)

	h := func(s string) string { return hl + s + "</span>" }
	assert.Equal(t,
		"This is a "+h("crisis")+", a "+h("total")+" "+h("crisis")+"! "+h("100%")+" "+h("guaranteed")+" "+h("danger")+".",
		annotated)
}

func TestScorer_RepetitionScenario(t *testing.T) {
	e := newEngine(t, 1)

	res, _ := e.Scorer().Score(
		domain.Document{RawText: "alpha one alpha two alpha three alpha four alpha"},
		[]string{rules.Repetition},
		false,
	)

	assert.Equal(t, 1, res.Score)
	assert.Equal(t, map[string]int{rules.Repetition: 1}, res.Matches)
}

func TestScorer_UnknownAndDuplicateRules(t *testing.T) {
	e := newEngine(t, 1)
	doc := domain.Document{RawText: crisisText}

	res, _ := e.Scorer().Score(doc, []string{"Nonexistent Rule", rules.EmotionalTrigger, rules.EmotionalTrigger}, false)

	assert.Equal(t, 3, res.Score)
	assert.Equal(t, map[string]int{rules.EmotionalTrigger: 3}, res.Matches)

	res, annotated := e.Scorer().Score(doc, nil, true)
	assert.Equal(t, 0, res.Score)
	assert.Empty(t, res.Matches)
	assert.Equal(t, crisisText, annotated)
}

func TestScorer_ScoreSaturates(t *testing.T) {
	e := newEngine(t, 1)

	res, _ := e.Scorer().Score(
		domain.Document{RawText: strings.Repeat("fake liar ", 8)},
		[]string{rules.AttackWords, rules.Repetition},
		false,
	)

	assert.Equal(t, domain.MaxScore, res.Score)
	assert.Equal(t, 16, res.Matches[rules.AttackWords])
	assert.Equal(t, 2, res.Matches[rules.Repetition])
}

func TestScorer_EscapesMarkup(t *testing.T) {
	e := newEngine(t, 1)

	res, annotated := e.Scorer().Score(
		domain.Document{RawText: "<script>alert('fake')</script>"},
		[]string{rules.AttackWords},
		true,
	)

	assert.Equal(t, 1, res.Score)
	assert.Equal(t, "&lt;script&gt;alert('"+hl+"fake</span>')&lt;/script&gt;", annotated)
	assert.NotContains(t, annotated, "<script>")
}

func TestScorer_OverlappingRulesDoNotNest(t *testing.T) {
	e := newEngine(t, 1)

	// "crisis" is both an Emotional Trigger and a repeated token.
	_, annotated := e.Scorer().Score(
		domain.Document{RawText: "crisis crisis crisis crisis"},
		[]string{rules.Repetition, rules.EmotionalTrigger},
		true,
	)

	assert.Equal(t, strings.Repeat(hl+"crisis</span> ", 3)+hl+"crisis</span>", annotated)
}

func TestScorer_PrefilterDoesNotChangeCounts(t *testing.T) {
	e := newEngine(t, 1)
	reg := rules.MustDefault()

	texts := []string{
		crisisText,
		"",
		"Nothing to see here.",
		"Only I know. TRUST ME. 3 out of 4 Scientists say so.",
		"The ENEMY is a traitor, radical and crooked; never forever always.",
		"Ünïcödé CRISIS with ſ and K kelvin",
	}
	names := reg.Names()

	for _, text := range texts {
		res, _ := e.Scorer().Score(domain.Document{RawText: text}, names, false)
		for _, name := range names {
			rule, _ := reg.Lookup(name)
			want := engine.Evaluate(rule, text, false).Count
			assert.Equal(t, want, res.Matches[name], "%s on %q", name, text)
		}
	}
}

// counts gives each document n occurrences of "crisis".
func crisisDocs(counts ...int) []domain.Document {
	texts := make([]string, len(counts))
	for i, n := range counts {
		texts[i] = strings.Repeat("crisis ", n)
	}
	return docs(texts...)
}

func TestAnalyzeBatch_TopKAndRanking(t *testing.T) {
	e := newEngine(t, 4)
	batch := crisisDocs(1, 5, 0, 5, 3, 10, 12, 2, 5, 0)

	report, err := e.AnalyzeBatch(context.Background(), batch, []string{rules.EmotionalTrigger},
		engine.Options{TopK: 3, MaxReturnedRows: 4})
	require.NoError(t, err)

	assert.Equal(t, 10, report.TotalRows)
	assert.Equal(t, []string{rules.EmotionalTrigger}, report.ActiveRules)

	require.Len(t, report.Results, 4)
	ids := make([]int, 0, len(report.Results))
	for _, r := range report.Results {
		ids = append(ids, r.DocumentID)
	}
	assert.Equal(t, []int{5, 6, 1, 3}, ids)
	assert.Equal(t, 10, report.Results[1].Score)

	require.Len(t, report.Annotated, 3)
	assert.Equal(t, 5, report.Annotated[0].DocumentID)
	assert.Equal(t, 6, report.Annotated[1].DocumentID)
	assert.Equal(t, 1, report.Annotated[2].DocumentID)
	assert.Equal(t, 5, report.Annotated[2].Score)
	assert.Contains(t, report.Annotated[0].AnnotatedText, hl+"crisis</span>")

	// Totals cover every document, not just the returned rows.
	assert.Equal(t, map[string]int{rules.EmotionalTrigger: 43}, report.RuleCounts)
}

func TestAnalyzeBatch_StableRankingAndPassAgreement(t *testing.T) {
	e := newEngine(t, 3)
	batch := crisisDocs(2, 2, 2, 0, 2)

	report, err := e.AnalyzeBatch(context.Background(), batch, []string{rules.EmotionalTrigger}, engine.DefaultOptions())
	require.NoError(t, err)

	require.Len(t, report.Results, 5)
	for i, want := range []int{0, 1, 2, 4, 3} {
		assert.Equal(t, want, report.Results[i].DocumentID)
	}

	require.Len(t, report.Annotated, 5)
	scores := make(map[int]int)
	for _, r := range report.Results {
		scores[r.DocumentID] = r.Score
	}
	for i, a := range report.Annotated {
		assert.Equal(t, report.Results[i].DocumentID, a.DocumentID)
		assert.Equal(t, scores[a.DocumentID], a.Score)
	}
}

func TestAnalyzeBatch_TiesRankBySmallerDocumentID(t *testing.T) {
	e := newEngine(t, 2)
	batch := []domain.Document{
		{ID: 7, RawText: "crisis"},
		{ID: 2, RawText: "danger"},
		{ID: 9, RawText: "calm"},
		{ID: 4, RawText: "panic and fear"},
	}

	report, err := e.AnalyzeBatch(context.Background(), batch, []string{rules.EmotionalTrigger}, engine.Options{TopK: 2, MaxReturnedRows: 10})
	require.NoError(t, err)

	ids := make([]int, len(report.Results))
	for i, r := range report.Results {
		ids[i] = r.DocumentID
	}
	assert.Equal(t, []int{4, 2, 7, 9}, ids)

	require.Len(t, report.Annotated, 2)
	assert.Equal(t, 4, report.Annotated[0].DocumentID)
	assert.Equal(t, 2, report.Annotated[1].DocumentID)
}

func TestAnalyzeBatch_Deterministic(t *testing.T) {
	batch := docs(
		crisisText,
		"<i>fake</i> news from the enemy",
		"Believe me, 9 out of 10 experts agree",
		"",
		"buy buy buy buy now now now now",
	)
	selection := rules.MustDefault().Names()

	first, err := newEngine(t, 1).AnalyzeBatch(context.Background(), batch, selection, engine.DefaultOptions())
	require.NoError(t, err)
	second, err := newEngine(t, 8).AnalyzeBatch(context.Background(), batch, selection, engine.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyzeBatch_EmptyBatch(t *testing.T) {
	report, err := newEngine(t, 2).AnalyzeBatch(context.Background(), nil, nil, engine.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 0, report.TotalRows)
	assert.Empty(t, report.Results)
	assert.NotNil(t, report.Results)
	assert.Empty(t, report.Annotated)
	assert.Empty(t, report.RuleCounts)
	assert.NotNil(t, report.ActiveRules)
}

func TestAnalyzeBatch_ZeroTopK(t *testing.T) {
	report, err := newEngine(t, 2).AnalyzeBatch(context.Background(), crisisDocs(1, 2), []string{rules.EmotionalTrigger},
		engine.Options{TopK: 0, MaxReturnedRows: 200})
	require.NoError(t, err)

	assert.Len(t, report.Results, 2)
	assert.Empty(t, report.Annotated)
}

func TestAnalyzeBatch_StructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		docs []domain.Document
		opts engine.Options
		msg  string
	}{
		{"duplicate ids", []domain.Document{{ID: 1}, {ID: 1}}, engine.DefaultOptions(), "duplicate document id: 1"},
		{"negative id", []domain.Document{{ID: -2}}, engine.DefaultOptions(), "document id must not be negative: -2"},
		{"negative top k", nil, engine.Options{TopK: -1}, "top_k must not be negative"},
		{"negative max rows", nil, engine.Options{MaxReturnedRows: -1}, "max_returned_rows must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := newEngine(t, 1).AnalyzeBatch(context.Background(), tt.docs, nil, tt.opts)
			require.Error(t, err)
			assert.Nil(t, report)

			var batchErr *engine.BatchError
			require.ErrorAs(t, err, &batchErr)
			assert.Equal(t, tt.msg, batchErr.Message)
		})
	}
}

func TestAnalyzeBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := newEngine(t, 2).AnalyzeBatch(ctx, crisisDocs(1, 2, 3), []string{rules.EmotionalTrigger}, engine.DefaultOptions())
	require.Error(t, err)
	assert.Nil(t, report)

	var batchErr *engine.BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestAggregate(t *testing.T) {
	results := []domain.ScoreResult{
		{Matches: map[string]int{"A": 2, "B": 1}},
		{Matches: map[string]int{}},
		{Matches: map[string]int{"A": 3, "C": 0}},
	}

	assert.Equal(t, map[string]int{"A": 5, "B": 1}, engine.Aggregate(results))
	assert.Equal(t, engine.Aggregate(results), newEngine(t, 1).AggregateCounts(results))
	assert.Empty(t, engine.Aggregate(nil))
}
