package engine

import (
	"github.com/Ruchi0214/Regexia/internal/domain"
	"github.com/Ruchi0214/Regexia/internal/infrastructure/logger"
	"github.com/Ruchi0214/Regexia/internal/rules"
	"github.com/Ruchi0214/Regexia/internal/telemetry"
)

// DefaultPreviewLength is the number of characters kept in a text preview.
const DefaultPreviewLength = 100

// Scorer applies a rule selection to single documents.
type Scorer struct {
	registry      *rules.Registry
	markers       Markers
	previewLength int
	log           logger.Logger
	telemetry     *telemetry.Provider
}

// NewScorer creates a Scorer over registry. Zero markers and a non-positive
// preview length fall back to the defaults.
func NewScorer(registry *rules.Registry, markers Markers, previewLength int, log logger.Logger, tp *telemetry.Provider) *Scorer {
	if markers == (Markers{}) {
		markers = DefaultMarkers()
	}
	if previewLength <= 0 {
		previewLength = DefaultPreviewLength
	}
	return &Scorer{
		registry:      registry,
		markers:       markers,
		previewLength: previewLength,
		log:           logger.OrNop(log),
		telemetry:     tp,
	}
}

// Score evaluates the selected rules against doc. Unknown names are skipped.
// The annotated text is empty unless annotate is set.
func (s *Scorer) Score(doc domain.Document, selection []string, annotate bool) (domain.ScoreResult, string) {
	return s.score(doc, s.resolve(selection), annotate)
}

// resolve maps a selection to rules in catalog order, each at most once.
func (s *Scorer) resolve(selection []string) []*domain.Rule {
	if len(selection) == 0 {
		return nil
	}

	picked := make([]bool, s.registry.Len())
	unknown := 0
	for _, name := range selection {
		pos := s.registry.Position(name)
		if pos < 0 {
			unknown++
			continue
		}
		picked[pos] = true
	}
	if unknown > 0 {
		s.log.Debug("Ignoring unknown rules in selection", logger.Int("unknown", unknown))
	}

	var selected []*domain.Rule
	for pos, name := range s.registry.Names() {
		if !picked[pos] {
			continue
		}
		rule, _ := s.registry.Lookup(name)
		selected = append(selected, rule)
	}
	return selected
}

func (s *Scorer) score(doc domain.Document, selected []*domain.Rule, annotate bool) (result domain.ScoreResult, annotated string) {
	result = domain.ScoreResult{
		DocumentID:  doc.ID,
		TextPreview: domain.Preview(doc.RawText, s.previewLength),
		Matches:     map[string]int{},
	}

	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("Document scoring failed, scoring as zero",
				logger.Int("document_id", doc.ID),
				logger.Any("panic", r),
			)
			s.telemetry.RecordDocumentFault()
			result.Score = 0
			result.Matches = map[string]int{}
			annotated = ""
			if annotate {
				annotated = s.markers.Render(doc.RawText, nil)
			}
		}
	}()

	var candidates rules.Candidates
	for _, rule := range selected {
		if len(rule.Anchors) > 0 {
			candidates = s.registry.Candidates(doc.RawText)
			break
		}
	}

	total := 0
	var spans []Span
	for order, rule := range selected {
		if !candidates.MayMatch(rule) {
			continue
		}
		ev := Evaluate(rule, doc.RawText, annotate)
		if ev.Count == 0 {
			continue
		}
		result.Matches[rule.Name] = ev.Count
		total += ev.Count
		for _, sp := range ev.Spans {
			sp.Order = order
			spans = append(spans, sp)
		}
	}

	result.Score = min(domain.MaxScore, total)
	if annotate {
		annotated = s.markers.Render(doc.RawText, spans)
	}
	return result, annotated
}
