package rules

import "github.com/Ruchi0214/Regexia/internal/domain"

// Names of the built-in rules.
const (
	EmotionalTrigger = "Emotional Trigger"
	Exaggeration     = "Exaggeration"
	SelfPromotion    = "Self Promotion"
	FakeClaim        = "Fake Claim"
	AttackWords      = "Attack Words"
	Repetition       = "Repetition"
)

// DefaultMinRepeats is how often a token may appear before Repetition counts it.
const DefaultMinRepeats = 3

// Spec is the static description of one rule.
type Spec struct {
	Name       string          `yaml:"name"`
	Kind       domain.RuleKind `yaml:"-"`
	KindName   string          `yaml:"kind"`
	Expression string          `yaml:"expression"`
	Anchors    []string        `yaml:"anchors"`
	WholeWord  bool            `yaml:"whole_word"`
	MinRepeats int             `yaml:"min_repeats"`
}

// DefaultCatalog returns the built-in rule table in presentation order.
// The returned slice is a fresh copy.
func DefaultCatalog() []Spec {
	return []Spec{
		{
			Name:       EmotionalTrigger,
			Kind:       domain.KindPattern,
			Expression: `\b(crisis|danger|threat|fear|panic|emergency|urgent|deadly|catastrophe)\b`,
			Anchors:    []string{"crisis", "danger", "threat", "fear", "panic", "emergency", "urgent", "deadly", "catastrophe"},
			WholeWord:  true,
		},
		{
			// "100%" ends in a non-word character, so it only needs a leading boundary.
			Name:       Exaggeration,
			Kind:       domain.KindPattern,
			Expression: `\b(always|never|total|completely|absolutely|guaranteed|forever|perfect)\b|\b100%`,
			Anchors:    []string{"always", "never", "total", "completely", "absolutely", "guaranteed", "forever", "perfect", "100%"},
			WholeWord:  true,
		},
		{
			Name:       SelfPromotion,
			Kind:       domain.KindPattern,
			Expression: `\b(I alone|only I|trust me|believe me|my achievement|I did this|I made)\b`,
			Anchors:    []string{"i alone", "only i", "trust me", "believe me", "my achievement", "i did this", "i made"},
			WholeWord:  true,
		},
		{
			Name:       FakeClaim,
			Kind:       domain.KindPattern,
			Expression: `\d+ out of \d+ (experts|people|doctors|scientists)`,
			Anchors:    []string{"out of"},
		},
		{
			Name:       AttackWords,
			Kind:       domain.KindPattern,
			Expression: `\b(fake|corrupt|enemy|destroy|liar|crooked|radical|traitor)\b`,
			Anchors:    []string{"fake", "corrupt", "enemy", "destroy", "liar", "crooked", "radical", "traitor"},
			WholeWord:  true,
		},
		{
			Name:       Repetition,
			Kind:       domain.KindStatistical,
			MinRepeats: DefaultMinRepeats,
		},
	}
}
