package domain

// MaxScore caps every document score.
const MaxScore = 10

// ScoreResult is the Pass-1 outcome for one document.
type ScoreResult struct {
	DocumentID  int            `json:"id"`
	Score       int            `json:"score"`
	TextPreview string         `json:"text"`
	Matches     map[string]int `json:"matches"`
}

// AnnotatedResult is the Pass-2 outcome for one of the top-ranked documents.
type AnnotatedResult struct {
	DocumentID    int    `json:"id"`
	Score         int    `json:"score"`
	AnnotatedText string `json:"full_text"`
}

// BatchReport is everything one analysis call returns.
type BatchReport struct {
	TotalRows   int               `json:"total_rows"`
	Results     []ScoreResult     `json:"table_data"`
	Annotated   []AnnotatedResult `json:"explain_data"`
	RuleCounts  map[string]int    `json:"rule_counts"`
	ActiveRules []string          `json:"active_rules"`
}

// SavedResult is one persisted row of a saved analysis.
type SavedResult struct {
	RunID string `db:"run_id" json:"run_id,omitempty"`
	RowID int    `db:"row_id" json:"id"`
	Score int    `db:"score"  json:"score"`
	Text  string `db:"text"   json:"text"`
}
