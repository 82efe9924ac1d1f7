package api

import "github.com/Ruchi0214/Regexia/internal/domain"

// Status values for save responses.
const (
	statusSuccess = "success"
	statusError   = "error"
)

// RulesListResponse lists the rule catalog.
type RulesListResponse struct {
	Rules []string `json:"rules"`
	Total int      `json:"total"`
}

// ErrorResponse carries a client-facing error message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AnalyzeJSONRequest is the body of POST /api/v1/analyze/json. Each document
// may be any JSON value; it is coerced to text.
type AnalyzeJSONRequest struct {
	Documents       []any    `json:"documents"         binding:"required"`
	Rules           []string `json:"rules"`
	TopK            *int     `json:"top_k"`
	MaxReturnedRows *int     `json:"max_returned_rows"`
}

// SaveResultsRequest is the body of POST /api/v1/results.
type SaveResultsRequest struct {
	Data []SaveRow `json:"data"`
}

// SaveRow is one table row as the client shows it. Extra fields such as
// matches are ignored.
type SaveRow struct {
	ID    int    `json:"id"`
	Score int    `json:"score"`
	Text  string `json:"text"`
}

// SaveResultsResponse reports the outcome of a save.
type SaveResultsResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
}

// ResultsListResponse lists the stored rows.
type ResultsListResponse struct {
	Results []domain.SavedResult `json:"results"`
	Total   int                  `json:"total"`
}
