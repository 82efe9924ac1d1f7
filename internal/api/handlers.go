// Package api exposes the scoring engine over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Ruchi0214/Regexia/internal/cache"
	"github.com/Ruchi0214/Regexia/internal/domain"
	"github.com/Ruchi0214/Regexia/internal/engine"
	"github.com/Ruchi0214/Regexia/internal/infrastructure/logger"
	"github.com/Ruchi0214/Regexia/internal/ingest"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Analyzer runs batch analysis.
type Analyzer interface {
	ListRuleNames() []string
	Presentation() (previewLength int, markers engine.Markers)
	AnalyzeBatch(ctx context.Context, docs []domain.Document, selection []string, opts engine.Options) (*domain.BatchReport, error)
}

// ResultStore persists the saved result table.
type ResultStore interface {
	ReplaceAll(ctx context.Context, runID string, rows []domain.SavedResult) error
	List(ctx context.Context) ([]domain.SavedResult, error)
}

// ResultIndex mirrors saved results into a search index.
type ResultIndex interface {
	IndexResults(ctx context.Context, runID string, rows []domain.SavedResult) error
}

// ReportCache memoizes reports by input hash.
type ReportCache interface {
	Get(ctx context.Context, key string) (*domain.BatchReport, bool)
	Set(ctx context.Context, key string, report *domain.BatchReport)
}

// Limits are the request-level analysis bounds.
type Limits struct {
	TopK            int
	MaxReturnedRows int
	MaxRows         int
}

// Handler serves the Regexia API.
type Handler struct {
	analyzer Analyzer
	store    ResultStore
	index    ResultIndex
	cache    ReportCache
	limits   Limits
	logger   logger.Logger
}

// NewHandler creates a handler. store, index and reportCache may be nil.
func NewHandler(
	analyzer Analyzer,
	store ResultStore,
	index ResultIndex,
	reportCache ReportCache,
	limits Limits,
	log logger.Logger,
) *Handler {
	return &Handler{
		analyzer: analyzer,
		store:    store,
		index:    index,
		cache:    reportCache,
		limits:   limits,
		logger:   logger.OrNop(log),
	}
}

// ListRules handles GET /api/v1/rules.
func (h *Handler) ListRules(c *gin.Context) {
	names := h.analyzer.ListRuleNames()
	c.JSON(http.StatusOK, RulesListResponse{Rules: names, Total: len(names)})
}

// Analyze handles POST /api/v1/analyze with a multipart CSV upload.
// Failures are reported as 200 with an error body.
func (h *Handler) Analyze(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusOK, ErrorResponse{Error: "No file uploaded"})
		return
	}

	var selection []string
	if raw := c.PostForm("rules"); raw != "" {
		if err = json.Unmarshal([]byte(raw), &selection); err != nil {
			c.JSON(http.StatusOK, ErrorResponse{Error: "rules must be a JSON array of rule names"})
			return
		}
	}
	column := c.PostForm("column")

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusOK, ErrorResponse{Error: "Could not open uploaded file"})
		return
	}
	defer file.Close()

	docs, _, err := ingest.Read(file, fileHeader.Filename, column, h.limits.MaxRows)
	if err != nil {
		h.logger.Debug("CSV ingestion failed", logger.String("column", column), logger.Error(err))
		c.JSON(http.StatusOK, ErrorResponse{Error: err.Error()})
		return
	}

	report, err := h.analyze(c.Request.Context(), docs, selection, h.defaultOptions())
	if err != nil {
		c.JSON(http.StatusOK, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// AnalyzeJSON handles POST /api/v1/analyze/json.
func (h *Handler) AnalyzeJSON(c *gin.Context) {
	var req AnalyzeJSONRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	if h.limits.MaxRows > 0 && len(req.Documents) > h.limits.MaxRows {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "too many documents: at most " + strconv.Itoa(h.limits.MaxRows) + " per request",
		})
		return
	}

	opts := h.defaultOptions()
	if req.TopK != nil {
		opts.TopK = *req.TopK
	}
	if req.MaxReturnedRows != nil {
		opts.MaxReturnedRows = *req.MaxReturnedRows
	}

	report, err := h.analyze(c.Request.Context(), ingest.FromValues(req.Documents), req.Rules, opts)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// SaveResults handles POST /api/v1/results. The stored table is replaced.
func (h *Handler) SaveResults(c *gin.Context) {
	var req SaveResultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, SaveResultsResponse{Status: statusError, Message: "Invalid request body: " + err.Error()})
		return
	}
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, SaveResultsResponse{Status: statusError, Message: "result storage is not configured"})
		return
	}

	rows := make([]domain.SavedResult, len(req.Data))
	for i, r := range req.Data {
		rows[i] = domain.SavedResult{RowID: r.ID, Score: r.Score, Text: r.Text}
	}

	ctx := c.Request.Context()
	runID := uuid.New().String()
	reqLog := h.requestLogger(ctx).With(logger.String("run_id", runID))
	if err := h.store.ReplaceAll(ctx, runID, rows); err != nil {
		reqLog.Error("Failed to save results", logger.Error(err))
		c.JSON(http.StatusInternalServerError, SaveResultsResponse{Status: statusError, Message: "failed to save results"})
		return
	}

	if h.index != nil {
		if err := h.index.IndexResults(ctx, runID, rows); err != nil {
			reqLog.Warn("Failed to index saved results", logger.Error(err))
		}
	}

	reqLog.Info("Results saved", logger.Int("rows", len(rows)))
	c.JSON(http.StatusOK, SaveResultsResponse{
		Status:  statusSuccess,
		Message: fmt.Sprintf("Saved %d rows", len(rows)),
		RunID:   runID,
	})
}

// ListResults handles GET /api/v1/results.
func (h *Handler) ListResults(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "result storage is not configured"})
		return
	}

	rows, err := h.store.List(c.Request.Context())
	if err != nil {
		h.requestLogger(c.Request.Context()).Error("Failed to list results", logger.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list results"})
		return
	}
	c.JSON(http.StatusOK, ResultsListResponse{Results: rows, Total: len(rows)})
}

// requestLogger prefers the request-scoped logger set by the request id
// middleware.
func (h *Handler) requestLogger(ctx context.Context) logger.Logger {
	return logger.FromContextOr(ctx, h.logger)
}

func (h *Handler) defaultOptions() engine.Options {
	return engine.Options{TopK: h.limits.TopK, MaxReturnedRows: h.limits.MaxReturnedRows}
}

// analyze runs the engine behind the report cache. Only *engine.BatchError
// messages reach the client.
func (h *Handler) analyze(
	ctx context.Context,
	docs []domain.Document,
	selection []string,
	opts engine.Options,
) (*domain.BatchReport, error) {
	var key string
	if h.cache != nil {
		key = h.cacheKey(docs, selection, opts)
		if report, ok := h.cache.Get(ctx, key); ok {
			h.logger.Debug("Report cache hit", logger.Int("documents", len(docs)))
			return report, nil
		}
	}

	report, err := h.analyzer.AnalyzeBatch(ctx, docs, selection, opts)
	if err != nil {
		var batchErr *engine.BatchError
		if errors.As(err, &batchErr) {
			return nil, batchErr
		}
		h.logger.Error("Analysis failed", logger.Error(err))
		return nil, errors.New("analysis failed")
	}

	if h.cache != nil {
		h.cache.Set(ctx, key, report)
	}
	return report, nil
}

// cacheKey covers every input that shapes a report, including the
// presentation settings, so instances sharing a Redis never cross-serve.
func (h *Handler) cacheKey(docs []domain.Document, selection []string, opts engine.Options) string {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.RawText
	}
	previewLength, markers := h.analyzer.Presentation()
	return cache.Key(cache.KeyInput{
		Rules:           selection,
		Documents:       texts,
		TopK:            opts.TopK,
		MaxReturnedRows: opts.MaxReturnedRows,
		PreviewLength:   previewLength,
		HighlightOpen:   markers.Open,
		HighlightClose:  markers.Close,
	})
}
