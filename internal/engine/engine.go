// Package engine scores documents against a rule selection. A batch is
// scored once without annotation, ranked, and only the top entries are
// scored again with highlighting.
package engine

import (
	"context"
	"runtime"
	"sort"
	"strconv"
	"time"

	"github.com/Ruchi0214/Regexia/internal/domain"
	"github.com/Ruchi0214/Regexia/internal/infrastructure/logger"
	"github.com/Ruchi0214/Regexia/internal/rules"
	"github.com/Ruchi0214/Regexia/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

// Default batch options.
const (
	DefaultTopK            = 50
	DefaultMaxReturnedRows = 200
)

// Options tunes one AnalyzeBatch call.
type Options struct {
	// TopK is how many ranked documents get an annotated second pass.
	TopK int
	// MaxReturnedRows truncates the ranked results in the report.
	MaxReturnedRows int
}

// DefaultOptions returns TopK 50 and MaxReturnedRows 200.
func DefaultOptions() Options {
	return Options{TopK: DefaultTopK, MaxReturnedRows: DefaultMaxReturnedRows}
}

// Config holds engine construction settings.
type Config struct {
	// Concurrency bounds the scoring worker pool. Zero means GOMAXPROCS.
	Concurrency   int
	PreviewLength int
	Markers       Markers
}

// Engine is the scoring entry point. It is safe for concurrent use.
type Engine struct {
	registry    *rules.Registry
	scorer      *Scorer
	concurrency int
	log         logger.Logger
	telemetry   *telemetry.Provider
}

// New creates an Engine over a built registry. log and tp may be nil.
func New(registry *rules.Registry, cfg Config, log logger.Logger, tp *telemetry.Provider) *Engine {
	log = logger.OrNop(log)

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	return &Engine{
		registry:    registry,
		scorer:      NewScorer(registry, cfg.Markers, cfg.PreviewLength, log, tp),
		concurrency: concurrency,
		log:         log,
		telemetry:   tp,
	}
}

// ListRuleNames returns every rule name in catalog order.
func (e *Engine) ListRuleNames() []string {
	return e.registry.Names()
}

// Scorer exposes the single-document scorer.
func (e *Engine) Scorer() *Scorer {
	return e.scorer
}

// Presentation returns the effective preview length and highlight markers.
func (e *Engine) Presentation() (int, Markers) {
	return e.scorer.previewLength, e.scorer.markers
}

// AggregateCounts sums per-rule matches over results.
func (e *Engine) AggregateCounts(results []domain.ScoreResult) map[string]int {
	return Aggregate(results)
}

// AnalyzeBatch scores docs, ranks them by score and annotates the top
// opts.TopK. Structural failures return a *BatchError and no report.
func (e *Engine) AnalyzeBatch(
	ctx context.Context,
	docs []domain.Document,
	selection []string,
	opts Options,
) (report *domain.BatchReport, err error) {
	ctx, span := e.telemetry.StartSpan(ctx, "analyze_batch",
		attribute.Int("documents", len(docs)),
		attribute.Int("top_k", opts.TopK),
		attribute.StringSlice("rules", selection),
	)
	defer span.End()

	e.telemetry.RecordBatch(len(docs))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			e.log.Error("Batch analysis panicked", logger.Any("panic", r))
			report = nil
			err = &BatchError{Message: "batch analysis failed"}
		}
		if err != nil {
			e.telemetry.RecordBatchFailure()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	if vErr := validate(docs, opts); vErr != nil {
		return nil, vErr
	}

	selected := e.scorer.resolve(selection)

	// Pass 1: score everything without annotation.
	results := make([]domain.ScoreResult, len(docs))
	if pErr := e.pass(ctx, "pass1", telemetry.PassScore, len(docs), func(i int) {
		results[i], _ = e.scorer.score(docs[i], selected, false)
	}); pErr != nil {
		return nil, e.cancelled(pErr)
	}

	ranked := make([]int, len(docs))
	for i := range ranked {
		ranked[i] = i
	}
	// score descending, ties by smaller document id
	sort.SliceStable(ranked, func(a, b int) bool {
		ra, rb := results[ranked[a]], results[ranked[b]]
		if ra.Score != rb.Score {
			return ra.Score > rb.Score
		}
		return docs[ranked[a]].ID < docs[ranked[b]].ID
	})

	// Pass 2: annotate the top entries only.
	k := min(opts.TopK, len(docs))
	annotated := make([]domain.AnnotatedResult, k)
	if pErr := e.pass(ctx, "pass2", telemetry.PassAnnotate, k, func(i int) {
		idx := ranked[i]
		_, text := e.scorer.score(docs[idx], selected, true)
		annotated[i] = domain.AnnotatedResult{
			DocumentID:    docs[idx].ID,
			Score:         results[idx].Score,
			AnnotatedText: text,
		}
	}); pErr != nil {
		return nil, e.cancelled(pErr)
	}

	returned := min(opts.MaxReturnedRows, len(docs))
	table := make([]domain.ScoreResult, returned)
	for i := range returned {
		table[i] = results[ranked[i]]
	}

	counts := Aggregate(results)
	e.telemetry.RecordRuleCounts(counts)

	active := make([]string, len(selection))
	copy(active, selection)

	e.log.Info("Batch analysed",
		logger.Int("documents", len(docs)),
		logger.Int("annotated", k),
		logger.Int("rules", len(selected)),
		logger.Duration("duration", time.Since(start)),
	)

	return &domain.BatchReport{
		TotalRows:   len(docs),
		Results:     table,
		Annotated:   annotated,
		RuleCounts:  counts,
		ActiveRules: active,
	}, nil
}

// pass runs fn for indexes [0, n) on the bounded pool. Each call writes only
// its own slot.
func (e *Engine) pass(ctx context.Context, spanName, label string, n int, fn func(i int)) error {
	ctx, span := e.telemetry.StartSpan(ctx, spanName, attribute.Int("documents", n))
	defer span.End()
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i := range n {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e.telemetry.RecordPass(label, n, time.Since(start))
	return nil
}

func (e *Engine) cancelled(err error) error {
	e.log.Warn("Batch analysis cancelled", logger.Error(err))
	return &BatchError{Message: "batch analysis cancelled", Err: err}
}

func validate(docs []domain.Document, opts Options) error {
	if opts.TopK < 0 {
		return &BatchError{Message: "top_k must not be negative"}
	}
	if opts.MaxReturnedRows < 0 {
		return &BatchError{Message: "max_returned_rows must not be negative"}
	}

	seen := make(map[int]struct{}, len(docs))
	for _, d := range docs {
		if d.ID < 0 {
			return &BatchError{Message: "document id must not be negative: " + strconv.Itoa(d.ID)}
		}
		if _, dup := seen[d.ID]; dup {
			return &BatchError{Message: "duplicate document id: " + strconv.Itoa(d.ID)}
		}
		seen[d.ID] = struct{}{}
	}
	return nil
}
