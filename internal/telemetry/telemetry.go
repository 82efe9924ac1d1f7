// Package telemetry provides Prometheus metrics and OpenTelemetry tracing
// for the scoring engine.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "regexia"

// Pass labels for BatchDuration.
const (
	PassScore    = "score"
	PassAnnotate = "annotate"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	BatchesTotal       prometheus.Counter
	BatchesFailed      prometheus.Counter
	DocumentsScored    prometheus.Counter
	DocumentsAnnotated prometheus.Counter
	DocumentFaults     prometheus.Counter
	BatchDuration      *prometheus.HistogramVec
	BatchSize          prometheus.Histogram
	RuleMatches        *prometheus.CounterVec
}

// Provider bundles the tracer and metrics. A nil *Provider is valid and
// records nothing.
type Provider struct {
	Tracer   trace.Tracer
	Metrics  *Metrics
	gatherer prometheus.Gatherer
}

// NewProvider registers the collectors on reg. Pass prometheus.DefaultRegisterer
// in production and a fresh prometheus.NewRegistry() in tests.
func NewProvider(reg prometheus.Registerer) *Provider {
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	return &Provider{
		Tracer:   otel.Tracer(serviceName),
		Metrics:  initMetrics(promauto.With(reg)),
		gatherer: gatherer,
	}
}

func initMetrics(f promauto.Factory) *Metrics {
	return &Metrics{
		BatchesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "regexia_batches_total",
			Help: "Total batch analyses started",
		}),
		BatchesFailed: f.NewCounter(prometheus.CounterOpts{
			Name: "regexia_batches_failed_total",
			Help: "Batch analyses that returned a batch error",
		}),
		DocumentsScored: f.NewCounter(prometheus.CounterOpts{
			Name: "regexia_documents_scored_total",
			Help: "Documents scored in the first pass",
		}),
		DocumentsAnnotated: f.NewCounter(prometheus.CounterOpts{
			Name: "regexia_documents_annotated_total",
			Help: "Documents annotated in the second pass",
		}),
		DocumentFaults: f.NewCounter(prometheus.CounterOpts{
			Name: "regexia_document_faults_total",
			Help: "Documents whose scoring faulted and were skip-scored",
		}),
		BatchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "regexia_batch_duration_seconds",
			Help:    "Time spent per analysis pass",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"pass"}),
		BatchSize: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "regexia_batch_size",
			Help:    "Documents per analysis",
			Buckets: []float64{1, 10, 50, 100, 250, 500, 1000, 5000},
		}),
		RuleMatches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "regexia_rule_matches_total",
			Help: "Rule matches across all analysed documents",
		}, []string{"rule"}),
	}
}

// Handler serves the metrics this provider was registered on.
func (p *Provider) Handler() http.Handler {
	if p == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}

// RecordBatch counts a started batch and its size.
func (p *Provider) RecordBatch(size int) {
	if p == nil {
		return
	}
	p.Metrics.BatchesTotal.Inc()
	p.Metrics.BatchSize.Observe(float64(size))
}

// RecordBatchFailure counts a batch that ended in a batch error.
func (p *Provider) RecordBatchFailure() {
	if p == nil {
		return
	}
	p.Metrics.BatchesFailed.Inc()
}

// RecordPass observes one pass over docs documents.
func (p *Provider) RecordPass(pass string, docs int, d time.Duration) {
	if p == nil {
		return
	}
	p.Metrics.BatchDuration.WithLabelValues(pass).Observe(d.Seconds())
	switch pass {
	case PassScore:
		p.Metrics.DocumentsScored.Add(float64(docs))
	case PassAnnotate:
		p.Metrics.DocumentsAnnotated.Add(float64(docs))
	}
}

// RecordDocumentFault counts a document that was skip-scored.
func (p *Provider) RecordDocumentFault() {
	if p == nil {
		return
	}
	p.Metrics.DocumentFaults.Inc()
}

// RecordRuleCounts adds per-rule totals.
func (p *Provider) RecordRuleCounts(counts map[string]int) {
	if p == nil {
		return
	}
	for rule, n := range counts {
		p.Metrics.RuleMatches.WithLabelValues(rule).Add(float64(n))
	}
}

// StartSpan starts a span; the caller ends it. A nil provider uses the global
// no-op tracer.
//
//nolint:spancheck // caller ends the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(serviceName)
	if p != nil {
		tracer = p.Tracer
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
