// Package telemetry provides OpenTelemetry instrumentation for the signal
// engine. It exports Prometheus metrics and provides tracing capabilities.
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

const serviceName = "signal-engine"

// Metrics holds all signal engine Prometheus metrics
type Metrics struct {
	// Batch pipeline metrics
	ArticlesProcessed prometheus.Counter
	ArticlesFailed    prometheus.Counter
	BatchDuration     prometheus.Histogram
	BatchSize         prometheus.Histogram

	// Entity extraction metrics
	ExtractionDuration prometheus.Histogram
	EntitiesExtracted  prometheus.Counter
	MentionsRecorded   prometheus.Counter
	MentionWriteErrors prometheus.Counter

	// Signal detection metrics
	SignalsDetected   *prometheus.CounterVec
	SignalsStored     *prometheus.CounterVec
	DetectorDuration  *prometheus.HistogramVec
	DetectorFailures  *prometheus.CounterVec

	// Ranking metrics
	ArticlesScored     prometheus.Counter
	ScoreDistribution  prometheus.Histogram
	RankingWriteErrors prometheus.Counter

	// Poller metrics
	PollerLag      prometheus.Histogram
	PendingBacklog prometheus.Gauge
}

// Provider wraps telemetry providers
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics
func NewProvider() *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(),
	}
}

// Handler returns the Prometheus HTTP handler for /metrics endpoint
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}
	initPipelineMetrics(m)
	initExtractionMetrics(m)
	initDetectorMetrics(m)
	initRankingMetrics(m)
	initPollerMetrics(m)
	return m
}

func initPipelineMetrics(m *Metrics) {
	m.ArticlesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signal_engine_articles_processed_total",
		Help: "Total articles run through the signal pipeline",
	})

	m.ArticlesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signal_engine_articles_failed_total",
		Help: "Total articles that failed processing",
	})

	m.BatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "signal_engine_batch_duration_seconds",
		Help:    "End-to-end time for one batch run",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	})

	m.BatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "signal_engine_batch_size",
		Help:    "Number of articles per batch",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 200, 500},
	})
}

func initExtractionMetrics(m *Metrics) {
	m.ExtractionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "signal_engine_extraction_duration_seconds",
		Help:    "Time spent in entity matching (Aho-Corasick) per article",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
	})

	m.EntitiesExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signal_engine_entities_extracted_total",
		Help: "Total entity occurrences extracted from article text",
	})

	m.MentionsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signal_engine_mentions_recorded_total",
		Help: "Total mention history rows written",
	})

	m.MentionWriteErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signal_engine_mention_write_errors_total",
		Help: "Total mention sub-batch writes that failed",
	})
}

func initDetectorMetrics(m *Metrics) {
	m.SignalsDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signal_engine_signals_detected_total",
		Help: "Total signals detected, including duplicates of stored signals",
	}, []string{"signal_type"})

	m.SignalsStored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signal_engine_signals_stored_total",
		Help: "Total signals newly stored (upsert inserted a row)",
	}, []string{"signal_type"})

	m.DetectorDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "signal_engine_detector_duration_seconds",
		Help:    "Per-detector wall time for one batch",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"signal_type"})

	m.DetectorFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signal_engine_detector_failures_total",
		Help: "Total detector runs that returned an error",
	}, []string{"signal_type"})
}

func initRankingMetrics(m *Metrics) {
	m.ArticlesScored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signal_engine_articles_scored_total",
		Help: "Total articles given a composite ranking score",
	})

	m.ScoreDistribution = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "signal_engine_ranking_score",
		Help:    "Distribution of composite ranking scores",
		Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
	})

	m.RankingWriteErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signal_engine_ranking_write_errors_total",
		Help: "Total ranking result upserts that failed",
	})
}

func initPollerMetrics(m *Metrics) {
	m.PollerLag = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "signal_engine_poller_lag_seconds",
		Help:    "Time between article publication and signal processing start",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800, 3600},
	})

	m.PendingBacklog = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "signal_engine_pending_backlog",
		Help: "Articles currently awaiting signal processing",
	})
}

// RecordBatch records metrics for one completed batch run
func (p *Provider) RecordBatch(size, failed int, duration time.Duration) {
	p.Metrics.BatchSize.Observe(float64(size))
	p.Metrics.BatchDuration.Observe(duration.Seconds())
	p.Metrics.ArticlesProcessed.Add(float64(size - failed))
	p.Metrics.ArticlesFailed.Add(float64(failed))
}

// RecordExtraction records entity extraction metrics for one article
func (p *Provider) RecordExtraction(entities int, duration time.Duration) {
	p.Metrics.ExtractionDuration.Observe(duration.Seconds())
	p.Metrics.EntitiesExtracted.Add(float64(entities))
}

// RecordMentions records mention write outcomes
func (p *Provider) RecordMentions(recorded, errors int) {
	p.Metrics.MentionsRecorded.Add(float64(recorded))
	p.Metrics.MentionWriteErrors.Add(float64(errors))
}

// RecordDetector records one detector's run over a batch
func (p *Provider) RecordDetector(signalType string, detected, stored int, failed bool, duration time.Duration) {
	p.Metrics.SignalsDetected.WithLabelValues(signalType).Add(float64(detected))
	p.Metrics.SignalsStored.WithLabelValues(signalType).Add(float64(stored))
	p.Metrics.DetectorDuration.WithLabelValues(signalType).Observe(duration.Seconds())
	if failed {
		p.Metrics.DetectorFailures.WithLabelValues(signalType).Inc()
	}
}

// RecordScore records one composite ranking score
func (p *Provider) RecordScore(score float64) {
	p.Metrics.ArticlesScored.Inc()
	p.Metrics.ScoreDistribution.Observe(score)
}

// RecordRankingWriteError increments the ranking upsert failure counter
func (p *Provider) RecordRankingWriteError() {
	p.Metrics.RankingWriteErrors.Inc()
}

// RecordPollerLag records the freshness lag for one article
func (p *Provider) RecordPollerLag(publishedAt time.Time) {
	p.Metrics.PollerLag.Observe(time.Since(publishedAt).Seconds())
}

// SetPendingBacklog sets the current pending article count
func (p *Provider) SetPendingBacklog(depth int) {
	p.Metrics.PendingBacklog.Set(float64(depth))
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, span
}
