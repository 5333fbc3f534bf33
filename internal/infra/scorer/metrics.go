package scorer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ScoreMetricsRecorder defines the interface for recording scoring metrics.
// This interface abstracts the metrics recording implementation, enabling
// mocking in unit tests and reuse across providers (OpenAI, Claude).
type ScoreMetricsRecorder interface {
	// RecordScore records one relevance score returned by the provider.
	RecordScore(score int)

	// RecordDuration records the time taken for one scoring API call.
	RecordDuration(duration time.Duration)

	// RecordFailure increments the counter for failed scoring calls,
	// labeled with the failure kind ("api_error" or "bad_reply").
	RecordFailure(kind string)
}

// PrometheusScoreMetrics implements ScoreMetricsRecorder using Prometheus metrics.
// This is the production implementation that records metrics to Prometheus.
type PrometheusScoreMetrics struct {
	scoreHistogram    prometheus.Histogram
	durationHistogram prometheus.Histogram
	failureCounter    *prometheus.CounterVec
}

var (
	prometheusMetricsInstance *PrometheusScoreMetrics
	prometheusMetricsOnce     sync.Once
)

// NewPrometheusScoreMetrics creates a new Prometheus-based metrics recorder.
// Uses singleton pattern to avoid duplicate metric registration in tests.
func NewPrometheusScoreMetrics() *PrometheusScoreMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusScoreMetrics{
			scoreHistogram: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "cfp_relevance_score",
				Help:    "Distribution of relevance scores returned by the scoring provider",
				Buckets: prometheus.LinearBuckets(0, 1, 11),
			}),
			durationHistogram: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "cfp_scoring_duration_seconds",
				Help:    "Time taken to score one conference via the LLM API",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			}),
			failureCounter: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "cfp_scoring_failures_total",
				Help: "Total number of failed scoring calls, by failure kind",
			}, []string{"kind"}),
		}
	})
	return prometheusMetricsInstance
}

// RecordScore implements ScoreMetricsRecorder.RecordScore
func (p *PrometheusScoreMetrics) RecordScore(score int) {
	p.scoreHistogram.Observe(float64(score))
}

// RecordDuration implements ScoreMetricsRecorder.RecordDuration
func (p *PrometheusScoreMetrics) RecordDuration(duration time.Duration) {
	p.durationHistogram.Observe(duration.Seconds())
}

// RecordFailure implements ScoreMetricsRecorder.RecordFailure
func (p *PrometheusScoreMetrics) RecordFailure(kind string) {
	p.failureCounter.WithLabelValues(kind).Inc()
}
