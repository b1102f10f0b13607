package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	batches         *prometheus.CounterVec
	batchSize       *prometheus.GaugeVec
	analyses        *prometheus.CounterVec
	recommendations *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	latency         *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		batches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "captrades_batches_total",
				Help: "Total number of trade batches ingested",
			},
			[]string{"source"},
		),
		batchSize: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "captrades_batch_size",
				Help: "Size of the most recent batch per source",
			},
			[]string{"source"},
		),
		analyses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "captrades_analyses_total",
				Help: "Total number of trade analyses produced, by decision",
			},
			[]string{"decision"},
		),
		recommendations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "captrades_recommendations_total",
				Help: "Total number of recommendations handed to a backend",
			},
			[]string{"backend", "ticker"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "captrades_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "captrades_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordBatch records one ingested batch and its size.
func (r *Recorder) RecordBatch(source string, size int) {
	r.batches.WithLabelValues(source).Inc()
	r.batchSize.WithLabelValues(source).Set(float64(size))
}

// RecordAnalysis records one produced analysis by decision.
func (r *Recorder) RecordAnalysis(decision string) {
	r.analyses.WithLabelValues(decision).Inc()
}

// RecordRecommendation records a recommendation handed to a backend.
func (r *Recorder) RecordRecommendation(backend, ticker string) {
	r.recommendations.WithLabelValues(backend, ticker).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
