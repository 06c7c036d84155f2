package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	signalsTotal      *prometheus.CounterVec
	suppressionsTotal *prometheus.CounterVec
	errorsTotal       *prometheus.CounterVec
	confidence        *prometheus.GaugeVec
	latency           *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		signalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradepulse_signals_total",
				Help: "Total signals emitted by mode and direction",
			},
			[]string{"mode", "direction"},
		),
		suppressionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradepulse_suppressions_total",
				Help: "Evaluation cycles suppressed before emission",
			},
			[]string{"reason"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradepulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"stage"},
		),
		confidence: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tradepulse_confidence_score",
				Help: "Last computed confidence score for a symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradepulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordSignal counts an emitted signal.
func (r *Recorder) RecordSignal(mode, direction string) {
	r.signalsTotal.WithLabelValues(mode, direction).Inc()
}

// RecordSuppression counts a suppressed evaluation cycle.
func (r *Recorder) RecordSuppression(reason string) {
	r.suppressionsTotal.WithLabelValues(reason).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(stage string) {
	r.errorsTotal.WithLabelValues(stage).Inc()
}

// RecordConfidence records the last confidence score for a symbol.
func (r *Recorder) RecordConfidence(symbol string, confidence float64) {
	r.confidence.WithLabelValues(symbol).Set(confidence)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
