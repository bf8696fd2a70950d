// Package metrics exposes Prometheus instrumentation for the engine
// and the API surface.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/quantrisk/var-engine/pkg/models"
)

// Recorder registers and updates all engine metrics.
type Recorder struct {
	evaluationCounter *prometheus.CounterVec
	evaluationLatency *prometheus.HistogramVec
	riskPctGauge      *prometheus.GaugeVec
	riskAmountGauge   *prometheus.GaugeVec
	observationsGauge *prometheus.GaugeVec

	apiRequestCounter   *prometheus.CounterVec
	apiLatencyHistogram *prometheus.HistogramVec
}

// NewRecorder creates and registers the metrics.
func NewRecorder() *Recorder {
	return &Recorder{
		evaluationCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "var_engine_evaluations_total",
				Help: "Total risk evaluations by portfolio and outcome",
			},
			[]string{"portfolio", "outcome"},
		),
		evaluationLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "var_engine_evaluation_seconds",
				Help:    "Risk evaluation latency distribution",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 15),
			},
			[]string{"portfolio"},
		),
		riskPctGauge: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "var_engine_risk_pct",
				Help: "Latest risk estimate as a return fraction, by method",
			},
			[]string{"portfolio", "method"},
		),
		riskAmountGauge: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "var_engine_risk_amount",
				Help: "Latest risk estimate in currency terms, by method",
			},
			[]string{"portfolio", "method"},
		),
		observationsGauge: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "var_engine_rolling_observations",
				Help: "Number of rolling return observations in the latest evaluation",
			},
			[]string{"portfolio"},
		),
		apiRequestCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "var_engine_api_requests_total",
				Help: "Total API requests",
			},
			[]string{"method", "path", "status"},
		),
		apiLatencyHistogram: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "var_engine_api_latency_seconds",
				Help:    "API request latency distribution",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
			},
			[]string{"method", "path"},
		),
	}
}

// RecordEvaluation records a successful evaluation and its estimates.
func (r *Recorder) RecordEvaluation(portfolioID string, report *models.RiskReport, duration time.Duration) {
	r.evaluationCounter.WithLabelValues(portfolioID, "success").Inc()
	r.evaluationLatency.WithLabelValues(portfolioID).Observe(duration.Seconds())
	r.observationsGauge.WithLabelValues(portfolioID).Set(float64(report.Observations))

	for _, est := range []models.RiskEstimate{report.Historical, report.Parametric, report.Conditional} {
		r.riskPctGauge.WithLabelValues(portfolioID, string(est.Method)).Set(est.Pct)
		r.riskAmountGauge.WithLabelValues(portfolioID, string(est.Method)).Set(est.Amount)
	}
}

// RecordEvaluationError records a failed evaluation.
func (r *Recorder) RecordEvaluationError(portfolioID string) {
	r.evaluationCounter.WithLabelValues(portfolioID, "error").Inc()
}

// RecordAPIRequest records one handled API request.
func (r *Recorder) RecordAPIRequest(method, path string, status int, duration time.Duration) {
	r.apiRequestCounter.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	r.apiLatencyHistogram.WithLabelValues(method, path).Observe(duration.Seconds())
}
