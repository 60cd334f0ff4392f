package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WorkerMetrics instruments the ingestion worker.
type WorkerMetrics struct {
	registry *prometheus.Registry

	jobsTotal     *prometheus.CounterVec
	jobDuration   *prometheus.HistogramVec
	jobsInFlight  prometheus.Gauge
	stageFailures *prometheus.CounterVec
}

// NewWorkerMetrics builds a registry with job counters by outcome, a
// duration histogram, an in-flight gauge, and a per-stage failure counter.
func NewWorkerMetrics() *WorkerMetrics {
	registry := prometheus.NewRegistry()

	jobsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "switchyard",
			Subsystem: "worker",
			Name:      "jobs_total",
			Help:      "Total processed ingestion jobs by outcome.",
		},
		[]string{"outcome"},
	)
	jobDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "switchyard",
			Subsystem: "worker",
			Name:      "job_duration_seconds",
			Help:      "Ingestion job duration in seconds by outcome.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"outcome"},
	)
	jobsInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "switchyard",
			Subsystem: "worker",
			Name:      "jobs_in_flight",
			Help:      "Number of ingestion jobs currently processing.",
		},
	)
	stageFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "switchyard",
			Subsystem: "worker",
			Name:      "stage_failures_total",
			Help:      "Total pipeline stage failures, fatal and degraded.",
		},
		[]string{"stage"},
	)

	registry.MustRegister(jobsTotal, jobDuration, jobsInFlight, stageFailures)

	return &WorkerMetrics{
		registry:      registry,
		jobsTotal:     jobsTotal,
		jobDuration:   jobDuration,
		jobsInFlight:  jobsInFlight,
		stageFailures: stageFailures,
	}
}

// Handler serves the registry in Prometheus exposition format.
func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartJob marks a job as in flight.
func (m *WorkerMetrics) StartJob() {
	m.jobsInFlight.Inc()
}

// FinishJob records a completed job with its outcome ("ready" or "failed").
func (m *WorkerMetrics) FinishJob(outcome string, duration time.Duration) {
	m.jobsInFlight.Dec()
	m.jobsTotal.WithLabelValues(outcome).Inc()
	m.jobDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordStageFailure counts a failed pipeline stage.
func (m *WorkerMetrics) RecordStageFailure(stage string) {
	m.stageFailures.WithLabelValues(stage).Inc()
}
