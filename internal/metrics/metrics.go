// Package metrics defines Prometheus metrics for relister.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "relister"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})
)

// Health gauges.
var (
	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "Whether the liveness probe is passing (1) or failing (0).",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "Whether the readiness probe is passing (1) or failing (0).",
	})
)

// Generation metrics.
var (
	GenerationAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generation_attempts_total",
		Help:      "Total number of listing generation attempts.",
	})

	GenerationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generation_failures_total",
		Help:      "Total number of generation failures by cause.",
	}, []string{"cause"})

	GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "generation_duration_seconds",
		Help:      "Duration of single-candidate generation in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	BatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "batch_duration_seconds",
		Help:      "Duration of bulk generation passes in seconds.",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})
)

// Vision API metrics.
var (
	VisionCallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vision_calls_total",
		Help:      "Total cumulative vision analysis calls.",
	})

	VisionCallDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "vision_call_duration_seconds",
		Help:      "Duration of vision analysis calls in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	VisionDailyUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "vision_daily_usage",
		Help:      "Current daily vision call count within the rolling 24-hour window.",
	})

	VisionDailyLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vision_daily_limit_hits_total",
		Help:      "Total number of times the daily vision API limit was reached.",
	})
)

// Reconciliation sweep metrics.
var (
	SweepDemotionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweep_demotions_total",
		Help:      "Total number of stuck items demoted by the reconciliation sweep.",
	})

	SweepRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweep_runs_total",
		Help:      "Total number of reconciliation sweep runs.",
	})
)
