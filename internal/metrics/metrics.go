// Package metrics defines the Prometheus instrumentation shared by the
// recommendation engine, the weather resolver and the outbound adapters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_recommendations_total",
			Help: "Recommendations produced, by emotion and activity",
		},
		[]string{"emotion", "activity"},
	)

	RecommendationConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cadence_recommendation_confidence_percent",
			Help:    "Self-reported ratio accuracy of produced recommendations",
			Buckets: []float64{50, 60, 70, 80, 85, 90, 95, 100},
		},
	)

	WeatherResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_weather_resolutions_total",
			Help: "Weather resolutions by the provenance of the winning stage",
		},
		[]string{"provenance", "weather"},
	)

	WeatherAttemptFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_weather_attempt_failures_total",
			Help: "Failed remote weather attempts by stage and reason",
		},
		[]string{"stage", "reason"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cadence_upstream_request_duration_seconds",
			Help:    "Latency of outbound requests to weather and catalogue services",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"upstream", "outcome"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cadence_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	WorkerJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_worker_jobs_total",
			Help: "Audio analysis jobs by outcome",
		},
		[]string{"outcome"},
	)
)
