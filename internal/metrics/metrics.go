// Package metrics provides centralized Prometheus metrics registry for the feature pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "football_ml"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	IngestionRecordsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingestion_records_total",
		Help:      "Match records seen during ingestion by provider and outcome",
	}, []string{"provider", "outcome"})
	IngestionRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingestion_runs_total",
		Help:      "Provider ingestion runs by provider and status",
	}, []string{"provider", "status"})
	CircuitBreakerTripsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of provider circuit breaker trips",
	}, []string{"source"})
	ClassifierSubmissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "classifier_submissions_total",
		Help:      "Dataset submissions to the classifier service by status",
	}, []string{"status"})
)

// Histogram metrics
var (
	ProviderFetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_fetch_duration_seconds",
		Help:      "Duration of one provider season fetch in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	}, []string{"provider"})
	ClassifierLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "classifier_request_latency_seconds",
		Help:      "Latency of classifier requests in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(IngestionRecordsTotal)
		registry.MustRegister(IngestionRunsTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)
		registry.MustRegister(ClassifierSubmissionsTotal)

		registry.MustRegister(ProviderFetchDuration)
		registry.MustRegister(ClassifierLatency)

		// Register pipeline metrics
		registry.MustRegister(PipelineRunsTotal)
		registry.MustRegister(PipelineRunDuration)
		registry.MustRegister(PipelineStageDuration)
		registry.MustRegister(ReconciledMatchesTotal)
		registry.MustRegister(FeatureRows)
		registry.MustRegister(FeatureMissingValues)
		registry.MustRegister(DatasetRows)
		registry.MustRegister(FeatureCacheHitRatio)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordIngestion records the outcome counts of one provider season.
func RecordIngestion(provider string, fetched, stored, rejected int) {
	IngestionRecordsTotal.WithLabelValues(provider, "fetched").Add(float64(fetched))
	IngestionRecordsTotal.WithLabelValues(provider, "stored").Add(float64(stored))
	IngestionRecordsTotal.WithLabelValues(provider, "rejected").Add(float64(rejected))
}

// RecordIngestionRun records a provider ingestion run.
// status should be one of: "success", "failure"
func RecordIngestionRun(provider, status string) {
	IngestionRunsTotal.WithLabelValues(provider, status).Inc()
}

// RecordProviderFetch records the duration of a provider fetch.
func RecordProviderFetch(provider string, durationSeconds float64) {
	ProviderFetchDuration.WithLabelValues(provider).Observe(durationSeconds)
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip(source string) {
	CircuitBreakerTripsTotal.WithLabelValues(source).Inc()
}

// RecordClassifierSubmission records a classifier submission and its latency.
func RecordClassifierSubmission(status string, durationSeconds float64) {
	ClassifierSubmissionsTotal.WithLabelValues(status).Inc()
	ClassifierLatency.Observe(durationSeconds)
}
