package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline counter vectors
var (
	PipelineRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pipeline_runs_total",
		Help:      "Total number of feature pipeline runs by status",
	}, []string{"status"})
	ReconciledMatchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconciled_matches_total",
		Help:      "Primary rows by reconciliation result",
	}, []string{"result"})
)

// Pipeline histograms
var (
	PipelineRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pipeline_run_duration_seconds",
		Help:      "Duration of full pipeline runs in seconds",
		Buckets:   []float64{0.5, 1, 5, 10, 30, 60, 300, 600},
	})
	PipelineStageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pipeline_stage_duration_seconds",
		Help:      "Duration of each pipeline stage in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"stage"})
)

// Pipeline gauges
var (
	FeatureRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "feature_rows",
		Help:      "Rows in the most recently assembled feature table",
	})
	FeatureMissingValues = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "feature_missing_values",
		Help:      "Missing values per feature column in the most recent table",
	}, []string{"column"})
	DatasetRows = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dataset_rows",
		Help:      "Rows per dataset partition in the most recent split",
	}, []string{"partition"})
	FeatureCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "feature_cache_hit_ratio",
		Help:      "Feature table cache hit ratio",
	})
)

// RecordPipelineRun records a pipeline run event.
// status should be one of: "success", "failure"
func RecordPipelineRun(status string, durationSeconds float64) {
	PipelineRunsTotal.WithLabelValues(status).Inc()
	PipelineRunDuration.Observe(durationSeconds)
}

// RecordStage records the duration of a pipeline stage.
func RecordStage(stage string, durationSeconds float64) {
	PipelineStageDuration.WithLabelValues(stage).Observe(durationSeconds)
}

// RecordReconciliation records join results.
func RecordReconciliation(matched, unmatched, duplicates int) {
	ReconciledMatchesTotal.WithLabelValues("matched").Add(float64(matched))
	ReconciledMatchesTotal.WithLabelValues("unmatched").Add(float64(unmatched))
	ReconciledMatchesTotal.WithLabelValues("duplicate").Add(float64(duplicates))
}

// UpdateFeatureTable sets the row and missing-value gauges.
func UpdateFeatureTable(rows int, missing map[string]int) {
	FeatureRows.Set(float64(rows))
	for col, n := range missing {
		FeatureMissingValues.WithLabelValues(col).Set(float64(n))
	}
}

// UpdateDatasetRows sets the row count of a dataset partition.
func UpdateDatasetRows(partition string, rows int) {
	DatasetRows.WithLabelValues(partition).Set(float64(rows))
}

// UpdateCacheHitRatio sets the feature cache hit ratio.
func UpdateCacheHitRatio(ratio float64) {
	FeatureCacheHitRatio.Set(ratio)
}
