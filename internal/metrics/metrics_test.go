package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordIngestion(t *testing.T) {
	InitRegistry()

	before := testutil.ToFloat64(IngestionRecordsTotal.WithLabelValues("csv", "stored"))
	RecordIngestion("csv", 10, 8, 2)

	assert.Equal(t, before+8, testutil.ToFloat64(IngestionRecordsTotal.WithLabelValues("csv", "stored")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(IngestionRecordsTotal.WithLabelValues("csv", "rejected")), 2.0)
}

func TestRecordReconciliation(t *testing.T) {
	InitRegistry()

	before := testutil.ToFloat64(ReconciledMatchesTotal.WithLabelValues("unmatched"))
	RecordReconciliation(5, 3, 1)
	assert.Equal(t, before+3, testutil.ToFloat64(ReconciledMatchesTotal.WithLabelValues("unmatched")))
}

func TestUpdateFeatureTable(t *testing.T) {
	InitRegistry()

	UpdateFeatureTable(42, map[string]int{"elo_diff": 0, "odds_margin": 7})

	assert.Equal(t, 42.0, testutil.ToFloat64(FeatureRows))
	assert.Equal(t, 7.0, testutil.ToFloat64(FeatureMissingValues.WithLabelValues("odds_margin")))
	assert.Equal(t, 0.0, testutil.ToFloat64(FeatureMissingValues.WithLabelValues("elo_diff")))
}

func TestUpdateDatasetRows(t *testing.T) {
	tests := []struct {
		name      string
		partition string
		rows      int
	}{
		{name: "train", partition: "train", rows: 760},
		{name: "eval", partition: "eval", rows: 380},
		{name: "empty upcoming", partition: "upcoming", rows: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			UpdateDatasetRows(tt.partition, tt.rows)
			assert.Equal(t, float64(tt.rows), testutil.ToFloat64(DatasetRows.WithLabelValues(tt.partition)))
		})
	}
}

func TestRecordPipelineRun(t *testing.T) {
	InitRegistry()

	before := testutil.ToFloat64(PipelineRunsTotal.WithLabelValues("success"))
	assert.NotPanics(t, func() {
		RecordPipelineRun("success", 1.5)
		RecordStage("assemble", 0.2)
	})
	assert.Equal(t, before+1, testutil.ToFloat64(PipelineRunsTotal.WithLabelValues("success")))
}

func TestHandlerServesNamespace(t *testing.T) {
	UpdateCacheHitRatio(0.5)

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "football_ml_feature_cache_hit_ratio 0.5")
}
