package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/football-ml/internal/reconcile"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLoggerWithOutput(buf, "debug", "production")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	log = NewLoggerWithOutput(buf, "nonsense", "development")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

func TestPipelineLoggerReconciliation(t *testing.T) {
	log, buf := setupTestLogger()
	pipelineLogger := NewPipelineLogger(log).WithRun("run-1")

	pipelineLogger.LogReconciliation("football-data.org", "api-football", reconcile.Stats{
		PrimaryRows: 380,
		Matched:     371,
		Unmatched:   9,
	})

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "pipeline", logEntry["component"])
	assert.Equal(t, "run-1", logEntry["run_id"])
	assert.Equal(t, float64(371), logEntry["matched"])
	assert.Equal(t, "info", logEntry["level"])
}

func TestPipelineLoggerReconciliationWarnsOnDuplicates(t *testing.T) {
	log, buf := setupTestLogger()
	NewPipelineLogger(log).LogReconciliation("a", "b", reconcile.Stats{SecondaryDuplicates: 2})

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
}

func TestPipelineLoggerFeatureBuild(t *testing.T) {
	log, buf := setupTestLogger()
	NewPipelineLogger(log).LogFeatureBuild(10, 15, map[string]int{"elo_home": 0, "odds_margin": 4, "home_points_last5": 2}, false, 12.5)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, []interface{}{"home_points_last5", "odds_margin"}, logEntry["incomplete_columns"])
	assert.Equal(t, false, logEntry["cache_hit"])
}

func TestPipelineLoggerRunFailed(t *testing.T) {
	log, buf := setupTestLogger()
	NewPipelineLogger(log).LogRunFailed("split", errors.New("need at least two distinct seasons"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "split", logEntry["stage"])
	assert.Equal(t, "need at least two distinct seasons", logEntry["error"])
	assert.Equal(t, "error", logEntry["level"])
}

func TestClassifierLoggerSubmission(t *testing.T) {
	log, buf := setupTestLogger()
	NewClassifierLogger(log).LogSubmission("run-1", "train", 760, 15, 40.2)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "classifier", logEntry["component"])
	assert.Equal(t, "train", logEntry["partition"])
}

func TestAuditLoggerMatchesStored(t *testing.T) {
	log, buf := setupTestLogger()
	ts := time.Date(2024, 5, 20, 6, 0, 0, 0, time.UTC)
	NewAuditLogger(log).LogMatchesStored("api-football", 2023, 380, ts)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "audit", logEntry["component"])
	assert.Equal(t, "matches_stored", logEntry["event_type"])
	assert.Equal(t, "2024-05-20T06:00:00Z", logEntry["timestamp"])
}

func BenchmarkPipelineLoggerFeatureBuild(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	log.SetFormatter(&logrus.JSONFormatter{})
	pl := NewPipelineLogger(log)
	missing := map[string]int{"elo_home": 0, "odds_margin": 12}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pl.LogFeatureBuild(1000, 15, missing, true, 1.5)
	}
}
