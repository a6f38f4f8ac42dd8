package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger records every durable write so a feature table can be traced back to its inputs.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogMatchesStored logs an upsert of raw provider records.
func (al *AuditLogger) LogMatchesStored(provider string, season, rows int, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"event_type": "matches_stored",
		"provider":   provider,
		"season":     season,
		"rows":       rows,
		"timestamp":  timestamp.UTC().Format(time.RFC3339),
	}).Info("Audit: provider matches stored")
}

// LogFeatureRunStored logs a persisted feature run.
func (al *AuditLogger) LogFeatureRunStored(runID, fingerprint string, rows int, parameters map[string]interface{}) {
	al.WithFields(logrus.Fields{
		"event_type":  "feature_run_stored",
		"run_id":      runID,
		"fingerprint": fingerprint,
		"rows":        rows,
		"parameters":  parameters,
	}).Info("Audit: feature run stored")
}

// LogFileWritten logs an exported table.
func (al *AuditLogger) LogFileWritten(path string, rows int) {
	al.WithFields(logrus.Fields{
		"event_type": "file_written",
		"path":       path,
		"rows":       rows,
	}).Info("Audit: table exported")
}
