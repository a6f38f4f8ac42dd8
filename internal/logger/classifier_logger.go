package logger

import (
	"github.com/sirupsen/logrus"
)

// ClassifierLogger provides dedicated logging for the downstream classifier hand-off.
type ClassifierLogger struct {
	*logrus.Entry
}

// NewClassifierLogger creates a new classifier logger.
func NewClassifierLogger(baseLogger *logrus.Logger) *ClassifierLogger {
	return &ClassifierLogger{
		Entry: baseLogger.WithField("component", "classifier"),
	}
}

// LogSubmission logs a dataset submission.
func (cl *ClassifierLogger) LogSubmission(runID, partition string, rows, featuresCount int, latencyMs float64) {
	cl.WithFields(logrus.Fields{
		"run_id":         runID,
		"partition":      partition,
		"rows":           rows,
		"features_count": featuresCount,
		"latency_ms":     latencyMs,
	}).Info("Dataset submitted to classifier")
}

// LogHealthProbe logs a classifier health check.
func (cl *ClassifierLogger) LogHealthProbe(transport, status string, latencyMs float64) {
	cl.WithFields(logrus.Fields{
		"transport":  transport,
		"status":     status,
		"latency_ms": latencyMs,
	}).Debug("Classifier health probed")
}

// LogSubmissionError logs a failed submission.
func (cl *ClassifierLogger) LogSubmissionError(runID, partition, reason string) {
	cl.WithFields(logrus.Fields{
		"run_id":       runID,
		"partition":    partition,
		"error_reason": reason,
	}).Error("Classifier submission failed")
}
