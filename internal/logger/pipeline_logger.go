package logger

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/football-ml/internal/reconcile"
)

// PipelineLogger provides dedicated logging for feature pipeline runs.
type PipelineLogger struct {
	*logrus.Entry
}

// NewPipelineLogger creates a new pipeline logger.
func NewPipelineLogger(baseLogger *logrus.Logger) *PipelineLogger {
	return &PipelineLogger{
		Entry: baseLogger.WithField("component", "pipeline"),
	}
}

// WithRun returns a logger tagged with a run id
func (pl *PipelineLogger) WithRun(runID string) *PipelineLogger {
	return &PipelineLogger{Entry: pl.WithField("run_id", runID)}
}

// LogIngestion logs one provider season fetch.
func (pl *PipelineLogger) LogIngestion(provider string, season, fetched, stored, rejected int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"provider":    provider,
		"season":      season,
		"fetched":     fetched,
		"stored":      stored,
		"rejected":    rejected,
		"duration_ms": durationMs,
	}).Info("Provider ingestion completed")
}

// LogReconciliation logs the outcome of a left join.
func (pl *PipelineLogger) LogReconciliation(primary, secondary string, stats reconcile.Stats) {
	entry := pl.WithFields(logrus.Fields{
		"primary_provider":     primary,
		"secondary_provider":   secondary,
		"primary_rows":         stats.PrimaryRows,
		"secondary_rows":       stats.SecondaryRows,
		"matched":              stats.Matched,
		"unmatched":            stats.Unmatched,
		"primary_duplicates":   stats.PrimaryDuplicates,
		"secondary_duplicates": stats.SecondaryDuplicates,
		"secondary_unused":     stats.SecondaryUnused,
	})
	if stats.PrimaryDuplicates > 0 || stats.SecondaryDuplicates > 0 {
		entry.Warn("Reconciliation dropped duplicate match keys")
		return
	}
	entry.Info("Reconciliation completed")
}

// LogFeatureBuild logs a feature assembly with the missing-value count of every column.
func (pl *PipelineLogger) LogFeatureBuild(rows, columns int, missing map[string]int, cacheHit bool, durationMs float64) {
	incomplete := make([]string, 0, len(missing))
	for col, n := range missing {
		if n > 0 {
			incomplete = append(incomplete, col)
		}
	}
	sort.Strings(incomplete)

	pl.WithFields(logrus.Fields{
		"rows":               rows,
		"columns":            columns,
		"missing_values":     missing,
		"incomplete_columns": incomplete,
		"cache_hit":          cacheHit,
		"duration_ms":        durationMs,
	}).Info("Feature table assembled")
}

// LogSplit logs a season split.
func (pl *PipelineLogger) LogSplit(trainSeasons []int, evalSeason, trainRows, evalRows, upcomingRows int) {
	pl.WithFields(logrus.Fields{
		"train_seasons": trainSeasons,
		"eval_season":   evalSeason,
		"train_rows":    trainRows,
		"eval_rows":     evalRows,
		"upcoming_rows": upcomingRows,
	}).Info("Dataset split by season")
}

// LogFold logs one walk-forward fold.
func (pl *PipelineLogger) LogFold(foldID int, trainSeasons []int, evalSeason, trainRows, evalRows int) {
	pl.WithFields(logrus.Fields{
		"fold_id":       foldID,
		"train_seasons": trainSeasons,
		"eval_season":   evalSeason,
		"train_rows":    trainRows,
		"eval_rows":     evalRows,
	}).Debug("Walk-forward fold prepared")
}

// LogExport logs the files written by a run.
func (pl *PipelineLogger) LogExport(outputDir string, files []string) {
	pl.WithFields(logrus.Fields{
		"output_dir": outputDir,
		"files":      files,
	}).Info("Pipeline outputs exported")
}

// LogRunCompleted logs the end of a successful run.
func (pl *PipelineLogger) LogRunCompleted(durationMs float64) {
	pl.WithFields(logrus.Fields{
		"event_type":  "completed",
		"duration_ms": durationMs,
	}).Info("Pipeline run completed")
}

// LogRunFailed logs the stage at which a run aborted.
func (pl *PipelineLogger) LogRunFailed(stage string, err error) {
	pl.WithFields(logrus.Fields{
		"event_type": "failed",
		"stage":      stage,
	}).WithError(err).Error("Pipeline run failed")
}
