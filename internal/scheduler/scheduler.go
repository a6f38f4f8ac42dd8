// Package scheduler runs the ingest and rebuild cycle on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/football-ml/internal/service"
)

// Ingester refreshes the stored provider tables
type Ingester interface {
	IngestAll(ctx context.Context, seasons []int) ([]*service.IngestionMetrics, error)
}

// Builder rebuilds the feature table from the stored provider tables
type Builder interface {
	Run(ctx context.Context) (*service.RunResult, error)
}

// RunReport describes the outcome of one refresh cycle
type RunReport struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Ingestion  []*service.IngestionMetrics
	Result     *service.RunResult
	Err        error
}

// Scheduler manages the scheduled refresh job
type Scheduler struct {
	cron            *cron.Cron
	ingester        Ingester
	builder         Builder
	seasons         []int
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
	jobTimeout      time.Duration
	lastReport      *RunReport
	onReport        func(RunReport)
}

// NewScheduler creates a new scheduler. ingester may be nil to rebuild from
// whatever is already stored.
func NewScheduler(ingester Ingester, builder Builder, seasons []int, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger))),
		),
		ingester:        ingester,
		builder:         builder,
		seasons:         seasons,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
		jobTimeout:      4 * time.Hour,
	}
}

// OnReport registers a callback invoked after every refresh cycle
func (s *Scheduler) OnReport(fn func(RunReport)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReport = fn
}

// ScheduleRefresh schedules the ingest and rebuild cycle
func (s *Scheduler) ScheduleRefresh(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("schedule", cronExpression).Info("Scheduled feature refresh")
	return nil
}

// RunOnce ingests the configured seasons and rebuilds the feature table.
// An ingestion failure is logged and the rebuild still runs on the stored tables.
func (s *Scheduler) RunOnce(ctx context.Context) RunReport {
	report := RunReport{StartedAt: time.Now()}
	log := s.logger.WithField("job", "feature_refresh")

	var ingestErr error
	if s.ingester != nil {
		report.Ingestion, ingestErr = s.ingester.IngestAll(ctx, s.seasons)
		if ingestErr != nil {
			log.WithError(ingestErr).Warn("Ingestion finished with errors")
		}
		for _, m := range report.Ingestion {
			log.Info(m.String())
		}
	}

	result, err := s.builder.Run(ctx)
	report.Result = result
	report.Err = errors.Join(ingestErr, err)
	report.FinishedAt = time.Now()

	if err != nil {
		log.WithError(err).Error("Feature refresh failed")
	} else {
		log.WithFields(logrus.Fields{
			"run_id":   result.RunID.String(),
			"duration": report.FinishedAt.Sub(report.StartedAt).String(),
		}).Info("Feature refresh completed")
	}

	s.mu.Lock()
	s.lastReport = &report
	onReport := s.onReport
	s.mu.Unlock()
	if onReport != nil {
		onReport(report)
	}
	return report
}

// LastReport returns the most recent cycle outcome, or nil before the first run
func (s *Scheduler) LastReport() *RunReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReport
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler and waits for a running job up to the graceful timeout
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	done := s.cron.Stop().Done()
	s.mu.Unlock()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler did not stop within %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}
