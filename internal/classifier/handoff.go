package classifier

import (
	"context"
	"fmt"

	"github.com/yourusername/football-ml/internal/config"
	"github.com/yourusername/football-ml/internal/logger"
	"github.com/yourusername/football-ml/internal/models"
)

// Submitter posts one dataset partition
type Submitter interface {
	SubmitDataset(ctx context.Context, sub *DatasetSubmission) (*SubmissionResponse, error)
}

// Partition is a named slice of the feature table
type Partition struct {
	Name string
	Rows []models.FeatureRow
}

// Handoff probes the classifier and submits every partition of a run
type Handoff struct {
	submitter   Submitter
	grpcAddress string
	cfg         config.ClassifierConfig
	logger      *logger.ClassifierLogger
}

// NewHandoff creates a hand-off over the HTTP client built from cfg
func NewHandoff(cfg config.ClassifierConfig, log *logger.ClassifierLogger) *Handoff {
	return NewHandoffWithSubmitter(cfg, NewHTTPClient(&cfg, log), log)
}

// NewHandoffWithSubmitter creates a hand-off over an existing submitter
func NewHandoffWithSubmitter(cfg config.ClassifierConfig, submitter Submitter, log *logger.ClassifierLogger) *Handoff {
	return &Handoff{
		submitter:   submitter,
		grpcAddress: cfg.GRPCAddress,
		cfg:         cfg,
		logger:      log,
	}
}

// Deliver submits partitions in order and stops at the first failure.
// Empty partitions are skipped.
func (h *Handoff) Deliver(ctx context.Context, runID string, partitions []Partition, columns []string) error {
	if h.grpcAddress != "" {
		if err := ProbeGRPC(ctx, h.grpcAddress, "", h.cfg.RequestTimeout(), h.logger); err != nil {
			return err
		}
	}

	for _, p := range partitions {
		if len(p.Rows) == 0 {
			continue
		}
		if _, err := h.submitter.SubmitDataset(ctx, NewDatasetSubmission(runID, p.Name, p.Rows, columns)); err != nil {
			return fmt.Errorf("submit %s partition: %w", p.Name, err)
		}
	}
	return nil
}
