package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/yourusername/football-ml/internal/models"
)

// MatchRepository defines the interface for raw provider tables
type MatchRepository interface {
	// UpsertBatch stores records keyed by (provider, external_id); later records win
	UpsertBatch(ctx context.Context, records []models.MatchRecord) (int, error)
	// ListByProvider returns one provider's records ordered by kick-off.
	// An empty seasons slice returns every season.
	ListByProvider(ctx context.Context, provider models.Provider, seasons []int) ([]models.MatchRecord, error)
	Count(ctx context.Context, provider models.Provider) (int, error)
}

// FeatureRepository defines the interface for assembled feature tables
type FeatureRepository interface {
	SaveRun(ctx context.Context, run *models.FeatureRun, rows []models.FeatureRow) error
	GetRun(ctx context.Context, id uuid.UUID) (*models.FeatureRun, error)
	GetRows(ctx context.Context, id uuid.UUID) ([]models.FeatureRow, error)
	LatestRun(ctx context.Context) (*models.FeatureRun, error)
}
