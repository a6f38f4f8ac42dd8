package dataset

import (
	"fmt"

	"github.com/yourusername/football-ml/internal/models"
)

// WalkForwardConfig configures season walk-forward folds
type WalkForwardConfig struct {
	// MinTrainSeasons is the number of seasons the first fold trains on
	MinTrainSeasons int
	// MaxTrainSeasons caps the training window; zero keeps every earlier season
	MaxTrainSeasons int
}

// Fold is one walk-forward step
type Fold struct {
	FoldID int
	Split
}

// WalkForward produces one fold per evaluation season. Fold i evaluates on season
// s_i and trains only on seasons strictly before it, so every fold keeps the
// guarantee of SplitBySeason.
func WalkForward(rows []models.FeatureRow, cfg WalkForwardConfig) ([]Fold, error) {
	if cfg.MinTrainSeasons <= 0 {
		cfg.MinTrainSeasons = 1
	}
	if cfg.MaxTrainSeasons < 0 {
		return nil, fmt.Errorf("max train seasons must not be negative, got %d", cfg.MaxTrainSeasons)
	}
	if cfg.MaxTrainSeasons > 0 && cfg.MaxTrainSeasons < cfg.MinTrainSeasons {
		return nil, fmt.Errorf("max train seasons %d is below min train seasons %d", cfg.MaxTrainSeasons, cfg.MinTrainSeasons)
	}

	seasons := Seasons(rows)
	if len(seasons) < 2 {
		return nil, &models.InsufficientSeasonsError{Seasons: seasons}
	}
	if cfg.MinTrainSeasons >= len(seasons) {
		return nil, fmt.Errorf("%w: %d seasons available, walk-forward needs %d for training plus one for evaluation",
			models.ErrInsufficientSeasons, len(seasons), cfg.MinTrainSeasons)
	}

	folds := make([]Fold, 0, len(seasons)-cfg.MinTrainSeasons)
	for i := cfg.MinTrainSeasons; i < len(seasons); i++ {
		start := 0
		if cfg.MaxTrainSeasons > 0 && i > cfg.MaxTrainSeasons {
			start = i - cfg.MaxTrainSeasons
		}
		split := partition(rows, seasons[start:i], seasons[i])
		folds = append(folds, Fold{FoldID: len(folds) + 1, Split: *split})
	}
	return folds, nil
}
