// Package dataset partitions feature tables along season boundaries.
package dataset

import (
	"sort"

	"github.com/yourusername/football-ml/internal/models"
)

// Split holds one leakage-free partition of a feature table
type Split struct {
	TrainSeasons []int
	EvalSeason   int
	Train        []models.FeatureRow
	Eval         []models.FeatureRow
}

// Seasons returns the distinct seasons of rows in ascending order
func Seasons(rows []models.FeatureRow) []int {
	seen := make(map[int]struct{})
	for i := range rows {
		seen[rows[i].Season] = struct{}{}
	}
	seasons := make([]int, 0, len(seen))
	for s := range seen {
		seasons = append(seasons, s)
	}
	sort.Ints(seasons)
	return seasons
}

// SplitBySeason evaluates on the latest season and trains on every earlier one.
// Row order inside each side follows the input.
func SplitBySeason(rows []models.FeatureRow) (*Split, error) {
	seasons := Seasons(rows)
	if len(seasons) < 2 {
		return nil, &models.InsufficientSeasonsError{Seasons: seasons}
	}
	eval := seasons[len(seasons)-1]
	return partition(rows, seasons[:len(seasons)-1], eval), nil
}

// partition assigns rows of trainSeasons to Train and rows of evalSeason to Eval.
// Rows of any other season are left out.
func partition(rows []models.FeatureRow, trainSeasons []int, evalSeason int) *Split {
	train := make(map[int]struct{}, len(trainSeasons))
	for _, s := range trainSeasons {
		train[s] = struct{}{}
	}

	split := &Split{
		TrainSeasons: append([]int(nil), trainSeasons...),
		EvalSeason:   evalSeason,
		Train:        []models.FeatureRow{},
		Eval:         []models.FeatureRow{},
	}
	for i := range rows {
		if _, ok := train[rows[i].Season]; ok {
			split.Train = append(split.Train, rows[i])
		} else if rows[i].Season == evalSeason {
			split.Eval = append(split.Eval, rows[i])
		}
	}
	return split
}

// Labeled returns the rows whose outcome is known
func Labeled(rows []models.FeatureRow) []models.FeatureRow {
	out := make([]models.FeatureRow, 0, len(rows))
	for i := range rows {
		if rows[i].Label != models.LabelUnknown {
			out = append(out, rows[i])
		}
	}
	return out
}

// Upcoming returns the unplayed fixtures, which are scored but never trained on
func Upcoming(rows []models.FeatureRow) []models.FeatureRow {
	out := make([]models.FeatureRow, 0)
	for i := range rows {
		if rows[i].Label == models.LabelUnknown {
			out = append(out, rows[i])
		}
	}
	return out
}
