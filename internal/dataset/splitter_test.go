package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/football-ml/internal/models"
)

func row(id string, season int, label models.Label) models.FeatureRow {
	return models.FeatureRow{
		CanonicalMatch: models.CanonicalMatch{
			MatchRecord: models.MatchRecord{ExternalID: id, Season: season},
			Label:       label,
		},
	}
}

func ids(rows []models.FeatureRow) []string {
	out := make([]string, len(rows))
	for i := range rows {
		out[i] = rows[i].ExternalID
	}
	return out
}

func TestSplitBySeason(t *testing.T) {
	rows := []models.FeatureRow{
		row("a", 2022, models.LabelHomeWin),
		row("b", 2023, models.LabelDraw),
		row("c", 2021, models.LabelAwayWin),
		row("d", 2023, models.LabelHomeWin),
		row("e", 2021, models.LabelDraw),
	}

	split, err := SplitBySeason(rows)
	require.NoError(t, err)

	assert.Equal(t, 2023, split.EvalSeason)
	assert.Equal(t, []int{2021, 2022}, split.TrainSeasons)
	assert.Equal(t, []string{"a", "c", "e"}, ids(split.Train))
	assert.Equal(t, []string{"b", "d"}, ids(split.Eval))

	for _, r := range split.Train {
		assert.Less(t, r.Season, split.EvalSeason)
	}
}

func TestSplitBySeasonSingleSeason(t *testing.T) {
	rows := []models.FeatureRow{row("a", 2023, models.LabelHomeWin), row("b", 2023, models.LabelDraw)}

	split, err := SplitBySeason(rows)
	assert.Nil(t, split)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInsufficientSeasons))

	var seasonsErr *models.InsufficientSeasonsError
	require.True(t, errors.As(err, &seasonsErr))
	assert.Equal(t, []int{2023}, seasonsErr.Seasons)
}

func TestSplitBySeasonEmpty(t *testing.T) {
	_, err := SplitBySeason(nil)
	assert.ErrorIs(t, err, models.ErrInsufficientSeasons)
}

func TestLabeledAndUpcoming(t *testing.T) {
	rows := []models.FeatureRow{
		row("a", 2023, models.LabelHomeWin),
		row("b", 2023, models.LabelUnknown),
		row("c", 2023, models.LabelDraw),
	}

	assert.Equal(t, []string{"a", "c"}, ids(Labeled(rows)))
	assert.Equal(t, []string{"b"}, ids(Upcoming(rows)))
	assert.Empty(t, Upcoming(Labeled(rows)))
}

func TestWalkForward(t *testing.T) {
	rows := []models.FeatureRow{
		row("a", 2020, models.LabelHomeWin),
		row("b", 2021, models.LabelDraw),
		row("c", 2022, models.LabelAwayWin),
		row("d", 2023, models.LabelHomeWin),
	}

	folds, err := WalkForward(rows, WalkForwardConfig{MinTrainSeasons: 2})
	require.NoError(t, err)
	require.Len(t, folds, 2)

	assert.Equal(t, 1, folds[0].FoldID)
	assert.Equal(t, []int{2020, 2021}, folds[0].TrainSeasons)
	assert.Equal(t, 2022, folds[0].EvalSeason)
	assert.Equal(t, []string{"c"}, ids(folds[0].Eval))
	assert.Equal(t, []string{"a", "b", "c"}, ids(folds[1].Train))
	assert.Equal(t, []string{"d"}, ids(folds[1].Eval))

	last, err := SplitBySeason(rows)
	require.NoError(t, err)
	assert.Equal(t, *last, folds[len(folds)-1].Split)
}

func TestWalkForwardMaxTrainSeasons(t *testing.T) {
	rows := []models.FeatureRow{
		row("a", 2020, models.LabelHomeWin),
		row("b", 2021, models.LabelDraw),
		row("c", 2022, models.LabelAwayWin),
		row("d", 2023, models.LabelHomeWin),
	}

	folds, err := WalkForward(rows, WalkForwardConfig{MinTrainSeasons: 1, MaxTrainSeasons: 1})
	require.NoError(t, err)
	require.Len(t, folds, 3)
	for _, f := range folds {
		assert.Equal(t, []int{f.EvalSeason - 1}, f.TrainSeasons)
	}
}

func TestWalkForwardErrors(t *testing.T) {
	rows := []models.FeatureRow{row("a", 2022, models.LabelHomeWin), row("b", 2023, models.LabelDraw)}

	_, err := WalkForward(rows, WalkForwardConfig{MinTrainSeasons: 2})
	assert.ErrorIs(t, err, models.ErrInsufficientSeasons)

	_, err = WalkForward(rows[:1], WalkForwardConfig{})
	assert.ErrorIs(t, err, models.ErrInsufficientSeasons)

	_, err = WalkForward(rows, WalkForwardConfig{MinTrainSeasons: 2, MaxTrainSeasons: 1})
	assert.Error(t, err)
}
