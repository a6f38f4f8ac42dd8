package features

import (
	"fmt"

	"github.com/yourusername/football-ml/internal/models"
)

// Feature column names that do not depend on the form window
const (
	ColEloHome         = "elo_home"
	ColEloAway         = "elo_away"
	ColEloDiff         = "elo_diff"
	ColImpliedProbHome = "implied_prob_home"
	ColImpliedProbDraw = "implied_prob_draw"
	ColImpliedProbAway = "implied_prob_away"
	ColOddsMargin      = "odds_margin"
)

// Form statistics, one column per side
const (
	StatPoints       = "points"
	StatGoalsFor     = "goals_for"
	StatGoalsAgainst = "goals_against"
	StatGoalDiff     = "goal_diff"
)

var formStats = []string{StatPoints, StatGoalsFor, StatGoalsAgainst, StatGoalDiff}

// FormColumn returns the column name of a form statistic, e.g. home_points_last5
func FormColumn(side, stat string, window int) string {
	return fmt.Sprintf("%s_%s_last%d", side, stat, window)
}

// FeatureColumns returns the declared feature columns in their fixed order
func FeatureColumns(window int) []string {
	cols := []string{ColEloHome, ColEloAway, ColEloDiff}
	for _, side := range []string{"home", "away"} {
		for _, stat := range formStats {
			cols = append(cols, FormColumn(side, stat, window))
		}
	}
	return append(cols, ColImpliedProbHome, ColImpliedProbDraw, ColImpliedProbAway, ColOddsMargin)
}

// Assembly is the result of one feature build
type Assembly struct {
	Rows         []models.FeatureRow
	Columns      []string
	FinalRatings map[string]float64
}

// MissingCounts returns the number of rows with a missing value per column
func (a *Assembly) MissingCounts() map[string]int {
	counts := make(map[string]int, len(a.Columns))
	for _, col := range a.Columns {
		counts[col] = 0
	}
	for i := range a.Rows {
		for _, col := range a.Columns {
			if a.Rows[i].Features[col] == nil {
				counts[col]++
			}
		}
	}
	return counts
}

// Assembler runs rating, form and odds stages over a canonical table
type Assembler struct {
	ratings *RatingEngine
	form    *FormAggregator
	odds    *OddsNormalizer
	columns []string
}

// NewAssembler creates an assembler for the given Elo and form parameters
func NewAssembler(k, initialRating float64, window int) *Assembler {
	return &Assembler{
		ratings: NewRatingEngine(k, initialRating),
		form:    NewFormAggregator(window),
		odds:    NewOddsNormalizer(),
		columns: FeatureColumns(window),
	}
}

// Columns returns the declared feature columns
func (a *Assembler) Columns() []string {
	return append([]string(nil), a.columns...)
}

// Assemble sorts matches chronologically, then runs Elo, form and odds in that
// order. Every declared column is present on every row.
func (a *Assembler) Assemble(matches []models.CanonicalMatch) (*Assembly, error) {
	sorted := SortCanonical(matches)
	records := make([]models.MatchRecord, len(sorted))
	for i := range sorted {
		records[i] = sorted[i].MatchRecord
	}

	elo, err := a.ratings.Rate(records)
	if err != nil {
		return nil, fmt.Errorf("elo stage: %w", err)
	}
	form, err := a.form.Aggregate(records)
	if err != nil {
		return nil, fmt.Errorf("form stage: %w", err)
	}

	window := a.form.Window()
	rows := make([]models.FeatureRow, len(sorted))
	for i := range sorted {
		features := make(map[string]*float64, len(a.columns))

		r := elo.Ratings[i]
		features[ColEloHome] = models.FloatPtr(r.Home)
		features[ColEloAway] = models.FloatPtr(r.Away)
		features[ColEloDiff] = models.FloatPtr(r.Diff)

		putForm(features, "home", window, form[i].Home)
		putForm(features, "away", window, form[i].Away)

		implied := a.odds.NormalizeMatch(&records[i])
		features[ColImpliedProbHome] = implied.Home
		features[ColImpliedProbDraw] = implied.Draw
		features[ColImpliedProbAway] = implied.Away
		features[ColOddsMargin] = implied.Margin

		for _, col := range a.columns {
			if _, ok := features[col]; !ok {
				features[col] = nil
			}
		}

		rows[i] = models.FeatureRow{CanonicalMatch: sorted[i], Features: features}
	}

	return &Assembly{Rows: rows, Columns: a.Columns(), FinalRatings: elo.Final}, nil
}

func putForm(features map[string]*float64, side string, window int, w FormWindow) {
	features[FormColumn(side, StatPoints, window)] = w.Points
	features[FormColumn(side, StatGoalsFor, window)] = w.GoalsFor
	features[FormColumn(side, StatGoalsAgainst, window)] = w.GoalsAgainst
	features[FormColumn(side, StatGoalDiff, window)] = w.GoalDiff
}
