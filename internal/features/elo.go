package features

import (
	"fmt"
	"math"

	"github.com/yourusername/football-ml/internal/models"
)

// Elo defaults
const (
	DefaultK             = 20.0
	DefaultInitialRating = 1500.0
)

// PreMatchRating holds both sides' ratings before a match is applied
type PreMatchRating struct {
	Home float64
	Away float64
	Diff float64
}

// EloResult is the output of one rating run
type EloResult struct {
	// Ratings is aligned with the input slice, not with chronological order.
	Ratings []PreMatchRating
	// Final is a snapshot of every team's rating after the last played match.
	Final map[string]float64
}

// RatingEngine tracks Elo ratings over an ordered match sequence
type RatingEngine struct {
	k             float64
	initialRating float64
}

// NewRatingEngine creates a rating engine with the given K-factor and starting rating
func NewRatingEngine(k, initialRating float64) *RatingEngine {
	return &RatingEngine{k: k, initialRating: initialRating}
}

// K returns the configured K-factor
func (e *RatingEngine) K() float64 {
	return e.k
}

// ExpectedScore returns the logistic expected score of a side rated ra against rb
func ExpectedScore(ra, rb float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, -(ra-rb)/400.0))
}

// Rate processes matches in (utc_date, original index) order and returns the
// pre-match ratings of every record. Unplayed fixtures are rated but never
// update state. The ratings map lives only for the duration of the call.
func (e *RatingEngine) Rate(matches []models.MatchRecord) (*EloResult, error) {
	if e.k <= 0 {
		return nil, fmt.Errorf("elo k-factor must be positive, got %v", e.k)
	}
	if err := checkAll(matches); err != nil {
		return nil, err
	}

	ratings := make(map[string]float64)
	out := make([]PreMatchRating, len(matches))

	for _, idx := range ChronologicalOrder(matches) {
		m := &matches[idx]
		home, away := m.HomeTeamID(), m.AwayTeamID()
		rHome := e.lookup(ratings, home)
		rAway := e.lookup(ratings, away)
		out[idx] = PreMatchRating{Home: rHome, Away: rAway, Diff: rHome - rAway}

		if !m.IsPlayed() {
			continue
		}

		expHome := ExpectedScore(rHome, rAway)
		expAway := 1 - expHome
		scoreHome := actualScore(*m.HomeGoals, *m.AwayGoals)
		scoreAway := 1 - scoreHome

		ratings[home] = rHome + e.k*(scoreHome-expHome)
		ratings[away] = rAway + e.k*(scoreAway-expAway)
	}

	final := make(map[string]float64, len(ratings))
	for team, r := range ratings {
		final[team] = r
	}

	return &EloResult{Ratings: out, Final: final}, nil
}

// lookup inserts the initial rating on first use
func (e *RatingEngine) lookup(ratings map[string]float64, team string) float64 {
	r, ok := ratings[team]
	if !ok {
		r = e.initialRating
		ratings[team] = r
	}
	return r
}

func actualScore(homeGoals, awayGoals int) float64 {
	switch {
	case homeGoals > awayGoals:
		return 1
	case homeGoals < awayGoals:
		return 0
	default:
		return 0.5
	}
}
