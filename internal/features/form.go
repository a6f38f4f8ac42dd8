package features

import (
	"fmt"
	"sort"
	"time"

	"github.com/yourusername/football-ml/internal/models"
)

// DefaultFormWindow is the number of prior matches aggregated per team
const DefaultFormWindow = 5

// Points awarded per finished match
const (
	pointsWin  = 3
	pointsDraw = 1
	pointsLoss = 0
)

// FormWindow holds one side's trailing aggregates. A nil field means the team
// had fewer than W finished matches before this one.
type FormWindow struct {
	Points       *float64
	GoalsFor     *float64
	GoalsAgainst *float64
	GoalDiff     *float64
}

// Complete reports whether the window was filled
func (w FormWindow) Complete() bool {
	return w.Points != nil
}

// FormFeatures holds both sides' windows for one match
type FormFeatures struct {
	Home FormWindow
	Away FormWindow
}

// FormAggregator computes trailing per-team form without look-ahead
type FormAggregator struct {
	window int
}

// NewFormAggregator creates a form aggregator over the last window matches
func NewFormAggregator(window int) *FormAggregator {
	return &FormAggregator{window: window}
}

// Window returns the configured window size
func (a *FormAggregator) Window() int {
	return a.window
}

// teamHistory is one team's finished matches in chronological order with prefix sums.
// Index k of each prefix slice holds the sum over the first k entries.
type teamHistory struct {
	dates        []time.Time
	points       []int
	goalsFor     []int
	goalsAgainst []int
}

func newTeamHistory() *teamHistory {
	return &teamHistory{
		points:       []int{0},
		goalsFor:     []int{0},
		goalsAgainst: []int{0},
	}
}

func (h *teamHistory) add(date time.Time, points, goalsFor, goalsAgainst int) {
	n := len(h.dates)
	h.dates = append(h.dates, date)
	h.points = append(h.points, h.points[n]+points)
	h.goalsFor = append(h.goalsFor, h.goalsFor[n]+goalsFor)
	h.goalsAgainst = append(h.goalsAgainst, h.goalsAgainst[n]+goalsAgainst)
}

// before aggregates the last w entries dated strictly before t
func (h *teamHistory) before(t time.Time, w int) FormWindow {
	n := sort.Search(len(h.dates), func(i int) bool {
		return !h.dates[i].Before(t)
	})
	if n < w {
		return FormWindow{}
	}
	points := float64(h.points[n] - h.points[n-w])
	gf := float64(h.goalsFor[n] - h.goalsFor[n-w])
	ga := float64(h.goalsAgainst[n] - h.goalsAgainst[n-w])
	diff := gf - ga
	return FormWindow{
		Points:       &points,
		GoalsFor:     &gf,
		GoalsAgainst: &ga,
		GoalDiff:     &diff,
	}
}

// Aggregate returns the form features of every match, aligned with the input slice.
// A team's home and away appearances share one history; unplayed fixtures
// neither consume nor fill a window.
func (a *FormAggregator) Aggregate(matches []models.MatchRecord) ([]FormFeatures, error) {
	if a.window <= 0 {
		return nil, fmt.Errorf("form window must be positive, got %d", a.window)
	}
	if err := checkAll(matches); err != nil {
		return nil, err
	}

	histories := make(map[string]*teamHistory)
	history := func(team string) *teamHistory {
		h, ok := histories[team]
		if !ok {
			h = newTeamHistory()
			histories[team] = h
		}
		return h
	}

	out := make([]FormFeatures, len(matches))
	for _, idx := range ChronologicalOrder(matches) {
		m := &matches[idx]
		home := history(m.HomeTeamID())
		away := history(m.AwayTeamID())

		out[idx] = FormFeatures{
			Home: home.before(m.UTCDate, a.window),
			Away: away.before(m.UTCDate, a.window),
		}

		if !m.IsPlayed() {
			continue
		}
		hg, ag := *m.HomeGoals, *m.AwayGoals
		homePts, awayPts := resultPoints(hg, ag)
		home.add(m.UTCDate, homePts, hg, ag)
		away.add(m.UTCDate, awayPts, ag, hg)
	}

	return out, nil
}

func resultPoints(homeGoals, awayGoals int) (int, int) {
	switch {
	case homeGoals > awayGoals:
		return pointsWin, pointsLoss
	case homeGoals < awayGoals:
		return pointsLoss, pointsWin
	default:
		return pointsDraw, pointsDraw
	}
}
