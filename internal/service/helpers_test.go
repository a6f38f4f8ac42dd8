package service

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/football-ml/internal/database"
	"github.com/yourusername/football-ml/internal/logger"
	"github.com/yourusername/football-ml/internal/models"
	"github.com/yourusername/football-ml/internal/repository"
)

func quietLogger() *logrus.Logger {
	return logger.NewLoggerWithOutput(io.Discard, "error", "development")
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func newSQLiteRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	repos, err := repository.NewRepositories(database.SetupTestSQLite(t))
	require.NoError(t, err)
	return repos
}

type fixture struct {
	home, away string
	hg, ag     int
}

// season builds a played round robin starting on 1 August of the season year
func season(provider models.Provider, year int, games []fixture, withOdds bool) []models.MatchRecord {
	start := time.Date(year, time.August, 1, 15, 0, 0, 0, time.UTC)
	out := make([]models.MatchRecord, 0, len(games))
	for i, g := range games {
		m := models.MatchRecord{
			Provider:   provider,
			UTCDate:    start.AddDate(0, 0, 7*i),
			Season:     year,
			Matchday:   intPtr(i + 1),
			HomeTeam:   g.home,
			AwayTeam:   g.away,
			HomeGoals:  intPtr(g.hg),
			AwayGoals:  intPtr(g.ag),
			ExternalID: fmt.Sprintf("%s-%d-%d", provider, year, i),
		}
		if withOdds {
			m.HomeOdd, m.DrawOdd, m.AwayOdd = floatPtr(2.1), floatPtr(3.4), floatPtr(3.6)
		}
		out = append(out, m)
	}
	return out
}

var roundRobin = []fixture{
	{"Arsenal", "Chelsea", 2, 1},
	{"Liverpool", "Everton", 1, 1},
	{"Chelsea", "Liverpool", 0, 2},
	{"Everton", "Arsenal", 1, 3},
}

// providerTables returns three played seasons per provider plus one unplayed primary fixture
func providerTables() (primary, secondary []models.MatchRecord) {
	for _, year := range []int{2021, 2022, 2023} {
		primary = append(primary, season(models.ProviderFootballData, year, roundRobin, false)...)
		secondary = append(secondary, season(models.ProviderAPIFootball, year, roundRobin, true)...)
	}
	primary = append(primary, models.MatchRecord{
		Provider:   models.ProviderFootballData,
		UTCDate:    time.Date(2023, time.October, 1, 15, 0, 0, 0, time.UTC),
		Season:     2023,
		HomeTeam:   "Arsenal",
		AwayTeam:   "Liverpool",
		ExternalID: "fd-upcoming",
	})
	return primary, secondary
}

type fakeSource struct {
	name     string
	provider models.Provider
	enabled  bool
	seasons  map[int][]models.MatchRecord
	err      error
	calls    int
}

func (f *fakeSource) FetchMatches(_ context.Context, season int) ([]models.MatchRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.seasons[season], nil
}

func (f *fakeSource) Provider() models.Provider { return f.provider }
func (f *fakeSource) Name() string              { return f.name }
func (f *fakeSource) IsEnabled() bool           { return f.enabled }
