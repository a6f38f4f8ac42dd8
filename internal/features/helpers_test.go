package features

import (
	"time"

	"github.com/yourusername/football-ml/internal/models"
)

var baseDate = time.Date(2023, 8, 1, 15, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return baseDate.AddDate(0, 0, n)
}

func played(id string, d int, home, away string, hg, ag int) models.MatchRecord {
	return models.MatchRecord{
		Provider:   models.ProviderFootballData,
		UTCDate:    day(d),
		Season:     2023,
		HomeTeam:   home,
		AwayTeam:   away,
		HomeGoals:  models.IntPtr(hg),
		AwayGoals:  models.IntPtr(ag),
		ExternalID: id,
	}
}

func fixture(id string, d int, home, away string) models.MatchRecord {
	return models.MatchRecord{
		Provider:   models.ProviderFootballData,
		UTCDate:    day(d),
		Season:     2023,
		HomeTeam:   home,
		AwayTeam:   away,
		ExternalID: id,
	}
}

func byExternalID(matches []models.MatchRecord) map[string]int {
	idx := make(map[string]int, len(matches))
	for i, m := range matches {
		idx[m.ExternalID] = i
	}
	return idx
}
