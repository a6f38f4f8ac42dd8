package service

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/football-ml/internal/models"
)

func newTestValidator(now time.Time) *DataValidator {
	v := NewDataValidator(quietLogger())
	v.now = func() time.Time { return now }
	return v
}

func TestValidateMatch(t *testing.T) {
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	validator := newTestValidator(now)

	base := func() models.MatchRecord {
		return models.MatchRecord{
			Provider:   models.ProviderFootballData,
			UTCDate:    now.Add(-48 * time.Hour),
			Season:     2023,
			Matchday:   intPtr(26),
			HomeTeam:   "Arsenal",
			AwayTeam:   "Chelsea",
			HomeGoals:  intPtr(2),
			AwayGoals:  intPtr(0),
			ExternalID: "1001",
		}
	}

	tests := []struct {
		name       string
		mutate     func(m *models.MatchRecord)
		shouldHave string
	}{
		{name: "valid played match", mutate: func(m *models.MatchRecord) {}},
		{name: "valid scheduled match", mutate: func(m *models.MatchRecord) {
			m.UTCDate = now.Add(72 * time.Hour)
			m.HomeGoals, m.AwayGoals = nil, nil
		}},
		{name: "missing provider", mutate: func(m *models.MatchRecord) { m.Provider = "" }, shouldHave: "Provider"},
		{name: "missing home team", mutate: func(m *models.MatchRecord) { m.HomeTeam = "" }, shouldHave: "HomeTeam"},
		{name: "same team twice", mutate: func(m *models.MatchRecord) { m.AwayTeam = " arsenal " }, shouldHave: "both"},
		{name: "negative goals", mutate: func(m *models.MatchRecord) { m.AwayGoals = intPtr(-1) }, shouldHave: "away_goals cannot be negative"},
		{name: "zero matchday", mutate: func(m *models.MatchRecord) { m.Matchday = intPtr(0) }, shouldHave: "matchday must be positive"},
		{name: "far future fixture", mutate: func(m *models.MatchRecord) {
			m.UTCDate = now.AddDate(3, 0, 0)
			m.HomeGoals, m.AwayGoals = nil, nil
		}, shouldHave: "more than 2 years"},
		{name: "result before kick-off", mutate: func(m *models.MatchRecord) { m.UTCDate = now.Add(time.Hour) }, shouldHave: "result reported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base()
			tt.mutate(&m)
			problems := validator.ValidateMatch(&m)
			if tt.shouldHave == "" {
				assert.Empty(t, problems)
				return
			}
			assert.True(t, containsProblem(problems, tt.shouldHave), "expected problem containing %q, got %v", tt.shouldHave, problems)
		})
	}
}

func containsProblem(problems []string, substr string) bool {
	for _, p := range problems {
		if strings.Contains(p, substr) {
			return true
		}
	}
	return false
}

func TestValidateOdd(t *testing.T) {
	validator := newTestValidator(time.Now())

	assert.True(t, validator.ValidateOdd(nil))
	assert.True(t, validator.ValidateOdd(floatPtr(1.85)))
	assert.False(t, validator.ValidateOdd(floatPtr(0)))
	assert.False(t, validator.ValidateOdd(floatPtr(-2)))
	assert.False(t, validator.ValidateOdd(floatPtr(math.NaN())))
	assert.False(t, validator.ValidateOdd(floatPtr(math.Inf(1))))
}

func TestIsValidSeason(t *testing.T) {
	validator := newTestValidator(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))

	assert.True(t, validator.IsValidSeason(2023))
	assert.True(t, validator.IsValidSeason(2025))
	assert.False(t, validator.IsValidSeason(2026))
	assert.False(t, validator.IsValidSeason(1850))
}
