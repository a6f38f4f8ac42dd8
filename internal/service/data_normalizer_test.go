package service

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/football-ml/internal/models"
)

func TestNormalizeTeamName(t *testing.T) {
	n := NewDataNormalizer(quietLogger(), map[string]string{"spurs": "Tottenham Hotspur"})

	tests := []struct {
		in   string
		want string
	}{
		{"Manchester United FC", "Manchester United"},
		{"Man United", "Manchester United"},
		{"  Wolverhampton   Wanderers FC ", "Wolverhampton Wanderers"},
		{"AFC Bournemouth", "Bournemouth"},
		{"Brighton & Hove Albion FC", "Brighton & Hove Albion"},
		{"SPURS", "Tottenham Hotspur"},
		{"Arsenal FC", "Arsenal"},
		{"Everton", "Everton"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, n.NormalizeTeamName(tt.in))
		})
	}
}

func TestNormalizeOdd(t *testing.T) {
	n := NewDataNormalizer(quietLogger(), nil)

	got := n.NormalizeOdd(2.10049)
	require.NotNil(t, got)
	assert.Equal(t, 2.1, *got)

	assert.Nil(t, n.NormalizeOdd(0))
	assert.Nil(t, n.NormalizeOdd(-1.5))
	assert.Nil(t, n.NormalizeOdd(math.NaN()))
	assert.Nil(t, n.NormalizeOdd(math.Inf(1)))
	assert.Nil(t, n.NormalizeOdd(0.0001))
}

func TestNormalizeMatch(t *testing.T) {
	n := NewDataNormalizer(quietLogger(), nil)
	london := time.FixedZone("BST", 3600)

	in := models.MatchRecord{
		UTCDate:    time.Date(2023, time.August, 12, 13, 30, 0, 0, london),
		Season:     2023,
		HomeTeam:   "Arsenal FC",
		AwayTeam:   "Nottm Forest",
		ExternalID: " 4401 ",
		HomeOdd:    floatPtr(1.2),
		DrawOdd:    floatPtr(-3),
		AwayOdd:    floatPtr(math.NaN()),
	}

	out, dropped := n.NormalizeMatch(in, models.ProviderAPIFootball)

	assert.Equal(t, models.ProviderAPIFootball, out.Provider)
	assert.Equal(t, "Arsenal", out.HomeTeam)
	assert.Equal(t, "Nottingham Forest", out.AwayTeam)
	assert.Equal(t, time.UTC, out.UTCDate.Location())
	assert.Equal(t, 12, out.UTCDate.Hour())
	assert.Equal(t, "4401", out.ExternalID)
	assert.Equal(t, 2, dropped)
	require.NotNil(t, out.HomeOdd)
	assert.Equal(t, 1.2, *out.HomeOdd)
	assert.Nil(t, out.DrawOdd)
	assert.Nil(t, out.AwayOdd)

	// the input is left untouched
	assert.Equal(t, "Arsenal FC", in.HomeTeam)
	assert.NotNil(t, in.DrawOdd)
}

func TestNormalizeMatchKeepsExistingProvider(t *testing.T) {
	n := NewDataNormalizer(quietLogger(), nil)
	out, dropped := n.NormalizeMatch(models.MatchRecord{Provider: models.ProviderCSV, HomeTeam: "A", AwayTeam: "B"}, models.ProviderFootballData)
	assert.Equal(t, models.ProviderCSV, out.Provider)
	assert.Zero(t, dropped)
}
