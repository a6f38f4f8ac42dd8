package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(home, away string, hg, ag *int) MatchRecord {
	return MatchRecord{
		Provider:   ProviderFootballData,
		UTCDate:    time.Date(2023, 8, 12, 14, 0, 0, 0, time.UTC),
		Season:     2023,
		HomeTeam:   home,
		AwayTeam:   away,
		HomeGoals:  hg,
		AwayGoals:  ag,
		ExternalID: "fd-1",
	}
}

func TestMatchRecordOutcome(t *testing.T) {
	tests := []struct {
		name   string
		hg, ag *int
		want   Label
	}{
		{"home win", IntPtr(2), IntPtr(1), LabelHomeWin},
		{"draw", IntPtr(0), IntPtr(0), LabelDraw},
		{"away win", IntPtr(1), IntPtr(3), LabelAwayWin},
		{"not played", nil, nil, LabelUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newRecord("Arsenal", "Chelsea", tt.hg, tt.ag)
			assert.Equal(t, tt.want, m.Outcome())
		})
	}
}

func TestMatchRecordCheckIntegrity(t *testing.T) {
	tests := []struct {
		name    string
		record  MatchRecord
		wantErr string
	}{
		{"valid played", newRecord("Arsenal", "Chelsea", IntPtr(1), IntPtr(0)), ""},
		{"valid unplayed", newRecord("Arsenal", "Chelsea", nil, nil), ""},
		{"missing home", newRecord("  ", "Chelsea", nil, nil), "missing team identity"},
		{"missing away", newRecord("Arsenal", "", nil, nil), "missing team identity"},
		{"same team", newRecord("Man City", "man  city", nil, nil), "home and away team"},
		{"half goals", newRecord("Arsenal", "Chelsea", IntPtr(1), nil), "both present or both absent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.CheckIntegrity(7)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.Is(err, ErrDataIntegrity))

			var integrityErr *DataIntegrityError
			require.True(t, errors.As(err, &integrityErr))
			assert.Equal(t, 7, integrityErr.Index)
		})
	}
}

func TestNormalizeTeamName(t *testing.T) {
	assert.Equal(t, "manchesterunited", NormalizeTeamName("Manchester United"))
	assert.Equal(t, "manchesterunited", NormalizeTeamName(" manchester\tUNITED "))
	assert.Equal(t, "", NormalizeTeamName("   "))
}

func TestFeatureRowVector(t *testing.T) {
	row := FeatureRow{Features: map[string]*float64{
		"elo_home": FloatPtr(1500),
		"elo_away": nil,
	}}

	vec := row.Vector([]string{"elo_home", "elo_away", "not_declared"})
	require.Len(t, vec, 3)
	assert.Equal(t, 1500.0, *vec[0])
	assert.Nil(t, vec[1])
	assert.Nil(t, vec[2])

	_, ok := row.Feature("elo_away")
	assert.False(t, ok)
	v, ok := row.Feature("elo_home")
	assert.True(t, ok)
	assert.Equal(t, 1500.0, v)
}

func TestCanonicalMatchIDIsDeterministic(t *testing.T) {
	a := CanonicalMatch{MatchKey: "2023-08-12_arsenal_chelsea"}
	b := CanonicalMatch{MatchKey: "2023-08-12_arsenal_chelsea"}
	c := CanonicalMatch{MatchKey: "2023-08-13_arsenal_chelsea"}

	assert.Equal(t, a.ID(), b.ID())
	assert.NotEqual(t, a.ID(), c.ID())
}

func TestInsufficientSeasonsErrorIs(t *testing.T) {
	err := &InsufficientSeasonsError{Seasons: []int{2023}}
	assert.True(t, errors.Is(err, ErrInsufficientSeasons))
	assert.Contains(t, err.Error(), "[2023]")
}

func TestDuplicateKeyErrorIs(t *testing.T) {
	err := &DuplicateKeyError{Provider: ProviderAPIFootball, Key: "k", FirstIndex: 0, DuplicateIndex: 3}
	assert.True(t, errors.Is(err, ErrDuplicateKey))
	assert.Contains(t, err.Error(), "rows 0 and 3")
}
