package models

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Provider identifies the upstream source of a match record
type Provider string

const (
	// ProviderFootballData is football-data.org (v4 API)
	ProviderFootballData Provider = "football-data.org"
	// ProviderAPIFootball is API-Football served through RapidAPI
	ProviderAPIFootball Provider = "api-football"
	// ProviderCSV marks records loaded from a local table
	ProviderCSV Provider = "csv"
)

// MatchRecord represents one real-world fixture as reported by one provider
type MatchRecord struct {
	Provider   Provider  `db:"provider" json:"provider" validate:"required"`
	UTCDate    time.Time `db:"utc_date" json:"utc_date" validate:"required"`
	Season     int       `db:"season" json:"season" validate:"required,gt=0"`
	Matchday   *int      `db:"matchday" json:"matchday"`
	HomeTeam   string    `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam   string    `db:"away_team" json:"away_team" validate:"required"`
	HomeGoals  *int      `db:"home_goals" json:"home_goals"`
	AwayGoals  *int      `db:"away_goals" json:"away_goals"`
	ExternalID string    `db:"external_id" json:"external_id"`
	HomeOdd    *float64  `db:"home_odd" json:"home_odd"`
	DrawOdd    *float64  `db:"draw_odd" json:"draw_odd"`
	AwayOdd    *float64  `db:"away_odd" json:"away_odd"`
}

// IsPlayed reports whether both goal counts are known
func (m *MatchRecord) IsPlayed() bool {
	return m.HomeGoals != nil && m.AwayGoals != nil
}

// HasOdds reports whether any of the three prices is present
func (m *MatchRecord) HasOdds() bool {
	return m.HomeOdd != nil || m.DrawOdd != nil || m.AwayOdd != nil
}

// Outcome returns the result label derived from the goals
func (m *MatchRecord) Outcome() Label {
	if !m.IsPlayed() {
		return LabelUnknown
	}
	switch {
	case *m.HomeGoals > *m.AwayGoals:
		return LabelHomeWin
	case *m.HomeGoals < *m.AwayGoals:
		return LabelAwayWin
	default:
		return LabelDraw
	}
}

// HomeTeamID returns the normalized identity of the home side
func (m *MatchRecord) HomeTeamID() string {
	return NormalizeTeamName(m.HomeTeam)
}

// AwayTeamID returns the normalized identity of the away side
func (m *MatchRecord) AwayTeamID() string {
	return NormalizeTeamName(m.AwayTeam)
}

// CheckIntegrity verifies the invariants every stage depends on.
// index is the record's position in the caller's input and is only used for reporting.
func (m *MatchRecord) CheckIntegrity(index int) error {
	if strings.TrimSpace(m.HomeTeam) == "" || strings.TrimSpace(m.AwayTeam) == "" {
		return NewDataIntegrityError(index, m.ExternalID, "missing team identity")
	}
	if m.HomeTeamID() == m.AwayTeamID() {
		return NewDataIntegrityError(index, m.ExternalID, fmt.Sprintf("home and away team are both %q", m.HomeTeam))
	}
	if (m.HomeGoals == nil) != (m.AwayGoals == nil) {
		return NewDataIntegrityError(index, m.ExternalID, "goals must be both present or both absent")
	}
	return nil
}

// NormalizeTeamName lower-cases a team name and strips all whitespace
func NormalizeTeamName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}

// FloatPtr returns a pointer to v
func FloatPtr(v float64) *float64 {
	return &v
}
