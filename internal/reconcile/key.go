// Package reconcile aligns match tables from two providers into one labeled canonical table.
package reconcile

import (
	"strings"

	"github.com/yourusername/football-ml/internal/models"
)

// keyDateLayout is the date prefix of a match key
const keyDateLayout = "2006-01-02"

// MatchKey returns the deterministic identity of a fixture: the UTC date followed by
// the normalized home and away names, joined with underscores.
// Two different fixtures on the same day between identically normalized names collide.
func MatchKey(m *models.MatchRecord) string {
	var b strings.Builder
	b.WriteString(m.UTCDate.UTC().Format(keyDateLayout))
	b.WriteByte('_')
	b.WriteString(m.HomeTeamID())
	b.WriteByte('_')
	b.WriteString(m.AwayTeamID())
	return b.String()
}
