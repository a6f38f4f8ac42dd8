package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/yourusername/football-ml/internal/models"
	"github.com/yourusername/football-ml/internal/reconcile"
)

// sqlite stores timestamps as fixed-width text so lexical order is chronological
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

var matchColumns = []string{
	"provider", "external_id", "season", "utc_date", "matchday",
	"home_team", "away_team", "home_goals", "away_goals",
	"home_odd", "draw_odd", "away_odd",
}

// StorageID returns the key a record is stored under: the provider's own id,
// or the match key when the provider supplies none.
func StorageID(m *models.MatchRecord) string {
	if m.ExternalID != "" {
		return m.ExternalID
	}
	return reconcile.MatchKey(m)
}

// dedupeLatest collapses records sharing (provider, storage id), keeping the
// first position and the last values.
func dedupeLatest(records []models.MatchRecord) []models.MatchRecord {
	type key struct {
		provider models.Provider
		id       string
	}
	index := make(map[key]int, len(records))
	out := make([]models.MatchRecord, 0, len(records))
	for _, r := range records {
		r.ExternalID = StorageID(&r)
		k := key{r.Provider, r.ExternalID}
		if i, ok := index[k]; ok {
			out[i] = r
			continue
		}
		index[k] = len(out)
		out = append(out, r)
	}
	return out
}

func encodeRow(row *models.FeatureRow) ([]byte, error) {
	payload, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("encode feature row %s: %w", row.MatchKey, err)
	}
	return payload, nil
}

func decodeRow(payload []byte) (models.FeatureRow, error) {
	var row models.FeatureRow
	if err := json.Unmarshal(payload, &row); err != nil {
		return row, fmt.Errorf("decode feature row: %w", err)
	}
	return row, nil
}

func formatSQLiteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseSQLiteTime(s string) (time.Time, error) {
	t, err := time.Parse(sqliteTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}
