package models

import (
	"github.com/google/uuid"
)

// Label encodes a match outcome for the downstream classifier
type Label int

const (
	LabelUnknown Label = -1
	LabelHomeWin Label = 0
	LabelDraw    Label = 1
	LabelAwayWin Label = 2
)

// String returns the label name
func (l Label) String() string {
	switch l {
	case LabelHomeWin:
		return "HOME_WIN"
	case LabelDraw:
		return "DRAW"
	case LabelAwayWin:
		return "AWAY_WIN"
	default:
		return "UNKNOWN"
	}
}

// matchNamespace seeds deterministic match IDs derived from match keys
var matchNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("football-ml/match"))

// CanonicalMatch is the reconciled view of one fixture: the primary provider's
// record plus odds joined from the secondary provider.
type CanonicalMatch struct {
	MatchRecord
	MatchKey            string   `db:"match_key" json:"match_key"`
	SecondaryProvider   Provider `db:"secondary_provider" json:"secondary_provider,omitempty"`
	SecondaryExternalID string   `db:"secondary_external_id" json:"secondary_external_id,omitempty"`
	Label               Label    `db:"label" json:"label"`
}

// ID returns a stable identifier for the fixture derived from its match key
func (c *CanonicalMatch) ID() uuid.UUID {
	return uuid.NewSHA1(matchNamespace, []byte(c.MatchKey))
}

// IsJoined reports whether a secondary record was matched
func (c *CanonicalMatch) IsJoined() bool {
	return c.SecondaryProvider != ""
}

// FeatureRow is a CanonicalMatch extended with pre-match features.
// Every declared feature column has an entry in Features; nil is the missing-value marker.
type FeatureRow struct {
	CanonicalMatch
	Features map[string]*float64 `json:"features"`
}

// Feature returns the value of a feature column and whether it is known
func (r *FeatureRow) Feature(column string) (float64, bool) {
	v, ok := r.Features[column]
	if !ok || v == nil {
		return 0, false
	}
	return *v, true
}

// Vector returns the feature values in the order of columns.
// Columns absent from the row are returned as nil.
func (r *FeatureRow) Vector(columns []string) []*float64 {
	out := make([]*float64, len(columns))
	for i, col := range columns {
		out[i] = r.Features[col]
	}
	return out
}
