package reconcile

import (
	"fmt"

	"github.com/yourusername/football-ml/internal/models"
)

// DuplicatePolicy decides what happens when one table holds the same match key twice
type DuplicatePolicy string

const (
	// DuplicateFirst keeps the first occurrence in input order and drops the rest
	DuplicateFirst DuplicatePolicy = "first"
	// DuplicateError fails the run with a *models.DuplicateKeyError
	DuplicateError DuplicatePolicy = "error"
)

// ParseDuplicatePolicy converts a configuration value into a policy
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(s) {
	case DuplicateFirst, "":
		return DuplicateFirst, nil
	case DuplicateError:
		return DuplicateError, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q (want %q or %q)", s, DuplicateFirst, DuplicateError)
	}
}

// Stats summarises one reconciliation
type Stats struct {
	PrimaryRows         int `json:"primary_rows"`
	SecondaryRows       int `json:"secondary_rows"`
	Matched             int `json:"matched"`
	Unmatched           int `json:"unmatched"`
	PrimaryDuplicates   int `json:"primary_duplicates"`
	SecondaryDuplicates int `json:"secondary_duplicates"`
	SecondaryUnused     int `json:"secondary_unused"`
}

// Result is the canonical table in primary input order plus its stats
type Result struct {
	Matches []models.CanonicalMatch
	Stats   Stats
}

// Reconciler left-joins a secondary provider's table onto a primary provider's table
type Reconciler struct {
	primary   models.Provider
	secondary models.Provider
	policy    DuplicatePolicy
}

// NewReconciler creates a reconciler for the given provider pair
func NewReconciler(primary, secondary models.Provider, policy DuplicatePolicy) *Reconciler {
	if policy == "" {
		policy = DuplicateFirst
	}
	return &Reconciler{primary: primary, secondary: secondary, policy: policy}
}

// Primary returns the left-side provider
func (r *Reconciler) Primary() models.Provider {
	return r.primary
}

// Secondary returns the right-side provider
func (r *Reconciler) Secondary() models.Provider {
	return r.secondary
}

// keyed is one deduplicated row of a table
type keyed struct {
	key   string
	index int
}

// dedupe returns the representative rows of a table in input order
func (r *Reconciler) dedupe(provider models.Provider, rows []models.MatchRecord) ([]keyed, map[string]int, int, error) {
	out := make([]keyed, 0, len(rows))
	seen := make(map[string]int, len(rows))
	dropped := 0
	for i := range rows {
		key := MatchKey(&rows[i])
		if first, ok := seen[key]; ok {
			if r.policy == DuplicateError {
				return nil, nil, 0, &models.DuplicateKeyError{
					Provider:       provider,
					Key:            key,
					FirstIndex:     first,
					DuplicateIndex: i,
				}
			}
			dropped++
			continue
		}
		seen[key] = i
		out = append(out, keyed{key: key, index: i})
	}
	return out, seen, dropped, nil
}

// Reconcile joins secondary onto primary by match key. Every representative primary
// row appears exactly once, in input order; secondary rows without a primary
// counterpart are dropped. Odds come from the matched secondary row only.
func (r *Reconciler) Reconcile(primary, secondary []models.MatchRecord) (*Result, error) {
	left, _, primaryDups, err := r.dedupe(r.primary, primary)
	if err != nil {
		return nil, fmt.Errorf("primary table: %w", err)
	}
	_, right, secondaryDups, err := r.dedupe(r.secondary, secondary)
	if err != nil {
		return nil, fmt.Errorf("secondary table: %w", err)
	}

	stats := Stats{
		PrimaryRows:         len(primary),
		SecondaryRows:       len(secondary),
		PrimaryDuplicates:   primaryDups,
		SecondaryDuplicates: secondaryDups,
	}

	used := make(map[string]struct{}, len(right))
	out := make([]models.CanonicalMatch, len(left))
	for i, row := range left {
		record := primary[row.index]
		if record.Provider == "" {
			record.Provider = r.primary
		}
		record.HomeOdd, record.DrawOdd, record.AwayOdd = nil, nil, nil

		cm := models.CanonicalMatch{MatchKey: row.key}
		if j, ok := right[row.key]; ok {
			other := &secondary[j]
			record.HomeOdd = copyFloat(other.HomeOdd)
			record.DrawOdd = copyFloat(other.DrawOdd)
			record.AwayOdd = copyFloat(other.AwayOdd)
			cm.SecondaryProvider = other.Provider
			if cm.SecondaryProvider == "" {
				cm.SecondaryProvider = r.secondary
			}
			cm.SecondaryExternalID = other.ExternalID
			used[row.key] = struct{}{}
			stats.Matched++
		} else {
			stats.Unmatched++
		}
		record.HomeGoals = copyInt(record.HomeGoals)
		record.AwayGoals = copyInt(record.AwayGoals)
		record.Matchday = copyInt(record.Matchday)

		cm.MatchRecord = record
		cm.Label = record.Outcome()
		out[i] = cm
	}
	stats.SecondaryUnused = len(right) - len(used)

	return &Result{Matches: out, Stats: stats}, nil
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
