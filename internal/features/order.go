// Package features computes leakage-safe pre-match features over a chronologically ordered match table.
package features

import (
	"sort"

	"github.com/yourusername/football-ml/internal/models"
)

// ChronologicalOrder returns the indices of matches sorted by (utc_date, original index).
func ChronologicalOrder(matches []models.MatchRecord) []int {
	order := make([]int, len(matches))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return matches[order[a]].UTCDate.Before(matches[order[b]].UTCDate)
	})
	return order
}

// SortCanonical returns a copy of matches sorted by (utc_date, original index)
func SortCanonical(matches []models.CanonicalMatch) []models.CanonicalMatch {
	sorted := make([]models.CanonicalMatch, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].UTCDate.Before(sorted[b].UTCDate)
	})
	return sorted
}

// checkAll fails on the first record, in input order, that breaks an integrity invariant
func checkAll(matches []models.MatchRecord) error {
	for i := range matches {
		if err := matches[i].CheckIntegrity(i); err != nil {
			return err
		}
	}
	return nil
}
