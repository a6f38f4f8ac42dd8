package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Custom errors
var (
	ErrNotFound            = errors.New("record not found")
	ErrDataIntegrity       = errors.New("data integrity violation")
	ErrDuplicateKey        = errors.New("duplicate key violation")
	ErrInsufficientSeasons = errors.New("insufficient seasons for a leakage-free split")
)

// DataIntegrityError reports a record that would corrupt sequential state if skipped
type DataIntegrityError struct {
	Index      int
	ExternalID string
	Reason     string
}

// NewDataIntegrityError creates a new data integrity error
func NewDataIntegrityError(index int, externalID, reason string) *DataIntegrityError {
	return &DataIntegrityError{Index: index, ExternalID: externalID, Reason: reason}
}

func (e *DataIntegrityError) Error() string {
	if e.ExternalID != "" {
		return fmt.Sprintf("data integrity: record %d (%s): %s", e.Index, e.ExternalID, e.Reason)
	}
	return fmt.Sprintf("data integrity: record %d: %s", e.Index, e.Reason)
}

// Is matches ErrDataIntegrity
func (e *DataIntegrityError) Is(target error) bool {
	return target == ErrDataIntegrity
}

// DuplicateKeyError reports two records of one provider sharing a match key
type DuplicateKeyError struct {
	Provider       Provider
	Key            string
	FirstIndex     int
	DuplicateIndex int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate match key %q in %s table (rows %d and %d)", e.Key, e.Provider, e.FirstIndex, e.DuplicateIndex)
}

// Is matches ErrDuplicateKey
func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// InsufficientSeasonsError is returned when a split would train and evaluate on the same season
type InsufficientSeasonsError struct {
	Seasons []int
}

func (e *InsufficientSeasonsError) Error() string {
	seasons := append([]int(nil), e.Seasons...)
	sort.Ints(seasons)
	parts := make([]string, len(seasons))
	for i, s := range seasons {
		parts[i] = fmt.Sprint(s)
	}
	return fmt.Sprintf("need at least two distinct seasons to split, got %d [%s]", len(seasons), strings.Join(parts, ","))
}

// Is matches ErrInsufficientSeasons
func (e *InsufficientSeasonsError) Is(target error) bool {
	return target == ErrInsufficientSeasons
}
