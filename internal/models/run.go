package models

import (
	"time"

	"github.com/google/uuid"
)

// FeatureRun describes one assembled feature table and the parameters that produced it
type FeatureRun struct {
	ID                uuid.UUID `db:"run_id" json:"run_id"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	Fingerprint       string    `db:"fingerprint" json:"fingerprint"`
	PrimaryProvider   Provider  `db:"primary_provider" json:"primary_provider"`
	SecondaryProvider Provider  `db:"secondary_provider" json:"secondary_provider"`
	EloK              float64   `db:"elo_k" json:"elo_k"`
	FormWindow        int       `db:"form_window" json:"form_window"`
	InitialRating     float64   `db:"initial_rating" json:"initial_rating"`
	Seasons           []int     `db:"seasons" json:"seasons"`
	FeatureColumns    []string  `db:"feature_columns" json:"feature_columns"`
	RowCount          int       `db:"row_count" json:"row_count"`
}
