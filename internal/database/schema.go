package database

import "strings"

const (
	// DriverPostgres selects the pgx pool
	DriverPostgres = "postgres"
	// DriverSQLite selects the local modernc store
	DriverSQLite = "sqlite"
)

// matches holds raw provider tables, one row per (provider, external_id).
// feature_runs and feature_rows hold each assembled feature table.
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS matches (
		provider    TEXT             NOT NULL,
		external_id TEXT             NOT NULL,
		season      INTEGER          NOT NULL,
		utc_date    TIMESTAMPTZ      NOT NULL,
		matchday    INTEGER,
		home_team   TEXT             NOT NULL,
		away_team   TEXT             NOT NULL,
		home_goals  INTEGER,
		away_goals  INTEGER,
		home_odd    DOUBLE PRECISION,
		draw_odd    DOUBLE PRECISION,
		away_odd    DOUBLE PRECISION,
		updated_at  TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
		PRIMARY KEY (provider, external_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_provider_season ON matches(provider, season)`,
	`CREATE TABLE IF NOT EXISTS feature_runs (
		run_id             UUID             PRIMARY KEY,
		created_at         TIMESTAMPTZ      NOT NULL,
		fingerprint        TEXT             NOT NULL,
		primary_provider   TEXT             NOT NULL,
		secondary_provider TEXT             NOT NULL,
		elo_k              DOUBLE PRECISION NOT NULL,
		form_window        INTEGER          NOT NULL,
		initial_rating     DOUBLE PRECISION NOT NULL,
		seasons            JSONB            NOT NULL,
		feature_columns    JSONB            NOT NULL,
		row_count          INTEGER          NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_feature_runs_created ON feature_runs(created_at)`,
	`CREATE TABLE IF NOT EXISTS feature_rows (
		run_id    UUID    NOT NULL REFERENCES feature_runs(run_id) ON DELETE CASCADE,
		row_index INTEGER NOT NULL,
		match_key TEXT    NOT NULL,
		season    INTEGER NOT NULL,
		label     INTEGER NOT NULL,
		payload   JSONB   NOT NULL,
		PRIMARY KEY (run_id, row_index)
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS matches (
		provider    TEXT    NOT NULL,
		external_id TEXT    NOT NULL,
		season      INTEGER NOT NULL,
		utc_date    TEXT    NOT NULL,
		matchday    INTEGER,
		home_team   TEXT    NOT NULL,
		away_team   TEXT    NOT NULL,
		home_goals  INTEGER,
		away_goals  INTEGER,
		home_odd    REAL,
		draw_odd    REAL,
		away_odd    REAL,
		updated_at  TEXT    NOT NULL,
		PRIMARY KEY (provider, external_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_provider_season ON matches(provider, season)`,
	`CREATE TABLE IF NOT EXISTS feature_runs (
		run_id             TEXT    PRIMARY KEY,
		created_at         TEXT    NOT NULL,
		fingerprint        TEXT    NOT NULL,
		primary_provider   TEXT    NOT NULL,
		secondary_provider TEXT    NOT NULL,
		elo_k              REAL    NOT NULL,
		form_window        INTEGER NOT NULL,
		initial_rating     REAL    NOT NULL,
		seasons            TEXT    NOT NULL,
		feature_columns    TEXT    NOT NULL,
		row_count          INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_feature_runs_created ON feature_runs(created_at)`,
	`CREATE TABLE IF NOT EXISTS feature_rows (
		run_id    TEXT    NOT NULL REFERENCES feature_runs(run_id) ON DELETE CASCADE,
		row_index INTEGER NOT NULL,
		match_key TEXT    NOT NULL,
		season    INTEGER NOT NULL,
		label     INTEGER NOT NULL,
		payload   TEXT    NOT NULL,
		PRIMARY KEY (run_id, row_index)
	)`,
}

func firstLine(stmt string) string {
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return strings.TrimSpace(stmt[:i])
	}
	return stmt
}
