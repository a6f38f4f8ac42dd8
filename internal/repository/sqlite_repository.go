package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/football-ml/internal/database"
	"github.com/yourusername/football-ml/internal/models"
)

// SQLiteMatchRepository implements MatchRepository on the local store
type SQLiteMatchRepository struct {
	db *database.SQLiteDB
}

// NewSQLiteMatchRepository creates a new match repository
func NewSQLiteMatchRepository(db *database.SQLiteDB) MatchRepository {
	return &SQLiteMatchRepository{db: db}
}

// UpsertBatch stores records in a single transaction
func (r *SQLiteMatchRepository) UpsertBatch(ctx context.Context, records []models.MatchRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	records = dedupeLatest(records)

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(matchColumns)+1), ",")
	updates := make([]string, 0, len(matchColumns))
	for _, c := range matchColumns[2:] {
		updates = append(updates, fmt.Sprintf("%s = excluded.%s", c, c))
	}
	query := fmt.Sprintf(
		`INSERT INTO matches (%s, updated_at) VALUES (%s)
		 ON CONFLICT (provider, external_id) DO UPDATE SET %s, updated_at = excluded.updated_at`,
		strings.Join(matchColumns, ", "), placeholders, strings.Join(updates, ", "),
	)
	now := formatSQLiteTime(time.Now())

	err := r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare upsert: %w", err)
		}
		defer stmt.Close()

		for i := range records {
			m := &records[i]
			_, err := stmt.ExecContext(ctx,
				string(m.Provider), m.ExternalID, m.Season, formatSQLiteTime(m.UTCDate), m.Matchday,
				m.HomeTeam, m.AwayTeam, m.HomeGoals, m.AwayGoals,
				m.HomeOdd, m.DrawOdd, m.AwayOdd, now,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert match %s: %w", m.ExternalID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// ListByProvider retrieves one provider's records ordered by kick-off
func (r *SQLiteMatchRepository) ListByProvider(ctx context.Context, provider models.Provider, seasons []int) ([]models.MatchRecord, error) {
	query := `
		SELECT provider, external_id, season, utc_date, matchday, home_team, away_team,
		       home_goals, away_goals, home_odd, draw_odd, away_odd
		FROM matches
		WHERE provider = ?`
	args := []any{string(provider)}
	if len(seasons) > 0 {
		query += ` AND season IN (` + strings.TrimSuffix(strings.Repeat("?,", len(seasons)), ",") + `)`
		for _, s := range seasons {
			args = append(args, s)
		}
	}
	query += ` ORDER BY utc_date ASC, external_id ASC`

	rows, err := r.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var out []models.MatchRecord
	for rows.Next() {
		var m models.MatchRecord
		var p, date string
		err := rows.Scan(
			&p, &m.ExternalID, &m.Season, &date, &m.Matchday, &m.HomeTeam, &m.AwayTeam,
			&m.HomeGoals, &m.AwayGoals, &m.HomeOdd, &m.DrawOdd, &m.AwayOdd,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanMatch, err)
		}
		if m.UTCDate, err = parseSQLiteTime(date); err != nil {
			return nil, err
		}
		m.Provider = models.Provider(p)
		out = append(out, m)
	}

	return out, rows.Err()
}

// Count returns the number of stored records for a provider
func (r *SQLiteMatchRepository) Count(ctx context.Context, provider models.Provider) (int, error) {
	var n int
	err := r.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM matches WHERE provider = ?`, string(provider)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return n, nil
}

// SQLiteFeatureRepository implements FeatureRepository on the local store
type SQLiteFeatureRepository struct {
	db *database.SQLiteDB
}

// NewSQLiteFeatureRepository creates a new feature repository
func NewSQLiteFeatureRepository(db *database.SQLiteDB) FeatureRepository {
	return &SQLiteFeatureRepository{db: db}
}

// SaveRun stores the run header and its rows in one transaction
func (r *SQLiteFeatureRepository) SaveRun(ctx context.Context, run *models.FeatureRun, rows []models.FeatureRow) error {
	seasons, err := json.Marshal(run.Seasons)
	if err != nil {
		return fmt.Errorf("encode seasons: %w", err)
	}
	columns, err := json.Marshal(run.FeatureColumns)
	if err != nil {
		return fmt.Errorf("encode feature columns: %w", err)
	}

	return r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO feature_runs (run_id, created_at, fingerprint, primary_provider, secondary_provider,
			                          elo_k, form_window, initial_rating, seasons, feature_columns, row_count)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID.String(), formatSQLiteTime(run.CreatedAt), run.Fingerprint,
			string(run.PrimaryProvider), string(run.SecondaryProvider),
			run.EloK, run.FormWindow, run.InitialRating, string(seasons), string(columns), len(rows),
		)
		if err != nil {
			return fmt.Errorf("failed to insert feature run: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO feature_rows (run_id, row_index, match_key, season, label, payload) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare feature row insert: %w", err)
		}
		defer stmt.Close()

		for i := range rows {
			payload, err := encodeRow(&rows[i])
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, run.ID.String(), i, rows[i].MatchKey, rows[i].Season, int(rows[i].Label), string(payload)); err != nil {
				return fmt.Errorf("failed to insert feature row %d: %w", i, err)
			}
		}
		return nil
	})
}

// GetRun retrieves a run header by ID
func (r *SQLiteFeatureRepository) GetRun(ctx context.Context, id uuid.UUID) (*models.FeatureRun, error) {
	return scanSQLiteRun(r.db.Conn().QueryRowContext(ctx, selectFeatureRun+` WHERE run_id = ?`, id.String()))
}

// LatestRun retrieves the most recently created run
func (r *SQLiteFeatureRepository) LatestRun(ctx context.Context) (*models.FeatureRun, error) {
	return scanSQLiteRun(r.db.Conn().QueryRowContext(ctx, selectFeatureRun+` ORDER BY created_at DESC LIMIT 1`))
}

func scanSQLiteRun(row *sql.Row) (*models.FeatureRun, error) {
	run := &models.FeatureRun{}
	var id, created, primary, secondary, seasons, columns string
	err := row.Scan(
		&id, &created, &run.Fingerprint, &primary, &secondary,
		&run.EloK, &run.FormWindow, &run.InitialRating, &seasons, &columns, &run.RowCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feature run: %w", err)
	}

	if run.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse run id: %w", err)
	}
	if run.CreatedAt, err = parseSQLiteTime(created); err != nil {
		return nil, err
	}
	run.PrimaryProvider = models.Provider(primary)
	run.SecondaryProvider = models.Provider(secondary)
	if err := json.Unmarshal([]byte(seasons), &run.Seasons); err != nil {
		return nil, fmt.Errorf("decode seasons: %w", err)
	}
	if err := json.Unmarshal([]byte(columns), &run.FeatureColumns); err != nil {
		return nil, fmt.Errorf("decode feature columns: %w", err)
	}
	return run, nil
}

// GetRows retrieves a run's rows in their stored order
func (r *SQLiteFeatureRepository) GetRows(ctx context.Context, id uuid.UUID) ([]models.FeatureRow, error) {
	rows, err := r.db.Conn().QueryContext(ctx, `SELECT payload FROM feature_rows WHERE run_id = ? ORDER BY row_index ASC`, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query feature rows: %w", err)
	}
	defer rows.Close()

	var out []models.FeatureRow
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan feature row: %w", err)
		}
		row, err := decodeRow([]byte(payload))
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}

	return out, rows.Err()
}
