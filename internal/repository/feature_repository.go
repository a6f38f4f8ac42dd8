package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/football-ml/internal/database"
	"github.com/yourusername/football-ml/internal/models"
)

const selectFeatureRun = `
	SELECT run_id, created_at, fingerprint, primary_provider, secondary_provider,
	       elo_k, form_window, initial_rating, seasons, feature_columns, row_count
	FROM feature_runs
`

// PostgresFeatureRepository implements FeatureRepository for PostgreSQL
type PostgresFeatureRepository struct {
	db *database.DB
}

// NewPostgresFeatureRepository creates a new feature repository
func NewPostgresFeatureRepository(db *database.DB) FeatureRepository {
	return &PostgresFeatureRepository{db: db}
}

// SaveRun stores the run header and bulk-copies its rows in one transaction
func (r *PostgresFeatureRepository) SaveRun(ctx context.Context, run *models.FeatureRun, rows []models.FeatureRow) error {
	seasons, err := json.Marshal(run.Seasons)
	if err != nil {
		return fmt.Errorf("encode seasons: %w", err)
	}
	columns, err := json.Marshal(run.FeatureColumns)
	if err != nil {
		return fmt.Errorf("encode feature columns: %w", err)
	}

	copyFromSource := make([][]any, len(rows))
	for i := range rows {
		payload, err := encodeRow(&rows[i])
		if err != nil {
			return err
		}
		copyFromSource[i] = []any{run.ID, i, rows[i].MatchKey, rows[i].Season, int(rows[i].Label), payload}
	}

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO feature_runs (run_id, created_at, fingerprint, primary_provider, secondary_provider,
			                          elo_k, form_window, initial_rating, seasons, feature_columns, row_count)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`,
			run.ID, run.CreatedAt.UTC(), run.Fingerprint, string(run.PrimaryProvider), string(run.SecondaryProvider),
			run.EloK, run.FormWindow, run.InitialRating, seasons, columns, len(rows),
		)
		if err != nil {
			return fmt.Errorf("failed to insert feature run: %w", err)
		}

		if len(rows) == 0 {
			return nil
		}
		count, err := tx.CopyFrom(ctx, pgx.Identifier{"feature_rows"},
			[]string{"run_id", "row_index", "match_key", "season", "label", "payload"},
			pgx.CopyFromRows(copyFromSource),
		)
		if err != nil {
			return fmt.Errorf("failed to copy feature rows: %w", err)
		}
		if count != int64(len(rows)) {
			return fmt.Errorf("inserted %d rows, expected %d", count, len(rows))
		}
		return nil
	})
}

// GetRun retrieves a run header by ID
func (r *PostgresFeatureRepository) GetRun(ctx context.Context, id uuid.UUID) (*models.FeatureRun, error) {
	return r.scanRun(r.db.GetPool().QueryRow(ctx, selectFeatureRun+` WHERE run_id = $1`, id))
}

// LatestRun retrieves the most recently created run
func (r *PostgresFeatureRepository) LatestRun(ctx context.Context) (*models.FeatureRun, error) {
	return r.scanRun(r.db.GetPool().QueryRow(ctx, selectFeatureRun+` ORDER BY created_at DESC LIMIT 1`))
}

func (r *PostgresFeatureRepository) scanRun(row pgx.Row) (*models.FeatureRun, error) {
	run := &models.FeatureRun{}
	var primary, secondary string
	var seasons, columns []byte
	err := row.Scan(
		&run.ID, &run.CreatedAt, &run.Fingerprint, &primary, &secondary,
		&run.EloK, &run.FormWindow, &run.InitialRating, &seasons, &columns, &run.RowCount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feature run: %w", err)
	}

	run.PrimaryProvider = models.Provider(primary)
	run.SecondaryProvider = models.Provider(secondary)
	run.CreatedAt = run.CreatedAt.UTC()
	if err := json.Unmarshal(seasons, &run.Seasons); err != nil {
		return nil, fmt.Errorf("decode seasons: %w", err)
	}
	if err := json.Unmarshal(columns, &run.FeatureColumns); err != nil {
		return nil, fmt.Errorf("decode feature columns: %w", err)
	}
	return run, nil
}

// GetRows retrieves a run's rows in their stored order
func (r *PostgresFeatureRepository) GetRows(ctx context.Context, id uuid.UUID) ([]models.FeatureRow, error) {
	rows, err := r.db.GetPool().Query(ctx, `SELECT payload FROM feature_rows WHERE run_id = $1 ORDER BY row_index ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query feature rows: %w", err)
	}
	defer rows.Close()

	var out []models.FeatureRow
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan feature row: %w", err)
		}
		row, err := decodeRow(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}

	return out, rows.Err()
}
