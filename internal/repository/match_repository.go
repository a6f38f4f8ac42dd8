package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/football-ml/internal/database"
	"github.com/yourusername/football-ml/internal/models"
)

const errScanMatch = "failed to scan match: %w"

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

// UpsertBatch copies records into a staging table and merges them into matches
func (r *PostgresMatchRepository) UpsertBatch(ctx context.Context, records []models.MatchRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	records = dedupeLatest(records)

	copyFromSource := make([][]any, len(records))
	for i := range records {
		m := &records[i]
		copyFromSource[i] = []any{
			string(m.Provider), m.ExternalID, m.Season, m.UTCDate.UTC(), m.Matchday,
			m.HomeTeam, m.AwayTeam, m.HomeGoals, m.AwayGoals,
			m.HomeOdd, m.DrawOdd, m.AwayOdd,
		}
	}

	cols := strings.Join(matchColumns, ", ")
	updates := make([]string, 0, len(matchColumns))
	for _, c := range matchColumns[2:] {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}
	merge := fmt.Sprintf(`
		INSERT INTO matches (%s, updated_at)
		SELECT %s, NOW() FROM matches_staging
		ON CONFLICT (provider, external_id) DO UPDATE SET %s, updated_at = EXCLUDED.updated_at
	`, cols, cols, strings.Join(updates, ", "))

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `CREATE TEMP TABLE matches_staging (LIKE matches INCLUDING DEFAULTS) ON COMMIT DROP`); err != nil {
			return fmt.Errorf("failed to create staging table: %w", err)
		}

		count, err := tx.CopyFrom(ctx, pgx.Identifier{"matches_staging"}, matchColumns, pgx.CopyFromRows(copyFromSource))
		if err != nil {
			return fmt.Errorf("failed to copy matches: %w", err)
		}
		if count != int64(len(records)) {
			return fmt.Errorf("copied %d rows, expected %d", count, len(records))
		}

		if _, err := tx.Exec(ctx, merge); err != nil {
			return fmt.Errorf("failed to merge matches: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(records), nil
}

// ListByProvider retrieves one provider's records ordered by kick-off
func (r *PostgresMatchRepository) ListByProvider(ctx context.Context, provider models.Provider, seasons []int) ([]models.MatchRecord, error) {
	query := `
		SELECT provider, external_id, season, utc_date, matchday, home_team, away_team,
		       home_goals, away_goals, home_odd, draw_odd, away_odd
		FROM matches
		WHERE provider = $1
	`
	args := []any{string(provider)}
	if len(seasons) > 0 {
		filter := make([]int32, len(seasons))
		for i, s := range seasons {
			filter[i] = int32(s)
		}
		query += ` AND season = ANY($2)`
		args = append(args, filter)
	}
	query += ` ORDER BY utc_date ASC, external_id ASC`

	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var out []models.MatchRecord
	for rows.Next() {
		var m models.MatchRecord
		var p string
		err := rows.Scan(
			&p, &m.ExternalID, &m.Season, &m.UTCDate, &m.Matchday, &m.HomeTeam, &m.AwayTeam,
			&m.HomeGoals, &m.AwayGoals, &m.HomeOdd, &m.DrawOdd, &m.AwayOdd,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanMatch, err)
		}
		m.Provider = models.Provider(p)
		m.UTCDate = m.UTCDate.UTC()
		out = append(out, m)
	}

	return out, rows.Err()
}

// Count returns the number of stored records for a provider
func (r *PostgresMatchRepository) Count(ctx context.Context, provider models.Provider) (int, error) {
	var n int
	err := r.db.GetPool().QueryRow(ctx, `SELECT COUNT(*) FROM matches WHERE provider = $1`, string(provider)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return n, nil
}
