package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteDB is a single-file store for local runs
type SQLiteDB struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path and applies the schema
func OpenSQLite(ctx context.Context, path string) (*SQLiteDB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// modernc serializes writers; a single connection avoids SQLITE_BUSY under WAL
	db.SetMaxOpenConns(1)

	s := &SQLiteDB{db: db, path: path}
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Driver returns the configured driver name
func (s *SQLiteDB) Driver() string {
	return DriverSQLite
}

// Path returns the database file location
func (s *SQLiteDB) Path() string {
	return s.path
}

// Conn returns the underlying handle
func (s *SQLiteDB) Conn() *sql.DB {
	return s.db
}

// Close closes the database file
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// HealthCheck performs a simple health check on the database
func (s *SQLiteDB) HealthCheck(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "SELECT 1"); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// EnsureSchema creates the tables the repositories need
func (s *SQLiteDB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema (%s): %w", firstLine(stmt), err)
		}
	}
	return nil
}

// WithTransaction runs fn inside a transaction, rolling back when it returns an error
func (s *SQLiteDB) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("transaction failed: %w, rollback failed: %w", err, rollbackErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
