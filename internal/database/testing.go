package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDatabaseDSNEnv names the variable pointing integration tests at a Postgres instance
const TestDatabaseDSNEnv = "FOOTBALL_ML_TEST_DATABASE_DSN"

// SetupTestDB connects to the Postgres test database, skipping when none is configured
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv(TestDatabaseDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set, skipping Postgres integration test", TestDatabaseDSNEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := NewDBFromDSN(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() { TeardownTestDB(t, db) })
	return db
}

// TeardownTestDB truncates the tables and closes the pool
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.Exec(ctx, "TRUNCATE feature_rows, feature_runs, matches"); err != nil {
		t.Logf("warning: failed to truncate test tables: %v", err)
	}
	db.Close()
}

// SetupTestSQLite opens a throwaway sqlite store under the test's temp dir
func SetupTestSQLite(t *testing.T) *SQLiteDB {
	t.Helper()

	db, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("warning: failed to close sqlite: %v", err)
		}
	})
	return db
}
