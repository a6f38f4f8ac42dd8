package database

import (
	"context"
	"fmt"

	"github.com/yourusername/football-ml/internal/config"
)

// Store is the handle shared by both drivers
type Store interface {
	Driver() string
	HealthCheck(ctx context.Context) error
	Close() error
}

// Initialize opens the configured store and makes sure the schema exists
func Initialize(ctx context.Context, cfg *config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case DriverPostgres:
		db, err := NewDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	case DriverSQLite:
		return OpenSQLite(ctx, cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
