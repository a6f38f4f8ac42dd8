package repository

import (
	"fmt"

	"github.com/yourusername/football-ml/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Matches  MatchRepository
	Features FeatureRepository
}

// NewRepositories creates the repositories matching the store's driver
func NewRepositories(store database.Store) (*Repositories, error) {
	if store == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	switch db := store.(type) {
	case *database.DB:
		return &Repositories{
			Matches:  NewPostgresMatchRepository(db),
			Features: NewPostgresFeatureRepository(db),
		}, nil
	case *database.SQLiteDB:
		return &Repositories{
			Matches:  NewSQLiteMatchRepository(db),
			Features: NewSQLiteFeatureRepository(db),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported store %T", store)
	}
}
