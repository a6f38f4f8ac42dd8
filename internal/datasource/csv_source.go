package datasource

import (
	"context"

	"github.com/yourusername/football-ml/internal/models"
	"github.com/yourusername/football-ml/internal/tabular"
)

const csvSourceName = "csv"

// CSVSource implements MatchSource over a local table in the input column layout
type CSVSource struct {
	path    string
	enabled bool
}

// NewCSVSource creates a source reading path on every fetch
func NewCSVSource(path string, enabled bool) *CSVSource {
	return &CSVSource{path: path, enabled: enabled}
}

// FetchMatches returns the rows of one season. Rows without a provider are tagged csv.
func (s *CSVSource) FetchMatches(ctx context.Context, season int) ([]models.MatchRecord, error) {
	if !s.enabled {
		return nil, NewDataSourceError(csvSourceName, ErrCodeDisabled, dataSourceDisabledMsg, nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all, err := tabular.ReadMatchesFile(s.path)
	if err != nil {
		return nil, NewDataSourceError(csvSourceName, ErrCodeInvalidData, "failed to read "+s.path, err)
	}

	out := make([]models.MatchRecord, 0, len(all))
	for _, m := range all {
		if m.Season != season {
			continue
		}
		if m.Provider == "" {
			m.Provider = models.ProviderCSV
		}
		out = append(out, m)
	}
	return out, nil
}

// Provider returns the provider tag
func (s *CSVSource) Provider() models.Provider {
	return models.ProviderCSV
}

// Name returns the name of the data source
func (s *CSVSource) Name() string {
	return csvSourceName
}

// IsEnabled returns whether this data source is currently enabled
func (s *CSVSource) IsEnabled() bool {
	return s.enabled
}
