package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/football-ml/internal/config"
	"github.com/yourusername/football-ml/internal/models"
)

// Factory creates MatchSource implementations based on configuration
type Factory struct {
	logger logrus.FieldLogger
}

// NewFactory creates a new data source factory
func NewFactory(logger logrus.FieldLogger) *Factory {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Factory{logger: logger}
}

// HTTPConfigFor derives the HTTP client settings of one provider
func HTTPConfigFor(cfg config.ProviderConfig) HTTPClientConfig {
	httpCfg := DefaultHTTPClientConfig()
	if cfg.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.MaxRetries > 0 {
		httpCfg.MaxRetries = cfg.MaxRetries
	}
	if cfg.RateLimit > 0 {
		httpCfg.RateLimit = cfg.RateLimit
	}
	return httpCfg
}

// NewMatchSource creates a MatchSource based on the provided configuration.
// httpClient may be nil, in which case one is built from the provider settings.
func (f *Factory) NewMatchSource(cfg config.ProviderConfig, httpClient *RateLimitedHTTPClient) (MatchSource, error) {
	if httpClient == nil && cfg.Name != string(models.ProviderCSV) {
		httpClient = NewRateLimitedHTTPClient(HTTPConfigFor(cfg), f.logger.WithField("provider", cfg.Name))
	}

	switch models.Provider(cfg.Name) {
	case models.ProviderFootballData:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("football-data.org API key is required")
		}
		if cfg.Competition == "" {
			return nil, fmt.Errorf("football-data.org competition code is required")
		}
		return NewFootballDataClient(httpClient, cfg.BaseURL, cfg.APIKey, cfg.Competition, cfg.Enabled, f.logger), nil

	case models.ProviderAPIFootball:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("API-Football API key is required")
		}
		if cfg.LeagueID <= 0 {
			return nil, fmt.Errorf("API-Football league_id is required")
		}
		return NewAPIFootballClient(httpClient, cfg.BaseURL, cfg.APIKey, cfg.LeagueID, cfg.FetchOdds, cfg.Enabled, f.logger), nil

	case models.ProviderCSV:
		if cfg.Path == "" {
			return nil, fmt.Errorf("csv source path is required")
		}
		return NewCSVSource(cfg.Path, cfg.Enabled), nil

	default:
		return nil, fmt.Errorf("unknown data source: %s", cfg.Name)
	}
}

// NewMatchSources creates all enabled data sources from configuration
func (f *Factory) NewMatchSources(providers []config.ProviderConfig) ([]MatchSource, error) {
	var sources []MatchSource

	for _, p := range providers {
		if !p.Enabled {
			f.logger.WithField("provider", p.Name).Info("Skipping disabled data source")
			continue
		}

		source, err := f.NewMatchSource(p, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create data source %s: %w", p.Name, err)
		}

		sources = append(sources, source)
		f.logger.WithField("provider", p.Name).Info("Created data source")
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no enabled data sources configured")
	}

	return sources, nil
}
