// Package app wires configuration into the stores, services and clients shared by the commands.
package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/football-ml/internal/cache"
	"github.com/yourusername/football-ml/internal/classifier"
	"github.com/yourusername/football-ml/internal/config"
	"github.com/yourusername/football-ml/internal/database"
	"github.com/yourusername/football-ml/internal/datasource"
	"github.com/yourusername/football-ml/internal/health"
	"github.com/yourusername/football-ml/internal/logger"
	"github.com/yourusername/football-ml/internal/repository"
	"github.com/yourusername/football-ml/internal/scheduler"
	"github.com/yourusername/football-ml/internal/service"
)

// ingestBatchSize is the number of records upserted per statement batch
const ingestBatchSize = 500

// App holds every long-lived dependency of a command
type App struct {
	Config     *config.Config
	Logger     *logrus.Logger
	Store      database.Store
	Repos      *repository.Repositories
	Ingestion  *service.IngestionService
	Pipeline   *service.PipelineService
	Cache      *cache.FeatureCache
	Classifier *classifier.HTTPClient
	Handoff    *classifier.Handoff
}

// Options switch optional parts of the wiring
type Options struct {
	// SkipIngestion builds no provider clients, for commands working on stored tables
	SkipIngestion bool
}

// New opens the store and builds the services described by cfg
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger, opts Options) (*App, error) {
	store, err := database.Initialize(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	a := &App{Config: cfg, Logger: log, Store: store}
	if err := a.wire(opts); err != nil {
		store.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) wire(opts Options) error {
	cfg := a.Config
	repos, err := repository.NewRepositories(a.Store)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}
	a.Repos = repos

	pipelineLogger := logger.NewPipelineLogger(a.Logger)
	audit := logger.NewAuditLogger(a.Logger)

	if !opts.SkipIngestion {
		sources, err := datasource.NewFactory(a.Logger).NewMatchSources(cfg.Providers)
		if err != nil {
			return err
		}
		a.Ingestion = service.NewIngestionService(
			sources,
			repos.Matches,
			service.NewDataValidator(a.Logger),
			service.NewDataNormalizer(a.Logger, cfg.Pipeline.TeamAliases),
			pipelineLogger,
			audit,
			ingestBatchSize,
		)
	}

	pipelineOpts := service.PipelineOptions{
		MatchRepo:   repos.Matches,
		FeatureRepo: repos.Features,
	}
	if ttl := cfg.Pipeline.CacheTTL(); ttl > 0 {
		a.Cache = cache.NewFeatureCache(ttl, cfg.Pipeline.CacheMaxSize)
		pipelineOpts.Cache = a.Cache
	}
	if cfg.Classifier.Enabled {
		classifierLogger := logger.NewClassifierLogger(a.Logger)
		a.Classifier = classifier.NewHTTPClient(&cfg.Classifier, classifierLogger)
		a.Handoff = classifier.NewHandoffWithSubmitter(cfg.Classifier, a.Classifier, classifierLogger)
		pipelineOpts.Deliverer = a.Handoff
	}

	a.Pipeline, err = service.NewPipelineService(cfg, pipelineOpts, pipelineLogger, audit)
	return err
}

// Scheduler returns a refresh scheduler over the app's services
func (a *App) Scheduler() *scheduler.Scheduler {
	var ingester scheduler.Ingester
	if a.Ingestion != nil {
		ingester = a.Ingestion
	}
	return scheduler.NewScheduler(ingester, a.Pipeline, a.Config.Pipeline.Seasons, a.Logger)
}

// HealthChecks returns the readiness checks of the wired dependencies
func (a *App) HealthChecks() map[string]health.Checker {
	checks := map[string]health.Checker{"database": a.Store}
	if a.Classifier != nil {
		checks["classifier"] = a.Classifier
	}
	return checks
}

// Close releases the store
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}
