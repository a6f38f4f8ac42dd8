package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/football-ml/internal/datasource"
	"github.com/yourusername/football-ml/internal/logger"
	"github.com/yourusername/football-ml/internal/metrics"
	"github.com/yourusername/football-ml/internal/models"
	"github.com/yourusername/football-ml/internal/repository"
)

// IngestionService handles the fetch, normalize, validate, persist workflow
type IngestionService struct {
	sources    []datasource.MatchSource
	matchRepo  repository.MatchRepository
	validator  *DataValidator
	normalizer *DataNormalizer
	logger     *logger.PipelineLogger
	audit      *logger.AuditLogger
	batchSize  int
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	sources []datasource.MatchSource,
	matchRepo repository.MatchRepository,
	validator *DataValidator,
	normalizer *DataNormalizer,
	pipelineLogger *logger.PipelineLogger,
	audit *logger.AuditLogger,
	batchSize int,
) *IngestionService {
	if batchSize <= 0 {
		batchSize = 500
	}

	return &IngestionService{
		sources:    sources,
		matchRepo:  matchRepo,
		validator:  validator,
		normalizer: normalizer,
		logger:     pipelineLogger,
		audit:      audit,
		batchSize:  batchSize,
	}
}

// Sources returns the configured sources
func (s *IngestionService) Sources() []datasource.MatchSource {
	return s.sources
}

// IngestAll ingests every enabled source. A failing source does not stop the others.
func (s *IngestionService) IngestAll(ctx context.Context, seasons []int) ([]*IngestionMetrics, error) {
	var results []*IngestionMetrics
	var errs []error
	for _, src := range s.sources {
		if !src.IsEnabled() {
			continue
		}
		m, err := s.ingestSource(ctx, src, seasons)
		results = append(results, m)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return results, errors.Join(errs...)
}

// IngestSeasons fetches and stores the given seasons from a named source
func (s *IngestionService) IngestSeasons(ctx context.Context, sourceName string, seasons []int) (*IngestionMetrics, error) {
	for _, src := range s.sources {
		if src.Name() == sourceName {
			return s.ingestSource(ctx, src, seasons)
		}
	}
	return nil, fmt.Errorf("data source not found: %s", sourceName)
}

func (s *IngestionService) ingestSource(ctx context.Context, src datasource.MatchSource, seasons []int) (*IngestionMetrics, error) {
	m := NewIngestionMetrics(src.Name())
	defer m.Finish()

	for _, season := range seasons {
		if !s.validator.IsValidSeason(season) {
			m.RecordError()
			return m, fmt.Errorf("%s: invalid season %d", src.Name(), season)
		}
		if err := s.ingestSeason(ctx, src, season, m); err != nil {
			m.RecordError()
			s.logger.WithError(err).WithField("provider", src.Name()).Error("Ingestion failed")
			return m, err
		}
	}
	return m, nil
}

func (s *IngestionService) ingestSeason(ctx context.Context, src datasource.MatchSource, season int, m *IngestionMetrics) error {
	start := time.Now()
	records, err := src.FetchMatches(ctx, season)
	metrics.RecordProviderFetch(src.Name(), time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("%s season %d: %w", src.Name(), season, err)
	}

	accepted := make([]models.MatchRecord, 0, len(records))
	rejected, droppedOdds := 0, 0
	for i := range records {
		rec, dropped := s.normalizer.NormalizeMatch(records[i], src.Provider())
		droppedOdds += dropped
		if problems := s.validator.ValidateMatch(&rec); len(problems) > 0 {
			rejected++
			s.logger.WithField("provider", src.Name()).
				WithField("external_id", rec.ExternalID).
				WithField("problems", problems).
				Warn("Rejected match record")
			continue
		}
		accepted = append(accepted, rec)
	}

	stored := 0
	for i := 0; i < len(accepted); i += s.batchSize {
		end := min(i+s.batchSize, len(accepted))
		n, err := s.matchRepo.UpsertBatch(ctx, accepted[i:end])
		if err != nil {
			return fmt.Errorf("store %s season %d: %w", src.Name(), season, err)
		}
		stored += n
	}

	m.RecordSeason(len(records), stored, rejected, droppedOdds)
	metrics.RecordIngestion(src.Name(), len(records), stored, rejected)
	s.logger.LogIngestion(src.Name(), season, len(records), stored, rejected, float64(time.Since(start).Milliseconds()))
	s.audit.LogMatchesStored(src.Name(), season, stored, time.Now())
	return nil
}
