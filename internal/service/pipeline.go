package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/football-ml/internal/cache"
	"github.com/yourusername/football-ml/internal/classifier"
	"github.com/yourusername/football-ml/internal/config"
	"github.com/yourusername/football-ml/internal/dataset"
	"github.com/yourusername/football-ml/internal/features"
	"github.com/yourusername/football-ml/internal/logger"
	"github.com/yourusername/football-ml/internal/metrics"
	"github.com/yourusername/football-ml/internal/models"
	"github.com/yourusername/football-ml/internal/reconcile"
	"github.com/yourusername/football-ml/internal/repository"
	"github.com/yourusername/football-ml/internal/tabular"
)

// Output file names inside the configured output directory
const (
	MergedFile   = "matches_merged.csv"
	FeaturesFile = "features.csv"
	TrainFile    = "train.csv"
	EvalFile     = "eval.csv"
	UpcomingFile = "upcoming.csv"
)

// Pipeline stages, used in logs and metrics
const (
	StageLoad      = "load"
	StageReconcile = "reconcile"
	StageAssemble  = "assemble"
	StageSplit     = "split"
	StageExport    = "export"
	StagePersist   = "persist"
	StageDeliver   = "deliver"
)

// Deliverer hands dataset partitions to the downstream classifier
type Deliverer interface {
	Deliver(ctx context.Context, runID string, partitions []classifier.Partition, columns []string) error
}

// PipelineOptions carries the optional collaborators of a pipeline.
// Nil members switch the corresponding step off.
type PipelineOptions struct {
	MatchRepo   repository.MatchRepository
	FeatureRepo repository.FeatureRepository
	Cache       *cache.FeatureCache
	Deliverer   Deliverer
}

// PipelineService runs load, reconcile, assemble, split and export
type PipelineService struct {
	cfg        *config.Config
	reconciler *reconcile.Reconciler
	assembler  *features.Assembler
	opts       PipelineOptions
	logger     *logger.PipelineLogger
	audit      *logger.AuditLogger
	now        func() time.Time
}

// BuildResult is one feature assembly and the fingerprint it is cached under
type BuildResult struct {
	Assembly    *features.Assembly
	Fingerprint string
	CacheHit    bool
}

// RunResult summarizes a completed pipeline run
type RunResult struct {
	RunID      uuid.UUID
	Reconciled *reconcile.Result
	Build      *BuildResult
	Split      *dataset.Split
	Folds      []dataset.Fold
	Upcoming   []models.FeatureRow
	Manifest   *tabular.Manifest
}

// NewPipelineService creates a pipeline from configuration
func NewPipelineService(cfg *config.Config, opts PipelineOptions, pipelineLogger *logger.PipelineLogger, audit *logger.AuditLogger) (*PipelineService, error) {
	policy, err := reconcile.ParseDuplicatePolicy(cfg.Reconcile.DuplicatePolicy)
	if err != nil {
		return nil, err
	}
	if cfg.Features.EloK <= 0 {
		return nil, fmt.Errorf("elo_k must be positive, got %v", cfg.Features.EloK)
	}
	if cfg.Features.FormWindow <= 0 {
		return nil, fmt.Errorf("form_window must be positive, got %d", cfg.Features.FormWindow)
	}

	return &PipelineService{
		cfg: cfg,
		reconciler: reconcile.NewReconciler(
			models.Provider(cfg.Reconcile.PrimaryProvider),
			models.Provider(cfg.Reconcile.SecondaryProvider),
			policy,
		),
		assembler: features.NewAssembler(cfg.Features.EloK, cfg.Features.InitialRating, cfg.Features.FormWindow),
		opts:      opts,
		logger:    pipelineLogger,
		audit:     audit,
		now:       time.Now,
	}, nil
}

// Columns returns the declared feature columns
func (p *PipelineService) Columns() []string {
	return p.assembler.Columns()
}

// LoadTables reads the primary and secondary provider tables for the configured seasons
func (p *PipelineService) LoadTables(ctx context.Context) (primary, secondary []models.MatchRecord, err error) {
	if p.opts.MatchRepo == nil {
		return nil, nil, errors.New("no match repository configured")
	}
	seasons := p.cfg.Pipeline.Seasons
	if primary, err = p.opts.MatchRepo.ListByProvider(ctx, p.reconciler.Primary(), seasons); err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", p.reconciler.Primary(), err)
	}
	if secondary, err = p.opts.MatchRepo.ListByProvider(ctx, p.reconciler.Secondary(), seasons); err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", p.reconciler.Secondary(), err)
	}
	return primary, secondary, nil
}

// Merge reconciles the two provider tables
func (p *PipelineService) Merge(primary, secondary []models.MatchRecord) (*reconcile.Result, error) {
	start := time.Now()
	result, err := p.reconciler.Reconcile(primary, secondary)
	metrics.RecordStage(StageReconcile, time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	s := result.Stats
	metrics.RecordReconciliation(s.Matched, s.Unmatched, s.PrimaryDuplicates+s.SecondaryDuplicates)
	p.logger.LogReconciliation(string(p.reconciler.Primary()), string(p.reconciler.Secondary()), s)
	return result, nil
}

// Build assembles features, reusing a cached table when the input and parameters are unchanged
func (p *PipelineService) Build(matches []models.CanonicalMatch) (*BuildResult, error) {
	start := time.Now()
	fingerprint, err := cache.Fingerprint(matches, cache.Params{
		EloK:          p.cfg.Features.EloK,
		InitialRating: p.cfg.Features.InitialRating,
		FormWindow:    p.cfg.Features.FormWindow,
	})
	if err != nil {
		return nil, err
	}

	if p.opts.Cache != nil {
		if a, ok := p.opts.Cache.Get(fingerprint); ok {
			p.logger.LogFeatureBuild(len(a.Rows), len(a.Columns), a.MissingCounts(), true, float64(time.Since(start).Milliseconds()))
			return &BuildResult{Assembly: a, Fingerprint: fingerprint, CacheHit: true}, nil
		}
	}

	a, err := p.assembler.Assemble(matches)
	if err != nil {
		return nil, err
	}
	if p.opts.Cache != nil {
		p.opts.Cache.Set(fingerprint, a)
	}

	missing := a.MissingCounts()
	metrics.RecordStage(StageAssemble, time.Since(start).Seconds())
	metrics.UpdateFeatureTable(len(a.Rows), missing)
	p.logger.LogFeatureBuild(len(a.Rows), len(a.Columns), missing, false, float64(time.Since(start).Milliseconds()))
	return &BuildResult{Assembly: a, Fingerprint: fingerprint}, nil
}

// Run loads the stored provider tables and runs every stage
func (p *PipelineService) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()
	primary, secondary, err := p.LoadTables(ctx)
	metrics.RecordStage(StageLoad, time.Since(start).Seconds())
	if err != nil {
		p.logger.LogRunFailed(StageLoad, err)
		metrics.RecordPipelineRun("failure", time.Since(start).Seconds())
		return nil, err
	}
	return p.RunTables(ctx, primary, secondary)
}

// RunTables runs reconcile, assemble, split, export, persist and deliver over
// already loaded provider tables
func (p *PipelineService) RunTables(ctx context.Context, primary, secondary []models.MatchRecord) (*RunResult, error) {
	start := time.Now()
	runID := uuid.New()
	log := p.logger.WithRun(runID.String())

	fail := func(stage string, err error) (*RunResult, error) {
		log.LogRunFailed(stage, err)
		metrics.RecordPipelineRun("failure", time.Since(start).Seconds())
		return nil, fmt.Errorf("%s: %w", stage, err)
	}

	merged, err := p.Merge(primary, secondary)
	if err != nil {
		return fail(StageReconcile, err)
	}

	build, err := p.Build(merged.Matches)
	if err != nil {
		return fail(StageAssemble, err)
	}
	rows := build.Assembly.Rows

	splitStart := time.Now()
	upcoming := dataset.Upcoming(rows)
	labeled := dataset.Labeled(rows)
	split, err := dataset.SplitBySeason(labeled)
	if err != nil {
		return fail(StageSplit, err)
	}
	folds, err := dataset.WalkForward(labeled, dataset.WalkForwardConfig{MinTrainSeasons: p.cfg.Pipeline.MinTrainSeasons})
	if err != nil {
		log.WithError(err).Warn("Skipping walk-forward folds")
		folds = nil
	}
	metrics.RecordStage(StageSplit, time.Since(splitStart).Seconds())
	metrics.UpdateDatasetRows(classifier.PartitionTrain, len(split.Train))
	metrics.UpdateDatasetRows(classifier.PartitionEval, len(split.Eval))
	metrics.UpdateDatasetRows(classifier.PartitionUpcoming, len(upcoming))
	log.LogSplit(split.TrainSeasons, split.EvalSeason, len(split.Train), len(split.Eval), len(upcoming))
	for _, f := range folds {
		log.LogFold(f.FoldID, f.TrainSeasons, f.EvalSeason, len(f.Train), len(f.Eval))
	}

	result := &RunResult{
		RunID:      runID,
		Reconciled: merged,
		Build:      build,
		Split:      split,
		Folds:      folds,
		Upcoming:   upcoming,
	}

	exportStart := time.Now()
	manifest, err := p.Export(result)
	if err != nil {
		return fail(StageExport, err)
	}
	result.Manifest = manifest
	metrics.RecordStage(StageExport, time.Since(exportStart).Seconds())
	log.LogExport(p.cfg.Pipeline.OutputDir, manifest.Files)

	if p.cfg.Pipeline.PersistFeatures && p.opts.FeatureRepo != nil {
		if err := p.persist(ctx, result); err != nil {
			return fail(StagePersist, err)
		}
	}

	if p.opts.Deliverer != nil {
		deliverStart := time.Now()
		err := p.opts.Deliverer.Deliver(ctx, runID.String(), []classifier.Partition{
			{Name: classifier.PartitionTrain, Rows: split.Train},
			{Name: classifier.PartitionEval, Rows: split.Eval},
			{Name: classifier.PartitionUpcoming, Rows: upcoming},
		}, build.Assembly.Columns)
		if err != nil {
			return fail(StageDeliver, err)
		}
		metrics.RecordStage(StageDeliver, time.Since(deliverStart).Seconds())
	}

	metrics.RecordPipelineRun("success", time.Since(start).Seconds())
	log.LogRunCompleted(float64(time.Since(start).Milliseconds()))
	return result, nil
}

// Export writes the merged table, the feature table, its partitions and the manifest
func (p *PipelineService) Export(result *RunResult) (*tabular.Manifest, error) {
	dir := p.cfg.Pipeline.OutputDir
	columns := result.Build.Assembly.Columns

	writes := []struct {
		name  string
		rows  int
		write func(io.Writer) error
	}{
		{MergedFile, len(result.Reconciled.Matches), func(w io.Writer) error {
			return tabular.WriteCanonical(w, result.Reconciled.Matches)
		}},
		{FeaturesFile, len(result.Build.Assembly.Rows), func(w io.Writer) error {
			return tabular.WriteFeatures(w, result.Build.Assembly.Rows, columns)
		}},
		{TrainFile, len(result.Split.Train), func(w io.Writer) error {
			return tabular.WriteFeatures(w, result.Split.Train, columns)
		}},
		{EvalFile, len(result.Split.Eval), func(w io.Writer) error {
			return tabular.WriteFeatures(w, result.Split.Eval, columns)
		}},
		{UpcomingFile, len(result.Upcoming), func(w io.Writer) error {
			return tabular.WriteFeatures(w, result.Upcoming, columns)
		}},
	}

	files := make([]string, 0, len(writes)+1)
	for _, wr := range writes {
		path := filepath.Join(dir, wr.name)
		if err := tabular.WriteFile(path, wr.write); err != nil {
			return nil, err
		}
		p.audit.LogFileWritten(path, wr.rows)
		files = append(files, wr.name)
	}
	files = append(files, tabular.ManifestFile)

	manifest := &tabular.Manifest{
		RunID:             result.RunID.String(),
		CreatedAt:         p.now().UTC(),
		Fingerprint:       result.Build.Fingerprint,
		PrimaryProvider:   string(p.reconciler.Primary()),
		SecondaryProvider: string(p.reconciler.Secondary()),
		EloK:              p.cfg.Features.EloK,
		FormWindow:        p.cfg.Features.FormWindow,
		InitialRating:     p.cfg.Features.InitialRating,
		Seasons:           dataset.Seasons(result.Build.Assembly.Rows),
		TrainSeasons:      result.Split.TrainSeasons,
		EvalSeason:        result.Split.EvalSeason,
		FeatureColumns:    columns,
		LabelColumn:       tabular.ColLabel,
		Rows: map[string]int{
			classifier.PartitionTrain:    len(result.Split.Train),
			classifier.PartitionEval:     len(result.Split.Eval),
			classifier.PartitionUpcoming: len(result.Upcoming),
			"total":                      len(result.Build.Assembly.Rows),
		},
		Files: files,
	}
	for _, f := range result.Folds {
		manifest.Folds = append(manifest.Folds, tabular.ManifestFold{
			FoldID:       f.FoldID,
			TrainSeasons: f.TrainSeasons,
			EvalSeason:   f.EvalSeason,
			TrainRows:    len(f.Train),
			EvalRows:     len(f.Eval),
		})
	}

	path := filepath.Join(dir, tabular.ManifestFile)
	if err := tabular.WriteManifest(path, manifest); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (p *PipelineService) persist(ctx context.Context, result *RunResult) error {
	start := time.Now()
	rows := result.Build.Assembly.Rows
	run := &models.FeatureRun{
		ID:                result.RunID,
		CreatedAt:         result.Manifest.CreatedAt,
		Fingerprint:       result.Build.Fingerprint,
		PrimaryProvider:   p.reconciler.Primary(),
		SecondaryProvider: p.reconciler.Secondary(),
		EloK:              p.cfg.Features.EloK,
		FormWindow:        p.cfg.Features.FormWindow,
		InitialRating:     p.cfg.Features.InitialRating,
		Seasons:           result.Manifest.Seasons,
		FeatureColumns:    result.Build.Assembly.Columns,
		RowCount:          len(rows),
	}
	if err := p.opts.FeatureRepo.SaveRun(ctx, run, rows); err != nil {
		return err
	}

	metrics.RecordStage(StagePersist, time.Since(start).Seconds())
	p.audit.LogFeatureRunStored(run.ID.String(), run.Fingerprint, len(rows), map[string]interface{}{
		"elo_k":          run.EloK,
		"form_window":    run.FormWindow,
		"initial_rating": run.InitialRating,
		"seasons":        run.Seasons,
	})
	return nil
}
