package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/football-ml/internal/app"
	"github.com/yourusername/football-ml/internal/health"
	"github.com/yourusername/football-ml/internal/logger"
	"github.com/yourusername/football-ml/internal/metrics"
	"github.com/yourusername/football-ml/internal/models"
	"github.com/yourusername/football-ml/internal/service"
	"github.com/yourusername/football-ml/internal/tabular"
)

var (
	seasonsFlag    []int
	primaryFile    string
	secondaryFile  string
	inputFile      string
	mergeOutput    string
	buildOutput    string
	ingestFirst    bool
	runImmediately bool
	healthPort     int
)

func init() {
	ingestCmd.Flags().IntSliceVar(&seasonsFlag, "seasons", nil, "Seasons to ingest (defaults to pipeline.seasons)")

	mergeCmd.Flags().StringVar(&primaryFile, "primary", "", "Primary provider table (CSV)")
	mergeCmd.Flags().StringVar(&secondaryFile, "secondary", "", "Secondary provider table (CSV)")
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", service.MergedFile, "Merged table output path")
	mergeCmd.MarkFlagRequired("primary")
	mergeCmd.MarkFlagRequired("secondary")

	buildCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Merged table (CSV)")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", service.FeaturesFile, "Feature table output path")
	buildCmd.MarkFlagRequired("input")

	runCmd.Flags().BoolVar(&ingestFirst, "ingest", false, "Ingest the configured seasons before building")
	runCmd.Flags().StringVar(&primaryFile, "primary", "", "Read the primary table from CSV instead of the database")
	runCmd.Flags().StringVar(&secondaryFile, "secondary", "", "Read the secondary table from CSV instead of the database")

	scheduleCmd.Flags().BoolVar(&runImmediately, "now", false, "Run one refresh cycle before waiting for the schedule")
	scheduleCmd.Flags().IntVar(&healthPort, "health-port", 0, "Health server port (defaults to metrics.port)")
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch provider tables into the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := app.New(ctx, cfg, appLog, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		seasons := seasonsFlag
		if len(seasons) == 0 {
			seasons = cfg.Pipeline.Seasons
		}
		results, err := a.Ingestion.IngestAll(ctx, seasons)
		for _, m := range results {
			appLog.Info(m.String())
		}
		return err
	},
}

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Reconcile two provider tables into one labeled table",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := offlinePipeline()
		if err != nil {
			return err
		}
		primary, secondary, err := readProviderFiles()
		if err != nil {
			return err
		}

		merged, err := p.Merge(primary, secondary)
		if err != nil {
			return err
		}
		if err := tabular.WriteFile(mergeOutput, func(w io.Writer) error {
			return tabular.WriteCanonical(w, merged.Matches)
		}); err != nil {
			return err
		}

		s := merged.Stats
		fmt.Printf("merged %d rows into %s (matched %d, unmatched %d, duplicates %d/%d)\n",
			len(merged.Matches), mergeOutput, s.Matched, s.Unmatched, s.PrimaryDuplicates, s.SecondaryDuplicates)
		return nil
	},
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Derive pre-match features from a merged table",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := offlinePipeline()
		if err != nil {
			return err
		}
		matches, err := tabular.ReadCanonicalFile(inputFile)
		if err != nil {
			return err
		}

		build, err := p.Build(matches)
		if err != nil {
			return err
		}
		if err := tabular.WriteFile(buildOutput, func(w io.Writer) error {
			return tabular.WriteFeatures(w, build.Assembly.Rows, build.Assembly.Columns)
		}); err != nil {
			return err
		}

		fmt.Printf("wrote %d rows x %d features to %s\n", len(build.Assembly.Rows), len(build.Assembly.Columns), buildOutput)
		missing := build.Assembly.MissingCounts()
		for _, col := range build.Assembly.Columns {
			if n := missing[col]; n > 0 {
				fmt.Printf("  %-28s missing %d\n", col, n)
			}
		}
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run reconcile, build, split and export once",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := app.New(ctx, cfg, appLog, app.Options{SkipIngestion: !ingestFirst})
		if err != nil {
			return err
		}
		defer a.Close()

		var result *service.RunResult
		switch {
		case primaryFile != "" || secondaryFile != "":
			primary, secondary, err := readProviderFiles()
			if err != nil {
				return err
			}
			result, err = a.Pipeline.RunTables(ctx, primary, secondary)
			if err != nil {
				return err
			}
		default:
			if ingestFirst {
				if _, err := a.Ingestion.IngestAll(ctx, cfg.Pipeline.Seasons); err != nil {
					appLog.WithError(err).Warn("Ingestion finished with errors")
				}
			}
			result, err = a.Pipeline.Run(ctx)
			if err != nil {
				return err
			}
		}

		printRunSummary(result)
		return nil
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Refresh features on pipeline.refresh_schedule and serve health and metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Pipeline.RefreshSchedule == "" {
			return fmt.Errorf("pipeline.refresh_schedule is not set")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg, appLog, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		port := healthPort
		if port == 0 {
			port = cfg.Metrics.Port
		}
		hcfg := health.Config{
			ServiceName: "feature-builder",
			Version:     Version,
			Commit:      GitCommit,
			Port:        strconv.Itoa(port),
			Logger:      appLog,
			Checks:      a.HealthChecks(),
		}
		if cfg.Metrics.Enabled {
			hcfg.MetricsPath = cfg.Metrics.Path
			hcfg.MetricsHandler = metrics.Handler()
		}
		srv := health.NewServer(hcfg)
		if err := srv.Start(ctx); err != nil {
			return err
		}

		sched := a.Scheduler()
		if err := sched.ScheduleRefresh(cfg.Pipeline.RefreshSchedule); err != nil {
			return err
		}
		if runImmediately {
			sched.RunOnce(ctx)
		}
		if err := sched.Start(); err != nil {
			return err
		}
		srv.SetReady(true)
		appLog.WithField("next_run", sched.GetNextRun()).Info("Waiting for scheduled refresh")

		<-ctx.Done()
		appLog.Info("Shutdown signal received")
		srv.SetReady(false)
		return sched.Stop()
	},
}

// offlinePipeline builds a pipeline that touches no database
func offlinePipeline() (*service.PipelineService, error) {
	return service.NewPipelineService(cfg, service.PipelineOptions{},
		logger.NewPipelineLogger(appLog), logger.NewAuditLogger(appLog))
}

func readProviderFiles() (primary, secondary []models.MatchRecord, err error) {
	if primaryFile == "" || secondaryFile == "" {
		return nil, nil, fmt.Errorf("both --primary and --secondary are required")
	}
	if primary, err = tabular.ReadMatchesFile(primaryFile); err != nil {
		return nil, nil, err
	}
	if secondary, err = tabular.ReadMatchesFile(secondaryFile); err != nil {
		return nil, nil, err
	}
	return primary, secondary, nil
}

func printRunSummary(r *service.RunResult) {
	appLog.WithFields(logrus.Fields{
		"run_id":        r.RunID.String(),
		"rows":          len(r.Build.Assembly.Rows),
		"train_seasons": r.Split.TrainSeasons,
		"eval_season":   r.Split.EvalSeason,
		"folds":         len(r.Folds),
		"cache_hit":     r.Build.CacheHit,
	}).Info("Feature run finished")

	fmt.Printf("run %s\n", r.RunID)
	fmt.Printf("  train seasons %v: %d rows\n", r.Split.TrainSeasons, len(r.Split.Train))
	fmt.Printf("  eval season %d: %d rows\n", r.Split.EvalSeason, len(r.Split.Eval))
	fmt.Printf("  upcoming: %d rows\n", len(r.Upcoming))
	for _, f := range r.Manifest.Files {
		fmt.Printf("  wrote %s\n", f)
	}
}
