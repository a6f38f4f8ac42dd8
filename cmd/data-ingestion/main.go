// Package main provides the entry point for the data ingestion service.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/yourusername/football-ml/internal/app"
	"github.com/yourusername/football-ml/internal/config"
	"github.com/yourusername/football-ml/internal/logger"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.ApplySecrets(ctx, cfg); err != nil {
		log.Fatalf("Failed to load secrets: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithField("environment", cfg.App.Environment).Info("Football ML data ingestion starting")

	a, err := app.New(ctx, cfg, appLog, app.Options{})
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize")
	}
	defer a.Close()

	results, err := a.Ingestion.IngestAll(ctx, cfg.Pipeline.Seasons)
	for _, m := range results {
		appLog.Info(m.String())
	}
	if err != nil {
		appLog.WithError(err).Error("Ingestion finished with errors")
		a.Close()
		os.Exit(1)
	}
	appLog.Info("Ingestion completed")
}
