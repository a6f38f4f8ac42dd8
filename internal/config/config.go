// Package config provides configuration management for the football-ml pipeline.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Providers  []ProviderConfig `mapstructure:"providers" validate:"required,min=1,dive"`
	Features   FeaturesConfig   `mapstructure:"features" validate:"required"`
	Reconcile  ReconcileConfig  `mapstructure:"reconcile" validate:"required"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents the durable store. Postgres uses the connection
// fields, sqlite only needs Path.
type DatabaseConfig struct {
	Driver         string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	Host           string `mapstructure:"host" validate:"required_if=Driver postgres"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required_if=Driver postgres"`
	User           string `mapstructure:"user" validate:"required_if=Driver postgres"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	Path           string `mapstructure:"path" validate:"required_if=Driver sqlite"`
}

// ProviderConfig represents one upstream match data provider
type ProviderConfig struct {
	Name           string  `mapstructure:"name" validate:"required,provider"`
	Enabled        bool    `mapstructure:"enabled"`
	BaseURL        string  `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey         string  `mapstructure:"api_key"`
	Path           string  `mapstructure:"path"`
	Competition    string  `mapstructure:"competition"`
	LeagueID       int     `mapstructure:"league_id" validate:"gte=0"`
	FetchOdds      bool    `mapstructure:"fetch_odds"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"gte=0"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"gte=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
}

// Timeout returns the per-request timeout
func (p ProviderConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// FeaturesConfig holds the rating and form parameters
type FeaturesConfig struct {
	EloK          float64 `mapstructure:"elo_k" validate:"required,gt=0"`
	FormWindow    int     `mapstructure:"form_window" validate:"required,gt=0"`
	InitialRating float64 `mapstructure:"initial_rating" validate:"required,gt=0"`
}

// ReconcileConfig designates the asymmetric join sides
type ReconcileConfig struct {
	PrimaryProvider   string `mapstructure:"primary_provider" validate:"required,provider"`
	SecondaryProvider string `mapstructure:"secondary_provider" validate:"required,provider"`
	DuplicatePolicy   string `mapstructure:"duplicate_policy" validate:"required,oneof=first error"`
}

// PipelineConfig represents the feature build run
type PipelineConfig struct {
	Seasons         []int  `mapstructure:"seasons" validate:"required,min=1,dive,gt=1900"`
	OutputDir       string `mapstructure:"output_dir" validate:"required"`
	RefreshSchedule string `mapstructure:"refresh_schedule" validate:"omitempty,cron"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	MinTrainSeasons int    `mapstructure:"min_train_seasons" validate:"gte=0"`
	PersistFeatures bool   `mapstructure:"persist_features"`
	// TeamAliases extend the built-in team name map used during ingestion
	TeamAliases map[string]string `mapstructure:"team_aliases"`
	// CacheMaxSize bounds the number of cached feature tables
	CacheMaxSize int `mapstructure:"cache_max_size" validate:"gte=0"`
}

// CacheTTL returns the feature cache expiry
func (p PipelineConfig) CacheTTL() time.Duration {
	return time.Duration(p.CacheTTLSeconds) * time.Second
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// ClassifierConfig represents the downstream outcome classifier service
type ClassifierConfig struct {
	Enabled               bool   `mapstructure:"enabled"`
	HTTPAddress           string `mapstructure:"http_address" validate:"omitempty,url"`
	GRPCAddress           string `mapstructure:"grpc_address"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"gte=0"`
	RetryAttempts         int    `mapstructure:"retry_attempts" validate:"gte=0"`
}

// RequestTimeout returns the classifier request timeout
func (c ClassifierConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// SecretsConfig points at an AWS Secrets Manager secret overlaid after load
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region"`
	SecretName string `mapstructure:"secret_name"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Provider returns the configuration of the named provider
func (c *Config) Provider(name string) (*ProviderConfig, bool) {
	for i := range c.Providers {
		if c.Providers[i].Name == name {
			return &c.Providers[i], true
		}
	}
	return nil, false
}

// EnabledProviders returns the providers switched on for ingestion
func (c *Config) EnabledProviders() []ProviderConfig {
	var out []ProviderConfig
	for _, p := range c.Providers {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}
