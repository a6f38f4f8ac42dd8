package config

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validConfigPath       = "testdata/valid_config.yaml"
	minimalConfigPath     = "testdata/minimal_config.yaml"
	expansionConfigPath   = "testdata/expansion_config.yaml"
	nonexistentConfigPath = "testdata/nonexistent_config.yaml"
)

func loadValid(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	return cfg
}

func TestLoadConfigSuccess(t *testing.T) {
	cfg := loadValid(t)

	assert.Equal(t, "football-ml", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	require.Len(t, cfg.Providers, 2)
	assert.Equal(t, "PL", cfg.Providers[0].Competition)
	assert.Equal(t, 39, cfg.Providers[1].LeagueID)
	assert.True(t, cfg.Providers[1].FetchOdds)
	assert.Equal(t, []int{2021, 2022, 2023}, cfg.Pipeline.Seasons)
	assert.Equal(t, 20.0, cfg.Features.EloK)
	assert.Equal(t, 5, cfg.Features.FormWindow)
	assert.Equal(t, 4, cfg.Pipeline.CacheMaxSize)
	// viper lowercases map keys
	assert.Equal(t, "Tottenham Hotspur", cfg.Pipeline.TeamAliases["spurs"])
}

func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	assert.Error(t, err)
}

func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "first", cfg.Reconcile.DuplicatePolicy)
	assert.Equal(t, 1500.0, cfg.Features.InitialRating)
	assert.Equal(t, 8, cfg.Pipeline.CacheMaxSize)
}

func TestLoadAppliesFeatureDefaults(t *testing.T) {
	cfg, err := Load(minimalConfigPath)
	require.NoError(t, err)

	assert.Equal(t, 20.0, cfg.Features.EloK)
	assert.Equal(t, 5, cfg.Features.FormWindow)
	assert.Equal(t, "football-data.org", cfg.Reconcile.PrimaryProvider)
	assert.Equal(t, "api-football", cfg.Reconcile.SecondaryProvider)
	assert.Equal(t, "data/processed", cfg.Pipeline.OutputDir)
	require.NoError(t, Validate(cfg))
}

func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("FOOTBALL_ML_APP_NAME", "test-app")
	t.Setenv("FOOTBALL_ML_FEATURES_FORM_WINDOW", "3")

	cfg := loadValid(t)
	assert.Equal(t, "test-app", cfg.App.Name)
	assert.Equal(t, 3, cfg.Features.FormWindow)
}

func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "expanded_secret_value")
	t.Setenv("TEST_FOOTBALL_DATA_KEY", "expanded_key")

	cfg, err := Load(expansionConfigPath)
	require.NoError(t, err)
	assert.Equal(t, "expanded_secret_value", cfg.Database.Password)
	assert.Equal(t, "expanded_key", cfg.Providers[0].APIKey)
}

func TestReloadFromEnv(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ReloadFromEnv(cfg))
	assert.Empty(t, cfg.App.Name)

	t.Setenv("FOOTBALL_ML_CONFIG_PATH", validConfigPath)
	require.NoError(t, ReloadFromEnv(cfg))
	assert.Equal(t, "football-ml", cfg.App.Name)
}

func TestValidateSuccess(t *testing.T) {
	assert.NoError(t, Validate(loadValid(t)))
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"invalid environment", func(c *Config) { c.App.Environment = "invalid" }, "Environment"},
		{"invalid log level", func(c *Config) { c.App.LogLevel = "verbose" }, "LogLevel"},
		{"non-positive k", func(c *Config) { c.Features.EloK = -1 }, "EloK"},
		{"zero window", func(c *Config) { c.Features.FormWindow = 0 }, "FormWindow"},
		{"unknown provider", func(c *Config) { c.Providers[0].Name = "betfair" }, "Providers[0].Name"},
		{"bad duplicate policy", func(c *Config) { c.Reconcile.DuplicatePolicy = "last" }, "DuplicatePolicy"},
		{"bad cron", func(c *Config) { c.Pipeline.RefreshSchedule = "every day" }, "cron"},
		{"negative cache size", func(c *Config) { c.Pipeline.CacheMaxSize = -1 }, "CacheMaxSize"},
		{"no seasons", func(c *Config) { c.Pipeline.Seasons = nil }, "Seasons"},
		{"postgres without host", func(c *Config) { c.Database.Host = "" }, "Host"},
		{"same providers", func(c *Config) { c.Reconcile.SecondaryProvider = c.Reconcile.PrimaryProvider }, "must differ"},
		{"secondary not configured", func(c *Config) { c.Providers = c.Providers[:1] }, "not listed"},
		{"duplicate provider", func(c *Config) {
			c.Providers = append(c.Providers, c.Providers[0])
		}, "more than once"},
		{"csv without path", func(c *Config) {
			c.Providers = append(c.Providers, ProviderConfig{Name: "csv", Enabled: true})
		}, "requires a path"},
		{"production without ssl", func(c *Config) { c.App.Environment = "production" }, "SSL"},
		{"classifier without address", func(c *Config) {
			c.Classifier.Enabled = true
			c.Classifier.HTTPAddress = ""
		}, "http_address"},
		{"secrets without name", func(c *Config) {
			c.Secrets.Enabled = true
			c.Secrets.Region = "eu-west-1"
		}, "secret_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadValid(t)
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateSQLiteNeedsPathOnly(t *testing.T) {
	cfg := loadValid(t)
	cfg.Database = DatabaseConfig{Driver: "sqlite", Path: "/tmp/football.db"}
	assert.NoError(t, Validate(cfg))

	cfg.Database.Path = ""
	assert.Error(t, Validate(cfg))
}

func TestValidateEnvironment(t *testing.T) {
	cfg := loadValid(t)
	cfg.App.Environment = "production"
	cfg.Providers[0].APIKey = "YOUR_API_KEY"
	assert.Error(t, ValidateEnvironment(cfg))

	cfg.Providers[0].APIKey = "4f1c2d"
	assert.NoError(t, ValidateEnvironment(cfg))
}

func TestGetDatabaseDSN(t *testing.T) {
	dsn := loadValid(t).GetDatabaseDSN()
	assert.True(t, strings.HasPrefix(dsn, "postgres://"))
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestEnvironmentChecks(t *testing.T) {
	for _, env := range []string{"development", "staging", "production"} {
		cfg := &Config{App: AppConfig{Environment: env}}
		assert.Equal(t, env == "development", cfg.IsDevelopment())
		assert.Equal(t, env == "staging", cfg.IsStaging())
		assert.Equal(t, env == "production", cfg.IsProduction())
	}
}

func TestProviderLookup(t *testing.T) {
	cfg := loadValid(t)
	p, ok := cfg.Provider("api-football")
	require.True(t, ok)
	assert.Equal(t, 39, p.LeagueID)

	_, ok = cfg.Provider("csv")
	assert.False(t, ok)

	cfg.Providers[1].Enabled = false
	enabled := cfg.EnabledProviders()
	require.Len(t, enabled, 1)
	assert.Equal(t, "football-data.org", enabled[0].Name)
}

func TestParseSecretData(t *testing.T) {
	secrets, err := parseSecretData(&secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"database_password":"pw","api_football_api_key":"af"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "pw", secrets.DatabasePassword)
	assert.Equal(t, "af", secrets.APIFootballAPIKey)

	_, err = parseSecretData(&secretsmanager.GetSecretValueOutput{SecretBinary: []byte("not json")})
	assert.Error(t, err)

	_, err = parseSecretData(&secretsmanager.GetSecretValueOutput{})
	assert.ErrorIs(t, err, errNoSecretDataFound)
}

func TestOverlaySecretsOnConfig(t *testing.T) {
	cfg := loadValid(t)
	overlaySecretsOnConfig(cfg, &SecretsOverlay{
		DatabasePassword:   "from-aws",
		FootballDataAPIKey: "fd-from-aws",
	})

	assert.Equal(t, "from-aws", cfg.Database.Password)
	assert.Equal(t, "fd-from-aws", cfg.Providers[0].APIKey)
	assert.Equal(t, "af-key", cfg.Providers[1].APIKey)
}

func TestApplySecretsDisabled(t *testing.T) {
	cfg := loadValid(t)
	require.NoError(t, ApplySecrets(context.Background(), cfg))
	assert.Equal(t, "postgres", cfg.Database.Password)
}

func TestMain(m *testing.M) {
	os.Unsetenv("FOOTBALL_ML_CONFIG_PATH")
	os.Exit(m.Run())
}
