package tabular

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the manifest name inside an output directory
const ManifestFile = "manifest.yaml"

// Manifest describes one pipeline run's outputs so a classifier can load them
type Manifest struct {
	RunID             string         `yaml:"run_id"`
	CreatedAt         time.Time      `yaml:"created_at"`
	Fingerprint       string         `yaml:"fingerprint"`
	PrimaryProvider   string         `yaml:"primary_provider"`
	SecondaryProvider string         `yaml:"secondary_provider"`
	EloK              float64        `yaml:"elo_k"`
	FormWindow        int            `yaml:"form_window"`
	InitialRating     float64        `yaml:"initial_rating"`
	Seasons           []int          `yaml:"seasons"`
	TrainSeasons      []int          `yaml:"train_seasons"`
	EvalSeason        int            `yaml:"eval_season"`
	FeatureColumns    []string       `yaml:"feature_columns"`
	LabelColumn       string         `yaml:"label_column"`
	Rows              map[string]int `yaml:"rows"`
	Files             []string       `yaml:"files"`
	Folds             []ManifestFold `yaml:"folds,omitempty"`
}

// ManifestFold summarizes one walk-forward fold
type ManifestFold struct {
	FoldID       int   `yaml:"fold_id"`
	TrainSeasons []int `yaml:"train_seasons"`
	EvalSeason   int   `yaml:"eval_season"`
	TrainRows    int   `yaml:"train_rows"`
	EvalRows     int   `yaml:"eval_rows"`
}

// WriteManifest writes m as YAML
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadManifest reads a manifest written by WriteManifest
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, err)
	}
	return &m, nil
}
