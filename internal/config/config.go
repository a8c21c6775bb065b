// Package config loads the pal configuration from a yaml file, filling in
// defaults for anything the file leaves unset.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/runger/pal/internal/result"
)

// Config is the full pal configuration.
type Config struct {
	Search  SearchConfig  `yaml:"search"`
	Scoring ScoringConfig `yaml:"scoring"`
	Stats   StatsConfig   `yaml:"stats"`
	Index   IndexConfig   `yaml:"index"`
	Intent  IntentConfig  `yaml:"intent"`
	Log     LogConfig     `yaml:"log"`
}

// SearchConfig holds orchestrator timing and sizing settings.
type SearchConfig struct {
	SlowDebounceMs   int `yaml:"slow_debounce_ms"`   // Delay before the slow phase runs
	IntentDebounceMs int `yaml:"intent_debounce_ms"` // Delay before the intent phase runs
	MaxResults       int `yaml:"max_results"`        // Published result list cap
	WorkerPoolSize   int `yaml:"worker_pool_size"`   // Slow/intent phase worker pool size
}

// ScoringConfig holds ranking settings.
type ScoringConfig struct {
	CategoryWeights map[string]float64 `yaml:"category_weights"` // Per-category multipliers (1.0 = neutral)
}

// StatsConfig holds usage-statistics settings.
type StatsConfig struct {
	DBPath       string `yaml:"db_path"`        // Stats database path (empty = default)
	HalfLifeDays int    `yaml:"half_life_days"` // Usage recency decay half-life
}

// IndexConfig holds file-index settings.
type IndexConfig struct {
	DBPath string   `yaml:"db_path"` // Index database path (empty = default)
	Roots  []string `yaml:"roots"`   // Directory trees to index (empty = $HOME)
}

// IntentConfig holds intent interpreter settings.
type IntentConfig struct {
	Enabled bool   `yaml:"enabled"` // Must opt-in to the external interpreter
	Binary  string `yaml:"binary"`  // Interpreter CLI binary (empty = claude)
	Model   string `yaml:"model"`   // Interpreter model override
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log file path (empty = stderr)
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			SlowDebounceMs:   100,
			IntentDebounceMs: 200,
			MaxResults:       40,
			WorkerPoolSize:   8,
		},
		Scoring: ScoringConfig{
			CategoryWeights: map[string]float64{},
		},
		Stats: StatsConfig{
			DBPath:       "",
			HalfLifeDays: 30,
		},
		Index: IndexConfig{
			DBPath: "",
			Roots:  nil,
		},
		Intent: IntentConfig{
			Enabled: false, // external interpreter is opt-in
			Binary:  "claude",
			Model:   "",
		},
		Log: LogConfig{
			Level: "info",
			File:  "",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "pal", "config.yaml"), nil
}

// Load reads the config from the default location. A missing file is not
// an error; defaults are returned.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFromFile(path)
}

// LoadFromFile reads the config from path on top of the defaults, so a
// partial file only overrides what it names.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.backfill()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// backfill restores defaults for fields an explicit config zeroed out but
// that have no meaningful zero value.
func (c *Config) backfill() {
	d := DefaultConfig()
	if c.Search.SlowDebounceMs <= 0 {
		c.Search.SlowDebounceMs = d.Search.SlowDebounceMs
	}
	if c.Search.IntentDebounceMs <= 0 {
		c.Search.IntentDebounceMs = d.Search.IntentDebounceMs
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = d.Search.MaxResults
	}
	if c.Search.WorkerPoolSize <= 0 {
		c.Search.WorkerPoolSize = d.Search.WorkerPoolSize
	}
	if c.Stats.HalfLifeDays <= 0 {
		c.Stats.HalfLifeDays = d.Stats.HalfLifeDays
	}
	if c.Intent.Binary == "" {
		c.Intent.Binary = d.Intent.Binary
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// Validate rejects configurations that cannot work.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	for name, weight := range c.Scoring.CategoryWeights {
		if result.CategoryFromString(name) == result.CategoryUnknown {
			return fmt.Errorf("unknown category %q in category_weights", name)
		}
		if weight < 0 {
			return fmt.Errorf("negative weight %v for category %q", weight, name)
		}
	}
	return nil
}

// CategoryWeights converts the configured weight names into category keys
// for the scoring engine.
func (c *Config) CategoryWeights() map[result.Category]float64 {
	if len(c.Scoring.CategoryWeights) == 0 {
		return nil
	}
	out := make(map[result.Category]float64, len(c.Scoring.CategoryWeights))
	for name, weight := range c.Scoring.CategoryWeights {
		out[result.CategoryFromString(name)] = weight
	}
	return out
}
