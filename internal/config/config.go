package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/ledgerscan/internal/analytics"
	"github.com/cleared-dev/ledgerscan/internal/classify"
	"github.com/cleared-dev/ledgerscan/internal/logging"
	"github.com/cleared-dev/ledgerscan/internal/templates"
)

// FileName is the default configuration file name.
const FileName = "ledgerscan.yaml"

// Config represents the top-level ledgerscan.yaml configuration.
type Config struct {
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Patterns   classify.Patterns `yaml:"patterns"`
	Templates  TemplatesConfig  `yaml:"templates"`
	Parser     ParserConfig     `yaml:"parser"`
	Batch      BatchConfig      `yaml:"batch"`
	Logging    logging.Config   `yaml:"logging"`
	Audit      AuditConfig      `yaml:"audit"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// ThresholdsConfig holds analytic thresholds.
type ThresholdsConfig struct {
	LowBalance decimal.Decimal `yaml:"low_balance"`
}

// TemplatesConfig points at an optional template catalog. Empty uses the
// built-in templates.
type TemplatesConfig struct {
	Path string `yaml:"path,omitempty"`
}

// ParserConfig controls date handling.
type ParserConfig struct {
	Year        int  `yaml:"year,omitempty"` // fills year-less dates; 0 uses the current year
	StrictDates bool `yaml:"strict_dates"`
}

// BatchConfig bounds batch runs.
type BatchConfig struct {
	Workers int           `yaml:"workers"`
	Timeout time.Duration `yaml:"timeout"`
}

// AuditConfig controls the batch audit log.
type AuditConfig struct {
	Dir string `yaml:"dir"`
}

// MetricsConfig controls the Prometheus textfile output.
type MetricsConfig struct {
	Namespace string `yaml:"namespace"`
}

// Load reads a ledgerscan.yaml file from disk. Sections missing from the
// file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault reads path, returning the defaults when it does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the built-in patterns and limits.
func Default() *Config {
	return &Config{
		Thresholds: ThresholdsConfig{
			LowBalance: analytics.DefaultLowBalanceThreshold,
		},
		Patterns: classify.DefaultPatterns(),
		Batch: BatchConfig{
			Workers: 4,
			Timeout: 60 * time.Second,
		},
		Logging: logging.DefaultConfig(),
		Audit: AuditConfig{
			Dir: "logs",
		},
		Metrics: MetricsConfig{
			Namespace: "ledgerscan",
		},
	}
}

// Validate checks thresholds, limits and that every pattern compiles.
func (c *Config) Validate() error {
	if c.Thresholds.LowBalance.IsNegative() {
		return fmt.Errorf("thresholds.low_balance must not be negative, got %s", c.Thresholds.LowBalance)
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must not be negative, got %d", c.Batch.Workers)
	}
	if c.Batch.Timeout < 0 {
		return fmt.Errorf("batch.timeout must not be negative, got %s", c.Batch.Timeout)
	}
	return c.EffectivePatterns().Validate()
}

// EffectivePatterns returns the built-in patterns with every non-empty
// configured table replacing its default.
func (c *Config) EffectivePatterns() classify.Patterns {
	return classify.DefaultPatterns().Merge(c.Patterns)
}

// TemplateRegistry loads the configured template catalog.
func (c *Config) TemplateRegistry() (*templates.Registry, error) {
	return templates.LoadRegistry(c.Templates.Path)
}
