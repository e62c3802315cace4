package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerscan/internal/classify"
	"github.com/cleared-dev/ledgerscan/internal/templates"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Thresholds.LowBalance = decimal.RequireFromString("2500.50")
	cfg.Patterns.MCA = []string{"ACME CAPITAL"}
	cfg.Parser.Year = 2024
	cfg.Batch.Timeout = 90 * time.Second

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Thresholds.LowBalance.Equal(got.Thresholds.LowBalance))
	assert.Equal(t, []string{"ACME CAPITAL"}, got.Patterns.MCA)
	assert.Equal(t, cfg.Patterns.Revenue, got.Patterns.Revenue)
	assert.Equal(t, 2024, got.Parser.Year)
	assert.Equal(t, 90*time.Second, got.Batch.Timeout)
	assert.Equal(t, cfg.Batch.Workers, got.Batch.Workers)
	assert.Equal(t, cfg.Logging, got.Logging)
	assert.Equal(t, "logs", got.Audit.Dir)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "1000", cfg.Thresholds.LowBalance.String())
	assert.Equal(t, classify.DefaultPatterns(), cfg.Patterns)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, time.Minute, cfg.Batch.Timeout)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "ledgerscan", cfg.Metrics.Namespace)
	assert.Empty(t, cfg.Templates.Path)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("thresholds:\n  low_balance: 500\npatterns:\n  nsf: [\"BOUNCED\"]\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "500", cfg.Thresholds.LowBalance.String())
	assert.Equal(t, []string{"BOUNCED"}, cfg.Patterns.NSF)
	assert.Equal(t, classify.DefaultPatterns().MCA, cfg.Patterns.MCA)
	assert.Equal(t, 4, cfg.Batch.Workers)
}

func TestLoad_ZeroThresholdKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("thresholds:\n  low_balance: 0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Thresholds.LowBalance.IsZero())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad pattern", "patterns:\n  mca: [\"(unclosed\"]\n", "compiling mca pattern"},
		{"negative threshold", "thresholds:\n  low_balance: -1\n", "low_balance"},
		{"negative workers", "batch:\n  workers: -2\n", "batch.workers"},
		{"bad duration", "batch:\n  timeout: soon\n", "parsing config"},
		{"not yaml", "thresholds: [", "parsing config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestEffectivePatterns(t *testing.T) {
	cfg := Default()
	cfg.Patterns = classify.Patterns{P2P: []string{"PAYPAL"}}

	p := cfg.EffectivePatterns()
	assert.Equal(t, []string{"PAYPAL"}, p.P2P)
	assert.Equal(t, classify.DefaultPatterns().MCA, p.MCA)
}

func TestTemplateRegistry(t *testing.T) {
	cfg := Default()
	r, err := cfg.TemplateRegistry()
	require.NoError(t, err)
	assert.Equal(t, templates.DefaultRegistry().Names(), r.Names())

	cfg.Templates.Path = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = cfg.TemplateRegistry()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "low_balance:")
	assert.Contains(t, contents, "timeout: 1m0s")
	assert.Contains(t, contents, "non_revenue:")
	assert.Contains(t, contents, "level: warn")
}
