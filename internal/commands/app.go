package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cleared-dev/ledgerscan/internal/analytics"
	"github.com/cleared-dev/ledgerscan/internal/classify"
	"github.com/cleared-dev/ledgerscan/internal/config"
	"github.com/cleared-dev/ledgerscan/internal/logging"
	"github.com/cleared-dev/ledgerscan/internal/metrics"
	"github.com/cleared-dev/ledgerscan/internal/pipeline"
	"github.com/cleared-dev/ledgerscan/internal/summary"
)

const configFileName = config.FileName

type globalFlags struct {
	configPath string
	logLevel   string
}

// app is the configured runtime shared by commands.
type app struct {
	cfg *config.Config
	log *logging.Logger
}

// pipelineFlags are per-command overrides of config values.
type pipelineFlags struct {
	bank        string
	format      string
	year        int
	strictDates bool
}

func (g *globalFlags) load() (*app, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.Load(g.configPath)
	} else {
		cfg, err = config.LoadOrDefault(configFileName)
	}
	if err != nil {
		return nil, err
	}

	logCfg := cfg.Logging
	if g.logLevel != "" {
		logCfg.Level = g.logLevel
	}
	log, err := logging.NewLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return &app{cfg: cfg, log: log}, nil
}

func (a *app) pipeline(f pipelineFlags, collector metrics.Collector) (*pipeline.Pipeline, error) {
	reg, err := a.cfg.TemplateRegistry()
	if err != nil {
		return nil, err
	}

	patterns := a.cfg.EffectivePatterns()
	classifier, err := classify.NewClassifier(patterns)
	if err != nil {
		return nil, err
	}
	nsf, err := analytics.NewNSFAnalyzer(patterns.NSF)
	if err != nil {
		return nil, err
	}

	year := a.cfg.Parser.Year
	if f.year != 0 {
		year = f.year
	}

	return pipeline.New(pipeline.Options{
		Templates:   reg,
		Classifier:  classifier,
		Assembler:   summary.NewAssembler(classifier.Categorizer(), nsf, a.cfg.Thresholds.LowBalance),
		Bank:        f.bank,
		Format:      f.format,
		Year:        year,
		StrictDates: f.strictDates || a.cfg.Parser.StrictDates,
		Logger:      a.log,
		Metrics:     collector,
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
