package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/kelseyhightower/envconfig"

	"github.com/martinozimek/india-etf/service/export"
	sm "github.com/martinozimek/india-etf/service/models"
)

// Config holds everything a report run reads from the environment
type Config struct {
	EtfDir       string `envconfig:"ETF_DIR" default:"data"`
	GdpPath      string `envconfig:"GDP_PATH" default:"data/processed_gdp_quarterly.csv"`
	OutputDir    string `envconfig:"OUTPUT_DIR" default:"reports"`
	ExportFormat string `envconfig:"EXPORT_FORMAT" default:"csv"`
	EtfList      string `envconfig:"ETF_LIST"` // optional yaml list, discovery over EtfDir otherwise

	RollingWindow int `envconfig:"ROLLING_WINDOW" default:"8"`
	MinOverlap    int `envconfig:"MIN_OVERLAP" default:"8"`
	EtfSkipRows   int `envconfig:"ETF_SKIP_ROWS" default:"1"`

	Permutations int    `envconfig:"PERMUTATIONS" default:"1000"` // 0 turns the permutation test off
	Seed         uint64 `envconfig:"SEED" default:"0"`

	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	RenderCharts bool   `envconfig:"RENDER_CHARTS" default:"true"`
}

// Load fills a Config from the environment, unset variables take their defaults
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	return &cfg, nil
}

// Validate rejects settings no run could succeed with
func (c *Config) Validate() error {
	var errs []error

	if c.RollingWindow < 2 {
		errs = append(errs, fmt.Errorf("rolling window must be at least 2, got %d", c.RollingWindow))
	}
	if c.MinOverlap < 0 {
		errs = append(errs, fmt.Errorf("min overlap cannot be negative, got %d", c.MinOverlap))
	}
	if c.EtfSkipRows < 0 {
		errs = append(errs, fmt.Errorf("etf skip rows cannot be negative, got %d", c.EtfSkipRows))
	}
	if c.Permutations < 0 {
		errs = append(errs, fmt.Errorf("permutations cannot be negative, got %d", c.Permutations))
	}
	if !slices.Contains(export.Formats, c.ExportFormat) {
		errs = append(errs, fmt.Errorf("unknown export format %q, expected one of %v", c.ExportFormat, export.Formats))
	}
	if c.GdpPath == "" {
		errs = append(errs, errors.New("gdp path is required"))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("output dir is required"))
	}

	return errors.Join(errs...)
}

// Settings are the analysis knobs handed to the report controller
func (c *Config) Settings() sm.AnalysisSettings {
	return sm.AnalysisSettings{
		RollingWindow: c.RollingWindow,
		MinOverlap:    c.MinOverlap,
		EtfSkipRows:   c.EtfSkipRows,
		Permutations:  c.Permutations,
		Seed:          c.Seed,
	}
}

// Sources lists the etfs to analyze, from EtfList when set and from the files in EtfDir otherwise
func (c *Config) Sources() ([]sm.EtfSource, error) {
	if c.EtfList != "" {
		return LoadEtfList(c.EtfList, c.EtfDir)
	}
	return DiscoverEtfs(c.EtfDir)
}
