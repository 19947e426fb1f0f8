// Package config loads the surf-forecast settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/surf-forecast/internal/forecast"
	"github.com/pfrederiksen/surf-forecast/internal/logger"
	"github.com/pfrederiksen/surf-forecast/internal/scraper"
)

// Configuration validation errors.
var (
	ErrMissingURL          = errors.New("source.url or source.file is required")
	ErrInvalidTimeout      = errors.New("source.timeout must be positive")
	ErrMissingOutput       = errors.New("output.csv is required")
	ErrInvalidUnknownMonth = errors.New("locale.unknown_month must be 'january' or 'null'")
	ErrInvalidPreviewRows  = errors.New("verify.preview_rows must be non-negative")
	ErrInvalidLogLevel     = errors.New("logging.level must be one of: debug, info, warn, error")
)

const DefaultOutputPath = "data/surf_forecast.csv"

// Config represents the complete pipeline configuration.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Output  OutputConfig  `yaml:"output"`
	Locale  LocaleConfig  `yaml:"locale"`
	Verify  VerifyConfig  `yaml:"verify"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// SourceConfig describes where the forecast page comes from.
type SourceConfig struct {
	URL       string             `yaml:"url"`
	File      string             `yaml:"file"`
	UserAgent string             `yaml:"user_agent"`
	Timeout   time.Duration      `yaml:"timeout"`
	Selectors forecast.Selectors `yaml:"selectors"`
}

// IsLocalFile returns true if the page is read from disk instead of fetched.
func (s *SourceConfig) IsLocalFile() bool {
	return s.File != ""
}

// OutputConfig lists the table sinks.
type OutputConfig struct {
	CSV    string `yaml:"csv"`
	SQLite string `yaml:"sqlite"`
}

// LocaleConfig selects the month-name table.
type LocaleConfig struct {
	File         string `yaml:"file"`
	UnknownMonth string `yaml:"unknown_month"`
}

// VerifyConfig controls the verification step.
type VerifyConfig struct {
	PreviewRows int `yaml:"preview_rows"`
}

// MetricsConfig controls the Prometheus textfile output.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			URL:       scraper.DefaultURL,
			UserAgent: scraper.DefaultUserAgent,
			Timeout:   scraper.DefaultTimeout,
			Selectors: forecast.DefaultSelectors(),
		},
		Output: OutputConfig{
			CSV: DefaultOutputPath,
		},
		Locale: LocaleConfig{
			UnknownMonth: "january",
		},
		Verify: VerifyConfig{
			PreviewRows: 3,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path over the defaults. Keys missing from the file,
// including individual selectors, keep their default values. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Source.URL == "" && c.Source.File == "" {
		return ErrMissingURL
	}
	if c.Source.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Output.CSV == "" {
		return ErrMissingOutput
	}
	if _, err := forecast.ParseUnknownMonthPolicy(c.Locale.UnknownMonth); err != nil {
		return ErrInvalidUnknownMonth
	}
	if c.Verify.PreviewRows < 0 {
		return ErrInvalidPreviewRows
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return ErrInvalidLogLevel
	}
	return nil
}
