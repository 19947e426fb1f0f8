package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/surf-forecast/internal/config"
	"github.com/pfrederiksen/surf-forecast/internal/logger"
	"github.com/pfrederiksen/surf-forecast/internal/metrics"
	"github.com/pfrederiksen/surf-forecast/internal/scraper"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig      string
	flagURL         string
	flagInput       string
	flagOutput      string
	flagSQLite      string
	flagLocaleFile  string
	flagStrictMonth bool
	flagMetricsFile string
	flagPreviewRows int
	flagFormat      string
	flagLogLevel    string
	flagVerbose     bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "surf-forecast",
		Short: "Scrape a surf forecast page into a CSV table",
		Long: `A CLI tool that downloads the surf-report.com forecast for one spot,
extracts the hourly forecast table, derives timestamps and wave heights,
and writes the result as CSV (and optionally SQLite).

Running without a subcommand scrapes then verifies the output file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runPipeline,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	flags.StringVar(&flagURL, "url", "", "Forecast page URL (default "+scraper.DefaultURL+")")
	flags.StringVar(&flagInput, "input", "", "Read the forecast page from a local HTML file instead of fetching it")
	flags.StringVar(&flagOutput, "output", config.DefaultOutputPath, "CSV output file")
	flags.StringVar(&flagSQLite, "sqlite", "", "Also write rows to this SQLite database")
	flags.StringVar(&flagLocaleFile, "locale-file", "", "YAML month-name table (default: builtin French)")
	flags.BoolVar(&flagStrictMonth, "strict-month", false, "Leave the timestamp empty when a month name is unknown instead of assuming January")
	flags.StringVar(&flagMetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	flags.IntVar(&flagPreviewRows, "preview-rows", 3, "Number of rows to preview when verifying")
	flags.StringVar(&flagFormat, "format", "text", "Verification output format: text or json")
	flags.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	flags.BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging (same as --log-level debug)")

	cmd.AddCommand(newScrapeCmd(), newVerifyCmd())

	return cmd
}

func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Fetch the forecast page and write the table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}

			m := metrics.New()
			defer writeMetrics(cfg, m)

			if err := runScrape(cmd.Context(), cfg, m); err != nil {
				return err
			}
			m.MarkSuccess(clock.Now())
			return nil
		},
	}
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the output table exists and preview it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}

			format, err := parseFormat(flagFormat)
			if err != nil {
				return err
			}

			m := metrics.New()
			defer writeMetrics(cfg, m)

			if err := runVerify(cmd.OutOrStdout(), cfg, format, m); err != nil {
				return err
			}
			m.MarkSuccess(clock.Now())
			return nil
		},
	}
}

// runPipeline scrapes then verifies, stopping at the first failing step
func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}

	m := metrics.New()
	defer writeMetrics(cfg, m)

	logger.Info("Starting surf forecast pipeline", logger.Fields{"source": source(cfg)})

	logger.Info("Step 1/2: Scraping data", nil)
	if err := runScrape(cmd.Context(), cfg, m); err != nil {
		logger.Error("Scraping failed", nil, err)
		return err
	}
	logger.Info("Completed successfully", logger.Fields{"step": stepScrape})

	logger.Info("Step 2/2: Verifying dataset", nil)
	if err := runVerify(cmd.OutOrStdout(), cfg, format, m); err != nil {
		logger.Error("Verification failed", nil, err)
		return err
	}
	logger.Info("Completed successfully", logger.Fields{"step": stepVerify})

	m.MarkSuccess(clock.Now())
	logger.Info("Pipeline finished", logger.Fields{"output": cfg.Output.CSV})
	return nil
}

// setup resolves configuration and installs the logger
func setup(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	level, err := logger.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	log := logger.New(level, cmd.ErrOrStderr())
	log.SetClock(clock.Now)
	logger.SetDefault(log)

	logger.Debug("Configuration loaded", logger.Fields{
		"config":        flagConfig,
		"source":        source(cfg),
		"output":        cfg.Output.CSV,
		"sqlite":        cfg.Output.SQLite,
		"unknown_month": cfg.Locale.UnknownMonth,
	})

	return cfg, nil
}

// loadConfig reads the config file and applies flags that were set explicitly
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.Source.URL = flagURL
		cfg.Source.File = ""
	}
	if flags.Changed("input") {
		cfg.Source.File = flagInput
	}
	if flags.Changed("output") {
		cfg.Output.CSV = flagOutput
	}
	if flags.Changed("sqlite") {
		cfg.Output.SQLite = flagSQLite
	}
	if flags.Changed("locale-file") {
		cfg.Locale.File = flagLocaleFile
	}
	if flagStrictMonth {
		cfg.Locale.UnknownMonth = "null"
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.Textfile = flagMetricsFile
	}
	if flags.Changed("preview-rows") {
		cfg.Verify.PreviewRows = flagPreviewRows
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = strings.ToLower(flagLogLevel)
	}
	if flagVerbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// writeMetrics writes the metrics textfile if one is configured. Failures are
// logged rather than returned so they never mask the run's own result.
func writeMetrics(cfg *config.Config, m *metrics.Metrics) {
	if cfg.Metrics.Textfile == "" {
		return
	}
	if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		logger.Error("Writing metrics failed", logger.Fields{"file": cfg.Metrics.Textfile}, err)
	}
}

func source(cfg *config.Config) string {
	if cfg.Source.IsLocalFile() {
		return cfg.Source.File
	}
	return cfg.Source.URL
}

// Execute runs the CLI and returns the process exit code
func Execute(ctx context.Context) int {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}
