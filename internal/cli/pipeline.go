package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/surf-forecast/internal/config"
	"github.com/pfrederiksen/surf-forecast/internal/forecast"
	"github.com/pfrederiksen/surf-forecast/internal/locale"
	"github.com/pfrederiksen/surf-forecast/internal/logger"
	"github.com/pfrederiksen/surf-forecast/internal/metrics"
	"github.com/pfrederiksen/surf-forecast/internal/scraper"
	"github.com/pfrederiksen/surf-forecast/internal/storage"
)

const (
	stepScrape = "scrape"
	stepVerify = "verify"
)

// runScrape fetches the page, extracts and normalizes its rows and writes the
// output tables. Nothing is written if fetching or parsing fails.
func runScrape(ctx context.Context, cfg *config.Config, m *metrics.Metrics) error {
	start := clock.Now()
	defer func() { m.ObserveStep(stepScrape, clock.Since(start)) }()
	log := logger.With(logger.Fields{"step": stepScrape})

	months, err := loadLocale(cfg)
	if err != nil {
		return err
	}
	policy, err := forecast.ParseUnknownMonthPolicy(cfg.Locale.UnknownMonth)
	if err != nil {
		return err
	}

	doc, err := loadDocument(ctx, log, cfg, m)
	if err != nil {
		return err
	}

	extraction, err := forecast.Extract(doc, cfg.Source.Selectors)
	if err != nil {
		return fmt.Errorf("extracting forecast: %w", err)
	}
	m.ObserveExtraction(extraction)

	if extraction.LayoutMismatch() {
		log.Warn("No forecast data found. Check the URL.", logger.Fields{"source": source(cfg)})
	}
	log.Debug("Extracted forecast", logger.Fields{
		"rows":          len(extraction.Rows),
		"tabs":          extraction.Tabs,
		"skipped_tabs":  extraction.SkippedTabs,
		"skipped_lines": extraction.SkippedLines,
	})

	year := clock.Now().Year()
	rows := forecast.NewNormalizer(months, policy).Normalize(extraction.Rows, year)
	m.ObserveRows(rows)
	warnUnresolvedMonths(log, rows, policy)

	return saveRows(ctx, log, cfg, rows, m)
}

func loadLocale(cfg *config.Config) (*locale.Locale, error) {
	if cfg.Locale.File == "" {
		return locale.Default(), nil
	}
	l, err := locale.Load(cfg.Locale.File)
	if err != nil {
		return nil, fmt.Errorf("loading locale: %w", err)
	}
	return l, nil
}

func loadDocument(ctx context.Context, log *logger.Logger, cfg *config.Config, m *metrics.Metrics) (*goquery.Document, error) {
	start := clock.Now()
	defer func() { m.FetchDuration.Observe(clock.Since(start).Seconds()) }()

	if cfg.Source.IsLocalFile() {
		log.Info("Reading forecast page", logger.Fields{"file": cfg.Source.File})
		return scraper.LoadFile(cfg.Source.File)
	}

	log.Info("Fetching forecast page", logger.Fields{"url": cfg.Source.URL})
	s := scraper.New(cfg.Source.URL,
		scraper.WithUserAgent(cfg.Source.UserAgent),
		scraper.WithTimeout(cfg.Source.Timeout),
	)
	return s.FetchDocument(ctx)
}

func saveRows(ctx context.Context, log *logger.Logger, cfg *config.Config, rows []forecast.Row, m *metrics.Metrics) error {
	store, err := storage.New(cfg.Output.CSV)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	if err := store.SaveRows(rows); err != nil {
		return fmt.Errorf("saving csv: %w", err)
	}
	m.RowsWritten.WithLabelValues("csv").Add(float64(len(rows)))
	log.Info("Saved forecast table", logger.Fields{"file": store.Path(), "rows": len(rows)})

	if cfg.Output.SQLite == "" {
		return nil
	}

	sink, err := storage.NewSQLiteSink(cfg.Output.SQLite)
	if err != nil {
		return fmt.Errorf("initializing sqlite: %w", err)
	}
	if err := sink.SaveRows(ctx, rows); err != nil {
		return fmt.Errorf("saving sqlite: %w", err)
	}
	m.RowsWritten.WithLabelValues("sqlite").Add(float64(len(rows)))
	log.Info("Saved forecast database", logger.Fields{"file": sink.Path(), "rows": len(rows)})

	return nil
}

func warnUnresolvedMonths(log *logger.Logger, rows []forecast.Row, policy forecast.UnknownMonthPolicy) {
	seen := make(map[string]bool)
	for _, r := range rows {
		if r.MonthStatus != forecast.MonthUnknown || seen[r.Date] {
			continue
		}
		seen[r.Date] = true
		log.Warn("Month name not in locale table", logger.Fields{
			"date":   r.Date,
			"policy": policy.String(),
		})
	}
}

// runVerify reads the output table back and writes its shape and a preview to w
func runVerify(w io.Writer, cfg *config.Config, format OutputFormat, m *metrics.Metrics) error {
	start := clock.Now()
	defer func() { m.ObserveStep(stepVerify, clock.Since(start)) }()
	log := logger.With(logger.Fields{"step": stepVerify})

	store, err := storage.Open(cfg.Output.CSV)
	if err != nil {
		return err
	}

	table, err := store.LoadTable()
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Error("File not found", logger.Fields{"file": store.Path()}, err)
		}
		return fmt.Errorf("loading table: %w", err)
	}

	rows, cols := table.Shape()
	log.Info("Dataset successfully loaded", logger.Fields{
		"file":    store.Path(),
		"rows":    rows,
		"columns": cols,
	})

	result := &VerifyResult{
		CheckedAt: clock.Now().UTC(),
		File:      store.Path(),
		Rows:      rows,
		Columns:   cols,
		Header:    table.Header,
		Preview:   table.Head(cfg.Verify.PreviewRows),
	}

	if err := WriteOutput(w, result, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
