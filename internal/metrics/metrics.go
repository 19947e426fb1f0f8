// Package metrics records what a single pipeline run extracted and how long it took.
//
// The pipeline is a one-shot job, so nothing is served over HTTP. Instead the
// run's registry can be written to a file in the Prometheus text format, ready
// for node_exporter's textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pfrederiksen/surf-forecast/internal/forecast"
)

const namespace = "surf_forecast"

// Metrics holds the Prometheus collectors for one run
type Metrics struct {
	registry *prometheus.Registry

	TabsFound         prometheus.Counter
	TabsSkipped       prometheus.Counter
	LinesSkipped      prometheus.Counter
	RowsExtracted     prometheus.Counter
	RowsWritten       *prometheus.CounterVec // labels: sink={csv,sqlite}
	NullTimestamps    prometheus.Counter
	UnresolvedMonths  prometheus.Counter
	PartialWaveHeight prometheus.Counter
	LayoutMismatch    prometheus.Gauge
	LastSuccess       prometheus.Gauge

	FetchDuration prometheus.Histogram
	StepDuration  *prometheus.HistogramVec // labels: step={scrape,verify}
}

// New creates the collectors and registers them with a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		TabsFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tabs_found_total",
			Help:      "Forecast day containers found on the page.",
		}),
		TabsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tabs_skipped_total",
			Help:      "Forecast day containers skipped because they had no title.",
		}),
		LinesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_skipped_total",
			Help:      "Lines skipped because they had no time or were column headers.",
		}),
		RowsExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_extracted_total",
			Help:      "Hourly forecast rows extracted from the page.",
		}),
		RowsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_written_total",
			Help:      "Rows written by output sink.",
		}, []string{"sink"}),
		NullTimestamps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "null_timestamps_total",
			Help:      "Rows whose timestamp could not be derived.",
		}),
		UnresolvedMonths: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unresolved_months_total",
			Help:      "Rows whose month name was not in the locale table.",
		}),
		PartialWaveHeight: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partial_wave_heights_total",
			Help:      "Rows missing a minimum or maximum wave height.",
		}),
		LayoutMismatch: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "layout_mismatch",
			Help:      "1 when the page had no forecast day containers.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time spent downloading and parsing the forecast page.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		StepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Duration of each pipeline step.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"step"}),
	}

	m.registry.MustRegister(
		m.TabsFound,
		m.TabsSkipped,
		m.LinesSkipped,
		m.RowsExtracted,
		m.RowsWritten,
		m.NullTimestamps,
		m.UnresolvedMonths,
		m.PartialWaveHeight,
		m.LayoutMismatch,
		m.LastSuccess,
		m.FetchDuration,
		m.StepDuration,
	)

	return m
}

// Registry exposes the run's registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveExtraction records the structural counts of an extraction
func (m *Metrics) ObserveExtraction(e *forecast.Extraction) {
	m.TabsFound.Add(float64(e.Tabs))
	m.TabsSkipped.Add(float64(e.SkippedTabs))
	m.LinesSkipped.Add(float64(e.SkippedLines))
	m.RowsExtracted.Add(float64(len(e.Rows)))
	if e.LayoutMismatch() {
		m.LayoutMismatch.Set(1)
	} else {
		m.LayoutMismatch.Set(0)
	}
}

// ObserveRows records data-quality counts of normalized rows
func (m *Metrics) ObserveRows(rows []forecast.Row) {
	for _, r := range rows {
		if r.Timestamp == nil {
			m.NullTimestamps.Inc()
		}
		if r.MonthStatus == forecast.MonthUnknown {
			m.UnresolvedMonths.Inc()
		}
		if r.MinWaveHeight == nil || r.MaxWaveHeight == nil {
			m.PartialWaveHeight.Inc()
		}
	}
}

// ObserveStep records how long a pipeline step took
func (m *Metrics) ObserveStep(step string, d time.Duration) {
	m.StepDuration.WithLabelValues(step).Observe(d.Seconds())
}

// MarkSuccess stamps the last-success gauge
func (m *Metrics) MarkSuccess(at time.Time) {
	m.LastSuccess.Set(float64(at.Unix()))
}

// WriteTextfile writes the registry to path in the Prometheus text format.
// The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
