package forecast

import (
	"strconv"
	"time"
)

// NotAvailable is written in place of a cell the page did not provide
const NotAvailable = "N/A"

// TimestampLayout is how timestamps are rendered in output tables
const TimestampLayout = "2006-01-02 15:04:05"

// Columns lists the table header, in output order.
var Columns = []string{
	"date",
	"hour",
	"wave_height",
	"wind_speed",
	"wind_direction",
	"timestamp",
	"min_wave_height",
	"max_wave_height",
	"avg_wave_height",
}

// RawRow is one hourly slot as printed on the page
type RawRow struct {
	Date          string `json:"date"`
	Hour          string `json:"hour"`
	WaveHeight    string `json:"wave_height"`
	WindSpeed     string `json:"wind_speed"`
	WindDirection string `json:"wind_direction"`
}

// Row is a RawRow with its derived fields. Nil pointers mean the value
// could not be derived from the raw labels.
type Row struct {
	RawRow
	Timestamp     *time.Time `json:"timestamp"`
	MinWaveHeight *float64   `json:"min_wave_height"`
	MaxWaveHeight *float64   `json:"max_wave_height"`
	AvgWaveHeight *float64   `json:"avg_wave_height"`

	// MonthStatus is kept in memory for reporting and never written out.
	MonthStatus MonthStatus `json:"-"`
}

// Record renders the row as table cells in Columns order. Nil values become empty cells.
func (r Row) Record() []string {
	return []string{
		r.Date,
		r.Hour,
		r.WaveHeight,
		r.WindSpeed,
		r.WindDirection,
		FormatTimestamp(r.Timestamp),
		FormatFloat(r.MinWaveHeight),
		FormatFloat(r.MaxWaveHeight),
		FormatFloat(r.AvgWaveHeight),
	}
}

// FormatTimestamp renders t with TimestampLayout, or "" when nil
func FormatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(TimestampLayout)
}

// FormatFloat renders v without locale-specific separators, or "" when nil
func FormatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
