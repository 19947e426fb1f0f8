package forecast

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// leadingNumberRe matches the lower bound of a range like "1-1.5m"
	leadingNumberRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)`)

	// dashNumberRe matches the upper bound, the first number right after a dash
	dashNumberRe = regexp.MustCompile(`-(\d+(?:\.\d+)?)`)
)

// composedLayout parses "{year}-{month}-{day} {hour}"
const composedLayout = "2006-01-02 15:04"

// MonthLookup resolves a month name printed on the page
type MonthLookup interface {
	Month(name string) (time.Month, bool)
}

// UnknownMonthPolicy decides what happens to a date whose month name is not in the table.
type UnknownMonthPolicy int

const (
	// UnknownMonthJanuary maps unknown month names to January ("01").
	// This keeps output identical to earlier runs of the scraper.
	UnknownMonthJanuary UnknownMonthPolicy = iota
	// UnknownMonthNull leaves the timestamp empty.
	UnknownMonthNull
)

// ParseUnknownMonthPolicy parses "january" or "null"
func ParseUnknownMonthPolicy(s string) (UnknownMonthPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "january":
		return UnknownMonthJanuary, nil
	case "null", "none":
		return UnknownMonthNull, nil
	default:
		return 0, fmt.Errorf("invalid unknown month policy: %q (must be 'january' or 'null')", s)
	}
}

func (p UnknownMonthPolicy) String() string {
	if p == UnknownMonthNull {
		return "null"
	}
	return "january"
}

// Normalizer derives timestamps and wave-height bounds from raw rows.
// It holds no per-run state, so one Normalizer can be reused.
type Normalizer struct {
	months MonthLookup
	policy UnknownMonthPolicy
}

// NewNormalizer creates a Normalizer resolving month names through months
func NewNormalizer(months MonthLookup, policy UnknownMonthPolicy) *Normalizer {
	return &Normalizer{
		months: months,
		policy: policy,
	}
}

// Normalize returns one Row per raw row, in the same order. The input slice is not modified.
// year is used for every date since the page does not print one.
func (n *Normalizer) Normalize(rows []RawRow, year int) []Row {
	out := make([]Row, len(rows))
	for i, raw := range rows {
		out[i] = n.NormalizeRow(raw, year)
	}
	return out
}

// NormalizeRow derives the typed fields of a single row
func (n *Normalizer) NormalizeRow(raw RawRow, year int) Row {
	ts, status := n.Timestamp(raw.Date, raw.Hour, year)
	low, high, avg := ParseWaveHeight(raw.WaveHeight)

	return Row{
		RawRow:        raw,
		Timestamp:     ts,
		MinWaveHeight: low,
		MaxWaveHeight: high,
		AvgWaveHeight: avg,
		MonthStatus:   status,
	}
}

// MonthStatus reports the outcome of looking up a date label's month name
type MonthStatus int

const (
	// MonthMissing means the label had no month token, so no lookup ran.
	MonthMissing MonthStatus = iota
	MonthResolved
	// MonthUnknown means the month token was not in the table.
	MonthUnknown
)

// Timestamp combines a date label such as "Vendredi 9 Janvier" with an hour
// label such as "06:00". The weekday token is ignored. It returns nil when the
// label has fewer than three tokens or the composed value does not parse.
func (n *Normalizer) Timestamp(dateLabel, hourLabel string, year int) (*time.Time, MonthStatus) {
	parts := strings.Fields(dateLabel)
	if len(parts) < 3 {
		return nil, MonthMissing
	}
	day, monthName := parts[1], parts[2]

	month := "01"
	status := MonthUnknown
	if m, ok := n.months.Month(monthName); ok {
		month = fmt.Sprintf("%02d", int(m))
		status = MonthResolved
	} else if n.policy == UnknownMonthNull {
		return nil, status
	}

	if len(day) < 2 {
		day = strings.Repeat("0", 2-len(day)) + day
	}

	composed := fmt.Sprintf("%04d-%s-%s %s", year, month, day, hourLabel)
	t, err := time.Parse(composedLayout, composed)
	if err != nil {
		return nil, status
	}
	return &t, status
}

// ParseWaveHeight reads a label such as "1-1.5m". low is the number the label
// starts with and high the number following the first dash; avg is set only
// when both are present.
func ParseWaveHeight(label string) (low, high, avg *float64) {
	label = strings.TrimSpace(label)

	if m := leadingNumberRe.FindStringSubmatch(label); m != nil {
		low = parseFloat(m[1])
	}
	if m := dashNumberRe.FindStringSubmatch(label); m != nil {
		high = parseFloat(m[1])
	}
	if low != nil && high != nil {
		v := (*low + *high) / 2
		avg = &v
	}
	return low, high, avg
}

func parseFloat(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
