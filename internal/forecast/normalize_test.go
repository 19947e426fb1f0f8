package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frenchMonths is a minimal MonthLookup so these tests do not depend on package locale.
type frenchMonths map[string]time.Month

func (f frenchMonths) Month(name string) (time.Month, bool) {
	m, ok := f[name]
	return m, ok
}

var testMonths = frenchMonths{
	"Janvier": time.January,
	"Mars":    time.March,
	"Août":    time.August,
}

func ptr(v float64) *float64 { return &v }

func TestParseWaveHeight(t *testing.T) {
	tests := []struct {
		label   string
		wantMin *float64
		wantMax *float64
		wantAvg *float64
	}{
		{"1-1.5m", ptr(1), ptr(1.5), ptr(1.25)},
		{"0.5-1m", ptr(0.5), ptr(1), ptr(0.75)},
		{"2m", ptr(2), nil, nil},
		{"N/A", nil, nil, nil},
		{"", nil, nil, nil},
		{"-1.5m", nil, ptr(1.5), nil},
		{"  3-4m ", ptr(3), ptr(4), ptr(3.5)},
		{"10-12", ptr(10), ptr(12), ptr(11)},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			low, high, avg := ParseWaveHeight(tt.label)
			assert.Equal(t, tt.wantMin, low, "min")
			assert.Equal(t, tt.wantMax, high, "max")
			assert.Equal(t, tt.wantAvg, avg, "avg")
		})
	}
}

func TestTimestamp(t *testing.T) {
	n := NewNormalizer(testMonths, UnknownMonthJanuary)

	tests := []struct {
		name       string
		date       string
		hour       string
		want       *time.Time
		wantStatus MonthStatus
	}{
		{
			name:       "single digit day",
			date:       "Vendredi 9 Janvier",
			hour:       "06:00",
			want:       timePtr(time.Date(2025, time.January, 9, 6, 0, 0, 0, time.UTC)),
			wantStatus: MonthResolved,
		},
		{
			name:       "two digit day",
			date:       "Lundi 17 Mars",
			hour:       "21:00",
			want:       timePtr(time.Date(2025, time.March, 17, 21, 0, 0, 0, time.UTC)),
			wantStatus: MonthResolved,
		},
		{
			name:       "accented month",
			date:       "Samedi 2 Août",
			hour:       "12:30",
			want:       timePtr(time.Date(2025, time.August, 2, 12, 30, 0, 0, time.UTC)),
			wantStatus: MonthResolved,
		},
		{
			name:       "extra tokens ignored",
			date:       "Samedi 2 Août  (aujourd'hui)",
			hour:       "12:30",
			want:       timePtr(time.Date(2025, time.August, 2, 12, 30, 0, 0, time.UTC)),
			wantStatus: MonthResolved,
		},
		{
			name:       "unknown month falls back to January",
			date:       "Vendredi 9 Foo",
			hour:       "06:00",
			want:       timePtr(time.Date(2025, time.January, 9, 6, 0, 0, 0, time.UTC)),
			wantStatus: MonthUnknown,
		},
		{
			name:       "lowercase month is not resolved",
			date:       "Vendredi 9 janvier",
			hour:       "06:00",
			want:       timePtr(time.Date(2025, time.January, 9, 6, 0, 0, 0, time.UTC)),
			wantStatus: MonthUnknown,
		},
		{
			name:       "too few tokens",
			date:       "9 Janvier",
			hour:       "06:00",
			wantStatus: MonthMissing,
		},
		{
			name:       "single word label",
			date:       "Aujourd'hui",
			hour:       "06:00",
			wantStatus: MonthMissing,
		},
		{
			name:       "empty date",
			hour:       "06:00",
			wantStatus: MonthMissing,
		},
		{
			name:       "malformed hour",
			date:       "Vendredi 9 Janvier",
			hour:       "6h",
			wantStatus: MonthResolved,
		},
		{
			name:       "non numeric day",
			date:       "Vendredi neuf Janvier",
			hour:       "06:00",
			wantStatus: MonthResolved,
		},
		{
			name:       "day out of range",
			date:       "Vendredi 32 Janvier",
			hour:       "06:00",
			wantStatus: MonthResolved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, status := n.Timestamp(tt.date, tt.hour, 2025)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestTimestamp_UnknownMonthNull(t *testing.T) {
	n := NewNormalizer(testMonths, UnknownMonthNull)

	got, status := n.Timestamp("Vendredi 9 Foo", "06:00", 2025)
	assert.Nil(t, got)
	assert.Equal(t, MonthUnknown, status)

	got, status = n.Timestamp("Vendredi 9 Janvier", "06:00", 2025)
	require.NotNil(t, got)
	assert.Equal(t, MonthResolved, status)
	assert.Equal(t, time.Date(2025, time.January, 9, 6, 0, 0, 0, time.UTC), *got)
}

func TestNormalize(t *testing.T) {
	raw := []RawRow{
		{Date: "Vendredi 9 Janvier", Hour: "06:00", WaveHeight: "1-1.5m", WindSpeed: "12", WindDirection: "Ouest"},
		{Date: "Vendredi 9 Janvier", Hour: "09:00", WaveHeight: NotAvailable, WindSpeed: NotAvailable, WindDirection: NotAvailable},
		{Date: "Samedi 10 Foo", Hour: "15:00", WaveHeight: "2m", WindSpeed: "8", WindDirection: "Sud"},
	}
	original := append([]RawRow(nil), raw...)

	n := NewNormalizer(testMonths, UnknownMonthJanuary)
	rows := n.Normalize(raw, 2025)

	require.Len(t, rows, len(raw))
	assert.Equal(t, original, raw, "input must not be modified")

	for i := range rows {
		assert.Equal(t, raw[i], rows[i].RawRow, "row %d order", i)
	}

	assert.Equal(t, time.Date(2025, time.January, 9, 6, 0, 0, 0, time.UTC), *rows[0].Timestamp)
	assert.Equal(t, ptr(1.25), rows[0].AvgWaveHeight)
	assert.Equal(t, MonthResolved, rows[0].MonthStatus)

	assert.Nil(t, rows[1].MinWaveHeight)
	assert.Nil(t, rows[1].MaxWaveHeight)
	assert.Nil(t, rows[1].AvgWaveHeight)

	assert.Equal(t, MonthUnknown, rows[2].MonthStatus)
	assert.Equal(t, time.Date(2025, time.January, 10, 15, 0, 0, 0, time.UTC), *rows[2].Timestamp)
	assert.Equal(t, ptr(2), rows[2].MinWaveHeight)
	assert.Nil(t, rows[2].AvgWaveHeight)
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := []RawRow{
		{Date: "Vendredi 9 Janvier", Hour: "06:00", WaveHeight: "1-1.5m"},
		{Date: "Lundi 17 Mars", Hour: "bad", WaveHeight: "2m"},
	}

	n := NewNormalizer(testMonths, UnknownMonthJanuary)
	assert.Equal(t, n.Normalize(raw, 2026), n.Normalize(raw, 2026))
}

func TestNormalize_Empty(t *testing.T) {
	n := NewNormalizer(testMonths, UnknownMonthJanuary)
	rows := n.Normalize(nil, 2025)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestParseUnknownMonthPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    UnknownMonthPolicy
		wantErr bool
	}{
		{"", UnknownMonthJanuary, false},
		{"january", UnknownMonthJanuary, false},
		{"January", UnknownMonthJanuary, false},
		{"null", UnknownMonthNull, false},
		{"none", UnknownMonthNull, false},
		{"december", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseUnknownMonthPolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRow_Record(t *testing.T) {
	ts := time.Date(2025, time.January, 9, 6, 0, 0, 0, time.UTC)
	row := Row{
		RawRow:        RawRow{Date: "Vendredi 9 Janvier", Hour: "06:00", WaveHeight: "2m", WindSpeed: "12", WindDirection: "Ouest"},
		Timestamp:     &ts,
		MinWaveHeight: ptr(2),
	}

	assert.Equal(t, []string{
		"Vendredi 9 Janvier", "06:00", "2m", "12", "Ouest",
		"2025-01-09 06:00:00", "2", "", "",
	}, row.Record())
	assert.Len(t, row.Record(), len(Columns))
}

func timePtr(t time.Time) *time.Time { return &t }
