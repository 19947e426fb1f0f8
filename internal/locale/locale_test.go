package locale

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pfrederiksen/surf-forecast/internal/forecast"
)

func TestDefault(t *testing.T) {
	l := Default()

	if l.Name() != "fr" {
		t.Errorf("Name() = %q, want fr", l.Name())
	}

	tests := []struct {
		name string
		want time.Month
	}{
		{"Janvier", time.January},
		{"Février", time.February},
		{"Mars", time.March},
		{"Avril", time.April},
		{"Mai", time.May},
		{"Juin", time.June},
		{"Juillet", time.July},
		{"Août", time.August},
		{"Septembre", time.September},
		{"Octobre", time.October},
		{"Novembre", time.November},
		{"Décembre", time.December},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := l.Month(tt.name)
			if !ok {
				t.Fatalf("Month(%q) not found", tt.name)
			}
			if got != tt.want {
				t.Errorf("Month(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestMonth_CaseSensitive(t *testing.T) {
	l := Default()

	for _, name := range []string{"janvier", "mars", "Aout", "decembre", "JANVIER", "Foo", ""} {
		if _, ok := l.Month(name); ok {
			t.Errorf("Month(%q) resolved, want not found", name)
		}
	}
}

func TestDefault_Len(t *testing.T) {
	if got := Default().Len(); got != 12 {
		t.Errorf("Len() = %d, want 12", got)
	}
}

func TestDefault_UnlistedSpellingFallsBackToJanuary(t *testing.T) {
	n := forecast.NewNormalizer(Default(), forecast.UnknownMonthJanuary)

	tests := []struct {
		date string
		want time.Time
	}{
		{"Vendredi 9 mars", time.Date(2025, time.January, 9, 6, 0, 0, 0, time.UTC)},
		{"Samedi 2 Aout", time.Date(2025, time.January, 2, 6, 0, 0, 0, time.UTC)},
		{"Lundi 1 decembre", time.Date(2025, time.January, 1, 6, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got, status := n.Timestamp(tt.date, "06:00", 2025)
			if status != forecast.MonthUnknown {
				t.Errorf("status = %v, want MonthUnknown", status)
			}
			if got == nil || !got.Equal(tt.want) {
				t.Errorf("Timestamp(%q) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}

	got, status := n.Timestamp("Vendredi 9 Mars", "06:00", 2025)
	if status != forecast.MonthResolved || got == nil || got.Month() != time.March {
		t.Errorf("Timestamp(Vendredi 9 Mars) = %v, %v; want March, MonthResolved", got, status)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
		wantLen int
	}{
		{
			name:    "english subset",
			yaml:    "name: en\nmonths:\n  January: 1\n  February: 2\n",
			wantLen: 2,
		},
		{
			name:    "no months",
			yaml:    "name: empty\n",
			wantErr: ErrNoMonths,
		},
		{
			name:    "month out of range",
			yaml:    "name: bad\nmonths:\n  Smarch: 13\n",
			wantErr: ErrInvalidMonth,
		},
		{
			name:    "month zero",
			yaml:    "name: bad\nmonths:\n  Nothing: 0\n",
			wantErr: ErrInvalidMonth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Parse([]byte(tt.yaml))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if l.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", l.Len(), tt.wantLen)
			}
		})
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("months: [unclosed")); err == nil {
		t.Error("Parse() expected error for malformed YAML, got nil")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "es.yaml")
	content := "name: es\nmonths:\n  enero: 1\n  febrero: 2\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing locale file: %v", err)
	}

	l, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if l.Name() != "es" {
		t.Errorf("Name() = %q, want es", l.Name())
	}
	if m, ok := l.Month("febrero"); !ok || m != time.February {
		t.Errorf("Month(febrero) = %v, %v; want February, true", m, ok)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestBuiltin_Unknown(t *testing.T) {
	if _, err := Builtin("xx"); err == nil {
		t.Error("Builtin(xx) expected error, got nil")
	}
}
