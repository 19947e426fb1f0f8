package locale

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var builtin embed.FS

// DefaultName is the locale used when no locale file is configured
const DefaultName = "fr"

var (
	ErrNoMonths     = errors.New("locale defines no month names")
	ErrInvalidMonth = errors.New("locale month number must be between 1 and 12")
	ErrEmptyName    = errors.New("locale month name must not be empty")
)

// Locale maps month names, as printed by the source site, to calendar months.
// A Locale is immutable once loaded.
type Locale struct {
	name   string
	months map[string]time.Month
}

// file is the on-disk YAML shape of a locale
type file struct {
	Name   string         `yaml:"name"`
	Months map[string]int `yaml:"months"`
}

// Parse decodes a locale from YAML.
func Parse(data []byte) (*Locale, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing locale: %w", err)
	}

	if len(f.Months) == 0 {
		return nil, ErrNoMonths
	}

	months := make(map[string]time.Month, len(f.Months))
	for name, n := range f.Months {
		if name == "" {
			return nil, ErrEmptyName
		}
		if n < 1 || n > 12 {
			return nil, fmt.Errorf("%w: %q = %d", ErrInvalidMonth, name, n)
		}
		months[name] = time.Month(n)
	}

	return &Locale{name: f.Name, months: months}, nil
}

// Load reads a locale file from disk.
func Load(path string) (*Locale, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading locale file: %w", err)
	}
	return Parse(data)
}

// Builtin returns one of the locales compiled into the binary.
func Builtin(name string) (*Locale, error) {
	data, err := builtin.ReadFile("data/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown builtin locale %q", name)
	}
	return Parse(data)
}

// Default returns the builtin French locale.
func Default() *Locale {
	l, err := Builtin(DefaultName)
	if err != nil {
		panic(fmt.Sprintf("builtin locale %q: %v", DefaultName, err))
	}
	return l
}

// Name returns the locale identifier from the file
func (l *Locale) Name() string {
	return l.name
}

// Month resolves a month name. The lookup is case-sensitive.
func (l *Locale) Month(name string) (time.Month, bool) {
	m, ok := l.months[name]
	return m, ok
}

// Len returns the number of month names known to the locale
func (l *Locale) Len() int {
	return len(l.months)
}
