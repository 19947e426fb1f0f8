package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/pfrederiksen/surf-forecast/internal/forecast"
)

// ErrNotFound is returned when the output table does not exist yet
var ErrNotFound = errors.New("output file not found")

// Storage handles the CSV output table
type Storage struct {
	path string
}

// New creates a new Storage writing to path, creating its directory if needed
func New(path string) (*Storage, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	return &Storage{
		path: path,
	}, nil
}

// Open returns a Storage for an existing table without creating directories
func Open(path string) (*Storage, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	return &Storage{path: path}, nil
}

// expandHome expands a leading ~/ to the home directory
func expandHome(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	return path, nil
}

// Path returns the resolved output path
func (s *Storage) Path() string {
	return s.path
}

// SaveRows replaces the CSV table with rows. The file is written next to the
// destination and renamed into place, so a failed write leaves the previous table intact.
func (s *Storage) SaveRows(rows []forecast.Row) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeCSV(tmp, rows); err != nil {
		tmp.Close()
		return fmt.Errorf("writing csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing output file: %w", err)
	}

	return nil
}

// writeCSV writes the header and one record per row, UTF-8 with BOM
func writeCSV(w io.Writer, rows []forecast.Row) error {
	bom := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())

	cw := csv.NewWriter(bom)
	if err := cw.Write(forecast.Columns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	return bom.Close()
}

// Table is a CSV table read back from disk
type Table struct {
	Header  []string
	Records [][]string
}

// Shape returns the number of data rows and columns, header excluded
func (t *Table) Shape() (rows, cols int) {
	return len(t.Records), len(t.Header)
}

// Head returns up to n data rows
func (t *Table) Head(n int) [][]string {
	if n < 0 {
		n = 0
	}
	if n > len(t.Records) {
		n = len(t.Records)
	}
	return t.Records[:n]
}

// LoadTable reads the CSV table. A missing file returns ErrNotFound.
func (s *Storage) LoadTable() (*Table, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("opening table: %w", err)
	}
	defer f.Close()

	// BOMOverride strips the byte-order mark if present
	r := csv.NewReader(transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder())))

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parsing csv: %s has no header row", s.path)
	}

	return &Table{
		Header:  records[0],
		Records: records[1:],
	}, nil
}
