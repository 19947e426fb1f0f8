package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/pfrederiksen/surf-forecast/internal/forecast"
)

const forecastSchema = `
	CREATE TABLE forecast (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		hour TEXT NOT NULL,
		wave_height TEXT NOT NULL,
		wind_speed TEXT NOT NULL,
		wind_direction TEXT NOT NULL,
		timestamp TEXT,
		min_wave_height REAL,
		max_wave_height REAL,
		avg_wave_height REAL
	);
	CREATE INDEX idx_forecast_timestamp ON forecast(timestamp);
`

// SQLiteSink stores forecast rows in a SQLite database
type SQLiteSink struct {
	path string
}

// NewSQLiteSink creates a sink for the database at path, creating its directory if needed
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	return &SQLiteSink{path: path}, nil
}

// Path returns the database file path
func (s *SQLiteSink) Path() string {
	return s.path
}

// SaveRows replaces the forecast table with rows in a single transaction
func (s *SQLiteSink) SaveRows(ctx context.Context, rows []forecast.Row) error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS forecast`); err != nil {
		return fmt.Errorf("dropping forecast table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, forecastSchema); err != nil {
		return fmt.Errorf("creating forecast table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO forecast (date, hour, wave_height, wind_speed, wind_direction,
			timestamp, min_wave_height, max_wave_height, avg_wave_height)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.ExecContext(ctx,
			r.Date, r.Hour, r.WaveHeight, r.WindSpeed, r.WindDirection,
			nullTimestamp(r), nullFloat(r.MinWaveHeight), nullFloat(r.MaxWaveHeight), nullFloat(r.AvgWaveHeight),
		)
		if err != nil {
			return fmt.Errorf("inserting row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing forecast rows: %w", err)
	}
	return nil
}

// CountRows returns the number of rows in the forecast table
func (s *SQLiteSink) CountRows(ctx context.Context) (int, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return 0, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM forecast`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting forecast rows: %w", err)
	}
	return n, nil
}

func nullTimestamp(r forecast.Row) sql.NullString {
	if r.Timestamp == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: forecast.FormatTimestamp(r.Timestamp), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
