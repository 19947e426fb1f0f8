// Package storage persists normalized forecast rows as tables.
//
// The primary output is a CSV file encoded as UTF-8 with a byte-order mark, so that
// spreadsheet tools open the French labels correctly. Each run replaces the file
// atomically. An optional SQLite sink stores the same rows in a "forecast" table,
// also replaced on every run. The CSV can be read back for verification.
package storage
