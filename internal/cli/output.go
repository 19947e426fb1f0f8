package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

func parseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// VerifyResult describes the table found by the verification step
type VerifyResult struct {
	CheckedAt time.Time  `json:"checked_at"`
	File      string     `json:"file"`
	Rows      int        `json:"rows"`
	Columns   int        `json:"columns"`
	Header    []string   `json:"header"`
	Preview   [][]string `json:"preview"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *VerifyResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *VerifyResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *VerifyResult) error {
	fmt.Fprintf(w, "Dataset: %s\n", result.File)
	fmt.Fprintf(w, "Shape: (%d, %d)\n", result.Rows, result.Columns)

	if result.Rows == 0 {
		fmt.Fprintln(w, "No rows in dataset.")
		return nil
	}

	fmt.Fprintf(w, "\nPreview of data (%d of %d rows):\n", len(result.Preview), result.Rows)
	for _, line := range renderTable(result.Header, result.Preview) {
		fmt.Fprintln(w, line)
	}

	return nil
}

// renderTable lays out header and rows in columns padded to their display
// width, so accented labels like "Février" line up in a terminal.
func renderTable(header []string, rows [][]string) []string {
	table := make([][]string, 0, len(rows)+1)
	table = append(table, header)
	table = append(table, rows...)

	widths := make([]int, len(header))
	for _, row := range table {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(table))
	for _, row := range table {
		cells := make([]string, len(widths))
		for i := range widths {
			content := ""
			if i < len(row) {
				content = row[i]
			}
			cells[i] = runewidth.FillRight(content, widths[i])
		}
		lines = append(lines, strings.TrimRight(strings.Join(cells, "  "), " "))
	}

	return lines
}
