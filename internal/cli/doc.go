// Package cli implements the command-line interface for surf-forecast.
//
// The cli package provides the Cobra-based CLI. The root command runs the whole
// pipeline: step 1 scrapes the forecast page, extracts and normalizes the rows and
// writes the output table; step 2 verifies the table by reading it back and
// printing its shape and first rows. The scrape and verify subcommands run a
// single step. Configuration comes from an optional YAML file overridden by flags.
package cli
