// Package locale provides month-name tables for forecast pages that print dates
// in a human language without a year.
//
// Tables are YAML files mapping a month name to its number. The French table used
// by surf-report.com is embedded in the binary; other sites can be supported by
// pointing the CLI at a different file.
package locale
