// Package logging constructs slog loggers for the CLI.
//
// Two formats are supported: a compact key=value console format for
// interactive use and JSON for machine consumption. Log output goes to
// stderr so command output (tables, CSV, JSON) stays clean on stdout.
package logging
