// Package logging constructs the slog loggers used across reclaim.
//
// Two output formats are supported: a human-oriented console format for
// interactive runs and line-delimited JSON for log files and automation.
package logging
