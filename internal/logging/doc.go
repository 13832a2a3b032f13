// Package logging assembles structured slog loggers and formatting helpers used
// across clean-folder.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so stage code can automatically
// tag log lines with the run ID and stage. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
//
// Logs go to stderr by default; stdout is reserved for the cleanup report.
package logging
