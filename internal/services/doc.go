// Package services defines shared utilities consumed by the cleanup stages.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs and stage names for logging.
//   - Structured error markers plus the Wrap helper that let callers classify
//     failures (bad invocation, configuration, I/O, extraction, collision)
//     with errors.Is instead of string matching.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across planning, organizing, and pruning.
package services
