// Package workflow runs a complete cleanup pass over one root directory.
//
// A run validates the environment (preflight), takes a per-root advisory
// lock, assigns a run ID, builds the plan, applies it through the organizer,
// prunes emptied folders, and records the outcome in the run journal when it
// is enabled. Per-file failures never abort a run; they are returned in the
// Summary for the report.
package workflow
