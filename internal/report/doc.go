// Package report renders the end-of-run summary: the known and unknown
// extensions encountered, the contents of each category folder, and any
// per-file failures.
package report
