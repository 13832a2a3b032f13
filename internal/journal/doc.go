// Package journal persists cleanup run history in SQLite.
//
// Each run gets a row in runs keyed by its UUID; every relocation or failure
// produced by the organizer is stored in operations. The CLI history command
// reads it back. The schema is versioned; a mismatch returns
// ErrSchemaMismatch and the database must be deleted.
package journal
