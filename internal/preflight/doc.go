// Package preflight validates the environment before a cleanup run touches
// the filesystem.
//
// The workflow runner calls RunAll before planning; any failed check aborts
// the run with a validation error. Individual checks (CheckRoot,
// CheckDirectoryAccess) are also used by "clean-folder config validate".
package preflight
