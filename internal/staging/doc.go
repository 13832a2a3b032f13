// Package staging tidies the root directory after files have been relocated,
// removing subdirectories that no longer hold any files.
package staging
