// Package planner walks a root directory and classifies every file into a
// Plan of relocation operations without touching the filesystem.
//
// Category folders (Images, Video, Documents, Audio, Archives, Unknown) are
// never descended into, at any depth. Symbolic links are planned as files and
// never followed. Paths matching the configured ignore globs are skipped
// together with their subtrees.
package planner
