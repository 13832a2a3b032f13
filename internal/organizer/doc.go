// Package organizer applies a planner.Plan to the filesystem.
//
// Known files are moved into their category folder under a normalized name,
// archives are unpacked into Archives/<normalized stem>/ and then removed,
// and unknown files are moved into Unknown/ under their original name. A
// failure on one file is recorded in the Result and the run continues.
//
// Name collisions are resolved according to the configured policy: "suffix"
// appends _1, _2, ... to the stem, "fail" reports the file and leaves it in
// place.
package organizer
