// Package archive unpacks zip, tar and gzip archives into a destination
// folder for the organizer's archive handler.
//
// Extractor is the seam the organizer depends on; Unpacker is the default
// implementation backed by the standard readers. Entries whose paths would
// land outside the destination folder are rejected with ErrUnsafePath.
package archive
