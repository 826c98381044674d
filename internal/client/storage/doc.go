// Package storage is the single entry point the rest of quicklog uses to
// persist and read entries.
//
// An Engine is built with New for one backend (sqlite, bolt or memory),
// opened with Initialize and then serves Append, ListRecent and Count until
// Close. Initialize runs the version-gated schema migration; calling it again
// on an open engine is a no-op.
//
// Every failure is reported through the taxonomy in internal/common:
//
//   - ErrInitialization from Initialize
//   - ErrValidation from Append, before storage is touched
//   - ErrWrite from Append
//   - ErrRead from ListRecent, Count and SchemaVersion
//
// The taxonomy sentinel and the underlying cause both match errors.Is.
// Nothing is retried.
package storage
