// Package common defines the sentinel errors shared by the quicklog storage,
// service and CLI layers. Callers should use errors.Is to match these values;
// storage failures carry both a taxonomy sentinel and the underlying cause.
package common

import "errors"

var (
	// Error taxonomy surfaced to the UI layer.
	ErrInitialization = errors.New("storage initialization failed")
	ErrValidation     = errors.New("validation error")
	ErrWrite          = errors.New("write failed")
	ErrRead           = errors.New("read failed")

	// Storage lifecycle errors.
	ErrNotInitialized = errors.New("storage not initialized")
	ErrClosed         = errors.New("storage closed")
	ErrSchemaTooNew   = errors.New("schema version is newer than supported")
	ErrUnknownBackend = errors.New("unknown storage backend")
)
