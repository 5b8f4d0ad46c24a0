package model

import "errors"

// Error kinds shared across store and server layers.
// Handlers classify failures with errors.Is and pick the HTTP response
// (400 / 404 / redirect / 500) per endpoint.
var (
	// ErrValidation indicates missing or malformed required input
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates an unknown entity id
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation, e.g. a wallet rating
	// the same agent twice
	ErrConflict = errors.New("conflict")
)
