package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrClosed is returned when a database handle is used after Close.
	ErrClosed = errors.New("persistence: database closed")
)
