package storage

import "errors"

// Storage errors.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPositionOpen is returned when opening a position for a token
	// that already has an open position.
	ErrPositionOpen = errors.New("position already open for token")
)
