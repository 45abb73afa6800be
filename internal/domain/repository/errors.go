package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no row or key.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a uniqueness or guard condition.
	ErrConflict = errors.New("conflict")
)
