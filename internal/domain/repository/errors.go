package repository

import "errors"

// Storage signals. Implementations wrap these with %w.
var (
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate")
	// ErrHasDependents is returned when a delete is blocked by referencing rows.
	ErrHasDependents = errors.New("has dependent rows")
)
