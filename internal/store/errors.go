package store

import "errors"

var (
	// ErrNotFound is returned when no record matches the id+owner filter.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned on a uniqueness violation (duplicate tag
	// name for an owner, duplicate username).
	ErrConflict = errors.New("resource conflict")
)
