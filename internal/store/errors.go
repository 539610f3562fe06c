package store

import "errors"

var (
	// ErrNotFound is returned when a candidate or position id does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an application already exists for the
	// candidate/position pair. Callers treat it as success, not an error.
	ErrDuplicate = errors.New("duplicate application")
)
