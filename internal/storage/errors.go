package storage

import "errors"

var (
	// ErrNotFound is returned when a key has no value in the store.
	ErrNotFound = errors.New("storage: key not found")
)
