// Package repository holds the storage errors shared by every store backend.
package repository

import "errors"

var (
	// ErrNotFound is returned when a key has never been written.
	ErrNotFound = errors.New("not found")
	// ErrCorrupt is returned when a stored value exists but cannot be decoded.
	ErrCorrupt = errors.New("stored value is corrupt")
	// ErrInvalidInput is returned for bad arguments such as an empty key.
	ErrInvalidInput = errors.New("invalid input")
)
