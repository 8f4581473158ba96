package storage

import "errors"

// Storage errors shared by all inventory backends.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned by Insert when a drug with the same NDC
	// is already stored. Use Upsert to replace it.
	ErrDuplicateKey = errors.New("duplicate key: drug already exists")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
