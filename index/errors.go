package index

import "errors"

// Error values for consistent error handling by callers.
var (
	// ErrNotFound is returned by lookups that must report absence as an error.
	ErrNotFound = errors.New("function not found")
)
