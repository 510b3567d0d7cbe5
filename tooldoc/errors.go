package tooldoc

import "errors"

// Error values for consistent error handling by callers.
var (
	// ErrSourceUnavailable is returned when the documentation root itself
	// cannot be listed. Individual unreadable documents are not errors.
	ErrSourceUnavailable = errors.New("documentation source unavailable")
)
