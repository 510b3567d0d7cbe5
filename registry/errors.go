package registry

import (
	"errors"

	"github.com/jonwraymond/docregistry/index"
)

// Sentinel errors for consistent error handling.
var (
	ErrNotFound       = index.ErrNotFound
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnknownMode    = errors.New("unknown server mode")
)
