package dispatch

import (
	"errors"

	"github.com/jonwraymond/docregistry/index"
	"github.com/jonwraymond/docregistry/provider"
)

// Sentinel errors returned by Outcome.Err.
var (
	ErrNotFound          = index.ErrNotFound
	ErrInvalidParameters = provider.ErrInvalidParameters
	ErrProviderFailed    = errors.New("provider failed")
	ErrMalformedQuery    = errors.New("malformed query")
	ErrUnknown           = errors.New("unknown error")
)
