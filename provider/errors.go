package provider

import (
	"errors"
	"fmt"
)

// Error values for consistent error handling by callers.
var (
	ErrNotFound          = errors.New("provider not found")
	ErrInvalidProvider   = errors.New("invalid provider")
	ErrInvalidProviderID = errors.New("invalid provider id")

	// ErrInvalidFunction is returned when registering a function with no name.
	ErrInvalidFunction = errors.New("invalid function")
	// ErrFunctionExists is returned when a name is registered twice.
	ErrFunctionExists = errors.New("function already registered")
	// ErrUnknownFunction is returned by a function that vanished from its
	// provider between lookup and invocation.
	ErrUnknownFunction = errors.New("unknown function")
	// ErrInvalidParameters marks argument-shape failures.
	ErrInvalidParameters = errors.New("invalid parameters")
	// ErrNotConnected is returned when invoking a remote function before
	// Connect or after Close.
	ErrNotConnected = errors.New("provider not connected")
	// ErrCallFailed wraps failures reported by a remote provider.
	ErrCallFailed = errors.New("provider call failed")
)

// ParameterError is the signal a function returns when its arguments have
// the wrong names or types. It unwraps to ErrInvalidParameters.
type ParameterError struct {
	Function string
	Details  string
}

func (e *ParameterError) Error() string {
	if e.Function == "" {
		return fmt.Sprintf("invalid parameters: %s", e.Details)
	}
	return fmt.Sprintf("invalid parameters for %s: %s", e.Function, e.Details)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameters
}
