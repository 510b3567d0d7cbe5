package dispatch

import "fmt"

// Kind classifies how a call ended.
type Kind int

const (
	Success Kind = iota
	NotFound
	InvalidParameters
	ProviderError
	MalformedQuery
	UnknownError
)

// String returns the error type name used in responses.
func (k Kind) String() string {
	switch k {
	case Success:
		return "Success"
	case NotFound:
		return "FunctionNotFound"
	case InvalidParameters:
		return "ParameterError"
	case ProviderError:
		return "ProviderError"
	case MalformedQuery:
		return "MalformedQuery"
	default:
		return "UnknownError"
	}
}

// ReturnedErrorType names a successful call whose value is itself an error
// structure.
const ReturnedErrorType = "ProviderReturnedError"

// Outcome is the result of one call.
type Outcome struct {
	Kind Kind
	// Function is the resolved canonical ID, or the reference as given when
	// it did not resolve.
	Function string
	// Value is the normalized provider value. Set only on Success.
	Value any
	// Message describes a failure.
	Message string
	// Details carries the provider's description of bad arguments.
	Details string
}

// OK reports whether the call succeeded.
func (o Outcome) OK() bool {
	return o.Kind == Success
}

// ReturnedError returns the message of an error structure the provider
// returned as its value.
func (o Outcome) ReturnedError() (string, bool) {
	if o.Kind != Success {
		return "", false
	}
	m, ok := o.Value.(map[string]any)
	if !ok {
		return "", false
	}
	e, ok := m["error"]
	if !ok {
		return "", false
	}
	return fmt.Sprint(e), true
}

// Rows returns the number of records in a normalized {"data": [...]}
// value.
func (o Outcome) Rows() (int, bool) {
	m, ok := o.Value.(map[string]any)
	if !ok {
		return 0, false
	}
	data, ok := m["data"].([]any)
	if !ok {
		return 0, false
	}
	return len(data), true
}

// Err converts a failed outcome into an error wrapping the matching
// sentinel. It returns nil on Success.
func (o Outcome) Err() error {
	var sentinel error
	switch o.Kind {
	case Success:
		return nil
	case NotFound:
		sentinel = ErrNotFound
	case InvalidParameters:
		sentinel = ErrInvalidParameters
	case ProviderError:
		sentinel = ErrProviderFailed
	case MalformedQuery:
		sentinel = ErrMalformedQuery
	default:
		sentinel = ErrUnknown
	}
	return fmt.Errorf("%w: %s", sentinel, o.Message)
}

// Response renders the outcome for callers: the value on Success, an error
// structure otherwise.
func (o Outcome) Response() any {
	if o.Kind == Success {
		return o.Value
	}
	resp := map[string]any{
		"error": o.Message,
		"type":  o.Kind.String(),
	}
	switch o.Kind {
	case InvalidParameters:
		resp["details"] = o.Details
	case ProviderError:
		resp["function"] = o.Function
	}
	return resp
}

// Malformed is the outcome for call arguments that could not be decoded.
func Malformed(ref string, err error) Outcome {
	return Outcome{Kind: MalformedQuery, Function: ref, Message: "malformed arguments: " + err.Error()}
}

// Unknown is the outcome for a failure outside the provider, such as the
// caller giving up before the call finished.
func Unknown(ref string, err error) Outcome {
	return Outcome{Kind: UnknownError, Function: ref, Message: err.Error()}
}
