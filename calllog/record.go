package calllog

import (
	"time"

	"github.com/google/uuid"
)

// Operation kinds.
const (
	KindSearch = "search"
	KindCall   = "call"
)

// Record is one search or call.
type Record struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"type"`

	// Call inputs.
	Function string         `json:"function,omitempty"`
	Params   map[string]any `json:"params,omitempty"`

	// Search inputs.
	Keyword string `json:"keyword,omitempty"`
	Limit   int    `json:"limit,omitempty"`

	DurationSeconds float64 `json:"duration_seconds"`
	Success         bool    `json:"success"`
	ErrorType       string  `json:"error_type,omitempty"`
	Error           string  `json:"error,omitempty"`

	// ResultRows is the number of data records a call returned, nil when
	// the result was not a record list.
	ResultRows *int `json:"result_rows,omitempty"`
	// ResultCount is the number of search matches.
	ResultCount *int `json:"result_count,omitempty"`
}

// New starts a record of the given kind stamped with now.
func New(kind string, now time.Time) Record {
	return Record{
		ID:        uuid.NewString(),
		Timestamp: now,
		Kind:      kind,
	}
}

// Finish sets the duration from the record's timestamp to end.
func (r *Record) Finish(end time.Time) {
	r.DurationSeconds = end.Sub(r.Timestamp).Seconds()
}

// Fail marks the record failed.
func (r *Record) Fail(errorType, message string) {
	r.Success = false
	r.ErrorType = errorType
	r.Error = message
}

// Count returns a pointer to n, for ResultRows and ResultCount.
func Count(n int) *int {
	return &n
}
