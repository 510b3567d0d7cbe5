package calllog

import (
	"context"
	"log/slog"
	"sync"
)

// Sink accepts records. Implementations must be safe for concurrent use.
type Sink interface {
	Emit(ctx context.Context, rec Record)
}

// SlogSink writes each record as one structured log line.
type SlogSink struct {
	Logger *slog.Logger
	Level  slog.Level
}

// NewSlogSink creates a sink logging at Info. A nil logger means
// slog.Default().
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{Logger: logger, Level: slog.LevelInfo}
}

// Emit implements Sink.
func (s *SlogSink) Emit(ctx context.Context, rec Record) {
	attrs := []slog.Attr{
		slog.String("id", rec.ID),
		slog.String("type", rec.Kind),
		slog.Time("timestamp", rec.Timestamp),
		slog.Float64("duration_seconds", rec.DurationSeconds),
		slog.Bool("success", rec.Success),
	}
	switch rec.Kind {
	case KindSearch:
		attrs = append(attrs, slog.String("keyword", rec.Keyword), slog.Int("limit", rec.Limit))
	default:
		attrs = append(attrs, slog.String("function", rec.Function), slog.Any("params", rec.Params))
	}
	if rec.ErrorType != "" {
		attrs = append(attrs, slog.String("error_type", rec.ErrorType), slog.String("error", rec.Error))
	}
	if rec.ResultRows != nil {
		attrs = append(attrs, slog.Int("result_rows", *rec.ResultRows))
	}
	if rec.ResultCount != nil {
		attrs = append(attrs, slog.Int("result_count", *rec.ResultCount))
	}
	s.Logger.LogAttrs(ctx, s.Level, "calllog: "+rec.Kind, attrs...)
}

// Ring keeps the last N records in memory.
type Ring struct {
	mu   sync.Mutex
	buf  []Record
	next int
	full bool
}

// NewRing creates a ring holding up to size records. Size below 1 is
// treated as 1.
func NewRing(size int) *Ring {
	if size < 1 {
		size = 1
	}
	return &Ring{buf: make([]Record, size)}
}

// Emit implements Sink.
func (r *Ring) Emit(_ context.Context, rec Record) {
	r.mu.Lock()
	r.buf[r.next] = rec
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
	r.mu.Unlock()
}

// Len returns the number of records held.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.full {
		return len(r.buf)
	}
	return r.next
}

// Recent returns up to n records, newest first. n <= 0 returns all held
// records.
func (r *Ring) Recent(n int) []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	held := r.next
	if r.full {
		held = len(r.buf)
	}
	if n <= 0 || n > held {
		n = held
	}
	out := make([]Record, n)
	for i := range n {
		idx := (r.next - 1 - i + len(r.buf)) % len(r.buf)
		out[i] = r.buf[idx]
	}
	return out
}

// Filter returns up to n of the newest records of the given kind.
func (r *Ring) Filter(kind string, n int) []Record {
	all := r.Recent(0)
	out := make([]Record, 0, len(all))
	for _, rec := range all {
		if kind != "" && rec.Kind != kind {
			continue
		}
		out = append(out, rec)
		if n > 0 && len(out) == n {
			break
		}
	}
	return out
}

type multi []Sink

// Multi returns a sink emitting to each non-nil sink in order.
func Multi(sinks ...Sink) Sink {
	var m multi
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

func (m multi) Emit(ctx context.Context, rec Record) {
	for _, s := range m {
		s.Emit(ctx, rec)
	}
}

// Discard drops every record.
var Discard Sink = discard{}

type discard struct{}

func (discard) Emit(context.Context, Record) {}
