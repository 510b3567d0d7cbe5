package config

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger builds the process logger. It always writes to stderr since
// stdout carries the MCP stdio stream.
func NewLogger(l Log) *slog.Logger {
	return newLogger(l, os.Stderr)
}

func newLogger(l Log, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.level()}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (l Log) level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
