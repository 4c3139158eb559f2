// Package logging provides the structured run logger and the per-invocation
// log file of the staircase CLI.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Level aliases for slog levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Logger is the structured logger handed to runs. Records carry key/value
// pairs, never preformatted text.
type Logger struct {
	*slog.Logger
}

// Config selects the level, destination and record format.
type Config struct {
	Level   slog.Level
	Output  io.Writer
	Enabled bool

	// JSON writes one JSON object per record instead of key=value text.
	JSON bool
}

// New creates a logger from cfg. A disabled config yields Discard().
func New(cfg Config) *Logger {
	if !cfg.Enabled {
		return Discard()
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}
	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}
	return &Logger{Logger: slog.New(handler)}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithPrefix nests every attribute of the returned logger under prefix.
func (l *Logger) WithPrefix(prefix string) *Logger {
	return &Logger{
		Logger: l.WithGroup(prefix),
	}
}

// WithRun tags every record with a run ID and condition.
func (l *Logger) WithRun(runID, condition string) *Logger {
	return &Logger{
		Logger: l.With("run_id", runID, "condition", condition),
	}
}
