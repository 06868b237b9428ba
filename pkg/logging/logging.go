// Package logging provides structured logging configuration and initialization.
// It wraps slog with configurable log levels, output formats, and destinations.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// New creates a configured slog.Logger writing to the stream selected by cfg.Output.
// It returns a text or JSON handler based on the Format setting.
func New(cfg *Config) *slog.Logger {
	return NewWithWriter(cfg, cfg.Output.Writer())
}

// NewWithWriter creates a configured slog.Logger writing to w.
func NewWithWriter(cfg *Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.Level.ToSlogLevel(),
	}

	var handler slog.Handler
	if cfg.Format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Level represents a logging severity level.
type Level string

// Log level constants.
const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Validate checks if the level is a valid logging level.
func (l Level) Validate() error {
	switch l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return nil
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", l)
	}
}

// ToSlogLevel converts the Level to its slog.Level equivalent.
// Unknown levels default to slog.LevelInfo.
func (l Level) ToSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Format represents the log output format.
type Format string

// Log format constants.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Validate checks if the format is a valid logging format.
func (f Format) Validate() error {
	switch f {
	case FormatText, FormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid log format: %s (must be text or json)", f)
	}
}

// Output selects the stream log records are written to.
type Output string

// Log output constants. Stdout is reserved for the sync summary, so
// stderr is the default.
const (
	OutputStderr Output = "stderr"
	OutputStdout Output = "stdout"
)

// Validate checks if the output is a known stream.
func (o Output) Validate() error {
	switch o {
	case OutputStderr, OutputStdout:
		return nil
	default:
		return fmt.Errorf("invalid log output: %s (must be stderr or stdout)", o)
	}
}

// Writer returns the stream for the output. Unknown outputs fall back to stderr.
func (o Output) Writer() io.Writer {
	if o == OutputStdout {
		return os.Stdout
	}
	return os.Stderr
}
