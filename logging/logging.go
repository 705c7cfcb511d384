// Package logging provides the structured logging configuration shared by
// every component of the core. It wraps log/slog the way a small CLI tool
// would: string-driven level/format selection with sentinel errors, so the
// outer layer can thread --log-level/--log-format style configuration
// straight through without the core depending on a flag library.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Format is the log output encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatLogfmt  Format = "logfmt"
	FormatConsole Format = "console"
)

var (
	ErrUnknownLogLevel  = errors.New("unknown log level")
	ErrUnknownLogFormat = errors.New("unknown log format")
)

// Config holds the level/format pair the outer layer resolves (from flags,
// environment, or a config file) before constructing a logger.
type Config struct {
	Level  string
	Format string
}

// DefaultConfig returns the core's default logging configuration.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "console"}
}

// NewLogger builds a *slog.Logger writing to w per the resolved Config.
func (c Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	format, err := ParseFormat(c.Format)
	if err != nil {
		return nil, err
	}
	return slog.New(NewHandler(w, level, format)), nil
}

// NewHandler creates a slog.Handler for the given level and format.
func NewHandler(w io.Writer, level slog.Level, format Format) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case FormatJSON:
		return slog.NewJSONHandler(w, opts)
	case FormatLogfmt, FormatConsole:
		return slog.NewTextHandler(w, opts)
	default:
		return slog.NewTextHandler(w, opts)
	}
}

// ParseLevel parses a case-insensitive level string.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "error":
		return slog.LevelError, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLogLevel, level)
}

// ParseFormat parses a case-insensitive format string.
func ParseFormat(format string) (Format, error) {
	f := Format(strings.ToLower(format))
	switch f {
	case FormatJSON, FormatLogfmt, FormatConsole, "":
		if f == "" {
			return FormatConsole, nil
		}
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLogFormat, format)
}

// Component attrs added consistently by callers logging around a named
// subsystem, e.g. logger.With(logging.Component("coordinator")).
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
