package app

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// LogFormat selects the log line encoding.
type LogFormat string

// Supported log formats.
const (
	LogFormatText   LogFormat = "text"
	LogFormatJSON   LogFormat = "json"
	LogFormatLogfmt LogFormat = "logfmt"
)

// LoggerConfig configures the logger.
type LoggerConfig struct {
	// Level is the minimum log level to output.
	Level log.Level
	// Output is where logs are written. Defaults to os.Stderr.
	Output io.Writer
	// Prefix is prepended to all log messages.
	Prefix string
	// Format is the line encoding. Defaults to text.
	Format LogFormat
	// Timestamps adds a timestamp to every line.
	Timestamps bool
}

// DefaultLoggerConfig returns the default logger configuration.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:  log.InfoLevel,
		Output: os.Stderr,
		Prefix: "wimgen",
		Format: LogFormatText,
	}
}

// ParseLogLevel parses a level name. "warning" is accepted for warn.
func ParseLogLevel(s string) (log.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	level, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// NewLogger creates a logger with the given configuration.
func NewLogger(cfg LoggerConfig) *log.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	opts := log.Options{
		Level:           cfg.Level,
		Prefix:          cfg.Prefix,
		ReportTimestamp: cfg.Timestamps,
		TimeFormat:      time.TimeOnly,
	}
	switch cfg.Format {
	case LogFormatJSON:
		opts.Formatter = log.JSONFormatter
	case LogFormatLogfmt:
		opts.Formatter = log.LogfmtFormatter
	default:
		opts.Formatter = log.TextFormatter
	}
	return log.NewWithOptions(cfg.Output, opts)
}

// NullLogger returns a logger that discards all output.
func NullLogger() *log.Logger {
	return log.New(io.Discard)
}

// WithComponent returns a logger with the component field set.
func WithComponent(l *log.Logger, component string) *log.Logger {
	return l.With("component", component)
}
