package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration
type Config struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string
	// Output defaults to stderr.
	Output io.Writer
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.InfoLevel,
		Format:     "console",
		TimeFormat: time.RFC3339,
	}
}

// New creates a new zerolog logger with the given configuration
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var output io.Writer = out
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: cfg.TimeFormat,
			// a file or pipe has no use for colour codes
			NoColor: out != os.Stderr,
		}
	}

	return zerolog.New(output).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
}

// ParseLevel maps a level name to a zerolog level. Unknown names return
// fallback.
func ParseLevel(level string, fallback zerolog.Level) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return fallback
	}
}

// NewFromConfigValues creates a logger from configuration strings.
// Unknown formats fall back to console.
func NewFromConfigValues(level, format string) zerolog.Logger {
	return NewFromConfigValuesTo(level, format, nil)
}

// NewFromConfigValuesTo is NewFromConfigValues writing to out.
func NewFromConfigValuesTo(level, format string, out io.Writer) zerolog.Logger {
	cfg := DefaultConfig()
	cfg.Level = ParseLevel(level, cfg.Level)
	if format == "json" {
		cfg.Format = format
	}
	cfg.Output = out
	return New(cfg)
}

// NewFromEnv creates a logger based on environment variables
// DUMBTILE_LOG_LEVEL: trace, debug, info, warn, error (default: info)
// DUMBTILE_LOG_FORMAT: json, console (default: console)
func NewFromEnv() zerolog.Logger {
	cfg := DefaultConfig()

	if level := os.Getenv("DUMBTILE_LOG_LEVEL"); level != "" {
		cfg.Level = ParseLevel(level, cfg.Level)
	}

	if format := os.Getenv("DUMBTILE_LOG_FORMAT"); format != "" {
		switch format {
		case "json", "console":
			cfg.Format = format
		}
	}

	return New(cfg)
}
