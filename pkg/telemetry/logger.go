// Package telemetry builds the zerolog loggers and prometheus metrics used by
// forms and the CLI.
package telemetry

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogConfig selects where and how logs are written.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error. Defaults to info.
	Level string
	// Format is "console" or "json". Defaults to json.
	Format string
	// Output is stdout, stderr or a file path. Defaults to stderr.
	Output string
	// Writer overrides Output when set.
	Writer io.Writer
}

// NewLogger builds a logger from cfg.
func NewLogger(cfg LogConfig) (zerolog.Logger, error) {
	writer := cfg.Writer
	if writer == nil {
		switch cfg.Output {
		case "", "stderr":
			writer = os.Stderr
		case "stdout":
			writer = os.Stdout
		default:
			file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return zerolog.Nop(), err
			}
			writer = file
		}
	}

	if cfg.Format == "console" {
		writer = zerolog.ConsoleWriter{
			Out:        writer,
			TimeFormat: time.Kitchen,
		}
	}

	return zerolog.New(writer).
		With().
		Timestamp().
		Logger().
		Level(parseLevel(cfg.Level)), nil
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
