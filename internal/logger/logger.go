// Package logger constructs the zerolog loggers used across the service.
// Components receive their logger through their constructor; there is no
// ambient global logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New creates a logger with the given level and format. Level is one of
// zerolog's level strings ("debug", "info", ...); unknown levels fall
// back to info. Format is "json" or "console". A nil out writes to
// stderr.
func New(level, format string, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	if format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// WithComponent derives a component-tagged child logger.
func WithComponent(log zerolog.Logger, component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
