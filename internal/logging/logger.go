// Package logging configures the process-wide zerolog logger.
//
// Request handlers should not use the global logger directly: the request
// logging middleware attaches a request-scoped logger to the context, which is
// retrieved with zerolog.Ctx(ctx) and already carries the request id.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init sets the global level and output format. Unknown levels fall back to info.
func Init(level, format string) {
	Configure(os.Stderr, level, format)
}

// Configure is Init with an explicit writer, used by tests.
func Configure(w io.Writer, level, format string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	logger := zerolog.New(out).With().Timestamp().Logger()
	log.Logger = logger
	// zerolog.Ctx falls back to this logger when no request logger is attached.
	zerolog.DefaultContextLogger = &log.Logger
}
