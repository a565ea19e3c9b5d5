package infra

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger aliases zerolog.Logger so packages outside infra log through one type.
type Logger = zerolog.Logger

// NewLogger builds the process logger tagged with service. An explicit level
// ("debug", "warn", ...) wins; otherwise development logs at debug and every
// other environment at info. Development renders through a console writer.
func NewLogger(appEnv, level, service string) Logger {
	return newLogger(os.Stdout, appEnv, level, service)
}

func newLogger(out io.Writer, appEnv, level, service string) Logger {
	dev := appEnv == "development"
	if dev {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).
		Level(resolveLevel(dev, level)).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}

func resolveLevel(dev bool, raw string) zerolog.Level {
	if raw = strings.TrimSpace(raw); raw != "" {
		if lvl, err := zerolog.ParseLevel(strings.ToLower(raw)); err == nil && lvl != zerolog.NoLevel {
			return lvl
		}
	}
	if dev {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
