package infra

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger aliases zerolog.Logger so callers can share the logging contract.
type Logger = zerolog.Logger

// NewLogger builds the service logger: human readable in development,
// JSON elsewhere, silent under test.
func NewLogger(appEnv string) Logger {
	return newLogger(appEnv, os.Stdout)
}

func newLogger(appEnv string, out io.Writer) Logger {
	level := zerolog.InfoLevel
	switch appEnv {
	case "development", "cli":
		level = zerolog.DebugLevel
	case "test":
		level = zerolog.Disabled
	}

	if appEnv == "development" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "campaigngen").
		Logger()
}

// NewCLILogger writes human readable lines to stderr so command output on
// stdout stays clean. Only warnings and errors show unless verbose is set.
func NewCLILogger(verbose bool) Logger {
	l := newLogger("cli", zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	if !verbose {
		l = l.Level(zerolog.WarnLevel)
	}
	return l
}
