package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LevelEnv overrides the log level with a zerolog level name
const LevelEnv = "AWS_SSO_LOGIN_LOG"

// New returns a console logger on stderr. Warnings and errors are shown by
// default, verbose turns on debug output.
func New(verbose bool) zerolog.Logger {
	return NewWithWriter(os.Stderr, verbose, os.Getenv(LevelEnv))
}

func NewWithWriter(w io.Writer, verbose bool, envLevel string) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(Level(verbose, envLevel)).
		With().
		Timestamp().
		Logger()
}

// Level resolves the log level. An unparsable env value is ignored.
func Level(verbose bool, envLevel string) zerolog.Level {
	if envLevel != "" {
		level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(envLevel)))
		if err == nil && level != zerolog.NoLevel {
			return level
		}
	}
	if verbose {
		return zerolog.DebugLevel
	}
	return zerolog.WarnLevel
}
