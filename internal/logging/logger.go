// Package logging builds the structured console logger used by the CLI.
package logging

import (
	"io"

	"github.com/rs/zerolog"
)

const timeFormat = "15:04:05"

// Level picks the log level from the verbosity flags. quiet wins over verbose.
func Level(verbose, quiet bool) zerolog.Level {
	switch {
	case quiet:
		return zerolog.ErrorLevel
	case verbose:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

// New returns a timestamped console logger writing to out at the given level.
func New(out io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: timeFormat,
	}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
