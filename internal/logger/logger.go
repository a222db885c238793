// Package logger provides configured zerolog loggers.
package logger

import (
	"io"
	"os"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

type stackTracer interface{ StackTrace() pkgerrors.StackTrace }

func configureStacks() {
	// Marshal pkg/errors stacks when present and attach one to std errors
	// when .Stack() is used.
	zerolog.ErrorStackMarshaler = func(err error) interface{} {
		if _, ok := err.(stackTracer); !ok {
			err = pkgerrors.WithStack(err)
		}
		return zpkgerrors.MarshalStack(err)
	}
	zerolog.ErrorMarshalFunc = func(err error) interface{} {
		if _, ok := err.(stackTracer); ok {
			return err
		}
		return pkgerrors.WithStack(err)
	}
}

// New returns a JSON logger on w tagged with serviceName. A nil w selects
// stdout. Call sites should use .Stack() on error events to include stacks.
func New(w io.Writer, serviceName string, level string) zerolog.Logger {
	configureStacks()
	if w == nil {
		w = os.Stdout
	}
	return zerolog.New(w).Level(parseLevel(level)).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}

// NewConsole returns a human-readable logger on w at the named level.
// Unknown levels fall back to info.
func NewConsole(w io.Writer, level string) zerolog.Logger {
	configureStacks()
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
