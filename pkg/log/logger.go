// Package log provides the structured logging setup shared by the library
// and the CLI, built on zerolog. Errors created by pkg/errors carry
// cockroachdb stack traces; the helpers here surface those traces as a
// dedicated log attribute instead of losing them in the message string.
package log

import (
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// Attribute keys used for the stacktrace extraction below.
const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// New creates a logger writing JSON lines to w at the given level. Unknown
// level strings fall back to info.
func New(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).Level(ToLevel(level)).With().Timestamp().Logger()
}

// NewConsole creates a human-readable logger for interactive CLI runs.
func NewConsole(level string) zerolog.Logger {
	cw := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(cw).Level(ToLevel(level)).With().Timestamp().Logger()
}

// ToLevel converts a level name to a zerolog level.
func ToLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithError attaches err to the event, adding the cockroachdb stack trace
// under a separate attribute when one is present.
func WithError(e *zerolog.Event, err error) *zerolog.Event {
	e = e.AnErr(ErrAttrKey, err)
	if trace := extractStacktrace(err); trace != "" {
		e = e.Str(StacktraceAttrKey, trace)
	}
	return e
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
