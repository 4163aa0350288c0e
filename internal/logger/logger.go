// Package logger configures the global zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init sets the global log level and output. pretty selects the console
// writer; otherwise logs are JSON lines on stderr. An unknown level falls
// back to info.
func Init(level string, pretty bool) {
	InitWithWriter(os.Stderr, level, pretty)
}

// InitWithWriter is Init with an explicit destination.
func InitWithWriter(w io.Writer, level string, pretty bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(ParseLevel(level))

	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// IsTerminal reports whether f is an interactive terminal, including
// Cygwin and MSYS pseudo-terminals.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Divert sends the global logger to w, as JSON lines, until restore is
// called. Level and context fields are kept.
func Divert(w io.Writer) (restore func()) {
	prev := log.Logger
	log.Logger = prev.Output(w)
	return func() { log.Logger = prev }
}

// DivertToFile appends log lines to the file at path until restore is
// called. If the file cannot be opened logs are dropped instead, since the
// caller owns the terminal.
func DivertToFile(path string) (restore func()) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return Divert(io.Discard)
	}
	undo := Divert(f)
	return func() {
		undo()
		_ = f.Close()
	}
}
