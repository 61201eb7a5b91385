package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger represents the application logger. It writes to stderr so that
// command output on stdout stays machine-readable.
type Logger struct {
	*slog.Logger
}

// New creates a new Logger instance with the specified level.
func New(level int) *Logger {
	return NewWithOutput(level, os.Stderr)
}

// NewWithOutput creates a Logger writing to the given sink.
func NewWithOutput(level int, w io.Writer) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.Level(level)})),
	}
}

// Fatal is equivalent to Error followed by os.Exit(1).
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}
