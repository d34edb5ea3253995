package logger

import (
	"io"
	"log"
)

// Logger defines the interface for logging
type Logger interface {
	Log(format string, args ...interface{})
}

// NoopLogger implements a no-op logger
type NoopLogger struct{}

func (l *NoopLogger) Log(format string, args ...interface{}) {}

// StdLogger writes through a standard library log.Logger.
type StdLogger struct {
	l *log.Logger
}

// NewStdLogger returns a logger writing to w with the given prefix.
func NewStdLogger(w io.Writer, prefix string) *StdLogger {
	return &StdLogger{l: log.New(w, prefix, 0)}
}

func (s *StdLogger) Log(format string, args ...interface{}) {
	s.l.Printf(format, args...)
}

// DefaultLogger is the default logger instance
var DefaultLogger Logger = &NoopLogger{}

// SetLogger sets the default logger
func SetLogger(l Logger) {
	if l == nil {
		l = &NoopLogger{}
	}
	DefaultLogger = l
}

// Log logs a message using the default logger
func Log(format string, args ...interface{}) {
	DefaultLogger.Log(format, args...)
}
