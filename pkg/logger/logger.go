// Package logger provides logging implementations for chunkhound
package logger

import (
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"

	"github.com/aischolar/chunkhound/pkg/interfaces"
)

// CharmLogger implements interfaces.Logger on top of charmbracelet/log
type CharmLogger struct {
	l *charmlog.Logger
}

// Debug logs debug level messages
func (l *CharmLogger) Debug(msg string, fields ...map[string]interface{}) {
	l.l.Debug(msg, flatten(fields)...)
}

// Info logs info level messages
func (l *CharmLogger) Info(msg string, fields ...map[string]interface{}) {
	l.l.Info(msg, flatten(fields)...)
}

// Warn logs warning level messages
func (l *CharmLogger) Warn(msg string, fields ...map[string]interface{}) {
	l.l.Warn(msg, flatten(fields)...)
}

// Error logs error level messages
func (l *CharmLogger) Error(msg string, err error, fields ...map[string]interface{}) {
	keyvals := flatten(fields)
	if err != nil {
		keyvals = append(keyvals, "error", err)
	}
	l.l.Error(msg, keyvals...)
}

// Fatal logs fatal level messages and exits
func (l *CharmLogger) Fatal(msg string, err error, fields ...map[string]interface{}) {
	keyvals := flatten(fields)
	if err != nil {
		keyvals = append(keyvals, "error", err)
	}
	l.l.Fatal(msg, keyvals...)
}

// WithFields returns a logger with additional fields
func (l *CharmLogger) WithFields(fields map[string]interface{}) interfaces.Logger {
	return &CharmLogger{l: l.l.With(flatten([]map[string]interface{}{fields})...)}
}

// flatten converts field maps into charmbracelet key-value pairs
func flatten(fields []map[string]interface{}) []interface{} {
	var keyvals []interface{}
	for _, fieldMap := range fields {
		for key, value := range fieldMap {
			keyvals = append(keyvals, key, value)
		}
	}
	return keyvals
}

func newCharmLogger(w io.Writer, level charmlog.Level) *CharmLogger {
	return &CharmLogger{
		l: charmlog.NewWithOptions(w, charmlog.Options{
			Level:           level,
			ReportTimestamp: true,
		}),
	}
}

// NewLogger creates a new logger with default settings
func NewLogger() interfaces.Logger {
	return newCharmLogger(os.Stderr, charmlog.InfoLevel)
}

// NewConsoleLogger creates a new console logger at the given level.
// Unknown level strings fall back to info.
func NewConsoleLogger(level string) interfaces.Logger {
	parsed, err := charmlog.ParseLevel(level)
	if err != nil {
		parsed = charmlog.InfoLevel
	}
	return newCharmLogger(os.Stderr, parsed)
}

// NewTestLogger creates a logger for testing
func NewTestLogger() interfaces.Logger {
	return newCharmLogger(io.Discard, charmlog.DebugLevel)
}
