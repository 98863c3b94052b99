package logger

import (
	"github.com/summitaiAU/invoice-lockd/internal/domain/port/core"
)

// NoopLogger is a logger that discards all output. Useful in tests where
// log noise is unwanted.
type NoopLogger struct {
	level core.LogLevel
}

// NewNoopLogger creates a new no-op logger
func NewNoopLogger() core.Logger {
	return &NoopLogger{level: core.LogLevelInfo}
}

// SetLevel sets the minimum log level
func (l *NoopLogger) SetLevel(level core.LogLevel) {
	l.level = level
}

// GetLevel gets the current log level
func (l *NoopLogger) GetLevel() core.LogLevel {
	return l.level
}

// Debug does nothing
func (l *NoopLogger) Debug(message string, fields map[string]any) {}

// Info does nothing
func (l *NoopLogger) Info(message string, fields map[string]any) {}

// Warn does nothing
func (l *NoopLogger) Warn(message string, fields map[string]any) {}

// Error does nothing
func (l *NoopLogger) Error(message string, fields map[string]any) {}

// Flush does nothing
func (l *NoopLogger) Flush() error { return nil }
