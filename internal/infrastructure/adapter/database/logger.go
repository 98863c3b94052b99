package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	coreport "github.com/summitaiAU/invoice-lockd/internal/domain/port/core"
)

// DatabaseLogger adapts GORM's logger interface onto the core logger
type DatabaseLogger struct {
	coreLogger    coreport.Logger
	logLevel      logger.LogLevel
	slowThreshold time.Duration
}

// NewDatabaseLogger creates a GORM logger at the given level
func NewDatabaseLogger(coreLogger coreport.Logger, level string) logger.Interface {
	var logLevel logger.LogLevel
	switch strings.ToLower(level) {
	case "silent":
		logLevel = logger.Silent
	case "error":
		logLevel = logger.Error
	case "warn":
		logLevel = logger.Warn
	default:
		logLevel = logger.Info
	}

	return &DatabaseLogger{
		coreLogger:    coreLogger,
		logLevel:      logLevel,
		slowThreshold: 200 * time.Millisecond,
	}
}

// LogMode returns a copy of the logger with the given level
func (l *DatabaseLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.logLevel = level
	return &clone
}

// Info logs informational messages from GORM
func (l *DatabaseLogger) Info(_ context.Context, msg string, args ...any) {
	if l.logLevel < logger.Info {
		return
	}
	l.coreLogger.Info(fmt.Sprintf(msg, args...), map[string]any{"source": "gorm"})
}

// Warn logs warning messages from GORM
func (l *DatabaseLogger) Warn(_ context.Context, msg string, args ...any) {
	if l.logLevel < logger.Warn {
		return
	}
	l.coreLogger.Warn(fmt.Sprintf(msg, args...), map[string]any{"source": "gorm"})
}

// Error logs error messages from GORM
func (l *DatabaseLogger) Error(_ context.Context, msg string, args ...any) {
	if l.logLevel < logger.Error {
		return
	}
	l.coreLogger.Error(fmt.Sprintf(msg, args...), map[string]any{"source": "gorm"})
}

// Trace logs SQL execution, highlighting slow queries and errors
func (l *DatabaseLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.logLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := map[string]any{
		"source":     "gorm",
		"sql":        sql,
		"rows":       rows,
		"elapsed_ms": elapsed.Milliseconds(),
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.logLevel >= logger.Error:
		fields["error"] = err.Error()
		l.coreLogger.Error("Query failed", fields)
	case elapsed > l.slowThreshold && l.logLevel >= logger.Warn:
		fields["slow_threshold_ms"] = l.slowThreshold.Milliseconds()
		l.coreLogger.Warn("Slow query", fields)
	case l.logLevel >= logger.Info:
		l.coreLogger.Debug("Query executed", fields)
	}
}
