package utils

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"gorm.io/gorm/logger"
)

// QueryLogger wraps a GORM logger, muting high-frequency queries and
// tagging each traced statement with the application code that issued it.
type QueryLogger struct {
	logger.Interface
	mutedPatterns []string
}

// NewQueryLogger mutes any query whose SQL contains one of the patterns
func NewQueryLogger(base logger.Interface, mutedPatterns ...string) *QueryLogger {
	return &QueryLogger{Interface: base, mutedPatterns: mutedPatterns}
}

func (l *QueryLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &QueryLogger{
		Interface:     l.Interface.LogMode(level),
		mutedPatterns: l.mutedPatterns,
	}
}

func (l *QueryLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	sql, rows := fc()
	for _, pattern := range l.mutedPatterns {
		if strings.Contains(sql, pattern) {
			return
		}
	}

	origin := queryOrigin()
	l.Interface.Trace(ctx, begin, func() (string, int64) {
		if origin == "" {
			return sql, rows
		}
		return fmt.Sprintf("[%s] %s", origin, sql), rows
	}, err)
}

// queryOrigin walks up the stack past GORM and the database package to the
// first application frame
func queryOrigin() string {
	pcs := make([]uintptr, 12)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if !isInfraFrame(frame.File) {
			name := frame.Function
			if idx := strings.LastIndexByte(name, '.'); idx != -1 {
				name = name[idx+1:]
			}
			return fmt.Sprintf("%s %s:%d", name, frame.File, frame.Line)
		}
		if !more {
			return ""
		}
	}
}

func isInfraFrame(file string) bool {
	return strings.Contains(file, "gorm.io") ||
		strings.Contains(file, "internal/database") ||
		strings.Contains(file, "internal/utils")
}
