package pkg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// GormLogger routes gorm's SQL tracing into slog
type GormLogger struct {
	logger        *slog.Logger
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger(logger *slog.Logger, level slog.Level) gormLogger.Interface {
	if logger == nil {
		logger = slog.Default()
	}

	gormLevel := gormLogger.Warn
	if level <= slog.LevelDebug {
		gormLevel = gormLogger.Info
	}

	return &GormLogger{
		logger:        logger.With("component", "gorm"),
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLevel,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	clone := *l
	clone.LogLevel = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		l.logger.InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		l.logger.WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		l.logger.ErrorContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	attrs := []any{
		"file", utils.FileWithLineNum(),
		"elapsed", elapsed,
		"rows", rows,
		"sql", sql,
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.LogLevel >= gormLogger.Error:
		l.logger.ErrorContext(ctx, "SQL error", append(attrs, "error", err)...)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		l.logger.WarnContext(ctx, "Slow SQL", attrs...)
	case l.LogLevel >= gormLogger.Info:
		l.logger.DebugContext(ctx, "SQL", attrs...)
	}
}
