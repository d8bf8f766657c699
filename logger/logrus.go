package logger

import (
	"context"
	"errors"
	"time"

	"github.com/autoforms/autoforms/utils"
	"github.com/sirupsen/logrus"
)

// LogrusLogger implements Interface using logrus
type LogrusLogger struct {
	Logger                    *logrus.Logger
	LogLevel                  LogLevel
	SlowThreshold             time.Duration
	IgnoreRecordNotFoundError bool
}

// NewLogrusLogger creates a new logger using logrus
func NewLogrusLogger(logger *logrus.Logger, config Config) Interface {
	return &LogrusLogger{
		Logger:                    logger,
		LogLevel:                  config.LogLevel,
		SlowThreshold:             config.SlowThreshold,
		IgnoreRecordNotFoundError: config.IgnoreRecordNotFoundError,
	}
}

// LogMode sets the log level
func (l *LogrusLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *LogrusLogger) entry(ctx context.Context, data []interface{}) *logrus.Entry {
	fields := logrus.Fields{
		"file": utils.FileWithLineNum(),
	}
	if len(data) > 0 {
		fields["data"] = data
	}
	if id := RequestID(ctx); id != "" {
		fields["request"] = id
	}
	entry := l.Logger.WithFields(fields)
	if ctx != nil {
		entry = entry.WithContext(ctx)
	}
	return entry
}

// Info logs info messages
func (l *LogrusLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Info {
		l.entry(ctx, data).Info(msg)
	}
}

// Warn logs warning messages
func (l *LogrusLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Warn {
		l.entry(ctx, data).Warn(msg)
	}
}

// Error logs error messages
func (l *LogrusLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Error {
		l.entry(ctx, data).Error(msg)
	}
}

// Trace logs SQL execution details
func (l *LogrusLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.LogLevel <= Silent {
		return
	}

	elapsed, duration := elapsedMillis(begin)
	sql, rows := fc()

	entry := l.entry(ctx, nil).WithFields(logrus.Fields{
		"duration": duration,
		"sql":      sql,
	})
	if rows != -1 {
		entry = entry.WithField("rows", rows)
	}

	switch {
	case err != nil && l.LogLevel >= Error && (!l.IgnoreRecordNotFoundError || !errors.Is(err, ErrRecordNotFound)):
		entry.WithField("error", err.Error()).Error("SQL executed")
	case l.SlowThreshold != 0 && elapsed > l.SlowThreshold && l.LogLevel >= Warn:
		entry.WithField("slow_threshold", l.SlowThreshold.String()).Warn("SLOW SQL executed")
	case l.LogLevel >= Info:
		entry.Info("SQL executed")
	}
}

// LogrusLevel converts LogLevel to logrus.Level
func LogrusLevel(level LogLevel) logrus.Level {
	switch level {
	case Silent:
		return logrus.PanicLevel
	case Error:
		return logrus.ErrorLevel
	case Warn:
		return logrus.WarnLevel
	default:
		return logrus.InfoLevel
	}
}
