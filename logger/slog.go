package logger

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/autoforms/autoforms/utils"
)

type slogLogger struct {
	Logger                    *slog.Logger
	LogLevel                  LogLevel
	SlowThreshold             time.Duration
	IgnoreRecordNotFoundError bool
}

// NewSlogLogger creates a new logger using log/slog
func NewSlogLogger(logger *slog.Logger, config Config) Interface {
	return &slogLogger{
		Logger:                    logger,
		LogLevel:                  config.LogLevel,
		SlowThreshold:             config.SlowThreshold,
		IgnoreRecordNotFoundError: config.IgnoreRecordNotFoundError,
	}
}

// NewSlogLoggerWithConfig creates a slog logger with a JSON handler on stdout
func NewSlogLoggerWithConfig(config Config) Interface {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true, Level: SlogLevel(config.LogLevel)})
	return NewSlogLogger(slog.New(handler), config)
}

func (l *slogLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *slogLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Info {
		l.log(ctx, slog.LevelInfo, msg, l.attrs(ctx, data)...)
	}
}

func (l *slogLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Warn {
		l.log(ctx, slog.LevelWarn, msg, l.attrs(ctx, data)...)
	}
}

func (l *slogLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Error {
		l.log(ctx, slog.LevelError, msg, l.attrs(ctx, data)...)
	}
}

func (l *slogLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.LogLevel <= Silent {
		return
	}

	elapsed, duration := elapsedMillis(begin)
	sql, rows := fc()
	fields := []slog.Attr{
		slog.String("duration", duration),
		slog.String("sql", sql),
	}
	if rows != -1 {
		fields = append(fields, slog.Int64("rows", rows))
	}

	switch {
	case err != nil && l.LogLevel >= Error && (!l.IgnoreRecordNotFoundError || !errors.Is(err, ErrRecordNotFound)):
		fields = append(fields, slog.String("error", err.Error()))
		l.log(ctx, slog.LevelError, "SQL executed", append(l.attrs(ctx, nil), slog.Attr{Key: "trace", Value: slog.GroupValue(fields...)})...)
	case l.SlowThreshold != 0 && elapsed > l.SlowThreshold && l.LogLevel >= Warn:
		fields = append(fields, slog.String("slow_threshold", l.SlowThreshold.String()))
		l.log(ctx, slog.LevelWarn, "SLOW SQL executed", append(l.attrs(ctx, nil), slog.Attr{Key: "trace", Value: slog.GroupValue(fields...)})...)
	case l.LogLevel >= Info:
		l.log(ctx, slog.LevelInfo, "SQL executed", append(l.attrs(ctx, nil), slog.Attr{Key: "trace", Value: slog.GroupValue(fields...)})...)
	}
}

func (l *slogLogger) attrs(ctx context.Context, data []interface{}) []any {
	var attrs []any
	if len(data) > 0 {
		attrs = append(attrs, slog.Any("data", data))
	}
	if id := RequestID(ctx); id != "" {
		attrs = append(attrs, slog.String("request", id))
	}
	return attrs
}

func (l *slogLogger) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if ctx == nil {
		ctx = context.Background()
	}

	if !l.Logger.Enabled(ctx, level) {
		return
	}

	r := slog.NewRecord(time.Now(), level, msg, utils.CallerFrame().PC)
	r.Add(args...)
	_ = l.Logger.Handler().Handle(ctx, r)
}

// SlogLevel converts LogLevel to slog.Level
func SlogLevel(level LogLevel) slog.Level {
	switch level {
	case Silent:
		return slog.LevelError + 4
	case Error:
		return slog.LevelError
	case Warn:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
