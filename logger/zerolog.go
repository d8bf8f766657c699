package logger

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/autoforms/autoforms/utils"
	"github.com/rs/zerolog"
)

// ZerologLogger implements Interface using zerolog
type ZerologLogger struct {
	Logger                    zerolog.Logger
	LogLevel                  LogLevel
	SlowThreshold             time.Duration
	IgnoreRecordNotFoundError bool
}

// NewZerologLogger creates a new logger using zerolog
func NewZerologLogger(logger zerolog.Logger, config Config) Interface {
	return &ZerologLogger{
		Logger:                    logger,
		LogLevel:                  config.LogLevel,
		SlowThreshold:             config.SlowThreshold,
		IgnoreRecordNotFoundError: config.IgnoreRecordNotFoundError,
	}
}

// NewZerologLoggerWithConfig creates a zerolog logger writing to stdout,
// through a console writer when config.Colorful is set
func NewZerologLoggerWithConfig(config Config) Interface {
	var logger zerolog.Logger
	if config.Colorful {
		logger = zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = os.Stdout
			w.TimeFormat = time.RFC3339
		}))
	} else {
		logger = zerolog.New(os.Stdout)
	}

	return NewZerologLogger(logger.Level(ZerologLevel(config.LogLevel)).With().Timestamp().Logger(), config)
}

// LogMode sets the log level
func (l *ZerologLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *ZerologLogger) decorate(ctx context.Context, event *zerolog.Event, data []interface{}) *zerolog.Event {
	event = event.Str("file", utils.FileWithLineNum())
	if len(data) > 0 {
		event = event.Interface("data", data)
	}
	if id := RequestID(ctx); id != "" {
		event = event.Str("request", id)
	}
	if ctx != nil {
		event = event.Ctx(ctx)
	}
	return event
}

// Info logs info messages
func (l *ZerologLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Info {
		l.decorate(ctx, l.Logger.Info(), data).Msg(msg)
	}
}

// Warn logs warning messages
func (l *ZerologLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Warn {
		l.decorate(ctx, l.Logger.Warn(), data).Msg(msg)
	}
}

// Error logs error messages
func (l *ZerologLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Error {
		l.decorate(ctx, l.Logger.Error(), data).Msg(msg)
	}
}

// Trace logs SQL execution details
func (l *ZerologLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.LogLevel <= Silent {
		return
	}

	elapsed, duration := elapsedMillis(begin)
	sql, rows := fc()

	var event *zerolog.Event
	switch {
	case err != nil && l.LogLevel >= Error && (!l.IgnoreRecordNotFoundError || !errors.Is(err, ErrRecordNotFound)):
		event = l.Logger.Error().Err(err)
	case l.SlowThreshold != 0 && elapsed > l.SlowThreshold && l.LogLevel >= Warn:
		event = l.Logger.Warn().Str("slow_threshold", l.SlowThreshold.String())
	case l.LogLevel >= Info:
		event = l.Logger.Info()
	default:
		return
	}

	event = l.decorate(ctx, event, nil).
		Str("duration", duration).
		Str("sql", sql)
	if rows != -1 {
		event = event.Int64("rows", rows)
	}

	event.Msg("SQL executed")
}

// ZerologLevel converts LogLevel to zerolog.Level
func ZerologLevel(level LogLevel) zerolog.Level {
	switch level {
	case Silent:
		return zerolog.Disabled
	case Error:
		return zerolog.ErrorLevel
	case Warn:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
