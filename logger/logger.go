package logger

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrRecordNotFound is skipped by Trace when IgnoreRecordNotFoundError is set
var ErrRecordNotFound = gorm.ErrRecordNotFound

// LogLevel log level
type LogLevel int

const (
	// Silent silent log level
	Silent LogLevel = iota + 1
	// Error error log level
	Error
	// Warn warn log level
	Warn
	// Info info log level
	Info
)

// Config logger config
type Config struct {
	LogLevel                  LogLevel
	SlowThreshold             time.Duration
	IgnoreRecordNotFoundError bool
	Colorful                  bool
}

// Interface logger interface
type Interface interface {
	LogMode(LogLevel) Interface
	Info(context.Context, string, ...interface{})
	Warn(context.Context, string, ...interface{})
	Error(context.Context, string, ...interface{})
	Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error)
}

// DefaultLogLevel default log level, overridden by AUTOFORMS_LOG_LEVEL
var DefaultLogLevel = Info

// Default default logger
var Default Interface

func init() {
	if level, err := ParseLevel(os.Getenv("AUTOFORMS_LOG_LEVEL")); err == nil {
		DefaultLogLevel = level
	}

	Default = NewLogrusLogger(logrus.StandardLogger(), Config{
		LogLevel:                  DefaultLogLevel,
		SlowThreshold:             200 * time.Millisecond,
		IgnoreRecordNotFoundError: true,
	})
}

// ParseLevel parses silent, error, warn or info; empty means the default level
func ParseLevel(level string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return Silent, nil
	case "error":
		return Error, nil
	case "warn", "warning":
		return Warn, nil
	case "info", "":
		return Info, nil
	}
	return 0, fmt.Errorf("unknown log level %q", level)
}

// Backends lists the names accepted by New
var Backends = []string{"logrus", "zap", "zerolog", "slog"}

// New creates a logger for the named backend writing to stdout
func New(backend string, config Config) (Interface, error) {
	switch strings.ToLower(backend) {
	case "", "logrus":
		l := logrus.New()
		l.SetOutput(os.Stdout)
		l.SetLevel(LogrusLevel(config.LogLevel))
		if !config.Colorful {
			l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
		}
		return NewLogrusLogger(l, config), nil
	case "zap":
		return NewZapLoggerWithConfig(config), nil
	case "zerolog":
		return NewZerologLoggerWithConfig(config), nil
	case "slog":
		return NewSlogLoggerWithConfig(config), nil
	}
	return nil, fmt.Errorf("unknown log backend %q, expected one of %s", backend, strings.Join(Backends, ", "))
}

type requestIDKey struct{}

// WithRequestID attaches a request id that every backend adds to its entries
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id attached with WithRequestID
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func elapsedMillis(begin time.Time) (time.Duration, string) {
	elapsed := time.Since(begin)
	return elapsed, fmt.Sprintf("%.3fms", float64(elapsed.Nanoseconds())/1e6)
}
