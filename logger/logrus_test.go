package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogrus(buf *bytes.Buffer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(buf)
	l.SetFormatter(&logrus.JSONFormatter{})
	return l
}

func TestNewLogrusLogger(t *testing.T) {
	var buf bytes.Buffer

	adapter := NewLogrusLogger(newTestLogrus(&buf), Config{
		LogLevel:      Info,
		SlowThreshold: 100 * time.Millisecond,
	})

	require.NotNil(t, adapter)
	assert.Equal(t, Info, adapter.(*LogrusLogger).LogLevel)
	assert.Equal(t, 100*time.Millisecond, adapter.(*LogrusLogger).SlowThreshold)
}

func TestLogrusLogger_LogMode(t *testing.T) {
	logger := NewLogrusLogger(newTestLogrus(&bytes.Buffer{}), Config{LogLevel: Error})

	infoLogger := logger.LogMode(Info)
	assert.Equal(t, Info, infoLogger.(*LogrusLogger).LogLevel)
	assert.Equal(t, Error, logger.(*LogrusLogger).LogLevel)
}

func TestLogrusLogger_LogLevels(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := NewLogrusLogger(newTestLogrus(&buf), Config{LogLevel: Warn})

	logger.Info(ctx, "hidden info")
	assert.Empty(t, buf.String())

	logger.Warn(ctx, "visible warn", "key", "value")
	assert.Contains(t, buf.String(), "visible warn")
	assert.Contains(t, buf.String(), `"level":"warning"`)

	buf.Reset()
	logger.Error(ctx, "visible error")
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestLogrusLogger_RequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusLogger(newTestLogrus(&buf), Config{LogLevel: Info})

	logger.Info(WithRequestID(context.Background(), "req-42"), "GET /list requested by 127.0.0.1")
	assert.Contains(t, buf.String(), `"request":"req-42"`)
}

func TestLogrusLogger_Trace(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := NewLogrusLogger(newTestLogrus(&buf), Config{
		LogLevel:                  Info,
		SlowThreshold:             time.Millisecond,
		IgnoreRecordNotFoundError: true,
	})

	sql := func() (string, int64) { return "SELECT * FROM `discoveries`", 3 }

	t.Run("success", func(t *testing.T) {
		buf.Reset()
		logger.Trace(ctx, time.Now(), sql, nil)
		assert.Contains(t, buf.String(), "SQL executed")
		assert.Contains(t, buf.String(), `"rows":3`)
	})

	t.Run("error", func(t *testing.T) {
		buf.Reset()
		logger.Trace(ctx, time.Now(), sql, errors.New("no such table"))
		assert.Contains(t, buf.String(), "no such table")
		assert.Contains(t, buf.String(), `"level":"error"`)
	})

	t.Run("record not found ignored", func(t *testing.T) {
		buf.Reset()
		logger.Trace(ctx, time.Now(), sql, ErrRecordNotFound)
		assert.NotContains(t, buf.String(), `"level":"error"`)
	})

	t.Run("slow", func(t *testing.T) {
		buf.Reset()
		logger.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
		assert.Contains(t, buf.String(), "SLOW SQL executed")
	})

	t.Run("silent", func(t *testing.T) {
		buf.Reset()
		logger.LogMode(Silent).Trace(ctx, time.Now(), sql, errors.New("boom"))
		assert.Empty(t, buf.String())
	})
}
