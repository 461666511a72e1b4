package edgeauthz

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	var logger Logger = slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("info message", "reason", "no_cookie")
	assert.Contains(t, buf.String(), "reason=no_cookie")
}

func TestZapLogger(t *testing.T) {
	// Create a zap logger that we can observe
	core, recorded := observer.New(zapcore.InfoLevel)
	zapLogger := zap.New(core)

	logger := NewZapLogger(zapLogger.Sugar())

	logger.Debug("debug message", "key", "value")
	assert.Equal(t, 0, recorded.Len(), "Debug message should not be recorded at Info level")

	logger.Info("info message", "key", "value")
	assert.Equal(t, 1, recorded.Len(), "Info message should be recorded")
	assert.Equal(t, "info message", recorded.All()[0].Message)
	assert.Equal(t, map[string]any{"key": "value"}, recorded.All()[0].ContextMap())

	logger.Warn("warn message")
	assert.Equal(t, 2, recorded.Len(), "Warn message should be recorded")
	assert.Equal(t, zapcore.WarnLevel, recorded.All()[1].Level)

	logger.Error("error message")
	assert.Equal(t, 3, recorded.Len(), "Error message should be recorded")
	assert.Equal(t, zapcore.ErrorLevel, recorded.All()[2].Level)
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf))

	logger.Debug("debug message", "key", "value")
	logger.Info("info message", "count", 2)
	logger.Warn("warn message", "error", errors.New("boom"))
	logger.Error("error message")

	output := buf.String()
	assert.Contains(t, output, `"message":"debug message"`)
	assert.Contains(t, output, `"key":"value"`)
	assert.Contains(t, output, `"count":2`)
	assert.Contains(t, output, `"error":"boom"`)
	assert.Contains(t, output, `"level":"warn"`)
	assert.Contains(t, output, `"message":"error message"`)
}

func TestLogrusLogger(t *testing.T) {
	var buf bytes.Buffer

	logrusLogger := logrus.New()
	logrusLogger.Out = &buf
	logrusLogger.Formatter = &logrus.JSONFormatter{}
	logrusLogger.Level = logrus.InfoLevel

	logger := NewLogrusLogger(logrusLogger)

	logger.Debug("debug message")
	logger.Info("info message", "role_arn", "arn:aws:iam::000000000000:role/R1")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()

	// Debug level should not be logged at InfoLevel
	assert.NotContains(t, output, "debug message", "Debug messages should not be logged at Info level")

	assert.Contains(t, output, `"msg":"info message"`)
	assert.Contains(t, output, `"role_arn":"arn:aws:iam::000000000000:role/R1"`)
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")

	buf.Reset()
	logrusLogger.Level = logrus.DebugLevel

	logger.Debug("debug message")
	assert.Contains(t, buf.String(), "debug message", "Debug messages should be logged at Debug level")
}

func Test_fields(t *testing.T) {
	testCases := []struct {
		name string
		args []any
		want map[string]any
	}{
		{name: "none", want: map[string]any{}},
		{name: "pairs", args: []any{"a", 1, "b", "two"}, want: map[string]any{"a": 1, "b": "two"}},
		{name: "non-string key", args: []any{42, "x"}, want: map[string]any{"42": "x"}},
		{name: "errors become messages", args: []any{"error", errors.New("boom")}, want: map[string]any{"error": "boom"}},
		{name: "dangling value", args: []any{"a", 1, "orphan"}, want: map[string]any{"a": 1, "!BADKEY": "orphan"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, fields(testCase.args))
		})
	}
}
