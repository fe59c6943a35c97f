package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestLogger is a Logger whose messages are captured for assertions and
// mirrored to the test output.
type TestLogger struct {
	*Logger
	t    *testing.T
	logs *observer.ObservedLogs
}

type testingWriter struct {
	t *testing.T
}

func (tw testingWriter) Write(p []byte) (int, error) {
	tw.t.Log(string(p))
	return len(p), nil
}

func (tw testingWriter) Sync() error { return nil }

func NewTestLogger(t *testing.T) *TestLogger {
	observed, logs := observer.New(zapcore.DebugLevel)
	mirror := zapcore.NewCore(
		zapcore.NewConsoleEncoder(baseEncoderConfig()),
		testingWriter{t: t},
		zapcore.DebugLevel,
	)
	return &TestLogger{
		Logger: &Logger{Logger: zap.New(zapcore.NewTee(observed, mirror))},
		t:      t,
		logs:   logs,
	}
}

// GetLogs returns the raw messages logged so far.
func (tl *TestLogger) GetLogs() []string {
	entries := tl.logs.All()
	msgs := make([]string, 0, len(entries))
	for _, e := range entries {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

