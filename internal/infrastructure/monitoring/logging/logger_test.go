package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewLoggerFromCore(core), logs
}

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console", ""} {
		l, err := NewLogger(LogConfig{Level: LevelInfo, Format: format, OutputPaths: []string{"stdout"}})
		require.NoError(t, err, format)
		assert.NotNil(t, l)
	}
}

func TestNewLogger_EmptyOutputPathsRejected(t *testing.T) {
	l, err := NewLogger(LogConfig{OutputPaths: []string{}})
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestNewDefaultAndDevelopmentLoggers(t *testing.T) {
	assert.NotNil(t, NewDefaultLogger())
	assert.NotNil(t, NewDevelopmentLogger())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel(" warn "))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
	assert.Equal(t, LevelInfo, ParseLevel(""))
}

func TestZapLogger_FieldsAreEncoded(t *testing.T) {
	l, logs := newObservedLogger(zapcore.DebugLevel)

	l.Info("office resolved",
		String("benefit_type", "PIP"),
		Int("matches", 1),
		CaseID(1234),
		EventType("caseUpdated"),
		Bool("default", true),
		Duration("took", time.Millisecond),
		Any("codes", []string{"3"}),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "office resolved", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "PIP", ctx["benefit_type"])
	assert.Equal(t, int64(1), ctx["matches"])
	assert.Equal(t, int64(1234), ctx["case_id"])
	assert.Equal(t, "caseUpdated", ctx["event_type"])
	assert.Equal(t, true, ctx["default"])
}

func TestZapLogger_WithAndNamed(t *testing.T) {
	l, logs := newObservedLogger(zapcore.DebugLevel)

	child := l.Named("dwp").With(String("component", "resolver"))
	child.Warn("no match")
	l.WithError(errors.New("boom")).Error("failed")

	require.Equal(t, 2, logs.Len())
	first := logs.All()[0]
	assert.Equal(t, "dwp", first.LoggerName)
	assert.Equal(t, "resolver", first.ContextMap()["component"])
	assert.Equal(t, zapcore.WarnLevel, first.Level)

	second := logs.All()[1]
	assert.Equal(t, "boom", second.ContextMap()["error"])
}

func TestZapLogger_LevelFiltering(t *testing.T) {
	l, logs := newObservedLogger(zapcore.InfoLevel)
	l.Debug("hidden")
	l.Info("shown")
	assert.Equal(t, 1, logs.FilterMessage("shown").Len())
	assert.Equal(t, 0, logs.FilterMessage("hidden").Len())
}

func TestZapLogger_SetLevel(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: LevelInfo})
	require.NoError(t, err)

	ctl, ok := l.(LevelController)
	require.True(t, ok)
	ctl.SetLevel(LevelError)

	zl := l.(*zapLogger)
	assert.Equal(t, zapcore.ErrorLevel, zl.level.Level())

	child := l.Named("child").(*zapLogger)
	assert.Equal(t, zapcore.ErrorLevel, child.level.Level())
}

func TestErr_Nil(t *testing.T) {
	assert.Equal(t, "<nil>", Err(nil).Value)
	assert.Equal(t, "boom", Err(errors.New("boom")).Value)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Debug("msg")
		l.Info("msg")
		l.Warn("msg")
		l.Error("msg")
		l.With(String("k", "v")).Named("x").WithError(nil).Info("msg")
	})
	assert.NoError(t, l.Sync())
}

func TestDefaultLogger(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l, logs := newObservedLogger(zapcore.DebugLevel)
	SetDefault(l)
	SetDefault(nil)
	Default().Info("via default")
	assert.Equal(t, 1, logs.Len())
}
