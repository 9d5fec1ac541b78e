package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbosity  int
	}{
		{"json info", true, VerbosityInfo},
		{"console quiet", false, VerbosityQuiet},
		{"console debug", false, VerbosityDebug},
		{"console trace", false, VerbosityTrace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(func() {
				Logger = zap.NewNop().Sugar()
				JSONOutput = false
			})

			require.NoError(t, Initialize(tt.jsonOutput, tt.verbosity))
			require.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)

			core := Logger.Desugar().Core()
			want := VerbosityToLevel(tt.verbosity)
			assert.True(t, core.Enabled(want))
			if want > zapcore.DebugLevel {
				assert.False(t, core.Enabled(want-1))
			}
		})
	}
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityQuiet, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{VerbosityTrace, zapcore.DebugLevel},
		{9, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(LevelName(tt.verbosity), func(t *testing.T) {
			assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity))
		})
	}
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "quiet", LevelName(0))
	assert.Equal(t, "debug (-vv)", LevelName(2))
	assert.Equal(t, "trace (-vvv)", LevelName(7))
	assert.Equal(t, "unknown", LevelName(-3))
}

func TestTraceAddsCaller(t *testing.T) {
	assert.False(t, withCaller(VerbosityDebug))
	assert.True(t, withCaller(VerbosityTrace))
}

func TestFieldsFromContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, FieldsFromContext(ctx))
	assert.Empty(t, RequestID(ctx))

	ctx = WithRequest(ctx, "req-1", "10.0.0.7")
	assert.Equal(t, []interface{}{FieldRequestID, "req-1", FieldClientIP, "10.0.0.7"}, FieldsFromContext(ctx))
	assert.Equal(t, "req-1", RequestID(ctx))

	ctx = WithRequest(context.Background(), "req-2", "")
	assert.Equal(t, []interface{}{FieldRequestID, "req-2"}, FieldsFromContext(ctx))
}

func TestComponentLoggerIsNamed(t *testing.T) {
	assert.NotNil(t, ComponentLogger("parser"))
}

func TestCleanup(t *testing.T) {
	Logger = nil
	assert.NotPanics(t, Cleanup)

	Logger = zap.NewNop().Sugar()
	assert.NotPanics(t, Cleanup)
}

func TestPackageFunctionsWithNilLogger(t *testing.T) {
	Logger = nil
	defer func() { Logger = zap.NewNop().Sugar() }()

	assert.NotPanics(t, func() {
		Infow("test", "key", "value")
		Errorw("test", "key", "value")
		Warnw("test", "key", "value")
		Debugw("test", "key", "value")
	})
}
