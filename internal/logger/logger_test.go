package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zap.DebugLevel},
		{"DEBUG", zap.DebugLevel},
		{"info", zap.InfoLevel},
		{"warn", zap.WarnLevel},
		{"error", zap.ErrorLevel},
		{"", zap.InfoLevel},
		{"loud", zap.InfoLevel},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, mode := range []string{"dev", "prod"} {
		l, err := New(mode, LevelWarn)
		require.NoError(t, err, mode)
		assert.False(t, l.SugaredLogger.Desugar().Core().Enabled(zap.InfoLevel), mode)
		assert.True(t, l.SugaredLogger.Desugar().Core().Enabled(zap.WarnLevel), mode)
	}
}

func TestLogger_KeyValues(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core)).With("notebook", "w1_intro/lecture.ipynb")

	l.Debug("split", "units", 3)
	l.Warn("skipped subsection", "line", 4)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "split", entries[0].Message)
	assert.Equal(t, "w1_intro/lecture.ipynb", entries[0].ContextMap()["notebook"])
	assert.EqualValues(t, 3, entries[0].ContextMap()["units"])
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
}

func TestNop(t *testing.T) {
	t.Parallel()

	l := Nop()
	l.Info("discarded", "k", "v")
	l.Sync()
}
