package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level   string
		dev     bool
		enabled zapcore.Level
		off     zapcore.Level
	}{
		{level: "", enabled: zapcore.InfoLevel, off: zapcore.DebugLevel},
		{level: "debug", dev: true, enabled: zapcore.DebugLevel, off: zapcore.DebugLevel - 1},
		{level: "WARN", enabled: zapcore.WarnLevel, off: zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l, err := New(tt.level, tt.dev)
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.enabled))
			assert.False(t, l.Core().Enabled(tt.off))
		})
	}
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New("loud", false)
	assert.ErrorIs(t, err, ErrInvalidLevel)
}
