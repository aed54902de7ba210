package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{level: "", want: zapcore.InfoLevel},
		{level: "debug", want: zapcore.DebugLevel},
		{level: "WARN", want: zapcore.WarnLevel},
		{level: "error", want: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			t.Parallel()

			logger, err := New(tt.level)
			require.NoError(t, err)

			assert.True(t, logger.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	t.Parallel()

	_, err := New("loud")
	assert.Error(t, err)
}
