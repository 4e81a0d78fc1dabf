package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/gitrdm/gokansweeper/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LoggingConfig
		want zapcore.Level
	}{
		{name: "default level", cfg: config.LoggingConfig{JSON: true}, want: zapcore.InfoLevel},
		{name: "debug json", cfg: config.LoggingConfig{Level: "debug", JSON: true}, want: zapcore.DebugLevel},
		{name: "warn console", cfg: config.LoggingConfig{Level: "warn"}, want: zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, logger.Level())
		})
	}
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}
