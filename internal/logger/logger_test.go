package logger_test

import (
	"testing"

	"github.com/marrasen/customied/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     logger.Config
		enabled zap.AtomicLevel
		wantErr bool
	}{
		{"debug console", logger.Config{Level: "debug", Format: "console"}, zap.NewAtomicLevelAt(zap.DebugLevel), false},
		{"info json", logger.Config{Level: "info", Format: "json"}, zap.NewAtomicLevelAt(zap.InfoLevel), false},
		{"warn console", logger.Config{Level: "warn", Format: "console"}, zap.NewAtomicLevelAt(zap.WarnLevel), false},
		{"invalid level", logger.Config{Level: "loud", Format: "json"}, zap.AtomicLevel{}, true},
		{"invalid format", logger.Config{Level: "info", Format: "logfmt"}, zap.AtomicLevel{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := logger.New(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, l)
			assert.True(t, l.Core().Enabled(tt.enabled.Level()))
			assert.False(t, l.Core().Enabled(tt.enabled.Level()-1))
		})
	}
}
