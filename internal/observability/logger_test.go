package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/casting-agency/config"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		format   string
		wantErr  string
		enabled  zapcore.Level
		disabled *zapcore.Level
	}{
		{name: "json at info", level: "info", format: FormatJSON, enabled: zapcore.InfoLevel, disabled: lvl(zapcore.DebugLevel)},
		{name: "console at debug", level: "debug", format: FormatConsole, enabled: zapcore.DebugLevel},
		{name: "text is console", level: "warn", format: "text", enabled: zapcore.WarnLevel, disabled: lvl(zapcore.InfoLevel)},
		{name: "empty format defaults to json", level: "error", format: "", enabled: zapcore.ErrorLevel, disabled: lvl(zapcore.WarnLevel)},
		{name: "unknown level", level: "loud", format: FormatJSON, wantErr: "invalid log level"},
		{name: "unknown format", level: "info", format: "xml", wantErr: "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(config.ObservabilityConfig{LogLevel: tt.level, LogFormat: tt.format})
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				assert.Nil(t, logger)
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.enabled))
			if tt.disabled != nil {
				assert.False(t, logger.Core().Enabled(*tt.disabled))
			}
		})
	}
}

func lvl(l zapcore.Level) *zapcore.Level { return &l }
