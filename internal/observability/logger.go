package observability

import (
	"fmt"

	"github.com/upb/casting-agency/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log encodings accepted by NewLogger
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// NewLogger builds a logger from the LOG_LEVEL / LOG_FORMAT settings. json
// selects the production encoder and sampling, console (or text) the human
// readable development one.
func NewLogger(settings config.ObservabilityConfig) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(settings.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", settings.LogLevel, err)
	}

	var cfg zap.Config
	switch settings.LogFormat {
	case "", FormatJSON:
		cfg = zap.NewProductionConfig()
	case FormatConsole, "text":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("invalid log format %q", settings.LogFormat)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}
