package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects level and encoding of the process logger.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" default:"info"`
	// Format is console or json.
	Format string `mapstructure:"format" default:"console"`
}

// New builds the device logger.
//
// At debug level the development preset is used, so stack traces are
// attached from warn upwards and caller locations point into the callback
// wrappers. Other levels start from the production preset, which samples
// repeated messages; a flood of connection or file access entries from a
// misbehaving client is thinned out instead of stalling the update loop.
//
// The console format is meant for an operator terminal and drops stack
// traces; json keeps them for log shippers.
func New(cfg *Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Level == "debug" {
		zc = zap.NewDevelopmentConfig()
	} else {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}

	switch cfg.Format {
	case "console":
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zc.DisableStacktrace = true
	case "json":
		zc.Encoding = "json"
	default:
		return nil, fmt.Errorf("log format %q: want console or json", cfg.Format)
	}

	enc := &zc.EncoderConfig
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.LevelKey = "level"
	enc.TimeKey = "time"
	enc.MessageKey = "message"

	return zc.Build()
}
