// Package logging builds the zap loggers used by the export layer.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a logger with the given level (debug, info, warn, error)
// and format (json, console).
func NewLogger(level, format string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}
	if format == "" {
		format = "json"
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.Encoding = format
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true

	return cfg.Build()
}

// NewLoggerFromConfig returns a logger, falling back to the default info/json
// logger when the settings are invalid.
func NewLoggerFromConfig(level, format string) *zap.Logger {
	logger, err := NewLogger(level, format)
	if err != nil {
		logger, err = NewLogger("info", "json")
		if err != nil {
			return zap.NewNop()
		}
	}
	return logger
}
