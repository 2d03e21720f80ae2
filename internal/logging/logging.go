// Package logging builds the bot's zap logger from the resolved logging
// settings: verbosity level, console sink, and optional file sink.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eugenenazirov/matrix-bot-config/internal/config"
)

// New creates a structured JSON logger honoring the resolved logging
// settings. Console and file sinks are tee'd together when both are enabled;
// with neither enabled a nop logger is returned.
func New(cfg config.ResolvedConfig) (*zap.Logger, error) {
	encoder := zapcore.NewJSONEncoder(encoderConfig())
	level := toZapLevel(cfg.LogLevel)

	var cores []zapcore.Core
	if cfg.ConsoleLoggingEnabled {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level))
	}
	if cfg.FileLoggingEnabled {
		file, err := os.OpenFile(cfg.FileLoggingPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(file), level))
	}

	if len(cores) == 0 {
		return zap.NewNop(), nil
	}
	return zap.New(zapcore.NewTee(cores...)), nil
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.StacktraceKey = "stacktrace"
	return cfg
}

func toZapLevel(level config.LogLevel) zapcore.Level {
	switch level {
	case config.LevelDebug:
		return zapcore.DebugLevel
	case config.LevelWarning:
		return zapcore.WarnLevel
	case config.LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
