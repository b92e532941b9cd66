// Package logging builds the zap loggers used by the arena commands.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/tomz197/arena/internal/config"
)

// Config controls basic logger behaviour.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json or console; empty picks console on a terminal
}

// FromEnv reads ARENA_LOG_LEVEL and ARENA_LOG_FORMAT.
func FromEnv() Config {
	return Config{
		Level:  config.GetEnv("ARENA_LOG_LEVEL", "info"),
		Format: config.GetEnv("ARENA_LOG_FORMAT", ""),
	}
}

// New constructs a zap logger writing to stderr.
func New(cfg Config) (*zap.Logger, error) {
	format := strings.ToLower(cfg.Format)
	if format == "" {
		format = "json"
		if term.IsTerminal(int(os.Stderr.Fd())) {
			format = "console"
		}
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if format == "console" {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(cfg.Level)),
		Development:      false,
		Encoding:         format,
		EncoderConfig:    encoderCfg,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}
	return zc.Build()
}

// ParseLevel maps a level name to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zap.DebugLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
