// Package logger builds the process logger and carries per-request loggers in context.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName is attached to every log line.
const ServiceName = "incidentrag"

// NewLogger builds the process logger for env.
// prod and staging write JSON with ISO-8601 timestamps and no sampling;
// local, dev, docker and test write console output with colored levels.
// Everything goes to stderr: stdout carries CLI results and the MCP stdio stream.
// levelOverride, when non-empty, replaces the environment's default level.
func NewLogger(env string, levelOverride ...string) (*zap.Logger, error) {
	cfg, err := configFor(env)
	if err != nil {
		return nil, err
	}

	if len(levelOverride) > 0 && levelOverride[0] != "" {
		level, err := ParseLevel(levelOverride[0])
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l.With(zap.String("service", ServiceName)), nil
}

// IsJSONEnv reports whether env logs structured JSON.
func IsJSONEnv(env string) bool {
	return env == "prod" || env == "staging"
}

func configFor(env string) (zap.Config, error) {
	switch env {
	case "prod", "staging":
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		// one line per search request is the audit trail; never drop any
		cfg.Sampling = nil
		return cfg, nil
	case "local", "dev", "docker", "test":
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg, nil
	default:
		return zap.Config{}, fmt.Errorf("unknown environment %q for logger", env)
	}
}

// ParseLevel accepts debug, info, warn and error in any case.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q (want debug, info, warn or error)", s)
	}
}
