// Package logger builds the zap loggers used by the intell server and the
// crawler, and carries them through request and crawl contexts.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a logger for env tagged with service ("intell" or
// "crawler"). prod logs JSON with ISO8601 timestamps; local, dev and docker
// log colored console lines; test logs nothing. A non-empty level overrides
// the environment default.
func NewLogger(env, service string, level ...string) (*zap.Logger, error) {
	if env == "test" {
		return zap.NewNop(), nil
	}
	cfg, err := envConfig(env)
	if err != nil {
		return nil, err
	}

	if len(level) > 0 && level[0] != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(level[0])); err != nil {
			return nil, fmt.Errorf("logging.level %q: %w", level[0], err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build %s logger: %w", env, err)
	}
	if service != "" {
		l = l.With(zap.String("service", service))
	}
	return l, nil
}

func envConfig(env string) (zap.Config, error) {
	switch env {
	case "prod":
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg, nil
	case "local", "dev", "docker":
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg, nil
	}
	return zap.Config{}, fmt.Errorf("unknown environment %q for logger", env)
}
