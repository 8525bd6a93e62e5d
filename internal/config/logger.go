package config

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the run logger for check from "logging.level" and
// "logging.format". Every entry carries the check name and a fresh run_id
// so the lines of one invocation can be correlated in the monitoring
// host's logs.
func NewLogger(v *viper.Viper, check string, opts ...zap.Option) (*zap.Logger, error) {
	cfg, err := loggerConfig(v)
	if err != nil {
		return nil, err
	}

	logger, err := cfg.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger.With(
		zap.String("check", check),
		zap.String("run_id", uuid.NewString()),
	), nil
}

// loggerConfig maps the logging settings onto a zap config. Output is
// pinned to stderr because stdout carries the plugin report.
func loggerConfig(v *viper.Viper) (zap.Config, error) {
	level := v.GetString("logging.level")
	format := v.GetString("logging.format")

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return zap.Config{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch format {
	case "console":
		cfg = zap.NewDevelopmentConfig()
	case "json", "":
		cfg = zap.NewProductionConfig()
	default:
		return zap.Config{}, fmt.Errorf("invalid log format %q: must be \"json\" or \"console\"", format)
	}

	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg, nil
}
