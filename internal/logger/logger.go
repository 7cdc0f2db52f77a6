package logger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/mathdrill/internal/config"
)

// New builds the application logger: JSON for production, console
// otherwise, at the configured level, writing to log_file when set.
func New(cfg *config.Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Env == "production" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		lvl, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		zc.Level = lvl
	}

	if cfg.LogFile != "" {
		zc.OutputPaths = []string{cfg.LogFile}
		zc.ErrorOutputPaths = []string{cfg.LogFile}
	}
	return zc.Build()
}

// NewInteractive builds a logger for full-screen commands, where writing
// to the terminal would corrupt the display. Without log_file it is a
// no-op logger.
func NewInteractive(cfg *config.Config) (*zap.Logger, error) {
	if cfg.LogFile == "" {
		return zap.NewNop(), nil
	}
	return New(cfg)
}
