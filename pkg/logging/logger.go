// Package logging builds the zap logger shared by the server, the CLI and the pollers.
package logging

import (
	"fmt"

	"github.com/wadjakorntonsri/go-portfolio/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production JSON logger. Local environments and LOG_LEVEL=debug log at debug level.
func New(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.LogLevel == "debug" || cfg.AppEnv == "local" {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.With(zap.String("env", cfg.AppEnv)), nil
}
