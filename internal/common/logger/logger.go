package logger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hirosato/giftaid-review/internal/common/config"
)

// New builds the process logger: JSON production encoding in prod, console
// development encoding elsewhere. cfg.LogLevel overrides the default level.
func New(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.IsProd() || cfg.IsLambda() {
		zapCfg = zap.NewProductionConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
		}
		zapCfg.Level = level
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(
		zap.String("environment", cfg.Environment),
		zap.String("storage", cfg.StorageBackend),
	), nil
}
