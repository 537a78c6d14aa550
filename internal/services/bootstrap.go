package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Lllllllleong/lawsuitflow/internal/config"
	"github.com/Lllllllleong/lawsuitflow/internal/gcp"
	"github.com/Lllllllleong/lawsuitflow/internal/logger"
)

// ConfigFileEnv names a config file that replaces the configs/ search.
const ConfigFileEnv = "LAWSUIT_CONFIG_FILE"

// Bootstrap loads configuration, builds the process logger and connects every backend. Entry points call it
// once, lazily, on their first request.
func Bootstrap(ctx context.Context) (*config.Config, *zap.Logger, *Backends, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format).With(
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
	)
	b, err := NewBackends(ctx, cfg, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init backends: %w", err)
	}
	return cfg, log, b, nil
}

func loadConfig() (*config.Config, error) {
	if path := gcp.GetEnv(ConfigFileEnv, ""); path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}
