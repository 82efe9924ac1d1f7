// Package bootstrap wires configuration, logging, storage and the HTTP server.
package bootstrap

import (
	"fmt"

	"github.com/Ruchi0214/Regexia/internal/config"
	infraconfig "github.com/Ruchi0214/Regexia/internal/infrastructure/config"
	"github.com/Ruchi0214/Regexia/internal/infrastructure/logger"
)

// LoadConfig loads and validates configuration. An empty path falls back to
// CONFIG_PATH, then config.yml; a missing file yields the defaults.
func LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = infraconfig.GetConfigPath(config.DefaultPath)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// CreateLogger creates the service logger from configuration. outputPaths
// defaults to stdout.
func CreateLogger(cfg *config.Config, outputPaths ...string) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
		OutputPaths: outputPaths,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}
