package bootstrap

import (
	"fmt"

	"github.com/Ruchi0214/Regexia/internal/config"
	"github.com/Ruchi0214/Regexia/internal/engine"
	"github.com/Ruchi0214/Regexia/internal/infrastructure/logger"
	"github.com/Ruchi0214/Regexia/internal/rules"
	"github.com/Ruchi0214/Regexia/internal/telemetry"
)

// NewEngine builds the rule registry from the built-in catalog plus any
// configured extras, then the engine on top of it. An invalid rule is a
// *rules.ConfigurationError.
func NewEngine(cfg *config.Config, log logger.Logger, tp *telemetry.Provider) (*engine.Engine, error) {
	registry, err := rules.NewRegistry(cfg.RuleSpecs())
	if err != nil {
		return nil, fmt.Errorf("build rule registry: %w", err)
	}

	log.Info("Rule catalog loaded",
		logger.Int("rules", registry.Len()),
		logger.Int("extra_rules", len(cfg.Catalog.ExtraRules)),
	)

	return engine.New(registry, engine.Config{
		Concurrency:   cfg.Service.Concurrency,
		PreviewLength: cfg.Analysis.PreviewLength,
		Markers: engine.Markers{
			Open:  cfg.Analysis.HighlightOpen,
			Close: cfg.Analysis.HighlightClose,
		},
	}, log, tp), nil
}
