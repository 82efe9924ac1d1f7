package api

import (
	"time"

	"github.com/Ruchi0214/Regexia/internal/config"
	infragin "github.com/Ruchi0214/Regexia/internal/infrastructure/gin"
	"github.com/Ruchi0214/Regexia/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
)

const (
	readTimeout  = 30 * time.Second
	writeTimeout = 60 * time.Second
	idleTimeout  = 120 * time.Second
)

// NewServer builds the HTTP server with health checks, metrics and the API.
func NewServer(
	cfg *config.Config,
	h *Handler,
	routes RouteConfig,
	checks map[string]infragin.HealthChecker,
	log logger.Logger,
) *infragin.Server {
	builder := infragin.NewServerBuilder(cfg.Service.Name, cfg.Service.Port).
		WithLogger(log).
		WithDebug(cfg.Service.Debug).
		WithVersion(cfg.Service.Version).
		WithTimeouts(readTimeout, writeTimeout, idleTimeout).
		WithRoutes(func(router *gin.Engine) {
			SetupRoutes(router, h, routes)
		})

	for name, check := range checks {
		builder = builder.WithHealthCheck(name, check)
	}
	return builder.Build()
}
