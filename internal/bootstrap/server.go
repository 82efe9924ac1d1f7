package bootstrap

import (
	"context"
	"fmt"

	"github.com/Ruchi0214/Regexia/internal/api"
	"github.com/Ruchi0214/Regexia/internal/config"
	"github.com/Ruchi0214/Regexia/internal/engine"
	infragin "github.com/Ruchi0214/Regexia/internal/infrastructure/gin"
	"github.com/Ruchi0214/Regexia/internal/infrastructure/logger"
	"github.com/Ruchi0214/Regexia/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPComponents holds everything the HTTP server needs.
type HTTPComponents struct {
	Engine  *engine.Engine
	Handler *api.Handler
	Server  *infragin.Server
	closers []func() error
}

// Close releases database and cache connections.
func (h *HTTPComponents) Close() error {
	var firstErr error
	for _, c := range h.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NewHTTPComponents builds the engine, storage, cache and server.
func NewHTTPComponents(ctx context.Context, cfg *config.Config, log logger.Logger) (*HTTPComponents, error) {
	tp := telemetry.NewProvider(prometheus.DefaultRegisterer)

	eng, err := NewEngine(cfg, log, tp)
	if err != nil {
		return nil, err
	}

	dbComps, err := SetupDatabase(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	comps := &HTTPComponents{Engine: eng, closers: []func() error{dbComps.DB.Close}}

	checks := map[string]infragin.HealthChecker{
		"database": infragin.PingChecker(func() error { return dbComps.Results.Ping(context.Background()) }),
	}

	var index api.ResultIndex
	if indexer := SetupElasticsearch(ctx, cfg, log); indexer != nil {
		index = indexer
		checks["elasticsearch"] = infragin.PingChecker(func() error { return indexer.TestConnection(context.Background()) })
	}

	reportCache, redisClient := SetupCache(ctx, cfg, log)
	var cacheIface api.ReportCache
	if redisClient != nil {
		cacheIface = reportCache
		comps.closers = append(comps.closers, redisClient.Close)
		checks["redis"] = infragin.PingChecker(func() error { return reportCache.Ping(context.Background()) })
	}

	comps.Handler = api.NewHandler(eng, dbComps.Results, index, cacheIface, api.Limits{
		TopK:            cfg.Analysis.TopK,
		MaxReturnedRows: cfg.Analysis.MaxReturnedRows,
		MaxRows:         cfg.Analysis.MaxRows,
	}, log)

	comps.Server = api.NewServer(cfg, comps.Handler, api.RouteConfig{
		JWTSecret:      cfg.Auth.JWTSecret,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
		Metrics:        tp.Handler(),
	}, checks, log)

	if cfg.Auth.JWTSecret == "" {
		log.Warn("AUTH_JWT_SECRET not set, API is unauthenticated")
	}

	return comps, nil
}

// Serve runs the HTTP server until ctx ends or a shutdown signal arrives.
func Serve(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	comps, err := NewHTTPComponents(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := comps.Close(); closeErr != nil {
			log.Warn("Failed to close resources", logger.Error(closeErr))
		}
	}()

	return comps.Server.RunWithGracefulShutdown(ctx)
}
