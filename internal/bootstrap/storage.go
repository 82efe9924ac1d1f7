package bootstrap

import (
	"context"
	"fmt"

	"github.com/Ruchi0214/Regexia/internal/cache"
	"github.com/Ruchi0214/Regexia/internal/config"
	"github.com/Ruchi0214/Regexia/internal/database"
	"github.com/Ruchi0214/Regexia/internal/infrastructure/logger"
	"github.com/Ruchi0214/Regexia/internal/storage"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// DatabaseComponents holds the result store.
type DatabaseComponents struct {
	DB      *sqlx.DB
	Results *database.ResultsRepository
}

// SetupDatabase connects to the result database and ensures its schema.
func SetupDatabase(ctx context.Context, cfg *config.Config, log logger.Logger) (*DatabaseComponents, error) {
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	repo := database.NewResultsRepository(db)
	if err = repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Info("Database connected", logger.String("driver", cfg.Database.Driver))
	return &DatabaseComponents{DB: db, Results: repo}, nil
}

// SetupElasticsearch returns the optional result indexer, or nil when it is
// disabled or unreachable. The service runs without it.
func SetupElasticsearch(ctx context.Context, cfg *config.Config, log logger.Logger) *storage.ResultIndexer {
	if !cfg.Elasticsearch.Enabled {
		return nil
	}

	client, err := storage.NewClient(ctx, cfg.Elasticsearch, nil, log)
	if err != nil {
		log.Warn("Failed to connect to Elasticsearch", logger.Error(err))
		log.Info("Saved results will not be indexed")
		return nil
	}

	indexer := storage.NewResultIndexer(client, cfg.Elasticsearch.Index)
	log.Info("Elasticsearch connected successfully", logger.String("index", indexer.Index()))
	return indexer
}

// SetupCache returns the report cache and its client. When Redis is disabled
// or unreachable the cache is inert and the client is nil.
func SetupCache(ctx context.Context, cfg *config.Config, log logger.Logger) (*cache.ReportCache, *redis.Client) {
	if !cfg.Redis.Enabled {
		return cache.NewReportCache(nil, cfg.Redis.ReportTTL, log), nil
	}

	client, err := cache.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn("Failed to connect to Redis, report cache disabled", logger.Error(err))
		return cache.NewReportCache(nil, cfg.Redis.ReportTTL, log), nil
	}

	log.Info("Redis connected", logger.Duration("report_ttl", cfg.Redis.ReportTTL))
	return cache.NewReportCache(client, cfg.Redis.ReportTTL, log), client
}
