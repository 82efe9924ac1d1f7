// Package cache stores analysis reports in Redis. Analysis is deterministic,
// so a report cached under a given key is interchangeable with a fresh one.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Ruchi0214/Regexia/internal/config"
	"github.com/Ruchi0214/Regexia/internal/domain"
	"github.com/Ruchi0214/Regexia/internal/infrastructure/logger"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix         = "regexia:report:"
	connectionTimeout = 5 * time.Second
)

// ErrEmptyAddress is returned when Redis is enabled without an address.
var ErrEmptyAddress = errors.New("redis address is required")

// NewClient connects to Redis and verifies it with a ping.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, ErrEmptyAddress
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.URL,
		Password: cfg.Password,
		DB:       cfg.Database,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// KeyInput is everything that determines a report.
type KeyInput struct {
	Rules           []string `json:"rules"`
	Documents       []string `json:"documents"`
	TopK            int      `json:"top_k"`
	MaxReturnedRows int      `json:"max_returned_rows"`
	PreviewLength   int      `json:"preview_length"`
	HighlightOpen   string   `json:"highlight_open"`
	HighlightClose  string   `json:"highlight_close"`
}

// Key hashes in into a cache key.
func Key(in KeyInput) string {
	h := sha256.New()
	// json of strings and ints cannot fail
	_ = json.NewEncoder(h).Encode(in)
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// ReportCache is a Redis-backed report cache. With a nil client every Get
// misses and every Set is dropped.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

// NewReportCache creates a cache. client may be nil.
func NewReportCache(client *redis.Client, ttl time.Duration, log logger.Logger) *ReportCache {
	return &ReportCache{client: client, ttl: ttl, log: logger.OrNop(log)}
}

// Enabled reports whether a Redis client is attached.
func (c *ReportCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get returns the cached report for key. Redis failures count as misses.
func (c *ReportCache) Get(ctx context.Context, key string) (*domain.BatchReport, bool) {
	if !c.Enabled() {
		return nil, false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn("Report cache read failed", logger.String("key", key), logger.Error(err))
		return nil, false
	}

	var report domain.BatchReport
	if err = json.Unmarshal(data, &report); err != nil {
		c.log.Warn("Discarding corrupt cached report", logger.String("key", key), logger.Error(err))
		return nil, false
	}
	return &report, true
}

// Set stores report under key with the configured TTL.
func (c *ReportCache) Set(ctx context.Context, key string, report *domain.BatchReport) {
	if !c.Enabled() || report == nil {
		return
	}

	data, err := json.Marshal(report)
	if err != nil {
		c.log.Warn("Failed to encode report for cache", logger.Error(err))
		return
	}
	if err = c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn("Report cache write failed", logger.String("key", key), logger.Error(err))
	}
}

// Ping checks the Redis connection. A disabled cache is always healthy.
func (c *ReportCache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}
