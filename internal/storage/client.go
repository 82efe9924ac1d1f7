// Package storage indexes saved results into Elasticsearch for search.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Ruchi0214/Regexia/internal/config"
	"github.com/Ruchi0214/Regexia/internal/infrastructure/logger"
	"github.com/Ruchi0214/Regexia/internal/infrastructure/retry"
	es "github.com/elastic/go-elasticsearch/v8"
)

const (
	defaultURL         = "http://localhost:9200"
	defaultPingTimeout = 5 * time.Second
)

// NewClient builds an Elasticsearch client and verifies it with a retried ping.
// transport may be nil.
func NewClient(ctx context.Context, cfg config.ElasticsearchConfig, transport http.RoundTripper, log logger.Logger) (*es.Client, error) {
	log = logger.OrNop(log)
	url := normalizeURL(cfg.URL)

	clientCfg := es.Config{
		Addresses:  []string{url},
		MaxRetries: cfg.MaxRetries,
		Transport:  transport,
	}
	if cfg.Username != "" && cfg.Password != "" {
		clientCfg.Username = cfg.Username
		clientCfg.Password = cfg.Password
	}

	client, err := es.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	log.Info("Verifying Elasticsearch connection", logger.String("url", url))
	if err = retry.Do(ctx, retry.Config{InitialDelay: time.Second}, func(ctx context.Context) error {
		return ping(ctx, client)
	}); err != nil {
		return nil, fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}

	return client, nil
}

func normalizeURL(url string) string {
	if url == "" {
		return defaultURL
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "http://" + url
	}
	return url
}

func ping(ctx context.Context, client *es.Client) error {
	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	res, err := client.Ping(client.Ping.WithContext(pingCtx))
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("ping returned error [%s]: %s", res.Status(), string(body))
	}
	return nil
}
