package bootstrap

import (
	"context"
	"fmt"
	"time"

	"scholar-retriever/config"
	"scholar-retriever/driver/cohere"
	"scholar-retriever/driver/elasticsearch"
	"scholar-retriever/driver/metadataapi"
	"scholar-retriever/driver/rediscache"
	"scholar-retriever/logger"
	"scholar-retriever/port"
)

// initStoreClient connects to the document store with retry logic and
// verifies that the paragraph index exists.
func initStoreClient(ctx context.Context, cfg *config.Config) (*elasticsearch.Client, error) {
	const maxRetries = 5
	const retryDelay = 5 * time.Second

	logger.L().Info("Connecting to document store", "url", cfg.Store.StoreURL())

	client := elasticsearch.NewClient(
		cfg.Store.StoreURL(),
		cfg.Store.User,
		cfg.Store.Password,
		cfg.Store.Timeout,
	)

	for i := range maxRetries {
		_, err := client.IndexExists(ctx, cfg.Store.IndexParagraphs)
		if err != nil {
			logger.L().Warn("document store not ready, retrying",
				"attempt", i+1, "max", maxRetries, "err", err)
			if i < maxRetries-1 {
				select {
				case <-time.After(retryDelay):
					continue
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
			return nil, fmt.Errorf("failed to connect to document store after %d attempts: %w", maxRetries, err)
		}
		logger.L().Info("Connected to document store")
		break
	}

	return client, nil
}

// initMetadataCache returns the Redis cache when an address is
// configured and it answers a ping, nil otherwise. A dead cache
// degrades metadata lookups, it never blocks startup.
func initMetadataCache(ctx context.Context, cfg *config.Config) (*rediscache.Cache, port.MetadataCache) {
	if cfg.Redis.Addr == "" {
		logger.L().Info("metadata cache disabled")
		return nil, nil
	}

	cache := rediscache.New(cfg.Redis.Addr, cfg.Redis.Expiry)
	if err := cache.Ping(ctx); err != nil {
		logger.L().Warn("redis unreachable, metadata cache disabled",
			"addr", cfg.Redis.Addr, "err", err)
		_ = cache.Close()
		return nil, nil
	}

	logger.L().Info("metadata cache enabled", "addr", cfg.Redis.Addr, "expiry", cfg.Redis.Expiry)
	return cache, cache
}

// initRerankDriver returns the rerank API client, nil when no token is
// configured and the pipeline runs without reranking.
func initRerankDriver(cfg *config.Config) *cohere.Client {
	if cfg.Reranking.Token == "" {
		logger.L().Info("reranker disabled, retrieval order is store order")
		return nil
	}
	logger.L().Info("reranker enabled", "model", cfg.Reranking.Model)
	return cohere.NewClient(
		cfg.Reranking.Endpoint,
		cfg.Reranking.Token,
		cfg.Reranking.Model,
		cfg.Reranking.Timeout,
	)
}

// initMetadataDrivers returns the external metadata API client, nil
// when external lookups are disabled.
func initMetadataDrivers(cfg *config.Config) (*metadataapi.Client, *metadataapi.Client) {
	if !cfg.Metadata.ExternalAPIs {
		logger.L().Info("external metadata APIs disabled")
		return nil, nil
	}
	client := metadataapi.NewClient(cfg.Metadata.Timeout)
	return client, client
}
