// Package cache provides an optional Redis layer over the scoring engine:
// serialized endpoint outputs keyed by query hash. The service runs fine
// without it; every method degrades to a miss on error.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/anishsharma/catalog-assist/internal/config"
	"github.com/anishsharma/catalog-assist/internal/models"
	"github.com/anishsharma/catalog-assist/internal/observability"
)

type ResponseCache struct {
	client redis.UniversalClient
	ttl    config.CacheTTLConfig
	logger *zap.Logger
}

func NewResponseCache(cfg config.RedisConfig, logger *zap.Logger) (*ResponseCache, error) {
	if len(cfg.Addresses) == 0 {
		return nil, fmt.Errorf("no redis addresses configured")
	}

	var client redis.UniversalClient

	if len(cfg.Addresses) > 1 {
		client = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        cfg.Addresses,
			Password:     cfg.Password,
			PoolSize:     cfg.PoolSize,
			MinIdleConns: cfg.MinIdleConns,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		})
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:         cfg.Addresses[0],
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     cfg.PoolSize,
			MinIdleConns: cfg.MinIdleConns,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	logger.Info("response cache connected", zap.Strings("addresses", cfg.Addresses))

	return &ResponseCache{
		client: client,
		ttl:    cfg.TTL,
		logger: logger,
	}, nil
}

func (rc *ResponseCache) GetSearchResults(ctx context.Context, query string) ([]models.ScoredProduct, error) {
	key := fmt.Sprintf("sr:%s", hashString(query))
	val, err := rc.client.Get(ctx, key).Result()
	if err == redis.Nil {
		observability.CacheMisses.WithLabelValues("search").Inc()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get search: %w", err)
	}
	observability.CacheHits.WithLabelValues("search").Inc()
	var results []models.ScoredProduct
	if err := json.Unmarshal([]byte(val), &results); err != nil {
		return nil, fmt.Errorf("cache unmarshal search: %w", err)
	}
	return results, nil
}

func (rc *ResponseCache) SetSearchResults(ctx context.Context, query string, results []models.ScoredProduct) error {
	return rc.set(ctx, fmt.Sprintf("sr:%s", hashString(query)), results, rc.ttl.SearchResults)
}

func (rc *ResponseCache) GetSuggestions(ctx context.Context, query string) ([]string, bool, error) {
	key := fmt.Sprintf("sg:%s", hashString(query))
	val, err := rc.client.Get(ctx, key).Result()
	if err == redis.Nil {
		observability.CacheMisses.WithLabelValues("suggest").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get suggestions: %w", err)
	}
	observability.CacheHits.WithLabelValues("suggest").Inc()
	var suggestions []string
	if err := json.Unmarshal([]byte(val), &suggestions); err != nil {
		return nil, false, fmt.Errorf("cache unmarshal suggestions: %w", err)
	}
	return suggestions, true, nil
}

func (rc *ResponseCache) SetSuggestions(ctx context.Context, query string, suggestions []string) error {
	return rc.set(ctx, fmt.Sprintf("sg:%s", hashString(query)), suggestions, rc.ttl.Suggestions)
}

// GetRecommendations reads a cached id list; kind is "related" or
// "personalized" and key is the product/user id.
func (rc *ResponseCache) GetRecommendations(ctx context.Context, kind, key string) ([]string, bool, error) {
	cacheKey := fmt.Sprintf("rec:%s:%s", kind, hashString(key))
	val, err := rc.client.Get(ctx, cacheKey).Result()
	if err == redis.Nil {
		observability.CacheMisses.WithLabelValues(kind).Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get recommendations: %w", err)
	}
	observability.CacheHits.WithLabelValues(kind).Inc()
	var ids []string
	if err := json.Unmarshal([]byte(val), &ids); err != nil {
		return nil, false, fmt.Errorf("cache unmarshal recommendations: %w", err)
	}
	return ids, true, nil
}

func (rc *ResponseCache) SetRecommendations(ctx context.Context, kind, key string, ids []string) error {
	return rc.set(ctx, fmt.Sprintf("rec:%s:%s", kind, hashString(key)), ids, rc.ttl.Recommendations)
}

// InvalidateAll drops every cached response. Called when a catalog change
// event arrives, since any cached ranking may now reference stale data.
func (rc *ResponseCache) InvalidateAll(ctx context.Context) error {
	for _, pattern := range []string{"sr:*", "sg:*", "rec:*"} {
		iter := rc.client.Scan(ctx, 0, pattern, 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			rc.logger.Warn("cache scan error", zap.String("pattern", pattern), zap.Error(err))
			continue
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				rc.logger.Warn("cache delete error", zap.Int("keys", len(keys)), zap.Error(err))
			}
		}
	}
	return nil
}

func (rc *ResponseCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

func (rc *ResponseCache) Close() error {
	return rc.client.Close()
}

func (rc *ResponseCache) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	return rc.client.Set(ctx, key, data, ttl).Err()
}

func hashString(s string) string {
	h := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", h[:8])
}
