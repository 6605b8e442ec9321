package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/markdave123-py/covidsearch/internal/core"
	"github.com/markdave123-py/covidsearch/internal/models"
)

const facetsKey = "covidsearch:facets"

// RedisFacetCache shares the facet aggregation across API replicas.
type RedisFacetCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

var _ core.FacetCache = (*RedisFacetCache)(nil)

// NewRedisFacetCache parses a redis:// URL and pings the server.
func NewRedisFacetCache(ctx context.Context, url string, ttl time.Duration, log *zap.Logger) (*RedisFacetCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Redis facet cache initialized", zap.String("addr", opts.Addr), zap.Duration("ttl", ttl))
	return &RedisFacetCache{client: client, ttl: ttl, log: log.Named("facet-cache")}, nil
}

func (c *RedisFacetCache) Close() error {
	return c.client.Close()
}

func (c *RedisFacetCache) Get(ctx context.Context) (*models.Facets, bool, error) {
	data, err := c.client.Get(ctx, facetsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get facet cache: %w", err)
	}

	var f models.Facets
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal facets: %w", err)
	}
	c.log.Debug("Facet cache hit")
	return &f, true, nil
}

func (c *RedisFacetCache) Set(ctx context.Context, facets *models.Facets) error {
	data, err := json.Marshal(facets)
	if err != nil {
		return fmt.Errorf("failed to marshal facets: %w", err)
	}
	if err := c.client.Set(ctx, facetsKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set facet cache: %w", err)
	}
	return nil
}
