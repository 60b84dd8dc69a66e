// Package redis caches the assessment-independent parts of the catalog.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"bizready/internal/domain"
	"bizready/internal/ports"
)

const (
	keyHazards    = "hazards"
	keyRules      = "multiplier_rules"
	keyStrategies = "strategies"
)

// CatalogCache is a read-through cache in front of a CatalogStore for the
// hazard, rule and strategy lists. Any cache failure falls through to the
// store; store errors are never cached.
type CatalogCache struct {
	ports.CatalogStore
	client *goredis.Client
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

func NewCatalogCache(store ports.CatalogStore, client *goredis.Client, ttl time.Duration, logger *slog.Logger) *CatalogCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogCache{CatalogStore: store, client: client, ttl: ttl, prefix: "bizready:catalog:", logger: logger}
}

func (c *CatalogCache) HazardDefinitions(ctx context.Context) ([]domain.HazardDefinition, error) {
	return cached(ctx, c, keyHazards, c.CatalogStore.HazardDefinitions)
}

func (c *CatalogCache) ActiveMultiplierRules(ctx context.Context) ([]domain.MultiplierRule, error) {
	return cached(ctx, c, keyRules, c.CatalogStore.ActiveMultiplierRules)
}

func (c *CatalogCache) StrategyCatalog(ctx context.Context) ([]domain.StrategyDefinition, error) {
	return cached(ctx, c, keyStrategies, c.CatalogStore.StrategyCatalog)
}

// Invalidate drops every cached list, e.g. after a catalog import.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.prefix+keyHazards, c.prefix+keyRules, c.prefix+keyStrategies).Err()
}

func cached[T any](ctx context.Context, c *CatalogCache, name string, load func(context.Context) ([]T, error)) ([]T, error) {
	key := c.prefix + name
	b, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var out []T
		if err := json.Unmarshal(b, &out); err == nil && out != nil {
			return out, nil
		}
		c.logger.Warn("discarding unreadable catalog cache entry", slog.String("key", key))
	case !errors.Is(err, goredis.Nil):
		c.logger.Warn("catalog cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	out, err := load(ctx)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(out)
	if err != nil {
		c.logger.Warn("catalog cache encode failed", slog.String("key", key), slog.String("error", err.Error()))
		return out, nil
	}
	if err := c.client.Set(ctx, key, body, c.ttl).Err(); err != nil {
		c.logger.Warn("catalog cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return out, nil
}
