package redis_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizready/internal/adapters/memory"
	rediscache "bizready/internal/adapters/redis"
	"bizready/internal/domain"
	"bizready/internal/ports"
)

type countingStore struct {
	ports.CatalogStore
	strategyCalls int
	strategyErr   error
}

func (s *countingStore) StrategyCatalog(ctx context.Context) ([]domain.StrategyDefinition, error) {
	s.strategyCalls++
	if s.strategyErr != nil {
		return nil, s.strategyErr
	}
	return s.CatalogStore.StrategyCatalog(ctx)
}

// unreachable returns a client whose every command fails fast.
func unreachable(t *testing.T) *goredis.Client {
	t.Helper()
	c := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func newStore(t *testing.T) *countingStore {
	t.Helper()
	c, err := memory.Parse([]byte(`
business_types:
  - {id: cafe, name: {en: Cafe}}
hazards:
  - {id: fire, name: {en: Fire}}
multiplier_rules:
  - {id: r1, characteristic: open_flame, condition: boolean, factor: 1.2, hazards: [fire]}
strategies:
  - {id: extinguishers, title: {en: Fire extinguishers}, hazards: [fire], cost_estimate: "120.00"}
`))
	require.NoError(t, err)
	return &countingStore{CatalogStore: memory.NewCatalogStore(c)}
}

func TestCatalogCache_FallsThroughWhenRedisDown(t *testing.T) {
	store := newStore(t)
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := rediscache.NewCatalogCache(store, unreachable(t), time.Minute, quiet)
	ctx := context.Background()

	strategies, err := cache.StrategyCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, strategies, 1)
	assert.Equal(t, "extinguishers", strategies[0].ID)
	assert.Equal(t, 1, store.strategyCalls)

	hazards, err := cache.HazardDefinitions(ctx)
	require.NoError(t, err)
	assert.Len(t, hazards, 1)

	rules, err := cache.ActiveMultiplierRules(ctx)
	require.NoError(t, err)
	assert.Len(t, rules, 1)

	bt, err := cache.BusinessType(ctx, "cafe")
	require.NoError(t, err)
	assert.Equal(t, "Cafe", bt.Name.EN)

	assert.Error(t, cache.Invalidate(ctx))
}

func TestCatalogCache_PropagatesStoreErrors(t *testing.T) {
	store := newStore(t)
	store.strategyErr = domain.Unavailable(domain.StageStrategies, errors.New("db down"))
	cache := rediscache.NewCatalogCache(store, unreachable(t), time.Minute, nil)

	_, err := cache.StrategyCatalog(context.Background())
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}
