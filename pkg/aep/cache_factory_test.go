package aep_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aepio/aep-client/pkg/aep"
)

func TestNewCacheFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("nil config defaults to memory", func(t *testing.T) {
		t.Parallel()

		cache, err := aep.NewCacheFromConfig(nil)
		require.NoError(t, err)
		assert.IsType(t, &aep.MemoryCache{}, cache)
	})

	t.Run("memory", func(t *testing.T) {
		t.Parallel()

		cache, err := aep.NewCacheFromConfig(&aep.CacheConfig{
			Type:   aep.CacheTypeMemory,
			Memory: &aep.MemoryCacheConfig{MaxSize: 50},
		})
		require.NoError(t, err)
		assert.IsType(t, &aep.MemoryCache{}, cache)
	})

	t.Run("none", func(t *testing.T) {
		t.Parallel()

		cache, err := aep.NewCacheFromConfig(&aep.CacheConfig{Type: aep.CacheTypeNone})
		require.NoError(t, err)
		assert.IsType(t, &aep.NoOpCache{}, cache)
	})

	t.Run("nats without config", func(t *testing.T) {
		t.Parallel()

		_, err := aep.NewCacheFromConfig(&aep.CacheConfig{Type: aep.CacheTypeNATS})
		require.ErrorIs(t, err, aep.ErrNATSConfigRequired)
	})

	t.Run("unsupported type", func(t *testing.T) {
		t.Parallel()

		_, err := aep.NewCacheFromConfig(&aep.CacheConfig{Type: "redis"})
		require.ErrorIs(t, err, aep.ErrUnsupportedCacheType)
	})
}

func TestNoOpCache(t *testing.T) {
	t.Parallel()

	cache := aep.NewNoOpCache()
	ctx := context.Background()

	entry := &aep.CacheEntry{Data: []byte("x"), ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, cache.Set(ctx, "key1", entry))

	_, err := cache.Get(ctx, "key1")
	require.ErrorIs(t, err, aep.ErrCacheDisabled)
	assert.False(t, cache.Has(ctx, "key1"))

	require.NoError(t, cache.Delete(ctx, "key1"))
	require.NoError(t, cache.Clear(ctx))
}

func TestCacheBuilder(t *testing.T) {
	t.Parallel()

	cache, err := aep.NewCacheBuilder().
		WithType(aep.CacheTypeMemory).
		WithMemoryConfig(100).
		WithPolicy(aep.DefaultCachingPolicy()).
		WithOptions(&aep.CacheOptions{TTL: time.Minute}).
		Build()
	require.NoError(t, err)
	assert.IsType(t, &aep.MemoryCache{}, cache)
}

func TestCacheChain(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l1 := aep.NewMemoryCache(10)
	l2 := aep.NewMemoryCache(10)
	chain := aep.NewCacheChain(l1, l2)

	entry := &aep.CacheEntry{Data: []byte("x"), ExpiresAt: time.Now().Add(time.Minute)}

	t.Run("set writes all levels", func(t *testing.T) {
		require.NoError(t, chain.Set(ctx, "key1", entry))
		assert.True(t, l1.Has(ctx, "key1"))
		assert.True(t, l2.Has(ctx, "key1"))
	})

	t.Run("l2 hit backfills l1", func(t *testing.T) {
		require.NoError(t, l2.Set(ctx, "key2", entry))

		got, err := chain.Get(ctx, "key2")
		require.NoError(t, err)
		assert.Equal(t, entry.Data, got.Data)
		assert.True(t, l1.Has(ctx, "key2"))
	})

	t.Run("miss everywhere", func(t *testing.T) {
		_, err := chain.Get(ctx, "missing")
		require.ErrorIs(t, err, aep.ErrKeyNotFoundInAnyCache)
	})

	t.Run("delete removes all levels", func(t *testing.T) {
		require.NoError(t, chain.Delete(ctx, "key1"))
		assert.False(t, chain.Has(ctx, "key1"))
	})
}
