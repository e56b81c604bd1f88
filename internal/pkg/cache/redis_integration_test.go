//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/gideon-jacob/online-shop-microservices/internal/pkg/cache"
)

func setupRedis(t *testing.T) *cache.RedisCache {
	t.Helper()
	ctx := context.Background()

	redisC, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisC.Terminate(context.Background()) })

	addr, err := redisC.Endpoint(ctx, "")
	require.NoError(t, err)

	c := cache.NewRedisCache(addr, "order")
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.Ping(ctx))
	return c
}

func TestRedisCache_Redis(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "k1", "order-1", time.Minute))

		got, err := c.Get(ctx, "k1")
		require.NoError(t, err)
		assert.Equal(t, "order-1", got)
	})

	t.Run("missing key is empty without error", func(t *testing.T) {
		got, err := c.Get(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("value expires after ttl", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "short", "order-2", time.Second))

		assert.Eventually(t, func() bool {
			got, err := c.Get(ctx, "short")
			return err == nil && got == ""
		}, 5*time.Second, 100*time.Millisecond)
	})

	t.Run("setnx only claims an absent key", func(t *testing.T) {
		ok, err := c.SetNX(ctx, "claim", "first", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = c.SetNX(ctx, "claim", "second", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := c.Get(ctx, "claim")
		require.NoError(t, err)
		assert.Equal(t, "first", got)
	})

	t.Run("delete releases the key", func(t *testing.T) {
		_, err := c.SetNX(ctx, "release", "x", time.Minute)
		require.NoError(t, err)
		require.NoError(t, c.Delete(ctx, "release"))

		ok, err := c.SetNX(ctx, "release", "y", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
