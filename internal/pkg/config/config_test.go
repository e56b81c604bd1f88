package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gideon-jacob/online-shop-microservices/internal/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 3*time.Second, cfg.InventoryTimeout)
	assert.Equal(t, config.StoreDriverSQLite, cfg.StoreDriver)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.True(t, cfg.TracingEnabled)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("INVENTORY_BASE_URL", "http://inventory-service:8082")
	t.Setenv("INVENTORY_TIMEOUT", "750ms")
	t.Setenv("REDIS_ADDR", "redis-cache:6379")
	t.Setenv("OTEL_ENABLED", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "http://inventory-service:8082", cfg.InventoryBaseURL)
	assert.Equal(t, 750*time.Millisecond, cfg.InventoryTimeout)
	assert.Equal(t, "redis-cache:6379", cfg.RedisAddr)
	assert.False(t, cfg.TracingEnabled)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "mongo")
		_, err := config.Load()
		assert.ErrorContains(t, err, "STORE_DRIVER")
	})

	t.Run("timeout", func(t *testing.T) {
		t.Setenv("INVENTORY_TIMEOUT", "0s")
		_, err := config.Load()
		assert.ErrorContains(t, err, "INVENTORY_TIMEOUT")
	})

	t.Run("unparsable duration", func(t *testing.T) {
		t.Setenv("INVENTORY_TIMEOUT", "soon")
		_, err := config.Load()
		assert.Error(t, err)
	})
}
