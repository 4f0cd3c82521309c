package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServices(t *testing.T) {
	t.Run("single service", func(t *testing.T) {
		services, err := ParseServices("http")
		require.NoError(t, err)
		assert.True(t, services[ServiceModeHTTP])
		assert.False(t, services[ServiceModeReconciler])
	})

	t.Run("multiple services with spaces", func(t *testing.T) {
		services, err := ParseServices(" http , reconciler ")
		require.NoError(t, err)
		assert.True(t, services[ServiceModeHTTP])
		assert.True(t, services[ServiceModeReconciler])
	})

	t.Run("invalid service name", func(t *testing.T) {
		_, err := ParseServices("http,scheduler")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid service name")
	})

	t.Run("empty string", func(t *testing.T) {
		_, err := ParseServices("")
		require.Error(t, err)
	})

	t.Run("only commas", func(t *testing.T) {
		_, err := ParseServices(",,")
		require.Error(t, err)
	})
}

func TestAppConfigSanitize(t *testing.T) {
	cfg := AppConfig{}
	cfg.Sanitize()

	assert.Equal(t, 30*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, 30*time.Second, cfg.Engine.Timeout)
	assert.Equal(t, "/api/webhooks/engine", cfg.Engine.CallbackPath)
	assert.Equal(t, 10*time.Second, cfg.Reconciler.Interval)
	assert.Equal(t, time.Minute, cfg.Reconciler.PendingTTL)
	assert.Equal(t, 100, cfg.Reconciler.BatchSize)
}

func TestReconcilerSanitizeClampsBatchSize(t *testing.T) {
	cfg := ReconcilerConfig{Interval: time.Hour, PendingTTL: time.Hour, BatchSize: 50000}
	cfg.Sanitize()
	assert.Equal(t, 1000, cfg.BatchSize)
	assert.Equal(t, time.Hour, cfg.Interval)
}

func TestDetectDevMode(t *testing.T) {
	t.Setenv("NODE_ENV", "development")
	cfg := AppConfig{}
	cfg.Sanitize()
	assert.True(t, cfg.IsDev)
}
