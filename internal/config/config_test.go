package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DATABASE_URL", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.DatabaseURL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("DATABASE_URL", " postgres://u:p@db/infera ")
	t.Setenv("ALLOW_CROSS_SITE_DEV", "TRUE")
	t.Setenv("HEALTH_ADMIN_KEY", "k")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
	assert.Equal(t, "postgres://u:p@db/infera", cfg.DatabaseURL)
	assert.True(t, cfg.AllowCrossSiteDev)
	assert.Equal(t, "k", cfg.HealthAdminKey)
}
