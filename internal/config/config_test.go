package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMemoryDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, http://127.0.0.1:3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 60, cfg.AccessTTLMin)
	assert.True(t, cfg.AutoMigrate)
	assert.False(t, cfg.Events)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORSOrigins)
}

func TestLoadPostgres(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/cases")
	t.Setenv("EVENTS_ENABLED", "yes")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	assert.Equal(t, "postgres://u:p@localhost:5432/cases", cfg.DatabaseURL)
	assert.True(t, cfg.Events)
}

func TestLoadRateLimitConfigClampsTTL(t *testing.T) {
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1m")
	t.Setenv("RATE_LIMIT_TTL", "1m")
	t.Setenv("RATE_LIMIT_CAPACITY", "0")

	rl, err := LoadRateLimitConfig()
	require.NoError(t, err)
	assert.Equal(t, 1, rl.Capacity)
	assert.Equal(t, 5*time.Minute, rl.TTL)
	assert.Equal(t, "ip_route", rl.KeyStrategy)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_TTL", "bogus")

	c, err := LoadCacheConfig()
	require.NoError(t, err)
	assert.True(t, c.Methods["GET"])
	assert.True(t, c.Methods["HEAD"])
	assert.False(t, c.Methods["POST"])
	assert.Equal(t, 5*time.Second, c.TTL)
}

func TestLoadReportsEveryProblem(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("APP_PORT", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE_BACKEND", "mysql")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "cases")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "soon")

	_, err := Load()
	require.Error(t, err)
	for _, want := range []string{"APP_PORT", "JWT_SECRET", "DB_HOST", `invalid int for ACCESS_TOKEN_TTL_MIN: "soon"`} {
		assert.ErrorContains(t, err, want)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "0")

	_, err := Load()
	assert.ErrorContains(t, err, `invalid STORE_BACKEND "sqlite"`)
	assert.ErrorContains(t, err, "ACCESS_TOKEN_TTL_MIN must be positive")
}

func TestLoadCacheConfigRejectsBadInt(t *testing.T) {
	t.Setenv("CACHE_MAX_BODY_BYTES", "lots")
	c, err := LoadCacheConfig()
	assert.ErrorContains(t, err, "CACHE_MAX_BODY_BYTES")
	assert.Equal(t, 1<<20, c.MaxBodyBytes)
}
