package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.False(t, cfg.IsDev)
	assert.Equal(t, "http://localhost:4000/graphql", cfg.API.URL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, SessionBackendRedis, cfg.Sessions.Backend)
	assert.Equal(t, 8*time.Hour, cfg.Sessions.TTL)
	assert.Equal(t, "session:", cfg.Sessions.KeyPrefix)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, "localhost:6379", cfg.Redis.URI)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GRAPHQL_API_URL", "https://api.school.example.com/graphql")
	t.Setenv("SESSION_BACKEND", "postgres")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("REDIS_URI", "cache.internal:6380")
	t.Setenv("HTTP_ADDR", ":9090")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, "https://api.school.example.com/graphql", cfg.API.URL)
	assert.Equal(t, SessionBackendPostgres, cfg.Sessions.Backend)
	assert.Equal(t, 2*time.Hour, cfg.Sessions.TTL)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, 5433, cfg.Postgres.Port)
	assert.Equal(t, "cache.internal:6380", cfg.Redis.URI)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
}

func TestSessionBackendUnmarshalText(t *testing.T) {
	var b SessionBackend

	require.NoError(t, b.UnmarshalText([]byte("MEMORY")))
	assert.Equal(t, SessionBackendMemory, b)

	err := b.UnmarshalText([]byte("cassandra"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid SessionBackend")
}

func TestSessionBackendParseFailure(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "dynamo")

	var cfg AppConfig
	assert.Error(t, env.Parse(&cfg))
}

func TestSanitizeClampsValues(t *testing.T) {
	cfg := AppConfig{
		API:      APIConfig{Timeout: -time.Second},
		Sessions: SessionsConfig{TTL: time.Second, KeyPrefix: ""},
	}
	cfg.Sanitize()

	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, time.Minute, cfg.Sessions.TTL)
	assert.Equal(t, "session:", cfg.Sessions.KeyPrefix)
}

func TestDetectDevModeFromNodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.True(t, cfg.IsDev)
}
