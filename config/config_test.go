package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, SessionFile, cfg.SessionBackend)
	assert.True(t, cfg.RollbackOnFailure)
	assert.True(t, cfg.DedupeToggles)
	assert.False(t, cfg.ValidateSession)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("API_BASE_URL", "https://recipes.example.com/")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("SESSION_BACKEND", "Redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/2")
	t.Setenv("VALIDATE_SESSION", "true")
	t.Setenv("ROLLBACK_ON_FAILURE", "false")
	t.Setenv("LOG_LEVEL", "WARN")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://recipes.example.com", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, SessionRedis, cfg.SessionBackend)
	assert.Equal(t, "redis://localhost:6379/2", cfg.RedisURL)
	assert.True(t, cfg.ValidateSession)
	assert.False(t, cfg.RollbackOnFailure)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfigReadsRedisSecret(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "redis_password"), []byte("s3cret\n"), 0o600))

	t.Setenv("ENV", "development")
	t.Setenv("CI", "")
	t.Setenv("SECRETS_DIR", dir)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.RedisPassword)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidateConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad url", func(c *Config) { c.APIBaseURL = "localhost:8000" }, "API_BASE_URL"},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }, "HTTP_TIMEOUT"},
		{"unknown backend", func(c *Config) { c.SessionBackend = "etcd" }, "SESSION_BACKEND"},
		{"file without path", func(c *Config) { c.SessionPath = "" }, "SESSION_PATH"},
		{"redis without address", func(c *Config) {
			c.SessionBackend = SessionRedis
			c.RedisHost = ""
		}, "REDIS_URL"},
		{"unknown log level", func(c *Config) { c.LogLevel = "trace" }, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults(Test)
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			require.Error(t, err)

			var verr ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestProductionRequiresBackendURL(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("CI", "")
	t.Setenv("API_BASE_URL", "")
	t.Setenv("SECRETS_DIR", t.TempDir())

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_BASE_URL")
}
