package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Empty(t, cfg.BaseURL, "BaseURL has no default")
	assert.Equal(t, "ShortenedUrls", cfg.TableName)
	assert.Equal(t, 6, cfg.CodeLength, "CodeLength should be 6")
	assert.Equal(t, 5, cfg.MaxRetries, "MaxRetries should be 5")
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout, "RequestTimeout should be 5 seconds")
	assert.Equal(t, ":3000", cfg.ServerPort)
	assert.True(t, cfg.MetricsEnabled)
	assert.False(t, cfg.CacheEnabled)
}

func TestLoad(t *testing.T) {
	t.Run("Defaults with base URL", func(t *testing.T) {
		t.Setenv("BASE_URL", "https://sho.rt")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "https://sho.rt", cfg.BaseURL)
		assert.Equal(t, 6, cfg.CodeLength)
		assert.Equal(t, BackendMemory, cfg.StoreBackend)
	})

	t.Run("Missing base URL", func(t *testing.T) {
		t.Setenv("BASE_URL", "")

		cfg, err := Load()
		assert.Nil(t, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BASE_URL is required")
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("BASE_URL", "https://sho.rt")
		t.Setenv("TABLE_NAME", "links")
		t.Setenv("SHORT_CODE_LENGTH", "8")
		t.Setenv("MAX_RETRIES", "3")
		t.Setenv("STORE_BACKEND", "SQLite")
		t.Setenv("SQLITE_PATH", "/tmp/links.db")
		t.Setenv("CACHE_ENABLED", "true")
		t.Setenv("CACHE_TTL", "1h")
		t.Setenv("REQUEST_TIMEOUT", "2s")
		t.Setenv("LOG_LEVEL", "DEBUG")
		t.Setenv("METRICS_ENABLED", "false")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "links", cfg.TableName)
		assert.Equal(t, 8, cfg.CodeLength)
		assert.Equal(t, 3, cfg.MaxRetries)
		assert.Equal(t, BackendSQLite, cfg.StoreBackend)
		assert.Equal(t, "/tmp/links.db", cfg.SQLitePath)
		assert.True(t, cfg.CacheEnabled)
		assert.Equal(t, time.Hour, cfg.CacheTTL)
		assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.False(t, cfg.MetricsEnabled)
	})

	t.Run("Malformed values are rejected", func(t *testing.T) {
		t.Setenv("BASE_URL", "https://sho.rt")
		t.Setenv("SHORT_CODE_LENGTH", "six")
		t.Setenv("REQUEST_TIMEOUT", "soon")
		t.Setenv("CACHE_ENABLED", "maybe")

		cfg, err := Load()
		assert.Nil(t, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `SHORT_CODE_LENGTH: "six" is not an integer`)
		assert.Contains(t, err.Error(), `REQUEST_TIMEOUT: "soon" is not a duration`)
		assert.Contains(t, err.Error(), `CACHE_ENABLED: "maybe" is not a boolean`)
	})

	t.Run("Cache timeout", func(t *testing.T) {
		t.Setenv("BASE_URL", "https://sho.rt")
		t.Setenv("CACHE_TIMEOUT", "250ms")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 250*time.Millisecond, cfg.CacheTimeout)
	})

	t.Run("Unreadable .env file", func(t *testing.T) {
		t.Setenv("BASE_URL", "https://sho.rt")
		wd, err := os.Getwd()
		require.NoError(t, err)
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, ".env"), 0o755))
		require.NoError(t, os.Chdir(dir))
		t.Cleanup(func() { os.Chdir(wd) })

		cfg, err := Load()
		assert.Nil(t, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load .env")
	})

	t.Run("Values from .env file", func(t *testing.T) {
		t.Setenv("BASE_URL", "https://sho.rt")
		wd, err := os.Getwd()
		require.NoError(t, err)
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TABLE_NAME=from_dotenv\n"), 0o644))
		require.NoError(t, os.Chdir(dir))
		t.Cleanup(func() {
			os.Chdir(wd)
			os.Unsetenv("TABLE_NAME")
		})

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "from_dotenv", cfg.TableName)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.BaseURL = "https://sho.rt"
		return cfg
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		expectedErr string
	}{
		{"Valid", func(*Config) {}, ""},
		{"Empty table", func(c *Config) { c.TableName = "" }, "TABLE_NAME"},
		{"Zero code length", func(c *Config) { c.CodeLength = 0 }, "short code length"},
		{"Huge code length", func(c *Config) { c.CodeLength = 64 }, "short code length"},
		{"Zero retries", func(c *Config) { c.MaxRetries = 0 }, "max retries"},
		{"Unknown backend", func(c *Config) { c.StoreBackend = "dynamo" }, "unknown store backend"},
		{"Postgres without URL", func(c *Config) { c.StoreBackend = BackendPostgres }, "POSTGRES_URL"},
		{"Mongo without URI", func(c *Config) { c.StoreBackend = BackendMongo }, "MONGO_URI"},
		{"Redis without addr", func(c *Config) { c.StoreBackend = BackendRedis; c.RedisAddr = "" }, "REDIS_ADDR"},
		{"Cache without addr", func(c *Config) { c.CacheEnabled = true; c.RedisAddr = "" }, "CACHE_ENABLED"},
		{"Bad log level", func(c *Config) { c.LogLevel = "verbose" }, "invalid log level"},
		{"Zero timeout", func(c *Config) { c.RequestTimeout = 0 }, "request timeout"},
		{"Zero cache timeout", func(c *Config) { c.CacheEnabled = true; c.CacheTimeout = 0 }, "cache timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expectedErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}
