// Package config provides configuration settings for the URL shortener service.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported storage backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
)

const maxCodeLength = 32

// Config holds the configuration settings for the application.
type Config struct {
	// BaseURL is prefixed to every short code in responses. Required.
	BaseURL    string
	TableName  string
	CodeLength int
	MaxRetries int

	StoreBackend   string
	MemoryCapacity int
	SQLitePath     string
	PostgresURL    string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	MongoURI       string
	MongoDatabase  string
	CacheEnabled   bool
	CacheTTL       time.Duration
	CacheTimeout   time.Duration

	RequestTimeout  time.Duration
	ServerPort      string
	ShutdownTimeout time.Duration
	LogLevel        string
	MetricsEnabled  bool
}

// DefaultConfig returns the default configuration settings.
// BaseURL has no default and must be supplied.
func DefaultConfig() *Config {
	return &Config{
		TableName:       "ShortenedUrls",
		CodeLength:      6,
		MaxRetries:      5,
		StoreBackend:    BackendMemory,
		MemoryCapacity:  1000000,
		SQLitePath:      "./data/urls.db",
		RedisAddr:       "localhost:6379",
		MongoDatabase:   "shortener",
		CacheTTL:        24 * time.Hour,
		CacheTimeout:    100 * time.Millisecond,
		RequestTimeout:  5 * time.Second,
		ServerPort:      ":3000",
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        "info",
		MetricsEnabled:  true,
	}
}

// Load reads configuration from environment variables, after loading a .env
// file from the working directory when one exists. A .env file that cannot be
// read or a value that does not parse is an error, not a silent default.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("invalid configuration: load .env: %w", err)
	}

	def := DefaultConfig()
	env := &envReader{}
	cfg := &Config{
		BaseURL:    os.Getenv("BASE_URL"),
		TableName:  env.getString("TABLE_NAME", def.TableName),
		CodeLength: env.getInt("SHORT_CODE_LENGTH", def.CodeLength),
		MaxRetries: env.getInt("MAX_RETRIES", def.MaxRetries),

		StoreBackend:   strings.ToLower(env.getString("STORE_BACKEND", def.StoreBackend)),
		MemoryCapacity: env.getInt("MEMORY_CAPACITY", def.MemoryCapacity),
		SQLitePath:     env.getString("SQLITE_PATH", def.SQLitePath),
		PostgresURL:    os.Getenv("POSTGRES_URL"),
		RedisAddr:      env.getString("REDIS_ADDR", def.RedisAddr),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        env.getInt("REDIS_DB", def.RedisDB),
		MongoURI:       os.Getenv("MONGO_URI"),
		MongoDatabase:  env.getString("MONGO_DATABASE", def.MongoDatabase),
		CacheEnabled:   env.getBool("CACHE_ENABLED", def.CacheEnabled),
		CacheTTL:       env.getDuration("CACHE_TTL", def.CacheTTL),
		CacheTimeout:   env.getDuration("CACHE_TIMEOUT", def.CacheTimeout),

		RequestTimeout:  env.getDuration("REQUEST_TIMEOUT", def.RequestTimeout),
		ServerPort:      env.getString("SERVER_PORT", def.ServerPort),
		ShutdownTimeout: env.getDuration("SHUTDOWN_TIMEOUT", def.ShutdownTimeout),
		LogLevel:        strings.ToLower(env.getString("LOG_LEVEL", def.LogLevel)),
		MetricsEnabled:  env.getBool("METRICS_ENABLED", def.MetricsEnabled),
	}

	if err := errors.Join(env.errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("BASE_URL is required")
	}
	if c.TableName == "" {
		return errors.New("TABLE_NAME cannot be empty")
	}
	if c.CodeLength < 1 || c.CodeLength > maxCodeLength {
		return fmt.Errorf("invalid short code length: %d (must be 1-%d)", c.CodeLength, maxCodeLength)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("invalid max retries: %d (must be at least 1)", c.MaxRetries)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}

	switch c.StoreBackend {
	case BackendMemory:
		if c.MemoryCapacity <= 0 {
			return fmt.Errorf("invalid memory capacity: %d", c.MemoryCapacity)
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH cannot be empty")
		}
	case BackendPostgres:
		if c.PostgresURL == "" {
			return errors.New("POSTGRES_URL is required for the postgres backend")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis backend")
		}
	case BackendMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required for the mongo backend")
		}
		if c.MongoDatabase == "" {
			return errors.New("MONGO_DATABASE cannot be empty")
		}
	default:
		return fmt.Errorf("unknown store backend: %q", c.StoreBackend)
	}

	if c.CacheEnabled && c.RedisAddr == "" {
		return errors.New("REDIS_ADDR is required when CACHE_ENABLED is set")
	}
	if c.CacheEnabled && c.CacheTimeout <= 0 {
		return errors.New("cache timeout must be positive")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	return nil
}

// envReader reads typed values from the environment and collects every
// value that fails to parse.
type envReader struct {
	errs []error
}

func (r *envReader) getString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (r *envReader) getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %q is not an integer", key, value))
		return defaultValue
	}
	return intValue
}

func (r *envReader) getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %q is not a boolean", key, value))
		return defaultValue
	}
	return boolValue
}

func (r *envReader) getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %q is not a duration", key, value))
		return defaultValue
	}
	return duration
}
