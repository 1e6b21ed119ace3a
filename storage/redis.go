package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go-url-shortener/types"
	"go.uber.org/zap"
)

// NewRedisClient builds a client and checks connectivity.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,

		// request deadlines cut blocked reads short
		ContextTimeoutEnabled: true,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "connect to redis failed")
	}
	return client, nil
}

// RedisStorage implements the Storage interface on Redis. Each mapping is a
// JSON string stored under "<prefix>:<short code>".
type RedisStorage struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisStorage wraps a client; the storage takes ownership of it.
func NewRedisStorage(client *redis.Client, prefix string, logger *zap.Logger) *RedisStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStorage{
		client: client,
		prefix: prefix,
		logger: logger.With(zap.String("component", "RedisStorage")),
	}
}

func (s *RedisStorage) key(shortCode string) string {
	return s.prefix + ":" + shortCode
}

// PutIfAbsent stores the mapping with SETNX.
func (s *RedisStorage) PutIfAbsent(ctx context.Context, mapping types.URLMapping) (bool, error) {
	value, err := json.Marshal(mapping)
	if err != nil {
		return false, errors.Wrap(err, "encode mapping failed")
	}
	inserted, err := s.client.SetNX(ctx, s.key(mapping.ShortCode), value, 0).Result()
	if err != nil {
		s.logger.Error("Failed to store mapping", zap.Error(err), zap.String("shortCode", mapping.ShortCode))
		return false, errors.Wrap(err, "setnx failed")
	}
	return inserted, nil
}

// Get looks up a mapping by short code.
func (s *RedisStorage) Get(ctx context.Context, shortCode string) (types.URLMapping, bool, error) {
	value, err := s.client.Get(ctx, s.key(shortCode)).Bytes()
	if err == redis.Nil {
		return types.URLMapping{}, false, nil
	}
	if err != nil {
		s.logger.Error("Failed to read mapping", zap.Error(err), zap.String("shortCode", shortCode))
		return types.URLMapping{}, false, errors.Wrap(err, "get failed")
	}

	var mapping types.URLMapping
	if err := json.Unmarshal(value, &mapping); err != nil {
		return types.URLMapping{}, false, errors.Wrap(err, "decode mapping failed")
	}
	return mapping, true, nil
}

// Close closes the client.
func (s *RedisStorage) Close() error {
	return s.client.Close()
}
