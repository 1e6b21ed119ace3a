package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go-url-shortener/types"
	"go.uber.org/zap"
)

// DefaultCacheTimeout bounds each cache round trip so a stalled Redis leaves
// the wrapped store its share of the request deadline.
const DefaultCacheTimeout = 100 * time.Millisecond

// CachedStorage puts a Redis read-through cache in front of another Storage.
// Mappings never change once written, so cached entries cannot go stale.
// The wrapped store alone decides uniqueness.
type CachedStorage struct {
	next   Storage
	client *redis.Client
	prefix string
	ttl     time.Duration
	timeout time.Duration
	logger  *zap.Logger
}

// NewCachedStorage wraps next. The cache takes ownership of both next and client.
func NewCachedStorage(next Storage, client *redis.Client, prefix string, ttl time.Duration, logger *zap.Logger) *CachedStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedStorage{
		next:    next,
		client:  client,
		prefix:  "cache:" + prefix,
		ttl:     ttl,
		timeout: DefaultCacheTimeout,
		logger:  logger.With(zap.String("component", "CachedStorage")),
	}
}

// WithTimeout sets the per-call cache deadline. Non-positive values keep the
// current one. The client must be built with ContextTimeoutEnabled, as
// NewRedisClient does, for the deadline to cut off a blocked read.
func (s *CachedStorage) WithTimeout(d time.Duration) *CachedStorage {
	if d > 0 {
		s.timeout = d
	}
	return s
}

func (s *CachedStorage) key(shortCode string) string {
	return s.prefix + ":" + shortCode
}

// PutIfAbsent delegates to the wrapped store and warms the cache on success.
func (s *CachedStorage) PutIfAbsent(ctx context.Context, mapping types.URLMapping) (bool, error) {
	inserted, err := s.next.PutIfAbsent(ctx, mapping)
	if err != nil || !inserted {
		return inserted, err
	}
	s.set(ctx, mapping)
	return true, nil
}

// Get consults the cache first and falls back to the wrapped store.
func (s *CachedStorage) Get(ctx context.Context, shortCode string) (types.URLMapping, bool, error) {
	cacheCtx, cancel := context.WithTimeout(ctx, s.timeout)
	value, err := s.client.Get(cacheCtx, s.key(shortCode)).Bytes()
	cancel()
	if err == nil {
		var mapping types.URLMapping
		if jsonErr := json.Unmarshal(value, &mapping); jsonErr == nil {
			s.logger.Debug("Cache hit", zap.String("shortCode", shortCode))
			return mapping, true, nil
		}
		s.logger.Warn("Dropping undecodable cache entry", zap.String("shortCode", shortCode))
	} else if err != redis.Nil {
		s.logger.Warn("Cache error", zap.Error(err), zap.String("shortCode", shortCode))
	}

	mapping, found, err := s.next.Get(ctx, shortCode)
	if err != nil || !found {
		return mapping, found, err
	}
	s.set(ctx, mapping)
	return mapping, true, nil
}

func (s *CachedStorage) set(ctx context.Context, mapping types.URLMapping) {
	value, err := json.Marshal(mapping)
	if err != nil {
		return
	}
	cacheCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.client.Set(cacheCtx, s.key(mapping.ShortCode), value, s.ttl).Err(); err != nil {
		s.logger.Warn("Failed to cache mapping", zap.Error(err), zap.String("shortCode", mapping.ShortCode))
	}
}

// Close closes the cache client and the wrapped store.
func (s *CachedStorage) Close() error {
	cacheErr := s.client.Close()
	if err := s.next.Close(); err != nil {
		return err
	}
	return cacheErr
}
