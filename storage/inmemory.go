package storage

import (
	"context"
	"sync"

	"go-url-shortener/types"
	"go.uber.org/zap"
)

// InMemoryStorage implements the Storage interface using an in-memory map.
type InMemoryStorage struct {
	mappings map[string]types.URLMapping
	mu       sync.RWMutex
	capacity int
	count    int
	logger   *zap.Logger
}

// The write lock makes the existence check and the insert in PutIfAbsent a
// single atomic step; lookups share the read lock.

// NewInMemoryStorage creates and returns a new InMemoryStorage instance.
func NewInMemoryStorage(capacity int, logger *zap.Logger) *InMemoryStorage {
	if capacity <= 0 {
		capacity = 1000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryStorage{
		mappings: make(map[string]types.URLMapping),
		capacity: capacity,
		logger:   logger.With(zap.String("component", "InMemoryStorage")),
	}
}

// PutIfAbsent stores the mapping unless its short code is already taken.
func (s *InMemoryStorage) PutIfAbsent(ctx context.Context, mapping types.URLMapping) (bool, error) {
	select {
	case <-ctx.Done():
		s.logger.Warn("PutIfAbsent operation cancelled", zap.String("shortCode", mapping.ShortCode))
		return false, ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.mappings[mapping.ShortCode]; exists {
		s.logger.Debug("Short code already taken", zap.String("shortCode", mapping.ShortCode))
		return false, nil
	}
	if s.count >= s.capacity {
		s.logger.Error("Storage capacity reached", zap.String("shortCode", mapping.ShortCode))
		return false, ErrStorageCapacityReached
	}

	s.mappings[mapping.ShortCode] = mapping
	s.count++
	s.logger.Debug("Mapping stored",
		zap.String("shortCode", mapping.ShortCode),
		zap.String("longURL", mapping.LongURL))
	return true, nil
}

// Get retrieves the mapping for a short code.
func (s *InMemoryStorage) Get(ctx context.Context, shortCode string) (types.URLMapping, bool, error) {
	select {
	case <-ctx.Done():
		s.logger.Warn("Get operation cancelled", zap.String("shortCode", shortCode))
		return types.URLMapping{}, false, ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	mapping, exists := s.mappings[shortCode]
	return mapping, exists, nil
}

// Len returns the number of stored mappings.
func (s *InMemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStorage) Close() error {
	return nil
}
