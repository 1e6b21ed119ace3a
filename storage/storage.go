// Package storage provides the mapping store interface and its backends.
package storage

import (
	"context"
	"errors"

	"go-url-shortener/types"
)

// Common errors returned by storage operations.
var (
	ErrStorageCapacityReached = errors.New("storage capacity reached")
	ErrUnknownBackend         = errors.New("unknown storage backend")
)

// Storage holds short code to long URL mappings.
//
// PutIfAbsent must be atomic: it writes the mapping only when no record with
// the same short code exists, and reports a collision as inserted=false with a
// nil error. Get reports a miss as found=false with a nil error.
type Storage interface {
	PutIfAbsent(ctx context.Context, mapping types.URLMapping) (inserted bool, err error)
	Get(ctx context.Context, shortCode string) (mapping types.URLMapping, found bool, err error)
	Close() error
}
