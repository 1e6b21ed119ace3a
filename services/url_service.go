// Package services implements the create and resolve operations of the URL
// shortener on top of a storage.Storage.
package services

import (
	"context"
	"fmt"
	"time"

	"go-url-shortener/metrics"
	"go-url-shortener/storage"
	"go-url-shortener/types"
	"go-url-shortener/urlgen"
	"go.uber.org/zap"
)

const (
	DefaultCodeLength = urlgen.DefaultLength
	DefaultMaxRetries = 5
)

// Options tunes code generation. Zero values select the defaults.
type Options struct {
	CodeLength int
	MaxRetries int
}

// URLService is the core of the shortener.
type URLService interface {
	// Create stores longURL under a fresh short code and returns the code.
	Create(ctx context.Context, longURL string) (string, error)
	// Resolve returns the long URL stored under shortCode, unchanged.
	Resolve(ctx context.Context, shortCode string) (string, error)
	// Describe returns the full record stored under shortCode.
	Describe(ctx context.Context, shortCode string) (types.URLMapping, error)
}

type urlService struct {
	store      storage.Storage
	generator  urlgen.Generator
	codeLength int
	maxRetries int
	logger     *zap.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewURLService wires a service around store. The store is shared by all
// calls and is never recreated; the service itself keeps no per-call state.
func NewURLService(store storage.Storage, generator urlgen.Generator, opts Options, logger *zap.Logger, m *metrics.Metrics) URLService {
	if generator == nil {
		generator = urlgen.NewRandomGenerator()
	}
	if opts.CodeLength <= 0 {
		opts.CodeLength = DefaultCodeLength
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &urlService{
		store:      store,
		generator:  generator,
		codeLength: opts.CodeLength,
		maxRetries: opts.MaxRetries,
		logger:     logger.With(zap.String("component", "URLService")),
		metrics:    m,
		now:        time.Now,
	}
}

func (s *urlService) Create(ctx context.Context, longURL string) (string, error) {
	if longURL == "" {
		s.metrics.ObserveCreate(metrics.ResultInvalid)
		return "", fmt.Errorf("%w: long URL is required", ErrValidation)
	}

	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		mapping := types.URLMapping{
			ShortCode: s.generator.Generate(s.codeLength),
			LongURL:   longURL,
			CreatedAt: s.now().UnixMilli(),
		}

		inserted, err := s.store.PutIfAbsent(ctx, mapping)
		if err != nil {
			s.metrics.ObserveCreate(metrics.ResultStoreError)
			return "", &StoreError{Op: "put_if_absent", Err: err}
		}
		if inserted {
			s.metrics.ObserveCreate(metrics.ResultCreated)
			s.logger.Info("Short code created",
				zap.String("shortCode", mapping.ShortCode),
				zap.String("longURL", longURL),
				zap.Int("attempt", attempt))
			return mapping.ShortCode, nil
		}

		s.metrics.ObserveCollision()
		s.logger.Debug("Short code collision, retrying",
			zap.String("shortCode", mapping.ShortCode),
			zap.Int("attempt", attempt))
	}

	s.metrics.ObserveCreate(metrics.ResultExhausted)
	s.logger.Error("Every generated short code collided; code length may be too short or the code space nearly full",
		zap.Int("attempts", s.maxRetries),
		zap.Int("codeLength", s.codeLength))
	return "", fmt.Errorf("%w: %d attempts", ErrExhaustedRetries, s.maxRetries)
}

func (s *urlService) Resolve(ctx context.Context, shortCode string) (string, error) {
	mapping, err := s.lookup(ctx, shortCode)
	if err != nil {
		return "", err
	}
	return mapping.LongURL, nil
}

func (s *urlService) Describe(ctx context.Context, shortCode string) (types.URLMapping, error) {
	return s.lookup(ctx, shortCode)
}

func (s *urlService) lookup(ctx context.Context, shortCode string) (types.URLMapping, error) {
	if shortCode == "" {
		s.metrics.ObserveResolve(metrics.ResultInvalid)
		return types.URLMapping{}, fmt.Errorf("%w: short code is required", ErrValidation)
	}

	mapping, found, err := s.store.Get(ctx, shortCode)
	if err != nil {
		s.metrics.ObserveResolve(metrics.ResultStoreError)
		return types.URLMapping{}, &StoreError{Op: "get", Err: err}
	}
	if !found {
		s.metrics.ObserveResolve(metrics.ResultNotFound)
		return types.URLMapping{}, ErrNotFound
	}

	s.metrics.ObserveResolve(metrics.ResultFound)
	return mapping, nil
}
