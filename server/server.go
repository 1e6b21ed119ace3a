// Package server wires configuration, storage, and HTTP handlers together and
// runs the HTTP server until it is asked to stop.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go-url-shortener/config"
	"go-url-shortener/handlers"
	"go-url-shortener/metrics"
	"go-url-shortener/services"
	"go-url-shortener/storage"
	"go-url-shortener/urlgen"
	"go.uber.org/zap"
)

// Run starts the service and blocks until SIGINT or SIGTERM.
func Run(logger *zap.Logger, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, logger, cfg)
}

func run(ctx context.Context, logger *zap.Logger, cfg *config.Config) error {
	store, err := newStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to set up storage", zap.String("backend", cfg.StoreBackend), zap.Error(err))
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close storage", zap.Error(err))
		}
	}()

	router, err := setupRouter(ctx, cfg, store, logger)
	if err != nil {
		return err
	}

	srv := setupServer(cfg, router)
	errCh := make(chan error, 1)
	go startServer(srv, logger, errCh)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	return shutdown(srv, cfg, logger)
}

// newStorage builds the mapping store selected by cfg.StoreBackend, wrapped in
// a Redis read-through cache when CacheEnabled is set.
func newStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()

	var store storage.Storage
	switch cfg.StoreBackend {
	case config.BackendMemory:
		store = storage.NewInMemoryStorage(cfg.MemoryCapacity, logger)
	case config.BackendSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrap(err, "create sqlite directory failed")
			}
		}
		s, err := storage.NewSQLiteStorage(connectCtx, cfg.SQLitePath, cfg.TableName, logger)
		if err != nil {
			return nil, err
		}
		store = s
	case config.BackendPostgres:
		pool, err := storage.NewPostgresPool(connectCtx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		s, err := storage.NewPostgresStorage(connectCtx, pool, cfg.TableName, logger)
		if err != nil {
			pool.Close()
			return nil, err
		}
		store = s
	case config.BackendRedis:
		client, err := storage.NewRedisClient(connectCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		store = storage.NewRedisStorage(client, cfg.TableName, logger)
	case config.BackendMongo:
		client, err := storage.NewMongoClient(connectCtx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		store = storage.NewMongoStorage(client, cfg.MongoDatabase, cfg.TableName, logger)
	default:
		return nil, errors.Wrapf(storage.ErrUnknownBackend, "backend %q", cfg.StoreBackend)
	}

	if !cfg.CacheEnabled || cfg.StoreBackend == config.BackendRedis {
		return store, nil
	}

	client, err := storage.NewRedisClient(connectCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		store.Close()
		return nil, err
	}
	logger.Info("Redis cache enabled",
		zap.String("addr", cfg.RedisAddr),
		zap.Duration("ttl", cfg.CacheTTL),
		zap.Duration("timeout", cfg.CacheTimeout))
	return storage.NewCachedStorage(store, client, cfg.TableName, cfg.CacheTTL, logger).WithTimeout(cfg.CacheTimeout), nil
}

func setupRouter(ctx context.Context, cfg *config.Config, store storage.Storage, logger *zap.Logger) (*gin.Engine, error) {
	var (
		m              *metrics.Metrics
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(reg)
		metricsHandler = metrics.Handler(reg)
	}

	urlService := services.NewURLService(store, urlgen.NewRandomGenerator(), services.Options{
		CodeLength: cfg.CodeLength,
		MaxRetries: cfg.MaxRetries,
	}, logger, m)

	handlerCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()

	urlHandler, err := handlers.NewURLHandler(handlerCtx, urlService, cfg, logger)
	if err != nil {
		logger.Error("Failed to create URL handler", zap.Error(err))
		return nil, err
	}
	logger.Debug("URL handler created successfully")

	router := gin.New()
	handlers.RegisterRoutes(router, urlHandler, logger, m, metricsHandler)
	return router, nil
}

func setupServer(cfg *config.Config, router *gin.Engine) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: cfg.RequestTimeout,
	}
}

func startServer(srv *http.Server, logger *zap.Logger, errCh chan<- error) {
	logger.Info("Starting server", zap.String("address", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", zap.Error(err))
		errCh <- err
		return
	}
	logger.Debug("Server stopped")
}

func shutdown(srv *http.Server, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Received shutdown signal. Initiating server shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("Server gracefully stopped")
	return nil
}
