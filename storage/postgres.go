package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go-url-shortener/types"
	"go.uber.org/zap"
)

// PostgresStorage implements the Storage interface on PostgreSQL.
type PostgresStorage struct {
	pool       *pgxpool.Pool
	insertStmt string
	selectStmt string
	logger     *zap.Logger
}

// NewPostgresPool builds a connection pool and checks connectivity.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse database URL failed")
	}

	config.MaxConns = 25
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute
	config.HealthCheckPeriod = time.Minute
	config.ConnConfig.ConnectTimeout = 10 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, errors.Wrap(err, "create connection pool failed")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping database failed")
	}
	return pool, nil
}

// NewPostgresStorage wraps an existing pool and makes sure the mapping table exists.
// The storage takes ownership of the pool.
func NewPostgresStorage(ctx context.Context, pool *pgxpool.Pool, table string, logger *zap.Logger) (*PostgresStorage, error) {
	if err := checkTableName(table); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ident := pgx.Identifier{table}.Sanitize()
	_, err := pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			short_code TEXT PRIMARY KEY,
			long_url   TEXT NOT NULL,
			created_at BIGINT NOT NULL
		)`, ident))
	if err != nil {
		return nil, errors.Wrap(err, "create table failed")
	}

	return &PostgresStorage{
		pool:       pool,
		insertStmt: fmt.Sprintf(`INSERT INTO %s (short_code, long_url, created_at) VALUES ($1, $2, $3) ON CONFLICT (short_code) DO NOTHING`, ident),
		selectStmt: fmt.Sprintf(`SELECT short_code, long_url, created_at FROM %s WHERE short_code = $1`, ident),
		logger:     logger.With(zap.String("component", "PostgresStorage")),
	}, nil
}

// PutIfAbsent inserts the mapping unless the short code exists.
func (s *PostgresStorage) PutIfAbsent(ctx context.Context, mapping types.URLMapping) (bool, error) {
	tag, err := s.pool.Exec(ctx, s.insertStmt, mapping.ShortCode, mapping.LongURL, mapping.CreatedAt)
	if err != nil {
		s.logger.Error("Failed to insert mapping", zap.Error(err), zap.String("shortCode", mapping.ShortCode))
		return false, errors.Wrap(err, "insert mapping failed")
	}
	return tag.RowsAffected() == 1, nil
}

// Get looks up a mapping by short code.
func (s *PostgresStorage) Get(ctx context.Context, shortCode string) (types.URLMapping, bool, error) {
	var mapping types.URLMapping
	err := s.pool.QueryRow(ctx, s.selectStmt, shortCode).
		Scan(&mapping.ShortCode, &mapping.LongURL, &mapping.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.URLMapping{}, false, nil
	}
	if err != nil {
		s.logger.Error("Failed to query mapping", zap.Error(err), zap.String("shortCode", shortCode))
		return types.URLMapping{}, false, errors.Wrap(err, "query mapping failed")
	}
	return mapping, true, nil
}

// Close releases the connection pool.
func (s *PostgresStorage) Close() error {
	s.pool.Close()
	return nil
}
