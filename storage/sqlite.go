package storage

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"go-url-shortener/types"
	"go.uber.org/zap"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func checkTableName(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid table name %q", name)
	}
	return nil
}

// SQLiteStorage implements the Storage interface on a SQLite database file.
type SQLiteStorage struct {
	db         *sql.DB
	insertStmt string
	selectStmt string
	logger     *zap.Logger
}

// NewSQLiteStorage opens (or creates) the database at path and makes sure the
// mapping table exists.
func NewSQLiteStorage(ctx context.Context, path, table string, logger *zap.Logger) (*SQLiteStorage, error) {
	if err := checkTableName(table); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite failed")
	}
	// a single connection serialises writers and avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	_, err = db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %q (
			short_code TEXT PRIMARY KEY,
			long_url   TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`, table))
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create table failed")
	}

	return &SQLiteStorage{
		db:         db,
		insertStmt: fmt.Sprintf(`INSERT INTO %q (short_code, long_url, created_at) VALUES (?, ?, ?) ON CONFLICT(short_code) DO NOTHING`, table),
		selectStmt: fmt.Sprintf(`SELECT short_code, long_url, created_at FROM %q WHERE short_code = ?`, table),
		logger:     logger.With(zap.String("component", "SQLiteStorage")),
	}, nil
}

// PutIfAbsent inserts the mapping, leaving an existing row untouched.
func (s *SQLiteStorage) PutIfAbsent(ctx context.Context, mapping types.URLMapping) (bool, error) {
	result, err := s.db.ExecContext(ctx, s.insertStmt, mapping.ShortCode, mapping.LongURL, mapping.CreatedAt)
	if err != nil {
		s.logger.Error("Failed to insert mapping", zap.Error(err), zap.String("shortCode", mapping.ShortCode))
		return false, errors.Wrap(err, "insert mapping failed")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "read affected rows failed")
	}
	return affected == 1, nil
}

// Get looks up a mapping by short code.
func (s *SQLiteStorage) Get(ctx context.Context, shortCode string) (types.URLMapping, bool, error) {
	var mapping types.URLMapping
	err := s.db.QueryRowContext(ctx, s.selectStmt, shortCode).
		Scan(&mapping.ShortCode, &mapping.LongURL, &mapping.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return types.URLMapping{}, false, nil
	}
	if err != nil {
		s.logger.Error("Failed to query mapping", zap.Error(err), zap.String("shortCode", shortCode))
		return types.URLMapping{}, false, errors.Wrap(err, "query mapping failed")
	}
	return mapping, true, nil
}

// Close closes the underlying database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
