package cache

import (
	"context"
	"database/sql"
	"log/slog"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists entries in a single-table embedded database.
// INSERT OR REPLACE gives last-writer-wins on racing first writes.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens (and initializes) the cache database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	const ddl = `CREATE TABLE IF NOT EXISTS extraction_cache (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL
	)`
	if _, err := db.Exec(ddl); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, logger: slog.Default().With("component", "cache-sqlite")}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM extraction_cache WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.Warn("cache.get.query_failed", "key", key, "error", err)
		}
		return nil, false
	}
	return value, true
}

func (s *SQLiteStore) Put(ctx context.Context, key string, value []byte) {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO extraction_cache (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		s.logger.Warn("cache.put.exec_failed", "key", key, "error", err)
	}
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
