package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
)

// DirStore keeps one <key>.json file per entry. Reads of missing or
// malformed files are misses; write errors are logged and swallowed.
type DirStore struct {
	dir    string
	logger *slog.Logger
}

// OpenDir creates the directory if needed and returns the store.
func OpenDir(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DirStore{dir: dir, logger: slog.Default().With("component", "cache-dir")}, nil
}

func (s *DirStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *DirStore) Get(_ context.Context, key string) ([]byte, bool) {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}
	if !json.Valid(b) {
		s.logger.Warn("cache.get.malformed_entry", "key", key)
		return nil, false
	}
	return b, true
}

func (s *DirStore) Put(_ context.Context, key string, value []byte) {
	if err := os.WriteFile(s.path(key), value, 0o644); err != nil {
		s.logger.Warn("cache.put.write_failed", "key", key, "error", err)
	}
}
