// Package cache is the content-addressed, advisory response cache. A hit
// suppresses the external extraction call; every backend failure is a miss
// or a no-op, never a pipeline error.
package cache

import (
	"context"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/legal-intake/constants"
)

// Store is the cache contract. Implementations must tolerate concurrent
// access to the same key; a lost update on a simultaneous first write is
// acceptable, the cache is never a correctness dependency.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Put(ctx context.Context, key string, value []byte)
}

// Key hashes the canonical serialization of (doc type, candidates) with
// 64-bit FNV-1a. Collisions are an accepted approximation, not handled:
// two colliding documents would share one cached response.
func Key(dt constants.DocType, canonical []byte) string {
	h := fnv.New64a()
	h.Write([]byte(dt))
	h.Write([]byte("\n"))
	h.Write(canonical)
	return strconv.FormatUint(h.Sum64(), 10)
}

// Open selects a backend from the configured location: empty disables
// caching (nil store), redis:// uses Redis, a *.db or sqlite: path uses the
// embedded sqlite store, anything else is a directory of per-key files.
func Open(location string) (Store, error) {
	switch {
	case location == "":
		return nil, nil
	case strings.HasPrefix(location, "redis://"):
		return OpenRedis(location)
	case strings.HasPrefix(location, "sqlite:"):
		return OpenSQLite(strings.TrimPrefix(location, "sqlite:"))
	case strings.HasSuffix(location, ".db"):
		return OpenSQLite(location)
	default:
		return OpenDir(location)
	}
}
