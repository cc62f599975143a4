package cache

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "intake:extract:"

// RedisStore shares cached responses across runs and hosts. Entries are
// content-addressed and never invalidated, so no TTL is set.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

// OpenRedis parses a redis:// URL and returns the store.
func OpenRedis(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisStore{
		client: redis.NewClient(opts),
		logger: slog.Default().With("component", "cache-redis"),
	}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("cache.get.redis_failed", "key", key, "error", err)
		}
		return nil, false
	}
	return b, true
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte) {
	if err := s.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		s.logger.Warn("cache.put.redis_failed", "key", key, "error", err)
	}
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error { return s.client.Close() }
