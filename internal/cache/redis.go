package cache

import (
	"github.com/gofiber/storage/redis/v3"
)

// NewRedisBackend connects to Redis at url. The database is cleared on
// connect; point it at a database reserved for the coordinator.
func NewRedisBackend(url string) *redis.Storage {
	return redis.New(redis.Config{
		URL:   url,
		Reset: true,
	})
}

// NewRedis creates a cache backed by Redis at url.
func NewRedis(url string) (*Cache, func() error, error) {
	store := NewRedisBackend(url)
	c, err := New(store)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return c, store.Close, nil
}
