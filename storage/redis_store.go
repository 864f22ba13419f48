package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/constrogen/procure"
	redis "github.com/redis/go-redis/v9"
)

// RedisStore is a durable store backed by Redis, for deployments where the
// session blob lives server-side rather than on the device.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	logger procure.Logger
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(rdb *redis.Client, opts ...Option) *RedisStore {
	options := newOptions(opts)
	if options.prefix == "" {
		options.prefix = "procure:"
	}
	return &RedisStore{
		rdb:    rdb,
		prefix: options.prefix,
		ttl:    options.ttl,
		logger: options.logger,
	}
}

func (s *RedisStore) entryKey(key string) string {
	return s.prefix + key
}

// Set serializes value and writes it under the prefixed key.
func (s *RedisStore) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return newError("set", key, err)
	}
	if err = s.rdb.Set(ctx, s.entryKey(key), data, s.ttl).Err(); err != nil {
		return newError("set", key, err)
	}
	return nil
}

// Get loads the value stored under key into target.
func (s *RedisStore) Get(ctx context.Context, key string, target interface{}) bool {
	raw, err := s.rdb.Get(ctx, s.entryKey(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Errorf("storage get %q: %v", key, err)
		}
		return false
	}
	if err = json.Unmarshal(raw, target); err != nil {
		s.logger.Errorf("storage get %q: %v", key, err)
		return false
	}
	return true
}

// Remove deletes the prefixed key. Deleting an absent key is a no-op.
func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.entryKey(key)).Err(); err != nil {
		return newError("remove", key, err)
	}
	return nil
}

// IsAvailable probes the backend with a disposable write and delete.
func (s *RedisStore) IsAvailable(ctx context.Context) bool {
	URL := s.entryKey(probeKey)
	if err := s.rdb.Set(ctx, URL, "probe", time.Minute).Err(); err != nil {
		return false
	}
	if err := s.rdb.Del(ctx, URL).Err(); err != nil {
		return false
	}
	return true
}
