package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mainnet-pat/cc-wallet/internal/storage"
)

// Store is a string key-value store holding serialized entries. Eviction is
// the store's own business; the fetcher never deletes.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// DBStore adapts a storage.DB (memory or Badger, optionally namespaced
// with storage.PrefixDB) to Store.
type DBStore struct {
	db  storage.DB
	ttl time.Duration
}

// NewDBStore wraps db.
func NewDBStore(db storage.DB) *DBStore {
	return &DBStore{db: db}
}

// Get implements Store.
func (s *DBStore) Get(_ context.Context, key string) (string, bool, error) {
	v, err := s.db.Get([]byte(key))
	if errors.Is(err, storage.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(v), true, nil
}

// WithTTL makes Set expire entries after ttl on databases that implement
// storage.TTLWriter. A non-positive ttl disables expiry.
func (s *DBStore) WithTTL(ttl time.Duration) *DBStore {
	s.ttl = ttl
	return s
}

// Set implements Store.
func (s *DBStore) Set(_ context.Context, key, value string) error {
	if w, ok := s.db.(storage.TTLWriter); ok && s.ttl > 0 {
		return w.PutWithTTL([]byte(key), []byte(value), s.ttl)
	}
	return s.db.Put([]byte(key), []byte(value))
}

// RedisStore keeps entries in Redis so several processes can share one
// cache. Keys are namespaced with Prefix.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store. prefix separates logical
// stores (for example "quote:" and "historic:") within one Redis database.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// WithTTL sets the Redis expiry applied by Set. Without it, or with a
// non-positive ttl, entries never expire and server-side eviction applies.
func (s *RedisStore) WithTTL(ttl time.Duration) *RedisStore {
	s.ttl = ttl
	return s
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	return s.client.Set(ctx, s.prefix+key, value, ttl).Err()
}
