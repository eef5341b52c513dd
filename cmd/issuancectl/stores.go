package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mainnet-pat/cc-wallet/config"
	"github.com/mainnet-pat/cc-wallet/internal/cache"
	"github.com/mainnet-pat/cc-wallet/internal/indexer"
	klog "github.com/mainnet-pat/cc-wallet/internal/log"
	"github.com/mainnet-pat/cc-wallet/internal/storage"
)

// Key namespaces inside a shared backend.
const (
	quoteNamespace    = "quote/"
	historicNamespace = "historic/"
	redisKeyPrefix    = "ccwallet:"
)

// cacheStores holds the two response stores and whatever must be closed
// when the command exits.
type cacheStores struct {
	indexer.Stores
	closers []func() error
}

func (s *cacheStores) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openStores builds the quote and durable stores for the configured
// backend. Persistent backends expire quote entries after cache.quote_ttl
// so stale quotes do not pile up between runs; historic entries never
// expire.
func openStores(ctx context.Context, cfg *config.Config) (*cacheStores, error) {
	s := &cacheStores{}
	switch cfg.Cache.Backend {
	case config.CacheMemory:
		session := storage.NewMemory()
		s.Quote = cache.NewDBStore(storage.NewPrefixDB(session, []byte(quoteNamespace)))
		s.Durable = cache.NewDBStore(storage.NewPrefixDB(session, []byte(historicNamespace)))

	case config.CacheBadger:
		db, err := storage.NewBadger(cfg.CacheDir())
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db.Close)
		s.Quote = cache.NewDBStore(storage.NewPrefixDB(db, []byte(quoteNamespace))).WithTTL(cfg.Cache.QuoteTTL)
		s.Durable = cache.NewDBStore(storage.NewPrefixDB(db, []byte(historicNamespace)))

	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{
			Addr: cfg.Cache.RedisAddr,
			DB:   cfg.Cache.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis %s: %w", cfg.Cache.RedisAddr, err)
		}
		s.closers = append(s.closers, client.Close)
		s.Quote = cache.NewRedisStore(client, redisKeyPrefix+quoteNamespace).WithTTL(cfg.Cache.QuoteTTL)
		s.Durable = cache.NewRedisStore(client, redisKeyPrefix+historicNamespace)

	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}

	klog.Storage.Debug().Str("backend", string(cfg.Cache.Backend)).Msg("Cache stores opened")
	return s, nil
}
