package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks runtime config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network != Mainnet && cfg.Network != Chipnet {
		return fmt.Errorf("network must be %q or %q", Mainnet, Chipnet)
	}

	u, err := url.Parse(cfg.Indexer.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("indexer.url must be an absolute http(s) URL")
	}
	if cfg.Indexer.Timeout <= 0 {
		return fmt.Errorf("indexer.timeout must be positive")
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = CacheMemory
	}
	switch cfg.Cache.Backend {
	case CacheMemory, CacheBadger:
	case CacheRedis:
		if strings.TrimSpace(cfg.Cache.RedisAddr) == "" {
			return fmt.Errorf("cache.backend=redis requires cache.redis.addr")
		}
		if cfg.Cache.RedisDB < 0 || cfg.Cache.RedisDB > 15 {
			return fmt.Errorf("cache.redis.db must be in range [0, 15]")
		}
	default:
		return fmt.Errorf("cache.backend must be memory, badger, or redis")
	}
	if cfg.Cache.QuoteTTL == 0 {
		return fmt.Errorf("cache.quote_ttl must be non-zero (negative caches forever)")
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Addr == "" {
		return fmt.Errorf("metrics.enabled requires metrics.addr")
	}
	return nil
}
