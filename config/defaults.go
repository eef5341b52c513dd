package config

import "time"

// DefaultIndexerURL is the public Cauldron indexer.
const DefaultIndexerURL = "https://indexer.cauldron.quest"

// DefaultMainnet returns the default configuration for mainnet.
func DefaultMainnet() *Config {
	return &Config{
		Network: Mainnet,
		DataDir: DefaultDataDir(),
		Indexer: IndexerConfig{
			URL:     DefaultIndexerURL,
			Timeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			Backend:   CacheBadger,
			RedisAddr: "127.0.0.1:6379",
			QuoteTTL:  5 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Addr: "127.0.0.1:9464",
		},
	}
}

// DefaultChipnet returns the default configuration for chipnet. Test
// sessions are short-lived, so the cache stays in memory.
func DefaultChipnet() *Config {
	cfg := DefaultMainnet()
	cfg.Network = Chipnet
	cfg.Cache.Backend = CacheMemory
	return cfg
}

// Default returns the default configuration for the given network.
func Default(network NetworkType) *Config {
	switch network {
	case Chipnet:
		return DefaultChipnet()
	default:
		return DefaultMainnet()
	}
}
