// Package config handles application configuration.
//
// Configuration is split into two categories:
//   - Contract parameters: the token category and admin keys of the
//     deployed issuance contract. Immutable, passed explicitly.
//   - Tool settings: runtime configuration (indexer, cache, logging).
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// NetworkType identifies mainnet or chipnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Chipnet NetworkType = "chipnet"
)

// Config holds runtime configuration.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// ContractFile optionally points to a JSON contract definition that
	// replaces the built-in one for the network.
	ContractFile string `conf:"contract.file"`

	Indexer IndexerConfig
	Cache   CacheConfig
	Log     LogConfig
	Metrics MetricsConfig
}

// IndexerConfig holds Cauldron indexer settings.
type IndexerConfig struct {
	URL     string        `conf:"indexer.url"`
	Timeout time.Duration `conf:"indexer.timeout"`
}

// CacheBackend selects where cached responses live.
type CacheBackend string

const (
	// CacheMemory keeps everything in process memory.
	CacheMemory CacheBackend = "memory"
	// CacheBadger keeps quotes in memory and historic data in Badger.
	CacheBadger CacheBackend = "badger"
	// CacheRedis keeps both stores in one Redis database.
	CacheRedis CacheBackend = "redis"
)

// CacheConfig holds response-cache settings.
type CacheConfig struct {
	Backend   CacheBackend  `conf:"cache.backend"`
	RedisAddr string        `conf:"cache.redis.addr"`
	RedisDB   int           `conf:"cache.redis.db"`
	QuoteTTL  time.Duration `conf:"cache.quote_ttl"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// MetricsConfig holds Prometheus exporter settings.
type MetricsConfig struct {
	Enabled bool   `conf:"metrics.enabled"`
	Addr    string `conf:"metrics.addr"`
}

// =============================================================================
// Directory helpers
// =============================================================================

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.ccwallet
//	macOS:   ~/Library/Application Support/CCWallet
//	Windows: %APPDATA%\CCWallet
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ccwallet"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "CCWallet")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "CCWallet")
		}
		return filepath.Join(home, "AppData", "Roaming", "CCWallet")
	default:
		return filepath.Join(home, ".ccwallet")
	}
}

// NetworkDataDir returns the network-specific data directory.
func (c *Config) NetworkDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// CacheDir returns the Badger cache directory.
func (c *Config) CacheDir() string {
	return filepath.Join(c.NetworkDataDir(), "cache")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "issuancectl.conf")
}
