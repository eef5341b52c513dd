package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadFile loads configuration from a .conf file. A missing file yields
// an empty map.
// Format: key = value (one per line, # for comments)
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse key = value
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key. Contract parameters are not
// settable here; use contract.file.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	// Core
	case "network":
		cfg.Network = NetworkType(strings.ToLower(value))
	case "datadir":
		cfg.DataDir = value
	case "contract.file":
		cfg.ContractFile = value

	// Indexer
	case "indexer.url":
		cfg.Indexer.URL = value
	case "indexer.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		cfg.Indexer.Timeout = d

	// Cache
	case "cache.backend", "cache":
		cfg.Cache.Backend = CacheBackend(strings.ToLower(value))
	case "cache.redis.addr":
		cfg.Cache.RedisAddr = value
	case "cache.redis.db":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Cache.RedisDB = n
	case "cache.quote_ttl":
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		cfg.Cache.QuoteTTL = d

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	// Metrics
	case "metrics.enabled", "metrics":
		cfg.Metrics.Enabled = parseBool(value)
	case "metrics.addr":
		cfg.Metrics.Addr = value

	default:
		// Unknown keys are ignored
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// WriteDefaultConfig writes a configuration file seeded from cfg.
func WriteDefaultConfig(path string, cfg *Config) error {
	network := cfg.Network
	content := `# issuancectl configuration
#
# Contract parameters (token category, admin keys) are built in per
# network. Point contract.file at a JSON definition to override them.

# Network: mainnet or chipnet
network = ` + string(network) + `

# Data directory (default: ~/.ccwallet)
# datadir = ~/.ccwallet

# contract.file = /path/to/contract.json

# ============================================================================
# Cauldron indexer
# ============================================================================

indexer.url = ` + cfg.Indexer.URL + `
indexer.timeout = ` + cfg.Indexer.Timeout.String() + `

# ============================================================================
# Response cache
# ============================================================================

# memory, badger or redis
cache.backend = ` + string(cfg.Cache.Backend) + `
# cache.redis.addr = 127.0.0.1:6379
# cache.redis.db = 0

# How long pool snapshots and current prices stay fresh
cache.quote_ttl = ` + cfg.Cache.QuoteTTL.String() + `

# ============================================================================
# Logging
# ============================================================================

log.level = info
# log.file =
# log.json = false

# ============================================================================
# Metrics
# ============================================================================

metrics.enabled = false
# metrics.addr = 127.0.0.1:9464
`
	return os.WriteFile(path, []byte(content), 0644)
}

// EnsureDataDirs creates the data directory structure and a default config
// file if they don't already exist. Safe to call on every start.
func EnsureDataDirs(cfg *Config) error {
	dirs := []string{
		cfg.DataDir,
		cfg.NetworkDataDir(),
		cfg.LogsDir(),
	}
	if cfg.Cache.Backend == CacheBadger {
		dirs = append(dirs, cfg.CacheDir())
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	configPath := cfg.ConfigFile()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := WriteDefaultConfig(configPath, cfg); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
	}
	return nil
}

// LoadOptions selects where configuration is read from.
type LoadOptions struct {
	Network NetworkType
	DataDir string
	// ConfigFile overrides the default <datadir>/issuancectl.conf.
	ConfigFile string
	// NoCreate skips creating the data directory and default config file.
	NoCreate bool
}

// Load builds a Config with the precedence defaults < config file. Command
// line overrides are applied by the caller afterwards, followed by Validate.
func Load(opts LoadOptions) (*Config, error) {
	network := opts.Network
	if network == "" {
		network = Mainnet
	}
	cfg := Default(network)
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}

	if !opts.NoCreate {
		if err := EnsureDataDirs(cfg); err != nil {
			return nil, fmt.Errorf("ensuring data dirs: %w", err)
		}
	}

	path := opts.ConfigFile
	if path == "" {
		path = cfg.ConfigFile()
	}
	values, err := LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, values); err != nil {
		return nil, fmt.Errorf("applying config file: %w", err)
	}
	return cfg, nil
}
