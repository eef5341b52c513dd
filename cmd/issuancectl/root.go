package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mainnet-pat/cc-wallet/config"
	"github.com/mainnet-pat/cc-wallet/internal/indexer"
	klog "github.com/mainnet-pat/cc-wallet/internal/log"
	"github.com/mainnet-pat/cc-wallet/internal/metrics"
)

// globalFlags are the persistent flags shared by every subcommand. Zero
// values mean "not set" and leave the config file value in place.
type globalFlags struct {
	dataDir    string
	network    string
	configFile string
	indexerURL string
	cache      string
	logLevel   string
	logJSON    bool
	metrics    string
}

// app is the wiring shared by the subcommands that talk to the indexer.
type app struct {
	cfg      *config.Config
	contract *config.Contract
	indexer  *indexer.Client
	stores   *cacheStores
	metrics  *http.Server
}

func (a *app) Close() {
	if a.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		a.metrics.Shutdown(ctx)
	}
	if a.stores != nil {
		if err := a.stores.Close(); err != nil {
			klog.CLI.Warn().Err(err).Msg("Closing cache stores")
		}
	}
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	root := &cobra.Command{
		Use:           "issuancectl",
		Short:         "Inspect the token issuance contract",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.dataDir, "datadir", "", "data directory (default: platform specific)")
	pf.StringVar(&g.network, "network", "mainnet", "mainnet or chipnet")
	pf.StringVar(&g.configFile, "config", "", "config file (default: <datadir>/issuancectl.conf)")
	pf.StringVar(&g.indexerURL, "indexer", "", "Cauldron indexer URL")
	pf.StringVar(&g.cache, "cache", "", "cache backend: memory, badger or redis")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&g.logJSON, "log-json", false, "log JSON instead of console output")
	pf.StringVar(&g.metrics, "metrics", "", "serve Prometheus metrics on this address")

	root.AddCommand(
		newStateCmd(&g),
		newPriceCmd(&g),
		newContractCmd(&g),
		newInitCmd(&g),
	)
	return root
}

// loadConfig applies defaults, the config file and then explicitly set
// flags, in that order.
func loadConfig(cmd *cobra.Command, g *globalFlags, create bool) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		Network:    config.NetworkType(g.network),
		DataDir:    g.dataDir,
		ConfigFile: g.configFile,
		NoCreate:   !create,
	})
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("network") {
		cfg.Network = config.NetworkType(g.network)
	}
	if g.indexerURL != "" {
		cfg.Indexer.URL = g.indexerURL
	}
	if g.cache != "" {
		cfg.Cache.Backend = config.CacheBackend(g.cache)
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if flags.Changed("log-json") {
		cfg.Log.JSON = g.logJSON
	} else if !cfg.Log.JSON && !term.IsTerminal(int(os.Stderr.Fd())) {
		// Piped stderr gets machine-readable logs.
		cfg.Log.JSON = true
	}
	if g.metrics != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = g.metrics
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setup loads configuration and opens everything the indexer-backed
// subcommands need. The caller must Close the returned app.
func setup(cmd *cobra.Command, g *globalFlags) (*app, error) {
	cfg, err := loadConfig(cmd, g, true)
	if err != nil {
		return nil, err
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	contract, err := config.ResolveContract(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, contract: contract}
	a.stores, err = openStores(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}

	a.indexer = indexer.NewWithTimeout(cfg.Indexer.URL, cfg.Indexer.Timeout, a.stores.Stores).
		WithQuoteTTL(cfg.Cache.QuoteTTL)

	if cfg.Metrics.Enabled {
		a.metrics = startMetrics(cfg.Metrics.Addr)
	}

	klog.CLI.Debug().
		Str("network", string(cfg.Network)).
		Str("indexer", cfg.Indexer.URL).
		Str("cache", string(cfg.Cache.Backend)).
		Msg("Configured")
	return a, nil
}

func startMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			klog.CLI.Error().Err(err).Str("addr", addr).Msg("Metrics server failed")
		}
	}()
	klog.CLI.Info().Str("addr", addr).Msg("Serving metrics")
	return srv
}
