package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mainnet-pat/cc-wallet/config"
)

func newInitCmd(g *globalFlags) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the data directory and a default config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default(config.NetworkType(g.network))
			if g.dataDir != "" {
				cfg.DataDir = g.dataDir
			}
			if g.cache != "" {
				cfg.Cache.Backend = config.CacheBackend(g.cache)
			}
			path := g.configFile
			if path == "" {
				path = cfg.ConfigFile()
			}

			if force {
				if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
					return err
				}
			} else if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := config.EnsureDataDirs(cfg); err != nil {
				return err
			}
			if path != cfg.ConfigFile() {
				if err := config.WriteDefaultConfig(path, cfg); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}
