package main

import (
	"encoding/hex"

	"github.com/spf13/cobra"

	"github.com/mainnet-pat/cc-wallet/config"
)

func newContractCmd(g *globalFlags) *cobra.Command {
	var (
		overrides []string
		savePath  string
	)
	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Show and validate the issuance contract parameters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, g, false)
			if err != nil {
				return err
			}
			c, err := config.ResolveContract(cfg)
			if err != nil {
				return err
			}
			if err := c.Validate(); err != nil {
				return err
			}

			raw := make([][]byte, len(overrides))
			for i, o := range overrides {
				if o == "" {
					continue
				}
				if raw[i], err = hex.DecodeString(o); err != nil {
					return err
				}
			}
			keys, err := c.AdminKeys(raw)
			if err != nil {
				return err
			}

			out := struct {
				Network   config.NetworkType `json:"network"`
				Category  string             `json:"category"`
				AdminKeys []string           `json:"admin_keys"`
			}{Network: cfg.Network, Category: c.Category}
			effective := *c
			for i, k := range keys {
				effective.AdminPubKeys[i] = hex.EncodeToString(k)
				out.AdminKeys = append(out.AdminKeys, effective.AdminPubKeys[i])
			}
			if savePath != "" {
				if err := effective.Save(savePath); err != nil {
					return err
				}
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().StringSliceVar(&overrides, "admin-key", nil,
		"admin key override per slot, in order (empty keeps the default)")
	cmd.Flags().StringVar(&savePath, "save", "",
		"write the resulting contract definition to this file (usable as contract.file)")
	return cmd
}
