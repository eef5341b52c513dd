package main

import (
	"github.com/spf13/cobra"
)

func newPriceCmd(g *globalFlags) *cobra.Command {
	var (
		token string
		at    int64
	)
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Show the token price on Cauldron",
		Long: `Show the token price on Cauldron, in satoshis per token unit.

With --at the last average price reported during the day before that
instant is shown instead. Historic prices never change and are cached
permanently.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			if token == "" {
				token = a.contract.Category
			}
			out := struct {
				Token string  `json:"token"`
				At    int64   `json:"at,omitempty"`
				Price float64 `json:"price"`
			}{Token: token, At: at}

			if at != 0 {
				out.Price, err = a.indexer.HistoricPrice(cmd.Context(), token, at)
			} else {
				out.Price, err = a.indexer.CurrentPrice(cmd.Context(), token)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "token category (default: the contract's)")
	cmd.Flags().Int64Var(&at, "at", 0, "historic price at this Unix time")
	return cmd
}
