package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mainnet-pat/cc-wallet/internal/issuance"
	"github.com/mainnet-pat/cc-wallet/internal/quote"
	"github.com/mainnet-pat/cc-wallet/pkg/types"
)

type stateFlags struct {
	utxoFile      string
	commitment    string
	amount        uint64
	initialSupply uint64
	invest        uint64
	now           int64
	poolsFile     string
}

func newStateCmd(g *globalFlags) *cobra.Command {
	var f stateFlags
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Compute the emission state of the issuance contract",
		Long: `Compute the emission state of the issuance contract.

The contract UTXO is read from --utxo (Electrum JSON) or assembled from
--commitment and --amount. Pools come from the indexer unless --pools
names a JSON snapshot.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runState(cmd, g, &f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.utxoFile, "utxo", "", "contract UTXO as Electrum JSON")
	fl.StringVar(&f.commitment, "commitment", "", "NFT commitment hex (instead of --utxo)")
	fl.Uint64Var(&f.amount, "amount", 0, "token amount held by the contract UTXO (with --commitment)")
	fl.Uint64Var(&f.initialSupply, "initial-supply", 0, "token amount the contract was deployed with")
	fl.Uint64Var(&f.invest, "invest", 0, "proposed investment in satoshis")
	fl.Int64Var(&f.now, "now", 0, "evaluation time as Unix seconds (default: current time)")
	fl.StringVar(&f.poolsFile, "pools", "", "JSON pool snapshot to use instead of the indexer")
	cmd.MarkFlagRequired("initial-supply")
	cmd.MarkFlagsMutuallyExclusive("utxo", "commitment")
	return cmd
}

func runState(cmd *cobra.Command, g *globalFlags, f *stateFlags) error {
	a, err := setup(cmd, g)
	if err != nil {
		return err
	}
	defer a.Close()

	tokenID, err := a.contract.TokenID()
	if err != nil {
		return err
	}
	utxo, err := f.contractUTXO(tokenID)
	if err != nil {
		return err
	}
	if utxo.Token != nil && utxo.Token.Category != tokenID {
		return fmt.Errorf("utxo category %s is not the contract category %s", utxo.Token.Category, tokenID)
	}

	ctx := cmd.Context()
	var pools []quote.Pool
	if f.poolsFile != "" {
		pools, err = readPools(f.poolsFile)
	} else {
		pools, err = a.indexer.ActivePools(ctx, tokenID.String())
	}
	if err != nil {
		return fmt.Errorf("pools: %w", err)
	}

	sizer := quote.NewSizer(quote.PoolQuoter{}, tokenID.String(), pools)
	req := issuance.StateRequest{
		UTXO:             utxo,
		InitialSupply:    f.initialSupply,
		InvestAmountSats: f.invest,
	}
	if f.now != 0 {
		req.Now = time.Unix(f.now, 0)
	}

	state, err := issuance.NewEngine(sizer).ComputeState(ctx, req)
	if err != nil {
		return err
	}
	return printJSON(cmd, state)
}

// contractUTXO returns the UTXO described by the flags. A --utxo file may
// hold one UTXO or a whole listunspent result; in the latter case the
// contract's NFT output is picked out by category.
func (f *stateFlags) contractUTXO(tokenID types.TokenID) (*types.UTXO, error) {
	if f.utxoFile != "" {
		data, err := os.ReadFile(f.utxoFile)
		if err != nil {
			return nil, err
		}
		utxos, err := types.ParseUTXOs(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.utxoFile, err)
		}
		return pickContractUTXO(utxos, tokenID)
	}
	if f.commitment == "" {
		return nil, fmt.Errorf("one of --utxo or --commitment is required")
	}
	c, err := issuance.ParseCommitmentHex(f.commitment)
	if err != nil {
		return nil, fmt.Errorf("commitment: %w", err)
	}
	return &types.UTXO{
		Token: &types.TokenData{
			Category: tokenID,
			Amount:   f.amount,
			NFT:      &types.NFT{Capability: types.CapabilityMutable, Commitment: issuance.EncodeCommitment(c)},
		},
	}, nil
}

func pickContractUTXO(utxos []types.UTXO, tokenID types.TokenID) (*types.UTXO, error) {
	if len(utxos) == 1 {
		return &utxos[0], nil
	}
	for i := range utxos {
		if t := utxos[i].Token; t != nil && t.Category == tokenID && t.NFT != nil {
			return &utxos[i], nil
		}
	}
	return nil, fmt.Errorf("no utxo with an nft of category %s among %d", tokenID, len(utxos))
}

func readPools(path string) ([]quote.Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pools []quote.Pool
	if err := json.Unmarshal(data, &pools); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return pools, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
