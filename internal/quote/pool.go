package quote

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/mainnet-pat/cc-wallet/pkg/fixedpoint"
)

// PoolFee is the liquidity-provider fee charged on the BCH leg of a trade.
var PoolFee = fixedpoint.Ratio{Num: 3, Den: 1000}

// PoolQuoter prices trades locally against constant-product pools
// (sats * tokens = k). Each trade is routed through the single pool that
// gives the best output.
type PoolQuoter struct{}

// ProposeTrade implements Quoter.
func (PoolQuoter) ProposeTrade(_ context.Context, req TradeRequest) (TradeSummary, error) {
	var tokenID string
	var buy bool
	switch {
	case req.SupplyTokenID == BCH && req.DemandTokenID != BCH:
		tokenID, buy = req.DemandTokenID, true
	case req.DemandTokenID == BCH && req.SupplyTokenID != BCH:
		tokenID, buy = req.SupplyTokenID, false
	default:
		return TradeSummary{}, fmt.Errorf("%w: %s -> %s", ErrNoRoute, req.SupplyTokenID, req.DemandTokenID)
	}

	var best TradeSummary
	found := false
	for _, p := range req.ActivePools {
		if p.TokenID != tokenID || p.Sats == 0 || p.TokenAmount == 0 {
			continue
		}
		var s TradeSummary
		if buy {
			s = buyFromPool(p, req.SupplyAmount)
		} else {
			s = sellToPool(p, req.SupplyAmount)
		}
		if !found || s.Demand > best.Demand {
			best, found = s, true
		}
	}
	if !found {
		return TradeSummary{}, fmt.Errorf("%w: token %s", ErrNoRoute, tokenID)
	}
	if best.Demand == 0 {
		return TradeSummary{}, fmt.Errorf("%w: supply %d of %s", ErrInsufficientLiquidity, req.SupplyAmount, req.SupplyTokenID)
	}
	return best, nil
}

// buyFromPool supplies sats and receives tokens. The fee is taken from the
// sats before they enter the pool.
func buyFromPool(p Pool, sats uint64) TradeSummary {
	fee := PoolFee.Apply(uint256.NewInt(sats)).Uint64()
	newSats := new(uint256.Int).AddUint64(uint256.NewInt(p.Sats), sats-fee)
	newTokens := ceilDiv(invariant(p), newSats)
	return TradeSummary{
		Supply: sats,
		Demand: p.TokenAmount - newTokens.Uint64(),
		Fee:    fee,
	}
}

// sellToPool supplies tokens and receives sats. The fee is taken from the
// sats leaving the pool.
func sellToPool(p Pool, tokens uint64) TradeSummary {
	newTokens := new(uint256.Int).AddUint64(uint256.NewInt(p.TokenAmount), tokens)
	newSats := ceilDiv(invariant(p), newTokens)
	gross := p.Sats - newSats.Uint64()
	fee := PoolFee.Apply(uint256.NewInt(gross)).Uint64()
	return TradeSummary{
		Supply: tokens,
		Demand: gross - fee,
		Fee:    fee,
	}
}

func invariant(p Pool) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(p.Sats), uint256.NewInt(p.TokenAmount))
}

// ceilDiv rounds up so the pool invariant never decreases.
func ceilDiv(a, b *uint256.Int) *uint256.Int {
	q, r := new(uint256.Int), new(uint256.Int)
	q.DivMod(a, b, r)
	if !r.IsZero() {
		q.AddUint64(q, 1)
	}
	return q
}
