package quote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"

	klog "github.com/mainnet-pat/cc-wallet/internal/log"
	"github.com/mainnet-pat/cc-wallet/internal/metrics"
	"github.com/mainnet-pat/cc-wallet/pkg/fixedpoint"
)

// Protocol ratios shared with the issuance covenant.
var (
	// TradeHaircut is the safety margin applied to a forward AMM quote to
	// budget for fees and slippage.
	TradeHaircut = fixedpoint.Ratio{Num: 95, Den: 100}

	// IssuanceRatio is the share of notionally bought tokens that is newly
	// issued by the contract.
	IssuanceRatio = fixedpoint.Ratio{Num: 9, Den: 10}
)

// BudgetStatus says whether a backward budget figure is usable.
type BudgetStatus int

const (
	// BudgetNotAttempted is the zero value: the backward budget step never
	// ran for this result.
	BudgetNotAttempted BudgetStatus = iota
	// BudgetComputed means Sats holds the backward budget.
	BudgetComputed
	// BudgetUnavailable means pricing was attempted and failed; Err says why.
	BudgetUnavailable
)

func (s BudgetStatus) String() string {
	switch s {
	case BudgetComputed:
		return "computed"
	case BudgetUnavailable:
		return "unavailable"
	default:
		return "not_attempted"
	}
}

// BudgetResult is the outcome of backward sizing. Sats is meaningful only
// when Status is BudgetComputed; Err is set when Status is BudgetUnavailable.
type BudgetResult struct {
	Sats   uint64
	Status BudgetStatus
	Err    error
}

// OK reports whether the budget was computed.
func (r BudgetResult) OK() bool {
	return r.Status == BudgetComputed
}

// MarshalJSON encodes a computed budget as a number and anything else as null.
func (r BudgetResult) MarshalJSON() ([]byte, error) {
	if !r.OK() {
		return []byte("null"), nil
	}
	return json.Marshal(r.Sats)
}

// Sizer sizes purchases of one token through a Quoter.
type Sizer struct {
	quoter  Quoter
	tokenID string
	pools   []Pool
}

// NewSizer creates a Sizer for tokenID pricing against the given pool
// snapshot.
func NewSizer(q Quoter, tokenID string, pools []Pool) *Sizer {
	return &Sizer{quoter: q, tokenID: tokenID, pools: pools}
}

// SizeForwardPurchase returns the haircut-adjusted number of tokens that
// sats buys. Zero sats returns zero without querying. A quote failure is
// returned as an error wrapping ErrQuoteUnavailable.
func (s *Sizer) SizeForwardPurchase(ctx context.Context, sats uint64) (uint64, error) {
	if sats == 0 {
		return 0, nil
	}
	metrics.Quote().Requests.WithLabelValues("forward").Inc()
	summary, err := s.quoter.ProposeTrade(ctx, TradeRequest{
		SupplyTokenID: BCH,
		DemandTokenID: s.tokenID,
		SupplyAmount:  sats,
		ActivePools:   s.pools,
	})
	if err != nil {
		metrics.Quote().Failures.WithLabelValues("forward").Inc()
		return 0, fmt.Errorf("%w: forward %d sats: %v", ErrQuoteUnavailable, sats, err)
	}
	return TradeHaircut.Apply(uint256.NewInt(summary.Demand)).Uint64(), nil
}

// SizeBackwardBudget returns how many sats can be invested before
// remaining tokens are exhausted. Failures are reported in the result, never
// as an error. Zero remaining capacity yields a zero budget without querying.
func (s *Sizer) SizeBackwardBudget(ctx context.Context, remaining uint64) BudgetResult {
	if remaining == 0 {
		return BudgetResult{Status: BudgetComputed}
	}
	metrics.Quote().Requests.WithLabelValues("backward").Inc()
	summary, err := s.quoter.ProposeTrade(ctx, TradeRequest{
		SupplyTokenID: s.tokenID,
		DemandTokenID: BCH,
		SupplyAmount:  remaining,
		ActivePools:   s.pools,
	})
	if err != nil {
		metrics.Quote().Failures.WithLabelValues("backward").Inc()
		klog.Quote.Warn().Err(err).
			Str("token", s.tokenID).
			Uint64("remaining", remaining).
			Msg("Backward budget unavailable")
		return BudgetResult{
			Status: BudgetUnavailable,
			Err:    fmt.Errorf("%w: backward %d tokens: %v", ErrQuoteUnavailable, remaining, err),
		}
	}
	return BudgetResult{Sats: summary.Demand, Status: BudgetComputed}
}

// IssueFromAdjusted reverses the trade haircut and applies the issuance
// ratio: tokensBought = adjusted*100/95, issue = tokensBought*9/10.
func IssueFromAdjusted(adjusted uint64) (tokensBought, issue uint64) {
	bought := TradeHaircut.Invert(uint256.NewInt(adjusted))
	return fixedpoint.Saturate(bought), fixedpoint.Saturate(IssuanceRatio.Apply(bought))
}
