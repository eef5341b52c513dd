// Package quote sizes issuance purchases against an AMM quote collaborator.
package quote

import (
	"context"
	"errors"
)

// BCH is the asset identifier of the native coin in trade requests. Tokens
// are identified by their category hex.
const BCH = "BCH"

var (
	// ErrQuoteUnavailable wraps any failure of the quote collaborator.
	ErrQuoteUnavailable = errors.New("quote unavailable")

	// ErrNoRoute is returned when no pool trades the requested pair.
	ErrNoRoute = errors.New("no pool for pair")

	// ErrInsufficientLiquidity is returned when the best pool cannot fill
	// the requested amount.
	ErrInsufficientLiquidity = errors.New("insufficient pool liquidity")
)

// Pool is a snapshot of one AMM pool pairing BCH with a token.
type Pool struct {
	ID          string `json:"pool_id"`
	TokenID     string `json:"token_id"`
	Sats        uint64 `json:"sats"`
	TokenAmount uint64 `json:"tokens"`
}

// TradeRequest asks the collaborator to price supplying SupplyAmount of
// SupplyTokenID in exchange for DemandTokenID. ActivePools is an opaque
// snapshot supplied by the caller.
type TradeRequest struct {
	SupplyTokenID string
	DemandTokenID string
	SupplyAmount  uint64
	ActivePools   []Pool
}

// TradeSummary is the priced trade, in the smallest unit of each side.
type TradeSummary struct {
	Supply uint64
	Demand uint64
	Fee    uint64
}

// Quoter is the AMM quote collaborator.
type Quoter interface {
	ProposeTrade(ctx context.Context, req TradeRequest) (TradeSummary, error)
}

// QuoterFunc adapts a function to the Quoter interface.
type QuoterFunc func(ctx context.Context, req TradeRequest) (TradeSummary, error)

// ProposeTrade calls f.
func (f QuoterFunc) ProposeTrade(ctx context.Context, req TradeRequest) (TradeSummary, error) {
	return f(ctx, req)
}
