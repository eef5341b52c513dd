package issuance

import (
	"context"
	"fmt"
	"time"

	klog "github.com/mainnet-pat/cc-wallet/internal/log"
	"github.com/mainnet-pat/cc-wallet/internal/quote"
	"github.com/mainnet-pat/cc-wallet/pkg/types"
)

// Sizer prices purchases through the AMM. *quote.Sizer implements it.
type Sizer interface {
	SizeForwardPurchase(ctx context.Context, sats uint64) (uint64, error)
	SizeBackwardBudget(ctx context.Context, remaining uint64) quote.BudgetResult
}

// StateRequest describes one evaluation of the issuance contract.
type StateRequest struct {
	// UTXO is the contract's issuance output: its token amount is the
	// remaining supply and its NFT commitment holds the contract state.
	UTXO *types.UTXO
	// InitialSupply is the token amount the contract was deployed with.
	InitialSupply uint64
	// InvestAmountSats is the proposed purchase in satoshis.
	InvestAmountSats uint64
	// Now is the evaluation time. Zero means the engine's clock.
	Now time.Time
}

// EmissionState is a consolidated snapshot of the issuance contract.
type EmissionState struct {
	DeploymentTime      uint64 `json:"deploymentTime"`
	LastInteractionTime uint64 `json:"lastInteractionTime"`
	ContractLifetime    uint64 `json:"contractLifetime"`
	CurrentEmissionCap  uint64 `json:"currentEmissionCap"`
	CurrentSupply       uint64 `json:"currentSupply"`
	Issued              uint64 `json:"issued"`
	RemainingCapacity   uint64 `json:"remainingCapacity"`

	CauldronTradeAdjustedTokenAmount uint64 `json:"cauldronTradeAdjustedTokenAmount"`
	TokensBought                     uint64 `json:"tokensBought"`
	Issue                            uint64 `json:"issue"`
	Exceeds                          bool   `json:"exceeds"`

	MaxBchInvestmentSat quote.BudgetResult `json:"maxBchInvestmentSat"`
}

// Engine computes EmissionState snapshots.
type Engine struct {
	sizer Sizer
	clock func() time.Time
}

// NewEngine creates an engine that prices purchases with sizer.
func NewEngine(sizer Sizer) *Engine {
	return &Engine{sizer: sizer, clock: time.Now}
}

// WithClock replaces the engine's clock and returns the engine.
func (e *Engine) WithClock(clock func() time.Time) *Engine {
	e.clock = clock
	return e
}

// ComputeState evaluates the contract at req.Now.
//
// A malformed commitment, an inconsistent UTXO or a failed forward quote
// aborts the evaluation. A failed backward quote does not: the snapshot is
// returned with MaxBchInvestmentSat marked unavailable.
func (e *Engine) ComputeState(ctx context.Context, req StateRequest) (*EmissionState, error) {
	if req.UTXO == nil || req.UTXO.Token == nil {
		return nil, fmt.Errorf("%w: utxo carries no token", ErrMalformedCommitment)
	}
	c, err := DecodeCommitment(req.UTXO.Token.Commitment())
	if err != nil {
		return nil, err
	}
	if c.LastInteractionTime < c.DeploymentTime {
		return nil, fmt.Errorf("%w: last interaction %d before deployment %d",
			ErrMalformedCommitment, c.LastInteractionTime, c.DeploymentTime)
	}

	currentSupply := req.UTXO.TokenAmount()
	if currentSupply > req.InitialSupply {
		return nil, fmt.Errorf("%w: %d > %d", ErrSupplyExceedsInitial, currentSupply, req.InitialSupply)
	}
	issued := req.InitialSupply - currentSupply

	now := req.Now
	if now.IsZero() {
		now = e.clock()
	}
	evalTime, err := effectiveTime(now, c.DeploymentTime)
	if err != nil {
		return nil, err
	}
	limit, err := EmissionCap(req.InitialSupply, c.DeploymentTime, evalTime)
	if err != nil {
		return nil, err
	}

	adjusted, err := e.sizer.SizeForwardPurchase(ctx, req.InvestAmountSats)
	if err != nil {
		return nil, err
	}
	bought, issue := quote.IssueFromAdjusted(adjusted)

	var remaining uint64
	if limit > issued {
		remaining = limit - issued
	}

	state := &EmissionState{
		DeploymentTime:                   c.DeploymentTime,
		LastInteractionTime:              c.LastInteractionTime,
		ContractLifetime:                 evalTime - c.DeploymentTime,
		CurrentEmissionCap:               limit,
		CurrentSupply:                    currentSupply,
		Issued:                           issued,
		RemainingCapacity:                remaining,
		CauldronTradeAdjustedTokenAmount: adjusted,
		TokensBought:                     bought,
		Issue:                            issue,
		Exceeds:                          issue > remaining,
	}
	state.MaxBchInvestmentSat = e.sizer.SizeBackwardBudget(ctx, remaining)

	klog.Issuance.Debug().
		Uint64("cap", limit).
		Uint64("issued", issued).
		Uint64("issue", issue).
		Bool("exceeds", state.Exceeds).
		Str("max_investment", state.MaxBchInvestmentSat.Status.String()).
		Msg("Computed emission state")

	return state, nil
}

// effectiveTime converts the wall clock into the contract's time reference.
// The protocol offset may place it before deployment for a freshly deployed
// contract; the curve is then evaluated at the deployment instant. A wall
// clock that itself precedes deployment is an error.
func effectiveTime(now time.Time, deploymentTime uint64) (uint64, error) {
	unix := now.Unix()
	if unix < 0 || uint64(unix) < deploymentTime {
		return 0, fmt.Errorf("%w: now %d, deployed %d", ErrInvalidTimeRange, unix, deploymentTime)
	}
	shifted := uint64(unix)
	offset := uint64(TimeOffset / time.Second)
	if shifted < deploymentTime+offset {
		return deploymentTime, nil
	}
	return shifted - offset, nil
}
