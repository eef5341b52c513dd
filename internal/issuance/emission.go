package issuance

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/mainnet-pat/cc-wallet/pkg/fixedpoint"
)

// EmissionCap returns the maximum cumulative amount the contract may have
// issued at time now:
//
//	t       = now - deploymentTime
//	denom   = Scale + k*t
//	cap     = initialSupply * (Scale - Scale^2/(denom^2/Scale)) / Scale
//
// which is initialSupply * (1 - 1/(1 + k*t/Scale)^2) with truncation at every
// step. The cap is zero at deployment, never decreases, and approaches
// initialSupply from below.
func EmissionCap(initialSupply, deploymentTime, now uint64) (uint64, error) {
	if now < deploymentTime {
		return 0, fmt.Errorf("%w: now %d, deployed %d", ErrInvalidTimeRange, now, deploymentTime)
	}
	return emissionCapAt(initialSupply, now-deploymentTime), nil
}

// emissionCapAt evaluates the curve for a contract lifetime of t seconds.
func emissionCapAt(initialSupply, t uint64) uint64 {
	denom := new(uint256.Int).Mul(uint256.NewInt(EmissionRate), uint256.NewInt(t))
	denom.Add(denom, fixedpoint.One())

	denomSq := fixedpoint.Square(denom)
	inv := fixedpoint.Div(fixedpoint.One(), denomSq)

	fraction := new(uint256.Int).Sub(fixedpoint.One(), inv)
	capacity := fixedpoint.Mul(uint256.NewInt(initialSupply), fraction)

	// capacity <= initialSupply, so it always fits.
	return capacity.Uint64()
}
