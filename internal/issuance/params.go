// Package issuance evaluates the state of a token issuance contract: it
// decodes the contract's NFT commitment, computes the emission cap of the
// bonding curve, sizes a proposed purchase through the AMM and reports
// whether the resulting issuance would exceed the cap.
package issuance

import (
	"errors"
	"time"
)

// Protocol constants. These mirror the covenant's own arithmetic; changing
// any of them desynchronises the computed cap from the cap the chain enforces.
const (
	// EmissionRate is k in cap(t) = supply * (1 - 1/(1 + k*t/Scale)^2).
	EmissionRate = 3

	// TimeOffset is subtracted from the wall clock before evaluating the
	// curve. The contract's time reference lags wall time.
	// TODO: confirm the 2h figure against the covenant's locktime rule with the contract authors.
	TimeOffset = 2 * time.Hour

	// CommitmentSize is the number of commitment bytes the engine reads.
	CommitmentSize = 16
)

var (
	// ErrMalformedCommitment is returned when the NFT commitment cannot be
	// decoded into issuance state.
	ErrMalformedCommitment = errors.New("malformed issuance commitment")

	// ErrInvalidTimeRange is returned when the evaluation time precedes the
	// contract deployment time.
	ErrInvalidTimeRange = errors.New("evaluation time precedes deployment")

	// ErrSupplyExceedsInitial is returned when the issuance UTXO holds more
	// tokens than the contract's initial supply.
	ErrSupplyExceedsInitial = errors.New("current supply exceeds initial supply")
)
