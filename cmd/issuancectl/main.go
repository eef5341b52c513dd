// issuancectl inspects the token issuance contract: its emission state,
// the token price on Cauldron, and local configuration.
//
// Usage:
//
//	issuancectl state --utxo utxo.json --initial-supply N --invest SATS
//	issuancectl price [--at UNIX]
//	issuancectl contract
//	issuancectl init
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
