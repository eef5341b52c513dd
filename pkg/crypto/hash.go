// Package crypto provides the hashing and key-parsing primitives used by the
// issuance engine.
package crypto

import (
	"encoding/hex"

	"github.com/mainnet-pat/cc-wallet/pkg/types"
	"github.com/zeebo/blake3"
)

// Hash computes a BLAKE3-256 hash of the input data.
func Hash(data []byte) types.Hash {
	return blake3.Sum256(data)
}

// HashHex returns the hex-encoded BLAKE3-256 hash of s.
func HashHex(s string) string {
	h := Hash([]byte(s))
	return hex.EncodeToString(h[:])
}
