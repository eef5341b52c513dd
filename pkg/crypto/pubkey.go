package crypto

import (
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// PubKeySize is the length of a compressed secp256k1 public key.
const PubKeySize = 33

// ParsePubKeyHex decodes a hex-encoded compressed secp256k1 public key and
// checks that it is a valid curve point. The returned bytes are the
// canonical compressed serialisation.
func ParsePubKeyHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid pubkey hex: %w", err)
	}
	return ParsePubKey(b)
}

// ParsePubKey checks that b is a compressed secp256k1 public key on the
// curve and returns its canonical serialisation.
func ParsePubKey(b []byte) ([]byte, error) {
	if len(b) != PubKeySize {
		return nil, fmt.Errorf("pubkey must be %d bytes, got %d", PubKeySize, len(b))
	}
	pk, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("parse pubkey: %w", err)
	}
	return pk.SerializeCompressed(), nil
}
