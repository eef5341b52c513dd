package types

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
)

// NFTCapability is the capability of a non-fungible token.
type NFTCapability string

const (
	CapabilityNone    NFTCapability = "none"
	CapabilityMutable NFTCapability = "mutable"
	CapabilityMinting NFTCapability = "minting"
)

// NFT is the non-fungible part of a token output.
type NFT struct {
	Capability NFTCapability
	Commitment []byte
}

// nftJSON is the Electrum wire shape: commitment as hex.
type nftJSON struct {
	Capability NFTCapability `json:"capability"`
	Commitment string        `json:"commitment"`
}

// MarshalJSON encodes the commitment as hex.
func (n NFT) MarshalJSON() ([]byte, error) {
	return json.Marshal(nftJSON{
		Capability: n.Capability,
		Commitment: hex.EncodeToString(n.Commitment),
	})
}

// UnmarshalJSON decodes a hex commitment.
func (n *NFT) UnmarshalJSON(data []byte) error {
	var raw nftJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	commitment, err := hex.DecodeString(raw.Commitment)
	if err != nil {
		return fmt.Errorf("nft commitment: %w", err)
	}
	switch raw.Capability {
	case "", CapabilityNone, CapabilityMutable, CapabilityMinting:
	default:
		return fmt.Errorf("unknown nft capability %q", raw.Capability)
	}
	if raw.Capability == "" {
		raw.Capability = CapabilityNone
	}
	n.Capability = raw.Capability
	n.Commitment = commitment
	return nil
}

// TokenData holds token information attached to a UTXO. A token output may
// carry a fungible amount, an NFT, or both.
type TokenData struct {
	Category TokenID `json:"category"`
	Amount   uint64  `json:"amount"`
	NFT      *NFT    `json:"nft,omitempty"`
}

type tokenDataJSON struct {
	Category TokenID         `json:"category"`
	Amount   json.RawMessage `json:"amount"`
	NFT      *NFT            `json:"nft"`
}

// UnmarshalJSON accepts the fungible amount either as a JSON number or as a
// decimal string, which is how Electrum servers send it.
func (t *TokenData) UnmarshalJSON(data []byte) error {
	var raw tokenDataJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	amount, err := parseAmount(raw.Amount)
	if err != nil {
		return fmt.Errorf("token amount: %w", err)
	}
	t.Category = raw.Category
	t.Amount = amount
	t.NFT = raw.NFT
	return nil
}

func parseAmount(raw json.RawMessage) (uint64, error) {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return 0, nil
	}
	if v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return 0, err
		}
		if s == "" {
			return 0, nil
		}
		v = []byte(s)
	}
	return strconv.ParseUint(string(v), 10, 64)
}

// Commitment returns the NFT commitment bytes, or nil when the token has no
// NFT part.
func (t *TokenData) Commitment() []byte {
	if t == nil || t.NFT == nil {
		return nil
	}
	return t.NFT.Commitment
}
