package issuance

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Commitment is the issuance state carried in the contract's NFT commitment.
//
// Layout:
//
//	[8 bytes: deployment time, unix seconds, big-endian]
//	[8 bytes: last interaction time, unix seconds, big-endian]
//
// Bytes past the first 16 are ignored.
type Commitment struct {
	DeploymentTime      uint64 `json:"deploymentTime"`
	LastInteractionTime uint64 `json:"lastInteractionTime"`
}

// DecodeCommitment extracts issuance state from raw commitment bytes. It does
// not check that the two timestamps are ordered.
func DecodeCommitment(data []byte) (Commitment, error) {
	if len(data) < CommitmentSize {
		return Commitment{}, fmt.Errorf("%w: need %d bytes, got %d", ErrMalformedCommitment, CommitmentSize, len(data))
	}
	return Commitment{
		DeploymentTime:      binary.BigEndian.Uint64(data[0:8]),
		LastInteractionTime: binary.BigEndian.Uint64(data[8:16]),
	}, nil
}

// EncodeCommitment serialises c into the 16-byte commitment layout.
func EncodeCommitment(c Commitment) []byte {
	buf := make([]byte, 0, CommitmentSize)
	buf = binary.BigEndian.AppendUint64(buf, c.DeploymentTime)
	buf = binary.BigEndian.AppendUint64(buf, c.LastInteractionTime)
	return buf
}

// ParseCommitmentHex decodes a hex commitment as reported by Electrum.
func ParseCommitmentHex(s string) (Commitment, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return Commitment{}, fmt.Errorf("%w: %v", ErrMalformedCommitment, err)
	}
	return DecodeCommitment(data)
}
