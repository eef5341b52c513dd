package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Outpoint references a specific output in a transaction.
type Outpoint struct {
	TxID Hash   `json:"txid"`
	Vout uint32 `json:"vout"`
}

// String returns "txid:vout" in hex.
func (o Outpoint) String() string {
	return fmt.Sprintf("%s:%d", o.TxID.String(), o.Vout)
}

// UTXO is an unspent output as reported by the network provider. The
// issuance engine only reads it.
type UTXO struct {
	Outpoint Outpoint   `json:"outpoint"`
	Satoshis uint64     `json:"satoshis"`
	Token    *TokenData `json:"token,omitempty"`
}

// utxoJSON covers both the native layout and the Electrum
// blockchain.address.listunspent layout (tx_hash, tx_pos, value, token_data).
type utxoJSON struct {
	Outpoint *Outpoint  `json:"outpoint"`
	Satoshis *uint64    `json:"satoshis"`
	Token    *TokenData `json:"token"`

	TxHash    *Hash      `json:"tx_hash"`
	TxPos     uint32     `json:"tx_pos"`
	Value     *uint64    `json:"value"`
	TokenData *TokenData `json:"token_data"`
}

// UnmarshalJSON decodes either layout. Native fields win when both are set.
func (u *UTXO) UnmarshalJSON(data []byte) error {
	var raw utxoJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = UTXO{}
	switch {
	case raw.Outpoint != nil:
		u.Outpoint = *raw.Outpoint
	case raw.TxHash != nil:
		u.Outpoint = Outpoint{TxID: *raw.TxHash, Vout: raw.TxPos}
	}
	switch {
	case raw.Satoshis != nil:
		u.Satoshis = *raw.Satoshis
	case raw.Value != nil:
		u.Satoshis = *raw.Value
	}
	u.Token = raw.Token
	if u.Token == nil {
		u.Token = raw.TokenData
	}
	return nil
}

// TokenAmount returns the fungible token amount, or zero for a UTXO
// without tokens.
func (u *UTXO) TokenAmount() uint64 {
	if u == nil || u.Token == nil {
		return 0
	}
	return u.Token.Amount
}

// ParseUTXOs decodes a single UTXO object or an array of them, such as a
// saved listunspent response.
func ParseUTXOs(data []byte) ([]UTXO, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		var list []UTXO
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var one UTXO
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, err
	}
	return []UTXO{one}, nil
}
