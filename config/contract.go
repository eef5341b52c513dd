package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mainnet-pat/cc-wallet/pkg/crypto"
	"github.com/mainnet-pat/cc-wallet/pkg/types"
)

// AdminKeyCount is the number of keys in the admin 2-of-3 multisig.
const AdminKeyCount = 3

// Contract describes a deployed issuance contract. It is immutable once
// built and passed explicitly to whatever needs it.
type Contract struct {
	// Category is the token category (hex) issued by the contract.
	Category string `json:"category"`
	// AdminPubKeys are the compressed secp256k1 keys (hex) of the admin
	// multisig, in slot order.
	AdminPubKeys [AdminKeyCount]string `json:"admin_pubkeys"`
}

// MainnetContract returns the contract deployed on mainnet. The first and
// third admin slots intentionally hold the same key.
func MainnetContract() *Contract {
	return &Contract{
		Category: "c1b511d524edbe14b419cbe092a6756f6255b288eee08b196af9c45c9baae61e",
		AdminPubKeys: [AdminKeyCount]string{
			"02b319ee4a546a4524f45856c213112adbb336844f7c880fb8e1314df433533e28",
			"03633edb35f6552ecc3138c01c7219ddb278e1ae17304b60b2fd2aa8a1f20d0aaf",
			"02b319ee4a546a4524f45856c213112adbb336844f7c880fb8e1314df433533e28",
		},
	}
}

// ContractFor returns the built-in contract for a network, or nil when the
// network has none and one must be loaded from a file.
func ContractFor(network NetworkType) *Contract {
	if network == Mainnet {
		return MainnetContract()
	}
	return nil
}

// TokenID returns the parsed category.
func (c *Contract) TokenID() (types.TokenID, error) {
	return types.HexToTokenID(c.Category)
}

// Validate checks the category and that each admin key is a valid
// compressed point on secp256k1.
func (c *Contract) Validate() error {
	if _, err := c.TokenID(); err != nil {
		return fmt.Errorf("category: %w", err)
	}
	for i, k := range c.AdminPubKeys {
		if _, err := crypto.ParsePubKeyHex(k); err != nil {
			return fmt.Errorf("admin_pubkeys[%d]: %w", i, err)
		}
	}
	return nil
}

// AdminKeys returns the raw admin keys, taking each slot from overrides
// when a non-empty entry is given and from the contract defaults otherwise.
// Every key, override or default, must be a point on the curve.
func (c *Contract) AdminKeys(overrides [][]byte) ([AdminKeyCount][]byte, error) {
	var out [AdminKeyCount][]byte
	if len(overrides) > AdminKeyCount {
		return out, fmt.Errorf("got %d admin key overrides, max %d", len(overrides), AdminKeyCount)
	}
	for i := range out {
		if i < len(overrides) && len(overrides[i]) > 0 {
			k, err := crypto.ParsePubKey(overrides[i])
			if err != nil {
				return out, fmt.Errorf("admin key override %d: %w", i, err)
			}
			out[i] = k
			continue
		}
		k, err := crypto.ParsePubKeyHex(c.AdminPubKeys[i])
		if err != nil {
			return out, fmt.Errorf("admin_pubkeys[%d]: %w", i, err)
		}
		out[i] = k
	}
	return out, nil
}

// LoadContract loads and validates a contract definition from a JSON file.
func LoadContract(path string) (*Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading contract file: %w", err)
	}

	var c Contract
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing contract file: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid contract: %w", err)
	}
	return &c, nil
}

// Save writes the contract definition to a file.
func (c *Contract) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding contract: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing contract file: %w", err)
	}
	return nil
}

// ResolveContract returns the contract for cfg: the file named by
// contract.file when set, the network's built-in contract otherwise.
func ResolveContract(cfg *Config) (*Contract, error) {
	if cfg.ContractFile != "" {
		return LoadContract(cfg.ContractFile)
	}
	c := ContractFor(cfg.Network)
	if c == nil {
		return nil, fmt.Errorf("no built-in contract for %s; set contract.file", cfg.Network)
	}
	return c, nil
}
