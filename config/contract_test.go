package config

import (
	"bytes"
	"encoding/hex"
	"path/filepath"
	"strings"
	"testing"
)

func TestMainnetContract_Valid(t *testing.T) {
	c := MainnetContract()
	if err := c.Validate(); err != nil {
		t.Fatalf("mainnet contract should be valid: %v", err)
	}
	id, err := c.TokenID()
	if err != nil || id.String() != c.Category {
		t.Errorf("TokenID = %s, %v", id, err)
	}
}

func TestMainnetContract_IsFreshCopy(t *testing.T) {
	a := MainnetContract()
	a.AdminPubKeys[0] = "tampered"
	if MainnetContract().AdminPubKeys[0] == "tampered" {
		t.Error("MainnetContract must not share state between calls")
	}
}

func TestContract_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Contract)
		want   string
	}{
		{"short category", func(c *Contract) { c.Category = "c1b5" }, "category"},
		{"non-hex key", func(c *Contract) { c.AdminPubKeys[1] = "zz" }, "admin_pubkeys[1]"},
		{"uncompressed length", func(c *Contract) { c.AdminPubKeys[2] = "04" + strings.Repeat("00", 64) }, "admin_pubkeys[2]"},
		{"off curve", func(c *Contract) { c.AdminPubKeys[0] = "02" + strings.Repeat("ff", 32) }, "admin_pubkeys[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := MainnetContract()
			tt.mutate(c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestContract_AdminKeys(t *testing.T) {
	c := MainnetContract()
	override, _ := hex.DecodeString(c.AdminPubKeys[1])

	keys, err := c.AdminKeys([][]byte{nil, nil, override})
	if err != nil {
		t.Fatalf("AdminKeys: %v", err)
	}
	if hex.EncodeToString(keys[0]) != c.AdminPubKeys[0] {
		t.Errorf("slot 0 = %x, want default", keys[0])
	}
	if !bytes.Equal(keys[2], override) {
		t.Errorf("slot 2 = %x, want override", keys[2])
	}

	if _, err := c.AdminKeys([][]byte{{1, 2, 3}}); err == nil {
		t.Error("short override should fail")
	}
	if _, err := c.AdminKeys([][]byte{make([]byte, 33)}); err == nil {
		t.Error("all-zero override is not a curve point and should fail")
	}
	offCurve, _ := hex.DecodeString("02" + strings.Repeat("ff", 32))
	if _, err := c.AdminKeys([][]byte{nil, offCurve}); err == nil || !strings.Contains(err.Error(), "override 1") {
		t.Errorf("off-curve override error = %v", err)
	}
	if _, err := c.AdminKeys(make([][]byte, 4)); err == nil {
		t.Error("too many overrides should fail")
	}
}

func TestContract_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contract.json")
	want := MainnetContract()
	if err := want.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := LoadContract(path)
	if err != nil {
		t.Fatalf("LoadContract: %v", err)
	}
	if *got != *want {
		t.Errorf("LoadContract = %+v, want %+v", got, want)
	}

	bad := &Contract{Category: "00"}
	bad.Save(path)
	if _, err := LoadContract(path); err == nil {
		t.Error("invalid contract file should fail to load")
	}
}

func TestResolveContract(t *testing.T) {
	c, err := ResolveContract(Default(Mainnet))
	if err != nil || c.Category != MainnetContract().Category {
		t.Errorf("mainnet: %v, %v", c, err)
	}

	if _, err := ResolveContract(Default(Chipnet)); err == nil {
		t.Error("chipnet without contract.file should fail")
	}

	path := filepath.Join(t.TempDir(), "chip.json")
	MainnetContract().Save(path)
	cfg := Default(Chipnet)
	cfg.ContractFile = path
	if _, err := ResolveContract(cfg); err != nil {
		t.Errorf("chipnet with contract.file: %v", err)
	}
}
