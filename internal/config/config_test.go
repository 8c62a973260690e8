package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/deadswitch/internal/custody"
	"github.com/danmuck/deadswitch/internal/testutil/testlog"
	"github.com/ethereum/go-ethereum/common"
)

func TestTemplateRoundTrip(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := WriteTemplate(path, false); err == nil {
		t.Fatalf("expected refusal to overwrite existing config")
	}
	if err := WriteTemplate(path, true); err != nil {
		t.Fatalf("overwrite template: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if !reflect.DeepEqual(cfg, Example()) {
		t.Fatalf("round trip mismatch:\n got=%+v\nwant=%+v", cfg, Example())
	}

	cc := cfg.CustodyConfig()
	if cc.InactivityThreshold != 720*time.Hour || cc.DisputeWindow != 168*time.Hour {
		t.Fatalf("unexpected durations: %+v", cc)
	}
	if len(cfg.HeirAddresses()) != 2 || cfg.AccountAddress() != common.HexToAddress("0xaa") {
		t.Fatalf("unexpected wallet addresses: heirs=%v account=%s", cfg.HeirAddresses(), cfg.AccountAddress().Hex())
	}
	bals := cfg.VaultBalances()
	if len(bals) != 2 || !custody.IsNative(bals[0].Asset) || bals[1].Amount.String() != "1500000000" {
		t.Fatalf("unexpected balances: %+v", bals)
	}
	table := cfg.AssetTable()
	if table[custody.NativeAsset].Symbol != "ETH" || table[bals[1].Asset].Decimals != 6 {
		t.Fatalf("unexpected asset table: %+v", table)
	}
	if cfg.TokenTTL() != 24*time.Hour || len(cfg.StaticTokens()) != 1 {
		t.Fatalf("unexpected auth config: %+v", cfg.Auth)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[wallet]
owner = "0x00000000000000000000000000000000000000f0"
account = "0x00000000000000000000000000000000000000aa"

[auth]
jwt_secret = "x"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Name != DefaultName || cfg.Addr != DefaultAddr {
		t.Fatalf("missing top-level defaults: %+v", cfg)
	}
	if cfg.Wallet.InactivityThreshold != DefaultInactivityThreshold || cfg.Wallet.DisputeWindow != DefaultDisputeWindow {
		t.Fatalf("missing wallet defaults: %+v", cfg.Wallet)
	}
	if cfg.Auth.JWTIssuer != DefaultJWTIssuer || cfg.Auth.TokenTTL != DefaultTokenTTL {
		t.Fatalf("missing auth defaults: %+v", cfg.Auth)
	}
}

func TestValidateFailures(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "zero owner", mutate: func(c *Config) { c.Wallet.Owner = "0x0000000000000000000000000000000000000000" }, field: "wallet.owner"},
		{name: "bad account", mutate: func(c *Config) { c.Wallet.Account = "bob" }, field: "wallet.account"},
		{name: "bad threshold", mutate: func(c *Config) { c.Wallet.InactivityThreshold = "soon" }, field: "wallet.inactivity_threshold"},
		{name: "negative window", mutate: func(c *Config) { c.Wallet.DisputeWindow = "-1h" }, field: "wallet.dispute_window"},
		{name: "bad heir", mutate: func(c *Config) { c.Wallet.Heirs = []string{"0x12"} }, field: "wallet.heirs[0]"},
		{name: "no auth", mutate: func(c *Config) { c.Auth.JWTSecret = ""; c.Auth.Tokens = nil }, field: "auth requires"},
		{name: "empty token", mutate: func(c *Config) { c.Auth.Tokens[0].Token = " " }, field: "auth.tokens[0]"},
		{name: "bad asset", mutate: func(c *Config) { c.Assets[1].ID = "usdc" }, field: "assets[1].id"},
		{name: "negative decimals", mutate: func(c *Config) { c.Assets[0].Decimals = -1 }, field: "assets[0].decimals"},
		{name: "negative balance", mutate: func(c *Config) { c.Vault.Balances[0].Amount = "-5" }, field: "vault.balances[0].amount"},
		{name: "missing addr", mutate: func(c *Config) { c.Addr = "" }, field: "missing addr"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Example()
			tc.mutate(&cfg)
			err := Validate(cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Fatalf("expected error to name %q, got %v", tc.field, err)
			}
		})
	}
}

func TestParseAsset(t *testing.T) {
	testlog.Start(t)
	for _, raw := range []string{"native", "NATIVE", "0x0000000000000000000000000000000000000000"} {
		id, err := ParseAsset(raw)
		if err != nil || !custody.IsNative(id) {
			t.Fatalf("ParseAsset(%q) = %s, %v", raw, id.Hex(), err)
		}
	}
	if _, err := ParseAsset("eth"); err == nil {
		t.Fatalf("expected error for symbol instead of address")
	}
}
