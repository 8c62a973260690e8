package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Example returns a complete development configuration.
func Example() Config {
	return Config{
		Name:        DefaultName,
		Addr:        DefaultAddr,
		CorsOrigins: []string{"http://localhost:3000"},
		Wallet: WalletConfig{
			Owner:               "0x00000000000000000000000000000000000000f0",
			Account:             "0x00000000000000000000000000000000000000aa",
			InactivityThreshold: DefaultInactivityThreshold,
			DisputeWindow:       DefaultDisputeWindow,
			Heirs: []string{
				"0x00000000000000000000000000000000000000a1",
				"0x00000000000000000000000000000000000000a2",
			},
		},
		Auth: AuthConfig{
			JWTSecret: "change-me",
			JWTIssuer: DefaultJWTIssuer,
			TokenTTL:  DefaultTokenTTL,
			Tokens: []TokenConfig{
				{Token: "temp-owner-key", Identity: "0x00000000000000000000000000000000000000f0"},
			},
		},
		Assets: []AssetConfig{
			{ID: NativeAlias, Symbol: "ETH", Decimals: 18},
			{ID: "0x00000000000000000000000000000000000000c0", Symbol: "USDC", Decimals: 6},
		},
		Vault: VaultConfig{
			Balances: []BalanceConfig{
				{Asset: NativeAlias, Amount: "90000000000000000000"},
				{Asset: "0x00000000000000000000000000000000000000c0", Amount: "1500000000"},
			},
		},
	}
}

// Render encodes cfg as TOML.
func Render(cfg Config) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config render failed: %w", err)
	}
	return data, nil
}

// WriteTemplate writes the example configuration to path.
func WriteTemplate(path string, overwrite bool) error {
	data, err := Render(Example())
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, data, 0o600)
}
