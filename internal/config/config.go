package config

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
)

var ErrInvalidConfig = errors.New("config: invalid")

const (
	DefaultName                = "deadswitch"
	DefaultAddr                = ":9400"
	DefaultInactivityThreshold = "720h"
	DefaultDisputeWindow       = "168h"
	DefaultJWTIssuer           = "deadswitch"
	DefaultTokenTTL            = "24h"

	// NativeAlias names the native currency wherever an asset id is expected.
	NativeAlias = "native"
)

// Config is the deadswitchd daemon configuration.
type Config struct {
	Name        string        `toml:"name"`
	Addr        string        `toml:"addr"`
	CorsOrigins []string      `toml:"cors_origins,omitempty"`
	Wallet      WalletConfig  `toml:"wallet"`
	Auth        AuthConfig    `toml:"auth"`
	Assets      []AssetConfig `toml:"assets,omitempty"`
	Vault       VaultConfig   `toml:"vault"`
}

type WalletConfig struct {
	Owner               string   `toml:"owner"`
	Account             string   `toml:"account"`
	InactivityThreshold string   `toml:"inactivity_threshold"`
	DisputeWindow       string   `toml:"dispute_window"`
	Heirs               []string `toml:"heirs,omitempty"`
}

type AuthConfig struct {
	JWTSecret string        `toml:"jwt_secret"`
	JWTIssuer string        `toml:"jwt_issuer"`
	TokenTTL  string        `toml:"token_ttl"`
	Tokens    []TokenConfig `toml:"tokens,omitempty"`
}

type TokenConfig struct {
	Token    string `toml:"token"`
	Identity string `toml:"identity"`
}

type AssetConfig struct {
	ID       string `toml:"id"`
	Symbol   string `toml:"symbol"`
	Decimals int32  `toml:"decimals"`
}

type VaultConfig struct {
	Balances []BalanceConfig `toml:"balances,omitempty"`
}

type BalanceConfig struct {
	Asset  string `toml:"asset"`
	Amount string `toml:"amount"`
}

// Load decodes path, fills defaults for undefined keys, and validates.
func Load(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	applyDefaults(&cfg, meta)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config, meta toml.MetaData) {
	if !meta.IsDefined("name") || strings.TrimSpace(cfg.Name) == "" {
		cfg.Name = DefaultName
	}
	if !meta.IsDefined("addr") || strings.TrimSpace(cfg.Addr) == "" {
		cfg.Addr = DefaultAddr
	}
	if !meta.IsDefined("wallet", "inactivity_threshold") {
		cfg.Wallet.InactivityThreshold = DefaultInactivityThreshold
	}
	if !meta.IsDefined("wallet", "dispute_window") {
		cfg.Wallet.DisputeWindow = DefaultDisputeWindow
	}
	if !meta.IsDefined("auth", "jwt_issuer") {
		cfg.Auth.JWTIssuer = DefaultJWTIssuer
	}
	if !meta.IsDefined("auth", "token_ttl") {
		cfg.Auth.TokenTTL = DefaultTokenTTL
	}
}

// Validate checks every address, duration, and amount in cfg.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return invalid("missing name")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return invalid("missing addr")
	}
	if _, err := ParseIdentity(cfg.Wallet.Owner); err != nil {
		return invalid("wallet.owner: %v", err)
	}
	if _, err := ParseIdentity(cfg.Wallet.Account); err != nil {
		return invalid("wallet.account: %v", err)
	}
	if _, err := parseDuration(cfg.Wallet.InactivityThreshold); err != nil {
		return invalid("wallet.inactivity_threshold: %v", err)
	}
	if _, err := parseDuration(cfg.Wallet.DisputeWindow); err != nil {
		return invalid("wallet.dispute_window: %v", err)
	}
	for i, heir := range cfg.Wallet.Heirs {
		if _, err := ParseIdentity(heir); err != nil {
			return invalid("wallet.heirs[%d]: %v", i, err)
		}
	}
	if strings.TrimSpace(cfg.Auth.TokenTTL) != "" {
		if _, err := parseDuration(cfg.Auth.TokenTTL); err != nil {
			return invalid("auth.token_ttl: %v", err)
		}
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" && len(cfg.Auth.Tokens) == 0 {
		return invalid("auth requires jwt_secret or at least one token")
	}
	for i, tok := range cfg.Auth.Tokens {
		if strings.TrimSpace(tok.Token) == "" {
			return invalid("auth.tokens[%d]: missing token", i)
		}
		if _, err := ParseIdentity(tok.Identity); err != nil {
			return invalid("auth.tokens[%d].identity: %v", i, err)
		}
	}
	for i, asset := range cfg.Assets {
		if _, err := ParseAsset(asset.ID); err != nil {
			return invalid("assets[%d].id: %v", i, err)
		}
		if asset.Decimals < 0 {
			return invalid("assets[%d].decimals: negative", i)
		}
	}
	for i, bal := range cfg.Vault.Balances {
		if _, err := ParseAsset(bal.Asset); err != nil {
			return invalid("vault.balances[%d].asset: %v", i, err)
		}
		if _, err := ParseAmount(bal.Amount); err != nil {
			return invalid("vault.balances[%d].amount: %v", i, err)
		}
	}
	return nil
}

// ParseIdentity parses a non-zero hex address.
func ParseIdentity(raw string) (common.Address, error) {
	raw = strings.TrimSpace(raw)
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("not a hex address: %q", raw)
	}
	addr := common.HexToAddress(raw)
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("zero address")
	}
	return addr, nil
}

// ParseAsset parses "native" (or the zero address) and token addresses.
func ParseAsset(raw string) (common.Address, error) {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, NativeAlias) {
		return common.Address{}, nil
	}
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("not an asset id: %q", raw)
	}
	return common.HexToAddress(raw), nil
}

// ParseAmount parses a non-negative base-10 integer amount.
func ParseAmount(raw string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(raw), 10)
	if !ok {
		return nil, fmt.Errorf("not an integer: %q", raw)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("negative amount: %s", v)
	}
	return v, nil
}

func parseDuration(raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", d)
	}
	return d, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
