package config

import (
	"math/big"
	"time"

	"github.com/danmuck/deadswitch/internal/custody"
	"github.com/ethereum/go-ethereum/common"
)

// Balance is one resolved vault seed entry.
type Balance struct {
	Asset  custody.AssetID
	Amount *big.Int
}

// Asset is resolved display metadata for one asset.
type Asset struct {
	ID       custody.AssetID
	Symbol   string
	Decimals int32
}

// CustodyConfig resolves the immutable wallet parameters. cfg must have passed
// Validate.
func (cfg Config) CustodyConfig() custody.Config {
	owner, _ := ParseIdentity(cfg.Wallet.Owner)
	threshold, _ := parseDuration(cfg.Wallet.InactivityThreshold)
	window, _ := parseDuration(cfg.Wallet.DisputeWindow)
	return custody.Config{
		Owner:               owner,
		InactivityThreshold: threshold,
		DisputeWindow:       window,
	}
}

func (cfg Config) AccountAddress() common.Address {
	addr, _ := ParseIdentity(cfg.Wallet.Account)
	return addr
}

func (cfg Config) HeirAddresses() []custody.Identity {
	out := make([]custody.Identity, 0, len(cfg.Wallet.Heirs))
	for _, raw := range cfg.Wallet.Heirs {
		id, _ := ParseIdentity(raw)
		out = append(out, id)
	}
	return out
}

func (cfg Config) VaultBalances() []Balance {
	out := make([]Balance, 0, len(cfg.Vault.Balances))
	for _, raw := range cfg.Vault.Balances {
		asset, _ := ParseAsset(raw.Asset)
		amount, _ := ParseAmount(raw.Amount)
		out = append(out, Balance{Asset: asset, Amount: amount})
	}
	return out
}

// AssetTable resolves asset metadata. The native asset defaults to 18
// decimals when not configured.
func (cfg Config) AssetTable() map[custody.AssetID]Asset {
	out := map[custody.AssetID]Asset{
		custody.NativeAsset: {ID: custody.NativeAsset, Symbol: "NATIVE", Decimals: 18},
	}
	for _, raw := range cfg.Assets {
		id, _ := ParseAsset(raw.ID)
		out[id] = Asset{ID: id, Symbol: raw.Symbol, Decimals: raw.Decimals}
	}
	return out
}

func (cfg Config) StaticTokens() map[string]common.Address {
	out := make(map[string]common.Address, len(cfg.Auth.Tokens))
	for _, tok := range cfg.Auth.Tokens {
		id, _ := ParseIdentity(tok.Identity)
		out[tok.Token] = id
	}
	return out
}

func (cfg Config) TokenTTL() time.Duration {
	d, _ := parseDuration(cfg.Auth.TokenTTL)
	return d
}
