package custody

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Identity is an authenticated principal (owner or heir).
type Identity = common.Address

// AssetID names one ledger entry. NativeAsset is the native currency; any
// other id is a fungible token contract.
type AssetID = common.Address

// NativeAsset is the reserved sentinel for the native currency.
var NativeAsset = AssetID{}

// IsNative reports whether asset is the native currency sentinel.
func IsNative(asset AssetID) bool {
	return asset == NativeAsset
}

// Clock is the host time source. It must never run backwards.
type Clock interface {
	Now() time.Time
}

// Call is an owner proxy directive executed through the host.
type Call struct {
	Destination common.Address
	Value       *big.Int
	Payload     []byte
}

// Vault is the host asset primitive for the wallet's own holdings.
type Vault interface {
	// Balance returns the wallet's current holdings of asset.
	Balance(ctx context.Context, asset AssetID) (*big.Int, error)
	// Transfer moves amount of asset from the wallet to to.
	Transfer(ctx context.Context, asset AssetID, to common.Address, amount *big.Int) error
	// Call executes an outbound owner directive and returns its output.
	Call(ctx context.Context, call Call) ([]byte, error)
}

// Sink receives committed wallet events.
type Sink interface {
	Record(ctx context.Context, event Event) error
}

// Host bundles the collaborators a Wallet consumes.
type Host struct {
	Clock Clock
	Vault Vault
	Sink  Sink
}
