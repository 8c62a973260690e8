package custody

import "math/big"

type withdrawalKey struct {
	heir  Identity
	asset AssetID
}

// assetLedger tracks per-asset snapshots and one-shot withdrawals. A zero or
// missing snapshot means "not yet snapshotted".
type assetLedger struct {
	snapshots map[AssetID]*big.Int
	withdrawn map[withdrawalKey]bool
}

func newAssetLedger() *assetLedger {
	return &assetLedger{
		snapshots: make(map[AssetID]*big.Int),
		withdrawn: make(map[withdrawalKey]bool),
	}
}

// snapshot returns the stored snapshot and whether it counts as set.
func (l *assetLedger) snapshot(asset AssetID) (*big.Int, bool) {
	snap, ok := l.snapshots[asset]
	if !ok || snap.Sign() == 0 {
		return new(big.Int), false
	}
	return new(big.Int).Set(snap), true
}

func (l *assetLedger) hasWithdrawn(heir Identity, asset AssetID) bool {
	return l.withdrawn[withdrawalKey{heir: heir, asset: asset}]
}

// commit records a successful withdrawal together with the snapshot it used.
func (l *assetLedger) commit(heir Identity, asset AssetID, snap *big.Int) {
	l.snapshots[asset] = new(big.Int).Set(snap)
	l.withdrawn[withdrawalKey{heir: heir, asset: asset}] = true
}

func (l *assetLedger) withdrawers(asset AssetID) []Identity {
	out := make([]Identity, 0)
	for key, ok := range l.withdrawn {
		if ok && key.asset == asset {
			out = append(out, key.heir)
		}
	}
	sortIdentities(out)
	return out
}

func alreadyWithdrawn(asset AssetID) error {
	if IsNative(asset) {
		return ErrAlreadyWithdrewNative
	}
	return ErrAlreadyWithdrewToken
}
