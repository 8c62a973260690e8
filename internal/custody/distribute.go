package custody

import (
	"context"
	"math/big"
)

// AssetView is the ledger state for one asset.
type AssetView struct {
	Asset     AssetID
	Snapshot  *big.Int
	Withdrawn []Identity
}

// Distribute pays caller one share of asset. The share is
// floor(snapshot / current heir count); the remainder is never paid out.
//
// The snapshot is read from the vault on the first distribution of asset and
// reused afterwards. Snapshot and withdrawal flag are committed only once the
// transfer succeeds.
func (w *Wallet) Distribute(ctx context.Context, caller Identity, asset AssetID) (*big.Int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.status != StatusDead {
		return nil, w.reject("distribute", caller, ErrNotDead)
	}
	if !w.heirs.contains(caller) {
		return nil, w.reject("distribute", caller, ErrNotHeir)
	}
	if w.ledger.hasWithdrawn(caller, asset) {
		return nil, w.reject("distribute", caller, alreadyWithdrawn(asset))
	}

	snap, ok := w.ledger.snapshot(asset)
	if !ok {
		bal, err := w.vault.Balance(ctx, asset)
		if err != nil {
			return nil, w.reject("distribute", caller, transferError(err))
		}
		if bal != nil {
			snap.Set(bal)
		}
	}

	amount := new(big.Int).Quo(snap, big.NewInt(int64(w.heirs.count)))
	if err := w.vault.Transfer(ctx, asset, caller, new(big.Int).Set(amount)); err != nil {
		return nil, w.reject("distribute", caller, transferError(err))
	}
	w.ledger.commit(caller, asset, snap)

	ev := newEvent(EventAssetDistributed, caller, w.status, w.clock.Now())
	ev.Subject = caller
	ev.Asset = asset
	ev.Amount = new(big.Int).Set(amount)
	w.record(ctx, ev)
	return amount, nil
}

// Ledger returns the current ledger view for asset.
func (w *Wallet) Ledger(asset AssetID) AssetView {
	w.mu.Lock()
	defer w.mu.Unlock()
	snap, _ := w.ledger.snapshot(asset)
	return AssetView{
		Asset:     asset,
		Snapshot:  snap,
		Withdrawn: w.ledger.withdrawers(asset),
	}
}

// Withdrawn reports whether heir has already received its share of asset.
func (w *Wallet) Withdrawn(heir Identity, asset AssetID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ledger.hasWithdrawn(heir, asset)
}
