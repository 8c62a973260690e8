package custody

import (
	"math/big"
	"time"

	"github.com/google/uuid"
)

// EventKind names an observability record emitted by the wallet.
type EventKind string

const (
	EventHeirAdded        EventKind = "heir_added"
	EventHeirRemoved      EventKind = "heir_removed"
	EventClaimInitiated   EventKind = "claim_initiated"
	EventClaimVetoed      EventKind = "claim_vetoed"
	EventClaimFinalized   EventKind = "claim_finalized"
	EventAssetDistributed EventKind = "asset_distributed"
	EventOwnerAction      EventKind = "owner_action"
)

// Event is one committed state change.
//
// Subject is the heir for registry and distribution events and the call
// destination for owner actions. Amount is set for distributions and owner
// actions only.
type Event struct {
	ID      uuid.UUID
	Kind    EventKind
	Caller  Identity
	Subject Identity
	Asset   AssetID
	Amount  *big.Int
	Status  Status
	At      time.Time
}

func newEvent(kind EventKind, caller Identity, status Status, at time.Time) Event {
	return Event{
		ID:     uuid.New(),
		Kind:   kind,
		Caller: caller,
		Status: status,
		At:     at,
	}
}
