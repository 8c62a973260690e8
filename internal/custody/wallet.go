package custody

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidConfig = errors.New("custody: invalid config")
	ErrInvalidHost   = errors.New("custody: invalid host")
)

// Config fixes the immutable wallet parameters.
type Config struct {
	Owner               Identity
	InactivityThreshold time.Duration
	DisputeWindow       time.Duration
}

// Validate enforces construction requirements.
func (c Config) Validate() error {
	if c.Owner == (Identity{}) {
		return fmt.Errorf("%w: missing owner", ErrInvalidConfig)
	}
	if c.InactivityThreshold < 0 {
		return fmt.Errorf("%w: negative inactivity threshold", ErrInvalidConfig)
	}
	if c.DisputeWindow < 0 {
		return fmt.Errorf("%w: negative dispute window", ErrInvalidConfig)
	}
	return nil
}

// State is a read-only view of the wallet aggregate.
type State struct {
	Owner               Identity
	Status              Status
	LastOwnerActivity   time.Time
	ClaimStartedAt      time.Time
	InactivityThreshold time.Duration
	DisputeWindow       time.Duration
	Heirs               []Identity
	HeirCount           int
}

// ClaimableAfter is the instant after which an heir may initiate a claim.
func (s State) ClaimableAfter() time.Time {
	return s.LastOwnerActivity.Add(s.InactivityThreshold)
}

// FinalizableAfter is the instant after which a pending claim may be
// finalized. It is meaningful only while the status is death_claimed.
func (s State) FinalizableAfter() time.Time {
	return s.ClaimStartedAt.Add(s.DisputeWindow)
}

// Receipt reports a successful owner action.
type Receipt struct {
	Call       Call
	Output     []byte
	ExecutedAt time.Time
}

// Wallet is the single-owner custodial aggregate. All operations serialize on
// one mutex covering status, heir registry, and asset ledger.
type Wallet struct {
	mu sync.Mutex

	owner               Identity
	inactivityThreshold time.Duration
	disputeWindow       time.Duration

	status            Status
	lastOwnerActivity time.Time
	claimStartedAt    time.Time

	heirs  *heirRegistry
	ledger *assetLedger

	clock Clock
	vault Vault
	sink  Sink
}

// New constructs an alive wallet whose liveness clock starts now.
func New(cfg Config, host Host) (*Wallet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if host.Clock == nil {
		return nil, fmt.Errorf("%w: missing clock", ErrInvalidHost)
	}
	if host.Vault == nil {
		return nil, fmt.Errorf("%w: missing vault", ErrInvalidHost)
	}
	w := &Wallet{
		owner:               cfg.Owner,
		inactivityThreshold: cfg.InactivityThreshold,
		disputeWindow:       cfg.DisputeWindow,
		status:              StatusAlive,
		lastOwnerActivity:   host.Clock.Now(),
		heirs:               newHeirRegistry(),
		ledger:              newAssetLedger(),
		clock:               host.Clock,
		vault:               host.Vault,
		sink:                host.Sink,
	}
	log.Info().
		Str("owner", cfg.Owner.Hex()).
		Dur("inactivity_threshold", cfg.InactivityThreshold).
		Dur("dispute_window", cfg.DisputeWindow).
		Msg("custody wallet constructed")
	return w, nil
}

// Owner returns the immutable owner identity.
func (w *Wallet) Owner() Identity {
	return w.owner
}

// State returns a consistent snapshot of the aggregate.
func (w *Wallet) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return State{
		Owner:               w.owner,
		Status:              w.status,
		LastOwnerActivity:   w.lastOwnerActivity,
		ClaimStartedAt:      w.claimStartedAt,
		InactivityThreshold: w.inactivityThreshold,
		DisputeWindow:       w.disputeWindow,
		Heirs:               w.heirs.list(),
		HeirCount:           w.heirs.count,
	}
}

// IsHeir reports registry membership.
func (w *Wallet) IsHeir(id Identity) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.heirs.contains(id)
}

// OwnerAction executes an owner directive through the vault. Liveness is
// refreshed only when the directive succeeds.
func (w *Wallet) OwnerAction(ctx context.Context, caller Identity, call Call) (Receipt, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if caller != w.owner {
		return Receipt{}, w.reject("owner_action", caller, ErrNotOwner)
	}
	if w.status == StatusDead {
		return Receipt{}, w.reject("owner_action", caller, ErrWalletDead)
	}

	call = cloneCall(call)
	out, err := w.vault.Call(ctx, call)
	if err != nil {
		return Receipt{}, w.reject("owner_action", caller, transferError(err))
	}

	now := w.clock.Now()
	if now.After(w.lastOwnerActivity) {
		w.lastOwnerActivity = now
	}

	ev := newEvent(EventOwnerAction, caller, w.status, now)
	ev.Subject = call.Destination
	ev.Amount = new(big.Int).Set(call.Value)
	w.record(ctx, ev)
	return Receipt{Call: call, Output: out, ExecutedAt: now}, nil
}

// AddHeir registers heir. Registry changes are permitted in every status.
func (w *Wallet) AddHeir(ctx context.Context, caller, heir Identity) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if caller != w.owner {
		return w.reject("add_heir", caller, ErrNotOwner)
	}
	if err := w.heirs.add(heir); err != nil {
		return w.reject("add_heir", caller, err)
	}

	ev := newEvent(EventHeirAdded, caller, w.status, w.clock.Now())
	ev.Subject = heir
	w.record(ctx, ev)
	return nil
}

// RemoveHeir drops heir. Removal after death changes the divisor used by
// later distributions.
func (w *Wallet) RemoveHeir(ctx context.Context, caller, heir Identity) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if caller != w.owner {
		return w.reject("remove_heir", caller, ErrNotOwner)
	}
	if err := w.heirs.remove(heir); err != nil {
		return w.reject("remove_heir", caller, err)
	}

	ev := newEvent(EventHeirRemoved, caller, w.status, w.clock.Now())
	ev.Subject = heir
	w.record(ctx, ev)
	return nil
}

// InitiateClaim moves alive -> death_claimed once the owner has been idle
// for longer than the inactivity threshold.
func (w *Wallet) InitiateClaim(ctx context.Context, caller Identity) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.heirs.contains(caller) {
		return w.reject("initiate_claim", caller, ErrNotHeir)
	}
	if w.status != StatusAlive {
		return w.reject("initiate_claim", caller, ErrNotAlive)
	}
	now := w.clock.Now()
	if !now.After(w.lastOwnerActivity.Add(w.inactivityThreshold)) {
		return w.reject("initiate_claim", caller, ErrOwnerTooRecent)
	}

	w.status = StatusDeathClaimed
	w.claimStartedAt = now
	w.record(ctx, newEvent(EventClaimInitiated, caller, w.status, now))
	return nil
}

// FinalizeClaim moves death_claimed -> dead once the dispute window has
// elapsed without a veto.
func (w *Wallet) FinalizeClaim(ctx context.Context, caller Identity) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.heirs.contains(caller) {
		return w.reject("finalize_claim", caller, ErrNotHeir)
	}
	if err := w.requireClaimed(); err != nil {
		return w.reject("finalize_claim", caller, err)
	}
	now := w.clock.Now()
	if !now.After(w.claimStartedAt.Add(w.disputeWindow)) {
		return w.reject("finalize_claim", caller, ErrClaimTooRecent)
	}

	w.status = StatusDead
	w.record(ctx, newEvent(EventClaimFinalized, caller, w.status, now))
	return nil
}

// VetoClaim cancels a pending claim. Any heir or the owner may veto.
func (w *Wallet) VetoClaim(ctx context.Context, caller Identity) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if caller != w.owner && !w.heirs.contains(caller) {
		return w.reject("veto_claim", caller, ErrNotOwnerOrHeir)
	}
	if err := w.requireClaimed(); err != nil {
		return w.reject("veto_claim", caller, err)
	}

	w.status = StatusAlive
	w.record(ctx, newEvent(EventClaimVetoed, caller, w.status, w.clock.Now()))
	return nil
}

func (w *Wallet) requireClaimed() error {
	switch w.status {
	case StatusAlive:
		return ErrNotClaimed
	case StatusDead:
		return ErrAlreadyFinalized
	default:
		return nil
	}
}

func (w *Wallet) reject(op string, caller Identity, err error) error {
	log.Debug().
		Str("op", op).
		Str("caller", caller.Hex()).
		Str("status", w.status.String()).
		Err(err).
		Msg("custody operation rejected")
	return err
}

func (w *Wallet) record(ctx context.Context, ev Event) {
	log.Info().
		Str("event", string(ev.Kind)).
		Str("caller", ev.Caller.Hex()).
		Str("status", ev.Status.String()).
		Msg("custody event")
	if w.sink == nil {
		return
	}
	if err := w.sink.Record(ctx, ev); err != nil {
		log.Warn().
			Str("event", string(ev.Kind)).
			Str("event_id", ev.ID.String()).
			Err(err).
			Msg("custody event sink failed")
	}
}

func cloneCall(in Call) Call {
	out := Call{Destination: in.Destination, Value: new(big.Int)}
	if in.Value != nil {
		out.Value.Set(in.Value)
	}
	if len(in.Payload) > 0 {
		out.Payload = append([]byte(nil), in.Payload...)
	}
	return out
}
