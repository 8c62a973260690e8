package custody

import (
	"errors"
	"fmt"
)

// Kind classifies engine failures.
type Kind string

const (
	KindAuthorization Kind = "authorization"
	KindStateMachine  Kind = "state_machine"
	KindTiming        Kind = "timing"
	KindRegistry      Kind = "registry"
	KindLedger        Kind = "ledger"
	KindTransfer      Kind = "transfer"
)

// Error is a categorical engine failure. Matching with errors.Is works against
// both the kind sentinels (ErrTiming) and the specific sentinels
// (ErrClaimTooRecent).
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("custody: %s: %v", e.Msg, e.Err)
	}
	return "custody: " + e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Msg == "" || t.Msg == e.Msg
}

func kindSentinel(kind Kind) *Error {
	return &Error{Kind: kind}
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Kind sentinels.
var (
	ErrAuthorization = kindSentinel(KindAuthorization)
	ErrStateMachine  = kindSentinel(KindStateMachine)
	ErrTiming        = kindSentinel(KindTiming)
	ErrRegistry      = kindSentinel(KindRegistry)
	ErrLedger        = kindSentinel(KindLedger)
	ErrTransfer      = newError(KindTransfer, "transfer failed")
)

var (
	ErrNotOwner       = newError(KindAuthorization, "caller is not owner")
	ErrNotHeir        = newError(KindAuthorization, "caller is not heir")
	ErrNotOwnerOrHeir = newError(KindAuthorization, "caller is not owner or heir")

	ErrNotAlive         = newError(KindStateMachine, "wallet is not alive")
	ErrNotClaimed       = newError(KindStateMachine, "claim has not yet been initialized")
	ErrAlreadyFinalized = newError(KindStateMachine, "claim has already been finalized")
	ErrNotDead          = newError(KindStateMachine, "wallet is not dead")
	ErrWalletDead       = newError(KindStateMachine, "wallet is dead")

	ErrOwnerTooRecent = newError(KindTiming, "owner has been active too recently")
	ErrClaimTooRecent = newError(KindTiming, "claim has been initialized too recently")

	ErrAlreadyHeir = newError(KindRegistry, "already an heir")
	ErrNotAnHeir   = newError(KindRegistry, "not an heir")

	ErrAlreadyWithdrewNative = newError(KindLedger, "already withdrew native currency")
	ErrAlreadyWithdrewToken  = newError(KindLedger, "already withdrew token")
)

func transferError(err error) error {
	return &Error{Kind: KindTransfer, Msg: ErrTransfer.Msg, Err: err}
}

// KindOf reports the engine kind of err, or "" if err is not an engine error.
func KindOf(err error) Kind {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind
	}
	return ""
}
