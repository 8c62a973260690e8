// Package custody owns the dead-man's-switch wallet aggregate.
//
// Ownership boundary:
// - wallet status (alive -> death_claimed -> dead, with veto back to alive)
//
// - heir registry
//
// - per-asset distribution ledger
//
// Every exported Wallet operation is one atomic step over the whole aggregate.
// A failed operation leaves state unchanged.
//
// Time-gated transitions are evaluated lazily when the next relevant call
// arrives. The wallet never schedules work of its own.
//
// Custody does not own asset movement, time, or caller authentication; those
// are supplied by the host through Clock, Vault, and the explicit caller
// argument of every operation.
package custody
