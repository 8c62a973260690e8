// Package vault provides an in-memory asset host for the custody engine.
//
// Memory keeps per-asset balances for every holder and acts on behalf of one
// wallet account: Balance, Transfer, and Call all operate on that account.
package vault

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/danmuck/deadswitch/internal/custody"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrInsufficientFunds = errors.New("vault: insufficient funds")
	ErrNegativeAmount    = errors.New("vault: negative amount")
	ErrNoHandler         = errors.New("vault: payload sent to destination without handler")
)

// Handler executes a payload-carrying call at a destination. Returning an
// error aborts the call with no value moved.
type Handler func(ctx context.Context, from common.Address, value *big.Int, payload []byte) ([]byte, error)

// Memory is a mutex-guarded in-memory ledger of holdings.
type Memory struct {
	mu       sync.Mutex
	account  common.Address
	balances map[custody.AssetID]map[common.Address]*big.Int
	handlers map[common.Address]Handler
	failures map[custody.AssetID]error
	callFail error
}

var _ custody.Vault = (*Memory)(nil)

// NewMemory creates an empty vault operating for account.
func NewMemory(account common.Address) *Memory {
	return &Memory{
		account:  account,
		balances: make(map[custody.AssetID]map[common.Address]*big.Int),
		handlers: make(map[common.Address]Handler),
		failures: make(map[custody.AssetID]error),
	}
}

// Account returns the wallet account this vault acts for.
func (m *Memory) Account() common.Address {
	return m.account
}

// Deposit credits holder with amount of asset.
func (m *Memory) Deposit(asset custody.AssetID, holder common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credit(asset, holder, amount)
	return nil
}

// BalanceOf returns holder's balance of asset.
func (m *Memory) BalanceOf(asset custody.AssetID, holder common.Address) *big.Int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return new(big.Int).Set(m.balanceLocked(asset, holder))
}

// Handle installs h for calls to dest. A nil h removes the handler.
func (m *Memory) Handle(dest common.Address, h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h == nil {
		delete(m.handlers, dest)
		return
	}
	m.handlers[dest] = h
}

// FailTransfers makes every Transfer of asset fail with err until cleared with
// a nil err.
func (m *Memory) FailTransfers(asset custody.AssetID, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, asset)
		return
	}
	m.failures[asset] = err
}

// FailCalls makes every Call fail with err until cleared with a nil err.
func (m *Memory) FailCalls(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callFail = err
}

func (m *Memory) Balance(ctx context.Context, asset custody.AssetID) (*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.BalanceOf(asset, m.account), nil
}

func (m *Memory) Transfer(ctx context.Context, asset custody.AssetID, to common.Address, amount *big.Int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if amount == nil || amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures[asset]; err != nil {
		return err
	}
	return m.move(asset, m.account, to, amount)
}

// Call moves Value of the native asset to Destination after running the
// destination handler, if any. A payload to a destination without a handler
// is rejected.
func (m *Memory) Call(ctx context.Context, call custody.Call) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	value := new(big.Int)
	if call.Value != nil {
		value.Set(call.Value)
	}
	if value.Sign() < 0 {
		return nil, ErrNegativeAmount
	}

	m.mu.Lock()
	if m.callFail != nil {
		err := m.callFail
		m.mu.Unlock()
		return nil, err
	}
	if m.balanceLocked(custody.NativeAsset, m.account).Cmp(value) < 0 {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: call value %s", ErrInsufficientFunds, value)
	}
	h := m.handlers[call.Destination]
	m.mu.Unlock()

	var out []byte
	if h != nil {
		var err error
		out, err = h(ctx, m.account, new(big.Int).Set(value), call.Payload)
		if err != nil {
			return nil, err
		}
	} else if len(call.Payload) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoHandler, call.Destination.Hex())
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.move(custody.NativeAsset, m.account, call.Destination, value); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Memory) move(asset custody.AssetID, from, to common.Address, amount *big.Int) error {
	bal := m.balanceLocked(asset, from)
	if bal.Cmp(amount) < 0 {
		return fmt.Errorf("%w: asset=%s have=%s want=%s", ErrInsufficientFunds, asset.Hex(), bal, amount)
	}
	m.holders(asset)[from] = new(big.Int).Sub(bal, amount)
	m.credit(asset, to, amount)
	return nil
}

func (m *Memory) credit(asset custody.AssetID, holder common.Address, amount *big.Int) {
	bal := m.balanceLocked(asset, holder)
	m.holders(asset)[holder] = new(big.Int).Add(bal, amount)
}

func (m *Memory) holders(asset custody.AssetID) map[common.Address]*big.Int {
	hs, ok := m.balances[asset]
	if !ok {
		hs = make(map[common.Address]*big.Int)
		m.balances[asset] = hs
	}
	return hs
}

func (m *Memory) balanceLocked(asset custody.AssetID, holder common.Address) *big.Int {
	if bal, ok := m.balances[asset][holder]; ok {
		return bal
	}
	return new(big.Int)
}
