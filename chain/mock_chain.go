package chain

/*
 * Dual-licensed under Apache-2.0 and MIT.
 *
 * You can get a copy of the Apache License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * You can also get a copy of the MIT License at
 *
 * http://opensource.org/licenses/MIT
 *
 * @wcgcyx - https://github.com/wcgcyx
 */

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/filecoin-project/go-jsonrpc"
)

// ReceiveHook is invoked after an account is credited by a payout.
// A non-nil error reverts the whole payout batch.
type ReceiveHook func(ctx context.Context, amt *big.Int) error

// MockChain is a mocked chain holding ERC-721 collections and native currency balances.
// It assumes a single driver: a reverted payout restores the whole chain state.
type MockChain struct {
	Server *httptest.Server

	Lock sync.RWMutex

	// collection -> token id -> owner
	owners map[common.Address]map[string]common.Address

	// collection -> token id -> approved
	approved map[common.Address]map[string]common.Address

	// collection -> owner -> operator -> approved
	operators map[common.Address]map[common.Address]map[common.Address]bool

	// native currency
	balances map[common.Address]*big.Int
	escrow   *big.Int

	hooks map[common.Address]ReceiveHook
}

// mockState is a snapshot of the mocked chain.
type mockState struct {
	owners    map[common.Address]map[string]common.Address
	approved  map[common.Address]map[string]common.Address
	operators map[common.Address]map[common.Address]map[common.Address]bool
	balances  map[common.Address]*big.Int
	escrow    *big.Int
}

// NewMockChain creates a new mocked chain.
//
// @output - mocked chain.
func NewMockChain() *MockChain {
	return &MockChain{
		Lock:      sync.RWMutex{},
		owners:    make(map[common.Address]map[string]common.Address),
		approved:  make(map[common.Address]map[string]common.Address),
		operators: make(map[common.Address]map[common.Address]map[common.Address]bool),
		balances:  make(map[common.Address]*big.Int),
		escrow:    big.NewInt(0),
		hooks:     make(map[common.Address]ReceiveHook),
	}
}

// Handler gets the json rpc handler of the mocked chain.
//
// @output - http handler.
func (m *MockChain) Handler() http.Handler {
	server := jsonrpc.NewServer()
	server.Register(RPCNamespace, &mockHandler{m: m})
	return server
}

// StartServer serves the mocked chain over json rpc.
func (m *MockChain) StartServer() {
	m.Server = httptest.NewServer(m.Handler())
}

// GetAPI gets the API address.
//
// @output - api address.
func (m *MockChain) GetAPI() string {
	return "http://" + m.Server.Listener.Addr().String()
}

// Shutdown shuts down the mocked chain server.
func (m *MockChain) Shutdown() {
	if m.Server != nil {
		m.Server.Close()
	}
}

// OnReceive sets the hook invoked when an address receives a payout. Nil removes it.
//
// @input - address, hook.
func (m *MockChain) OnReceive(addr common.Address, hook ReceiveHook) {
	m.Lock.Lock()
	defer m.Lock.Unlock()
	if hook == nil {
		delete(m.hooks, addr)
		return
	}
	m.hooks[addr] = hook
}

// Mint mints a token to an account.
//
// @input - context, collection, to, token id.
//
// @output - error.
func (m *MockChain) Mint(ctx context.Context, collection common.Address, to common.Address, tokenID *big.Int) error {
	if tokenID == nil {
		return fmt.Errorf("nil token id")
	}
	if to == (common.Address{}) {
		return fmt.Errorf("ERC721: mint to the zero address")
	}
	m.Lock.Lock()
	defer m.Lock.Unlock()
	owners, ok := m.owners[collection]
	if !ok {
		owners = make(map[string]common.Address)
		m.owners[collection] = owners
	}
	if _, ok := owners[tokenID.String()]; ok {
		return ErrTokenMinted
	}
	owners[tokenID.String()] = to
	return nil
}

// Approve approves an address to transfer a token.
//
// @input - context, collection, caller, approved address, token id.
//
// @output - error.
func (m *MockChain) Approve(ctx context.Context, collection common.Address, caller common.Address, to common.Address, tokenID *big.Int) error {
	if tokenID == nil {
		return fmt.Errorf("nil token id")
	}
	m.Lock.Lock()
	defer m.Lock.Unlock()
	owner, ok := m.owners[collection][tokenID.String()]
	if !ok {
		return ErrNonexistentToken
	}
	if caller != owner && !m.operators[collection][owner][caller] {
		return ErrApproveUnauthorized
	}
	approved, ok := m.approved[collection]
	if !ok {
		approved = make(map[string]common.Address)
		m.approved[collection] = approved
	}
	approved[tokenID.String()] = to
	return nil
}

// SetApprovalForAll sets or unsets an operator for all tokens of the caller.
//
// @input - context, collection, caller, operator, approved.
//
// @output - error.
func (m *MockChain) SetApprovalForAll(ctx context.Context, collection common.Address, caller common.Address, operator common.Address, approved bool) error {
	if caller == operator {
		return fmt.Errorf("ERC721: approve to caller")
	}
	m.Lock.Lock()
	defer m.Lock.Unlock()
	owners, ok := m.operators[collection]
	if !ok {
		owners = make(map[common.Address]map[common.Address]bool)
		m.operators[collection] = owners
	}
	ops, ok := owners[caller]
	if !ok {
		ops = make(map[common.Address]bool)
		owners[caller] = ops
	}
	if approved {
		ops[operator] = true
	} else {
		delete(ops, operator)
	}
	return nil
}

// OwnerOf gets the owner of a token.
//
// @input - context, collection, token id.
//
// @output - owner, error.
func (m *MockChain) OwnerOf(ctx context.Context, collection common.Address, tokenID *big.Int) (common.Address, error) {
	if tokenID == nil {
		return common.Address{}, fmt.Errorf("nil token id")
	}
	m.Lock.RLock()
	defer m.Lock.RUnlock()
	owner, ok := m.owners[collection][tokenID.String()]
	if !ok {
		return common.Address{}, fmt.Errorf("ERC721: owner query for nonexistent token")
	}
	return owner, nil
}

// TransferFrom transfers a token on behalf of the operator.
//
// @input - context, collection, operator, from, to, token id.
//
// @output - error.
func (m *MockChain) TransferFrom(ctx context.Context, collection common.Address, operator common.Address, from common.Address, to common.Address, tokenID *big.Int) error {
	if tokenID == nil {
		return fmt.Errorf("nil token id")
	}
	m.Lock.Lock()
	defer m.Lock.Unlock()
	owner, ok := m.owners[collection][tokenID.String()]
	if !ok {
		return ErrNonexistentToken
	}
	if operator != owner && m.approved[collection][tokenID.String()] != operator && !m.operators[collection][owner][operator] {
		return ErrTransferUnauthorized
	}
	if owner != from {
		return ErrIncorrectOwner
	}
	if to == (common.Address{}) {
		return ErrTransferToZero
	}
	// Clear approval and move.
	delete(m.approved[collection], tokenID.String())
	m.owners[collection][tokenID.String()] = to
	return nil
}

// Fund credits an account out of thin air.
//
// @input - context, address, amount.
//
// @output - error.
func (m *MockChain) Fund(ctx context.Context, addr common.Address, amt *big.Int) error {
	if amt == nil || amt.Sign() < 0 {
		return fmt.Errorf("invalid amount %v", amt)
	}
	m.Lock.Lock()
	defer m.Lock.Unlock()
	m.credit(addr, amt)
	return nil
}

// Deposit moves funds from an account into escrow.
//
// @input - context, from, amount.
//
// @output - error.
func (m *MockChain) Deposit(ctx context.Context, from common.Address, amt *big.Int) error {
	if amt == nil || amt.Sign() < 0 {
		return fmt.Errorf("invalid amount %v", amt)
	}
	m.Lock.Lock()
	defer m.Lock.Unlock()
	bal, ok := m.balances[from]
	if !ok || bal.Cmp(amt) < 0 {
		return fmt.Errorf("%w: %v has %v, need %v", ErrInsufficientBalance, from.Hex(), bal, amt)
	}
	bal.Sub(bal, amt)
	m.escrow.Add(m.escrow, amt)
	return nil
}

// Pay pays out of escrow in order. A recipient hook sees every earlier payment already made.
// If any payment fails, the chain is restored to its state before the call.
//
// @input - context, payments.
//
// @output - error.
func (m *MockChain) Pay(ctx context.Context, payments []Payment) error {
	total := big.NewInt(0)
	for _, p := range payments {
		if p.Amount == nil || p.Amount.Sign() < 0 {
			return fmt.Errorf("invalid amount %v to %v", p.Amount, p.To.Hex())
		}
		total.Add(total, p.Amount)
	}
	m.Lock.Lock()
	if m.escrow.Cmp(total) < 0 {
		m.Lock.Unlock()
		return fmt.Errorf("%w: have %v, need %v", ErrInsufficientEscrow, m.escrow, total)
	}
	snap := m.snapshot()
	m.Lock.Unlock()

	for _, p := range payments {
		m.Lock.Lock()
		if m.escrow.Cmp(p.Amount) < 0 {
			// A reentrant call drained the escrow.
			m.restore(snap)
			m.Lock.Unlock()
			return fmt.Errorf("%w: have %v, need %v", ErrInsufficientEscrow, m.escrow, p.Amount)
		}
		m.escrow.Sub(m.escrow, p.Amount)
		m.credit(p.To, p.Amount)
		hook := m.hooks[p.To]
		m.Lock.Unlock()

		if hook == nil {
			continue
		}
		if err := hook(ctx, big.NewInt(0).Set(p.Amount)); err != nil {
			log.Debugf("Payment to %v reverted: %v", p.To.Hex(), err.Error())
			m.Lock.Lock()
			m.restore(snap)
			m.Lock.Unlock()
			return fmt.Errorf("payment to %v reverted: %w", p.To.Hex(), err)
		}
	}
	return nil
}

// Atomically runs fn and restores the chain state if fn fails.
//
// @input - context, function.
//
// @output - error.
func (m *MockChain) Atomically(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Lock.Lock()
	snap := m.snapshot()
	m.Lock.Unlock()
	err := fn(ctx)
	if err != nil {
		m.Lock.Lock()
		m.restore(snap)
		m.Lock.Unlock()
		return err
	}
	return nil
}

// Settle transfers a token and pays out of escrow, restoring the chain state if either fails.
//
// @input - context, collection, operator, from, to, token id, payments.
//
// @output - error.
func (m *MockChain) Settle(ctx context.Context, collection common.Address, operator common.Address, from common.Address, to common.Address, tokenID *big.Int, payments []Payment) error {
	return m.Atomically(ctx, func(ctx context.Context) error {
		err := m.TransferFrom(ctx, collection, operator, from, to, tokenID)
		if err != nil {
			return err
		}
		return m.Pay(ctx, payments)
	})
}

// Balance gets the balance of an account.
//
// @input - context, address.
//
// @output - balance, error.
func (m *MockChain) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	m.Lock.RLock()
	defer m.Lock.RUnlock()
	bal, ok := m.balances[addr]
	if !ok {
		return big.NewInt(0), nil
	}
	return big.NewInt(0).Set(bal), nil
}

// EscrowBalance gets the funds held in escrow.
//
// @input - context.
//
// @output - escrow balance, error.
func (m *MockChain) EscrowBalance(ctx context.Context) (*big.Int, error) {
	m.Lock.RLock()
	defer m.Lock.RUnlock()
	return big.NewInt(0).Set(m.escrow), nil
}

// credit credits an account, lock must be held.
func (m *MockChain) credit(addr common.Address, amt *big.Int) {
	bal, ok := m.balances[addr]
	if !ok {
		bal = big.NewInt(0)
		m.balances[addr] = bal
	}
	bal.Add(bal, amt)
}

// snapshot copies the chain state, lock must be held.
func (m *MockChain) snapshot() mockState {
	snap := mockState{
		owners:    make(map[common.Address]map[string]common.Address),
		approved:  make(map[common.Address]map[string]common.Address),
		operators: make(map[common.Address]map[common.Address]map[common.Address]bool),
		balances:  make(map[common.Address]*big.Int),
		escrow:    big.NewInt(0).Set(m.escrow),
	}
	for c, tokens := range m.owners {
		snap.owners[c] = make(map[string]common.Address)
		for id, owner := range tokens {
			snap.owners[c][id] = owner
		}
	}
	for c, tokens := range m.approved {
		snap.approved[c] = make(map[string]common.Address)
		for id, approved := range tokens {
			snap.approved[c][id] = approved
		}
	}
	for c, owners := range m.operators {
		snap.operators[c] = make(map[common.Address]map[common.Address]bool)
		for owner, ops := range owners {
			snap.operators[c][owner] = make(map[common.Address]bool)
			for op, ok := range ops {
				snap.operators[c][owner][op] = ok
			}
		}
	}
	for addr, bal := range m.balances {
		snap.balances[addr] = big.NewInt(0).Set(bal)
	}
	return snap
}

// restore restores the chain state, lock must be held.
func (m *MockChain) restore(snap mockState) {
	m.owners = snap.owners
	m.approved = snap.approved
	m.operators = snap.operators
	m.balances = snap.balances
	m.escrow = snap.escrow
}
