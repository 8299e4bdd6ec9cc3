package market

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

	"github.com/ethereum/go-ethereum/common"
	"github.com/wcgcyx/floormkt/chain"
	"github.com/wcgcyx/floormkt/ledgerstore"
	"github.com/wcgcyx/floormkt/offerbook"
)

// frameKey marks the contexts handed out by a market while an operation is running.
type frameKey struct {
	m *MarketImpl
}

// frame is a running operation.
type frame struct {
	// view with the changes made so far.
	view ledgerstore.View
}

// currentFrame gets the running operation the context belongs to, if any.
func (m *MarketImpl) currentFrame(ctx context.Context) (*frame, bool) {
	f, ok := ctx.Value(frameKey{m: m}).(*frame)
	return f, ok
}

// mutate runs fn as a new operation.
// The outermost operation holds the write lock and owns the ledger transaction. A nested
// operation stages its changes over the view of the operation it was called from.
// fn's changes are kept only if fn succeeds.
func (m *MarketImpl) mutate(ctx context.Context, fn func(ctx context.Context, view ledgerstore.View) error) error {
	if parent, ok := m.currentFrame(ctx); ok {
		log.Debugf("Enter nested operation")
		sb := ledgerstore.NewSandbox(parent.view)
		err := m.atomically(context.WithValue(ctx, frameKey{m: m}, &frame{view: sb}), sb, fn)
		if err != nil {
			sb.Discard()
			return err
		}
		return sb.Apply(ctx)
	}

	if !m.lock.TryLockWithContext(ctx) {
		log.Debugf("Fail to obtain write lock over market")
		return fmt.Errorf("fail to obtain write lock over market")
	}
	defer m.lock.Unlock()

	txn, err := m.ls.NewTransaction(ctx, false)
	if err != nil {
		log.Warnf("Fail to start new transaction: %v", err.Error())
		return err
	}
	defer txn.Discard(context.Background())

	sb := ledgerstore.NewSandbox(txn)
	err = m.atomically(context.WithValue(ctx, frameKey{m: m}, &frame{view: sb}), sb, fn)
	if err != nil {
		sb.Discard()
		return err
	}
	err = sb.Apply(ctx)
	if err != nil {
		log.Errorf("Fail to apply changes after external calls succeeded: %v", err.Error())
		return err
	}
	err = txn.Commit(ctx)
	if err != nil {
		log.Errorf("Fail to commit transaction after external calls succeeded: %v", err.Error())
		return err
	}
	return nil
}

// atomically runs fn so that its chain effects are reverted together when the chain supports it.
func (m *MarketImpl) atomically(ctx context.Context, view ledgerstore.View, fn func(ctx context.Context, view ledgerstore.View) error) error {
	a, ok := m.wallet.(chain.Atomic)
	if !ok {
		return fn(ctx, view)
	}
	return a.Atomically(ctx, func(ctx context.Context) error {
		return fn(ctx, view)
	})
}

// settle moves the token from the taker to the maker and then pays out, as one chain transaction.
func (m *MarketImpl) settle(ctx context.Context, offer offerbook.Offer, taker common.Address, tokenID *big.Int, payments []chain.Payment) error {
	if _, ok := m.wallet.(chain.Atomic); ok {
		// Already running inside Atomically.
		err := m.collection.TransferFrom(ctx, offer.Collection, m.address, taker, offer.Maker, tokenID)
		if err != nil {
			return err
		}
		return m.wallet.Pay(ctx, payments)
	}
	if s, ok := m.wallet.(chain.Settler); ok {
		return s.Settle(ctx, offer.Collection, m.address, taker, offer.Maker, tokenID, payments)
	}
	return ErrNonAtomicChain
}

// read runs fn against the current ledger state.
// Inside a running operation it sees the changes staged so far.
func (m *MarketImpl) read(ctx context.Context, fn func(view ledgerstore.Read) error) error {
	if parent, ok := m.currentFrame(ctx); ok {
		return fn(parent.view)
	}

	if !m.lock.RTryLockWithContext(ctx) {
		log.Debugf("Fail to obtain read lock over market")
		return fmt.Errorf("fail to obtain read lock over market")
	}
	defer m.lock.RUnlock()

	txn, err := m.ls.NewTransaction(ctx, true)
	if err != nil {
		log.Warnf("Fail to start new transaction: %v", err.Error())
		return err
	}
	defer txn.Discard(context.Background())
	return fn(txn)
}
