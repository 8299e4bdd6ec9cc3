package ledgerstore

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

	"github.com/ipfs/go-datastore"
	badgerds "github.com/ipfs/go-ds-badger"
)

// LedgerStoreImpl is the implementation of the LedgerStore interface.
type LedgerStoreImpl struct {
	// datastore
	ds *badgerds.Datastore
}

// TransactionImpl is the implementation of the Transaction interface.
type TransactionImpl struct {
	// datastore transaction
	txn datastore.Txn
}

// NewLedgerStoreImpl creates a new LedgerStore.
//
// @input - context, path.
//
// @output - store, error.
func NewLedgerStoreImpl(ctx context.Context, path string) (*LedgerStoreImpl, error) {
	dsopts := badgerds.DefaultOptions
	dsopts.SyncWrites = false
	dsopts.Truncate = true
	if path == "" {
		return nil, fmt.Errorf("empty path provided")
	}
	ds, err := badgerds.NewDatastore(path, &dsopts)
	if err != nil {
		log.Errorf("Fail to open datastore at %v: %v", path, err.Error())
		return nil, err
	}
	log.Infof("Ledger opened at %v", path)
	return &LedgerStoreImpl{ds: ds}, nil
}

// Shutdown safely shuts down the store.
//
// @input - context.
//
// @output - error.
func (s *LedgerStoreImpl) Shutdown(ctx context.Context) error {
	log.Infof("Close ledger...")
	return s.ds.Close()
}

// NewTransaction creates a new transaction.
//
// @input - context, boolean indicating if only read operations will be accessed.
//
// @output - transaction, error.
func (s *LedgerStoreImpl) NewTransaction(ctx context.Context, readOnly bool) (Transaction, error) {
	txn, err := s.ds.NewTransaction(ctx, readOnly)
	if err != nil {
		log.Warnf("Fail to start transaction: %v", err.Error())
		return nil, err
	}
	return &TransactionImpl{txn: txn}, nil
}

// Get gets the value for a given path.
//
// @input - context, path.
//
// @output - data, error.
func (t *TransactionImpl) Get(ctx context.Context, path ...interface{}) ([]byte, error) {
	key, err := getDSKey(path...)
	if err != nil {
		return nil, err
	}
	return t.txn.Get(ctx, key)
}

// Has checks if given path exists.
//
// @input - context, path.
//
// @output - boolean indicating if given path exists, error.
func (t *TransactionImpl) Has(ctx context.Context, path ...interface{}) (bool, error) {
	key, err := getDSKey(path...)
	if err != nil {
		return false, err
	}
	return t.txn.Has(ctx, key)
}

// Put puts the value for a given path.
//
// @input - context, value, path.
//
// @output - error.
func (t *TransactionImpl) Put(ctx context.Context, value []byte, path ...interface{}) error {
	key, err := getDSKey(path...)
	if err != nil {
		return err
	}
	return t.txn.Put(ctx, key, value)
}

// Delete deletes a given path.
//
// @input - context, path.
//
// @output - error.
func (t *TransactionImpl) Delete(ctx context.Context, path ...interface{}) error {
	key, err := getDSKey(path...)
	if err != nil {
		return err
	}
	return t.txn.Delete(ctx, key)
}

// Commit commits a transaction. Push all changes to the datastore.
//
// @input - context.
//
// @output - error.
func (t *TransactionImpl) Commit(ctx context.Context) error {
	return t.txn.Commit(ctx)
}

// Discard discards a transaction.
//
// @input - context.
func (t *TransactionImpl) Discard(ctx context.Context) {
	t.txn.Discard(ctx)
}
