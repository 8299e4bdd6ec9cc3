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
	"errors"
	"os"
	"testing"

	"github.com/ipfs/go-datastore"
	"github.com/stretchr/testify/assert"
)

const (
	testDS = "./test-ds"
)

func TestMain(m *testing.M) {
	os.RemoveAll(testDS)
	os.Mkdir(testDS, os.ModePerm)
	defer os.RemoveAll(testDS)
	m.Run()
}

func TestNewLedgerStoreImpl(t *testing.T) {
	ctx := context.Background()

	_, err := NewLedgerStoreImpl(ctx, "")
	assert.NotNil(t, err)

	ls, err := NewLedgerStoreImpl(ctx, testDS)
	assert.Nil(t, err)
	defer ls.Shutdown(ctx)
}

func TestTransaction(t *testing.T) {
	ctx := context.Background()

	ls, err := NewLedgerStoreImpl(ctx, testDS)
	assert.Nil(t, err)
	defer ls.Shutdown(ctx)

	txn, err := ls.NewTransaction(ctx, false)
	assert.Nil(t, err)
	defer txn.Discard(context.Background())

	err = txn.Put(ctx, []byte{1}, "txn", "key1")
	assert.Nil(t, err)

	err = txn.Put(ctx, []byte{2}, "txn", "key/2")
	assert.NotNil(t, err)

	err = txn.Put(ctx, []byte{2}, "txn", 2)
	assert.Nil(t, err)

	err = txn.Commit(ctx)
	assert.Nil(t, err)

	txn, err = ls.NewTransaction(ctx, true)
	assert.Nil(t, err)
	defer txn.Discard(context.Background())

	val, err := txn.Get(ctx, "txn", "key1")
	assert.Nil(t, err)
	assert.Equal(t, []byte{1}, val)

	val, err = txn.Get(ctx, "txn", "2")
	assert.Nil(t, err)
	assert.Equal(t, []byte{2}, val)

	_, err = txn.Get(ctx, "txn", "key3")
	assert.True(t, errors.Is(err, datastore.ErrNotFound))

	exists, err := txn.Has(ctx, "txn", "key3")
	assert.Nil(t, err)
	assert.False(t, exists)

	_, err = txn.Get(ctx)
	assert.NotNil(t, err)
}

func TestDiscardedTransaction(t *testing.T) {
	ctx := context.Background()

	ls, err := NewLedgerStoreImpl(ctx, testDS)
	assert.Nil(t, err)
	defer ls.Shutdown(ctx)

	txn, err := ls.NewTransaction(ctx, false)
	assert.Nil(t, err)

	err = txn.Put(ctx, []byte{1}, "discard", "key1")
	assert.Nil(t, err)
	txn.Discard(ctx)

	txn, err = ls.NewTransaction(ctx, true)
	assert.Nil(t, err)
	defer txn.Discard(context.Background())

	exists, err := txn.Has(ctx, "discard", "key1")
	assert.Nil(t, err)
	assert.False(t, exists)
}
