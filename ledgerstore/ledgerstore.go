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

	logging "github.com/ipfs/go-log"
)

// Logger
var log = logging.Logger("ledgerstore")

const (
	DatastoreKeySeperator = "/"
)

// LedgerStore is the interface for the transactional datastore backing the offer ledger.
// Every operation needs to be done via transaction.
type LedgerStore interface {
	// NewTransaction creates a new transaction.
	//
	// @input - context, boolean indicating if only read operations will be accessed.
	//
	// @output - transaction, error.
	NewTransaction(ctx context.Context, readOnly bool) (Transaction, error)

	// Shutdown safely shuts down the store.
	//
	// @input - context.
	//
	// @output - error.
	Shutdown(ctx context.Context) error
}

// View is a readable and writable state of the ledger.
// It is either a transaction or a sandbox staged on top of another view.
type View interface {
	Read
	Write
}

// Transaction is used to batch queries and mutations to a datastore into atomic groups.
type Transaction interface {
	View

	// Commit commits a transaction. Push all changes to the datastore.
	//
	// @input - context.
	//
	// @output - error.
	Commit(ctx context.Context) error

	// Discard discards a transaction.
	//
	// @input - context.
	Discard(ctx context.Context)
}

// Read is the interface to query datastore.
type Read interface {
	// Get gets the value for a given path.
	//
	// @input - context, path.
	//
	// @output - value, error.
	Get(ctx context.Context, path ...interface{}) ([]byte, error)

	// Has checks if given path exists.
	//
	// @input - context, path.
	//
	// @output - boolean indicating if given path exists, error.
	Has(ctx context.Context, path ...interface{}) (bool, error)
}

// Write is the interface to mutate datastore.
type Write interface {
	// Put puts the value for a given path.
	//
	// @input - context, value, path.
	//
	// @output - error.
	Put(ctx context.Context, value []byte, path ...interface{}) error

	// Delete deletes a given path.
	//
	// @input - context, path.
	//
	// @output - error.
	Delete(ctx context.Context, path ...interface{}) error
}
