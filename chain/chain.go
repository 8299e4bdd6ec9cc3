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
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	logging "github.com/ipfs/go-log"
)

// Logger
var log = logging.Logger("chain")

var (
	// ERC-721 errors, as raised by the collections.
	ErrTransferUnauthorized = errors.New("ERC721: transfer caller is not owner nor approved")
	ErrIncorrectOwner       = errors.New("ERC721: transfer from incorrect owner")
	ErrNonexistentToken     = errors.New("ERC721: operator query for nonexistent token")
	ErrTransferToZero       = errors.New("ERC721: transfer to the zero address")
	ErrApproveUnauthorized  = errors.New("ERC721: approve caller is not owner nor approved for all")
	ErrTokenMinted          = errors.New("ERC721: token already minted")

	// Native currency errors.
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInsufficientEscrow  = errors.New("insufficient escrow balance")
)

// Payment is a native currency payout.
type Payment struct {
	To     common.Address
	Amount *big.Int
}

// Collection is the interface to the ERC-721 collections.
type Collection interface {
	// OwnerOf gets the owner of a token.
	//
	// @input - context, collection, token id.
	//
	// @output - owner, error.
	OwnerOf(ctx context.Context, collection common.Address, tokenID *big.Int) (common.Address, error)

	// TransferFrom transfers a token on behalf of the operator.
	// The operator must be the owner, the approved address of the token or an operator of the owner.
	//
	// @input - context, collection, operator, from, to, token id.
	//
	// @output - error.
	TransferFrom(ctx context.Context, collection common.Address, operator common.Address, from common.Address, to common.Address, tokenID *big.Int) error
}

// Wallet is the interface to the native currency held in escrow by the market.
type Wallet interface {
	// Deposit moves funds from an account into escrow.
	//
	// @input - context, from, amount.
	//
	// @output - error.
	Deposit(ctx context.Context, from common.Address, amt *big.Int) error

	// Pay pays out of escrow. Either every payment succeeds or none does.
	//
	// @input - context, payments.
	//
	// @output - error.
	Pay(ctx context.Context, payments []Payment) error

	// Balance gets the balance of an account.
	//
	// @input - context, address.
	//
	// @output - balance, error.
	Balance(ctx context.Context, addr common.Address) (*big.Int, error)

	// EscrowBalance gets the funds held in escrow.
	//
	// @input - context.
	//
	// @output - escrow balance, error.
	EscrowBalance(ctx context.Context) (*big.Int, error)
}

// Chain is both a collection registry and a wallet.
type Chain interface {
	Collection
	Wallet
}

// Atomic is implemented by chains that can revert a group of calls as one transaction.
type Atomic interface {
	// Atomically runs fn. Every chain effect of fn is reverted if fn fails.
	//
	// @input - context, function.
	//
	// @output - error.
	Atomically(ctx context.Context, fn func(ctx context.Context) error) error
}

// Settler is implemented by chains that settle a sale in a single transaction.
type Settler interface {
	// Settle transfers a token on behalf of the operator and then pays out of escrow.
	// Either the transfer and every payment succeed or nothing changes.
	//
	// @input - context, collection, operator, from, to, token id, payments.
	//
	// @output - error.
	Settle(ctx context.Context, collection common.Address, operator common.Address, from common.Address, to common.Address, tokenID *big.Int, payments []Payment) error
}
