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
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	logging "github.com/ipfs/go-log"
	"github.com/wcgcyx/floormkt/admin"
	"github.com/wcgcyx/floormkt/chain"
	"github.com/wcgcyx/floormkt/history"
	"github.com/wcgcyx/floormkt/offerbook"
	"github.com/wcgcyx/floormkt/royalty"
	"github.com/wcgcyx/floormkt/settlement"
)

// Logger
var log = logging.Logger("market")

var (
	ErrOfferNotFound        = offerbook.ErrOfferNotFound
	ErrBelowMinimum         = offerbook.ErrBelowMinimum
	ErrNotAuthorized        = admin.ErrNotAuthorized
	ErrInvalidAddress       = admin.ErrInvalidAddress
	ErrRoyaltyExceedsValue  = settlement.ErrRoyaltyExceedsValue
	ErrTransferUnauthorized = chain.ErrTransferUnauthorized

	// ErrNotOwner is returned when someone other than the maker withdraws an offer.
	ErrNotOwner = errors.New("sender does not own offer")

	// ErrNonAtomicChain is returned when taking an offer over a chain that cannot settle atomically.
	ErrNonAtomicChain = errors.New("chain cannot settle a take atomically")
)

// Market is the interface for a floor offer market.
// Every operation runs to completion before the next one starts. An operation invoked
// from a collaborator with the context it was handed joins the running operation and
// observes its ledger changes as already made.
// A collaborator that calls back with any other context waits for the running operation,
// which in turn waits for the collaborator. Such a call only returns once its own context
// is done, so it must carry a deadline.
type Market interface {
	// MakeOffer escrows value from the maker and posts an offer on a collection.
	//
	// @input - context, maker, collection, value.
	//
	// @output - offer id, error.
	MakeOffer(ctx context.Context, maker common.Address, collection common.Address, value *big.Int) (uint64, error)

	// WithdrawOffer removes an offer and refunds its maker.
	//
	// @input - context, caller, offer id.
	//
	// @output - error.
	WithdrawOffer(ctx context.Context, caller common.Address, id uint64) error

	// TakeOffer sells a token into an offer.
	// The token moves from the taker to the maker, the fee goes to the market fee address,
	// royalties go to their recipients and the rest goes to the taker.
	//
	// @input - context, taker, offer id, token id.
	//
	// @output - settlement split, error.
	TakeOffer(ctx context.Context, taker common.Address, id uint64, tokenID *big.Int) (settlement.Split, error)

	// GetOffer gets a live offer.
	//
	// @input - context, offer id.
	//
	// @output - offer, error.
	GetOffer(ctx context.Context, id uint64) (offerbook.Offer, error)

	// GetOffersByCollection gets a page of offers on a collection.
	// The page always holds pageSize entries; entries past the live range are empty offers.
	// A page size above offerbook.MaxPageSize is rejected.
	//
	// @input - context, collection, page size, page index.
	//
	// @output - offers, error.
	GetOffersByCollection(ctx context.Context, collection common.Address, pageSize uint64, pageIndex uint64) ([]offerbook.Offer, error)

	// GetOffersByCollectionCount gets the number of live offers on a collection.
	//
	// @input - context, collection.
	//
	// @output - count, error.
	GetOffersByCollectionCount(ctx context.Context, collection common.Address) (uint64, error)

	// GetOffersByMaker gets a page of offers posted by a maker.
	// The page always holds pageSize entries; entries past the live range are empty offers.
	// A page size above offerbook.MaxPageSize is rejected.
	//
	// @input - context, maker, page size, page index.
	//
	// @output - offers, error.
	GetOffersByMaker(ctx context.Context, maker common.Address, pageSize uint64, pageIndex uint64) ([]offerbook.Offer, error)

	// GetOffersByMakerCount gets the number of live offers posted by a maker.
	//
	// @input - context, maker.
	//
	// @output - count, error.
	GetOffersByMakerCount(ctx context.Context, maker common.Address) (uint64, error)

	// GetRoyalties gets the royalties a sale would owe under the current registry.
	//
	// @input - context, collection, token id, value.
	//
	// @output - royalties, error.
	GetRoyalties(ctx context.Context, collection common.Address, tokenID *big.Int, value *big.Int) ([]royalty.Royalty, error)

	// GetConfig gets the market config.
	//
	// @input - context.
	//
	// @output - config, error.
	GetConfig(ctx context.Context) (admin.Config, error)

	// SetMarketFeeAddress sets the market fee address.
	//
	// @input - context, caller, address.
	//
	// @output - error.
	SetMarketFeeAddress(ctx context.Context, caller common.Address, addr common.Address) error

	// SetRoyaltyResolverAddress sets the royalty registry address.
	//
	// @input - context, caller, address.
	//
	// @output - error.
	SetRoyaltyResolverAddress(ctx context.Context, caller common.Address, addr common.Address) error

	// SetMinimumOffer sets the minimum offer value.
	//
	// @input - context, caller, minimum.
	//
	// @output - error.
	SetMinimumOffer(ctx context.Context, caller common.Address, minimum *big.Int) error

	// TransferOwnership hands the market config over to a new owner.
	//
	// @input - context, caller, new owner.
	//
	// @output - error.
	TransferOwnership(ctx context.Context, caller common.Address, owner common.Address) error

	// ListHistory lists past events, newest first.
	//
	// @input - context, offset, limit.
	//
	// @output - events, error.
	ListHistory(ctx context.Context, offset uint64, limit uint64) ([]history.Event, error)
}
