package api

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
	"math/big"
)

// User APIs.
type UserAPI struct {
	// Version API
	Version func(ctx context.Context) (string, error)

	// Market API
	MarketAddress                    func(ctx context.Context) (string, error)
	MarketMakeOffer                  func(ctx context.Context, maker string, collection string, value *big.Int) (uint64, error)
	MarketWithdrawOffer              func(ctx context.Context, caller string, id uint64) error
	MarketTakeOffer                  func(ctx context.Context, taker string, id uint64, tokenID *big.Int) (MarketTakeOfferRes, error)
	MarketGetOffer                   func(ctx context.Context, id uint64) (MarketOfferRes, error)
	MarketGetOffersByCollection      func(ctx context.Context, collection string, pageSize uint64, pageIndex uint64) ([]MarketOfferRes, error)
	MarketGetOffersByCollectionCount func(ctx context.Context, collection string) (uint64, error)
	MarketGetOffersByMaker           func(ctx context.Context, maker string, pageSize uint64, pageIndex uint64) ([]MarketOfferRes, error)
	MarketGetOffersByMakerCount      func(ctx context.Context, maker string) (uint64, error)
	MarketGetRoyalties               func(ctx context.Context, collection string, tokenID *big.Int, value *big.Int) ([]MarketRoyaltyRes, error)
	MarketGetConfig                  func(ctx context.Context) (MarketGetConfigRes, error)
	MarketSetMarketFeeAddress        func(ctx context.Context, caller string, addr string) error
	MarketSetRoyaltyResolverAddress  func(ctx context.Context, caller string, addr string) error
	MarketSetMinimumOffer            func(ctx context.Context, caller string, minimum *big.Int) error
	MarketTransferOwnership          func(ctx context.Context, caller string, owner string) error
	MarketListHistory                func(ctx context.Context, offset uint64, limit uint64) <-chan MarketListHistoryRes

	// Chain API
	ChainOwnerOf       func(ctx context.Context, collection string, tokenID *big.Int) (string, error)
	ChainBalance       func(ctx context.Context, addr string) (*big.Int, error)
	ChainEscrowBalance func(ctx context.Context) (*big.Int, error)

	// Royalty API
	RoyaltyPurgeCache func(ctx context.Context) error
}

// Developer APIs.
type DevAPI struct {
	/****************************************************************************/
	/* Note:
	 * The following APIs are for developers for testing purpose ONLY.
	 * They provide direct access to the in-process mock chain and royalty table.
	 * They are only available when the node runs without a remote chain or oracle.
	 */
	/****************************************************************************/

	// Version API
	Version func(ctx context.Context) (string, error)

	// Market API
	MarketAddress                    func(ctx context.Context) (string, error)
	MarketMakeOffer                  func(ctx context.Context, maker string, collection string, value *big.Int) (uint64, error)
	MarketWithdrawOffer              func(ctx context.Context, caller string, id uint64) error
	MarketTakeOffer                  func(ctx context.Context, taker string, id uint64, tokenID *big.Int) (MarketTakeOfferRes, error)
	MarketGetOffer                   func(ctx context.Context, id uint64) (MarketOfferRes, error)
	MarketGetOffersByCollection      func(ctx context.Context, collection string, pageSize uint64, pageIndex uint64) ([]MarketOfferRes, error)
	MarketGetOffersByCollectionCount func(ctx context.Context, collection string) (uint64, error)
	MarketGetOffersByMaker           func(ctx context.Context, maker string, pageSize uint64, pageIndex uint64) ([]MarketOfferRes, error)
	MarketGetOffersByMakerCount      func(ctx context.Context, maker string) (uint64, error)
	MarketGetRoyalties               func(ctx context.Context, collection string, tokenID *big.Int, value *big.Int) ([]MarketRoyaltyRes, error)
	MarketGetConfig                  func(ctx context.Context) (MarketGetConfigRes, error)
	MarketSetMarketFeeAddress        func(ctx context.Context, caller string, addr string) error
	MarketSetRoyaltyResolverAddress  func(ctx context.Context, caller string, addr string) error
	MarketSetMinimumOffer            func(ctx context.Context, caller string, minimum *big.Int) error
	MarketTransferOwnership          func(ctx context.Context, caller string, owner string) error
	MarketListHistory                func(ctx context.Context, offset uint64, limit uint64) <-chan MarketListHistoryRes

	// Chain API
	ChainOwnerOf           func(ctx context.Context, collection string, tokenID *big.Int) (string, error)
	ChainBalance           func(ctx context.Context, addr string) (*big.Int, error)
	ChainEscrowBalance     func(ctx context.Context) (*big.Int, error)
	ChainMint              func(ctx context.Context, collection string, to string, tokenID *big.Int) error
	ChainApprove           func(ctx context.Context, collection string, caller string, to string, tokenID *big.Int) error
	ChainSetApprovalForAll func(ctx context.Context, collection string, caller string, operator string, approved bool) error
	ChainFund              func(ctx context.Context, addr string, amt *big.Int) error

	// Royalty API
	RoyaltyPurgeCache         func(ctx context.Context) error
	RoyaltySetCollectionRules func(ctx context.Context, collection string, rules []RoyaltyRuleReq) error
	RoyaltySetTokenRules      func(ctx context.Context, collection string, tokenID *big.Int, rules []RoyaltyRuleReq) error
}
