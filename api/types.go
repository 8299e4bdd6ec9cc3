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
	"math/big"
	"time"
)

// Structs for user API.
type MarketOfferRes struct {
	ID         uint64
	Collection string
	Maker      string
	Value      *big.Int
	Empty      bool
}

type MarketRoyaltyRes struct {
	Recipient string
	Amount    *big.Int
}

type MarketTakeOfferRes struct {
	Value     *big.Int
	Fee       *big.Int
	Royalties []MarketRoyaltyRes
	Remainder *big.Int
}

type MarketGetConfigRes struct {
	Owner                  string
	MarketFeeAddress       string
	RoyaltyResolverAddress string
	MinimumOffer           *big.Int
}

type MarketListHistoryRes struct {
	Seq         uint64
	Kind        string
	OfferID     uint64
	Collection  string
	Maker       string
	Value       *big.Int
	Taker       string
	TokenID     *big.Int
	Fee         *big.Int
	Royalty     *big.Int
	Description string
	CreatedAt   time.Time
}

// Structs for dev API.
type RoyaltyRuleReq struct {
	Recipient   string
	BasisPoints uint64
}
