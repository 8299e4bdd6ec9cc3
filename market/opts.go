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
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Default minimum offer, 0.01 ether.
var DefaultMinimumOffer = big.NewInt(1e16)

// Opts is the options for the market.
type Opts struct {
	// The datastore path of the market.
	Path string

	// Address of the market, used as the operator of token transfers.
	Address common.Address

	// Config written on first start.
	Owner                  common.Address
	MarketFeeAddress       common.Address
	RoyaltyResolverAddress common.Address
	MinimumOffer           *big.Int
}
