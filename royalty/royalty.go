package royalty

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

	"github.com/ethereum/go-ethereum/common"
	logging "github.com/ipfs/go-log"
)

// Logger
var log = logging.Logger("royalty")

// Royalty is an amount owed to a creator on a sale.
type Royalty struct {
	Recipient common.Address
	Amount    *big.Int
}

// Resolver is the interface for a royalty lookup registry.
type Resolver interface {
	// RoyaltiesFor gets the royalties owed on a sale.
	// A zero registry address means no registry is configured and yields no royalty.
	//
	// @input - context, registry address, collection, token id, sale value.
	//
	// @output - royalties, error.
	RoyaltiesFor(ctx context.Context, registry common.Address, collection common.Address, tokenID *big.Int, value *big.Int) ([]Royalty, error)
}

// Total sums the royalty amounts.
//
// @input - royalties.
//
// @output - total.
func Total(royalties []Royalty) *big.Int {
	total := big.NewInt(0)
	for _, r := range royalties {
		if r.Amount != nil {
			total.Add(total, r.Amount)
		}
	}
	return total
}
