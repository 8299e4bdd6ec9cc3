package settlement

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
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/wcgcyx/floormkt/chain"
	"github.com/wcgcyx/floormkt/royalty"
)

const (
	// FeeBasisPoints is the market fee rate, 0.5%.
	FeeBasisPoints = 50

	// BasisPointDivisor is 100% in basis points.
	BasisPointDivisor = 10000
)

// ErrRoyaltyExceedsValue is returned when fee plus royalties exceed the sale value.
var ErrRoyaltyExceedsValue = errors.New("royalties exceed sale value")

// Split is the division of a matched offer's value.
type Split struct {
	// Value is the offer value being divided.
	Value *big.Int

	// Fee owed to the market.
	Fee *big.Int

	// Royalties owed to creators, in resolver order.
	Royalties []royalty.Royalty

	// Remainder owed to the seller.
	Remainder *big.Int
}

// Compute divides a value into the market fee, the royalties and the remainder.
// fee = value * feeBasisPoints / 10000 rounded down, remainder = value - fee - sum(royalties).
//
// @input - value, fee basis points, royalties.
//
// @output - split, error.
func Compute(value *big.Int, feeBasisPoints uint64, royalties []royalty.Royalty) (Split, error) {
	if value == nil || value.Sign() < 0 {
		return Split{}, fmt.Errorf("invalid value %v", value)
	}
	if feeBasisPoints > BasisPointDivisor {
		return Split{}, fmt.Errorf("fee basis points %v exceed %v", feeBasisPoints, BasisPointDivisor)
	}
	fee := big.NewInt(0).Mul(value, big.NewInt(0).SetUint64(feeBasisPoints))
	fee.Div(fee, big.NewInt(BasisPointDivisor))

	owed := make([]royalty.Royalty, 0, len(royalties))
	total := big.NewInt(0)
	for _, r := range royalties {
		if r.Amount == nil || r.Amount.Sign() < 0 {
			return Split{}, fmt.Errorf("invalid royalty amount %v to %v", r.Amount, r.Recipient.Hex())
		}
		if r.Recipient == (common.Address{}) && r.Amount.Sign() > 0 {
			return Split{}, fmt.Errorf("royalty of %v to zero address", r.Amount)
		}
		total.Add(total, r.Amount)
		owed = append(owed, royalty.Royalty{Recipient: r.Recipient, Amount: big.NewInt(0).Set(r.Amount)})
	}
	remainder := big.NewInt(0).Sub(value, fee)
	remainder.Sub(remainder, total)
	if remainder.Sign() < 0 {
		return Split{}, fmt.Errorf("%w: value %v, fee %v, royalties %v", ErrRoyaltyExceedsValue, value, fee, total)
	}
	return Split{
		Value:     big.NewInt(0).Set(value),
		Fee:       fee,
		Royalties: owed,
		Remainder: remainder,
	}, nil
}

// Payments lists the payouts of a split: fee first, then royalties, then the seller.
// Zero amounts are left out. The payouts always add up to the split value.
//
// @input - fee recipient, seller.
//
// @output - payments.
func (s Split) Payments(feeRecipient common.Address, seller common.Address) []chain.Payment {
	res := make([]chain.Payment, 0, len(s.Royalties)+2)
	if s.Fee.Sign() > 0 {
		res = append(res, chain.Payment{To: feeRecipient, Amount: big.NewInt(0).Set(s.Fee)})
	}
	for _, r := range s.Royalties {
		if r.Amount.Sign() > 0 {
			res = append(res, chain.Payment{To: r.Recipient, Amount: big.NewInt(0).Set(r.Amount)})
		}
	}
	if s.Remainder.Sign() > 0 {
		res = append(res, chain.Payment{To: seller, Amount: big.NewInt(0).Set(s.Remainder)})
	}
	return res
}

// RoyaltyTotal sums the royalties of a split.
//
// @output - total royalties.
func (s Split) RoyaltyTotal() *big.Int {
	return royalty.Total(s.Royalties)
}
