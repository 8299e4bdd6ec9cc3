package offerbook

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
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Offer is a standing bid against every token of a collection.
type Offer struct {
	// Offer id, allocated from the ledger nonce.
	ID uint64

	// Collection the offer is valid against.
	Collection common.Address

	// Maker that posted and funded the offer.
	Maker common.Address

	// Value escrowed, in wei.
	Value *big.Int
}

// EmptyOffer returns the zero-valued placeholder used to pad pages.
//
// @output - empty offer.
func EmptyOffer() Offer {
	return Offer{Value: big.NewInt(0)}
}

// IsEmpty checks if the offer is a page placeholder.
//
// @output - boolean indicating whether it is a placeholder.
func (o Offer) IsEmpty() bool {
	return o.Value == nil || o.Value.Sign() == 0
}

// Encode encodes the offer.
//
// @output - data, error.
func (o Offer) Encode() ([]byte, error) {
	type valJson struct {
		ID         uint64 `json:"id"`
		Collection string `json:"collection"`
		Maker      string `json:"maker"`
		Value      string `json:"value"`
	}
	if o.Value == nil {
		return nil, fmt.Errorf("nil offer value")
	}
	return json.Marshal(valJson{
		ID:         o.ID,
		Collection: o.Collection.Hex(),
		Maker:      o.Maker.Hex(),
		Value:      o.Value.String(),
	})
}

// DecodeOffer decodes an offer.
//
// @input - data.
//
// @output - offer, error.
func DecodeOffer(data []byte) (Offer, error) {
	type valJson struct {
		ID         uint64 `json:"id"`
		Collection string `json:"collection"`
		Maker      string `json:"maker"`
		Value      string `json:"value"`
	}
	valDec := valJson{}
	err := json.Unmarshal(data, &valDec)
	if err != nil {
		return Offer{}, err
	}
	if !common.IsHexAddress(valDec.Collection) || !common.IsHexAddress(valDec.Maker) {
		return Offer{}, fmt.Errorf("malformed address in offer %v", valDec.ID)
	}
	value, ok := big.NewInt(0).SetString(valDec.Value, 10)
	if !ok {
		return Offer{}, fmt.Errorf("fail to decode offer value %v", valDec.Value)
	}
	return Offer{
		ID:         valDec.ID,
		Collection: common.HexToAddress(valDec.Collection),
		Maker:      common.HexToAddress(valDec.Maker),
		Value:      value,
	}, nil
}
