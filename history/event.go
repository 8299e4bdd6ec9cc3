package history

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
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Kinds of event.
const (
	OfferMade      = "made"
	OfferWithdrawn = "withdrawn"
	OfferTaken     = "taken"
	ConfigChanged  = "config"
)

// Event is a journal entry of an applied market operation.
type Event struct {
	// Seq is the position in the journal, assigned on append.
	Seq uint64

	// Kind of the event.
	Kind string

	// Offer involved, if any.
	OfferID    uint64
	Collection common.Address
	Maker      common.Address
	Value      *big.Int

	// Settlement details, for taken offers.
	Taker   common.Address
	TokenID *big.Int
	Fee     *big.Int
	Royalty *big.Int

	// Description describes the event.
	Description string

	// CreatedAt is the time when the event is created.
	CreatedAt time.Time
}

// Encode encodes an event.
//
// @output - data, error.
func (e Event) Encode() ([]byte, error) {
	type valJson struct {
		Seq         uint64    `json:"seq"`
		Kind        string    `json:"kind"`
		OfferID     uint64    `json:"offer_id"`
		Collection  string    `json:"collection"`
		Maker       string    `json:"maker"`
		Value       string    `json:"value"`
		Taker       string    `json:"taker"`
		TokenID     string    `json:"token_id"`
		Fee         string    `json:"fee"`
		Royalty     string    `json:"royalty"`
		Description string    `json:"description"`
		CreatedAt   time.Time `json:"created_at"`
	}
	return json.Marshal(valJson{
		Seq:         e.Seq,
		Kind:        e.Kind,
		OfferID:     e.OfferID,
		Collection:  e.Collection.Hex(),
		Maker:       e.Maker.Hex(),
		Value:       bigString(e.Value),
		Taker:       e.Taker.Hex(),
		TokenID:     bigString(e.TokenID),
		Fee:         bigString(e.Fee),
		Royalty:     bigString(e.Royalty),
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	})
}

// DecodeEvent decodes an event data bytes.
//
// @input - data.
//
// @output - event, error.
func DecodeEvent(data []byte) (Event, error) {
	type valJson struct {
		Seq         uint64    `json:"seq"`
		Kind        string    `json:"kind"`
		OfferID     uint64    `json:"offer_id"`
		Collection  string    `json:"collection"`
		Maker       string    `json:"maker"`
		Value       string    `json:"value"`
		Taker       string    `json:"taker"`
		TokenID     string    `json:"token_id"`
		Fee         string    `json:"fee"`
		Royalty     string    `json:"royalty"`
		Description string    `json:"description"`
		CreatedAt   time.Time `json:"created_at"`
	}
	valDec := valJson{}
	err := json.Unmarshal(data, &valDec)
	if err != nil {
		return Event{}, err
	}
	res := Event{
		Seq:         valDec.Seq,
		Kind:        valDec.Kind,
		OfferID:     valDec.OfferID,
		Collection:  common.HexToAddress(valDec.Collection),
		Maker:       common.HexToAddress(valDec.Maker),
		Taker:       common.HexToAddress(valDec.Taker),
		Description: valDec.Description,
		CreatedAt:   valDec.CreatedAt,
	}
	for _, f := range []struct {
		dst **big.Int
		src string
	}{{&res.Value, valDec.Value}, {&res.TokenID, valDec.TokenID}, {&res.Fee, valDec.Fee}, {&res.Royalty, valDec.Royalty}} {
		if f.src == "" {
			continue
		}
		v, ok := big.NewInt(0).SetString(f.src, 10)
		if !ok {
			return Event{}, fmt.Errorf("fail to decode %v in event %v", f.src, valDec.Seq)
		}
		*f.dst = v
	}
	return res, nil
}

// bigString formats an optional big int.
func bigString(v *big.Int) string {
	if v == nil {
		return ""
	}
	return v.String()
}
