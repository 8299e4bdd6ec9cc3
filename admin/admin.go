package admin

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
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	logging "github.com/ipfs/go-log"
)

// Logger
var log = logging.Logger("admin")

const (
	// Datastore keys.
	adminKey  = "admin"
	configKey = "config"
)

var (
	// ErrNotAuthorized is returned when a non-owner tries to change the config.
	ErrNotAuthorized = errors.New("caller is not the owner")

	// ErrInvalidAddress is returned when a required address is the zero address.
	ErrInvalidAddress = errors.New("invalid address")
)

// Config is the owner-settable market configuration.
type Config struct {
	// Owner allowed to change the config.
	Owner common.Address

	// MarketFeeAddress receiving the market fee.
	MarketFeeAddress common.Address

	// RoyaltyResolverAddress of the royalty registry, zero for none.
	RoyaltyResolverAddress common.Address

	// MinimumOffer value in wei.
	MinimumOffer *big.Int
}

// Encode encodes the config.
//
// @output - data, error.
func (c Config) Encode() ([]byte, error) {
	type valJson struct {
		Owner                  string `json:"owner"`
		MarketFeeAddress       string `json:"market_fee_address"`
		RoyaltyResolverAddress string `json:"royalty_resolver_address"`
		MinimumOffer           string `json:"minimum_offer"`
	}
	if c.MinimumOffer == nil {
		return nil, fmt.Errorf("nil minimum offer")
	}
	return json.Marshal(valJson{
		Owner:                  c.Owner.Hex(),
		MarketFeeAddress:       c.MarketFeeAddress.Hex(),
		RoyaltyResolverAddress: c.RoyaltyResolverAddress.Hex(),
		MinimumOffer:           c.MinimumOffer.String(),
	})
}

// DecodeConfig decodes a config.
//
// @input - data.
//
// @output - config, error.
func DecodeConfig(data []byte) (Config, error) {
	type valJson struct {
		Owner                  string `json:"owner"`
		MarketFeeAddress       string `json:"market_fee_address"`
		RoyaltyResolverAddress string `json:"royalty_resolver_address"`
		MinimumOffer           string `json:"minimum_offer"`
	}
	valDec := valJson{}
	err := json.Unmarshal(data, &valDec)
	if err != nil {
		return Config{}, err
	}
	minimum, ok := big.NewInt(0).SetString(valDec.MinimumOffer, 10)
	if !ok {
		return Config{}, fmt.Errorf("fail to decode minimum offer %v", valDec.MinimumOffer)
	}
	return Config{
		Owner:                  common.HexToAddress(valDec.Owner),
		MarketFeeAddress:       common.HexToAddress(valDec.MarketFeeAddress),
		RoyaltyResolverAddress: common.HexToAddress(valDec.RoyaltyResolverAddress),
		MinimumOffer:           minimum,
	}, nil
}
