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
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ipfs/go-datastore"
	"github.com/wcgcyx/floormkt/ledgerstore"
)

// Admin guards the market config singleton stored in the ledger.
type Admin struct{}

// NewAdmin creates a new admin policy.
//
// @output - admin policy.
func NewAdmin() *Admin {
	return &Admin{}
}

// Init stores the given config if none is stored yet.
//
// @input - context, view, default config.
//
// @output - boolean indicating if defaults were written, error.
func (a *Admin) Init(ctx context.Context, view ledgerstore.View, defaults Config) (bool, error) {
	exists, err := view.Has(ctx, adminKey, configKey)
	if err != nil {
		log.Warnf("Fail to check if contains %v-%v: %v", adminKey, configKey, err.Error())
		return false, err
	}
	if exists {
		return false, nil
	}
	if defaults.Owner == (common.Address{}) || defaults.MarketFeeAddress == (common.Address{}) {
		return false, fmt.Errorf("%w: owner and market fee address must be set", ErrInvalidAddress)
	}
	if defaults.MinimumOffer == nil || defaults.MinimumOffer.Sign() < 0 {
		return false, fmt.Errorf("invalid minimum offer %v", defaults.MinimumOffer)
	}
	return true, a.put(ctx, view, defaults)
}

// Get gets the config.
//
// @input - context, view.
//
// @output - config, error.
func (a *Admin) Get(ctx context.Context, view ledgerstore.Read) (Config, error) {
	dsVal, err := view.Get(ctx, adminKey, configKey)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return Config{}, fmt.Errorf("market config has not been initialised")
		}
		log.Warnf("Fail to get ds value for %v-%v: %v", adminKey, configKey, err.Error())
		return Config{}, err
	}
	conf, err := DecodeConfig(dsVal)
	if err != nil {
		log.Errorf("Fail to decode config from %v, should never happen: %v", dsVal, err.Error())
		return Config{}, err
	}
	return conf, nil
}

// SetMarketFeeAddress sets the market fee address.
//
// @input - context, view, caller, market fee address.
//
// @output - old config, error.
func (a *Admin) SetMarketFeeAddress(ctx context.Context, view ledgerstore.View, caller common.Address, addr common.Address) (Config, error) {
	if addr == (common.Address{}) {
		return Config{}, fmt.Errorf("%w: zero market fee address", ErrInvalidAddress)
	}
	return a.update(ctx, view, caller, func(conf *Config) {
		conf.MarketFeeAddress = addr
	})
}

// SetRoyaltyResolverAddress sets the royalty registry address. Zero disables royalties.
//
// @input - context, view, caller, royalty registry address.
//
// @output - old config, error.
func (a *Admin) SetRoyaltyResolverAddress(ctx context.Context, view ledgerstore.View, caller common.Address, addr common.Address) (Config, error) {
	return a.update(ctx, view, caller, func(conf *Config) {
		conf.RoyaltyResolverAddress = addr
	})
}

// SetMinimumOffer sets the minimum offer value.
//
// @input - context, view, caller, minimum offer.
//
// @output - old config, error.
func (a *Admin) SetMinimumOffer(ctx context.Context, view ledgerstore.View, caller common.Address, minimum *big.Int) (Config, error) {
	if minimum == nil || minimum.Sign() < 0 {
		return Config{}, fmt.Errorf("invalid minimum offer %v", minimum)
	}
	return a.update(ctx, view, caller, func(conf *Config) {
		conf.MinimumOffer = big.NewInt(0).Set(minimum)
	})
}

// TransferOwnership hands the config over to a new owner.
//
// @input - context, view, caller, new owner.
//
// @output - old config, error.
func (a *Admin) TransferOwnership(ctx context.Context, view ledgerstore.View, caller common.Address, owner common.Address) (Config, error) {
	if owner == (common.Address{}) {
		return Config{}, fmt.Errorf("%w: zero owner", ErrInvalidAddress)
	}
	return a.update(ctx, view, caller, func(conf *Config) {
		conf.Owner = owner
	})
}

// update applies a change to the config if the caller is the owner.
func (a *Admin) update(ctx context.Context, view ledgerstore.View, caller common.Address, change func(conf *Config)) (Config, error) {
	conf, err := a.Get(ctx, view)
	if err != nil {
		return Config{}, err
	}
	if caller != conf.Owner {
		return Config{}, fmt.Errorf("%w: %v", ErrNotAuthorized, caller.Hex())
	}
	old := conf
	old.MinimumOffer = big.NewInt(0).Set(conf.MinimumOffer)
	change(&conf)
	return old, a.put(ctx, view, conf)
}

// put stores the config.
func (a *Admin) put(ctx context.Context, view ledgerstore.View, conf Config) error {
	dsVal, err := conf.Encode()
	if err != nil {
		log.Errorf("Fail to encode config, should never happen: %v", err.Error())
		return err
	}
	err = view.Put(ctx, dsVal, adminKey, configKey)
	if err != nil {
		log.Warnf("Fail to put ds value for %v-%v: %v", adminKey, configKey, err.Error())
		return err
	}
	return nil
}
