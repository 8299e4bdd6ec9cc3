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
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	golock "github.com/viney-shih/go-lock"
	"github.com/wcgcyx/floormkt/admin"
	"github.com/wcgcyx/floormkt/chain"
	"github.com/wcgcyx/floormkt/history"
	"github.com/wcgcyx/floormkt/ledgerstore"
	"github.com/wcgcyx/floormkt/offerbook"
	"github.com/wcgcyx/floormkt/royalty"
	"github.com/wcgcyx/floormkt/settlement"
)

// MarketImpl is the implementation of the Market interface.
type MarketImpl struct {
	// Address of the market.
	address common.Address

	// Ledger and its serialization lock.
	ls   ledgerstore.LedgerStore
	lock golock.RWMutex

	// Ledger components.
	book    *offerbook.OfferBook
	admin   *admin.Admin
	journal *history.Journal

	// External collaborators.
	collection chain.Collection
	wallet     chain.Wallet
	resolver   royalty.Resolver

	// Shutdown function.
	shutdown func()
}

// NewMarketImpl creates a new market.
//
// @input - context, collection registry, wallet, royalty resolver, options.
//
// @output - market, error.
func NewMarketImpl(ctx context.Context, collection chain.Collection, wallet chain.Wallet, resolver royalty.Resolver, opts Opts) (*MarketImpl, error) {
	log.Infof("Start market...")
	if opts.Address == (common.Address{}) {
		return nil, fmt.Errorf("%w: empty market address", ErrInvalidAddress)
	}
	minimum := opts.MinimumOffer
	if minimum == nil {
		minimum = DefaultMinimumOffer
	}
	// Open store.
	ls, err := ledgerstore.NewLedgerStoreImpl(ctx, opts.Path)
	if err != nil {
		log.Errorf("Fail to open ledger store: %v", err.Error())
		return nil, err
	}
	defer func() {
		if err != nil {
			log.Infof("Fail to start market, close ds...")
			err0 := ls.Shutdown(context.Background())
			if err0 != nil {
				log.Errorf("Fail to close ds after failing to start market: %v", err0.Error())
			}
		}
	}()
	m := &MarketImpl{
		address:    opts.Address,
		ls:         ls,
		lock:       golock.NewCASMutex(),
		book:       offerbook.NewOfferBook(),
		admin:      admin.NewAdmin(),
		journal:    history.NewJournal(),
		collection: collection,
		wallet:     wallet,
		resolver:   resolver,
	}
	_, atomic := wallet.(chain.Atomic)
	_, settler := wallet.(chain.Settler)
	if !atomic && !settler {
		log.Warnf("Chain cannot settle atomically, offers can be made and withdrawn but not taken")
	}
	// Write the initial config on first start.
	txn, err := ls.NewTransaction(ctx, false)
	if err != nil {
		log.Errorf("Fail to start new transaction for loading config: %v", err.Error())
		return nil, err
	}
	defer txn.Discard(context.Background())
	written, err := m.admin.Init(ctx, txn, admin.Config{
		Owner:                  opts.Owner,
		MarketFeeAddress:       opts.MarketFeeAddress,
		RoyaltyResolverAddress: opts.RoyaltyResolverAddress,
		MinimumOffer:           minimum,
	})
	if err != nil {
		log.Errorf("Fail to initialise market config: %v", err.Error())
		return nil, err
	}
	if written {
		err = txn.Commit(ctx)
		if err != nil {
			log.Errorf("Fail to commit initial market config: %v", err.Error())
			return nil, err
		}
		log.Infof("Market config initialised, owner %v", opts.Owner.Hex())
	}
	m.shutdown = func() {
		log.Infof("Stop datastore...")
		if !m.lock.TryLockWithContext(context.Background()) {
			log.Errorf("Fail to obtain write lock over market")
		}
		err := ls.Shutdown(context.Background())
		if err != nil {
			log.Errorf("Fail to stop datastore: %v", err.Error())
		}
	}
	return m, nil
}

// Shutdown safely shuts down the component.
func (m *MarketImpl) Shutdown() {
	log.Infof("Start shutdown...")
	m.shutdown()
}

// Address gets the address of the market.
//
// @output - market address.
func (m *MarketImpl) Address() common.Address {
	return m.address
}

// MakeOffer escrows value from the maker and posts an offer on a collection.
//
// @input - context, maker, collection, value.
//
// @output - offer id, error.
func (m *MarketImpl) MakeOffer(ctx context.Context, maker common.Address, collection common.Address, value *big.Int) (uint64, error) {
	log.Debugf("Make offer from %v on %v of %v", maker.Hex(), collection.Hex(), value)
	if maker == (common.Address{}) || collection == (common.Address{}) {
		return 0, fmt.Errorf("%w: empty maker or collection", ErrInvalidAddress)
	}
	var id uint64
	err := m.mutate(ctx, func(ctx context.Context, view ledgerstore.View) error {
		conf, err := m.admin.Get(ctx, view)
		if err != nil {
			return err
		}
		id, err = m.book.CreateOffer(ctx, view, collection, maker, value, conf.MinimumOffer)
		if err != nil {
			return err
		}
		_, err = m.journal.Append(ctx, view, history.Event{
			Kind:       history.OfferMade,
			OfferID:    id,
			Collection: collection,
			Maker:      maker,
			Value:      value,
			CreatedAt:  time.Now(),
		})
		if err != nil {
			return err
		}
		// Interactions.
		err = m.wallet.Deposit(ctx, maker, value)
		if err != nil {
			log.Debugf("Fail to deposit %v from %v: %v", value, maker.Hex(), err.Error())
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// WithdrawOffer removes an offer and refunds its maker.
//
// @input - context, caller, offer id.
//
// @output - error.
func (m *MarketImpl) WithdrawOffer(ctx context.Context, caller common.Address, id uint64) error {
	log.Debugf("Withdraw offer %v by %v", id, caller.Hex())
	return m.mutate(ctx, func(ctx context.Context, view ledgerstore.View) error {
		offer, err := m.book.GetOffer(ctx, view, id)
		if err != nil {
			return err
		}
		if caller != offer.Maker {
			return fmt.Errorf("%w: offer %v", ErrNotOwner, id)
		}
		_, err = m.book.RemoveOffer(ctx, view, id)
		if err != nil {
			return err
		}
		_, err = m.journal.Append(ctx, view, history.Event{
			Kind:       history.OfferWithdrawn,
			OfferID:    id,
			Collection: offer.Collection,
			Maker:      offer.Maker,
			Value:      offer.Value,
			CreatedAt:  time.Now(),
		})
		if err != nil {
			return err
		}
		// Interactions.
		err = m.wallet.Pay(ctx, []chain.Payment{{To: offer.Maker, Amount: offer.Value}})
		if err != nil {
			log.Debugf("Fail to refund %v to %v: %v", offer.Value, offer.Maker.Hex(), err.Error())
			return err
		}
		return nil
	})
}

// TakeOffer sells a token into an offer.
//
// @input - context, taker, offer id, token id.
//
// @output - settlement split, error.
func (m *MarketImpl) TakeOffer(ctx context.Context, taker common.Address, id uint64, tokenID *big.Int) (settlement.Split, error) {
	log.Debugf("Take offer %v by %v with token %v", id, taker.Hex(), tokenID)
	if taker == (common.Address{}) {
		return settlement.Split{}, fmt.Errorf("%w: empty taker", ErrInvalidAddress)
	}
	if tokenID == nil || tokenID.Sign() < 0 {
		return settlement.Split{}, fmt.Errorf("invalid token id %v", tokenID)
	}
	var split settlement.Split
	err := m.mutate(ctx, func(ctx context.Context, view ledgerstore.View) error {
		conf, err := m.admin.Get(ctx, view)
		if err != nil {
			return err
		}
		// Excise the offer before anything leaves the market.
		offer, err := m.book.RemoveOffer(ctx, view, id)
		if err != nil {
			return err
		}
		royalties, err := m.resolver.RoyaltiesFor(ctx, conf.RoyaltyResolverAddress, offer.Collection, tokenID, offer.Value)
		if err != nil {
			log.Debugf("Fail to resolve royalties for %v-%v: %v", offer.Collection.Hex(), tokenID, err.Error())
			return err
		}
		split, err = settlement.Compute(offer.Value, settlement.FeeBasisPoints, royalties)
		if err != nil {
			return err
		}
		_, err = m.journal.Append(ctx, view, history.Event{
			Kind:       history.OfferTaken,
			OfferID:    id,
			Collection: offer.Collection,
			Maker:      offer.Maker,
			Value:      offer.Value,
			Taker:      taker,
			TokenID:    tokenID,
			Fee:        split.Fee,
			Royalty:    split.RoyaltyTotal(),
			CreatedAt:  time.Now(),
		})
		if err != nil {
			return err
		}
		// Interactions.
		err = m.settle(ctx, offer, taker, tokenID, split.Payments(conf.MarketFeeAddress, taker))
		if err != nil {
			log.Debugf("Fail to settle offer %v: %v", id, err.Error())
			return err
		}
		return nil
	})
	if err != nil {
		return settlement.Split{}, err
	}
	return split, nil
}

// GetOffer gets a live offer.
//
// @input - context, offer id.
//
// @output - offer, error.
func (m *MarketImpl) GetOffer(ctx context.Context, id uint64) (offerbook.Offer, error) {
	var offer offerbook.Offer
	err := m.read(ctx, func(view ledgerstore.Read) error {
		var err error
		offer, err = m.book.GetOffer(ctx, view, id)
		return err
	})
	return offer, err
}

// GetOffersByCollection gets a page of offers on a collection.
// Page size is capped at offerbook.MaxPageSize.
//
// @input - context, collection, page size, page index.
//
// @output - offers, error.
func (m *MarketImpl) GetOffersByCollection(ctx context.Context, collection common.Address, pageSize uint64, pageIndex uint64) ([]offerbook.Offer, error) {
	var offers []offerbook.Offer
	err := m.read(ctx, func(view ledgerstore.Read) error {
		var err error
		offers, err = m.book.PageByCollection(ctx, view, collection, pageSize, pageIndex)
		return err
	})
	return offers, err
}

// GetOffersByCollectionCount gets the number of live offers on a collection.
//
// @input - context, collection.
//
// @output - count, error.
func (m *MarketImpl) GetOffersByCollectionCount(ctx context.Context, collection common.Address) (uint64, error) {
	var count uint64
	err := m.read(ctx, func(view ledgerstore.Read) error {
		var err error
		count, err = m.book.CountByCollection(ctx, view, collection)
		return err
	})
	return count, err
}

// GetOffersByMaker gets a page of offers posted by a maker.
// Page size is capped at offerbook.MaxPageSize.
//
// @input - context, maker, page size, page index.
//
// @output - offers, error.
func (m *MarketImpl) GetOffersByMaker(ctx context.Context, maker common.Address, pageSize uint64, pageIndex uint64) ([]offerbook.Offer, error) {
	var offers []offerbook.Offer
	err := m.read(ctx, func(view ledgerstore.Read) error {
		var err error
		offers, err = m.book.PageByMaker(ctx, view, maker, pageSize, pageIndex)
		return err
	})
	return offers, err
}

// GetOffersByMakerCount gets the number of live offers posted by a maker.
//
// @input - context, maker.
//
// @output - count, error.
func (m *MarketImpl) GetOffersByMakerCount(ctx context.Context, maker common.Address) (uint64, error) {
	var count uint64
	err := m.read(ctx, func(view ledgerstore.Read) error {
		var err error
		count, err = m.book.CountByMaker(ctx, view, maker)
		return err
	})
	return count, err
}

// GetRoyalties gets the royalties a sale would owe under the current registry.
//
// @input - context, collection, token id, value.
//
// @output - royalties, error.
func (m *MarketImpl) GetRoyalties(ctx context.Context, collection common.Address, tokenID *big.Int, value *big.Int) ([]royalty.Royalty, error) {
	conf, err := m.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	return m.resolver.RoyaltiesFor(ctx, conf.RoyaltyResolverAddress, collection, tokenID, value)
}

// GetConfig gets the market config.
//
// @input - context.
//
// @output - config, error.
func (m *MarketImpl) GetConfig(ctx context.Context) (admin.Config, error) {
	var conf admin.Config
	err := m.read(ctx, func(view ledgerstore.Read) error {
		var err error
		conf, err = m.admin.Get(ctx, view)
		return err
	})
	return conf, err
}

// SetMarketFeeAddress sets the market fee address.
//
// @input - context, caller, address.
//
// @output - error.
func (m *MarketImpl) SetMarketFeeAddress(ctx context.Context, caller common.Address, addr common.Address) error {
	log.Debugf("Set market fee address to %v by %v", addr.Hex(), caller.Hex())
	return m.configure(ctx, fmt.Sprintf("market fee address set to %v", addr.Hex()), func(view ledgerstore.View) error {
		_, err := m.admin.SetMarketFeeAddress(ctx, view, caller, addr)
		return err
	})
}

// SetRoyaltyResolverAddress sets the royalty registry address.
//
// @input - context, caller, address.
//
// @output - error.
func (m *MarketImpl) SetRoyaltyResolverAddress(ctx context.Context, caller common.Address, addr common.Address) error {
	log.Debugf("Set royalty resolver address to %v by %v", addr.Hex(), caller.Hex())
	return m.configure(ctx, fmt.Sprintf("royalty resolver address set to %v", addr.Hex()), func(view ledgerstore.View) error {
		_, err := m.admin.SetRoyaltyResolverAddress(ctx, view, caller, addr)
		return err
	})
}

// SetMinimumOffer sets the minimum offer value.
//
// @input - context, caller, minimum.
//
// @output - error.
func (m *MarketImpl) SetMinimumOffer(ctx context.Context, caller common.Address, minimum *big.Int) error {
	log.Debugf("Set minimum offer to %v by %v", minimum, caller.Hex())
	return m.configure(ctx, fmt.Sprintf("minimum offer set to %v", minimum), func(view ledgerstore.View) error {
		_, err := m.admin.SetMinimumOffer(ctx, view, caller, minimum)
		return err
	})
}

// TransferOwnership hands the market config over to a new owner.
//
// @input - context, caller, new owner.
//
// @output - error.
func (m *MarketImpl) TransferOwnership(ctx context.Context, caller common.Address, owner common.Address) error {
	log.Debugf("Transfer ownership to %v by %v", owner.Hex(), caller.Hex())
	return m.configure(ctx, fmt.Sprintf("ownership transferred to %v", owner.Hex()), func(view ledgerstore.View) error {
		_, err := m.admin.TransferOwnership(ctx, view, caller, owner)
		return err
	})
}

// ListHistory lists past events, newest first.
//
// @input - context, offset, limit.
//
// @output - events, error.
func (m *MarketImpl) ListHistory(ctx context.Context, offset uint64, limit uint64) ([]history.Event, error) {
	var evs []history.Event
	err := m.read(ctx, func(view ledgerstore.Read) error {
		var err error
		evs, err = m.journal.List(ctx, view, offset, limit)
		return err
	})
	return evs, err
}

// configure runs a config change and journals it.
func (m *MarketImpl) configure(ctx context.Context, description string, change func(view ledgerstore.View) error) error {
	return m.mutate(ctx, func(ctx context.Context, view ledgerstore.View) error {
		err := change(view)
		if err != nil {
			return err
		}
		_, err = m.journal.Append(ctx, view, history.Event{
			Kind:        history.ConfigChanged,
			Description: description,
			CreatedAt:   time.Now(),
		})
		return err
	})
}
