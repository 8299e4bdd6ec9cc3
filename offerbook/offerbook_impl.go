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
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ipfs/go-datastore"
	"github.com/wcgcyx/floormkt/ledgerstore"
)

// OfferBook is the authoritative store of live offers together with the
// by-collection and by-maker indices. It keeps no state of its own; every
// call works on the view it is given.
type OfferBook struct {
	byCollection Index
	byMaker      Index
}

// NewOfferBook creates a new offer book.
//
// @output - offer book.
func NewOfferBook() *OfferBook {
	return &OfferBook{
		byCollection: NewIndex(collectionIdx),
		byMaker:      NewIndex(makerIdx),
	}
}

// CreateOffer allocates the next id, stores the offer and indexes it.
//
// @input - context, view, collection, maker, value, minimum value.
//
// @output - offer id, error.
func (b *OfferBook) CreateOffer(ctx context.Context, view ledgerstore.View, collection common.Address, maker common.Address, value *big.Int, minimum *big.Int) (uint64, error) {
	if value == nil || value.Sign() <= 0 || (minimum != nil && value.Cmp(minimum) < 0) {
		return 0, fmt.Errorf("%w: %v < %v", ErrBelowMinimum, value, minimum)
	}
	id, err := b.nextID(ctx, view)
	if err != nil {
		return 0, err
	}
	offer := Offer{
		ID:         id,
		Collection: collection,
		Maker:      maker,
		Value:      big.NewInt(0).Set(value),
	}
	dsVal, err := offer.Encode()
	if err != nil {
		log.Errorf("Fail to encode offer %v, should never happen: %v", id, err.Error())
		return 0, err
	}
	err = view.Put(ctx, dsVal, offersKey, id)
	if err != nil {
		log.Warnf("Fail to put offer %v: %v", id, err.Error())
		return 0, err
	}
	err = b.byCollection.Insert(ctx, view, collection, id)
	if err != nil {
		return 0, err
	}
	err = b.byMaker.Insert(ctx, view, maker, id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// RemoveOffer detaches an offer from the store and both indices.
//
// @input - context, view, offer id.
//
// @output - removed offer, error.
func (b *OfferBook) RemoveOffer(ctx context.Context, view ledgerstore.View, id uint64) (Offer, error) {
	offer, err := b.GetOffer(ctx, view, id)
	if err != nil {
		return Offer{}, err
	}
	err = view.Delete(ctx, offersKey, id)
	if err != nil {
		log.Warnf("Fail to remove offer %v: %v", id, err.Error())
		return Offer{}, err
	}
	err = b.byCollection.Remove(ctx, view, offer.Collection, id)
	if err != nil {
		return Offer{}, err
	}
	err = b.byMaker.Remove(ctx, view, offer.Maker, id)
	if err != nil {
		return Offer{}, err
	}
	return offer, nil
}

// GetOffer gets a live offer.
//
// @input - context, view, offer id.
//
// @output - offer, error.
func (b *OfferBook) GetOffer(ctx context.Context, view ledgerstore.Read, id uint64) (Offer, error) {
	dsVal, err := view.Get(ctx, offersKey, id)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return Offer{}, fmt.Errorf("%w: %v", ErrOfferNotFound, id)
		}
		log.Warnf("Fail to get offer %v: %v", id, err.Error())
		return Offer{}, err
	}
	offer, err := DecodeOffer(dsVal)
	if err != nil {
		log.Errorf("Fail to decode offer %v, should never happen: %v", id, err.Error())
		return Offer{}, err
	}
	return offer, nil
}

// CountByCollection gets the number of live offers on a collection.
//
// @input - context, view, collection.
//
// @output - count, error.
func (b *OfferBook) CountByCollection(ctx context.Context, view ledgerstore.Read, collection common.Address) (uint64, error) {
	return b.byCollection.Count(ctx, view, collection)
}

// CountByMaker gets the number of live offers posted by a maker.
//
// @input - context, view, maker.
//
// @output - count, error.
func (b *OfferBook) CountByMaker(ctx context.Context, view ledgerstore.Read, maker common.Address) (uint64, error) {
	return b.byMaker.Count(ctx, view, maker)
}

// PageByCollection gets a page of offers on a collection.
// The page always holds pageSize entries, padded with empty offers past the live range.
//
// @input - context, view, collection, page size, page index.
//
// @output - offers, error.
func (b *OfferBook) PageByCollection(ctx context.Context, view ledgerstore.Read, collection common.Address, pageSize uint64, pageIndex uint64) ([]Offer, error) {
	return b.page(ctx, view, b.byCollection, collection, pageSize, pageIndex)
}

// PageByMaker gets a page of offers posted by a maker.
// The page always holds pageSize entries, padded with empty offers past the live range.
//
// @input - context, view, maker, page size, page index.
//
// @output - offers, error.
func (b *OfferBook) PageByMaker(ctx context.Context, view ledgerstore.Read, maker common.Address, pageSize uint64, pageIndex uint64) ([]Offer, error) {
	return b.page(ctx, view, b.byMaker, maker, pageSize, pageIndex)
}

// Indexed checks if an offer is present in both of its indices.
//
// @input - context, view, offer.
//
// @output - indexed by collection, indexed by maker, error.
func (b *OfferBook) Indexed(ctx context.Context, view ledgerstore.Read, offer Offer) (bool, bool, error) {
	c, err := b.byCollection.Contains(ctx, view, offer.Collection, offer.ID)
	if err != nil {
		return false, false, err
	}
	m, err := b.byMaker.Contains(ctx, view, offer.Maker, offer.ID)
	if err != nil {
		return false, false, err
	}
	return c, m, nil
}

// page resolves an index window into offers and pads it.
func (b *OfferBook) page(ctx context.Context, view ledgerstore.Read, idx Index, key common.Address, pageSize uint64, pageIndex uint64) ([]Offer, error) {
	ids, err := idx.Page(ctx, view, key, pageSize, pageIndex)
	if err != nil {
		return nil, err
	}
	res := make([]Offer, 0, pageSize)
	for _, id := range ids {
		offer, err := b.GetOffer(ctx, view, id)
		if err != nil {
			log.Errorf("Indexed offer %v missing from store, should never happen: %v", id, err.Error())
			return nil, err
		}
		res = append(res, offer)
	}
	for uint64(len(res)) < pageSize {
		res = append(res, EmptyOffer())
	}
	return res, nil
}

// nextID allocates the next offer id.
func (b *OfferBook) nextID(ctx context.Context, view ledgerstore.View) (uint64, error) {
	var nonce uint64
	val, err := view.Get(ctx, nonceKey)
	if err != nil {
		if !errors.Is(err, datastore.ErrNotFound) {
			log.Warnf("Fail to read the ds value for nonce: %v", err.Error())
			return 0, err
		}
		nonce = 0
	} else {
		nonce = decUint64(val)
	}
	err = view.Put(ctx, encUint64(nonce+1), nonceKey)
	if err != nil {
		log.Warnf("Fail to put nonce %v: %v", nonce+1, err.Error())
		return 0, err
	}
	return nonce, nil
}
