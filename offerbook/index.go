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
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ipfs/go-datastore"
	"github.com/wcgcyx/floormkt/ledgerstore"
)

// Index keeps, per address, a dense array of offer ids and the inverse id -> position map.
// Removal swaps the last element into the freed slot, so the order of survivors is not
// stable across mutations.
type Index struct {
	name string
}

// NewIndex creates a new index stored under the given name.
//
// @input - index name.
//
// @output - index.
func NewIndex(name string) Index {
	return Index{name: name}
}

// Insert appends an offer id to the key's array.
//
// @input - context, view, key, offer id.
//
// @output - error.
func (i Index) Insert(ctx context.Context, view ledgerstore.View, key common.Address, id uint64) error {
	exists, err := view.Has(ctx, i.name, key.Hex(), posKey, id)
	if err != nil {
		log.Warnf("Fail to check if contains %v-%v-%v: %v", i.name, key.Hex(), id, err.Error())
		return err
	}
	if exists {
		return fmt.Errorf("offer %v already indexed under %v-%v", id, i.name, key.Hex())
	}
	n, err := i.Count(ctx, view, key)
	if err != nil {
		return err
	}
	err = view.Put(ctx, encUint64(id), i.name, key.Hex(), slotKey, n)
	if err != nil {
		log.Warnf("Fail to put slot %v for %v-%v: %v", n, i.name, key.Hex(), err.Error())
		return err
	}
	err = view.Put(ctx, encUint64(n), i.name, key.Hex(), posKey, id)
	if err != nil {
		log.Warnf("Fail to put position of %v for %v-%v: %v", id, i.name, key.Hex(), err.Error())
		return err
	}
	return view.Put(ctx, encUint64(n+1), i.name, key.Hex(), lenKey)
}

// Remove swap-pops an offer id from the key's array. It is a no-op if the id is absent.
//
// @input - context, view, key, offer id.
//
// @output - error.
func (i Index) Remove(ctx context.Context, view ledgerstore.View, key common.Address, id uint64) error {
	val, err := view.Get(ctx, i.name, key.Hex(), posKey, id)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return nil
		}
		log.Warnf("Fail to get position of %v for %v-%v: %v", id, i.name, key.Hex(), err.Error())
		return err
	}
	pos := decUint64(val)
	n, err := i.Count(ctx, view, key)
	if err != nil {
		return err
	}
	if n == 0 || pos >= n {
		log.Errorf("Position %v out of range %v for %v-%v, should never happen", pos, n, i.name, key.Hex())
		return fmt.Errorf("corrupted index %v-%v", i.name, key.Hex())
	}
	last := n - 1
	if pos != last {
		// Move the last element into the freed slot.
		val, err = view.Get(ctx, i.name, key.Hex(), slotKey, last)
		if err != nil {
			log.Warnf("Fail to get slot %v for %v-%v: %v", last, i.name, key.Hex(), err.Error())
			return err
		}
		moved := decUint64(val)
		err = view.Put(ctx, encUint64(moved), i.name, key.Hex(), slotKey, pos)
		if err != nil {
			log.Warnf("Fail to put slot %v for %v-%v: %v", pos, i.name, key.Hex(), err.Error())
			return err
		}
		err = view.Put(ctx, encUint64(pos), i.name, key.Hex(), posKey, moved)
		if err != nil {
			log.Warnf("Fail to put position of %v for %v-%v: %v", moved, i.name, key.Hex(), err.Error())
			return err
		}
	}
	err = view.Delete(ctx, i.name, key.Hex(), slotKey, last)
	if err != nil {
		log.Warnf("Fail to remove slot %v for %v-%v: %v", last, i.name, key.Hex(), err.Error())
		return err
	}
	err = view.Delete(ctx, i.name, key.Hex(), posKey, id)
	if err != nil {
		log.Warnf("Fail to remove position of %v for %v-%v: %v", id, i.name, key.Hex(), err.Error())
		return err
	}
	if last == 0 {
		return view.Delete(ctx, i.name, key.Hex(), lenKey)
	}
	return view.Put(ctx, encUint64(last), i.name, key.Hex(), lenKey)
}

// Count gets the live length of the key's array.
//
// @input - context, view, key.
//
// @output - count, error.
func (i Index) Count(ctx context.Context, view ledgerstore.Read, key common.Address) (uint64, error) {
	val, err := view.Get(ctx, i.name, key.Hex(), lenKey)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return 0, nil
		}
		log.Warnf("Fail to get length for %v-%v: %v", i.name, key.Hex(), err.Error())
		return 0, err
	}
	return decUint64(val), nil
}

// Page gets the live offer ids in the window [pageIndex*pageSize, pageIndex*pageSize+pageSize).
// The result is shorter than pageSize when the window runs past the live range.
//
// @input - context, view, key, page size, page index.
//
// @output - offer ids, error.
func (i Index) Page(ctx context.Context, view ledgerstore.Read, key common.Address, pageSize uint64, pageIndex uint64) ([]uint64, error) {
	if pageSize > MaxPageSize {
		return nil, fmt.Errorf("page size %v exceeds maximum %v", pageSize, MaxPageSize)
	}
	res := make([]uint64, 0)
	if pageSize == 0 {
		return res, nil
	}
	if pageIndex > math.MaxUint64/pageSize {
		return res, nil
	}
	n, err := i.Count(ctx, view, key)
	if err != nil {
		return nil, err
	}
	start := pageIndex * pageSize
	for pos := start; pos < n && pos-start < pageSize; pos++ {
		val, err := view.Get(ctx, i.name, key.Hex(), slotKey, pos)
		if err != nil {
			log.Warnf("Fail to get slot %v for %v-%v: %v", pos, i.name, key.Hex(), err.Error())
			return nil, err
		}
		res = append(res, decUint64(val))
	}
	return res, nil
}

// Contains checks if an offer id is in the key's array.
//
// @input - context, view, key, offer id.
//
// @output - boolean indicating if indexed, error.
func (i Index) Contains(ctx context.Context, view ledgerstore.Read, key common.Address, id uint64) (bool, error) {
	return view.Has(ctx, i.name, key.Hex(), posKey, id)
}

// encUint64 encodes an uint64.
func encUint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

// decUint64 decodes an uint64.
func decUint64(b []byte) uint64 {
	if len(b) != 8 {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}
