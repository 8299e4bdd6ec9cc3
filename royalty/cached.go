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
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CachedResolver keeps recent answers of another resolver for a limited time.
type CachedResolver struct {
	next  Resolver
	cache *expirable.LRU[string, []Royalty]
}

// NewCachedResolver creates a new cached resolver.
//
// @input - next resolver, cache size, time to live.
//
// @output - cached resolver.
func NewCachedResolver(next Resolver, size int, ttl time.Duration) *CachedResolver {
	return &CachedResolver{
		next:  next,
		cache: expirable.NewLRU[string, []Royalty](size, nil, ttl),
	}
}

// RoyaltiesFor gets the royalties owed on a sale.
//
// @input - context, registry address, collection, token id, sale value.
//
// @output - royalties, error.
func (c *CachedResolver) RoyaltiesFor(ctx context.Context, registry common.Address, collection common.Address, tokenID *big.Int, value *big.Int) ([]Royalty, error) {
	if registry == (common.Address{}) {
		return []Royalty{}, nil
	}
	if tokenID == nil || value == nil {
		return nil, fmt.Errorf("nil token id or value")
	}
	key := fmt.Sprintf("%v-%v-%v-%v", registry.Hex(), collection.Hex(), tokenID.String(), value.String())
	if res, ok := c.cache.Get(key); ok {
		log.Debugf("Royalty cache hit for %v", key)
		return copyRoyalties(res), nil
	}
	res, err := c.next.RoyaltiesFor(ctx, registry, collection, tokenID, value)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, copyRoyalties(res))
	return res, nil
}

// Purge drops every cached answer.
func (c *CachedResolver) Purge() {
	c.cache.Purge()
}

// copyRoyalties deep copies royalties.
func copyRoyalties(royalties []Royalty) []Royalty {
	res := make([]Royalty, 0, len(royalties))
	for _, r := range royalties {
		amt := big.NewInt(0)
		if r.Amount != nil {
			amt.Set(r.Amount)
		}
		res = append(res, Royalty{Recipient: r.Recipient, Amount: amt})
	}
	return res
}
