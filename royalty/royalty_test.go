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
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/filecoin-project/go-jsonrpc"
	"github.com/stretchr/testify/assert"
)

var (
	testRegistry   = common.HexToAddress("0x00000000000000000000000000000000000000e1")
	testCollection = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	testCreator    = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	testCreator2   = common.HexToAddress("0x00000000000000000000000000000000000000b2")
)

func TestTableResolver(t *testing.T) {
	ctx := context.Background()
	table := NewTableResolver()

	err := table.SetCollectionRules(ctx, testCollection, []Rule{{Recipient: testCreator, BasisPoints: 10001}})
	assert.NotNil(t, err)
	err = table.SetCollectionRules(ctx, testCollection, []Rule{{Recipient: common.Address{}, BasisPoints: 100}})
	assert.NotNil(t, err)
	err = table.SetCollectionRules(ctx, testCollection, []Rule{{Recipient: testCreator, BasisPoints: 6000}, {Recipient: testCreator2, BasisPoints: 6000}})
	assert.NotNil(t, err)

	err = table.SetCollectionRules(ctx, testCollection, []Rule{{Recipient: testCreator, BasisPoints: 1000}})
	assert.Nil(t, err)

	// No registry, no royalty.
	res, err := table.RoyaltiesFor(ctx, common.Address{}, testCollection, big.NewInt(1), big.NewInt(5000))
	assert.Nil(t, err)
	assert.Empty(t, res)

	res, err = table.RoyaltiesFor(ctx, testRegistry, testCollection, big.NewInt(1), big.NewInt(5000))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, testCreator, res[0].Recipient)
	assert.Equal(t, big.NewInt(500), res[0].Amount)

	err = table.SetTokenRules(ctx, testCollection, big.NewInt(2), []Rule{{Recipient: testCreator2, BasisPoints: 250}, {Recipient: testCreator, BasisPoints: 250}})
	assert.Nil(t, err)
	res, err = table.RoyaltiesFor(ctx, testRegistry, testCollection, big.NewInt(2), big.NewInt(5000))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))
	assert.Equal(t, big.NewInt(250), Total(res))

	// Empty override means no royalty on that token.
	err = table.SetTokenRules(ctx, testCollection, big.NewInt(3), []Rule{})
	assert.Nil(t, err)
	res, err = table.RoyaltiesFor(ctx, testRegistry, testCollection, big.NewInt(3), big.NewInt(5000))
	assert.Nil(t, err)
	assert.Empty(t, res)

	err = table.SetTokenRules(ctx, testCollection, big.NewInt(3), nil)
	assert.Nil(t, err)
	res, err = table.RoyaltiesFor(ctx, testRegistry, testCollection, big.NewInt(3), big.NewInt(5000))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))

	err = table.SetCollectionRules(ctx, testCollection, nil)
	assert.Nil(t, err)
	res, err = table.RoyaltiesFor(ctx, testRegistry, testCollection, big.NewInt(1), big.NewInt(5000))
	assert.Nil(t, err)
	assert.Empty(t, res)
}

// countingResolver counts the lookups reaching it.
type countingResolver struct {
	calls int
	res   []Royalty
	err   error
}

func (c *countingResolver) RoyaltiesFor(ctx context.Context, registry common.Address, collection common.Address, tokenID *big.Int, value *big.Int) ([]Royalty, error) {
	c.calls++
	return c.res, c.err
}

func TestCachedResolver(t *testing.T) {
	ctx := context.Background()
	next := &countingResolver{res: []Royalty{{Recipient: testCreator, Amount: big.NewInt(7)}}}
	cached := NewCachedResolver(next, 10, time.Minute)

	res, err := cached.RoyaltiesFor(ctx, testRegistry, testCollection, big.NewInt(1), big.NewInt(100))
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(7), res[0].Amount)
	res[0].Amount.SetInt64(1000)

	res, err = cached.RoyaltiesFor(ctx, testRegistry, testCollection, big.NewInt(1), big.NewInt(100))
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(7), res[0].Amount)
	assert.Equal(t, 1, next.calls)

	_, err = cached.RoyaltiesFor(ctx, testRegistry, testCollection, big.NewInt(1), big.NewInt(101))
	assert.Nil(t, err)
	assert.Equal(t, 2, next.calls)

	res, err = cached.RoyaltiesFor(ctx, common.Address{}, testCollection, big.NewInt(1), big.NewInt(100))
	assert.Nil(t, err)
	assert.Empty(t, res)
	assert.Equal(t, 2, next.calls)

	cached.Purge()
	next.err = fmt.Errorf("registry unavailable")
	_, err = cached.RoyaltiesFor(ctx, testRegistry, testCollection, big.NewInt(1), big.NewInt(100))
	assert.NotNil(t, err)
	assert.Equal(t, 3, next.calls)
}

func TestRPCResolver(t *testing.T) {
	ctx := context.Background()
	table := NewTableResolver()
	err := table.SetCollectionRules(ctx, testCollection, []Rule{{Recipient: testCreator, BasisPoints: 1000}})
	assert.Nil(t, err)

	server := jsonrpc.NewServer()
	server.Register(RPCNamespace, table)
	testServer := httptest.NewServer(server)
	defer testServer.Close()

	resolver, err := NewRPCResolver(ctx, "http://"+testServer.Listener.Addr().String(), "")
	assert.Nil(t, err)
	defer resolver.Shutdown()

	res, err := resolver.RoyaltiesFor(ctx, testRegistry, testCollection, big.NewInt(1), big.NewInt(5000))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, testCreator, res[0].Recipient)
	assert.Equal(t, 0, big.NewInt(500).Cmp(res[0].Amount))

	res, err = resolver.RoyaltiesFor(ctx, common.Address{}, testCollection, big.NewInt(1), big.NewInt(5000))
	assert.Nil(t, err)
	assert.Empty(t, res)
}
