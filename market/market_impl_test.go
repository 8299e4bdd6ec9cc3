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
	"errors"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcgcyx/floormkt/chain"
	"github.com/wcgcyx/floormkt/history"
	"github.com/wcgcyx/floormkt/offerbook"
	"github.com/wcgcyx/floormkt/royalty"
)

const (
	testDS = "./test-ds"
)

var (
	testMarketAddr  = common.HexToAddress("0x00000000000000000000000000000000000000b0")
	testOwner       = common.HexToAddress("0x00000000000000000000000000000000000000d1")
	testFeeAddr     = common.HexToAddress("0x00000000000000000000000000000000000000f1")
	testRegistry    = common.HexToAddress("0x00000000000000000000000000000000000000e1")
	testCollection  = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	testCollection2 = common.HexToAddress("0x00000000000000000000000000000000000000c2")
	testMaker       = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	testMaker2      = common.HexToAddress("0x00000000000000000000000000000000000000a2")
	testSeller      = common.HexToAddress("0x00000000000000000000000000000000000000a3")
	testCreator     = common.HexToAddress("0x00000000000000000000000000000000000000a4")
	testOutsider    = common.HexToAddress("0x00000000000000000000000000000000000000a5")
)

func TestMain(m *testing.M) {
	os.RemoveAll(testDS)
	os.Mkdir(testDS, os.ModePerm)
	defer os.RemoveAll(testDS)
	m.Run()
}

// testEnv is a market over a mocked chain.
type testEnv struct {
	m     *MarketImpl
	chain *chain.MockChain
	table *royalty.TableResolver
}

func newTestEnv(t *testing.T) (*testEnv, func()) {
	ctx := context.Background()
	os.RemoveAll(testDS)
	os.Mkdir(testDS, os.ModePerm)
	c := chain.NewMockChain()
	table := royalty.NewTableResolver()
	m, err := NewMarketImpl(ctx, c, c, table, Opts{
		Path:             testDS,
		Address:          testMarketAddr,
		Owner:            testOwner,
		MarketFeeAddress: testFeeAddr,
	})
	require.Nil(t, err)
	// Fund the makers.
	require.Nil(t, c.Fund(ctx, testMaker, eth("100")))
	require.Nil(t, c.Fund(ctx, testMaker2, eth("100")))
	// Seller owns tokens 1 to 5 of both collections and lets the market move them.
	for i := int64(1); i <= 5; i++ {
		require.Nil(t, c.Mint(ctx, testCollection, testSeller, big.NewInt(i)))
		require.Nil(t, c.Mint(ctx, testCollection2, testSeller, big.NewInt(i)))
	}
	require.Nil(t, c.SetApprovalForAll(ctx, testCollection, testSeller, testMarketAddr, true))
	return &testEnv{m: m, chain: c, table: table}, m.Shutdown
}

func eth(s string) *big.Int {
	v, err := chain.ParseEther(s)
	if err != nil {
		panic(err)
	}
	return v
}

func balance(t *testing.T, c *chain.MockChain, addr common.Address) *big.Int {
	bal, err := c.Balance(context.Background(), addr)
	require.Nil(t, err)
	return bal
}

func escrow(t *testing.T, c *chain.MockChain) *big.Int {
	bal, err := c.EscrowBalance(context.Background())
	require.Nil(t, err)
	return bal
}

// liveTotal sums the value of every live offer on the given collections.
func liveTotal(t *testing.T, m *MarketImpl, collections ...common.Address) *big.Int {
	ctx := context.Background()
	total := big.NewInt(0)
	for _, collection := range collections {
		offers, err := m.GetOffersByCollection(ctx, collection, offerbook.MaxPageSize, 0)
		require.Nil(t, err)
		for _, offer := range offers {
			total.Add(total, offer.Value)
		}
	}
	return total
}

func TestNewMarketImpl(t *testing.T) {
	ctx := context.Background()

	_, err := NewMarketImpl(ctx, nil, nil, nil, Opts{Path: testDS})
	assert.True(t, errors.Is(err, ErrInvalidAddress))

	env, shutdown := newTestEnv(t)
	conf, err := env.m.GetConfig(ctx)
	assert.Nil(t, err)
	assert.Equal(t, testOwner, conf.Owner)
	assert.Equal(t, testFeeAddr, conf.MarketFeeAddress)
	assert.Equal(t, common.Address{}, conf.RoyaltyResolverAddress)
	assert.Equal(t, 0, conf.MinimumOffer.Cmp(DefaultMinimumOffer))
	assert.Equal(t, testMarketAddr, env.m.Address())
	shutdown()

	// Restart keeps the stored config over new defaults.
	m, err := NewMarketImpl(ctx, env.chain, env.chain, env.table, Opts{
		Path:             testDS,
		Address:          testMarketAddr,
		Owner:            testOutsider,
		MarketFeeAddress: testOutsider,
	})
	assert.Nil(t, err)
	defer m.Shutdown()
	conf, err = m.GetConfig(ctx)
	assert.Nil(t, err)
	assert.Equal(t, testOwner, conf.Owner)
	assert.Equal(t, testFeeAddr, conf.MarketFeeAddress)
}

func TestMakeOffer(t *testing.T) {
	ctx := context.Background()
	env, shutdown := newTestEnv(t)
	defer shutdown()

	id, err := env.m.MakeOffer(ctx, testMaker, testCollection, eth("1.2"))
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), id)
	assert.Equal(t, 0, balance(t, env.chain, testMaker).Cmp(eth("98.8")))
	assert.Equal(t, 0, escrow(t, env.chain).Cmp(eth("1.2")))

	offer, err := env.m.GetOffer(ctx, id)
	assert.Nil(t, err)
	assert.Equal(t, testCollection, offer.Collection)
	assert.Equal(t, testMaker, offer.Maker)
	assert.Equal(t, 0, offer.Value.Cmp(eth("1.2")))

	count, err := env.m.GetOffersByCollectionCount(ctx, testCollection)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), count)
	count, err = env.m.GetOffersByMakerCount(ctx, testMaker)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), count)

	// Below minimum.
	_, err = env.m.MakeOffer(ctx, testMaker, testCollection, eth("0.001"))
	assert.True(t, errors.Is(err, ErrBelowMinimum))

	// Not enough balance leaves no trace, the id is not consumed.
	_, err = env.m.MakeOffer(ctx, testOutsider, testCollection, eth("1"))
	assert.True(t, errors.Is(err, chain.ErrInsufficientBalance))
	count, err = env.m.GetOffersByCollectionCount(ctx, testCollection)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), count)

	id, err = env.m.MakeOffer(ctx, testMaker2, testCollection, eth("0.01"))
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), id)

	// Zero addresses.
	_, err = env.m.MakeOffer(ctx, common.Address{}, testCollection, eth("1"))
	assert.True(t, errors.Is(err, ErrInvalidAddress))
	_, err = env.m.MakeOffer(ctx, testMaker, common.Address{}, eth("1"))
	assert.True(t, errors.Is(err, ErrInvalidAddress))

	assert.Equal(t, 0, escrow(t, env.chain).Cmp(eth("1.21")))
}

func TestTakeOfferFee(t *testing.T) {
	ctx := context.Background()
	env, shutdown := newTestEnv(t)
	defer shutdown()

	id, err := env.m.MakeOffer(ctx, testMaker, testCollection, eth("1.2"))
	require.Nil(t, err)

	split, err := env.m.TakeOffer(ctx, testSeller, id, big.NewInt(1))
	assert.Nil(t, err)
	assert.Equal(t, 0, split.Fee.Cmp(eth("0.006")))
	assert.Equal(t, 0, split.Remainder.Cmp(eth("1.194")))
	assert.Empty(t, split.Royalties)

	assert.Equal(t, 0, balance(t, env.chain, testFeeAddr).Cmp(eth("0.006")))
	assert.Equal(t, 0, balance(t, env.chain, testSeller).Cmp(eth("1.194")))
	assert.Equal(t, 0, escrow(t, env.chain).Sign())
	owner, err := env.chain.OwnerOf(ctx, testCollection, big.NewInt(1))
	assert.Nil(t, err)
	assert.Equal(t, testMaker, owner)

	_, err = env.m.GetOffer(ctx, id)
	assert.True(t, errors.Is(err, ErrOfferNotFound))
	count, err := env.m.GetOffersByCollectionCount(ctx, testCollection)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), count)
	count, err = env.m.GetOffersByMakerCount(ctx, testMaker)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestTakeOfferRoyalty(t *testing.T) {
	ctx := context.Background()
	env, shutdown := newTestEnv(t)
	defer shutdown()

	require.Nil(t, env.table.SetCollectionRules(ctx, testCollection, []royalty.Rule{{Recipient: testCreator, BasisPoints: 1000}}))

	// No registry configured, no royalty.
	royalties, err := env.m.GetRoyalties(ctx, testCollection, big.NewInt(2), eth("5"))
	assert.Nil(t, err)
	assert.Empty(t, royalties)

	require.Nil(t, env.m.SetRoyaltyResolverAddress(ctx, testOwner, testRegistry))
	royalties, err = env.m.GetRoyalties(ctx, testCollection, big.NewInt(2), eth("5"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(royalties))
	assert.Equal(t, testCreator, royalties[0].Recipient)
	assert.Equal(t, 0, royalties[0].Amount.Cmp(eth("0.5")))

	id, err := env.m.MakeOffer(ctx, testMaker, testCollection, eth("5"))
	require.Nil(t, err)
	split, err := env.m.TakeOffer(ctx, testSeller, id, big.NewInt(2))
	assert.Nil(t, err)
	assert.Equal(t, 0, split.RoyaltyTotal().Cmp(eth("0.5")))

	assert.Equal(t, 0, balance(t, env.chain, testCreator).Cmp(eth("0.5")))
	assert.Equal(t, 0, balance(t, env.chain, testFeeAddr).Cmp(eth("0.025")))
	assert.Equal(t, 0, balance(t, env.chain, testSeller).Cmp(eth("4.475")))
	assert.Equal(t, 0, escrow(t, env.chain).Sign())
}

func TestTakeOfferRoyaltyTooHigh(t *testing.T) {
	ctx := context.Background()
	env, shutdown := newTestEnv(t)
	defer shutdown()

	require.Nil(t, env.m.SetRoyaltyResolverAddress(ctx, testOwner, testRegistry))
	require.Nil(t, env.table.SetTokenRules(ctx, testCollection, big.NewInt(3), []royalty.Rule{{Recipient: testCreator, BasisPoints: 9990}}))

	id, err := env.m.MakeOffer(ctx, testMaker, testCollection, eth("1"))
	require.Nil(t, err)
	_, err = env.m.TakeOffer(ctx, testSeller, id, big.NewInt(3))
	assert.True(t, errors.Is(err, ErrRoyaltyExceedsValue))

	// Nothing moved.
	_, err = env.m.GetOffer(ctx, id)
	assert.Nil(t, err)
	owner, err := env.chain.OwnerOf(ctx, testCollection, big.NewInt(3))
	assert.Nil(t, err)
	assert.Equal(t, testSeller, owner)
	assert.Equal(t, 0, escrow(t, env.chain).Cmp(eth("1")))

	// Other tokens fall back to the collection rules, here none.
	_, err = env.m.TakeOffer(ctx, testSeller, id, big.NewInt(4))
	assert.Nil(t, err)
	assert.Equal(t, 0, balance(t, env.chain, testSeller).Cmp(eth("0.995")))
}

func TestWithdrawOffer(t *testing.T) {
	ctx := context.Background()
	env, shutdown := newTestEnv(t)
	defer shutdown()

	id, err := env.m.MakeOffer(ctx, testMaker, testCollection, eth("2"))
	require.Nil(t, err)
	_, err = env.m.MakeOffer(ctx, testMaker, testCollection, eth("3"))
	require.Nil(t, err)

	err = env.m.WithdrawOffer(ctx, testOutsider, id)
	assert.True(t, errors.Is(err, ErrNotOwner))
	_, err = env.m.GetOffer(ctx, id)
	assert.Nil(t, err)

	err = env.m.WithdrawOffer(ctx, testMaker, id)
	assert.Nil(t, err)
	assert.Equal(t, 0, balance(t, env.chain, testMaker).Cmp(eth("97")))
	assert.Equal(t, 0, escrow(t, env.chain).Cmp(eth("3")))

	count, err := env.m.GetOffersByCollectionCount(ctx, testCollection)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), count)
	count, err = env.m.GetOffersByMakerCount(ctx, testMaker)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), count)

	err = env.m.WithdrawOffer(ctx, testMaker, id)
	assert.True(t, errors.Is(err, ErrOfferNotFound))
}

func TestTakeOfferFailures(t *testing.T) {
	ctx := context.Background()
	env, shutdown := newTestEnv(t)
	defer shutdown()

	id, err := env.m.MakeOffer(ctx, testMaker, testCollection, eth("1"))
	require.Nil(t, err)
	_, err = env.m.TakeOffer(ctx, testSeller, id, big.NewInt(1))
	require.Nil(t, err)

	// Consumed id.
	_, err = env.m.TakeOffer(ctx, testSeller, id, big.NewInt(2))
	assert.True(t, errors.Is(err, ErrOfferNotFound))

	// Token of a collection the market is not approved for.
	id, err = env.m.MakeOffer(ctx, testMaker, testCollection2, eth("1"))
	require.Nil(t, err)
	escrowBefore := escrow(t, env.chain)
	_, err = env.m.TakeOffer(ctx, testSeller, id, big.NewInt(1))
	assert.Equal(t, chain.ErrTransferUnauthorized, err)
	assert.Equal(t, "ERC721: transfer caller is not owner nor approved", err.Error())
	assert.Equal(t, 0, escrow(t, env.chain).Cmp(escrowBefore))
	count, err := env.m.GetOffersByCollectionCount(ctx, testCollection2)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), count)
	_, err = env.m.GetOffer(ctx, id)
	assert.Nil(t, err)

	// Token the taker does not own.
	id, err = env.m.MakeOffer(ctx, testMaker, testCollection, eth("1"))
	require.Nil(t, err)
	_, err = env.m.TakeOffer(ctx, testOutsider, id, big.NewInt(2))
	assert.True(t, errors.Is(err, chain.ErrIncorrectOwner))
	_, err = env.m.GetOffer(ctx, id)
	assert.Nil(t, err)

	// Token that does not exist.
	_, err = env.m.TakeOffer(ctx, testSeller, id, big.NewInt(99))
	assert.True(t, errors.Is(err, chain.ErrNonexistentToken))

	// Self take is allowed.
	require.Nil(t, env.chain.Mint(ctx, testCollection, testMaker, big.NewInt(10)))
	require.Nil(t, env.chain.SetApprovalForAll(ctx, testCollection, testMaker, testMarketAddr, true))
	_, err = env.m.TakeOffer(ctx, testMaker, id, big.NewInt(10))
	assert.Nil(t, err)
	assert.Equal(t, 0, escrow(t, env.chain).Cmp(eth("1")))
}

func TestReentrantTake(t *testing.T) {
	ctx := context.Background()
	env, shutdown := newTestEnv(t)
	defer shutdown()

	id, err := env.m.MakeOffer(ctx, testMaker, testCollection, eth("1"))
	require.Nil(t, err)
	_, err = env.m.MakeOffer(ctx, testMaker, testCollection, eth("1"))
	require.Nil(t, err)

	var innerErr error
	var innerCount uint64
	var innerCountErr error
	calls := 0
	env.chain.OnReceive(testSeller, func(ctx context.Context, amt *big.Int) error {
		calls++
		_, innerErr = env.m.TakeOffer(ctx, testSeller, id, big.NewInt(2))
		innerCount, innerCountErr = env.m.GetOffersByCollectionCount(ctx, testCollection)
		return nil
	})

	_, err = env.m.TakeOffer(ctx, testSeller, id, big.NewInt(1))
	assert.Nil(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, errors.Is(innerErr, ErrOfferNotFound))
	assert.Nil(t, innerCountErr)
	assert.Equal(t, uint64(1), innerCount)

	// Token 2 never moved, only one payout happened.
	owner, err := env.chain.OwnerOf(ctx, testCollection, big.NewInt(2))
	assert.Nil(t, err)
	assert.Equal(t, testSeller, owner)
	assert.Equal(t, 0, balance(t, env.chain, testSeller).Cmp(eth("0.995")))
	assert.Equal(t, 0, escrow(t, env.chain).Cmp(eth("1")))
	assert.Equal(t, 0, escrow(t, env.chain).Cmp(liveTotal(t, env.m, testCollection)))
}

func TestReentrantNestedApplied(t *testing.T) {
	ctx := context.Background()
	env, shutdown := newTestEnv(t)
	defer shutdown()

	id, err := env.m.MakeOffer(ctx, testMaker, testCollection, eth("1"))
	require.Nil(t, err)
	other, err := env.m.MakeOffer(ctx, testMaker, testCollection, eth("2"))
	require.Nil(t, err)

	// The seller takes the other offer with another token while being paid.
	var innerErr error
	env.chain.OnReceive(testSeller, func(ctx context.Context, amt *big.Int) error {
		env.chain.OnReceive(testSeller, nil)
		_, innerErr = env.m.TakeOffer(ctx, testSeller, other, big.NewInt(2))
		return nil
	})
	_, err = env.m.TakeOffer(ctx, testSeller, id, big.NewInt(1))
	assert.Nil(t, err)
	assert.Nil(t, innerErr)

	count, err := env.m.GetOffersByCollectionCount(ctx, testCollection)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), count)
	assert.Equal(t, 0, escrow(t, env.chain).Sign())
	assert.Equal(t, 0, balance(t, env.chain, testSeller).Cmp(eth("2.985")))
	assert.Equal(t, 0, balance(t, env.chain, testFeeAddr).Cmp(eth("0.015")))

	evs, err := env.m.ListHistory(ctx, 0, 10)
	assert.Nil(t, err)
	assert.Equal(t, 4, len(evs))
	assert.Equal(t, history.OfferTaken, evs[0].Kind)
	assert.Equal(t, history.OfferTaken, evs[1].Kind)
}

func TestReentrantFailureReverts(t *testing.T) {
	ctx := context.Background()
	env, shutdown := newTestEnv(t)
	defer shutdown()

	id, err := env.m.MakeOffer(ctx, testMaker, testCollection, eth("1"))
	require.Nil(t, err)
	other, err := env.m.MakeOffer(ctx, testMaker, testCollection, eth("2"))
	require.Nil(t, err)

	// The seller takes another offer inside the hook, then rejects the payment.
	env.chain.OnReceive(testSeller, func(ctx context.Context, amt *big.Int) error {
		env.chain.OnReceive(testSeller, nil)
		_, err := env.m.TakeOffer(ctx, testSeller, other, big.NewInt(2))
		if err != nil {
			return err
		}
		return errors.New("payment rejected")
	})
	_, err = env.m.TakeOffer(ctx, testSeller, id, big.NewInt(1))
	assert.NotNil(t, err)

	// Everything is back.
	count, err := env.m.GetOffersByCollectionCount(ctx, testCollection)
	assert.Nil(t, err)
	assert.Equal(t, uint64(2), count)
	for _, tokenID := range []int64{1, 2} {
		owner, err := env.chain.OwnerOf(ctx, testCollection, big.NewInt(tokenID))
		assert.Nil(t, err)
		assert.Equal(t, testSeller, owner)
	}
	assert.Equal(t, 0, escrow(t, env.chain).Cmp(eth("3")))
	assert.Equal(t, 0, balance(t, env.chain, testSeller).Sign())
	assert.Equal(t, 0, balance(t, env.chain, testFeeAddr).Sign())
	evs, err := env.m.ListHistory(ctx, 0, 10)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(evs))

	// Both offers can still be taken.
	_, err = env.m.TakeOffer(ctx, testSeller, id, big.NewInt(1))
	assert.Nil(t, err)
	_, err = env.m.TakeOffer(ctx, testSeller, other, big.NewInt(2))
	assert.Nil(t, err)
	assert.Equal(t, 0, escrow(t, env.chain).Sign())
}

func TestReentrantWithdraw(t *testing.T) {
	ctx := context.Background()
	env, shutdown := newTestEnv(t)
	defer shutdown()

	id, err := env.m.MakeOffer(ctx, testMaker, testCollection, eth("1"))
	require.Nil(t, err)
	other, err := env.m.MakeOffer(ctx, testMaker, testCollection, eth("1"))
	require.Nil(t, err)

	// The maker tries to withdraw the same offer again on refund, then withdraws another.
	var sameErr, otherErr error
	env.chain.OnReceive(testMaker, func(ctx context.Context, amt *big.Int) error {
		env.chain.OnReceive(testMaker, nil)
		sameErr = env.m.WithdrawOffer(ctx, testMaker, id)
		otherErr = env.m.WithdrawOffer(ctx, testMaker, other)
		return nil
	})
	err = env.m.WithdrawOffer(ctx, testMaker, id)
	assert.Nil(t, err)
	assert.True(t, errors.Is(sameErr, ErrOfferNotFound))
	assert.Nil(t, otherErr)
	assert.Equal(t, 0, balance(t, env.chain, testMaker).Cmp(eth("100")))
	assert.Equal(t, 0, escrow(t, env.chain).Sign())
	count, err := env.m.GetOffersByMakerCount(ctx, testMaker)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestAdminGating(t *testing.T) {
	ctx := context.Background()
	env, shutdown := newTestEnv(t)
	defer shutdown()

	newFee := common.HexToAddress("0x00000000000000000000000000000000000000f2")
	err := env.m.SetMarketFeeAddress(ctx, testOutsider, newFee)
	assert.True(t, errors.Is(err, ErrNotAuthorized))
	err = env.m.SetRoyaltyResolverAddress(ctx, testOutsider, testRegistry)
	assert.True(t, errors.Is(err, ErrNotAuthorized))
	err = env.m.SetMinimumOffer(ctx, testOutsider, eth("1"))
	assert.True(t, errors.Is(err, ErrNotAuthorized))
	err = env.m.TransferOwnership(ctx, testOutsider, testOutsider)
	assert.True(t, errors.Is(err, ErrNotAuthorized))
	err = env.m.SetMarketFeeAddress(ctx, testOwner, common.Address{})
	assert.True(t, errors.Is(err, ErrInvalidAddress))

	assert.Nil(t, env.m.SetMarketFeeAddress(ctx, testOwner, newFee))
	assert.Nil(t, env.m.SetMinimumOffer(ctx, testOwner, eth("1")))
	_, err = env.m.MakeOffer(ctx, testMaker, testCollection, eth("0.5"))
	assert.True(t, errors.Is(err, ErrBelowMinimum))

	id, err := env.m.MakeOffer(ctx, testMaker, testCollection, eth("2"))
	require.Nil(t, err)
	_, err = env.m.TakeOffer(ctx, testSeller, id, big.NewInt(1))
	assert.Nil(t, err)
	assert.Equal(t, 0, balance(t, env.chain, newFee).Cmp(eth("0.01")))
	assert.Equal(t, 0, balance(t, env.chain, testFeeAddr).Sign())

	assert.Nil(t, env.m.TransferOwnership(ctx, testOwner, testOutsider))
	err = env.m.SetMinimumOffer(ctx, testOwner, eth("0.1"))
	assert.True(t, errors.Is(err, ErrNotAuthorized))
	assert.Nil(t, env.m.SetMinimumOffer(ctx, testOutsider, eth("0.1")))

	conf, err := env.m.GetConfig(ctx)
	assert.Nil(t, err)
	assert.Equal(t, testOutsider, conf.Owner)
	assert.Equal(t, newFee, conf.MarketFeeAddress)
	assert.Equal(t, 0, conf.MinimumOffer.Cmp(eth("0.1")))

	evs, err := env.m.ListHistory(ctx, 0, 100)
	assert.Nil(t, err)
	configs := 0
	for _, ev := range evs {
		if ev.Kind == history.ConfigChanged {
			configs++
		}
	}
	assert.Equal(t, 4, configs)
}

func TestPluckSequence(t *testing.T) {
	ctx := context.Background()
	env, shutdown := newTestEnv(t)
	defer shutdown()

	values := []string{"1", "2", "3", "4", "5"}
	for i, v := range values {
		maker := testMaker
		if i%2 == 1 {
			maker = testMaker2
		}
		_, err := env.m.MakeOffer(ctx, maker, testCollection, eth(v))
		require.Nil(t, err)
	}

	// Take the middle one, withdraw the first, take the last.
	_, err := env.m.TakeOffer(ctx, testSeller, 2, big.NewInt(1))
	require.Nil(t, err)
	require.Nil(t, env.m.WithdrawOffer(ctx, testMaker, 0))
	_, err = env.m.TakeOffer(ctx, testSeller, 4, big.NewInt(2))
	require.Nil(t, err)

	offers, err := env.m.GetOffersByCollection(ctx, testCollection, 4, 0)
	assert.Nil(t, err)
	assert.Equal(t, 4, len(offers))
	ids := make([]uint64, 0)
	for _, offer := range offers {
		if !offer.IsEmpty() {
			ids = append(ids, offer.ID)
		}
	}
	assert.ElementsMatch(t, []uint64{1, 3}, ids)
	assert.True(t, offers[2].IsEmpty())
	assert.True(t, offers[3].IsEmpty())

	offers, err = env.m.GetOffersByMaker(ctx, testMaker2, 2, 0)
	assert.Nil(t, err)
	assert.ElementsMatch(t, []uint64{1, 3}, []uint64{offers[0].ID, offers[1].ID})
	offers, err = env.m.GetOffersByMaker(ctx, testMaker, 2, 0)
	assert.Nil(t, err)
	assert.True(t, offers[0].IsEmpty())

	// Far pages are empty.
	offers, err = env.m.GetOffersByCollection(ctx, testCollection, 2, 1<<63)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(offers))
	assert.True(t, offers[0].IsEmpty())

	// Escrow matches what is still on offer.
	assert.Equal(t, 0, escrow(t, env.chain).Cmp(liveTotal(t, env.m, testCollection)))
	assert.Equal(t, 0, escrow(t, env.chain).Cmp(eth("6")))

	evs, err := env.m.ListHistory(ctx, 0, 3)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(evs))
	assert.Equal(t, history.OfferTaken, evs[0].Kind)
	assert.Equal(t, uint64(4), evs[0].OfferID)
	assert.Equal(t, history.OfferWithdrawn, evs[1].Kind)
	assert.Equal(t, uint64(0), evs[1].OfferID)
	assert.Equal(t, 0, evs[2].Fee.Cmp(eth("0.015")))
}

func TestCallbackWithoutFrame(t *testing.T) {
	ctx := context.Background()
	env, shutdown := newTestEnv(t)
	defer shutdown()

	id, err := env.m.MakeOffer(ctx, testMaker, testCollection, eth("1"))
	require.Nil(t, err)

	// A hook that drops the context it was given waits on the running take until its own deadline.
	var innerErr error
	env.chain.OnReceive(testSeller, func(_ context.Context, amt *big.Int) error {
		subCtx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()
		_, innerErr = env.m.GetOffer(subCtx, id)
		return innerErr
	})
	_, err = env.m.TakeOffer(ctx, testSeller, id, big.NewInt(1))
	assert.NotNil(t, err)
	assert.NotNil(t, innerErr)

	owner, err := env.chain.OwnerOf(ctx, testCollection, big.NewInt(1))
	assert.Nil(t, err)
	assert.Equal(t, testSeller, owner)
	_, err = env.m.GetOffer(ctx, id)
	assert.Nil(t, err)
	assert.Equal(t, 0, escrow(t, env.chain).Cmp(eth("1")))
}

func TestPageSizeCap(t *testing.T) {
	ctx := context.Background()
	env, shutdown := newTestEnv(t)
	defer shutdown()

	page, err := env.m.GetOffersByCollection(ctx, testCollection, offerbook.MaxPageSize, 0)
	assert.Nil(t, err)
	assert.Equal(t, offerbook.MaxPageSize, len(page))
	_, err = env.m.GetOffersByCollection(ctx, testCollection, offerbook.MaxPageSize+1, 0)
	assert.NotNil(t, err)
	_, err = env.m.GetOffersByMaker(ctx, testMaker, offerbook.MaxPageSize+1, 0)
	assert.NotNil(t, err)
}
