package itest

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
	"math/big"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcgcyx/floormkt/api"
)

const (
	testCollection = "0x00000000000000000000000000000000000000C1"
	testMaker      = "0x00000000000000000000000000000000000000A1"
	testSeller     = "0x00000000000000000000000000000000000000A3"
	testCreator    = "0x00000000000000000000000000000000000000A4"
	testOutsider   = "0x00000000000000000000000000000000000000A5"
)

func TestMarketOverAPI(t *testing.T) {
	ctx := context.Background()
	client, shutdown, err := startNode(ctx)
	require.Nil(t, err)
	defer shutdown()

	ver, err := client.Version(ctx)
	assert.Nil(t, err)
	assert.NotEmpty(t, ver)
	marketAddr, err := client.MarketAddress(ctx)
	assert.Nil(t, err)

	// Setup
	t.Log("Fund, mint and approve...")
	require.Nil(t, client.ChainFund(ctx, testMaker, eth("10")))
	for i := int64(1); i <= 3; i++ {
		require.Nil(t, client.ChainMint(ctx, testCollection, testSeller, big.NewInt(i)))
	}
	require.Nil(t, client.ChainSetApprovalForAll(ctx, testCollection, testSeller, marketAddr, true))

	// Offer taken without royalty.
	t.Log("Make and take offer...")
	id, err := client.MarketMakeOffer(ctx, testMaker, testCollection, eth("1.2"))
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), id)
	count, err := client.MarketGetOffersByCollectionCount(ctx, testCollection)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), count)
	offer, err := client.MarketGetOffer(ctx, id)
	assert.Nil(t, err)
	assert.Equal(t, 0, offer.Value.Cmp(eth("1.2")))

	res, err := client.MarketTakeOffer(ctx, testSeller, id, big.NewInt(1))
	assert.Nil(t, err)
	assert.Equal(t, 0, res.Fee.Cmp(eth("0.006")))
	bal, err := balanceOf(ctx, client, testFeeAddr)
	assert.Nil(t, err)
	assert.Equal(t, "0.006", bal)
	bal, err = balanceOf(ctx, client, testSeller)
	assert.Nil(t, err)
	assert.Equal(t, "1.194", bal)
	owner, err := client.ChainOwnerOf(ctx, testCollection, big.NewInt(1))
	assert.Nil(t, err)
	assert.True(t, strings.EqualFold(testMaker, owner))

	// Consumed offer.
	_, err = client.MarketTakeOffer(ctx, testSeller, id, big.NewInt(2))
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "offer not found")

	// Offer taken with royalty.
	t.Log("Take offer with royalty...")
	require.Nil(t, client.RoyaltySetCollectionRules(ctx, testCollection, []api.RoyaltyRuleReq{{Recipient: testCreator, BasisPoints: 1000}}))
	royalties, err := client.MarketGetRoyalties(ctx, testCollection, big.NewInt(2), eth("5"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(royalties))
	id, err = client.MarketMakeOffer(ctx, testMaker, testCollection, eth("5"))
	assert.Nil(t, err)
	_, err = client.MarketTakeOffer(ctx, testSeller, id, big.NewInt(2))
	assert.Nil(t, err)
	bal, err = balanceOf(ctx, client, testCreator)
	assert.Nil(t, err)
	assert.Equal(t, "0.5", bal)
	bal, err = balanceOf(ctx, client, testFeeAddr)
	assert.Nil(t, err)
	assert.Equal(t, "0.031", bal)
	bal, err = balanceOf(ctx, client, testSeller)
	assert.Nil(t, err)
	assert.Equal(t, "5.669", bal)

	// Unapproved transfer leaves the offer in place.
	t.Log("Withdraw offer...")
	id, err = client.MarketMakeOffer(ctx, testMaker, testCollection, eth("1"))
	assert.Nil(t, err)
	require.Nil(t, client.ChainSetApprovalForAll(ctx, testCollection, testSeller, marketAddr, false))
	_, err = client.MarketTakeOffer(ctx, testSeller, id, big.NewInt(3))
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "ERC721: transfer caller is not owner nor approved")
	escrow, err := client.ChainEscrowBalance(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 0, escrow.Cmp(eth("1")))

	err = client.MarketWithdrawOffer(ctx, testOutsider, id)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "sender does not own offer")
	assert.Nil(t, client.MarketWithdrawOffer(ctx, testMaker, id))
	bal, err = balanceOf(ctx, client, testMaker)
	assert.Nil(t, err)
	assert.Equal(t, "3.8", bal)
	offers, err := client.MarketGetOffersByMaker(ctx, testMaker, 2, 0)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(offers))
	assert.True(t, offers[0].Empty)
	assert.True(t, offers[1].Empty)

	// Admin
	t.Log("Update config...")
	err = client.MarketSetMinimumOffer(ctx, testOutsider, eth("1"))
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "caller is not the owner")
	assert.Nil(t, client.MarketSetMinimumOffer(ctx, testOwner, eth("1")))
	_, err = client.MarketMakeOffer(ctx, testMaker, testCollection, eth("0.5"))
	assert.NotNil(t, err)
	conf, err := client.MarketGetConfig(ctx)
	assert.Nil(t, err)
	assert.True(t, strings.EqualFold(testOwner, conf.Owner))
	assert.Equal(t, 0, conf.MinimumOffer.Cmp(eth("1")))

	// History
	t.Log("List history...")
	kinds := make([]string, 0)
	for ev := range client.MarketListHistory(ctx, 0, 100) {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []string{"config", "withdrawn", "made", "taken", "made", "taken", "made"}, kinds)

	// User route
	t.Log("Connect with the user token...")
	userClient, userCloser, err := api.NewClient(ctx, testPort, filepath.Join(testPath, api.TokenFile))
	require.Nil(t, err)
	defer userCloser()
	userAddr, err := userClient.MarketAddress(ctx)
	assert.Nil(t, err)
	assert.Equal(t, marketAddr, userAddr)
	_, _, err = api.NewDevClient(ctx, testPort, filepath.Join(testPath, api.TokenFile))
	assert.NotNil(t, err)
}
