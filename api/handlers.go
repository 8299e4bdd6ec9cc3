package api

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

	"github.com/ethereum/go-ethereum/common"
	"github.com/wcgcyx/floormkt/history"
	"github.com/wcgcyx/floormkt/node"
	"github.com/wcgcyx/floormkt/offerbook"
	"github.com/wcgcyx/floormkt/royalty"
	"github.com/wcgcyx/floormkt/version"
)

// userAPIHandler is used to handle user API.
type userAPIHandler struct {
	node *node.Node
}

// Version API
func (h *userAPIHandler) Version(ctx context.Context) (string, error) {
	return version.Version, nil
}

// Market API
func (h *userAPIHandler) MarketAddress(ctx context.Context) (string, error) {
	return h.node.Market.Address().Hex(), nil
}

func (h *userAPIHandler) MarketMakeOffer(ctx context.Context, maker string, collection string, value *big.Int) (uint64, error) {
	makerAddr, err := toAddr(maker)
	if err != nil {
		return 0, err
	}
	collectionAddr, err := toAddr(collection)
	if err != nil {
		return 0, err
	}
	return h.node.Market.MakeOffer(ctx, makerAddr, collectionAddr, value)
}

func (h *userAPIHandler) MarketWithdrawOffer(ctx context.Context, caller string, id uint64) error {
	callerAddr, err := toAddr(caller)
	if err != nil {
		return err
	}
	return h.node.Market.WithdrawOffer(ctx, callerAddr, id)
}

func (h *userAPIHandler) MarketTakeOffer(ctx context.Context, taker string, id uint64, tokenID *big.Int) (MarketTakeOfferRes, error) {
	takerAddr, err := toAddr(taker)
	if err != nil {
		return MarketTakeOfferRes{}, err
	}
	split, err := h.node.Market.TakeOffer(ctx, takerAddr, id, tokenID)
	if err != nil {
		return MarketTakeOfferRes{}, err
	}
	return MarketTakeOfferRes{
		Value:     split.Value,
		Fee:       split.Fee,
		Royalties: toRoyaltyRes(split.Royalties),
		Remainder: split.Remainder,
	}, nil
}

func (h *userAPIHandler) MarketGetOffer(ctx context.Context, id uint64) (MarketOfferRes, error) {
	offer, err := h.node.Market.GetOffer(ctx, id)
	if err != nil {
		return MarketOfferRes{}, err
	}
	return toOfferRes(offer), nil
}

func (h *userAPIHandler) MarketGetOffersByCollection(ctx context.Context, collection string, pageSize uint64, pageIndex uint64) ([]MarketOfferRes, error) {
	collectionAddr, err := toAddr(collection)
	if err != nil {
		return nil, err
	}
	offers, err := h.node.Market.GetOffersByCollection(ctx, collectionAddr, pageSize, pageIndex)
	if err != nil {
		return nil, err
	}
	return toOffersRes(offers), nil
}

func (h *userAPIHandler) MarketGetOffersByCollectionCount(ctx context.Context, collection string) (uint64, error) {
	collectionAddr, err := toAddr(collection)
	if err != nil {
		return 0, err
	}
	return h.node.Market.GetOffersByCollectionCount(ctx, collectionAddr)
}

func (h *userAPIHandler) MarketGetOffersByMaker(ctx context.Context, maker string, pageSize uint64, pageIndex uint64) ([]MarketOfferRes, error) {
	makerAddr, err := toAddr(maker)
	if err != nil {
		return nil, err
	}
	offers, err := h.node.Market.GetOffersByMaker(ctx, makerAddr, pageSize, pageIndex)
	if err != nil {
		return nil, err
	}
	return toOffersRes(offers), nil
}

func (h *userAPIHandler) MarketGetOffersByMakerCount(ctx context.Context, maker string) (uint64, error) {
	makerAddr, err := toAddr(maker)
	if err != nil {
		return 0, err
	}
	return h.node.Market.GetOffersByMakerCount(ctx, makerAddr)
}

func (h *userAPIHandler) MarketGetRoyalties(ctx context.Context, collection string, tokenID *big.Int, value *big.Int) ([]MarketRoyaltyRes, error) {
	collectionAddr, err := toAddr(collection)
	if err != nil {
		return nil, err
	}
	royalties, err := h.node.Market.GetRoyalties(ctx, collectionAddr, tokenID, value)
	if err != nil {
		return nil, err
	}
	return toRoyaltyRes(royalties), nil
}

func (h *userAPIHandler) MarketGetConfig(ctx context.Context) (MarketGetConfigRes, error) {
	conf, err := h.node.Market.GetConfig(ctx)
	if err != nil {
		return MarketGetConfigRes{}, err
	}
	return MarketGetConfigRes{
		Owner:                  conf.Owner.Hex(),
		MarketFeeAddress:       conf.MarketFeeAddress.Hex(),
		RoyaltyResolverAddress: conf.RoyaltyResolverAddress.Hex(),
		MinimumOffer:           conf.MinimumOffer,
	}, nil
}

func (h *userAPIHandler) MarketSetMarketFeeAddress(ctx context.Context, caller string, addr string) error {
	callerAddr, err := toAddr(caller)
	if err != nil {
		return err
	}
	feeAddr, err := toAddr(addr)
	if err != nil {
		return err
	}
	return h.node.Market.SetMarketFeeAddress(ctx, callerAddr, feeAddr)
}

func (h *userAPIHandler) MarketSetRoyaltyResolverAddress(ctx context.Context, caller string, addr string) error {
	callerAddr, err := toAddr(caller)
	if err != nil {
		return err
	}
	registry := common.Address{}
	if addr != "" {
		registry, err = toAddr(addr)
		if err != nil {
			return err
		}
	}
	return h.node.Market.SetRoyaltyResolverAddress(ctx, callerAddr, registry)
}

func (h *userAPIHandler) MarketSetMinimumOffer(ctx context.Context, caller string, minimum *big.Int) error {
	callerAddr, err := toAddr(caller)
	if err != nil {
		return err
	}
	return h.node.Market.SetMinimumOffer(ctx, callerAddr, minimum)
}

func (h *userAPIHandler) MarketTransferOwnership(ctx context.Context, caller string, owner string) error {
	callerAddr, err := toAddr(caller)
	if err != nil {
		return err
	}
	ownerAddr, err := toAddr(owner)
	if err != nil {
		return err
	}
	return h.node.Market.TransferOwnership(ctx, callerAddr, ownerAddr)
}

func (h *userAPIHandler) MarketListHistory(ctx context.Context, offset uint64, limit uint64) <-chan MarketListHistoryRes {
	res := make(chan MarketListHistoryRes, 32)
	go func() {
		defer close(res)
		evs, err := h.node.Market.ListHistory(ctx, offset, limit)
		if err != nil {
			log.Warnf("Fail to list history: %v", err.Error())
			return
		}
		for _, ev := range evs {
			select {
			case res <- toHistoryRes(ev):
			case <-ctx.Done():
				return
			}
		}
	}()
	return res
}

// Chain API
func (h *userAPIHandler) ChainOwnerOf(ctx context.Context, collection string, tokenID *big.Int) (string, error) {
	collectionAddr, err := toAddr(collection)
	if err != nil {
		return "", err
	}
	owner, err := h.node.Chain.OwnerOf(ctx, collectionAddr, tokenID)
	if err != nil {
		return "", err
	}
	return owner.Hex(), nil
}

func (h *userAPIHandler) ChainBalance(ctx context.Context, addr string) (*big.Int, error) {
	account, err := toAddr(addr)
	if err != nil {
		return nil, err
	}
	return h.node.Chain.Balance(ctx, account)
}

func (h *userAPIHandler) ChainEscrowBalance(ctx context.Context) (*big.Int, error) {
	return h.node.Chain.EscrowBalance(ctx)
}

// Royalty API
func (h *userAPIHandler) RoyaltyPurgeCache(ctx context.Context) error {
	h.node.Resolver.Purge()
	return nil
}

type devHandler struct {
	userAPIHandler
	node *node.Node
}

// Chain API
func (h *devHandler) ChainMint(ctx context.Context, collection string, to string, tokenID *big.Int) error {
	if h.node.MockChain == nil {
		return fmt.Errorf("no local chain")
	}
	collectionAddr, err := toAddr(collection)
	if err != nil {
		return err
	}
	toAccount, err := toAddr(to)
	if err != nil {
		return err
	}
	return h.node.MockChain.Mint(ctx, collectionAddr, toAccount, tokenID)
}

func (h *devHandler) ChainApprove(ctx context.Context, collection string, caller string, to string, tokenID *big.Int) error {
	if h.node.MockChain == nil {
		return fmt.Errorf("no local chain")
	}
	collectionAddr, err := toAddr(collection)
	if err != nil {
		return err
	}
	callerAddr, err := toAddr(caller)
	if err != nil {
		return err
	}
	toAccount, err := toAddr(to)
	if err != nil {
		return err
	}
	return h.node.MockChain.Approve(ctx, collectionAddr, callerAddr, toAccount, tokenID)
}

func (h *devHandler) ChainSetApprovalForAll(ctx context.Context, collection string, caller string, operator string, approved bool) error {
	if h.node.MockChain == nil {
		return fmt.Errorf("no local chain")
	}
	collectionAddr, err := toAddr(collection)
	if err != nil {
		return err
	}
	callerAddr, err := toAddr(caller)
	if err != nil {
		return err
	}
	operatorAddr, err := toAddr(operator)
	if err != nil {
		return err
	}
	return h.node.MockChain.SetApprovalForAll(ctx, collectionAddr, callerAddr, operatorAddr, approved)
}

func (h *devHandler) ChainFund(ctx context.Context, addr string, amt *big.Int) error {
	if h.node.MockChain == nil {
		return fmt.Errorf("no local chain")
	}
	account, err := toAddr(addr)
	if err != nil {
		return err
	}
	return h.node.MockChain.Fund(ctx, account, amt)
}

// Royalty API
func (h *devHandler) RoyaltySetCollectionRules(ctx context.Context, collection string, rules []RoyaltyRuleReq) error {
	if h.node.RoyaltyTable == nil {
		return fmt.Errorf("no local royalty table")
	}
	collectionAddr, err := toAddr(collection)
	if err != nil {
		return err
	}
	parsed, err := toRules(rules)
	if err != nil {
		return err
	}
	err = h.node.RoyaltyTable.SetCollectionRules(ctx, collectionAddr, parsed)
	if err != nil {
		return err
	}
	h.node.Resolver.Purge()
	return nil
}

func (h *devHandler) RoyaltySetTokenRules(ctx context.Context, collection string, tokenID *big.Int, rules []RoyaltyRuleReq) error {
	if h.node.RoyaltyTable == nil {
		return fmt.Errorf("no local royalty table")
	}
	collectionAddr, err := toAddr(collection)
	if err != nil {
		return err
	}
	parsed, err := toRules(rules)
	if err != nil {
		return err
	}
	err = h.node.RoyaltyTable.SetTokenRules(ctx, collectionAddr, tokenID, parsed)
	if err != nil {
		return err
	}
	h.node.Resolver.Purge()
	return nil
}

// toAddr parses a hex address.
func toAddr(hex string) (common.Address, error) {
	if !common.IsHexAddress(hex) {
		return common.Address{}, fmt.Errorf("invalid address %v", hex)
	}
	return common.HexToAddress(hex), nil
}

// toRules parses royalty rules, nil stays nil.
func toRules(rules []RoyaltyRuleReq) ([]royalty.Rule, error) {
	if rules == nil {
		return nil, nil
	}
	res := make([]royalty.Rule, 0, len(rules))
	for _, rule := range rules {
		recipient, err := toAddr(rule.Recipient)
		if err != nil {
			return nil, err
		}
		res = append(res, royalty.Rule{Recipient: recipient, BasisPoints: rule.BasisPoints})
	}
	return res, nil
}

func toOfferRes(offer offerbook.Offer) MarketOfferRes {
	return MarketOfferRes{
		ID:         offer.ID,
		Collection: offer.Collection.Hex(),
		Maker:      offer.Maker.Hex(),
		Value:      offer.Value,
		Empty:      offer.IsEmpty(),
	}
}

func toOffersRes(offers []offerbook.Offer) []MarketOfferRes {
	res := make([]MarketOfferRes, 0, len(offers))
	for _, offer := range offers {
		res = append(res, toOfferRes(offer))
	}
	return res
}

func toRoyaltyRes(royalties []royalty.Royalty) []MarketRoyaltyRes {
	res := make([]MarketRoyaltyRes, 0, len(royalties))
	for _, r := range royalties {
		res = append(res, MarketRoyaltyRes{Recipient: r.Recipient.Hex(), Amount: r.Amount})
	}
	return res
}

func toHistoryRes(ev history.Event) MarketListHistoryRes {
	res := MarketListHistoryRes{
		Seq:         ev.Seq,
		Kind:        ev.Kind,
		OfferID:     ev.OfferID,
		Value:       ev.Value,
		TokenID:     ev.TokenID,
		Fee:         ev.Fee,
		Royalty:     ev.Royalty,
		Description: ev.Description,
		CreatedAt:   ev.CreatedAt,
	}
	if ev.Kind != history.ConfigChanged {
		res.Collection = ev.Collection.Hex()
		res.Maker = ev.Maker.Hex()
	}
	if ev.Kind == history.OfferTaken {
		res.Taker = ev.Taker.Hex()
	}
	return res
}
