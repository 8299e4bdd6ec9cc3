package node

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
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	logging "github.com/ipfs/go-log"
	"github.com/wcgcyx/floormkt/chain"
	"github.com/wcgcyx/floormkt/config"
	"github.com/wcgcyx/floormkt/market"
	"github.com/wcgcyx/floormkt/royalty"
	"github.com/wcgcyx/floormkt/version"
)

// Logger
var log = logging.Logger("node")

// Node contains all components of the system.
type Node struct {
	// Components
	Chain    chain.Chain
	Resolver *royalty.CachedResolver
	Market   *market.MarketImpl

	// Local collaborators, nil when served remotely.
	MockChain    *chain.MockChain
	RoyaltyTable *royalty.TableResolver

	// Shutdown
	shutdown func()
}

// NewNode creates a new node.
//
// @input - context, config.
//
// @output - node, error.
func NewNode(ctx context.Context, conf config.Config) (*Node, error) {
	// Configure loggings
	var err error
	levels := map[string]string{
		"apiserver":   conf.APIServerLoggingLevel,
		"market":      conf.MarketLoggingLevel,
		"ledgerstore": conf.LedgerLoggingLevel,
		"offerbook":   conf.OfferBookLoggingLevel,
		"admin":       conf.AdminLoggingLevel,
		"history":     conf.HistoryLoggingLevel,
		"royalty":     conf.RoyaltyLoggingLevel,
		"chain":       conf.ChainLoggingLevel,
	}
	for name, level := range levels {
		if level == "" {
			continue
		}
		if err = logging.SetLogLevel(name, level); err != nil {
			return nil, err
		}
	}
	log.Infof("Start floor market node %v...", version.Version)

	// Parse market settings
	marketAddr, err := parseAddress("market address", conf.MarketAddress, false)
	if err != nil {
		return nil, err
	}
	owner, err := parseAddress("market owner", conf.MarketOwner, false)
	if err != nil {
		return nil, err
	}
	feeAddr, err := parseAddress("market fee address", conf.MarketFeeAddress, false)
	if err != nil {
		return nil, err
	}
	registry, err := parseAddress("royalty resolver address", conf.RoyaltyResolverAddress, true)
	if err != nil {
		return nil, err
	}
	minimum, err := chain.ParseEther(conf.MarketMinimumOffer)
	if err != nil {
		return nil, fmt.Errorf("fail to parse minimum offer %v: %w", conf.MarketMinimumOffer, err)
	}

	// New chain
	var c chain.Chain
	var mock *chain.MockChain
	var closeChain func()
	if conf.ChainAPI == "" {
		log.Warnf("No chain api configured, use in-process mock chain")
		mock = chain.NewMockChain()
		c = mock
		closeChain = func() {}
	} else {
		rpcChain, err := chain.NewRPCChain(ctx, conf.ChainAPI, conf.ChainAuthToken)
		if err != nil {
			return nil, err
		}
		c = rpcChain
		closeChain = rpcChain.Shutdown
	}
	defer func() {
		if err != nil {
			closeChain()
		}
	}()

	// New royalty resolver
	var next royalty.Resolver
	var table *royalty.TableResolver
	var closeResolver func()
	if conf.RoyaltyAPI == "" {
		table = royalty.NewTableResolver()
		next = table
		closeResolver = func() {}
	} else {
		var rpcResolver *royalty.RPCResolver
		rpcResolver, err = royalty.NewRPCResolver(ctx, conf.RoyaltyAPI, conf.RoyaltyAuthToken)
		if err != nil {
			return nil, err
		}
		next = rpcResolver
		closeResolver = rpcResolver.Shutdown
	}
	defer func() {
		if err != nil {
			closeResolver()
		}
	}()
	resolver := royalty.NewCachedResolver(next, int(conf.RoyaltyCacheSize), conf.RoyaltyCacheTTL)

	// New market
	mkt, err := market.NewMarketImpl(ctx, c, c, resolver, market.Opts{
		Path:                   filepath.Join(conf.Path, "ledger"),
		Address:                marketAddr,
		Owner:                  owner,
		MarketFeeAddress:       feeAddr,
		RoyaltyResolverAddress: registry,
		MinimumOffer:           minimum,
	})
	if err != nil {
		return nil, err
	}
	shutdown := func() {
		mkt.Shutdown()
		resolver.Purge()
		closeResolver()
		closeChain()
	}
	return &Node{
		Chain:        c,
		Resolver:     resolver,
		Market:       mkt,
		MockChain:    mock,
		RoyaltyTable: table,
		shutdown:     shutdown,
	}, nil
}

// Shutdown safely closes all components and services.
func (n *Node) Shutdown() {
	n.shutdown()
}

// parseAddress parses a hex address.
//
// @input - name, hex string, whether empty is allowed.
//
// @output - address, error.
func parseAddress(name string, hex string, allowEmpty bool) (common.Address, error) {
	if hex == "" {
		if allowEmpty {
			return common.Address{}, nil
		}
		return common.Address{}, fmt.Errorf("empty %v", name)
	}
	if !common.IsHexAddress(hex) {
		return common.Address{}, fmt.Errorf("invalid %v %v", name, hex)
	}
	return common.HexToAddress(hex), nil
}
