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
	"os"
	"path/filepath"
	"time"

	"github.com/wcgcyx/floormkt/api"
	"github.com/wcgcyx/floormkt/chain"
	"github.com/wcgcyx/floormkt/config"
	"github.com/wcgcyx/floormkt/node"
)

const (
	testPath = "./test-ds"
	testPort = 19424

	// Market settings of the test node.
	testMarket   = "0x00000000000000000000000000000000000000B0"
	testOwner    = "0x00000000000000000000000000000000000000D1"
	testFeeAddr  = "0x00000000000000000000000000000000000000F1"
	testRegistry = "0x00000000000000000000000000000000000000E1"
)

// testConfig gets the config of the test node.
//
// @output - config.
func testConfig() config.Config {
	return config.Config{
		Path:                   testPath,
		APIPort:                testPort,
		APIDevMode:             true,
		MarketAddress:          testMarket,
		MarketOwner:            testOwner,
		MarketFeeAddress:       testFeeAddr,
		MarketMinimumOffer:     "0.01",
		RoyaltyResolverAddress: testRegistry,
		RoyaltyCacheSize:       16,
		RoyaltyCacheTTL:        time.Minute,
	}
}

// startNode starts a node with a dev API server and connects a dev client to it.
//
// @input - context.
//
// @output - dev client, shutdown function, error.
func startNode(ctx context.Context) (api.DevAPI, func(), error) {
	os.RemoveAll(testPath)
	err := os.Mkdir(testPath, os.ModePerm)
	if err != nil {
		return api.DevAPI{}, nil, err
	}
	conf := testConfig()
	n, err := node.NewNode(ctx, conf)
	if err != nil {
		return api.DevAPI{}, nil, err
	}
	server, err := api.NewServer(n, int(conf.APIPort), conf.APIDevMode, conf.Path)
	if err != nil {
		n.Shutdown()
		return api.DevAPI{}, nil, err
	}
	client, closer, err := api.NewDevClient(ctx, int(conf.APIPort), filepath.Join(conf.Path, api.DevTokenFile))
	if err != nil {
		server.Shutdown()
		n.Shutdown()
		return api.DevAPI{}, nil, err
	}
	return client, func() {
		closer()
		server.Shutdown()
		n.Shutdown()
		os.RemoveAll(testPath)
	}, nil
}

// eth parses an ether amount.
func eth(s string) *big.Int {
	v, err := chain.ParseEther(s)
	if err != nil {
		panic(err)
	}
	return v
}

// balanceOf gets the balance of an account in ether.
//
// @input - context, client, address.
//
// @output - balance in ether, error.
func balanceOf(ctx context.Context, client api.DevAPI, addr string) (string, error) {
	bal, err := client.ChainBalance(ctx, addr)
	if err != nil {
		return "", err
	}
	return chain.FormatEther(bal), nil
}
