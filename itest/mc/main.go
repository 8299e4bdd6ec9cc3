package main

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
	"encoding/json"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/wcgcyx/floormkt/chain"
)

type Token struct {
	Collection string `json:"collection"`
	Owner      string `json:"owner"`
	TokenID    string `json:"id"`
}

type Operator struct {
	Collection string `json:"collection"`
	Owner      string `json:"owner"`
	Operator   string `json:"operator"`
}

type Genesis struct {
	Balances  map[string]string `json:"bals"`
	Tokens    []Token           `json:"tokens"`
	Operators []Operator        `json:"operators"`
}

// This is the main program for mock chain.
func main() {
	l, err := net.Listen("tcp", "0.0.0.0:9010")
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	mc := chain.NewMockChain()

	// Try to load genesis from ./mc.json
	data, err := os.ReadFile("./mc.json")
	if err == nil {
		genesis := Genesis{}
		err = json.Unmarshal(data, &genesis)
		if err != nil {
			fmt.Printf("Fail to load genesis: %v, continue 0.\n", err.Error())
		} else if err = load(mc, genesis); err != nil {
			fmt.Printf("Fail to load genesis: %v, continue 1.\n", err.Error())
		}
	}

	// Start the server
	server := &http.Server{Handler: mc.Handler()}
	go server.Serve(l)
	defer server.Close()

	c := make(chan os.Signal, 1)
	signal.Notify(c,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	fmt.Printf("Mock chain served at: http://%v\n", l.Addr().String())
	// Loop forever.
	for {
		// Loop forever, until exit
		<-c
		break
	}
	fmt.Println("Graceful shutdown mc...")
}

// load applies a genesis to the mock chain.
func load(mc *chain.MockChain, genesis Genesis) error {
	ctx := context.Background()
	for addr, bal := range genesis.Balances {
		amt, err := chain.ParseEther(bal)
		if err != nil {
			return err
		}
		err = mc.Fund(ctx, common.HexToAddress(addr), amt)
		if err != nil {
			return err
		}
	}
	for _, token := range genesis.Tokens {
		id, ok := big.NewInt(0).SetString(token.TokenID, 10)
		if !ok {
			return fmt.Errorf("invalid token id %v", token.TokenID)
		}
		err := mc.Mint(ctx, common.HexToAddress(token.Collection), common.HexToAddress(token.Owner), id)
		if err != nil {
			return err
		}
	}
	for _, op := range genesis.Operators {
		err := mc.SetApprovalForAll(ctx, common.HexToAddress(op.Collection), common.HexToAddress(op.Owner), common.HexToAddress(op.Operator), true)
		if err != nil {
			return err
		}
	}
	return nil
}
