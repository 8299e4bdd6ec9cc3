package chain

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
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/filecoin-project/go-jsonrpc"
)

const (
	// RPCNamespace is the json rpc namespace of a chain gateway.
	RPCNamespace = "Chain"
)

// remoteAPI is the api exposed by a chain gateway.
type remoteAPI struct {
	OwnerOf       func(ctx context.Context, collection common.Address, tokenID *big.Int) (common.Address, error)
	TransferFrom  func(ctx context.Context, collection common.Address, operator common.Address, from common.Address, to common.Address, tokenID *big.Int) error
	Deposit       func(ctx context.Context, from common.Address, amt *big.Int) error
	Pay           func(ctx context.Context, payments []Payment) error
	Settle        func(ctx context.Context, collection common.Address, operator common.Address, from common.Address, to common.Address, tokenID *big.Int, payments []Payment) error
	Balance       func(ctx context.Context, addr common.Address) (*big.Int, error)
	EscrowBalance func(ctx context.Context) (*big.Int, error)
}

// RPCChain is a Chain backed by a remote gateway over json rpc.
type RPCChain struct {
	api    remoteAPI
	closer jsonrpc.ClientCloser
}

// NewRPCChain creates a new rpc chain.
//
// @input - context, api address, auth token (can be empty).
//
// @output - rpc chain, error.
func NewRPCChain(ctx context.Context, apiAddr string, authToken string) (*RPCChain, error) {
	var api remoteAPI
	headers := http.Header{}
	if authToken != "" {
		headers.Add("Authorization", "Bearer "+authToken)
	}
	closer, err := jsonrpc.NewClient(ctx, apiAddr, RPCNamespace, &api, headers)
	if err != nil {
		log.Errorf("Fail to create chain client to %v: %v", apiAddr, err.Error())
		return nil, err
	}
	return &RPCChain{api: api, closer: closer}, nil
}

// Shutdown safely shuts down the component.
func (c *RPCChain) Shutdown() {
	log.Infof("Start shutdown...")
	c.closer()
}

// OwnerOf gets the owner of a token.
//
// @input - context, collection, token id.
//
// @output - owner, error.
func (c *RPCChain) OwnerOf(ctx context.Context, collection common.Address, tokenID *big.Int) (common.Address, error) {
	return c.api.OwnerOf(ctx, collection, tokenID)
}

// TransferFrom transfers a token on behalf of the operator.
//
// @input - context, collection, operator, from, to, token id.
//
// @output - error.
func (c *RPCChain) TransferFrom(ctx context.Context, collection common.Address, operator common.Address, from common.Address, to common.Address, tokenID *big.Int) error {
	return c.api.TransferFrom(ctx, collection, operator, from, to, tokenID)
}

// Deposit moves funds from an account into escrow.
//
// @input - context, from, amount.
//
// @output - error.
func (c *RPCChain) Deposit(ctx context.Context, from common.Address, amt *big.Int) error {
	return c.api.Deposit(ctx, from, amt)
}

// Pay pays out of escrow.
//
// @input - context, payments.
//
// @output - error.
func (c *RPCChain) Pay(ctx context.Context, payments []Payment) error {
	return c.api.Pay(ctx, payments)
}

// Settle transfers a token and pays out of escrow in one gateway transaction.
//
// @input - context, collection, operator, from, to, token id, payments.
//
// @output - error.
func (c *RPCChain) Settle(ctx context.Context, collection common.Address, operator common.Address, from common.Address, to common.Address, tokenID *big.Int, payments []Payment) error {
	return c.api.Settle(ctx, collection, operator, from, to, tokenID, payments)
}

// Balance gets the balance of an account.
//
// @input - context, address.
//
// @output - balance, error.
func (c *RPCChain) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	return c.api.Balance(ctx, addr)
}

// EscrowBalance gets the funds held in escrow.
//
// @input - context.
//
// @output - escrow balance, error.
func (c *RPCChain) EscrowBalance(ctx context.Context) (*big.Int, error) {
	return c.api.EscrowBalance(ctx)
}

// mockHandler serves a mocked chain over json rpc.
type mockHandler struct {
	m *MockChain
}

func (h *mockHandler) OwnerOf(ctx context.Context, collection common.Address, tokenID *big.Int) (common.Address, error) {
	return h.m.OwnerOf(ctx, collection, tokenID)
}

func (h *mockHandler) TransferFrom(ctx context.Context, collection common.Address, operator common.Address, from common.Address, to common.Address, tokenID *big.Int) error {
	return h.m.TransferFrom(ctx, collection, operator, from, to, tokenID)
}

func (h *mockHandler) Deposit(ctx context.Context, from common.Address, amt *big.Int) error {
	return h.m.Deposit(ctx, from, amt)
}

func (h *mockHandler) Pay(ctx context.Context, payments []Payment) error {
	return h.m.Pay(ctx, payments)
}

func (h *mockHandler) Settle(ctx context.Context, collection common.Address, operator common.Address, from common.Address, to common.Address, tokenID *big.Int, payments []Payment) error {
	return h.m.Settle(ctx, collection, operator, from, to, tokenID, payments)
}

func (h *mockHandler) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	return h.m.Balance(ctx, addr)
}

func (h *mockHandler) EscrowBalance(ctx context.Context) (*big.Int, error) {
	return h.m.EscrowBalance(ctx)
}
