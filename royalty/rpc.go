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
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/filecoin-project/go-jsonrpc"
)

const (
	// RPCNamespace is the json rpc namespace of a remote royalty registry.
	RPCNamespace = "Royalty"
)

// remoteAPI is the api exposed by a remote royalty registry.
type remoteAPI struct {
	RoyaltiesFor func(ctx context.Context, registry common.Address, collection common.Address, tokenID *big.Int, value *big.Int) ([]Royalty, error)
}

// RPCResolver is a Resolver backed by a remote registry over json rpc.
type RPCResolver struct {
	api    remoteAPI
	closer jsonrpc.ClientCloser
}

// NewRPCResolver creates a new rpc resolver.
//
// @input - context, api address, auth token (can be empty).
//
// @output - rpc resolver, error.
func NewRPCResolver(ctx context.Context, apiAddr string, authToken string) (*RPCResolver, error) {
	var api remoteAPI
	headers := http.Header{}
	if authToken != "" {
		headers.Add("Authorization", "Bearer "+authToken)
	}
	closer, err := jsonrpc.NewClient(ctx, apiAddr, RPCNamespace, &api, headers)
	if err != nil {
		log.Errorf("Fail to create royalty registry client to %v: %v", apiAddr, err.Error())
		return nil, err
	}
	return &RPCResolver{api: api, closer: closer}, nil
}

// RoyaltiesFor gets the royalties owed on a sale.
//
// @input - context, registry address, collection, token id, sale value.
//
// @output - royalties, error.
func (r *RPCResolver) RoyaltiesFor(ctx context.Context, registry common.Address, collection common.Address, tokenID *big.Int, value *big.Int) ([]Royalty, error) {
	if registry == (common.Address{}) {
		return []Royalty{}, nil
	}
	res, err := r.api.RoyaltiesFor(ctx, registry, collection, tokenID, value)
	if err != nil {
		log.Debugf("Fail to query remote royalty registry: %v", err.Error())
		return nil, err
	}
	if res == nil {
		res = []Royalty{}
	}
	return res, nil
}

// Shutdown safely shuts down the component.
func (r *RPCResolver) Shutdown() {
	log.Infof("Start shutdown...")
	r.closer()
}
