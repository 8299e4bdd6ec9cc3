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
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/filecoin-project/go-jsonrpc"
	logging "github.com/ipfs/go-log"
	"github.com/wcgcyx/floormkt/node"
)

// Logger
var log = logging.Logger("apiserver")

const (
	// UserNamespace is the json rpc namespace of the user API.
	UserNamespace = "FLOORMKT"

	// DevNamespace is the json rpc namespace of the dev API.
	DevNamespace = "FLOORMKT-DEV"

	// Routes of the APIs, each guarded by its own token.
	UserRoute = "/rpc/v0"
	DevRoute  = "/rpc/dev"

	// Token files under the token path.
	TokenFile    = "token"
	DevTokenFile = "dev-token"
)

// Server is the api server.
type Server struct {
	s *http.Server
}

// NewServer creates a new API server.
//
// @input - node, port, dev mode, token path.
//
// @output - server, error.
func NewServer(node *node.Node, port int, dev bool, tokenPath string) (*Server, error) {
	log.Infof("Start API server...")
	token, err := loadOrCreate(tokenPath, TokenFile)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	// New jsonrpc server
	rpc := jsonrpc.NewServer()
	userHandle := userAPIHandler{
		node: node,
	}
	rpc.Register(UserNamespace, &userHandle)
	mux.Handle(UserRoute, &AuthHandler{
		route: UserRoute,
		token: token,
		Next:  rpc.ServeHTTP,
	})
	if dev {
		devToken, err := loadOrCreate(tokenPath, DevTokenFile)
		if err != nil {
			return nil, err
		}
		devRPC := jsonrpc.NewServer()
		devHandle := devHandler{
			userHandle,
			node,
		}
		devRPC.Register(DevNamespace, &devHandle)
		mux.Handle(DevRoute, &AuthHandler{
			route: DevRoute,
			token: devToken,
			Next:  devRPC.ServeHTTP,
		})
		log.Warnf("Dev APIs are served at %v.", DevRoute)
	}
	s := &http.Server{
		Addr:           fmt.Sprintf("localhost:%v", port),
		Handler:        mux,
		ReadTimeout:    60 * time.Second,
		WriteTimeout:   60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	errChan := make(chan error, 1)
	go func() {
		// Start server.
		errChan <- s.ListenAndServe()
	}()
	// Wait for 3 seconds for the server to start
	tc := time.After(3 * time.Second)
	select {
	case <-tc:
		return &Server{s}, nil
	case err := <-errChan:
		return nil, err
	}
}

// Shutdown safely shuts down the component.
func (s *Server) Shutdown() {
	log.Infof("Start shutdown...")
	err := s.s.Shutdown(context.Background())
	if err != nil {
		log.Errorf("Fail to shutdown API server: %v", err.Error())
	}
}

// loadOrCreate is used to load a token from a token path or if not exists, create.
//
// @input - token path, token file name.
//
// @output - token, error.
func loadOrCreate(tokenPath string, name string) (string, error) {
	tokenFile := path.Join(tokenPath, name)
	token := ""
	// Check if file exists.
	_, err := os.Stat(tokenFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		// Not exist, generate and save a token.
		// For now, just use random 32 bytes hex string.
		// TODO: Move to JWT in the future.
		data := make([]byte, 32)
		_, err = rand.Read(data)
		if err != nil {
			return "", err
		}
		token = hex.EncodeToString(data)
		// Save
		err = os.WriteFile(tokenFile, []byte(token), os.ModePerm)
		if err != nil {
			return "", err
		}
	} else {
		// Load token
		data, err := os.ReadFile(tokenFile)
		if err != nil {
			return "", err
		}
		token = string(data)
	}
	return token, nil
}
