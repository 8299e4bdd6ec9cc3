package daemon

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
	"os"
	"os/signal"
	"syscall"
	"time"

	logging "github.com/ipfs/go-log"
	"github.com/wcgcyx/floormkt/api"
	"github.com/wcgcyx/floormkt/chain"
	"github.com/wcgcyx/floormkt/config"
	"github.com/wcgcyx/floormkt/node"
)

// Logger
var log = logging.Logger("daemon")

// Daemon starts a daemon from a config file.
//
// @input - context, config file.
//
// @output - error.
func Daemon(ctx context.Context, configFile string) error {
	logging.SetLogLevel("daemon", "INFO")
	// Load config
	log.Infof("Load configuration...")
	conf, err := config.NewConfig(configFile)
	if err != nil {
		return err
	}
	err = os.MkdirAll(conf.Path, os.ModePerm)
	if err != nil {
		return err
	}
	// Start node
	log.Infof("Start daemon...")
	node, err := node.NewNode(ctx, conf)
	if err != nil {
		return err
	}
	// Start API Server
	log.Infof("Start serving API...")
	apiServer, err := api.NewServer(node, int(conf.APIPort), conf.APIDevMode, conf.Path)
	if err != nil {
		defer node.Shutdown()
		return err
	}
	c := make(chan os.Signal, 1)
	signal.Notify(c,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	log.Infof("Daemon started.")
	// Do initial check.
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go check(subCtx, node)
	for {
		// Loop forever, until exit
		<-c
		break
	}
	log.Infof("Graceful shutdown daemon...")
	cancel()
	apiServer.Shutdown()
	node.Shutdown()
	log.Infof("Daemon stopped.")
	return nil
}

// check reports the market config and the chain it settles on.
//
// @input - context, node.
func check(ctx context.Context, node *node.Node) {
	// Wait for 1 second.
	after := time.After(1 * time.Second)
	select {
	case <-after:
		log.Infof("Start checking...")
		conf, err := node.Market.GetConfig(ctx)
		if err != nil {
			log.Warnf("Fail to read market config: %v", err.Error())
			return
		}
		log.Infof("Market %v owned by %v, fee to %v, minimum offer %v", node.Market.Address().Hex(), conf.Owner.Hex(), conf.MarketFeeAddress.Hex(), chain.FormatEther(conf.MinimumOffer))
		subCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		escrow, err := node.Chain.EscrowBalance(subCtx)
		if err != nil {
			log.Warnf("Fail to reach chain: %v", err.Error())
			return
		}
		log.Infof("Initial check done, %v held in escrow.", chain.FormatEther(escrow))
	case <-ctx.Done():
		log.Warnf("Stopping initial check: %v", ctx.Err().Error())
	}
}
