package cli

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
	"fmt"
	"math/big"

	"github.com/urfave/cli/v2"
	"github.com/wcgcyx/floormkt/chain"
	"github.com/wcgcyx/floormkt/version"
)

// NewCLI creates a CLI app.
func NewCLI() *cli.App {
	app := &cli.App{
		Name:      "floormkt",
		HelpName:  "floormkt",
		Usage:     "A floor price offer market for ERC-721 collections",
		UsageText: "floormkt [global options] command [arguments...]",
		Version:   version.Version,
		Description: "\n\t This is a floor price offer market for ERC-721 collections.\n\n" +
			"\t Buyers escrow native currency against a collection as a\n" +
			"\t standing offer for any one token of it.\n\n" +
			"\t -OR-\n\n" +
			"\t Holders sell any token of the collection into a standing\n" +
			"\t offer. The market takes a fee, pays the creator royalties\n" +
			"\t and sends the rest to the seller.\n",
		Authors: []*cli.Author{
			{
				Name:  "wcgcyx",
				Email: "wcgcyx@gmail.com",
			},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   9424,
				Usage:   "specify floormkt local api port",
			},
			&cli.PathFlag{
				Name:    "auth",
				Aliases: []string{"a"},
				Value:   "",
				Usage:   "specify floormkt api token file",
			},
		},
	}
	app.Commands = []*cli.Command{
		DaemonCMD,
		OfferCMD,
		AdminCMD,
		RoyaltyCMD,
		HistoryCMD,
		ChainCMD,
		DevCMD,
		{
			Name:        "version",
			Usage:       "get floormkt version",
			Description: "Get the floormkt version",
			ArgsUsage:   " ",
			Action: func(c *cli.Context) error {
				fmt.Println("floormkt version: ", version.Version)
				return nil
			},
		},
	}
	return app
}

// usageError is used to generate the usage error.
//
// @input - cli context, error.
//
// @output - error.
func usageError(c *cli.Context, err error) error {
	fmt.Println("Usage:", c.App.Name, c.Command.Name, c.Command.ArgsUsage)
	return fmt.Errorf("Incorrect usage: %v", err.Error())
}

// parseTokenID parses a decimal token id.
//
// @input - string.
//
// @output - token id, error.
func parseTokenID(s string) (*big.Int, error) {
	tokenID, ok := big.NewInt(0).SetString(s, 10)
	if !ok || tokenID.Sign() < 0 {
		return nil, fmt.Errorf("invalid token id %v", s)
	}
	return tokenID, nil
}

// parseUint parses a decimal uint64.
//
// @input - string.
//
// @output - value, error.
func parseUint(s string) (uint64, error) {
	v, ok := big.NewInt(0).SetString(s, 10)
	if !ok || !v.IsUint64() {
		return 0, fmt.Errorf("invalid number %v", s)
	}
	return v.Uint64(), nil
}

// formatEther formats a wei amount, nil prints as a dash.
//
// @input - amount.
//
// @output - string.
func formatEther(v *big.Int) string {
	if v == nil {
		return "-"
	}
	return chain.FormatEther(v) + " ETH"
}
