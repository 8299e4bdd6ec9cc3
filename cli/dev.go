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
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/wcgcyx/floormkt/api"
	"github.com/wcgcyx/floormkt/chain"
)

// Dev command.
var DevCMD = &cli.Command{
	Name:        "dev",
	Usage:       "access dev functions",
	Description: "This command outputs a list of dev functions, only served in dev mode",
	ArgsUsage:   " ",
	Hidden:      true,
	Flags: []cli.Flag{
		&cli.PathFlag{
			Name:  "dev-auth",
			Value: "",
			Usage: "specify floormkt dev api token file",
		},
	},
	Subcommands: []*cli.Command{
		DevMintCMD,
		DevApproveAllCMD,
		DevFundCMD,
		DevRoyaltyCMD,
	},
}

var DevMintCMD = &cli.Command{
	Name:        "mint",
	Usage:       "mint a token",
	Description: "Mint a token of a collection on the local chain",
	ArgsUsage:   "[collection, to, token id]",
	Action: func(c *cli.Context) error {
		tokenID, err := parseTokenID(c.Args().Get(2))
		if err != nil {
			return usageError(c, fmt.Errorf("fail to parse token id: %v", err.Error()))
		}
		client, closer, err := api.NewDevClient(c.Context, c.Int("port"), c.Path("dev-auth"))
		if err != nil {
			return err
		}
		defer closer()
		err = client.ChainMint(c.Context, c.Args().Get(0), c.Args().Get(1), tokenID)
		if err != nil {
			return err
		}
		fmt.Println("Succeed")
		return nil
	},
}

var DevApproveAllCMD = &cli.Command{
	Name:        "approve-all",
	Usage:       "approve an operator",
	Description: "Let an operator move every token an owner holds in a collection on the local chain",
	ArgsUsage:   "[collection, owner, operator]",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "revoke",
			Aliases: []string{"r"},
			Usage:   "revoke instead of approve",
		},
	},
	Action: func(c *cli.Context) error {
		client, closer, err := api.NewDevClient(c.Context, c.Int("port"), c.Path("dev-auth"))
		if err != nil {
			return err
		}
		defer closer()
		err = client.ChainSetApprovalForAll(c.Context, c.Args().Get(0), c.Args().Get(1), c.Args().Get(2), !c.Bool("revoke"))
		if err != nil {
			return err
		}
		fmt.Println("Succeed")
		return nil
	},
}

var DevFundCMD = &cli.Command{
	Name:        "fund",
	Usage:       "fund an account",
	Description: "Credit an account on the local chain",
	ArgsUsage:   "[address, amount in ether]",
	Action: func(c *cli.Context) error {
		amt, err := chain.ParseEther(c.Args().Get(1))
		if err != nil {
			return usageError(c, fmt.Errorf("fail to parse amount: %v", err.Error()))
		}
		client, closer, err := api.NewDevClient(c.Context, c.Int("port"), c.Path("dev-auth"))
		if err != nil {
			return err
		}
		defer closer()
		err = client.ChainFund(c.Context, c.Args().Get(0), amt)
		if err != nil {
			return err
		}
		fmt.Println("Succeed")
		return nil
	},
}

var DevRoyaltyCMD = &cli.Command{
	Name:        "royalty",
	Usage:       "set royalty rules",
	Description: "Set the royalty rules of a collection, or of one token with --token, as recipient:basis-points pairs",
	ArgsUsage:   "[collection, recipient:bps...]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "token",
			Aliases: []string{"t"},
			Usage:   "specify the token id to override",
		},
	},
	Action: func(c *cli.Context) error {
		if c.Args().Len() < 1 {
			return usageError(c, fmt.Errorf("missing collection"))
		}
		rules := make([]api.RoyaltyRuleReq, 0)
		for _, arg := range c.Args().Tail() {
			parts := strings.Split(arg, ":")
			if len(parts) != 2 {
				return usageError(c, fmt.Errorf("fail to parse rule %v", arg))
			}
			bps, err := parseUint(parts[1])
			if err != nil {
				return usageError(c, fmt.Errorf("fail to parse basis points: %v", err.Error()))
			}
			rules = append(rules, api.RoyaltyRuleReq{Recipient: parts[0], BasisPoints: bps})
		}
		client, closer, err := api.NewDevClient(c.Context, c.Int("port"), c.Path("dev-auth"))
		if err != nil {
			return err
		}
		defer closer()
		if c.String("token") == "" {
			err = client.RoyaltySetCollectionRules(c.Context, c.Args().Get(0), rules)
		} else {
			var tokenID *big.Int
			tokenID, err = parseTokenID(c.String("token"))
			if err != nil {
				return usageError(c, fmt.Errorf("fail to parse token id: %v", err.Error()))
			}
			err = client.RoyaltySetTokenRules(c.Context, c.Args().Get(0), tokenID, rules)
		}
		if err != nil {
			return err
		}
		fmt.Println("Succeed")
		return nil
	},
}
