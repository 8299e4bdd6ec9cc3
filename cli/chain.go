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

	"github.com/urfave/cli/v2"
	"github.com/wcgcyx/floormkt/api"
)

// Chain command.
var ChainCMD = &cli.Command{
	Name:        "chain",
	Usage:       "inspect chain state",
	Description: "This command outputs a list of chain inspection functions",
	ArgsUsage:   " ",
	Subcommands: []*cli.Command{
		ChainBalanceCMD,
		ChainEscrowCMD,
		ChainOwnerCMD,
	},
}

var ChainBalanceCMD = &cli.Command{
	Name:        "balance",
	Usage:       "get balance",
	Description: "Get the balance of an account",
	ArgsUsage:   "[address]",
	Action: func(c *cli.Context) error {
		client, closer, err := api.NewClient(c.Context, c.Int("port"), c.Path("auth"))
		if err != nil {
			return err
		}
		defer closer()
		bal, err := client.ChainBalance(c.Context, c.Args().Get(0))
		if err != nil {
			return err
		}
		fmt.Println(formatEther(bal))
		return nil
	},
}

var ChainEscrowCMD = &cli.Command{
	Name:        "escrow",
	Usage:       "get escrow",
	Description: "Get the funds the market holds in escrow",
	ArgsUsage:   " ",
	Action: func(c *cli.Context) error {
		client, closer, err := api.NewClient(c.Context, c.Int("port"), c.Path("auth"))
		if err != nil {
			return err
		}
		defer closer()
		bal, err := client.ChainEscrowBalance(c.Context)
		if err != nil {
			return err
		}
		fmt.Println(formatEther(bal))
		return nil
	},
}

var ChainOwnerCMD = &cli.Command{
	Name:        "owner",
	Usage:       "get token owner",
	Description: "Get the owner of a token",
	ArgsUsage:   "[collection, token id]",
	Action: func(c *cli.Context) error {
		tokenID, err := parseTokenID(c.Args().Get(1))
		if err != nil {
			return usageError(c, fmt.Errorf("fail to parse token id: %v", err.Error()))
		}
		client, closer, err := api.NewClient(c.Context, c.Int("port"), c.Path("auth"))
		if err != nil {
			return err
		}
		defer closer()
		owner, err := client.ChainOwnerOf(c.Context, c.Args().Get(0), tokenID)
		if err != nil {
			return err
		}
		fmt.Println(owner)
		return nil
	},
}
