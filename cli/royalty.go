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
	"github.com/wcgcyx/floormkt/chain"
)

// Royalty command.
var RoyaltyCMD = &cli.Command{
	Name:        "royalty",
	Usage:       "access royalty functions",
	Description: "This command outputs a list of royalty functions",
	ArgsUsage:   " ",
	Subcommands: []*cli.Command{
		RoyaltyGetCMD,
		RoyaltyPurgeCMD,
	},
}

var RoyaltyGetCMD = &cli.Command{
	Name:        "get",
	Usage:       "get royalties",
	Description: "Get the royalties a sale would owe under the current registry",
	ArgsUsage:   "[collection, token id, value in ether]",
	Action: func(c *cli.Context) error {
		// Parse arguments.
		collection := c.Args().Get(0)
		tokenID, err := parseTokenID(c.Args().Get(1))
		if err != nil {
			return usageError(c, fmt.Errorf("fail to parse token id: %v", err.Error()))
		}
		value, err := chain.ParseEther(c.Args().Get(2))
		if err != nil {
			return usageError(c, fmt.Errorf("fail to parse value: %v", err.Error()))
		}
		client, closer, err := api.NewClient(c.Context, c.Int("port"), c.Path("auth"))
		if err != nil {
			return err
		}
		defer closer()
		royalties, err := client.MarketGetRoyalties(c.Context, collection, tokenID, value)
		if err != nil {
			return err
		}
		if len(royalties) == 0 {
			fmt.Println("No royalty")
			return nil
		}
		for _, r := range royalties {
			fmt.Printf("%v: %v\n", r.Recipient, formatEther(r.Amount))
		}
		return nil
	},
}

var RoyaltyPurgeCMD = &cli.Command{
	Name:        "purge",
	Usage:       "purge royalty cache",
	Description: "Drop every cached royalty lookup",
	ArgsUsage:   " ",
	Action: func(c *cli.Context) error {
		client, closer, err := api.NewClient(c.Context, c.Int("port"), c.Path("auth"))
		if err != nil {
			return err
		}
		defer closer()
		err = client.RoyaltyPurgeCache(c.Context)
		if err != nil {
			return err
		}
		fmt.Println("Succeed")
		return nil
	},
}
