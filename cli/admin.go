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

// Admin command.
var AdminCMD = &cli.Command{
	Name:        "admin",
	Usage:       "access market config functions",
	Description: "This command outputs a list of market config functions",
	ArgsUsage:   " ",
	Subcommands: []*cli.Command{
		AdminGetCMD,
		AdminSetFeeAddressCMD,
		AdminSetResolverCMD,
		AdminSetMinimumCMD,
		AdminTransferCMD,
	},
}

var AdminGetCMD = &cli.Command{
	Name:        "get",
	Usage:       "get market config",
	Description: "Get the current market config",
	ArgsUsage:   " ",
	Action: func(c *cli.Context) error {
		client, closer, err := api.NewClient(c.Context, c.Int("port"), c.Path("auth"))
		if err != nil {
			return err
		}
		defer closer()
		addr, err := client.MarketAddress(c.Context)
		if err != nil {
			return err
		}
		conf, err := client.MarketGetConfig(c.Context)
		if err != nil {
			return err
		}
		fmt.Printf("Market: %v\n", addr)
		fmt.Printf("\tOwner: %v\n", conf.Owner)
		fmt.Printf("\tFee address: %v\n", conf.MarketFeeAddress)
		fmt.Printf("\tRoyalty resolver: %v\n", conf.RoyaltyResolverAddress)
		fmt.Printf("\tMinimum offer: %v\n", formatEther(conf.MinimumOffer))
		return nil
	},
}

var AdminSetFeeAddressCMD = &cli.Command{
	Name:        "set-fee",
	Usage:       "set fee address",
	Description: "Set the address market fees are paid to",
	ArgsUsage:   "[owner, fee address]",
	Action: func(c *cli.Context) error {
		client, closer, err := api.NewClient(c.Context, c.Int("port"), c.Path("auth"))
		if err != nil {
			return err
		}
		defer closer()
		err = client.MarketSetMarketFeeAddress(c.Context, c.Args().Get(0), c.Args().Get(1))
		if err != nil {
			return err
		}
		fmt.Println("Succeed")
		return nil
	},
}

var AdminSetResolverCMD = &cli.Command{
	Name:        "set-resolver",
	Usage:       "set royalty resolver address",
	Description: "Set the royalty registry address, leave empty to stop paying royalties",
	ArgsUsage:   "[owner, resolver address]",
	Action: func(c *cli.Context) error {
		client, closer, err := api.NewClient(c.Context, c.Int("port"), c.Path("auth"))
		if err != nil {
			return err
		}
		defer closer()
		err = client.MarketSetRoyaltyResolverAddress(c.Context, c.Args().Get(0), c.Args().Get(1))
		if err != nil {
			return err
		}
		fmt.Println("Succeed")
		return nil
	},
}

var AdminSetMinimumCMD = &cli.Command{
	Name:        "set-minimum",
	Usage:       "set minimum offer",
	Description: "Set the minimum offer value in ether",
	ArgsUsage:   "[owner, minimum in ether]",
	Action: func(c *cli.Context) error {
		minimum, err := chain.ParseEther(c.Args().Get(1))
		if err != nil {
			return usageError(c, fmt.Errorf("fail to parse minimum: %v", err.Error()))
		}
		client, closer, err := api.NewClient(c.Context, c.Int("port"), c.Path("auth"))
		if err != nil {
			return err
		}
		defer closer()
		err = client.MarketSetMinimumOffer(c.Context, c.Args().Get(0), minimum)
		if err != nil {
			return err
		}
		fmt.Println("Succeed")
		return nil
	},
}

var AdminTransferCMD = &cli.Command{
	Name:        "transfer",
	Usage:       "transfer ownership",
	Description: "Hand the market config over to a new owner",
	ArgsUsage:   "[owner, new owner]",
	Action: func(c *cli.Context) error {
		client, closer, err := api.NewClient(c.Context, c.Int("port"), c.Path("auth"))
		if err != nil {
			return err
		}
		defer closer()
		err = client.MarketTransferOwnership(c.Context, c.Args().Get(0), c.Args().Get(1))
		if err != nil {
			return err
		}
		fmt.Println("Succeed")
		return nil
	},
}
