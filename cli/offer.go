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

// Offer command.
var OfferCMD = &cli.Command{
	Name:        "offer",
	Usage:       "access offer functions",
	Description: "This command outputs a list of offer functions",
	ArgsUsage:   " ",
	Subcommands: []*cli.Command{
		OfferMakeCMD,
		OfferWithdrawCMD,
		OfferTakeCMD,
		OfferGetCMD,
		OfferListCMD,
	},
}

var OfferMakeCMD = &cli.Command{
	Name:        "make",
	Usage:       "make an offer",
	Description: "Escrow an amount of ether as a standing offer for any token of a collection",
	ArgsUsage:   "[maker, collection, value in ether]",
	Action: func(c *cli.Context) error {
		// Parse arguments.
		maker := c.Args().Get(0)
		collection := c.Args().Get(1)
		value, err := chain.ParseEther(c.Args().Get(2))
		if err != nil {
			return usageError(c, fmt.Errorf("fail to parse value: %v", err.Error()))
		}
		client, closer, err := api.NewClient(c.Context, c.Int("port"), c.Path("auth"))
		if err != nil {
			return err
		}
		defer closer()
		id, err := client.MarketMakeOffer(c.Context, maker, collection, value)
		if err != nil {
			return err
		}
		fmt.Printf("Offer %v made\n", id)
		return nil
	},
}

var OfferWithdrawCMD = &cli.Command{
	Name:        "withdraw",
	Usage:       "withdraw an offer",
	Description: "Withdraw an offer and refund its maker",
	ArgsUsage:   "[maker, offer id]",
	Action: func(c *cli.Context) error {
		// Parse arguments.
		caller := c.Args().Get(0)
		id, err := parseUint(c.Args().Get(1))
		if err != nil {
			return usageError(c, fmt.Errorf("fail to parse offer id: %v", err.Error()))
		}
		client, closer, err := api.NewClient(c.Context, c.Int("port"), c.Path("auth"))
		if err != nil {
			return err
		}
		defer closer()
		err = client.MarketWithdrawOffer(c.Context, caller, id)
		if err != nil {
			return err
		}
		fmt.Println("Succeed")
		return nil
	},
}

var OfferTakeCMD = &cli.Command{
	Name:        "take",
	Usage:       "take an offer",
	Description: "Sell a token into an offer",
	ArgsUsage:   "[seller, offer id, token id]",
	Action: func(c *cli.Context) error {
		// Parse arguments.
		taker := c.Args().Get(0)
		id, err := parseUint(c.Args().Get(1))
		if err != nil {
			return usageError(c, fmt.Errorf("fail to parse offer id: %v", err.Error()))
		}
		tokenID, err := parseTokenID(c.Args().Get(2))
		if err != nil {
			return usageError(c, fmt.Errorf("fail to parse token id: %v", err.Error()))
		}
		client, closer, err := api.NewClient(c.Context, c.Int("port"), c.Path("auth"))
		if err != nil {
			return err
		}
		defer closer()
		res, err := client.MarketTakeOffer(c.Context, taker, id, tokenID)
		if err != nil {
			return err
		}
		fmt.Printf("Sold for %v\n", formatEther(res.Value))
		fmt.Printf("\tFee: %v\n", formatEther(res.Fee))
		for _, r := range res.Royalties {
			fmt.Printf("\tRoyalty to %v: %v\n", r.Recipient, formatEther(r.Amount))
		}
		fmt.Printf("\tReceived: %v\n", formatEther(res.Remainder))
		return nil
	},
}

var OfferGetCMD = &cli.Command{
	Name:        "get",
	Usage:       "get an offer",
	Description: "Get a live offer by id",
	ArgsUsage:   "[offer id]",
	Action: func(c *cli.Context) error {
		// Parse arguments.
		id, err := parseUint(c.Args().Get(0))
		if err != nil {
			return usageError(c, fmt.Errorf("fail to parse offer id: %v", err.Error()))
		}
		client, closer, err := api.NewClient(c.Context, c.Int("port"), c.Path("auth"))
		if err != nil {
			return err
		}
		defer closer()
		offer, err := client.MarketGetOffer(c.Context, id)
		if err != nil {
			return err
		}
		fmt.Printf("Offer %v on %v by %v: %v\n", offer.ID, offer.Collection, offer.Maker, formatEther(offer.Value))
		return nil
	},
}

var OfferListCMD = &cli.Command{
	Name:        "list",
	Aliases:     []string{"ls"},
	Usage:       "list offers",
	Description: "List a page of offers on a collection or by a maker",
	ArgsUsage:   "[collection or maker address]",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "maker",
			Aliases: []string{"m"},
			Usage:   "list offers by maker instead of by collection",
		},
		&cli.Uint64Flag{
			Name:    "size",
			Aliases: []string{"s"},
			Value:   20,
			Usage:   "specify the page size",
		},
		&cli.Uint64Flag{
			Name:    "index",
			Aliases: []string{"i"},
			Value:   0,
			Usage:   "specify the page index",
		},
	},
	Action: func(c *cli.Context) error {
		addr := c.Args().Get(0)
		client, closer, err := api.NewClient(c.Context, c.Int("port"), c.Path("auth"))
		if err != nil {
			return err
		}
		defer closer()
		var count uint64
		var offers []api.MarketOfferRes
		if c.Bool("maker") {
			count, err = client.MarketGetOffersByMakerCount(c.Context, addr)
			if err != nil {
				return err
			}
			offers, err = client.MarketGetOffersByMaker(c.Context, addr, c.Uint64("size"), c.Uint64("index"))
		} else {
			count, err = client.MarketGetOffersByCollectionCount(c.Context, addr)
			if err != nil {
				return err
			}
			offers, err = client.MarketGetOffersByCollection(c.Context, addr, c.Uint64("size"), c.Uint64("index"))
		}
		if err != nil {
			return err
		}
		fmt.Printf("%v live offers:\n", count)
		for _, offer := range offers {
			if offer.Empty {
				continue
			}
			fmt.Printf("\t%v: %v on %v by %v\n", offer.ID, formatEther(offer.Value), offer.Collection, offer.Maker)
		}
		return nil
	},
}
