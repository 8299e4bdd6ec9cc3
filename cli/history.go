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

// History command.
var HistoryCMD = &cli.Command{
	Name:        "history",
	Usage:       "list market history",
	Description: "List past market events, newest first",
	ArgsUsage:   " ",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:    "offset",
			Aliases: []string{"o"},
			Value:   0,
			Usage:   "specify the number of newest events to skip",
		},
		&cli.Uint64Flag{
			Name:    "limit",
			Aliases: []string{"l"},
			Value:   20,
			Usage:   "specify the maximum number of events",
		},
	},
	Action: func(c *cli.Context) error {
		client, closer, err := api.NewClient(c.Context, c.Int("port"), c.Path("auth"))
		if err != nil {
			return err
		}
		defer closer()
		evChan := client.MarketListHistory(c.Context, c.Uint64("offset"), c.Uint64("limit"))
		for ev := range evChan {
			switch ev.Kind {
			case "made":
				fmt.Printf("%v %v\t%v made offer %v of %v on %v\n", ev.Seq, ev.CreatedAt.Format("2006-01-02 15:04:05"), ev.Maker, ev.OfferID, formatEther(ev.Value), ev.Collection)
			case "withdrawn":
				fmt.Printf("%v %v\t%v withdrew offer %v of %v\n", ev.Seq, ev.CreatedAt.Format("2006-01-02 15:04:05"), ev.Maker, ev.OfferID, formatEther(ev.Value))
			case "taken":
				fmt.Printf("%v %v\t%v sold token %v into offer %v of %v (fee %v, royalty %v)\n", ev.Seq, ev.CreatedAt.Format("2006-01-02 15:04:05"), ev.Taker, ev.TokenID, ev.OfferID, formatEther(ev.Value), formatEther(ev.Fee), formatEther(ev.Royalty))
			default:
				fmt.Printf("%v %v\t%v\n", ev.Seq, ev.CreatedAt.Format("2006-01-02 15:04:05"), ev.Description)
			}
		}
		return nil
	},
}
