package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	tradeapp "github.com/EspaAdmin/Espa-Roleplay-Development/internal/application/trade"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/trade"
)

// NewTradeCommand creates the trade command with subcommands
func NewTradeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Market and offer operations",
		Long: `Post to the public market, manage direct offers and settle trades.

Offered cash is escrowed the moment an offer opens and returns to the
creator on cancellation or settlement failure.

Examples:
  espa-engine trade market post --nation ESP --resource Coal --quantity 100 --price 2.5 --sell
  espa-engine trade market accept --nation FRA --id 3
  espa-engine trade offer create --nation ESP --to FRA --offered '{"Coal":50}' --requested-cash 200
  espa-engine trade offer accept --nation FRA --id 9
  espa-engine trade estimate --nation ESP --to FRA --offered '{"Coal":50}' --mode rail`,
	}

	cmd.AddCommand(newMarketCommand())
	cmd.AddCommand(newOfferCommand())
	cmd.AddCommand(newTradeEstimateCommand())
	cmd.AddCommand(newTradeHistoryCommand())

	return cmd
}

func newMarketCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "market",
		Short: "Public market posts",
	}

	var (
		resource string
		quantity float64
		price    float64
		isSell   bool
		mode     string
	)
	post := &cobra.Command{
		Use:   "post",
		Short: "Open a public standing order",
		RunE: func(cmd *cobra.Command, args []string) error {
			nation, err := requireNation()
			if err != nil {
				return err
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			created, err := a.Trades.PostMarket(commandContext(), tradeapp.PostMarketRequest{
				NationID:     nation,
				Resource:     shared.Resource(resource),
				Quantity:     quantity,
				PricePerUnit: price,
				IsSell:       isSell,
				Mode:         trade.Mode(mode),
			})
			if err != nil {
				return err
			}
			fmt.Printf("market post %d opened\n", created.ID)
			return nil
		},
	}
	post.Flags().StringVar(&resource, "resource", "", "Resource name")
	post.Flags().Float64Var(&quantity, "quantity", 0, "Quantity")
	post.Flags().Float64Var(&price, "price", 0, "Price per unit")
	post.Flags().BoolVar(&isSell, "sell", false, "Sell post (default: buy)")
	post.Flags().StringVar(&mode, "mode", "auto", "Transport mode: land, rail, sea, auto")
	_ = post.MarkFlagRequired("resource")
	_ = post.MarkFlagRequired("quantity")
	_ = post.MarkFlagRequired("price")

	var (
		filterResource string
		limit          int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List market posts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			posts, err := a.Trades.ListMarketPosts(commandContext(), shared.Resource(filterResource), limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPOSTER\tSIDE\tRESOURCE\tQTY\tPRICE\tMODE")
			for _, p := range posts {
				side := "buy"
				if p.IsSell {
					side = "sell"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.1f\t%.2f\t%s\n",
					p.ID, p.PosterNation, side, p.Resource, p.Quantity, p.PricePerUnit, p.TransportMode)
			}
			return w.Flush()
		},
	}
	list.Flags().StringVar(&filterResource, "resource", "", "Filter by resource (optional)")
	list.Flags().IntVar(&limit, "limit", 25, "Maximum posts to show")

	var cancelID int64
	cancel := &cobra.Command{
		Use:   "cancel",
		Short: "Remove your market post",
		RunE: func(cmd *cobra.Command, args []string) error {
			nation, err := requireNation()
			if err != nil {
				return err
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Trades.CancelMarketPost(commandContext(), nation, cancelID); err != nil {
				return err
			}
			fmt.Printf("market post %d cancelled\n", cancelID)
			return nil
		},
	}
	cancel.Flags().Int64Var(&cancelID, "id", 0, "Post id")
	_ = cancel.MarkFlagRequired("id")

	var acceptID int64
	accept := &cobra.Command{
		Use:   "accept",
		Short: "Accept a post: escrow the price and open an offer to the poster",
		RunE: func(cmd *cobra.Command, args []string) error {
			nation, err := requireNation()
			if err != nil {
				return err
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			offer, err := a.Trades.AcceptMarketPost(commandContext(), nation, acceptID)
			if err != nil {
				return err
			}
			fmt.Printf("offer %d opened to %s (escrowed %.2f)\n", offer.ID, offer.ToNation, offer.OfferedCash)
			return nil
		},
	}
	accept.Flags().Int64Var(&acceptID, "id", 0, "Post id")
	_ = accept.MarkFlagRequired("id")

	cmd.AddCommand(post, list, cancel, accept)
	return cmd
}

func newOfferCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "offer",
		Short: "Direct nation-to-nation offers",
	}

	var (
		toNation      string
		offeredRaw    string
		requestedRaw  string
		offeredCash   float64
		requestedCash float64
		mode          string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Open a direct offer (escrows offered cash)",
		RunE: func(cmd *cobra.Command, args []string) error {
			nation, err := requireNation()
			if err != nil {
				return err
			}
			offered, err := parseResourceSet(offeredRaw)
			if err != nil {
				return err
			}
			requested, err := parseResourceSet(requestedRaw)
			if err != nil {
				return err
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			offer, err := a.Trades.CreateOffer(commandContext(), tradeapp.CreateOfferRequest{
				FromNation:    nation,
				ToNation:      toNation,
				Offered:       offered,
				Requested:     requested,
				OfferedCash:   offeredCash,
				RequestedCash: requestedCash,
				Mode:          trade.Mode(mode),
			})
			if err != nil {
				return err
			}
			fmt.Printf("offer %d opened to %s\n", offer.ID, offer.ToNation)
			return nil
		},
	}
	create.Flags().StringVar(&toNation, "to", "", "Receiving nation id")
	create.Flags().StringVar(&offeredRaw, "offered", "", `Offered resources as JSON, e.g. '{"Coal":50}'`)
	create.Flags().StringVar(&requestedRaw, "requested", "", "Requested resources as JSON")
	create.Flags().Float64Var(&offeredCash, "offered-cash", 0, "Cash offered (escrowed)")
	create.Flags().Float64Var(&requestedCash, "requested-cash", 0, "Cash requested")
	create.Flags().StringVar(&mode, "mode", "auto", "Transport mode: land, rail, sea, auto")
	_ = create.MarkFlagRequired("to")

	var acceptID int64
	accept := &cobra.Command{
		Use:   "accept",
		Short: "Settle an offer addressed to you",
		RunE: func(cmd *cobra.Command, args []string) error {
			nation, err := requireNation()
			if err != nil {
				return err
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			record, err := a.Trades.AcceptOffer(commandContext(), nation, acceptID)
			if err != nil {
				return err
			}
			fmt.Printf("offer %d settled, trade %s (transport cost %.2f)\n", acceptID, record.ID, record.TransportCost)
			return nil
		},
	}
	accept.Flags().Int64Var(&acceptID, "id", 0, "Offer id")
	_ = accept.MarkFlagRequired("id")

	var cancelID int64
	cancel := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel your open offer and reclaim the escrow",
		RunE: func(cmd *cobra.Command, args []string) error {
			nation, err := requireNation()
			if err != nil {
				return err
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Trades.CancelOffer(commandContext(), nation, cancelID); err != nil {
				return err
			}
			fmt.Printf("offer %d cancelled\n", cancelID)
			return nil
		},
	}
	cancel.Flags().Int64Var(&cancelID, "id", 0, "Offer id")
	_ = cancel.MarkFlagRequired("id")

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List offers you created or received",
		RunE: func(cmd *cobra.Command, args []string) error {
			nation, err := requireNation()
			if err != nil {
				return err
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			offers, err := a.Trades.ListOffers(commandContext(), nation, limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tFROM\tTO\tOFFERED CASH\tREQUESTED CASH\tSTATUS")
			for _, o := range offers {
				fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%.2f\t%s\n",
					o.ID, o.FromNation, o.ToNation, o.OfferedCash, o.RequestedCash, o.Status)
			}
			return w.Flush()
		},
	}
	list.Flags().IntVar(&limit, "limit", 25, "Maximum offers to show")

	cmd.AddCommand(create, accept, cancel, list)
	return cmd
}

func newTradeEstimateCommand() *cobra.Command {
	var (
		toNation     string
		offeredRaw   string
		requestedRaw string
		mode         string
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Quote transport cost for a prospective exchange",
		RunE: func(cmd *cobra.Command, args []string) error {
			nation, err := requireNation()
			if err != nil {
				return err
			}
			offered, err := parseResourceSet(offeredRaw)
			if err != nil {
				return err
			}
			requested, err := parseResourceSet(requestedRaw)
			if err != nil {
				return err
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			estimate, err := a.Trades.EstimateTransportCost(commandContext(), nation, toNation, offered, requested, trade.Mode(mode))
			if err != nil {
				return err
			}
			printJSON(estimate)
			return nil
		},
	}

	cmd.Flags().StringVar(&toNation, "to", "", "Receiving nation id")
	cmd.Flags().StringVar(&offeredRaw, "offered", "", "Offered resources as JSON")
	cmd.Flags().StringVar(&requestedRaw, "requested", "", "Requested resources as JSON")
	cmd.Flags().StringVar(&mode, "mode", "auto", "Transport mode: land, rail, sea, auto")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newTradeHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List your settled trades, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			nation, err := requireNation()
			if err != nil {
				return err
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			records, err := a.Trades.ListTrades(commandContext(), nation, limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tFROM\tTO\tCASH\tTRANSPORT\tTURN")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%d\n",
					r.ID, r.FromNation, r.ToNation, r.CashExchanged, r.TransportCost, r.Turn)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 25, "Maximum trades to show")

	return cmd
}
