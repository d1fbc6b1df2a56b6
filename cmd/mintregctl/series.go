// Series lifecycle commands: create, show, list, pricing and supply.

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mintregorg/libmintreg-go"
)

var (
	seriesTitle       string
	seriesDescription string
	seriesMedia       string
	seriesReference   string
	seriesCopies      uint64
	seriesPriceFlag   string
	seriesRoyalty     string
	seriesCreator     string

	listOffset uint64
	listLimit  uint64
)

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Manage token series",
}

func init() {
	seriesCreateCmd.Flags().StringVar(&seriesTitle, "title", "", "series title (required)")
	seriesCreateCmd.Flags().StringVar(&seriesDescription, "description", "", "series description")
	seriesCreateCmd.Flags().StringVar(&seriesMedia, "media", "", "media URL")
	seriesCreateCmd.Flags().StringVar(&seriesReference, "reference", "", "off-chain reference URL")
	seriesCreateCmd.Flags().Uint64Var(&seriesCopies, "copies", 0, "supply cap (0 for unbounded)")
	seriesCreateCmd.Flags().StringVar(&seriesPriceFlag, "price", "", "direct-purchase price")
	seriesCreateCmd.Flags().StringVar(&seriesRoyalty, "royalty", "", "royalty table, account=bps[,account=bps]")
	seriesCreateCmd.Flags().StringVar(&seriesCreator, "creator", "", "creator account (default: the caller)")
	_ = seriesCreateCmd.MarkFlagRequired("title")

	seriesSetPriceCmd.Flags().StringVar(&seriesPriceFlag, "price", "", "new price (empty clears it)")

	seriesListCmd.Flags().Uint64Var(&listOffset, "offset", 0, "records to skip")
	seriesListCmd.Flags().Uint64Var(&listLimit, "limit", 10, "maximum records to return")

	seriesCmd.AddCommand(seriesCreateCmd)
	seriesCmd.AddCommand(seriesShowCmd)
	seriesCmd.AddCommand(seriesListCmd)
	seriesCmd.AddCommand(seriesSetPriceCmd)
	seriesCmd.AddCommand(seriesCloseCmd)
	seriesCmd.AddCommand(seriesDecreaseCmd)
	seriesCmd.AddCommand(seriesSupplyCmd)
}

var seriesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new series",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeReg, err := openRegistry()
		if err != nil {
			return err
		}
		defer closeReg()

		price, err := parsePrice(seriesPriceFlag)
		if err != nil {
			return err
		}
		royaltyTable, err := parseRoyalty(seriesRoyalty)
		if err != nil {
			return err
		}
		creator := seriesCreator
		if creator == "" {
			creator = callerAccount
		}

		md := mintreg.TokenMetadata{
			Title:       seriesTitle,
			Description: seriesDescription,
			Media:       seriesMedia,
			Reference:   seriesReference,
		}
		if seriesCopies > 0 {
			md.Copies = &seriesCopies
		}

		view, err := reg.CreateSeries(callerAccount, md, price, royaltyTable, creator, deposit)
		if err != nil {
			return err
		}
		return printResult(view, func() {
			fmt.Printf("Created series %s (%s)\n", view.SeriesID, view.Metadata.Title)
		})
	},
}

var seriesShowCmd = &cobra.Command{
	Use:   "show <series-id>",
	Short: "Show one series",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeReg, err := openRegistry()
		if err != nil {
			return err
		}
		defer closeReg()

		view, err := reg.GetSeries(args[0])
		if err != nil {
			return err
		}
		return printResult(view, func() {
			fmt.Printf("%s\t%s\tcreator %s\n", view.SeriesID, view.Metadata.Title, view.CreatorID)
		})
	},
}

var seriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List series",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeReg, err := openRegistry()
		if err != nil {
			return err
		}
		defer closeReg()

		views, err := reg.ListSeries(listOffset, listLimit)
		if err != nil {
			return err
		}
		return printResult(views, func() {
			for _, view := range views {
				fmt.Printf("%s\t%s\tcreator %s\n", view.SeriesID, view.Metadata.Title, view.CreatorID)
			}
		})
	},
}

var seriesSetPriceCmd = &cobra.Command{
	Use:   "set-price <series-id>",
	Short: "Set or clear the direct-purchase price",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeReg, err := openRegistry()
		if err != nil {
			return err
		}
		defer closeReg()

		price, err := parsePrice(seriesPriceFlag)
		if err != nil {
			return err
		}
		newPrice, err := reg.SetSeriesPrice(callerAccount, args[0], price)
		if err != nil {
			return err
		}
		return printResult(newPrice, func() {
			if newPrice == nil {
				fmt.Printf("Series %s is no longer for sale\n", args[0])
				return
			}
			fmt.Printf("Series %s price set to %d\n", args[0], *newPrice)
		})
	},
}

var seriesCloseCmd = &cobra.Command{
	Use:   "close <series-id>",
	Short: "Permanently stop minting from an unbounded series",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeReg, err := openRegistry()
		if err != nil {
			return err
		}
		defer closeReg()

		if err := reg.CloseSeries(callerAccount, args[0]); err != nil {
			return err
		}
		fmt.Printf("Series %s closed\n", args[0])
		return nil
	},
}

var seriesDecreaseCmd = &cobra.Command{
	Use:   "decrease-copies <series-id> <amount>",
	Short: "Lower the supply cap",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[1])
		}

		reg, closeReg, err := openRegistry()
		if err != nil {
			return err
		}
		defer closeReg()

		newCap, err := reg.DecreaseCopies(callerAccount, args[0], amount)
		if err != nil {
			return err
		}
		fmt.Printf("Series %s supply cap is now %d\n", args[0], newCap)
		return nil
	},
}

var seriesSupplyCmd = &cobra.Command{
	Use:   "supply <series-id>",
	Short: "Show how many editions have been minted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeReg, err := openRegistry()
		if err != nil {
			return err
		}
		defer closeReg()

		minted, err := reg.SeriesSupply(args[0])
		if err != nil {
			return err
		}
		fmt.Println(minted)
		return nil
	},
}
