// Mint bundle commands: create, show, pricing, deletion and purchase.

package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mintregorg/libmintreg-go/store"
)

var (
	bundleID        string
	bundleSeries    string
	bundlePriceFlag string
	bundleLimit     uint32
)

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Manage randomized mint bundles",
}

func init() {
	bundleCreateCmd.Flags().StringVar(&bundleID, "id", "", "bundle id (default: a generated UUID)")
	bundleCreateCmd.Flags().StringVar(&bundleSeries, "series", "", "comma-separated series ids (required)")
	bundleCreateCmd.Flags().StringVar(&bundlePriceFlag, "price", "", "purchase price")
	bundleCreateCmd.Flags().Uint32Var(&bundleLimit, "limit", 0, "per-buyer purchase limit (0 for unlimited)")
	_ = bundleCreateCmd.MarkFlagRequired("series")

	bundleSetPriceCmd.Flags().StringVar(&bundlePriceFlag, "price", "", "new price (empty suspends sales)")

	bundleCmd.AddCommand(bundleCreateCmd)
	bundleCmd.AddCommand(bundleShowCmd)
	bundleCmd.AddCommand(bundleDeleteCmd)
	bundleCmd.AddCommand(bundleSetPriceCmd)
	bundleCmd.AddCommand(bundleBuyCmd)
}

var bundleCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a mint bundle (registry owner only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeReg, err := openRegistry()
		if err != nil {
			return err
		}
		defer closeReg()

		id := bundleID
		if id == "" {
			id = uuid.NewString()
		}
		price, err := parsePrice(bundlePriceFlag)
		if err != nil {
			return err
		}
		var limit *uint32
		if bundleLimit > 0 {
			limit = &bundleLimit
		}
		contents := store.BundleContents{
			Kind: store.BundleSeries,
			IDs:  strings.Split(bundleSeries, ","),
		}

		view, err := reg.CreateMintBundle(callerAccount, id, contents, price, limit, deposit)
		if err != nil {
			return err
		}
		return printResult(view, func() {
			fmt.Printf("Created bundle %s with %d series\n", view.BundleID, len(view.SeriesIDs))
		})
	},
}

var bundleShowCmd = &cobra.Command{
	Use:   "show <bundle-id>",
	Short: "Show one bundle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeReg, err := openRegistry()
		if err != nil {
			return err
		}
		defer closeReg()

		view, err := reg.GetMintBundle(args[0])
		if err != nil {
			return err
		}
		return printResult(view, func() {
			fmt.Printf("%s\tseries %s\n", view.BundleID, strings.Join(view.SeriesIDs, ","))
		})
	},
}

var bundleDeleteCmd = &cobra.Command{
	Use:   "delete <bundle-id>",
	Short: "Delete a bundle (registry owner only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeReg, err := openRegistry()
		if err != nil {
			return err
		}
		defer closeReg()

		if err := reg.DeleteMintBundle(callerAccount, args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted bundle %s\n", args[0])
		return nil
	},
}

var bundleSetPriceCmd = &cobra.Command{
	Use:   "set-price <bundle-id>",
	Short: "Set or clear the bundle price (registry owner only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeReg, err := openRegistry()
		if err != nil {
			return err
		}
		defer closeReg()

		price, err := parsePrice(bundlePriceFlag)
		if err != nil {
			return err
		}
		newPrice, err := reg.SetMintBundlePrice(callerAccount, args[0], price)
		if err != nil {
			return err
		}
		if newPrice == nil {
			fmt.Printf("Bundle %s sales suspended\n", args[0])
			return nil
		}
		fmt.Printf("Bundle %s price set to %d\n", args[0], *newPrice)
		return nil
	},
}

var bundleBuyCmd = &cobra.Command{
	Use:   "buy <bundle-id>",
	Short: "Buy a random edition from a bundle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeReg, err := openRegistry()
		if err != nil {
			return err
		}
		defer closeReg()

		editionID, err := reg.BuyMintBundle(callerAccount, args[0], deposit)
		if err != nil {
			return err
		}
		fmt.Printf("Drew %s from bundle %s\n", editionID, args[0])
		return nil
	},
}
