// Edition commands: mint, buy, transfer, burn, approvals and payouts.

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mintregorg/libmintreg-go"
)

var (
	transferMemo       string
	transferApprovalID string

	approveMsg string
	revokeAll  bool

	payoutMaxRecipients uint32

	tokensOwner  string
	tokensSeries string

	metadataTitle       string
	metadataDescription string
	metadataMedia       string
	metadataReference   string
	metadataExtra       string
)

func init() {
	transferCmd.Flags().StringVar(&transferMemo, "memo", "", "memo recorded with the transfer")
	transferCmd.Flags().StringVar(&transferApprovalID, "approval-id", "", "approval id the delegate was granted")

	approveCmd.Flags().StringVar(&approveMsg, "msg", "", "message forwarded to the delegate")
	revokeCmd.Flags().BoolVar(&revokeAll, "all", false, "revoke every approval on the edition")

	payoutCmd.Flags().Uint32Var(&payoutMaxRecipients, "max-recipients", 10, "maximum payout recipients")

	tokensCmd.Flags().StringVar(&tokensOwner, "owner", "", "list editions held by this account")
	tokensCmd.Flags().StringVar(&tokensSeries, "series", "", "list editions of this series")
	tokensCmd.Flags().Uint64Var(&listOffset, "offset", 0, "records to skip")
	tokensCmd.Flags().Uint64Var(&listLimit, "limit", 10, "maximum records to return")

	setMetadataCmd.Flags().StringVar(&metadataTitle, "title", "", "edition title")
	setMetadataCmd.Flags().StringVar(&metadataDescription, "description", "", "edition description")
	setMetadataCmd.Flags().StringVar(&metadataMedia, "media", "", "media URL")
	setMetadataCmd.Flags().StringVar(&metadataReference, "reference", "", "off-chain reference URL")
	setMetadataCmd.Flags().StringVar(&metadataExtra, "extra", "", "extra metadata payload")
}

var mintCmd = &cobra.Command{
	Use:   "mint <series-id> <receiver>",
	Short: "Mint the next edition of a series (creator only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeReg, err := openRegistry()
		if err != nil {
			return err
		}
		defer closeReg()

		editionID, err := reg.Mint(callerAccount, args[0], args[1], nil, deposit)
		if err != nil {
			return err
		}
		fmt.Printf("Minted %s to %s\n", editionID, args[1])
		return nil
	},
}

var buyCmd = &cobra.Command{
	Use:   "buy <series-id> <receiver>",
	Short: "Buy the next edition of a priced series",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeReg, err := openRegistry()
		if err != nil {
			return err
		}
		defer closeReg()

		editionID, err := reg.BuyFromSeries(callerAccount, args[0], args[1], nil, deposit)
		if err != nil {
			return err
		}
		fmt.Printf("Bought %s for %s\n", editionID, args[1])
		return nil
	},
}

var burnCmd = &cobra.Command{
	Use:   "burn <edition-id>",
	Short: "Destroy an edition you own",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeReg, err := openRegistry()
		if err != nil {
			return err
		}
		defer closeReg()

		if err := reg.Burn(callerAccount, args[0]); err != nil {
			return err
		}
		fmt.Printf("Burned %s\n", args[0])
		return nil
	},
}

var transferCmd = &cobra.Command{
	Use:   "transfer <edition-id> <receiver>",
	Short: "Transfer an edition as its owner or an approved delegate",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var approvalID *uint64
		if transferApprovalID != "" {
			id, err := strconv.ParseUint(transferApprovalID, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid approval id %q", transferApprovalID)
			}
			approvalID = &id
		}

		reg, closeReg, err := openRegistry()
		if err != nil {
			return err
		}
		defer closeReg()

		if err := reg.Transfer(callerAccount, args[1], args[0], approvalID, transferMemo, deposit); err != nil {
			return err
		}
		fmt.Printf("Transferred %s to %s\n", args[0], args[1])
		return nil
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve <edition-id> <delegate>",
	Short: "Grant a delegate transfer rights on an edition",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeReg, err := openRegistry()
		if err != nil {
			return err
		}
		defer closeReg()

		approvalID, err := reg.Approve(callerAccount, args[0], args[1], approveMsg, deposit)
		if err != nil {
			return err
		}
		fmt.Printf("Approved %s on %s (approval id %d)\n", args[1], args[0], approvalID)
		return nil
	},
}

var revokeCmd = &cobra.Command{
	Use:   "revoke <edition-id> [delegate]",
	Short: "Revoke a delegate's approval, or all approvals with --all",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeReg, err := openRegistry()
		if err != nil {
			return err
		}
		defer closeReg()

		if revokeAll {
			if err := reg.RevokeAll(callerAccount, args[0]); err != nil {
				return err
			}
			fmt.Printf("Revoked all approvals on %s\n", args[0])
			return nil
		}
		if len(args) != 2 {
			return fmt.Errorf("a delegate is required unless --all is set")
		}
		if err := reg.Revoke(callerAccount, args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Revoked %s on %s\n", args[1], args[0])
		return nil
	},
}

var payoutCmd = &cobra.Command{
	Use:   "payout <edition-id> <balance>",
	Short: "Compute the royalty split of a sale balance",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		balance, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid balance %q", args[1])
		}

		reg, closeReg, err := openRegistry()
		if err != nil {
			return err
		}
		defer closeReg()

		payout, err := reg.ComputePayout(args[0], balance, payoutMaxRecipients)
		if err != nil {
			return err
		}
		return printResult(payout, func() {
			for account, amount := range payout {
				fmt.Printf("%s\t%d\n", account, amount)
			}
		})
	},
}

var setMetadataCmd = &cobra.Command{
	Use:   "set-metadata <edition-id>",
	Short: "Replace the stored metadata of an edition you own",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeReg, err := openRegistry()
		if err != nil {
			return err
		}
		defer closeReg()

		md := mintreg.TokenMetadata{
			Title:       metadataTitle,
			Description: metadataDescription,
			Media:       metadataMedia,
			Reference:   metadataReference,
			Extra:       metadataExtra,
		}
		if err := reg.ChangeMetadata(callerAccount, args[0], md); err != nil {
			return err
		}
		fmt.Printf("Updated metadata of %s\n", args[0])
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token <edition-id>",
	Short: "Show one edition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeReg, err := openRegistry()
		if err != nil {
			return err
		}
		defer closeReg()

		view, err := reg.GetEdition(args[0])
		if err != nil {
			return err
		}
		return printResult(view, func() {
			fmt.Printf("%s\t%s\towner %s\n", view.EditionID, view.Metadata.Title, view.OwnerID)
		})
	},
}

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "List editions, optionally filtered by owner or series",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeReg, err := openRegistry()
		if err != nil {
			return err
		}
		defer closeReg()

		switch {
		case tokensOwner != "" && tokensSeries != "":
			return fmt.Errorf("--owner and --series are mutually exclusive")
		case tokensOwner != "":
			list, err := reg.ListEditionsOfOwner(tokensOwner, listOffset, listLimit)
			if err != nil {
				return err
			}
			return printResult(list, func() {
				for _, view := range list {
					fmt.Printf("%s\t%s\n", view.EditionID, view.Metadata.Title)
				}
			})
		case tokensSeries != "":
			list, err := reg.ListEditionsOfSeries(tokensSeries, listOffset, listLimit)
			if err != nil {
				return err
			}
			return printResult(list, func() {
				for _, view := range list {
					fmt.Printf("%s\t%s\towner %s\n", view.EditionID, view.Metadata.Title, view.OwnerID)
				}
			})
		default:
			list, err := reg.ListAllEditions(listOffset, listLimit)
			if err != nil {
				return err
			}
			return printResult(list, func() {
				for _, view := range list {
					fmt.Printf("%s\t%s\towner %s\n", view.EditionID, view.Metadata.Title, view.OwnerID)
				}
			})
		}
	},
}
