// Package main provides the mintregctl CLI, a local operator console for
// an edition registry database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mintregorg/libmintreg-go/config"
)

var (
	// configDir is set by the --config-dir flag.
	configDir string

	// callerAccount is the account every mutating command acts as.
	callerAccount string

	// deposit is the value attached to mutating commands, covering
	// storage rent and any purchase price.
	deposit uint64

	// jsonOutput switches command output to JSON.
	jsonOutput bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mintregctl",
	Short: "mintregctl operates an edition registry",
	Long: `mintregctl manages a local edition registry database: series
lifecycle, edition minting, transfers, burns and randomized mint
bundles. Settings are read from mintreg.conf in the config directory
and may be overridden with MINTREG_* environment variables.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default: ~/.mintreg)")
	rootCmd.PersistentFlags().StringVar(&callerAccount, "as", "", "account to act as (default: the configured owner)")
	rootCmd.PersistentFlags().Uint64Var(&deposit, "deposit", 0, "value attached to the call for rent and purchases")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(mintCmd)
	rootCmd.AddCommand(buyCmd)
	rootCmd.AddCommand(burnCmd)
	rootCmd.AddCommand(transferCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(revokeCmd)
	rootCmd.AddCommand(payoutCmd)
	rootCmd.AddCommand(setMetadataCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(bundleCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("mintregctl v0.1.0")
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file and create the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		path := config.ConfigPath(dir)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
		cfg := config.DefaultConfig()
		cfg.DataDir = dir
		if err := config.SaveConfig(path, cfg); err != nil {
			return err
		}

		// Opening once initializes the database and persists the owner
		// and treasury accounts.
		reg, closeReg, err := openRegistry()
		if err != nil {
			return err
		}
		defer closeReg()
		owner, err := reg.Owner()
		if err != nil {
			return err
		}

		fmt.Printf("Initialized registry in %s (owner %s)\n", dir, owner)
		return nil
	},
}
