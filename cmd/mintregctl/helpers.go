// Shared helpers for mintregctl commands: config resolution over Viper,
// registry wiring and output formatting.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/mintregorg/libmintreg-go/config"
	"github.com/mintregorg/libmintreg-go/event"
	"github.com/mintregorg/libmintreg-go/host"
	"github.com/mintregorg/libmintreg-go/registry"
	"github.com/mintregorg/libmintreg-go/store"
)

// dbFileName is the bolt database file inside the data directory.
const dbFileName = "registry.db"

// resolveConfigDir returns the --config-dir flag or the default
// ~/.mintreg.
func resolveConfigDir() (string, error) {
	if configDir != "" {
		return configDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".mintreg"), nil
}

// loadSettings resolves the effective configuration: defaults, then
// mintreg.conf, then MINTREG_* environment variables.
func loadSettings() (config.Config, error) {
	def := config.DefaultConfig()

	dir, err := resolveConfigDir()
	if err != nil {
		return def, err
	}

	v := viper.New()
	v.SetDefault("datadir", dir)
	v.SetDefault("owner", def.OwnerAccount)
	v.SetDefault("treasury", def.TreasuryAccount)
	v.SetDefault("storagebytecost", def.StorageByteCost)
	v.SetDefault("loglevel", def.LogLevel)
	v.SetConfigFile(config.ConfigPath(dir))
	v.SetConfigType("properties")
	v.SetEnvPrefix("MINTREG")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return def, fmt.Errorf("read config: %w", err)
		}
		// Missing config file falls back to defaults.
	}

	cfg := config.Config{
		DataDir:         v.GetString("datadir"),
		OwnerAccount:    v.GetString("owner"),
		TreasuryAccount: v.GetString("treasury"),
		StorageByteCost: v.GetUint64("storagebytecost"),
		LogLevel:        v.GetString("loglevel"),
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// openRegistry opens the bolt-backed registry per the effective
// configuration. The caller must invoke the returned close function.
func openRegistry() (*registry.Registry, func() error, error) {
	cfg, err := loadSettings()
	if err != nil {
		return nil, nil, err
	}

	st, err := store.OpenBoltStore(filepath.Join(cfg.DataDir, dbFileName))
	if err != nil {
		return nil, nil, err
	}

	var rent host.RentAccountant = host.NopAccountant{}
	if cfg.StorageByteCost > 0 {
		rent = &host.ByteCostAccountant{ByteCost: cfg.StorageByteCost}
	}

	reg, err := registry.New(st, registry.Options{
		Owner:    cfg.OwnerAccount,
		Treasury: cfg.TreasuryAccount,
		Events:   event.LogSink{W: os.Stderr},
		Rent:     rent,
	})
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}

	if callerAccount == "" {
		callerAccount = cfg.OwnerAccount
	}
	return reg, st.Close, nil
}

// printResult renders v as JSON when --json is set, or via fallback.
func printResult(v any, fallback func()) error {
	if jsonOutput {
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal output: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}
	fallback()
	return nil
}

// parsePrice converts a --price flag value to the registry's optional
// price. An empty string clears the price.
func parsePrice(s string) (*uint64, error) {
	if s == "" {
		return nil, nil
	}
	p, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q", s)
	}
	return &p, nil
}

// parseRoyalty converts "account=bps,account=bps" into a royalty table.
func parseRoyalty(s string) (map[string]uint32, error) {
	if s == "" {
		return nil, nil
	}
	table := make(map[string]uint32)
	for _, pair := range strings.Split(s, ",") {
		account, bps, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid royalty entry %q, want account=bps", pair)
		}
		share, err := strconv.ParseUint(bps, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid royalty share %q", bps)
		}
		table[strings.TrimSpace(account)] = uint32(share)
	}
	return table, nil
}
