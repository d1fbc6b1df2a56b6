// Package config holds the registry deployment settings: where the
// database lives, which accounts own the registry and receive the
// platform fee, and what storage costs per byte.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ConfigFileName is the name of the config file inside the config dir.
const ConfigFileName = "mintreg.conf"

// Config contains all registry settings.
type Config struct {
	// DataDir is the directory holding the bolt database.
	DataDir string

	// OwnerAccount administers bundles and the treasury setting.
	OwnerAccount string

	// TreasuryAccount receives the platform fee from every sale.
	TreasuryAccount string

	// StorageByteCost is the rent charged per byte of storage growth.
	// Zero waives rent.
	StorageByteCost uint64

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DataDir:         filepath.Join(home, ".mintreg"),
		OwnerAccount:    "registry.owner",
		TreasuryAccount: "registry.treasury",
		StorageByteCost: 0,
		LogLevel:        "info",
	}
}

// ConfigPath returns the config file path under dir.
func ConfigPath(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}

// LoadConfig reads a key=value config file, starting from defaults.
// A missing file yields the defaults; unknown keys are ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrMalformedLine, i+1, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "datadir":
			cfg.DataDir = value
		case "owner":
			cfg.OwnerAccount = value
		case "treasury":
			cfg.TreasuryAccount = value
		case "storagebytecost":
			cost, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return cfg, fmt.Errorf("%w: line %d: storagebytecost %q", ErrMalformedLine, i+1, value)
			}
			cfg.StorageByteCost = cost
		case "loglevel":
			cfg.LogLevel = value
		}
	}
	return cfg, nil
}

// SaveConfig writes the config as a key=value file, creating the
// directory if needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	entries := map[string]string{
		"datadir":         cfg.DataDir,
		"owner":           cfg.OwnerAccount,
		"treasury":        cfg.TreasuryAccount,
		"storagebytecost": strconv.FormatUint(cfg.StorageByteCost, 10),
		"loglevel":        cfg.LogLevel,
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("# mintreg registry configuration\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, entries[k])
	}

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
