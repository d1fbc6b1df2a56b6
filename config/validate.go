package config

import (
	"fmt"
	"strings"

	"github.com/mintregorg/libmintreg-go"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within
// acceptable ranges and returns the first error encountered, or nil.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if !mintreg.ValidAccountID(cfg.OwnerAccount) {
		return fmt.Errorf("%w: %q", ErrInvalidOwnerAccount, cfg.OwnerAccount)
	}

	if !mintreg.ValidAccountID(cfg.TreasuryAccount) {
		return fmt.Errorf("%w: %q", ErrInvalidTreasuryAccount, cfg.TreasuryAccount)
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	return nil
}
