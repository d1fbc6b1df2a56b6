package config

import "errors"

var (
	// ErrEmptyDataDir indicates no data directory was configured.
	ErrEmptyDataDir = errors.New("config: data directory is empty")

	// ErrInvalidOwnerAccount indicates the owner account id is malformed.
	ErrInvalidOwnerAccount = errors.New("config: invalid owner account")

	// ErrInvalidTreasuryAccount indicates the treasury account id is malformed.
	ErrInvalidTreasuryAccount = errors.New("config: invalid treasury account")

	// ErrInvalidLogLevel indicates an unknown log level string.
	ErrInvalidLogLevel = errors.New("config: invalid log level")

	// ErrMalformedLine indicates a config file line is not key=value.
	ErrMalformedLine = errors.New("config: malformed line")
)
