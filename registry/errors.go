package registry

import (
	"fmt"

	"github.com/mintregorg/libmintreg-go"
)

// The helpers below wrap the shared error kinds with the specific
// condition so callers can branch with errors.Is(err, mintreg.ErrX)
// while messages still name the account, id or limit involved.

func errNotFound(format string, args ...interface{}) error {
	return wrap(mintreg.ErrNotFound, format, args...)
}

func errUnauthorized(format string, args ...interface{}) error {
	return wrap(mintreg.ErrUnauthorized, format, args...)
}

func errInvalidState(format string, args ...interface{}) error {
	return wrap(mintreg.ErrInvalidState, format, args...)
}

func errInvalidInput(format string, args ...interface{}) error {
	return wrap(mintreg.ErrInvalidInput, format, args...)
}

func errInsufficientFunds(format string, args ...interface{}) error {
	return wrap(mintreg.ErrInsufficientFunds, format, args...)
}

func wrap(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("registry: "+format+": %w", append(args, kind)...)
}
