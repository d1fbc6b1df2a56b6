package mintreg

import "errors"

// The five error kinds every registry operation resolves to. Subpackages
// wrap these with the specific condition so callers can branch with
// errors.Is while still seeing which account, id or limit was involved.
var (
	// ErrNotFound indicates the series, edition or bundle does not exist.
	ErrNotFound = errors.New("mintreg: not found")

	// ErrUnauthorized indicates the caller lacks the required role
	// (series creator, edition owner, or registry owner).
	ErrUnauthorized = errors.New("mintreg: unauthorized")

	// ErrInvalidState indicates the operation is not valid for the current
	// state: series closed, supply exhausted, price unset, purchase limit
	// reached.
	ErrInvalidState = errors.New("mintreg: invalid state")

	// ErrInvalidInput indicates malformed input: bad royalty table, zero
	// pagination limit, out-of-range offset, ambiguous bundle contents.
	ErrInvalidInput = errors.New("mintreg: invalid input")

	// ErrInsufficientFunds indicates the attached value does not cover the
	// price or the storage cost of the call.
	ErrInsufficientFunds = errors.New("mintreg: insufficient funds")
)
