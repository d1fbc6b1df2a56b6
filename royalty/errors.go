package royalty

import "errors"

var (
	// ErrTooManyRecipients indicates the royalty table exceeds the payout
	// receiver limit given by the caller.
	ErrTooManyRecipients = errors.New("royalty: too many payout recipients")

	// ErrShareOverflow indicates the royalty shares sum past 10000 bps.
	ErrShareOverflow = errors.New("royalty: shares exceed 10000 basis points")
)
