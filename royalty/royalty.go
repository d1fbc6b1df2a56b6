// Package royalty computes per-recipient splits of sale and transfer
// value. All arithmetic is integer-exact: rounding loss from the
// basis-point shares is folded into the owner's remainder so the payout
// always sums to the amount being split.
package royalty

import "github.com/mintregorg/libmintreg-go"

// ComputePayout splits amount between the royalty recipients and the
// current owner. Each recipient other than the owner gets
// floor(amount·bps/10000); the owner receives the exact remainder. A
// recipient equal to the owner folds into the remainder rather than
// being paid twice.
func ComputePayout(seriesRoyalty map[string]uint32, ownerID string, amount uint64, maxRecipients int) (map[string]uint64, error) {
	if len(seriesRoyalty) > maxRecipients {
		return nil, ErrTooManyRecipients
	}

	var totalBps uint64
	for _, bps := range seriesRoyalty {
		totalBps += uint64(bps)
	}
	if totalBps > mintreg.BpsDenominator {
		return nil, ErrShareOverflow
	}

	payout := make(map[string]uint64, len(seriesRoyalty)+1)
	var allocated uint64
	for account, bps := range seriesRoyalty {
		if account == ownerID {
			continue
		}
		share := bpsOf(amount, uint64(bps))
		payout[account] = share
		allocated += share
	}

	// Owner takes the remainder; the sum is exactly amount.
	payout[ownerID] = amount - allocated
	return payout, nil
}

// SplitSaleFee deducts the platform fee from a sale price and returns
// the treasury cut and the creator remainder.
func SplitSaleFee(price uint64) (treasury, creator uint64) {
	treasury = bpsOf(price, mintreg.TreasuryFeeBps)
	return treasury, price - treasury
}

// bpsOf returns floor(amount·bps/10000) without overflowing uint64:
// with amount = q·10000 + r, the product r·bps stays far below 2^64.
func bpsOf(amount, bps uint64) uint64 {
	q := amount / mintreg.BpsDenominator
	r := amount % mintreg.BpsDenominator
	return q*bps + r*bps/mintreg.BpsDenominator
}
