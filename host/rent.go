package host

import (
	"fmt"

	"github.com/mintregorg/libmintreg-go"
)

// minRefund is the smallest excess worth sending back over the rail.
const minRefund = 1

// ByteCostAccountant charges storage growth at a flat per-byte cost.
type ByteCostAccountant struct {
	ByteCost uint64
}

// Compile-time interface check.
var _ RentAccountant = (*ByteCostAccountant)(nil)

// Settle implements RentAccountant. Refunds at or below the dust
// threshold are kept rather than sent back.
func (a *ByteCostAccountant) Settle(storageDelta int64, attached, sidePayment uint64) (uint64, error) {
	if attached < sidePayment {
		return 0, fmt.Errorf("host: attached value %d below side payment %d: %w",
			attached, sidePayment, mintreg.ErrInsufficientFunds)
	}
	available := attached - sidePayment

	var required uint64
	if storageDelta > 0 {
		required = uint64(storageDelta) * a.ByteCost
	}
	if required > available {
		return 0, fmt.Errorf("host: must attach %d to cover storage, got %d: %w",
			required, available, mintreg.ErrInsufficientFunds)
	}

	refund := available - required
	if refund <= minRefund {
		return 0, nil
	}
	return refund, nil
}

// NopAccountant waives storage rent and refunds nothing.
type NopAccountant struct{}

// Settle implements RentAccountant.
func (NopAccountant) Settle(int64, uint64, uint64) (uint64, error) { return 0, nil }
