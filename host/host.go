// Package host declares the ports through which the registry reaches its
// host environment: value movement, storage rent settlement, transfer and
// approval notification, and per-call randomness. Production
// implementations and test doubles live alongside the interfaces.
package host

// PaymentRail moves value between accounts. Calls are fire-and-forget:
// the registry never inspects the outcome synchronously.
type PaymentRail interface {
	TransferValue(toAccount string, amount uint64)
}

// RentAccountant prices the storage cost of a state-mutating call.
type RentAccountant interface {
	// Settle charges for storageDelta bytes of growth against the value
	// attached to the call, net of sidePayment already committed to the
	// sale itself. It returns the excess to refund to the caller, or an
	// error when the attached value cannot cover the cost. Shrinking
	// calls (negative delta) owe nothing.
	Settle(storageDelta int64, attached, sidePayment uint64) (refund uint64, err error)
}

// ReceiverNotifier delivers the asynchronous notification half of a
// transfer-with-notification and approval hooks to external receivers.
type ReceiverNotifier interface {
	// NotifyReceiver tells the receiving contract about a committed
	// transfer. It reports whether the receiver accepted the edition;
	// a false result makes the resolver return it to the previous owner.
	NotifyReceiver(sender, previousOwner, editionID, msg string) (accepted bool, err error)

	// NotifyApproval tells a delegate contract it has been approved.
	NotifyApproval(editionID, owner string, approvalID uint64, msg string) error
}

// RandomSource supplies the per-call pseudo-random draws used for bundle
// selection. Production sources derive from host-supplied entropy that
// the party finalizing the call context can influence; do not rely on it
// for high-value fairness without an external commit-reveal scheme.
type RandomSource interface {
	// NextIndex returns a value in [0, bound); a zero bound yields zero.
	NextIndex(bound uint64) uint64
}
