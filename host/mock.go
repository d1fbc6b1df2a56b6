package host

import "sync"

// MockNotifier is a test double for ReceiverNotifier.
// Function fields must be set before the corresponding method is called.
type MockNotifier struct {
	NotifyReceiverFn func(sender, previousOwner, editionID, msg string) (bool, error)
	NotifyApprovalFn func(editionID, owner string, approvalID uint64, msg string) error
}

func (m *MockNotifier) NotifyReceiver(sender, previousOwner, editionID, msg string) (bool, error) {
	return m.NotifyReceiverFn(sender, previousOwner, editionID, msg)
}

func (m *MockNotifier) NotifyApproval(editionID, owner string, approvalID uint64, msg string) error {
	if m.NotifyApprovalFn == nil {
		return nil
	}
	return m.NotifyApprovalFn(editionID, owner, approvalID, msg)
}

// MockRand is a test double for RandomSource.
type MockRand struct {
	NextIndexFn func(bound uint64) uint64
}

func (m *MockRand) NextIndex(bound uint64) uint64 { return m.NextIndexFn(bound) }

// FixedRand always picks the same index, clamped to the bound.
type FixedRand struct {
	Index uint64
}

func (r FixedRand) NextIndex(bound uint64) uint64 {
	if bound == 0 {
		return 0
	}
	return r.Index % bound
}

// Payment is one recorded rail transfer.
type Payment struct {
	To     string
	Amount uint64
}

// RecordingRail retains every transfer for inspection. Safe for
// concurrent use.
type RecordingRail struct {
	mu       sync.Mutex
	payments []Payment
}

func (r *RecordingRail) TransferValue(toAccount string, amount uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments = append(r.payments, Payment{To: toAccount, Amount: amount})
}

// Payments returns a snapshot of the recorded transfers.
func (r *RecordingRail) Payments() []Payment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Payment(nil), r.payments...)
}

// Total returns the sum paid to one account.
func (r *RecordingRail) Total(account string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total uint64
	for _, p := range r.payments {
		if p.To == account {
			total += p.Amount
		}
	}
	return total
}

// NopRail discards every transfer.
type NopRail struct{}

func (NopRail) TransferValue(string, uint64) {}
