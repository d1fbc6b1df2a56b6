package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mintregorg/libmintreg-go"
	"github.com/mintregorg/libmintreg-go/event"
	"github.com/mintregorg/libmintreg-go/host"
)

// mintTo creates a fresh unbounded series and mints one edition to owner.
func mintTo(t *testing.T, env *testEnv, owner string) string {
	t.Helper()
	seriesID := env.createSeries(t, 0, nil, nil)
	editionID, err := env.reg.Mint(creatorAccount, seriesID, owner, nil, 0)
	require.NoError(t, err)
	return editionID
}

// ---------------------------------------------------------------------------
// Transfer tests
// ---------------------------------------------------------------------------

func TestTransfer_ByOwner(t *testing.T) {
	env := newTestEnv(t, Options{})
	editionID := mintTo(t, env, buyerAccount)

	require.NoError(t, env.reg.Transfer(buyerAccount, otherAccount, editionID, nil, "gift", 0))

	view, err := env.reg.GetEdition(editionID)
	require.NoError(t, err)
	assert.Equal(t, otherAccount, view.OwnerID)

	recs := env.sink.ByEvent("transfer")
	require.Len(t, recs, 1)
	rec := recs[0].(event.Transfer)
	assert.Equal(t, buyerAccount, rec.OldOwnerID)
	assert.Equal(t, otherAccount, rec.NewOwnerID)
	assert.Equal(t, "gift", rec.Memo)
	assert.Empty(t, rec.AuthorizedBy)
}

func TestTransfer_ByDelegate(t *testing.T) {
	env := newTestEnv(t, Options{})
	editionID := mintTo(t, env, buyerAccount)

	approvalID, err := env.reg.Approve(buyerAccount, editionID, otherAccount, "", 0)
	require.NoError(t, err)

	// The wrong approval id is refused.
	wrong := approvalID + 1
	err = env.reg.Transfer(otherAccount, creatorAccount, editionID, &wrong, "", 0)
	assert.ErrorIs(t, err, mintreg.ErrUnauthorized)

	require.NoError(t, env.reg.Transfer(otherAccount, creatorAccount, editionID, &approvalID, "", 0))

	recs := env.sink.ByEvent("transfer")
	require.Len(t, recs, 1)
	assert.Equal(t, otherAccount, recs[0].(event.Transfer).AuthorizedBy)

	// Approvals are cleared by the transfer.
	err = env.reg.TransferUnsafe(otherAccount, buyerAccount, editionID, nil, "")
	assert.ErrorIs(t, err, mintreg.ErrUnauthorized)
}

func TestTransfer_Stranger(t *testing.T) {
	env := newTestEnv(t, Options{})
	editionID := mintTo(t, env, buyerAccount)

	err := env.reg.Transfer(otherAccount, otherAccount, editionID, nil, "", 0)
	assert.ErrorIs(t, err, mintreg.ErrUnauthorized)
}

func TestTransfer_ToCurrentOwner(t *testing.T) {
	env := newTestEnv(t, Options{})
	editionID := mintTo(t, env, buyerAccount)

	err := env.reg.Transfer(buyerAccount, buyerAccount, editionID, nil, "", 0)
	assert.ErrorIs(t, err, mintreg.ErrInvalidInput)
}

func TestTransfer_UnknownEdition(t *testing.T) {
	env := newTestEnv(t, Options{})

	err := env.reg.Transfer(buyerAccount, otherAccount, "1:1", nil, "", 0)
	assert.ErrorIs(t, err, mintreg.ErrNotFound)
}

// ---------------------------------------------------------------------------
// TransferWithNotification tests
// ---------------------------------------------------------------------------

func TestTransferWithNotification_Accepted(t *testing.T) {
	notifier := &host.MockNotifier{
		NotifyReceiverFn: func(sender, previousOwner, editionID, msg string) (bool, error) {
			return true, nil
		},
	}
	env := newTestEnv(t, Options{Notifier: notifier})
	editionID := mintTo(t, env, buyerAccount)

	stands, err := env.reg.TransferWithNotification(buyerAccount, otherAccount, editionID, nil, "", "payload", 0)
	require.NoError(t, err)
	assert.True(t, stands)

	view, err := env.reg.GetEdition(editionID)
	require.NoError(t, err)
	assert.Equal(t, otherAccount, view.OwnerID)
}

func TestTransferWithNotification_Rejected(t *testing.T) {
	notifier := &host.MockNotifier{
		NotifyReceiverFn: func(sender, previousOwner, editionID, msg string) (bool, error) {
			return false, nil
		},
	}
	env := newTestEnv(t, Options{Notifier: notifier})
	editionID := mintTo(t, env, buyerAccount)

	approvalID, err := env.reg.Approve(buyerAccount, editionID, creatorAccount, "", 0)
	require.NoError(t, err)

	stands, err := env.reg.TransferWithNotification(buyerAccount, otherAccount, editionID, nil, "", "payload", 0)
	require.NoError(t, err)
	assert.False(t, stands)

	// Ownership and the cleared approvals are reinstated.
	view, err := env.reg.GetEdition(editionID)
	require.NoError(t, err)
	assert.Equal(t, buyerAccount, view.OwnerID)
	assert.Equal(t, map[string]uint64{creatorAccount: approvalID}, view.Approvals)

	// Both the transfer and its reversal are logged.
	assert.Len(t, env.sink.ByEvent("transfer"), 2)
}

func TestTransferWithNotification_NotifierError(t *testing.T) {
	notifier := &host.MockNotifier{
		NotifyReceiverFn: func(sender, previousOwner, editionID, msg string) (bool, error) {
			return true, errors.New("receiver unreachable")
		},
	}
	env := newTestEnv(t, Options{Notifier: notifier})
	editionID := mintTo(t, env, buyerAccount)

	// A failing notification counts as rejection.
	stands, err := env.reg.TransferWithNotification(buyerAccount, otherAccount, editionID, nil, "", "", 0)
	require.NoError(t, err)
	assert.False(t, stands)

	view, err := env.reg.GetEdition(editionID)
	require.NoError(t, err)
	assert.Equal(t, buyerAccount, view.OwnerID)
}

func TestResolveTransfer_ReceiverMovedOn(t *testing.T) {
	env := newTestEnv(t, Options{})
	editionID := mintTo(t, env, buyerAccount)

	require.NoError(t, env.reg.TransferUnsafe(buyerAccount, otherAccount, editionID, nil, ""))
	pending := &PendingTransfer{
		SenderID:        buyerAccount,
		PreviousOwnerID: buyerAccount,
		ReceiverID:      otherAccount,
		EditionID:       editionID,
	}

	// The receiver passed it along before resolution; the reversal is
	// skipped and the transfer stands.
	require.NoError(t, env.reg.TransferUnsafe(otherAccount, creatorAccount, editionID, nil, ""))
	stands, err := env.reg.ResolveTransfer(pending, false)
	require.NoError(t, err)
	assert.True(t, stands)

	view, err := env.reg.GetEdition(editionID)
	require.NoError(t, err)
	assert.Equal(t, creatorAccount, view.OwnerID)
}

// ---------------------------------------------------------------------------
// Payout tests
// ---------------------------------------------------------------------------

func TestComputePayout(t *testing.T) {
	env := newTestEnv(t, Options{})
	seriesID := env.createSeries(t, 0, nil, map[string]uint32{
		creatorAccount: 1000,
		otherAccount:   250,
	})
	editionID, err := env.reg.Mint(creatorAccount, seriesID, buyerAccount, nil, 0)
	require.NoError(t, err)

	payout, err := env.reg.ComputePayout(editionID, 10000, 10)
	require.NoError(t, err)
	assert.Equal(t, map[string]uint64{
		creatorAccount: 1000,
		otherAccount:   250,
		buyerAccount:   8750,
	}, payout)
}

func TestComputePayout_OwnerInRoyaltyTable(t *testing.T) {
	env := newTestEnv(t, Options{})
	seriesID := env.createSeries(t, 0, nil, map[string]uint32{creatorAccount: 1000})
	editionID, err := env.reg.Mint(creatorAccount, seriesID, creatorAccount, nil, 0)
	require.NoError(t, err)

	// The owner's royalty share folds into the remainder.
	payout, err := env.reg.ComputePayout(editionID, 10000, 10)
	require.NoError(t, err)
	assert.Equal(t, map[string]uint64{creatorAccount: 10000}, payout)
}

func TestComputePayout_TooManyRecipients(t *testing.T) {
	env := newTestEnv(t, Options{})
	seriesID := env.createSeries(t, 0, nil, map[string]uint32{
		creatorAccount: 100,
		otherAccount:   100,
	})
	editionID, err := env.reg.Mint(creatorAccount, seriesID, buyerAccount, nil, 0)
	require.NoError(t, err)

	_, err = env.reg.ComputePayout(editionID, 10000, 1)
	assert.ErrorIs(t, err, mintreg.ErrInvalidInput)
}

func TestTransferWithPayout(t *testing.T) {
	env := newTestEnv(t, Options{})
	seriesID := env.createSeries(t, 0, nil, map[string]uint32{creatorAccount: 500})
	editionID, err := env.reg.Mint(creatorAccount, seriesID, buyerAccount, nil, 0)
	require.NoError(t, err)

	payout, err := env.reg.TransferWithPayout(buyerAccount, otherAccount, editionID, nil, "", 10000, 10, 0)
	require.NoError(t, err)

	// The seller is the previous owner; the split is against them.
	assert.Equal(t, map[string]uint64{
		creatorAccount: 500,
		buyerAccount:   9500,
	}, payout)

	view, err := env.reg.GetEdition(editionID)
	require.NoError(t, err)
	assert.Equal(t, otherAccount, view.OwnerID)
}

// ---------------------------------------------------------------------------
// Approval tests
// ---------------------------------------------------------------------------

func TestApprove_IDsAreMonotonic(t *testing.T) {
	env := newTestEnv(t, Options{})
	editionID := mintTo(t, env, buyerAccount)

	first, err := env.reg.Approve(buyerAccount, editionID, otherAccount, "", 0)
	require.NoError(t, err)
	second, err := env.reg.Approve(buyerAccount, editionID, creatorAccount, "", 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second)

	// Re-approving assigns a fresh id, even after a revoke.
	require.NoError(t, env.reg.Revoke(buyerAccount, editionID, otherAccount))
	third, err := env.reg.Approve(buyerAccount, editionID, otherAccount, "", 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), third)
}

func TestApprove_NonOwner(t *testing.T) {
	env := newTestEnv(t, Options{})
	editionID := mintTo(t, env, buyerAccount)

	_, err := env.reg.Approve(otherAccount, editionID, otherAccount, "", 0)
	assert.ErrorIs(t, err, mintreg.ErrUnauthorized)
}

func TestRevokeAll(t *testing.T) {
	env := newTestEnv(t, Options{})
	editionID := mintTo(t, env, buyerAccount)

	_, err := env.reg.Approve(buyerAccount, editionID, otherAccount, "", 0)
	require.NoError(t, err)
	_, err = env.reg.Approve(buyerAccount, editionID, creatorAccount, "", 0)
	require.NoError(t, err)

	require.NoError(t, env.reg.RevokeAll(buyerAccount, editionID))

	view, err := env.reg.GetEdition(editionID)
	require.NoError(t, err)
	assert.Empty(t, view.Approvals)
}

func TestRevoke_UnknownDelegateIsNoop(t *testing.T) {
	env := newTestEnv(t, Options{})
	editionID := mintTo(t, env, buyerAccount)

	assert.NoError(t, env.reg.Revoke(buyerAccount, editionID, otherAccount))
}
