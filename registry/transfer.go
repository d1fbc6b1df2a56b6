package registry

import (
	"github.com/mintregorg/libmintreg-go"
	"github.com/mintregorg/libmintreg-go/event"
	"github.com/mintregorg/libmintreg-go/royalty"
	"github.com/mintregorg/libmintreg-go/store"
)

// Transfer moves an edition to receiverID. The sender must be the owner
// or an approved delegate; a delegate may additionally be pinned to a
// specific approval id. All approvals on the edition are cleared. The
// attached deposit covers storage rent for the ownership move.
func (r *Registry) Transfer(sender, receiverID, editionID string, approvalID *uint64, memo string, deposit uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o := &outcome{}
	err := r.store.Update(func(tx store.Txn) error {
		if _, _, err := r.transfer(tx, o, sender, receiverID, editionID, approvalID, memo); err != nil {
			return err
		}
		return r.settleRent(tx, o, sender, deposit, 0)
	})
	if err != nil {
		return err
	}
	r.dispatch(o)
	return nil
}

// TransferUnsafe is Transfer without rent settlement, for hosts that
// charge storage out of band.
func (r *Registry) TransferUnsafe(sender, receiverID, editionID string, approvalID *uint64, memo string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o := &outcome{}
	err := r.store.Update(func(tx store.Txn) error {
		_, _, err := r.transfer(tx, o, sender, receiverID, editionID, approvalID, memo)
		return err
	})
	if err != nil {
		return err
	}
	r.dispatch(o)
	return nil
}

// TransferWithNotification transfers the edition, then asks the receiver
// over the notifier whether it accepts. A rejecting or failing receiver
// gets the transfer reverted. Returns true when the transfer stands.
//
// The transfer commits before the notification goes out, so the receiver
// observes itself as the owner while deciding.
func (r *Registry) TransferWithNotification(sender, receiverID, editionID string, approvalID *uint64, memo, msg string, deposit uint64) (bool, error) {
	if r.notifier == nil {
		return false, errInvalidState("no receiver notifier configured")
	}

	r.mu.Lock()
	var pending *PendingTransfer
	o := &outcome{}
	err := r.store.Update(func(tx store.Txn) error {
		previousOwner, oldApprovals, err := r.transfer(tx, o, sender, receiverID, editionID, approvalID, memo)
		if err != nil {
			return err
		}
		pending = &PendingTransfer{
			SenderID:        sender,
			PreviousOwnerID: previousOwner,
			ReceiverID:      receiverID,
			EditionID:       editionID,
			Memo:            memo,
			Approvals:       oldApprovals,
		}
		return r.settleRent(tx, o, sender, deposit, 0)
	})
	if err != nil {
		r.mu.Unlock()
		return false, err
	}
	r.dispatch(o)
	r.mu.Unlock()

	// The lock is released while the receiver decides; the resolution
	// re-checks ownership so interleaved transfers are honored.
	accepted, notifyErr := r.notifier.NotifyReceiver(sender, pending.PreviousOwnerID, editionID, msg)
	if notifyErr != nil {
		accepted = false
	}
	return r.ResolveTransfer(pending, accepted)
}

// ResolveTransfer finalizes a notification transfer. When the receiver
// declined and still owns the edition, ownership and the cleared
// approvals are reinstated and a compensating transfer event is logged.
// Returns true when the transfer ultimately stands.
func (r *Registry) ResolveTransfer(pending *PendingTransfer, accepted bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if accepted {
		return true, nil
	}

	stands := true
	o := &outcome{}
	err := r.store.Update(func(tx store.Txn) error {
		owner, err := tx.Editions().Owner(pending.EditionID)
		if err != nil || owner != pending.ReceiverID {
			// Burned or moved on in the meantime; nothing left to revert.
			return nil
		}

		if err := tx.Editions().SetOwner(pending.EditionID, pending.PreviousOwnerID); err != nil {
			return err
		}
		if err := tx.Approvals().Put(pending.EditionID, pending.Approvals); err != nil {
			return err
		}
		stands = false
		o.emit(event.Transfer{
			OldOwnerID: pending.ReceiverID,
			NewOwnerID: pending.PreviousOwnerID,
			EditionIDs: []string{pending.EditionID},
		})
		return nil
	})
	if err != nil {
		return false, err
	}
	r.dispatch(o)
	return stands, nil
}

// TransferWithPayout transfers the edition and computes the royalty
// split of balance among the series royalty accounts and the previous
// owner. The caller is expected to execute the returned payout; the
// registry only moves ownership.
func (r *Registry) TransferWithPayout(sender, receiverID, editionID string, approvalID *uint64, memo string, balance uint64, maxRecipients uint32, deposit uint64) (map[string]uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var payout map[string]uint64
	o := &outcome{}
	err := r.store.Update(func(tx store.Txn) error {
		seriesID, _, err := mintreg.ParseEditionID(editionID)
		if err != nil {
			return errInvalidInput("edition id %q", editionID)
		}
		rec, err := getSeries(tx, seriesID)
		if err != nil {
			return err
		}

		previousOwner, _, err := r.transfer(tx, o, sender, receiverID, editionID, approvalID, memo)
		if err != nil {
			return err
		}

		payout, err = royalty.ComputePayout(rec.Royalty, previousOwner, balance, int(maxRecipients))
		if err != nil {
			return errInvalidInput("payout for edition %q: %v", editionID, err)
		}
		return r.settleRent(tx, o, sender, deposit, 0)
	})
	if err != nil {
		return nil, err
	}
	r.dispatch(o)
	return payout, nil
}

// ComputePayout returns the royalty split of balance for an edition
// without transferring it. The current owner takes the remainder.
func (r *Registry) ComputePayout(editionID string, balance uint64, maxRecipients uint32) (map[string]uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var payout map[string]uint64
	err := r.store.View(func(tx store.Txn) error {
		seriesID, _, err := mintreg.ParseEditionID(editionID)
		if err != nil {
			return errInvalidInput("edition id %q", editionID)
		}
		rec, err := getSeries(tx, seriesID)
		if err != nil {
			return err
		}
		owner, err := tx.Editions().Owner(editionID)
		if err != nil {
			return errNotFound("edition %q", editionID)
		}
		payout, err = royalty.ComputePayout(rec.Royalty, owner, balance, int(maxRecipients))
		if err != nil {
			return errInvalidInput("payout for edition %q: %v", editionID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payout, nil
}

// Approve grants delegateID transfer rights on an edition and returns
// the assigned approval id. Owner only. Re-approving the same delegate
// assigns a fresh id. A non-empty msg is forwarded to the delegate after
// the approval commits.
func (r *Registry) Approve(caller, editionID, delegateID, msg string, deposit uint64) (uint64, error) {
	r.mu.Lock()

	if !mintreg.ValidAccountID(delegateID) {
		r.mu.Unlock()
		return 0, errInvalidInput("delegate account %q", delegateID)
	}

	var approvalID uint64
	o := &outcome{}
	err := r.store.Update(func(tx store.Txn) error {
		owner, err := tx.Editions().Owner(editionID)
		if err != nil {
			return errNotFound("edition %q", editionID)
		}
		if caller != owner {
			return errUnauthorized("account %q does not own edition %q", caller, editionID)
		}
		approvalID, err = approveEdition(tx, editionID, delegateID)
		if err != nil {
			return err
		}
		return r.settleRent(tx, o, caller, deposit, 0)
	})
	if err != nil {
		r.mu.Unlock()
		return 0, err
	}
	r.dispatch(o)
	r.mu.Unlock()

	if msg != "" && r.notifier != nil {
		_ = r.notifier.NotifyApproval(editionID, caller, approvalID, msg)
	}
	return approvalID, nil
}

// Revoke removes delegateID's approval on an edition. Owner only.
// Revoking an account that was never approved is a no-op.
func (r *Registry) Revoke(caller, editionID, delegateID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.store.Update(func(tx store.Txn) error {
		owner, err := tx.Editions().Owner(editionID)
		if err != nil {
			return errNotFound("edition %q", editionID)
		}
		if caller != owner {
			return errUnauthorized("account %q does not own edition %q", caller, editionID)
		}
		approvals, err := tx.Approvals().Get(editionID)
		if err != nil {
			return err
		}
		if _, ok := approvals[delegateID]; !ok {
			return nil
		}
		delete(approvals, delegateID)
		return tx.Approvals().Put(editionID, approvals)
	})
}

// RevokeAll clears every approval on an edition. Owner only.
func (r *Registry) RevokeAll(caller, editionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.store.Update(func(tx store.Txn) error {
		owner, err := tx.Editions().Owner(editionID)
		if err != nil {
			return errNotFound("edition %q", editionID)
		}
		if caller != owner {
			return errUnauthorized("account %q does not own edition %q", caller, editionID)
		}
		return tx.Approvals().Put(editionID, nil)
	})
}

// transfer authorizes and performs one ownership move, clearing the
// edition's approvals and queueing the transfer event. Returns the
// previous owner and the approvals that were cleared.
func (r *Registry) transfer(tx store.Txn, o *outcome, sender, receiverID, editionID string, approvalID *uint64, memo string) (string, map[string]uint64, error) {
	if !mintreg.ValidAccountID(receiverID) {
		return "", nil, errInvalidInput("receiver account %q", receiverID)
	}
	owner, err := tx.Editions().Owner(editionID)
	if err != nil {
		return "", nil, errNotFound("edition %q", editionID)
	}
	if receiverID == owner {
		return "", nil, errInvalidInput("edition %q already belongs to %q", editionID, receiverID)
	}

	approvals, err := tx.Approvals().Get(editionID)
	if err != nil {
		return "", nil, err
	}
	authorizedBy := ""
	if sender != owner {
		granted, ok := approvals[sender]
		if !ok {
			return "", nil, errUnauthorized("account %q may not transfer edition %q", sender, editionID)
		}
		if approvalID != nil && *approvalID != granted {
			return "", nil, errUnauthorized("approval id %d does not match grant for %q", *approvalID, sender)
		}
		authorizedBy = sender
	}

	if len(approvals) > 0 {
		if err := tx.Approvals().Put(editionID, nil); err != nil {
			return "", nil, err
		}
	}
	if err := tx.Editions().SetOwner(editionID, receiverID); err != nil {
		return "", nil, err
	}

	o.emit(event.Transfer{
		OldOwnerID:   owner,
		NewOwnerID:   receiverID,
		EditionIDs:   []string{editionID},
		AuthorizedBy: authorizedBy,
		Memo:         memo,
	})
	return owner, approvals, nil
}

// approveEdition grants delegateID the next approval id on an edition.
func approveEdition(tx store.Txn, editionID, delegateID string) (uint64, error) {
	id, err := tx.Approvals().NextID(editionID)
	if err != nil {
		return 0, err
	}
	approvals, err := tx.Approvals().Get(editionID)
	if err != nil {
		return 0, err
	}
	approvals[delegateID] = id
	if err := tx.Approvals().Put(editionID, approvals); err != nil {
		return 0, err
	}
	if err := tx.Approvals().SetNextID(editionID, id+1); err != nil {
		return 0, err
	}
	return id, nil
}
