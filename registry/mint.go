package registry

import (
	"fmt"
	"time"

	"github.com/mintregorg/libmintreg-go"
	"github.com/mintregorg/libmintreg-go/event"
	"github.com/mintregorg/libmintreg-go/royalty"
	"github.com/mintregorg/libmintreg-go/store"
)

// Mint creates the next numbered edition of a series for receiverID.
// Series creator only. overrideMetadata, when given, is stored verbatim
// for the edition instead of the default issue timestamp record.
func (r *Registry) Mint(caller, seriesID, receiverID string, overrideMetadata *mintreg.TokenMetadata, deposit uint64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !mintreg.ValidAccountID(receiverID) {
		return "", errInvalidInput("receiver account %q", receiverID)
	}

	var editionID string
	o := &outcome{}
	err := r.store.Update(func(tx store.Txn) error {
		rec, err := getSeriesForMint(tx, seriesID)
		if err != nil {
			return err
		}
		if caller != rec.CreatorID {
			return errUnauthorized("account %q is not the creator of series %q", caller, seriesID)
		}
		editionID, err = r.mintEdition(tx, rec, receiverID, overrideMetadata)
		if err != nil {
			return err
		}
		o.emit(event.Mint{OwnerID: receiverID, EditionIDs: []string{editionID}})
		return r.settleRent(tx, o, caller, deposit, 0)
	})
	if err != nil {
		return "", err
	}
	r.dispatch(o)
	return editionID, nil
}

// BuyFromSeries mints the next edition to receiverID against the series
// price. The attached deposit must cover the price; the price is split
// between the creator and the treasury after the platform fee, and the
// deposit remainder funds storage rent.
func (r *Registry) BuyFromSeries(caller, seriesID, receiverID string, overrideMetadata *mintreg.TokenMetadata, deposit uint64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !mintreg.ValidAccountID(receiverID) {
		return "", errInvalidInput("receiver account %q", receiverID)
	}

	var editionID string
	o := &outcome{}
	err := r.store.Update(func(tx store.Txn) error {
		rec, err := getSeriesForMint(tx, seriesID)
		if err != nil {
			return err
		}
		if rec.Price == nil {
			return errInvalidState("series %q is not for sale", seriesID)
		}
		price := *rec.Price
		if deposit < price {
			return errInsufficientFunds("attached deposit is less than price %d", price)
		}

		editionID, err = r.mintEdition(tx, rec, receiverID, overrideMetadata)
		if err != nil {
			return err
		}

		treasuryCut, creatorCut := royalty.SplitSaleFee(price)
		treasury, err := tx.Meta().Treasury()
		if err != nil {
			return err
		}
		o.pay(rec.CreatorID, creatorCut)
		o.pay(treasury, treasuryCut)

		o.emit(event.Mint{
			OwnerID:    receiverID,
			EditionIDs: []string{editionID},
			Memo:       fmt.Sprintf(`{"price":"%d"}`, price),
		})
		return r.settleRent(tx, o, caller, deposit, price)
	})
	if err != nil {
		return "", err
	}
	r.dispatch(o)
	return editionID, nil
}

// MintAndDelegate mints the next edition to the series creator and
// approves delegateID on it in the same operation. Series creator only.
// A non-empty msg is forwarded to the delegate over the notifier after
// the mint commits.
func (r *Registry) MintAndDelegate(caller, seriesID, delegateID string, overrideMetadata *mintreg.TokenMetadata, msg string, deposit uint64) (string, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !mintreg.ValidAccountID(delegateID) {
		return "", 0, errInvalidInput("delegate account %q", delegateID)
	}

	var (
		editionID  string
		approvalID uint64
		creatorID  string
	)
	o := &outcome{}
	err := r.store.Update(func(tx store.Txn) error {
		rec, err := getSeriesForMint(tx, seriesID)
		if err != nil {
			return err
		}
		if caller != rec.CreatorID {
			return errUnauthorized("account %q is not the creator of series %q", caller, seriesID)
		}
		creatorID = rec.CreatorID

		editionID, err = r.mintEdition(tx, rec, rec.CreatorID, overrideMetadata)
		if err != nil {
			return err
		}
		approvalID, err = approveEdition(tx, editionID, delegateID)
		if err != nil {
			return err
		}
		o.emit(event.Mint{OwnerID: rec.CreatorID, EditionIDs: []string{editionID}})
		return r.settleRent(tx, o, caller, deposit, 0)
	})
	if err != nil {
		return "", 0, err
	}
	r.dispatch(o)

	if msg != "" && r.notifier != nil {
		// Fire-and-forget; the approval stands regardless of the outcome.
		_ = r.notifier.NotifyApproval(editionID, creatorID, approvalID, msg)
	}
	return editionID, approvalID, nil
}

// ChangeMetadata replaces the stored per-edition metadata record. Owner
// only. The record is stored verbatim; views still derive the series
// fields first and overlay the stored record on top.
func (r *Registry) ChangeMetadata(caller, editionID string, md mintreg.TokenMetadata) error {
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
		return tx.Metadata().Put(editionID, &md)
	})
}

// Burn destroys an edition. Owner only. The ownership row, owner index
// entry, metadata and approvals all go; the edition number is retired
// and never reassigned.
func (r *Registry) Burn(caller, editionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o := &outcome{}
	err := r.store.Update(func(tx store.Txn) error {
		owner, err := tx.Editions().Owner(editionID)
		if err != nil {
			return errNotFound("edition %q", editionID)
		}
		if caller != owner {
			return errUnauthorized("account %q does not own edition %q", caller, editionID)
		}

		if err := tx.Approvals().Delete(editionID); err != nil {
			return err
		}
		if err := tx.Metadata().Delete(editionID); err != nil {
			return err
		}
		if err := tx.Editions().Delete(editionID); err != nil {
			return err
		}
		o.emit(event.Burn{OwnerID: owner, EditionIDs: []string{editionID}})
		return nil
	})
	if err != nil {
		return err
	}
	r.dispatch(o)
	return nil
}

// mintEdition allocates the next edition number of rec, writes the
// ownership row and metadata, and persists the updated series. Reaching
// the copies cap flips the series non-mintable in the same transaction.
func (r *Registry) mintEdition(tx store.Txn, rec *store.SeriesRecord, receiverID string, overrideMetadata *mintreg.TokenMetadata) (string, error) {
	if !rec.Mintable {
		return "", errInvalidState("series %q is not mintable", rec.ID)
	}
	if copiesCap, capped := rec.CopiesCap(); capped {
		if rec.Minted >= copiesCap {
			return "", errInvalidState("series %q supply maxed", rec.ID)
		}
		if rec.Minted+1 >= copiesCap {
			rec.Mintable = false
		}
	}

	number := rec.Minted + 1
	editionID := mintreg.EditionID(rec.ID, number)
	rec.Minted = number
	if err := tx.Series().Put(rec); err != nil {
		return "", err
	}

	md := overrideMetadata.Clone()
	if md == nil {
		md = &mintreg.TokenMetadata{IssuedAt: r.now().UTC().Format(time.RFC3339)}
	}
	if err := tx.Metadata().Put(editionID, md); err != nil {
		return "", err
	}
	if err := tx.Editions().SetOwner(editionID, receiverID); err != nil {
		return "", err
	}
	return editionID, nil
}

// getSeriesForMint loads a series for a mint path, where a missing
// series is a state fault rather than a lookup miss.
func getSeriesForMint(tx store.Txn, seriesID string) (*store.SeriesRecord, error) {
	rec, err := tx.Series().Get(seriesID)
	if err != nil {
		return nil, errInvalidState("series %q does not exist", seriesID)
	}
	return rec, nil
}
