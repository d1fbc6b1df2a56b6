package registry

import (
	"fmt"

	"github.com/mintregorg/libmintreg-go"
	"github.com/mintregorg/libmintreg-go/event"
	"github.com/mintregorg/libmintreg-go/royalty"
	"github.com/mintregorg/libmintreg-go/store"
)

// CreateMintBundle registers a bundle of series ids a buyer can draw a
// random mint from. Registry owner only. Only the series-backed variant
// is accepted; every listed series must exist.
func (r *Registry) CreateMintBundle(caller, bundleID string, contents store.BundleContents, price *uint64, purchaseLimit *uint32, deposit uint64) (*BundleView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if bundleID == "" {
		return nil, errInvalidInput("bundle id is required")
	}
	switch contents.Kind {
	case store.BundleSeries:
		if len(contents.IDs) == 0 {
			return nil, errInvalidInput("bundle %q has no series", bundleID)
		}
	case store.BundleEditions:
		return nil, errInvalidInput("edition-backed bundles are not supported")
	default:
		return nil, errInvalidInput("bundle %q has no contents", bundleID)
	}

	var view *BundleView
	o := &outcome{}
	err := r.store.Update(func(tx store.Txn) error {
		if err := requireOwner(tx, caller); err != nil {
			return err
		}
		if _, err := tx.Bundles().Get(bundleID); err == nil {
			return errInvalidInput("bundle id %q already exists", bundleID)
		}
		for _, seriesID := range contents.IDs {
			if _, err := tx.Series().Get(seriesID); err != nil {
				return errNotFound("series %q", seriesID)
			}
		}

		rec := &store.BundleRecord{
			ID: bundleID,
			Contents: store.BundleContents{
				Kind: store.BundleSeries,
				IDs:  append([]string(nil), contents.IDs...),
			},
			Price:         clonePrice(price),
			PurchaseLimit: cloneLimit(purchaseLimit),
		}
		if err := tx.Bundles().Put(rec); err != nil {
			return err
		}

		view = bundleView(rec)
		o.emit(event.BundleCreated{
			BundleID:      bundleID,
			SeriesIDs:     append([]string(nil), contents.IDs...),
			Price:         clonePrice(price),
			PurchaseLimit: cloneLimit(purchaseLimit),
		})
		return r.settleRent(tx, o, caller, deposit, 0)
	})
	if err != nil {
		return nil, err
	}
	r.dispatch(o)
	return view, nil
}

// DeleteMintBundle removes a bundle and its purchase counts. Registry
// owner only.
func (r *Registry) DeleteMintBundle(caller, bundleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o := &outcome{}
	err := r.store.Update(func(tx store.Txn) error {
		if err := requireOwner(tx, caller); err != nil {
			return err
		}
		if _, err := tx.Bundles().Get(bundleID); err != nil {
			return errNotFound("bundle %q", bundleID)
		}
		if err := tx.Bundles().Delete(bundleID); err != nil {
			return err
		}
		o.emit(event.BundleDeleted{BundleID: bundleID})
		return nil
	})
	if err != nil {
		return err
	}
	r.dispatch(o)
	return nil
}

// SetMintBundlePrice sets or clears the bundle price. Registry owner
// only. A nil price suspends sales.
func (r *Registry) SetMintBundlePrice(caller, bundleID string, price *uint64) (*uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.store.Update(func(tx store.Txn) error {
		if err := requireOwner(tx, caller); err != nil {
			return err
		}
		rec, err := tx.Bundles().Get(bundleID)
		if err != nil {
			return errNotFound("bundle %q", bundleID)
		}
		rec.Price = clonePrice(price)
		return tx.Bundles().Put(rec)
	})
	if err != nil {
		return nil, err
	}
	return clonePrice(price), nil
}

// BuyMintBundle draws a random series from the bundle and mints its next
// edition to the caller. The attached deposit must strictly exceed the
// price; a series that reaches its cap by this mint is removed from the
// bundle, and a bundle whose last series drains is deleted. Returns the
// minted edition id.
func (r *Registry) BuyMintBundle(caller, bundleID string, deposit uint64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !mintreg.ValidAccountID(caller) {
		return "", errInvalidInput("buyer account %q", caller)
	}

	var editionID string
	o := &outcome{}
	err := r.store.Update(func(tx store.Txn) error {
		rec, err := tx.Bundles().Get(bundleID)
		if err != nil {
			return errNotFound("bundle %q", bundleID)
		}
		if rec.Price == nil {
			return errInvalidState("bundle %q is not for sale", bundleID)
		}
		price := *rec.Price
		if deposit <= price {
			return errInsufficientFunds("attached deposit must exceed price %d", price)
		}
		if len(rec.Contents.IDs) == 0 {
			return errInvalidState("bundle %q is empty", bundleID)
		}

		// Purchase counts exist only to enforce the limit; unlimited
		// bundles never track them.
		var bought uint32
		if rec.PurchaseLimit != nil {
			bought, err = tx.Bundles().PurchaseCount(bundleID, caller)
			if err != nil {
				return err
			}
			if bought >= *rec.PurchaseLimit {
				return errInvalidState("purchase limit of bundle %q exhausted for %q", bundleID, caller)
			}
		}

		idx := r.rand.NextIndex(uint64(len(rec.Contents.IDs)))
		seriesID := rec.Contents.IDs[idx]
		series, err := tx.Series().Get(seriesID)
		if err != nil {
			return errInvalidState("series %q does not exist", seriesID)
		}

		editionID, err = r.mintEdition(tx, series, caller, nil)
		if err != nil {
			return err
		}

		if rec.PurchaseLimit != nil {
			if err := tx.Bundles().SetPurchaseCount(bundleID, caller, bought+1); err != nil {
				return err
			}
		}

		// Drained series leave the bundle by swap-remove; a bundle with
		// nothing left to sell goes with them, purchase counts included.
		if !series.Mintable {
			last := len(rec.Contents.IDs) - 1
			rec.Contents.IDs[idx] = rec.Contents.IDs[last]
			rec.Contents.IDs = rec.Contents.IDs[:last]
		}
		if len(rec.Contents.IDs) == 0 {
			if err := tx.Bundles().Delete(bundleID); err != nil {
				return err
			}
			o.emit(event.BundleDeleted{BundleID: bundleID})
		} else {
			if err := tx.Bundles().Put(rec); err != nil {
				return err
			}
		}

		if price > 0 {
			treasuryCut, creatorCut := royalty.SplitSaleFee(price)
			treasury, err := tx.Meta().Treasury()
			if err != nil {
				return err
			}
			o.pay(series.CreatorID, creatorCut)
			o.pay(treasury, treasuryCut)
		}

		o.emit(event.BundlePurchase{
			BundleID:  bundleID,
			BuyerID:   caller,
			EditionID: editionID,
			Price:     price,
		})
		o.emit(event.Mint{
			OwnerID:    caller,
			EditionIDs: []string{editionID},
			Memo:       fmt.Sprintf(`{"bundle_id":%q}`, bundleID),
		})
		return r.settleRent(tx, o, caller, deposit, price)
	})
	if err != nil {
		return "", err
	}
	r.dispatch(o)

	// Sources that draw per call context move to the next draw.
	if rot, ok := r.rand.(interface{ Rotate() }); ok {
		rot.Rotate()
	}
	return editionID, nil
}

// GetMintBundle returns a bundle by id.
func (r *Registry) GetMintBundle(bundleID string) (*BundleView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var view *BundleView
	err := r.store.View(func(tx store.Txn) error {
		rec, err := tx.Bundles().Get(bundleID)
		if err != nil {
			return errNotFound("bundle %q", bundleID)
		}
		view = bundleView(rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// BuyerPurchaseCount returns how many times account has bought from the
// bundle. Unknown bundles and accounts yield zero.
func (r *Registry) BuyerPurchaseCount(bundleID, account string) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n uint32
	err := r.store.View(func(tx store.Txn) error {
		var err error
		n, err = tx.Bundles().PurchaseCount(bundleID, account)
		return err
	})
	return n, err
}

func bundleView(rec *store.BundleRecord) *BundleView {
	view := &BundleView{
		BundleID:      rec.ID,
		Price:         clonePrice(rec.Price),
		PurchaseLimit: cloneLimit(rec.PurchaseLimit),
	}
	switch rec.Contents.Kind {
	case store.BundleSeries:
		view.SeriesIDs = append([]string(nil), rec.Contents.IDs...)
	case store.BundleEditions:
		view.EditionIDs = append([]string(nil), rec.Contents.IDs...)
	}
	return view
}

func cloneLimit(limit *uint32) *uint32 {
	if limit == nil {
		return nil
	}
	l := *limit
	return &l
}
