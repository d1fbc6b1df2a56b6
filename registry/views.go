package registry

import (
	"github.com/mintregorg/libmintreg-go"
	"github.com/mintregorg/libmintreg-go/store"
)

// GetSeries returns a series by id.
func (r *Registry) GetSeries(seriesID string) (*SeriesView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var view *SeriesView
	err := r.store.View(func(tx store.Txn) error {
		rec, err := getSeries(tx, seriesID)
		if err != nil {
			return err
		}
		view = seriesView(rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// SeriesPrice returns the direct-purchase price, nil when not for sale.
func (r *Registry) SeriesPrice(seriesID string) (*uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var price *uint64
	err := r.store.View(func(tx store.Txn) error {
		rec, err := getSeries(tx, seriesID)
		if err != nil {
			return err
		}
		price = clonePrice(rec.Price)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return price, nil
}

// SeriesSupply returns how many editions of a series have been minted.
// Burned editions still count; numbers are never reassigned.
func (r *Registry) SeriesSupply(seriesID string) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var minted uint64
	err := r.store.View(func(tx store.Txn) error {
		rec, err := getSeries(tx, seriesID)
		if err != nil {
			return err
		}
		minted = rec.Minted
		return nil
	})
	return minted, err
}

// ListSeries returns a page of series in ascending id order. The page
// window must land inside the series set: a zero limit or an offset at
// or past the count is rejected.
func (r *Registry) ListSeries(offset, limit uint64) ([]*SeriesView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var views []*SeriesView
	err := r.store.View(func(tx store.Txn) error {
		if err := checkPage(tx.Series().Count, offset, limit); err != nil {
			return err
		}
		return tx.Series().Walk(offset, limit, func(rec *store.SeriesRecord) error {
			views = append(views, seriesView(rec))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// GetEdition returns one edition with its derived metadata: the series
// metadata with the title suffixed by the edition number, overlaid with
// whatever was stored for the edition at mint time.
func (r *Registry) GetEdition(editionID string) (*EditionView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var view *EditionView
	err := r.store.View(func(tx store.Txn) error {
		var err error
		view, err = editionView(tx, editionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ListEditionsOfSeries returns a page of the live editions of a series
// in edition-number order. Burned numbers are skipped, not replaced.
func (r *Registry) ListEditionsOfSeries(seriesID string, offset, limit uint64) ([]*EditionView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var views []*EditionView
	err := r.store.View(func(tx store.Txn) error {
		rec, err := getSeries(tx, seriesID)
		if err != nil {
			return err
		}
		if limit == 0 || offset >= rec.Minted {
			return errInvalidInput("page (offset %d, limit %d) outside supply %d", offset, limit, rec.Minted)
		}

		for number := offset + 1; number <= rec.Minted && uint64(len(views)) < limit; number++ {
			editionID := mintreg.EditionID(seriesID, number)
			if _, err := tx.Editions().Owner(editionID); err != nil {
				continue // burned
			}
			view, err := editionView(tx, editionID)
			if err != nil {
				return err
			}
			views = append(views, view)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// ListAllEditions returns a page of every live edition in stable key
// order.
func (r *Registry) ListAllEditions(offset, limit uint64) ([]*EditionView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var views []*EditionView
	err := r.store.View(func(tx store.Txn) error {
		if err := checkPage(tx.Editions().Count, offset, limit); err != nil {
			return err
		}
		return tx.Editions().Walk(offset, limit, func(editionID, _ string) error {
			view, err := editionView(tx, editionID)
			if err != nil {
				return err
			}
			views = append(views, view)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// ListEditionsOfOwner returns a page of the editions held by owner. An
// empty owner yields an empty result rather than an error, so callers
// can probe unknown accounts.
func (r *Registry) ListEditionsOfOwner(owner string, offset, limit uint64) ([]*EditionView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var views []*EditionView
	err := r.store.View(func(tx store.Txn) error {
		count, err := tx.Editions().CountByOwner(owner)
		if err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		if limit == 0 || offset >= count {
			return errInvalidInput("page (offset %d, limit %d) outside holdings %d", offset, limit, count)
		}
		return tx.Editions().WalkOwner(owner, offset, limit, func(editionID string) error {
			view, err := editionView(tx, editionID)
			if err != nil {
				return err
			}
			views = append(views, view)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// TotalSupply returns the number of live editions across all series.
func (r *Registry) TotalSupply() (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total uint64
	err := r.store.View(func(tx store.Txn) error {
		var err error
		total, err = tx.Editions().Count()
		return err
	})
	return total, err
}

// SupplyOfOwner returns the number of live editions held by owner.
func (r *Registry) SupplyOfOwner(owner string) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total uint64
	err := r.store.View(func(tx store.Txn) error {
		var err error
		total, err = tx.Editions().CountByOwner(owner)
		return err
	})
	return total, err
}

// editionView assembles the derived view of one edition.
func editionView(tx store.Txn, editionID string) (*EditionView, error) {
	owner, err := tx.Editions().Owner(editionID)
	if err != nil {
		return nil, errNotFound("edition %q", editionID)
	}
	seriesID, number, err := mintreg.ParseEditionID(editionID)
	if err != nil {
		return nil, errInvalidInput("edition id %q", editionID)
	}
	rec, err := getSeries(tx, seriesID)
	if err != nil {
		return nil, err
	}

	md := deriveMetadata(rec, number)
	if stored, err := tx.Metadata().Get(editionID); err == nil {
		overlayMetadata(md, stored)
	}

	approvals, err := tx.Approvals().Get(editionID)
	if err != nil {
		return nil, err
	}
	if len(approvals) == 0 {
		approvals = nil
	}
	return &EditionView{
		EditionID: editionID,
		OwnerID:   owner,
		Metadata:  *md,
		Approvals: approvals,
	}, nil
}

// deriveMetadata projects the series metadata onto one edition: the
// title carries the edition number, extra falls back to the series
// reference, and the per-series copies cap is dropped from the
// per-edition view.
func deriveMetadata(rec *store.SeriesRecord, number uint64) *mintreg.TokenMetadata {
	md := rec.Metadata.Clone()
	if md.Title != "" {
		md.Title = mintreg.EditionTitle(md.Title, number)
	}
	if md.Extra == "" {
		md.Extra = md.Reference
	}
	md.Copies = nil
	return md
}

// overlayMetadata applies the fields stored for the edition at mint time
// on top of the derived series fields.
func overlayMetadata(dst, src *mintreg.TokenMetadata) {
	if src.Title != "" {
		dst.Title = src.Title
	}
	if src.Description != "" {
		dst.Description = src.Description
	}
	if src.Media != "" {
		dst.Media = src.Media
	}
	if src.MediaHash != "" {
		dst.MediaHash = src.MediaHash
	}
	if src.IssuedAt != "" {
		dst.IssuedAt = src.IssuedAt
	}
	if src.ExpiresAt != "" {
		dst.ExpiresAt = src.ExpiresAt
	}
	if src.StartsAt != "" {
		dst.StartsAt = src.StartsAt
	}
	if src.UpdatedAt != "" {
		dst.UpdatedAt = src.UpdatedAt
	}
	if src.Extra != "" {
		dst.Extra = src.Extra
	}
	if src.Reference != "" {
		dst.Reference = src.Reference
	}
	if src.ReferenceHash != "" {
		dst.ReferenceHash = src.ReferenceHash
	}
}

// checkPage validates an offset/limit window against a table count.
func checkPage(count func() (uint64, error), offset, limit uint64) error {
	n, err := count()
	if err != nil {
		return err
	}
	if limit == 0 || offset >= n {
		return errInvalidInput("page (offset %d, limit %d) outside count %d", offset, limit, n)
	}
	return nil
}
