package registry

import (
	"strconv"

	"github.com/mintregorg/libmintreg-go"
	"github.com/mintregorg/libmintreg-go/event"
	"github.com/mintregorg/libmintreg-go/store"
)

// Royalty table limits enforced at series creation.
const (
	maxRoyaltyAccounts = 10
	maxRoyaltyBps      = 9000
)

// CreateSeries registers a new series and assigns it the next sequential
// id. The metadata title is required; the royalty table may name at most
// ten accounts totalling at most 9000 basis points. The attached deposit
// covers storage rent and its excess is refunded to the caller.
func (r *Registry) CreateSeries(caller string, metadata mintreg.TokenMetadata, price *uint64, royaltyTable map[string]uint32, creatorID string, deposit uint64) (*SeriesView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if metadata.Title == "" {
		return nil, errInvalidInput("metadata title is required")
	}
	if !mintreg.ValidAccountID(creatorID) {
		return nil, errInvalidInput("creator account %q", creatorID)
	}
	if len(royaltyTable) > maxRoyaltyAccounts {
		return nil, errInvalidInput("royalty exceeds %d accounts", maxRoyaltyAccounts)
	}
	var totalBps uint64
	for account, bps := range royaltyTable {
		if !mintreg.ValidAccountID(account) {
			return nil, errInvalidInput("royalty account %q", account)
		}
		totalBps += uint64(bps)
	}
	if totalBps > maxRoyaltyBps {
		return nil, errInvalidInput("royalty total %d exceeds maximum %d bps", totalBps, maxRoyaltyBps)
	}

	royalty := make(map[string]uint32, len(royaltyTable))
	for account, bps := range royaltyTable {
		royalty[account] = bps
	}

	var view *SeriesView
	o := &outcome{}
	err := r.store.Update(func(tx store.Txn) error {
		count, err := tx.Series().Count()
		if err != nil {
			return err
		}
		seriesID := strconv.FormatUint(count+1, 10)
		if _, err := tx.Series().Get(seriesID); err == nil {
			return errInvalidState("duplicate series id %q", seriesID)
		}

		rec := &store.SeriesRecord{
			ID:        seriesID,
			Metadata:  metadata,
			CreatorID: creatorID,
			Price:     clonePrice(price),
			Mintable:  true,
			Royalty:   royalty,
		}
		if err := tx.Series().Put(rec); err != nil {
			return err
		}

		view = seriesView(rec)
		o.emit(event.SeriesCreated{
			SeriesID:  seriesID,
			CreatorID: creatorID,
			Title:     metadata.Title,
			Price:     clonePrice(price),
			Royalty:   royalty,
		})
		return r.settleRent(tx, o, caller, deposit, 0)
	})
	if err != nil {
		return nil, err
	}
	r.dispatch(o)
	return view, nil
}

// SetSeriesPrice sets or clears the direct-purchase price. Creator only;
// fails once the series is no longer mintable.
func (r *Registry) SetSeriesPrice(caller, seriesID string, price *uint64) (*uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o := &outcome{}
	err := r.store.Update(func(tx store.Txn) error {
		rec, err := getSeries(tx, seriesID)
		if err != nil {
			return err
		}
		if caller != rec.CreatorID {
			return errUnauthorized("account %q is not the creator of series %q", caller, seriesID)
		}
		if !rec.Mintable {
			return errInvalidState("series %q is not mintable", seriesID)
		}

		rec.Price = clonePrice(price)
		if err := tx.Series().Put(rec); err != nil {
			return err
		}
		o.emit(event.SeriesPriceChanged{SeriesID: seriesID, Price: clonePrice(price)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.dispatch(o)
	return clonePrice(price), nil
}

// CloseSeries permanently stops minting from an unbounded series.
// Creator only. Capped series close by decreasing the cap instead.
func (r *Registry) CloseSeries(caller, seriesID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o := &outcome{}
	err := r.store.Update(func(tx store.Txn) error {
		rec, err := getSeries(tx, seriesID)
		if err != nil {
			return err
		}
		if caller != rec.CreatorID {
			return errUnauthorized("account %q is not the creator of series %q", caller, seriesID)
		}
		if !rec.Mintable {
			return errInvalidState("series %q is already non-mintable", seriesID)
		}
		if _, capped := rec.CopiesCap(); capped {
			return errInvalidState("series %q has a copies cap, decrease supply instead", seriesID)
		}

		rec.Mintable = false
		if err := tx.Series().Put(rec); err != nil {
			return err
		}
		o.emit(event.SeriesClosed{SeriesID: seriesID})
		return nil
	})
	if err != nil {
		return err
	}
	r.dispatch(o)
	return nil
}

// DecreaseCopies lowers the supply cap by decreaseBy and returns the new
// cap. Creator only. The cap can never drop below the minted count;
// reaching it exactly also closes the series.
func (r *Registry) DecreaseCopies(caller, seriesID string, decreaseBy uint64) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var newCap uint64
	o := &outcome{}
	err := r.store.Update(func(tx store.Txn) error {
		rec, err := getSeries(tx, seriesID)
		if err != nil {
			return err
		}
		if caller != rec.CreatorID {
			return errUnauthorized("account %q is not the creator of series %q", caller, seriesID)
		}
		copiesCap, capped := rec.CopiesCap()
		if !capped {
			return errInvalidState("series %q has no copies cap", seriesID)
		}
		if decreaseBy > copiesCap || copiesCap-decreaseBy < rec.Minted {
			return errInvalidState("cannot decrease supply of series %q below minted count %d", seriesID, rec.Minted)
		}

		newCap = copiesCap - decreaseBy
		closed := false
		if newCap == rec.Minted {
			rec.Mintable = false
			closed = true
		}
		rec.Metadata.Copies = &newCap
		if err := tx.Series().Put(rec); err != nil {
			return err
		}
		o.emit(event.SeriesCopiesDecreased{SeriesID: seriesID, Copies: newCap, Closed: closed})
		return nil
	})
	if err != nil {
		return 0, err
	}
	r.dispatch(o)
	return newCap, nil
}

// getSeries loads a series, mapping a missing record to the taxonomy.
func getSeries(tx store.Txn, seriesID string) (*store.SeriesRecord, error) {
	rec, err := tx.Series().Get(seriesID)
	if err != nil {
		return nil, errNotFound("series %q", seriesID)
	}
	return rec, nil
}

func seriesView(rec *store.SeriesRecord) *SeriesView {
	royalty := make(map[string]uint32, len(rec.Royalty))
	for account, bps := range rec.Royalty {
		royalty[account] = bps
	}
	return &SeriesView{
		SeriesID:  rec.ID,
		Metadata:  *rec.Metadata.Clone(),
		CreatorID: rec.CreatorID,
		Royalty:   royalty,
	}
}

func clonePrice(price *uint64) *uint64 {
	if price == nil {
		return nil
	}
	p := *price
	return &p
}
