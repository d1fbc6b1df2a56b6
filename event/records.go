package event

// SeriesCreated is emitted when a new series is registered.
type SeriesCreated struct {
	SeriesID  string            `json:"series_id"`
	CreatorID string            `json:"creator_id"`
	Title     string            `json:"title"`
	Price     *uint64           `json:"price,omitempty"`
	Royalty   map[string]uint32 `json:"royalty,omitempty"`
}

func (SeriesCreated) Event() string { return "series_create" }

// SeriesPriceChanged is emitted when a creator sets or clears the price.
type SeriesPriceChanged struct {
	SeriesID string  `json:"series_id"`
	Price    *uint64 `json:"price,omitempty"`
}

func (SeriesPriceChanged) Event() string { return "series_set_price" }

// SeriesClosed is emitted when a series becomes permanently non-mintable.
type SeriesClosed struct {
	SeriesID string `json:"series_id"`
}

func (SeriesClosed) Event() string { return "series_close" }

// SeriesCopiesDecreased is emitted when the supply cap is lowered.
type SeriesCopiesDecreased struct {
	SeriesID string `json:"series_id"`
	Copies   uint64 `json:"copies"`
	Closed   bool   `json:"closed"`
}

func (SeriesCopiesDecreased) Event() string { return "series_decrease_copies" }

// Mint is emitted for every minted edition, including bundle purchases.
type Mint struct {
	OwnerID    string   `json:"owner_id"`
	EditionIDs []string `json:"edition_ids"`
	Memo       string   `json:"memo,omitempty"`
}

func (Mint) Event() string { return "mint" }

// Burn is emitted when an owner destroys an edition.
type Burn struct {
	OwnerID    string   `json:"owner_id"`
	EditionIDs []string `json:"edition_ids"`
}

func (Burn) Event() string { return "burn" }

// Transfer is emitted on every ownership change, including the
// compensating reversal after a rejected notification transfer.
// AuthorizedBy is set only when a delegate moved the edition.
type Transfer struct {
	OldOwnerID   string   `json:"old_owner_id"`
	NewOwnerID   string   `json:"new_owner_id"`
	EditionIDs   []string `json:"edition_ids"`
	AuthorizedBy string   `json:"authorized_id,omitempty"`
	Memo         string   `json:"memo,omitempty"`
}

func (Transfer) Event() string { return "transfer" }

// BundleCreated is emitted when the registry owner creates a bundle.
type BundleCreated struct {
	BundleID      string   `json:"bundle_id"`
	SeriesIDs     []string `json:"series_ids,omitempty"`
	Price         *uint64  `json:"price,omitempty"`
	PurchaseLimit *uint32  `json:"purchase_limit,omitempty"`
}

func (BundleCreated) Event() string { return "bundle_create" }

// BundlePurchase is emitted on every successful bundle buy.
type BundlePurchase struct {
	BundleID  string `json:"bundle_id"`
	BuyerID   string `json:"buyer_id"`
	EditionID string `json:"edition_id"`
	Price     uint64 `json:"price"`
}

func (BundlePurchase) Event() string { return "bundle_buy" }

// BundleDeleted is emitted when a bundle drains empty or is removed.
type BundleDeleted struct {
	BundleID string `json:"bundle_id"`
}

func (BundleDeleted) Event() string { return "bundle_delete" }
