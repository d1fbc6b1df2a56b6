package store

import "github.com/mintregorg/libmintreg-go"

// SeriesRecord is the persisted form of a series.
//
// Minted counts the editions allocated so far. Edition numbers are
// assigned as Minted+1 and never reused, so the set of minted numbers is
// always exactly 1..Minted even after burns.
type SeriesRecord struct {
	ID        string
	Metadata  mintreg.TokenMetadata
	CreatorID string
	Price     *uint64 // nil means not directly purchasable
	Mintable  bool
	Royalty   map[string]uint32 // account → basis points
	Minted    uint64
}

// Clone returns a deep copy of the record.
func (r *SeriesRecord) Clone() *SeriesRecord {
	out := *r
	out.Metadata = *r.Metadata.Clone()
	if r.Price != nil {
		p := *r.Price
		out.Price = &p
	}
	if r.Royalty != nil {
		out.Royalty = make(map[string]uint32, len(r.Royalty))
		for k, v := range r.Royalty {
			out.Royalty[k] = v
		}
	}
	return &out
}

// CopiesCap returns the supply cap, or false when the series is unbounded.
func (r *SeriesRecord) CopiesCap() (uint64, bool) {
	if r.Metadata.Copies == nil {
		return 0, false
	}
	return *r.Metadata.Copies, true
}

// BundleKind tags which content variant a bundle carries.
type BundleKind uint8

const (
	// BundleSeries bundles series ids; purchases mint on demand.
	BundleSeries BundleKind = iota + 1

	// BundleEditions bundles pre-existing edition ids. Reserved: the
	// registry rejects this variant at creation.
	BundleEditions
)

// BundleContents is the tagged contents union; exactly one variant is
// ever populated and the kind says which.
type BundleContents struct {
	Kind BundleKind
	IDs  []string
}

// BundleRecord is the persisted form of a mint bundle.
type BundleRecord struct {
	ID            string
	Contents      BundleContents
	Price         *uint64 // nil means the sale has not opened
	PurchaseLimit *uint32 // nil means unlimited per buyer
}

// Clone returns a deep copy of the record.
func (r *BundleRecord) Clone() *BundleRecord {
	out := *r
	out.Contents.IDs = append([]string(nil), r.Contents.IDs...)
	if r.Price != nil {
		p := *r.Price
		out.Price = &p
	}
	if r.PurchaseLimit != nil {
		l := *r.PurchaseLimit
		out.PurchaseLimit = &l
	}
	return &out
}
