package registry

import "github.com/mintregorg/libmintreg-go"

// SeriesView is the external shape of a series record.
type SeriesView struct {
	SeriesID  string                `json:"series_id"`
	Metadata  mintreg.TokenMetadata `json:"metadata"`
	CreatorID string                `json:"creator_id"`
	Royalty   map[string]uint32     `json:"royalty"`
}

// EditionView is the external shape of one owned edition. Metadata is
// derived: the title carries the edition number and reference fields
// default to the series'.
type EditionView struct {
	EditionID string                `json:"edition_id"`
	OwnerID   string                `json:"owner_id"`
	Metadata  mintreg.TokenMetadata `json:"metadata"`
	Approvals map[string]uint64     `json:"approvals,omitempty"`
}

// BundleView is the external shape of a mint bundle.
type BundleView struct {
	BundleID      string   `json:"bundle_id"`
	SeriesIDs     []string `json:"series_ids,omitempty"`
	EditionIDs    []string `json:"edition_ids,omitempty"`
	Price         *uint64  `json:"price,omitempty"`
	PurchaseLimit *uint32  `json:"purchase_limit,omitempty"`
}

// PendingTransfer is the handle a notification transfer leaves behind
// between its synchronous commit and its resolution. The cleared
// approvals ride along so a reversal can reinstate them.
type PendingTransfer struct {
	SenderID        string
	PreviousOwnerID string
	ReceiverID      string
	EditionID       string
	Memo            string
	Approvals       map[string]uint64
}
