// Package store defines the persistence boundary of the edition registry
// and provides two implementations: a bbolt-backed store for durable
// deployments and an in-memory store for tests and embedders.
//
// All registry state for one logical operation is read and written inside
// a single Txn. An error returned from the Update callback discards every
// pending write, so a failed operation leaves the state exactly as it
// found it.
package store

import "github.com/mintregorg/libmintreg-go"

// Store is a transactional registry database.
type Store interface {
	// View runs fn in a read-only transaction.
	View(fn func(Txn) error) error

	// Update runs fn in a writable transaction. All writes commit together
	// when fn returns nil and are discarded when it returns an error.
	Update(fn func(Txn) error) error

	// Close releases the underlying resources.
	Close() error
}

// Txn exposes the registry tables for the duration of one transaction.
type Txn interface {
	Series() SeriesTable
	Editions() EditionTable
	Metadata() MetadataTable
	Approvals() ApprovalTable
	Bundles() BundleTable
	Meta() MetaTable

	// StorageDelta returns the net bytes this transaction has grown (or,
	// negative, shrunk) the store so far. Fed to the rent accountant.
	StorageDelta() int64
}

// SeriesTable persists series records keyed by their sequential id.
type SeriesTable interface {
	// Get returns the series record or ErrSeriesNotFound.
	Get(id string) (*SeriesRecord, error)

	// Put creates or replaces the record.
	Put(rec *SeriesRecord) error

	// Count returns the number of series created so far.
	Count() (uint64, error)

	// Walk visits records in ascending id order, skipping offset records
	// and stopping after limit (limit 0 means no limit).
	Walk(offset, limit uint64, fn func(*SeriesRecord) error) error
}

// EditionTable persists edition ownership and maintains the owner index.
type EditionTable interface {
	// Owner returns the current owner or ErrEditionNotFound.
	Owner(editionID string) (string, error)

	// SetOwner creates the ownership row or moves it to a new owner,
	// keeping the owner index in step.
	SetOwner(editionID, ownerID string) error

	// Delete removes the ownership row and its index entry.
	Delete(editionID string) error

	// Count returns the number of editions currently owned.
	Count() (uint64, error)

	// CountByOwner returns the number of editions held by owner.
	CountByOwner(owner string) (uint64, error)

	// Walk visits (editionID, owner) pairs in stable key order with
	// offset/limit semantics as in SeriesTable.Walk.
	Walk(offset, limit uint64, fn func(editionID, owner string) error) error

	// WalkOwner visits the edition ids held by owner in stable key order.
	WalkOwner(owner string, offset, limit uint64, fn func(editionID string) error) error
}

// MetadataTable persists the per-edition metadata written at mint time.
type MetadataTable interface {
	// Get returns the stored metadata or ErrMetadataNotFound.
	Get(editionID string) (*mintreg.TokenMetadata, error)

	// Put creates or replaces the metadata row.
	Put(editionID string, md *mintreg.TokenMetadata) error

	// Delete removes the metadata row.
	Delete(editionID string) error
}

// ApprovalTable persists per-edition delegate approvals and the monotonic
// next-approval-id counter. The counter outlives approval resets so ids
// are never reissued within an edition's lifetime.
type ApprovalTable interface {
	// Get returns the approvals for an edition. Missing rows yield an
	// empty map, not an error.
	Get(editionID string) (map[string]uint64, error)

	// Put replaces the approvals. An empty or nil map removes the row.
	Put(editionID string, approvals map[string]uint64) error

	// NextID returns the next approval id to assign, starting at 1.
	NextID(editionID string) (uint64, error)

	// SetNextID stores the next approval id.
	SetNextID(editionID string, id uint64) error

	// Delete removes both the approvals row and the counter (burn only).
	Delete(editionID string) error
}

// BundleTable persists mint bundles and per-buyer purchase counts.
type BundleTable interface {
	// Get returns the bundle record or ErrBundleNotFound.
	Get(id string) (*BundleRecord, error)

	// Put creates or replaces the record.
	Put(rec *BundleRecord) error

	// Delete removes the bundle and all of its purchase counts.
	Delete(id string) error

	// PurchaseCount returns how many times account has bought from the
	// bundle, zero when it never has.
	PurchaseCount(bundleID, account string) (uint32, error)

	// SetPurchaseCount stores the purchase count for account.
	SetPurchaseCount(bundleID, account string, n uint32) error
}

// MetaTable persists registry-level settings.
type MetaTable interface {
	// Owner returns the registry owner account, empty when unset.
	Owner() (string, error)

	// SetOwner stores the registry owner account.
	SetOwner(account string) error

	// Treasury returns the treasury account, empty when unset.
	Treasury() (string, error)

	// SetTreasury stores the treasury account.
	SetTreasury(account string) error
}
