package store

import "errors"

var (
	// ErrSeriesNotFound indicates no series exists under the given id.
	ErrSeriesNotFound = errors.New("store: series not found")

	// ErrEditionNotFound indicates no ownership row exists for the edition.
	ErrEditionNotFound = errors.New("store: edition not found")

	// ErrMetadataNotFound indicates no metadata row exists for the edition.
	ErrMetadataNotFound = errors.New("store: edition metadata not found")

	// ErrBundleNotFound indicates no bundle exists under the given id.
	ErrBundleNotFound = errors.New("store: bundle not found")

	// ErrReadOnly indicates a write was attempted inside a View transaction.
	ErrReadOnly = errors.New("store: transaction is read-only")
)
