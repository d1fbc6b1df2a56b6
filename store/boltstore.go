package store

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.etcd.io/bbolt"

	"github.com/mintregorg/libmintreg-go"
)

var (
	bucketSeries      = []byte("series")
	bucketEditions    = []byte("editions")
	bucketOwnerIndex  = []byte("editions_by_owner")
	bucketMetadata    = []byte("edition_metadata")
	bucketApprovals   = []byte("approvals")
	bucketApprovalSeq = []byte("approval_next_id")
	bucketBundles     = []byte("bundles")
	bucketBuys        = []byte("bundle_buys")
	bucketMeta        = []byte("meta")
)

var (
	metaKeyOwner    = []byte("owner")
	metaKeyTreasury = []byte("treasury")
)

// BoltStore is a bbolt-backed Store.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("store: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		buckets := [][]byte{
			bucketSeries, bucketEditions, bucketOwnerIndex, bucketMetadata,
			bucketApprovals, bucketApprovalSeq, bucketBundles, bucketBuys, bucketMeta,
		}
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("boltstore: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// View runs fn in a read-only transaction.
func (s *BoltStore) View(fn func(Txn) error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		return fn(&boltTxn{tx: tx})
	})
}

// Update runs fn in a writable transaction.
func (s *BoltStore) Update(fn func(Txn) error) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return fn(&boltTxn{tx: tx})
	})
}

// seriesNum parses a registry-assigned decimal series id. Returns false
// for ids the registry never assigns.
func seriesNum(id string) (uint64, bool) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// seriesKey encodes a decimal series id as an 8-byte big-endian key so
// cursor order matches creation order.
func seriesKey(id string) ([]byte, bool) {
	n, ok := seriesNum(id)
	if !ok {
		return nil, false
	}
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, n)
	return k, true
}

// compositeKey joins two string parts with a NUL separator for prefix
// scanning; account ids and edition ids never contain NUL.
func compositeKey(prefix, rest string) []byte {
	k := make([]byte, 0, len(prefix)+1+len(rest))
	k = append(k, prefix...)
	k = append(k, 0)
	k = append(k, rest...)
	return k
}

// compositePrefix returns the scan prefix for compositeKey(prefix, *).
func compositePrefix(prefix string) []byte {
	k := make([]byte, 0, len(prefix)+1)
	k = append(k, prefix...)
	k = append(k, 0)
	return k
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// ---------------------------------------------------------------------------
// boltTxn implements Txn over a single *bbolt.Tx.
// ---------------------------------------------------------------------------

type boltTxn struct {
	tx    *bbolt.Tx
	delta int64
}

func (t *boltTxn) Series() SeriesTable { return boltSeries{t} }
func (t *boltTxn) Editions() EditionTable { return boltEditions{t} }
func (t *boltTxn) Metadata() MetadataTable { return boltMetadata{t} }
func (t *boltTxn) Approvals() ApprovalTable { return boltApprovals{t} }
func (t *boltTxn) Bundles() BundleTable { return boltBundles{t} }
func (t *boltTxn) Meta() MetaTable { return boltMeta{t} }
func (t *boltTxn) StorageDelta() int64 { return t.delta }

// put writes k→v into bucket, folding the byte change into the delta.
func (t *boltTxn) put(bucket, k, v []byte) error {
	if !t.tx.Writable() {
		return ErrReadOnly
	}
	b := t.tx.Bucket(bucket)
	if old := b.Get(k); old != nil {
		t.delta -= int64(len(k) + len(old))
	}
	t.delta += int64(len(k) + len(v))
	return b.Put(k, v)
}

// del removes k from bucket, folding the byte change into the delta.
func (t *boltTxn) del(bucket, k []byte) error {
	if !t.tx.Writable() {
		return ErrReadOnly
	}
	b := t.tx.Bucket(bucket)
	if old := b.Get(k); old != nil {
		t.delta -= int64(len(k) + len(old))
	}
	return b.Delete(k)
}

func (t *boltTxn) get(bucket, k []byte) []byte {
	return t.tx.Bucket(bucket).Get(k)
}

// countKeys counts the keys in a bucket with a cursor walk. Stats are not
// refreshed mid-transaction, so counting by hand is the reliable path.
func (t *boltTxn) countKeys(bucket []byte) uint64 {
	var n uint64
	c := t.tx.Bucket(bucket).Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		n++
	}
	return n
}

// ---------------------------------------------------------------------------
// Series table
// ---------------------------------------------------------------------------

type boltSeries struct{ t *boltTxn }

func (s boltSeries) Get(id string) (*SeriesRecord, error) {
	k, ok := seriesKey(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSeriesNotFound, id)
	}
	data := s.t.get(bucketSeries, k)
	if data == nil {
		return nil, fmt.Errorf("%w: %q", ErrSeriesNotFound, id)
	}
	var rec SeriesRecord
	if err := decodeGob(data, &rec); err != nil {
		return nil, fmt.Errorf("boltstore: decode series %q: %w", id, err)
	}
	return &rec, nil
}

func (s boltSeries) Put(rec *SeriesRecord) error {
	k, ok := seriesKey(rec.ID)
	if !ok {
		return fmt.Errorf("boltstore: non-numeric series id %q", rec.ID)
	}
	data, err := encodeGob(rec)
	if err != nil {
		return fmt.Errorf("boltstore: encode series %q: %w", rec.ID, err)
	}
	return s.t.put(bucketSeries, k, data)
}

func (s boltSeries) Count() (uint64, error) {
	return s.t.countKeys(bucketSeries), nil
}

func (s boltSeries) Walk(offset, limit uint64, fn func(*SeriesRecord) error) error {
	var seen, emitted uint64
	c := s.t.tx.Bucket(bucketSeries).Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		if seen < offset {
			seen++
			continue
		}
		if limit > 0 && emitted >= limit {
			break
		}
		var rec SeriesRecord
		if err := decodeGob(v, &rec); err != nil {
			return fmt.Errorf("boltstore: decode series in walk: %w", err)
		}
		if err := fn(&rec); err != nil {
			return err
		}
		seen++
		emitted++
	}
	return nil
}

// ---------------------------------------------------------------------------
// Edition ownership table + owner index
// ---------------------------------------------------------------------------

type boltEditions struct{ t *boltTxn }

func (e boltEditions) Owner(editionID string) (string, error) {
	owner := e.t.get(bucketEditions, []byte(editionID))
	if owner == nil {
		return "", fmt.Errorf("%w: %q", ErrEditionNotFound, editionID)
	}
	return string(owner), nil
}

func (e boltEditions) SetOwner(editionID, ownerID string) error {
	key := []byte(editionID)
	if old := e.t.get(bucketEditions, key); old != nil && string(old) != ownerID {
		if err := e.t.del(bucketOwnerIndex, compositeKey(string(old), editionID)); err != nil {
			return fmt.Errorf("boltstore: drop owner index entry: %w", err)
		}
	}
	if err := e.t.put(bucketEditions, key, []byte(ownerID)); err != nil {
		return fmt.Errorf("boltstore: put edition owner: %w", err)
	}
	if err := e.t.put(bucketOwnerIndex, compositeKey(ownerID, editionID), []byte{}); err != nil {
		return fmt.Errorf("boltstore: put owner index entry: %w", err)
	}
	return nil
}

func (e boltEditions) Delete(editionID string) error {
	key := []byte(editionID)
	owner := e.t.get(bucketEditions, key)
	if owner == nil {
		return fmt.Errorf("%w: %q", ErrEditionNotFound, editionID)
	}
	if err := e.t.del(bucketOwnerIndex, compositeKey(string(owner), editionID)); err != nil {
		return fmt.Errorf("boltstore: drop owner index entry: %w", err)
	}
	if err := e.t.del(bucketEditions, key); err != nil {
		return fmt.Errorf("boltstore: delete edition owner: %w", err)
	}
	return nil
}

func (e boltEditions) Count() (uint64, error) {
	return e.t.countKeys(bucketEditions), nil
}

func (e boltEditions) CountByOwner(owner string) (uint64, error) {
	var n uint64
	prefix := compositePrefix(owner)
	c := e.t.tx.Bucket(bucketOwnerIndex).Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		n++
	}
	return n, nil
}

func (e boltEditions) Walk(offset, limit uint64, fn func(editionID, owner string) error) error {
	var seen, emitted uint64
	c := e.t.tx.Bucket(bucketEditions).Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		if seen < offset {
			seen++
			continue
		}
		if limit > 0 && emitted >= limit {
			break
		}
		if err := fn(string(k), string(v)); err != nil {
			return err
		}
		seen++
		emitted++
	}
	return nil
}

func (e boltEditions) WalkOwner(owner string, offset, limit uint64, fn func(editionID string) error) error {
	var seen, emitted uint64
	prefix := compositePrefix(owner)
	c := e.t.tx.Bucket(bucketOwnerIndex).Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		if seen < offset {
			seen++
			continue
		}
		if limit > 0 && emitted >= limit {
			break
		}
		if err := fn(string(k[len(prefix):])); err != nil {
			return err
		}
		seen++
		emitted++
	}
	return nil
}

// ---------------------------------------------------------------------------
// Edition metadata table
// ---------------------------------------------------------------------------

type boltMetadata struct{ t *boltTxn }

func (m boltMetadata) Get(editionID string) (*mintreg.TokenMetadata, error) {
	data := m.t.get(bucketMetadata, []byte(editionID))
	if data == nil {
		return nil, fmt.Errorf("%w: %q", ErrMetadataNotFound, editionID)
	}
	var md mintreg.TokenMetadata
	if err := decodeGob(data, &md); err != nil {
		return nil, fmt.Errorf("boltstore: decode metadata %q: %w", editionID, err)
	}
	return &md, nil
}

func (m boltMetadata) Put(editionID string, md *mintreg.TokenMetadata) error {
	data, err := encodeGob(md)
	if err != nil {
		return fmt.Errorf("boltstore: encode metadata %q: %w", editionID, err)
	}
	return m.t.put(bucketMetadata, []byte(editionID), data)
}

func (m boltMetadata) Delete(editionID string) error {
	return m.t.del(bucketMetadata, []byte(editionID))
}

// ---------------------------------------------------------------------------
// Approval table
// ---------------------------------------------------------------------------

type boltApprovals struct{ t *boltTxn }

func (a boltApprovals) Get(editionID string) (map[string]uint64, error) {
	data := a.t.get(bucketApprovals, []byte(editionID))
	if data == nil {
		return map[string]uint64{}, nil
	}
	var approvals map[string]uint64
	if err := decodeGob(data, &approvals); err != nil {
		return nil, fmt.Errorf("boltstore: decode approvals %q: %w", editionID, err)
	}
	return approvals, nil
}

func (a boltApprovals) Put(editionID string, approvals map[string]uint64) error {
	if len(approvals) == 0 {
		return a.t.del(bucketApprovals, []byte(editionID))
	}
	data, err := encodeGob(approvals)
	if err != nil {
		return fmt.Errorf("boltstore: encode approvals %q: %w", editionID, err)
	}
	return a.t.put(bucketApprovals, []byte(editionID), data)
}

func (a boltApprovals) NextID(editionID string) (uint64, error) {
	data := a.t.get(bucketApprovalSeq, []byte(editionID))
	if data == nil {
		return 1, nil
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("boltstore: corrupt approval counter for %q", editionID)
	}
	return binary.BigEndian.Uint64(data), nil
}

func (a boltApprovals) SetNextID(editionID string, id uint64) error {
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, id)
	return a.t.put(bucketApprovalSeq, []byte(editionID), v)
}

func (a boltApprovals) Delete(editionID string) error {
	if err := a.t.del(bucketApprovals, []byte(editionID)); err != nil {
		return err
	}
	return a.t.del(bucketApprovalSeq, []byte(editionID))
}

// ---------------------------------------------------------------------------
// Bundle table + purchase counts
// ---------------------------------------------------------------------------

type boltBundles struct{ t *boltTxn }

func (b boltBundles) Get(id string) (*BundleRecord, error) {
	data := b.t.get(bucketBundles, []byte(id))
	if data == nil {
		return nil, fmt.Errorf("%w: %q", ErrBundleNotFound, id)
	}
	var rec BundleRecord
	if err := decodeGob(data, &rec); err != nil {
		return nil, fmt.Errorf("boltstore: decode bundle %q: %w", id, err)
	}
	return &rec, nil
}

func (b boltBundles) Put(rec *BundleRecord) error {
	data, err := encodeGob(rec)
	if err != nil {
		return fmt.Errorf("boltstore: encode bundle %q: %w", rec.ID, err)
	}
	return b.t.put(bucketBundles, []byte(rec.ID), data)
}

func (b boltBundles) Delete(id string) error {
	if err := b.t.del(bucketBundles, []byte(id)); err != nil {
		return fmt.Errorf("boltstore: delete bundle: %w", err)
	}

	// Drop the bundle's purchase counts along with it.
	prefix := compositePrefix(id)
	c := b.t.tx.Bucket(bucketBuys).Cursor()
	var toDelete [][]byte
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		keyCopy := make([]byte, len(k))
		copy(keyCopy, k)
		toDelete = append(toDelete, keyCopy)
	}
	for _, k := range toDelete {
		if err := b.t.del(bucketBuys, k); err != nil {
			return fmt.Errorf("boltstore: delete purchase count: %w", err)
		}
	}
	return nil
}

func (b boltBundles) PurchaseCount(bundleID, account string) (uint32, error) {
	data := b.t.get(bucketBuys, compositeKey(bundleID, account))
	if data == nil {
		return 0, nil
	}
	if len(data) != 4 {
		return 0, fmt.Errorf("boltstore: corrupt purchase count for %q/%q", bundleID, account)
	}
	return binary.BigEndian.Uint32(data), nil
}

func (b boltBundles) SetPurchaseCount(bundleID, account string, n uint32) error {
	v := make([]byte, 4)
	binary.BigEndian.PutUint32(v, n)
	return b.t.put(bucketBuys, compositeKey(bundleID, account), v)
}

// ---------------------------------------------------------------------------
// Meta table
// ---------------------------------------------------------------------------

type boltMeta struct{ t *boltTxn }

func (m boltMeta) Owner() (string, error) {
	return string(m.t.get(bucketMeta, metaKeyOwner)), nil
}

func (m boltMeta) SetOwner(account string) error {
	return m.t.put(bucketMeta, metaKeyOwner, []byte(account))
}

func (m boltMeta) Treasury() (string, error) {
	return string(m.t.get(bucketMeta, metaKeyTreasury)), nil
}

func (m boltMeta) SetTreasury(account string) error {
	return m.t.put(bucketMeta, metaKeyTreasury, []byte(account))
}
