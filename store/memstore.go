package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mintregorg/libmintreg-go"
)

// MemStore is an in-memory Store. Update transactions run against a
// staged copy of the state that replaces the live state only when the
// callback succeeds, so a failed operation leaves nothing behind.
type MemStore struct {
	mu    sync.Mutex
	state *memState
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{state: newMemState()}
}

// Close is a no-op for the in-memory store.
func (s *MemStore) Close() error { return nil }

// View runs fn in a read-only transaction.
func (s *MemStore) View(fn func(Txn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&memTxn{state: s.state})
}

// Update runs fn against a staged copy and commits it on success.
func (s *MemStore) Update(fn func(Txn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.state.clone()
	txn := &memTxn{state: staged, writable: true}
	if err := fn(txn); err != nil {
		return err
	}
	s.state = staged
	return nil
}

type memState struct {
	series       map[uint64]*SeriesRecord
	editionOwner map[string]string
	metadata     map[string]*mintreg.TokenMetadata
	approvals    map[string]map[string]uint64
	approvalNext map[string]uint64
	bundles      map[string]*BundleRecord
	buys         map[string]map[string]uint32 // bundle id → account → count
	owner        string
	treasury     string
}

func newMemState() *memState {
	return &memState{
		series:       make(map[uint64]*SeriesRecord),
		editionOwner: make(map[string]string),
		metadata:     make(map[string]*mintreg.TokenMetadata),
		approvals:    make(map[string]map[string]uint64),
		approvalNext: make(map[string]uint64),
		bundles:      make(map[string]*BundleRecord),
		buys:         make(map[string]map[string]uint32),
	}
}

func (st *memState) clone() *memState {
	out := newMemState()
	out.owner = st.owner
	out.treasury = st.treasury
	for k, v := range st.series {
		out.series[k] = v.Clone()
	}
	for k, v := range st.editionOwner {
		out.editionOwner[k] = v
	}
	for k, v := range st.metadata {
		out.metadata[k] = v.Clone()
	}
	for k, v := range st.approvals {
		m := make(map[string]uint64, len(v))
		for a, id := range v {
			m[a] = id
		}
		out.approvals[k] = m
	}
	for k, v := range st.approvalNext {
		out.approvalNext[k] = v
	}
	for k, v := range st.bundles {
		out.bundles[k] = v.Clone()
	}
	for k, v := range st.buys {
		m := make(map[string]uint32, len(v))
		for a, n := range v {
			m[a] = n
		}
		out.buys[k] = m
	}
	return out
}

// sizeOf measures a value's gob-encoded length so the in-memory store
// reports storage deltas on the same scale as the bolt store.
func sizeOf(v interface{}) int64 {
	data, err := encodeGob(v)
	if err != nil {
		return 0
	}
	return int64(len(data))
}

type memTxn struct {
	state    *memState
	writable bool
	delta    int64
}

func (t *memTxn) Series() SeriesTable { return memSeries{t} }
func (t *memTxn) Editions() EditionTable { return memEditions{t} }
func (t *memTxn) Metadata() MetadataTable { return memMetadata{t} }
func (t *memTxn) Approvals() ApprovalTable { return memApprovals{t} }
func (t *memTxn) Bundles() BundleTable { return memBundles{t} }
func (t *memTxn) Meta() MetaTable { return memMeta{t} }
func (t *memTxn) StorageDelta() int64 { return t.delta }

func (t *memTxn) checkWritable() error {
	if !t.writable {
		return ErrReadOnly
	}
	return nil
}

// ---------------------------------------------------------------------------
// Series table
// ---------------------------------------------------------------------------

type memSeries struct{ t *memTxn }

func (s memSeries) Get(id string) (*SeriesRecord, error) {
	n, ok := seriesNum(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSeriesNotFound, id)
	}
	rec, ok := s.t.state.series[n]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSeriesNotFound, id)
	}
	return rec.Clone(), nil
}

func (s memSeries) Put(rec *SeriesRecord) error {
	if err := s.t.checkWritable(); err != nil {
		return err
	}
	n, ok := seriesNum(rec.ID)
	if !ok {
		return fmt.Errorf("memstore: non-numeric series id %q", rec.ID)
	}
	if old, exists := s.t.state.series[n]; exists {
		s.t.delta -= sizeOf(old)
	}
	s.t.delta += sizeOf(rec)
	s.t.state.series[n] = rec.Clone()
	return nil
}

func (s memSeries) Count() (uint64, error) {
	return uint64(len(s.t.state.series)), nil
}

func (s memSeries) Walk(offset, limit uint64, fn func(*SeriesRecord) error) error {
	ids := make([]uint64, 0, len(s.t.state.series))
	for n := range s.t.state.series {
		ids = append(ids, n)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var emitted uint64
	for i, n := range ids {
		if uint64(i) < offset {
			continue
		}
		if limit > 0 && emitted >= limit {
			break
		}
		if err := fn(s.t.state.series[n].Clone()); err != nil {
			return err
		}
		emitted++
	}
	return nil
}

// ---------------------------------------------------------------------------
// Edition ownership table
// ---------------------------------------------------------------------------

type memEditions struct{ t *memTxn }

func (e memEditions) Owner(editionID string) (string, error) {
	owner, ok := e.t.state.editionOwner[editionID]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrEditionNotFound, editionID)
	}
	return owner, nil
}

func (e memEditions) SetOwner(editionID, ownerID string) error {
	if err := e.t.checkWritable(); err != nil {
		return err
	}
	if old, exists := e.t.state.editionOwner[editionID]; exists {
		e.t.delta -= int64(len(editionID) + len(old))
	}
	e.t.delta += int64(len(editionID) + len(ownerID))
	e.t.state.editionOwner[editionID] = ownerID
	return nil
}

func (e memEditions) Delete(editionID string) error {
	if err := e.t.checkWritable(); err != nil {
		return err
	}
	owner, ok := e.t.state.editionOwner[editionID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrEditionNotFound, editionID)
	}
	e.t.delta -= int64(len(editionID) + len(owner))
	delete(e.t.state.editionOwner, editionID)
	return nil
}

func (e memEditions) Count() (uint64, error) {
	return uint64(len(e.t.state.editionOwner)), nil
}

func (e memEditions) CountByOwner(owner string) (uint64, error) {
	var n uint64
	for _, o := range e.t.state.editionOwner {
		if o == owner {
			n++
		}
	}
	return n, nil
}

func (e memEditions) Walk(offset, limit uint64, fn func(editionID, owner string) error) error {
	ids := sortedKeys(e.t.state.editionOwner)
	var emitted uint64
	for i, id := range ids {
		if uint64(i) < offset {
			continue
		}
		if limit > 0 && emitted >= limit {
			break
		}
		if err := fn(id, e.t.state.editionOwner[id]); err != nil {
			return err
		}
		emitted++
	}
	return nil
}

func (e memEditions) WalkOwner(owner string, offset, limit uint64, fn func(editionID string) error) error {
	var ids []string
	for id, o := range e.t.state.editionOwner {
		if o == owner {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var emitted uint64
	for i, id := range ids {
		if uint64(i) < offset {
			continue
		}
		if limit > 0 && emitted >= limit {
			break
		}
		if err := fn(id); err != nil {
			return err
		}
		emitted++
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ---------------------------------------------------------------------------
// Edition metadata table
// ---------------------------------------------------------------------------

type memMetadata struct{ t *memTxn }

func (m memMetadata) Get(editionID string) (*mintreg.TokenMetadata, error) {
	md, ok := m.t.state.metadata[editionID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMetadataNotFound, editionID)
	}
	return md.Clone(), nil
}

func (m memMetadata) Put(editionID string, md *mintreg.TokenMetadata) error {
	if err := m.t.checkWritable(); err != nil {
		return err
	}
	if old, exists := m.t.state.metadata[editionID]; exists {
		m.t.delta -= sizeOf(old)
	}
	m.t.delta += sizeOf(md)
	m.t.state.metadata[editionID] = md.Clone()
	return nil
}

func (m memMetadata) Delete(editionID string) error {
	if err := m.t.checkWritable(); err != nil {
		return err
	}
	if old, exists := m.t.state.metadata[editionID]; exists {
		m.t.delta -= sizeOf(old)
		delete(m.t.state.metadata, editionID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Approval table
// ---------------------------------------------------------------------------

type memApprovals struct{ t *memTxn }

func (a memApprovals) Get(editionID string) (map[string]uint64, error) {
	approvals, ok := a.t.state.approvals[editionID]
	if !ok {
		return map[string]uint64{}, nil
	}
	out := make(map[string]uint64, len(approvals))
	for k, v := range approvals {
		out[k] = v
	}
	return out, nil
}

func (a memApprovals) Put(editionID string, approvals map[string]uint64) error {
	if err := a.t.checkWritable(); err != nil {
		return err
	}
	if old, exists := a.t.state.approvals[editionID]; exists {
		a.t.delta -= sizeOf(old)
		delete(a.t.state.approvals, editionID)
	}
	if len(approvals) == 0 {
		return nil
	}
	cp := make(map[string]uint64, len(approvals))
	for k, v := range approvals {
		cp[k] = v
	}
	a.t.delta += sizeOf(cp)
	a.t.state.approvals[editionID] = cp
	return nil
}

func (a memApprovals) NextID(editionID string) (uint64, error) {
	if id, ok := a.t.state.approvalNext[editionID]; ok {
		return id, nil
	}
	return 1, nil
}

func (a memApprovals) SetNextID(editionID string, id uint64) error {
	if err := a.t.checkWritable(); err != nil {
		return err
	}
	if _, exists := a.t.state.approvalNext[editionID]; !exists {
		a.t.delta += int64(len(editionID) + 8)
	}
	a.t.state.approvalNext[editionID] = id
	return nil
}

func (a memApprovals) Delete(editionID string) error {
	if err := a.t.checkWritable(); err != nil {
		return err
	}
	if old, exists := a.t.state.approvals[editionID]; exists {
		a.t.delta -= sizeOf(old)
		delete(a.t.state.approvals, editionID)
	}
	if _, exists := a.t.state.approvalNext[editionID]; exists {
		a.t.delta -= int64(len(editionID) + 8)
		delete(a.t.state.approvalNext, editionID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Bundle table
// ---------------------------------------------------------------------------

type memBundles struct{ t *memTxn }

func (b memBundles) Get(id string) (*BundleRecord, error) {
	rec, ok := b.t.state.bundles[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBundleNotFound, id)
	}
	return rec.Clone(), nil
}

func (b memBundles) Put(rec *BundleRecord) error {
	if err := b.t.checkWritable(); err != nil {
		return err
	}
	if old, exists := b.t.state.bundles[rec.ID]; exists {
		b.t.delta -= sizeOf(old)
	}
	b.t.delta += sizeOf(rec)
	b.t.state.bundles[rec.ID] = rec.Clone()
	return nil
}

func (b memBundles) Delete(id string) error {
	if err := b.t.checkWritable(); err != nil {
		return err
	}
	if old, exists := b.t.state.bundles[id]; exists {
		b.t.delta -= sizeOf(old)
		delete(b.t.state.bundles, id)
	}
	if counts, exists := b.t.state.buys[id]; exists {
		for account := range counts {
			b.t.delta -= int64(len(id) + len(account) + 4)
		}
		delete(b.t.state.buys, id)
	}
	return nil
}

func (b memBundles) PurchaseCount(bundleID, account string) (uint32, error) {
	return b.t.state.buys[bundleID][account], nil
}

func (b memBundles) SetPurchaseCount(bundleID, account string, n uint32) error {
	if err := b.t.checkWritable(); err != nil {
		return err
	}
	counts, ok := b.t.state.buys[bundleID]
	if !ok {
		counts = make(map[string]uint32)
		b.t.state.buys[bundleID] = counts
	}
	if _, exists := counts[account]; !exists {
		b.t.delta += int64(len(bundleID) + len(account) + 4)
	}
	counts[account] = n
	return nil
}

// ---------------------------------------------------------------------------
// Meta table
// ---------------------------------------------------------------------------

type memMeta struct{ t *memTxn }

func (m memMeta) Owner() (string, error) { return m.t.state.owner, nil }

func (m memMeta) SetOwner(account string) error {
	if err := m.t.checkWritable(); err != nil {
		return err
	}
	m.t.state.owner = account
	return nil
}

func (m memMeta) Treasury() (string, error) { return m.t.state.treasury, nil }

func (m memMeta) SetTreasury(account string) error {
	if err := m.t.checkWritable(); err != nil {
		return err
	}
	m.t.state.treasury = account
	return nil
}
