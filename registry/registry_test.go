package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mintregorg/libmintreg-go"
	"github.com/mintregorg/libmintreg-go/event"
	"github.com/mintregorg/libmintreg-go/host"
	"github.com/mintregorg/libmintreg-go/store"
)

const (
	ownerAccount    = "registry.owner"
	treasuryAccount = "registry.treasury"
	creatorAccount  = "alice"
	buyerAccount    = "bob"
	otherAccount    = "carol"
)

// testEnv bundles a registry with its observable side-effect sinks.
type testEnv struct {
	reg  *Registry
	sink *event.MemorySink
	rail *host.RecordingRail
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	env := &testEnv{
		sink: &event.MemorySink{},
		rail: &host.RecordingRail{},
	}
	opts.Owner = ownerAccount
	opts.Treasury = treasuryAccount
	opts.Events = env.sink
	opts.Rail = env.rail
	if opts.Rand == nil {
		opts.Rand = host.FixedRand{}
	}

	reg, err := New(store.NewMemStore(), opts)
	require.NoError(t, err)
	env.reg = reg
	return env
}

// createSeries registers a capped series owned by alice and returns its id.
func (e *testEnv) createSeries(t *testing.T, copies uint64, price *uint64, royaltyTable map[string]uint32) string {
	t.Helper()
	md := mintreg.TokenMetadata{Title: "Tsundere land"}
	if copies > 0 {
		md.Copies = &copies
	}
	view, err := e.reg.CreateSeries(creatorAccount, md, price, royaltyTable, creatorAccount, 0)
	require.NoError(t, err)
	return view.SeriesID
}

func priceOf(amount uint64) *uint64 { return &amount }

// ---------------------------------------------------------------------------
// Construction tests
// ---------------------------------------------------------------------------

func TestNew_PersistsOwnerAndTreasury(t *testing.T) {
	st := store.NewMemStore()
	_, err := New(st, Options{Owner: ownerAccount, Treasury: treasuryAccount})
	require.NoError(t, err)

	// Reopening without accounts picks up the persisted ones.
	reg, err := New(st, Options{})
	require.NoError(t, err)

	owner, err := reg.Owner()
	require.NoError(t, err)
	assert.Equal(t, ownerAccount, owner)

	treasury, err := reg.Treasury()
	require.NoError(t, err)
	assert.Equal(t, treasuryAccount, treasury)
}

func TestNew_RejectsInvalidAccounts(t *testing.T) {
	_, err := New(store.NewMemStore(), Options{Owner: "UPPER", Treasury: treasuryAccount})
	assert.ErrorIs(t, err, mintreg.ErrInvalidInput)

	_, err = New(store.NewMemStore(), Options{Owner: ownerAccount, Treasury: ""})
	assert.ErrorIs(t, err, mintreg.ErrInvalidInput)
}

func TestSetTreasury(t *testing.T) {
	env := newTestEnv(t, Options{})

	err := env.reg.SetTreasury(buyerAccount, "new.treasury")
	assert.ErrorIs(t, err, mintreg.ErrUnauthorized)

	require.NoError(t, env.reg.SetTreasury(ownerAccount, "new.treasury"))
	treasury, err := env.reg.Treasury()
	require.NoError(t, err)
	assert.Equal(t, "new.treasury", treasury)
}
