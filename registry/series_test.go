package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mintregorg/libmintreg-go"
	"github.com/mintregorg/libmintreg-go/event"
)

// ---------------------------------------------------------------------------
// CreateSeries tests
// ---------------------------------------------------------------------------

func TestCreateSeries_AssignsSequentialIDs(t *testing.T) {
	env := newTestEnv(t, Options{})

	first := env.createSeries(t, 0, nil, nil)
	second := env.createSeries(t, 0, nil, nil)
	assert.Equal(t, "1", first)
	assert.Equal(t, "2", second)

	assert.Len(t, env.sink.ByEvent("series_create"), 2)
}

func TestCreateSeries_RequiresTitle(t *testing.T) {
	env := newTestEnv(t, Options{})

	_, err := env.reg.CreateSeries(creatorAccount, mintreg.TokenMetadata{}, nil, nil, creatorAccount, 0)
	assert.ErrorIs(t, err, mintreg.ErrInvalidInput)
}

func TestCreateSeries_RoyaltyLimits(t *testing.T) {
	env := newTestEnv(t, Options{})

	// Total share above 9000 bps.
	_, err := env.reg.CreateSeries(creatorAccount, mintreg.TokenMetadata{Title: "x"},
		nil, map[string]uint32{creatorAccount: 9001}, creatorAccount, 0)
	assert.ErrorIs(t, err, mintreg.ErrInvalidInput)

	// More than ten accounts.
	big := map[string]uint32{
		"a1": 1, "a2": 1, "a3": 1, "a4": 1, "a5": 1,
		"a6": 1, "a7": 1, "a8": 1, "a9": 1, "b10": 1, "b11": 1,
	}
	_, err = env.reg.CreateSeries(creatorAccount, mintreg.TokenMetadata{Title: "x"},
		nil, big, creatorAccount, 0)
	assert.ErrorIs(t, err, mintreg.ErrInvalidInput)

	// Exactly 9000 bps passes.
	_, err = env.reg.CreateSeries(creatorAccount, mintreg.TokenMetadata{Title: "x"},
		nil, map[string]uint32{otherAccount: 9000}, creatorAccount, 0)
	assert.NoError(t, err)
}

func TestCreateSeries_RejectsInvalidAccounts(t *testing.T) {
	env := newTestEnv(t, Options{})

	_, err := env.reg.CreateSeries(creatorAccount, mintreg.TokenMetadata{Title: "x"},
		nil, nil, "Not Valid", 0)
	assert.ErrorIs(t, err, mintreg.ErrInvalidInput)

	_, err = env.reg.CreateSeries(creatorAccount, mintreg.TokenMetadata{Title: "x"},
		nil, map[string]uint32{"BAD": 100}, creatorAccount, 0)
	assert.ErrorIs(t, err, mintreg.ErrInvalidInput)
}

// ---------------------------------------------------------------------------
// SetSeriesPrice tests
// ---------------------------------------------------------------------------

func TestSetSeriesPrice(t *testing.T) {
	env := newTestEnv(t, Options{})
	seriesID := env.createSeries(t, 0, nil, nil)

	newPrice, err := env.reg.SetSeriesPrice(creatorAccount, seriesID, priceOf(1000))
	require.NoError(t, err)
	require.NotNil(t, newPrice)
	assert.Equal(t, uint64(1000), *newPrice)

	got, err := env.reg.SeriesPrice(seriesID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint64(1000), *got)

	// Clearing the price takes the series off sale.
	newPrice, err = env.reg.SetSeriesPrice(creatorAccount, seriesID, nil)
	require.NoError(t, err)
	assert.Nil(t, newPrice)

	assert.Len(t, env.sink.ByEvent("series_set_price"), 2)
}

func TestSetSeriesPrice_NonCreator(t *testing.T) {
	env := newTestEnv(t, Options{})
	seriesID := env.createSeries(t, 0, nil, nil)

	_, err := env.reg.SetSeriesPrice(buyerAccount, seriesID, priceOf(1000))
	assert.ErrorIs(t, err, mintreg.ErrUnauthorized)
}

func TestSetSeriesPrice_ClosedSeries(t *testing.T) {
	env := newTestEnv(t, Options{})
	seriesID := env.createSeries(t, 0, nil, nil)
	require.NoError(t, env.reg.CloseSeries(creatorAccount, seriesID))

	_, err := env.reg.SetSeriesPrice(creatorAccount, seriesID, priceOf(1000))
	assert.ErrorIs(t, err, mintreg.ErrInvalidState)
}

// ---------------------------------------------------------------------------
// CloseSeries / DecreaseCopies tests
// ---------------------------------------------------------------------------

func TestCloseSeries(t *testing.T) {
	env := newTestEnv(t, Options{})
	seriesID := env.createSeries(t, 0, nil, nil)

	err := env.reg.CloseSeries(buyerAccount, seriesID)
	assert.ErrorIs(t, err, mintreg.ErrUnauthorized)

	require.NoError(t, env.reg.CloseSeries(creatorAccount, seriesID))
	assert.Len(t, env.sink.ByEvent("series_close"), 1)

	// Closing twice is a state fault.
	err = env.reg.CloseSeries(creatorAccount, seriesID)
	assert.ErrorIs(t, err, mintreg.ErrInvalidState)

	// Minting afterwards fails.
	_, err = env.reg.Mint(creatorAccount, seriesID, buyerAccount, nil, 0)
	assert.ErrorIs(t, err, mintreg.ErrInvalidState)
}

func TestCloseSeries_CappedSeriesRefused(t *testing.T) {
	env := newTestEnv(t, Options{})
	seriesID := env.createSeries(t, 10, nil, nil)

	err := env.reg.CloseSeries(creatorAccount, seriesID)
	assert.ErrorIs(t, err, mintreg.ErrInvalidState)
}

func TestDecreaseCopies(t *testing.T) {
	env := newTestEnv(t, Options{})
	seriesID := env.createSeries(t, 10, nil, nil)

	_, err := env.reg.Mint(creatorAccount, seriesID, buyerAccount, nil, 0)
	require.NoError(t, err)
	_, err = env.reg.Mint(creatorAccount, seriesID, buyerAccount, nil, 0)
	require.NoError(t, err)

	newCap, err := env.reg.DecreaseCopies(creatorAccount, seriesID, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), newCap)

	// Below the minted count is refused.
	_, err = env.reg.DecreaseCopies(creatorAccount, seriesID, 4)
	assert.ErrorIs(t, err, mintreg.ErrInvalidState)

	// Down to exactly the minted count closes the series.
	newCap, err = env.reg.DecreaseCopies(creatorAccount, seriesID, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), newCap)

	recs := env.sink.ByEvent("series_decrease_copies")
	require.Len(t, recs, 2)
	last := recs[1].(event.SeriesCopiesDecreased)
	assert.True(t, last.Closed)

	_, err = env.reg.Mint(creatorAccount, seriesID, buyerAccount, nil, 0)
	assert.ErrorIs(t, err, mintreg.ErrInvalidState)
}

func TestDecreaseCopies_UnboundedSeries(t *testing.T) {
	env := newTestEnv(t, Options{})
	seriesID := env.createSeries(t, 0, nil, nil)

	_, err := env.reg.DecreaseCopies(creatorAccount, seriesID, 1)
	assert.ErrorIs(t, err, mintreg.ErrInvalidState)
}
