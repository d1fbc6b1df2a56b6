package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mintregorg/libmintreg-go"
)

// ---------------------------------------------------------------------------
// Edition view tests
// ---------------------------------------------------------------------------

func TestGetEdition_DerivesTitle(t *testing.T) {
	env := newTestEnv(t, Options{})
	seriesID := env.createSeries(t, 0, nil, nil)

	editionID, err := env.reg.Mint(creatorAccount, seriesID, buyerAccount, nil, 0)
	require.NoError(t, err)

	view, err := env.reg.GetEdition(editionID)
	require.NoError(t, err)
	assert.Equal(t, "Tsundere land #1", view.Metadata.Title)
	assert.Equal(t, buyerAccount, view.OwnerID)
	assert.NotEmpty(t, view.Metadata.IssuedAt)
	assert.Nil(t, view.Metadata.Copies)
}

func TestGetEdition_InheritsSeriesFields(t *testing.T) {
	env := newTestEnv(t, Options{})
	md := mintreg.TokenMetadata{
		Title:     "Art block",
		Media:     "ipfs://media",
		Reference: "ipfs://reference",
	}
	view, err := env.reg.CreateSeries(creatorAccount, md, nil, nil, creatorAccount, 0)
	require.NoError(t, err)

	editionID, err := env.reg.Mint(creatorAccount, view.SeriesID, buyerAccount, nil, 0)
	require.NoError(t, err)

	got, err := env.reg.GetEdition(editionID)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://media", got.Metadata.Media)
	assert.Equal(t, "ipfs://reference", got.Metadata.Reference)
	assert.Equal(t, "ipfs://reference", got.Metadata.Extra)
}

func TestGetEdition_Unknown(t *testing.T) {
	env := newTestEnv(t, Options{})

	_, err := env.reg.GetEdition("1:1")
	assert.ErrorIs(t, err, mintreg.ErrNotFound)
}

// ---------------------------------------------------------------------------
// List pagination tests
// ---------------------------------------------------------------------------

func TestListSeries(t *testing.T) {
	env := newTestEnv(t, Options{})
	for i := 0; i < 5; i++ {
		env.createSeries(t, 0, nil, nil)
	}

	views, err := env.reg.ListSeries(0, 3)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, "1", views[0].SeriesID)
	assert.Equal(t, "3", views[2].SeriesID)

	views, err = env.reg.ListSeries(3, 10)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "4", views[0].SeriesID)
}

func TestListSeries_WindowOutOfRange(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.createSeries(t, 0, nil, nil)

	_, err := env.reg.ListSeries(0, 0)
	assert.ErrorIs(t, err, mintreg.ErrInvalidInput)

	_, err = env.reg.ListSeries(1, 10)
	assert.ErrorIs(t, err, mintreg.ErrInvalidInput)
}

func TestListEditionsOfSeries_SkipsBurned(t *testing.T) {
	env := newTestEnv(t, Options{})
	seriesID := env.createSeries(t, 0, nil, nil)

	var editions []string
	for i := 0; i < 3; i++ {
		id, err := env.reg.Mint(creatorAccount, seriesID, buyerAccount, nil, 0)
		require.NoError(t, err)
		editions = append(editions, id)
	}
	require.NoError(t, env.reg.Burn(buyerAccount, editions[1]))

	views, err := env.reg.ListEditionsOfSeries(seriesID, 0, 10)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, editions[0], views[0].EditionID)
	assert.Equal(t, editions[2], views[1].EditionID)
}

func TestListEditionsOfOwner(t *testing.T) {
	env := newTestEnv(t, Options{})
	seriesID := env.createSeries(t, 0, nil, nil)

	_, err := env.reg.Mint(creatorAccount, seriesID, buyerAccount, nil, 0)
	require.NoError(t, err)
	_, err = env.reg.Mint(creatorAccount, seriesID, otherAccount, nil, 0)
	require.NoError(t, err)
	_, err = env.reg.Mint(creatorAccount, seriesID, buyerAccount, nil, 0)
	require.NoError(t, err)

	views, err := env.reg.ListEditionsOfOwner(buyerAccount, 0, 10)
	require.NoError(t, err)
	assert.Len(t, views, 2)
	for _, view := range views {
		assert.Equal(t, buyerAccount, view.OwnerID)
	}

	n, err := env.reg.SupplyOfOwner(buyerAccount)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
}

func TestListEditionsOfOwner_UnknownAccountIsEmpty(t *testing.T) {
	env := newTestEnv(t, Options{})

	views, err := env.reg.ListEditionsOfOwner("nobody.here", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestListAllEditions(t *testing.T) {
	env := newTestEnv(t, Options{})
	seriesID := env.createSeries(t, 0, nil, nil)
	for i := 0; i < 3; i++ {
		_, err := env.reg.Mint(creatorAccount, seriesID, buyerAccount, nil, 0)
		require.NoError(t, err)
	}

	views, err := env.reg.ListAllEditions(1, 10)
	require.NoError(t, err)
	assert.Len(t, views, 2)

	total, err := env.reg.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
}
