package royalty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// ComputePayout tests
// ---------------------------------------------------------------------------

func TestComputePayout_OwnerTakesRemainder(t *testing.T) {
	payout, err := ComputePayout(map[string]uint32{
		"artist": 1000,
		"label":  250,
	}, "seller", 10000, 10)
	require.NoError(t, err)

	assert.Equal(t, map[string]uint64{
		"artist": 1000,
		"label":  250,
		"seller": 8750,
	}, payout)
}

func TestComputePayout_SumsExactly(t *testing.T) {
	// Amounts chosen so the basis-point shares round down.
	royalties := map[string]uint32{
		"aa": 333,
		"bb": 333,
		"cc": 334,
	}
	for _, amount := range []uint64{1, 3, 9999, 10001, 123456789} {
		payout, err := ComputePayout(royalties, "owner", amount, 10)
		require.NoError(t, err)

		var sum uint64
		for _, share := range payout {
			sum += share
		}
		assert.Equal(t, amount, sum, "amount %d", amount)
	}
}

func TestComputePayout_OwnerInTable(t *testing.T) {
	payout, err := ComputePayout(map[string]uint32{
		"owner": 1000,
		"other": 500,
	}, "owner", 10000, 10)
	require.NoError(t, err)

	// The owner's own share folds into the remainder instead of being
	// paid twice.
	assert.Equal(t, map[string]uint64{
		"other": 500,
		"owner": 9500,
	}, payout)
}

func TestComputePayout_EmptyTable(t *testing.T) {
	payout, err := ComputePayout(nil, "owner", 500, 10)
	require.NoError(t, err)
	assert.Equal(t, map[string]uint64{"owner": 500}, payout)
}

func TestComputePayout_TooManyRecipients(t *testing.T) {
	_, err := ComputePayout(map[string]uint32{"aa": 1, "bb": 1}, "owner", 100, 1)
	assert.ErrorIs(t, err, ErrTooManyRecipients)
}

func TestComputePayout_ShareOverflow(t *testing.T) {
	_, err := ComputePayout(map[string]uint32{"aa": 6000, "bb": 6000}, "owner", 100, 10)
	assert.ErrorIs(t, err, ErrShareOverflow)
}

func TestComputePayout_LargeAmounts(t *testing.T) {
	// Close to the uint64 ceiling; the decomposed multiply must not wrap.
	const amount = 1 << 62
	payout, err := ComputePayout(map[string]uint32{"aa": 2500}, "owner", amount, 10)
	require.NoError(t, err)

	assert.Equal(t, uint64(amount/4), payout["aa"])
	assert.Equal(t, uint64(amount-amount/4), payout["owner"])
}

// ---------------------------------------------------------------------------
// SplitSaleFee tests
// ---------------------------------------------------------------------------

func TestSplitSaleFee(t *testing.T) {
	tests := []struct {
		name         string
		price        uint64
		wantTreasury uint64
		wantCreator  uint64
	}{
		{"round", 10000, 500, 9500},
		{"small", 100, 5, 95},
		{"dust rounds to creator", 19, 0, 19},
		{"zero", 0, 0, 0},
		{"odd", 12345, 617, 11728},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			treasury, creator := SplitSaleFee(tc.price)
			assert.Equal(t, tc.wantTreasury, treasury)
			assert.Equal(t, tc.wantCreator, creator)
			assert.Equal(t, tc.price, treasury+creator)
		})
	}
}
