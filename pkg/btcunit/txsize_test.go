package btcunit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestTxSizeConversion checks that the conversion between weight units and
// virtual bytes is correct.
func TestTxSizeConversion(t *testing.T) {
	t.Parallel()

	// 1000 wu should be equal to 250 vb.
	wu := NewWeightUnit(1000)
	require.Equal(t, NewVByte(250), wu.ToVB())

	// 250 vb should be equal to 1000 wu.
	require.Equal(t, wu, NewVByte(250).ToWU())
	require.Equal(t, uint64(1000), NewVByte(250).ToWU().Weight())
}

// TestVBytesRoundsUp checks that a partial virtual byte counts as a whole
// one.
func TestVBytesRoundsUp(t *testing.T) {
	t.Parallel()

	require.Equal(t, uint64(169), NewWeightUnit(674).ToVB().VBytes())
	require.Equal(t, uint64(168), NewWeightUnit(672).ToVB().VBytes())
}

// TestVByteAdd checks that sizes can be summed.
func TestVByteAdd(t *testing.T) {
	t.Parallel()

	total := NewVByte(10).Add(NewVByte(148)).Add(NewVByte(68))
	require.Equal(t, NewVByte(226), total)
}

// TestTxSizeStringer tests the stringer methods of the tx size types.
func TestTxSizeStringer(t *testing.T) {
	t.Parallel()

	require.Equal(t, "1000 wu", NewWeightUnit(1000).String())
	require.Equal(t, "250 vb", NewVByte(250).String())
	require.Equal(t, "169 vb", NewWeightUnit(674).ToVB().String())
}
