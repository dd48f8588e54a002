package txfee

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcwallet/wallet/txsizes"
	"github.com/btcsuite/offlinetx/pkg/btcunit"
	"github.com/stretchr/testify/require"
)

// p2pkhOutput returns an output with a P2PKH sized locking script.
func p2pkhOutput(value int64) *wire.TxOut {
	return wire.NewTxOut(value, make([]byte, txsizes.P2PKHPkScriptSize))
}

// TestHeuristicVSize checks the closed-form size formula for the different
// input mixes.
func TestHeuristicVSize(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		topo          Topology
		expectedVSize uint64
	}{
		{
			// 10 + 148 + 2*34.
			name: "one legacy input one output",
			topo: Topology{
				LegacyInputs: 1,
				Outputs:      []*wire.TxOut{p2pkhOutput(1)},
			},
			expectedVSize: 226,
		},
		{
			// 10 + 2 + 109 + 2*34.
			name: "one segwit input one output",
			topo: Topology{
				SegwitInputs: 1,
				Outputs:      []*wire.TxOut{p2pkhOutput(1)},
			},
			expectedVSize: 189,
		},
		{
			// 10 + 2 + 148 + 109 + 3*34.
			name: "mixed inputs two outputs",
			topo: Topology{
				LegacyInputs: 1,
				SegwitInputs: 1,
				Outputs: []*wire.TxOut{
					p2pkhOutput(1), p2pkhOutput(2),
				},
			},
			expectedVSize: 371,
		},
		{
			// 10 + 148 + 34, a pure sweep to change.
			name: "sweep without recipients",
			topo: Topology{
				LegacyInputs: 1,
			},
			expectedVSize: 192,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			vsize := Heuristic{}.EstimateVSize(tc.topo)
			require.Equal(t, tc.expectedVSize, vsize.VBytes())
		})
	}
}

// TestExactVSize checks that the exact estimator defers to the wallet's
// worst-case size accounting, including the provisional change output.
func TestExactVSize(t *testing.T) {
	t.Parallel()

	outputs := []*wire.TxOut{p2pkhOutput(50_000_000)}
	topo := Topology{
		LegacyInputs:     1,
		SegwitInputs:     2,
		Outputs:          outputs,
		ChangeScriptSize: txsizes.P2WPKHPkScriptSize,
	}

	expected := txsizes.EstimateVirtualSize(
		1, 0, 2, 0, outputs, txsizes.P2WPKHPkScriptSize,
	)

	vsize := Exact{}.EstimateVSize(topo)
	require.Equal(t, uint64(expected), vsize.VBytes())

	// Dropping the change script must shrink the estimate.
	topo.ChangeScriptSize = 0
	require.Less(t, Exact{}.EstimateVSize(topo).VBytes(), vsize.VBytes())
}

// TestFee checks that the fee is the vsize multiplied by the rate and
// depends on nothing but the topology and the rate.
func TestFee(t *testing.T) {
	t.Parallel()

	topo := Topology{
		LegacyInputs: 1,
		Outputs:      []*wire.TxOut{p2pkhOutput(1)},
	}

	fee := Fee(Heuristic{}, topo, btcunit.NewSatPerVByte(1))
	require.Equal(t, btcutil.Amount(226), fee)

	fee = Fee(Heuristic{}, topo, btcunit.NewSatPerVByte(12))
	require.Equal(t, btcutil.Amount(226*12), fee)

	// The value of the outputs has no influence.
	topo.Outputs = []*wire.TxOut{p2pkhOutput(999_999)}
	fee = Fee(Heuristic{}, topo, btcunit.NewSatPerVByte(12))
	require.Equal(t, btcutil.Amount(226*12), fee)
}

// TestByName checks the estimator lookup.
func TestByName(t *testing.T) {
	t.Parallel()

	e, err := ByName(HeuristicName)
	require.NoError(t, err)
	require.Equal(t, HeuristicName, e.Name())

	e, err = ByName("")
	require.NoError(t, err)
	require.Equal(t, HeuristicName, e.Name())

	e, err = ByName(ExactName)
	require.NoError(t, err)
	require.Equal(t, ExactName, e.Name())

	_, err = ByName("median")
	require.ErrorIs(t, err, ErrUnknownEstimator)
}
