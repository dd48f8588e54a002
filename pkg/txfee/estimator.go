// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txfee estimates the fee of a transaction before it is signed.
//
// The unlocking scripts and witnesses of a transaction are only known once it
// is signed, but the fee has to be fixed before signing since it decides the
// change amount. Every Estimator here therefore works purely on the topology
// of the transaction (its input script classes and its outputs) and never
// looks at keys or signatures.
package txfee

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcwallet/wallet/txsizes"
	"github.com/btcsuite/offlinetx/pkg/btcunit"
)

const (
	// HeuristicName is the name of the closed-form estimator.
	HeuristicName = "heuristic"

	// ExactName is the name of the worst-case serialization estimator.
	ExactName = "exact"
)

const (
	// txOverheadSize covers version (4), input count (1), output count (1)
	// and lock time (4).
	txOverheadSize = 4 + 1 + 1 + 4

	// segwitMarkerSize covers the segwit marker and flag bytes.
	segwitMarkerSize = 2

	// legacyInputSize is the amortized size of an input redeeming a P2PKH
	// output.
	legacyInputSize = 148

	// segwitInputWitnessSize is the amortized size charged for the witness
	// of an input redeeming a P2WPKH output, on top of its
	// txsizes.RedeemP2WPKHInputSize base bytes.
	segwitInputWitnessSize = 68
)

// ErrUnknownEstimator is returned when an estimator is requested by a name
// that does not exist.
var ErrUnknownEstimator = errors.New("unknown fee estimator")

// Topology is the shape of an unsigned transaction as far as fee estimation
// is concerned.
type Topology struct {
	// LegacyInputs is the number of inputs spending P2PKH outputs.
	LegacyInputs int

	// SegwitInputs is the number of inputs spending P2WPKH outputs.
	SegwitInputs int

	// Outputs are the recipient outputs, excluding any change.
	Outputs []*wire.TxOut

	// ChangeScriptSize is the size of the locking script of the
	// provisional change output. The change output is always included in
	// the estimate since the fee must be known before the change decision
	// is made.
	ChangeScriptSize int
}

// HasSegwit returns true if any input spends a witness output.
func (t Topology) HasSegwit() bool {
	return t.SegwitInputs > 0
}

// Estimator computes the virtual size the fee of a transaction is charged
// for.
type Estimator interface {
	// Name returns the name the estimator is selected by.
	Name() string

	// EstimateVSize returns the estimated virtual size of the signed
	// transaction, including the provisional change output.
	EstimateVSize(topo Topology) btcunit.VByte
}

// Fee returns the fee for the given topology at the given rate.
func Fee(e Estimator, topo Topology,
	rate btcunit.SatPerVByte) btcutil.Amount {

	return rate.FeeForVByte(e.EstimateVSize(topo))
}

// Heuristic is the closed-form estimator. Each legacy input is charged 148
// bytes, each segwit input 41 base plus 68 witness bytes, and every output,
// including the provisional change output, 34 bytes regardless of its script
// type.
type Heuristic struct{}

// A compile time check to ensure Heuristic implements the interface.
var _ Estimator = (*Heuristic)(nil)

// Name returns the name the estimator is selected by.
func (Heuristic) Name() string {
	return HeuristicName
}

// EstimateVSize returns the estimated virtual size.
func (Heuristic) EstimateVSize(topo Topology) btcunit.VByte {
	vsize := btcunit.NewVByte(txOverheadSize)
	if topo.HasSegwit() {
		vsize = vsize.Add(btcunit.NewVByte(segwitMarkerSize))
	}

	legacy := uint64(topo.LegacyInputs) * legacyInputSize
	segwit := uint64(topo.SegwitInputs) *
		(txsizes.RedeemP2WPKHInputSize + segwitInputWitnessSize)
	vsize = vsize.Add(btcunit.NewVByte(legacy + segwit))

	// One extra output for the change.
	outputs := uint64(len(topo.Outputs)+1) * txsizes.P2PKHOutputSize

	return vsize.Add(btcunit.NewVByte(outputs))
}

// Exact estimates the worst-case virtual size of the signed transaction by
// serializing the actual outputs and the largest possible signatures, using
// the same accounting the wallet applies when authoring transactions.
type Exact struct{}

// A compile time check to ensure Exact implements the interface.
var _ Estimator = (*Exact)(nil)

// Name returns the name the estimator is selected by.
func (Exact) Name() string {
	return ExactName
}

// EstimateVSize returns the estimated virtual size.
func (Exact) EstimateVSize(topo Topology) btcunit.VByte {
	vsize := txsizes.EstimateVirtualSize(
		topo.LegacyInputs, 0, topo.SegwitInputs, 0, topo.Outputs,
		topo.ChangeScriptSize,
	)

	return btcunit.NewVByte(uint64(vsize))
}

// ByName returns the estimator registered under the given name.
func ByName(name string) (Estimator, error) {
	switch name {
	case HeuristicName, "":
		return Heuristic{}, nil

	case ExactName:
		return Exact{}, nil

	default:
		return nil, fmt.Errorf("%w: %q, expected one of [%s, %s]",
			ErrUnknownEstimator, name, HeuristicName, ExactName)
	}
}
