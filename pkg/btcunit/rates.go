// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package btcunit provides a set of types for dealing with bitcoin size and
// fee rate units.
package btcunit

import (
	"log/slog"
	"math"
	"math/big"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcutil"
)

const (
	// kilo is a generic multiplier for kilo units.
	kilo = 1000

	// floatStringPrecision is the number of decimal places to use when
	// converting a fee rate to a string.
	floatStringPrecision = 3
)

// ZeroSatPerVByte is a fee rate of 0 sat/vb.
var ZeroSatPerVByte = NewSatPerVByte(0)

// feeRate stores the canonical representation of a fee rate, which is
// satoshis per kilo-weight-unit (sat/kwu).
type feeRate struct {
	// satsPerKWU is kept as a rational so conversions between units never
	// lose precision.
	satsPerKWU *big.Rat
}

// newFeeRate creates a fee rate of numerator/denominator sat/kwu. A zero
// denominator yields a zero fee rate.
func newFeeRate(numerator btcutil.Amount, denominator uint64) feeRate {
	if denominator == 0 {
		return feeRate{satsPerKWU: big.NewRat(0, 1)}
	}

	return feeRate{satsPerKWU: big.NewRat(
		int64(numerator), safeUint64ToInt64(denominator),
	)}
}

// FeeForWeight calculates the fee resulting from this fee rate and the given
// weight. The result is rounded down.
func (f feeRate) FeeForWeight(w WeightUnit) btcutil.Amount {
	fee := new(big.Rat).Mul(
		f.satsPerKWU, big.NewRat(safeUint64ToInt64(w.wu), kilo),
	)

	quotient := new(big.Int).Quo(fee.Num(), fee.Denom())

	return btcutil.Amount(quotient.Int64())
}

// FeeForVByte calculates the fee resulting from this fee rate and the given
// size in vbytes.
func (f feeRate) FeeForVByte(vb VByte) btcutil.Amount {
	return f.FeeForWeight(vb.ToWU())
}

// IsZero returns true for a zero fee rate. The zero value of every fee rate
// type is a zero fee rate.
func (f feeRate) IsZero() bool {
	return f.satsPerKWU == nil || f.satsPerKWU.Sign() == 0
}

func (f feeRate) cmp(other feeRate) int {
	return f.satsPerKWU.Cmp(other.satsPerKWU)
}

// SatPerVByte represents a fee rate in sat/vbyte.
type SatPerVByte struct {
	feeRate
}

// NewSatPerVByte creates a new fee rate in sat/vb.
func NewSatPerVByte(rate btcutil.Amount) SatPerVByte {
	return CalcSatPerVByte(rate, NewVByte(1))
}

// CalcSatPerVByte calculates the fee rate in sat/vb for a given fee and
// size.
func CalcSatPerVByte(fee btcutil.Amount, vb VByte) SatPerVByte {
	return SatPerVByte{newFeeRate(fee*kilo, vb.wu)}
}

// ToSatPerKVByte converts the fee rate to sat/kvb.
func (s SatPerVByte) ToSatPerKVByte() SatPerKVByte {
	return SatPerKVByte{s.feeRate}
}

// String returns a human-readable string of the fee rate.
func (s SatPerVByte) String() string {
	vbRate := new(big.Rat).Mul(
		s.satsPerKWU, big.NewRat(blockchain.WitnessScaleFactor, kilo),
	)

	return vbRate.FloatString(floatStringPrecision) + " sat/vb"
}

// GreaterThan returns true if the fee rate is greater than the other fee
// rate.
func (s SatPerVByte) GreaterThan(other SatPerVByte) bool {
	return s.cmp(other.feeRate) > 0
}

// SatPerKVByte represents a fee rate in sat/kvb, the unit the relay policy
// helpers in txrules operate on.
type SatPerKVByte struct {
	feeRate
}

// NewSatPerKVByte creates a new fee rate in sat/kvb.
func NewSatPerKVByte(rate btcutil.Amount) SatPerKVByte {
	return SatPerKVByte{newFeeRate(
		rate*kilo, kilo*blockchain.WitnessScaleFactor,
	)}
}

// Val returns the fee rate as a whole number of satoshis per kvb, rounded
// down.
func (s SatPerKVByte) Val() btcutil.Amount {
	return s.FeeForVByte(NewVByte(kilo))
}

// String returns a human-readable string of the fee rate.
func (s SatPerKVByte) String() string {
	kvbRate := new(big.Rat).Mul(
		s.satsPerKWU, big.NewRat(blockchain.WitnessScaleFactor, 1),
	)

	return kvbRate.FloatString(floatStringPrecision) + " sat/kvb"
}

// safeUint64ToInt64 converts a uint64 to an int64, capping at
// math.MaxInt64. The values converted here are transaction sizes which are
// bounded by consensus rules.
func safeUint64ToInt64(u uint64) int64 {
	if u > math.MaxInt64 {
		slog.Warn("Capping uint64 value to math.MaxInt64",
			slog.Uint64("old", u), slog.Int64("new", math.MaxInt64))

		return math.MaxInt64
	}

	return int64(u)
}
