// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcunit

import (
	"fmt"

	"github.com/btcsuite/btcd/blockchain"
)

// sizeUnit stores the canonical representation of a transaction size, which
// is weight units (wu). Virtual bytes are derived from it.
type sizeUnit struct {
	wu uint64
}

// ToWU converts the unit to a WeightUnit.
func (s sizeUnit) ToWU() WeightUnit {
	return WeightUnit{s}
}

// ToVB converts the unit to a VByte.
func (s sizeUnit) ToVB() VByte {
	return VByte{s}
}

// WeightUnit expresses a transaction size in weight units. The tx weight is
// calculated as `base size * 3 + total size`, where the base size excludes
// the witness data and the total size is the BIP144 serialization.
type WeightUnit struct {
	sizeUnit
}

// NewWeightUnit creates a new WeightUnit from a uint64 value.
func NewWeightUnit(val uint64) WeightUnit {
	return WeightUnit{sizeUnit{wu: val}}
}

// Weight returns the raw number of weight units.
func (w WeightUnit) Weight() uint64 {
	return w.wu
}

// String returns the string representation of the weight unit.
func (w WeightUnit) String() string {
	return fmt.Sprintf("%d wu", w.wu)
}

// VByte expresses a transaction size in virtual bytes. One virtual byte is
// four weight units, so witness data is discounted relative to base data.
type VByte struct {
	sizeUnit
}

// NewVByte creates a new VByte from a uint64 value.
func NewVByte(val uint64) VByte {
	return VByte{sizeUnit{wu: val * blockchain.WitnessScaleFactor}}
}

// VBytes returns the size in whole virtual bytes, rounding any partial
// virtual byte up as the consensus vsize definition does.
func (v VByte) VBytes() uint64 {
	return (v.wu + blockchain.WitnessScaleFactor - 1) /
		blockchain.WitnessScaleFactor
}

// Add returns the sum of two sizes.
func (v VByte) Add(other VByte) VByte {
	return VByte{sizeUnit{wu: v.wu + other.wu}}
}

// String returns the string representation of the virtual byte.
func (v VByte) String() string {
	return fmt.Sprintf("%d vb", v.VBytes())
}
