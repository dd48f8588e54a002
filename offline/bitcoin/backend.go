// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bitcoin implements the offline transaction backend for bitcoin. It
// assembles transactions spending p2pkh and p2wpkh outputs and signs them
// with a single WIF encoded key.
package bitcoin

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/offlinetx/offline"
	"github.com/btcsuite/offlinetx/pkg/btcunit"
	"github.com/btcsuite/offlinetx/pkg/txfee"
)

const (
	// Network is the name bitcoin requests use in their network key,
	// whichever chain of bitcoin they are for.
	Network = "bitcoin"

	// DefaultMaxFeeRate is the default max fee rate in sat/vb. Requests
	// above it are rejected as a likely unit mistake.
	DefaultMaxFeeRate btcutil.Amount = 1000
)

// Config holds the parameters of a bitcoin backend.
type Config struct {
	// ChainParams selects the chain addresses and keys must belong to.
	// Defaults to mainnet.
	ChainParams *chaincfg.Params

	// FeeEstimator sizes transactions for fee calculation. Defaults to
	// the heuristic estimator.
	FeeEstimator txfee.Estimator

	// MaxFeeRate is the highest fee rate a request may ask for. Defaults
	// to DefaultMaxFeeRate.
	MaxFeeRate btcunit.SatPerVByte
}

// Backend is the bitcoin TransactionBackend.
type Backend struct {
	cfg       Config
	assembler *Assembler
}

// A compile time check to ensure Backend implements the interface.
var _ offline.TransactionBackend = (*Backend)(nil)

// New creates a bitcoin backend, filling in defaults for unset config
// fields.
func New(cfg Config) *Backend {
	if cfg.ChainParams == nil {
		cfg.ChainParams = &chaincfg.MainNetParams
	}

	if cfg.FeeEstimator == nil {
		cfg.FeeEstimator = txfee.Heuristic{}
	}

	if cfg.MaxFeeRate.IsZero() {
		cfg.MaxFeeRate = btcunit.NewSatPerVByte(DefaultMaxFeeRate)
	}

	log.Debugf("Creating bitcoin backend for %s with the %s estimator "+
		"and a max fee rate of %v", cfg.ChainParams.Name,
		cfg.FeeEstimator.Name(), cfg.MaxFeeRate)

	return &Backend{
		cfg: cfg,
		assembler: NewAssembler(
			cfg.ChainParams, NewAddressCodec(cfg.ChainParams),
			cfg.FeeEstimator, cfg.MaxFeeRate,
		),
	}
}

// Network returns the name of the chain.
func (b *Backend) Network() string {
	return Network
}

// ChainParams returns the parameters of the chain the backend serves.
func (b *Backend) ChainParams() *chaincfg.Params {
	return b.cfg.ChainParams
}

// Assemble builds the unsigned transaction of a request.
func (b *Backend) Assemble(req *offline.SigningRequest) (offline.Transaction,
	error) {

	tx, err := b.assembler.Assemble(req)
	if err != nil {
		return nil, err
	}

	return tx, nil
}
