// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bitcoin

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcwallet/wallet/txauthor"
	"github.com/btcsuite/btcwallet/wallet/txrules"
	"github.com/btcsuite/btcwallet/wallet/txsizes"
	"github.com/btcsuite/offlinetx/offline"
	"github.com/btcsuite/offlinetx/pkg/btcunit"
	"github.com/btcsuite/offlinetx/pkg/txfee"
	"github.com/davecgh/go-spew/spew"
	"github.com/lightningnetwork/lnd/fn/v2"
)

const (
	// DustThreshold is the value a change output must exceed to be added
	// to the transaction. Change at or below it is left to the fee.
	DustThreshold btcutil.Amount = 546

	// TxVersion is the version of every assembled transaction.
	TxVersion = 2

	// txidStringLen is the length of a hex encoded txid.
	txidStringLen = chainhash.MaxHashStringSize
)

var (
	// errBadTxIDLength is returned for txids that are not exactly 64 hex
	// characters long.
	errBadTxIDLength = errors.New("txid must be 64 hex characters")

	// relayFeeRate is the min relay fee rate recipient outputs are
	// checked against for standardness.
	relayFeeRate = btcunit.NewSatPerKVByte(txrules.DefaultRelayFeePerKb)
)

// Assembler turns signing requests into unsigned transactions. It holds no
// per-request state and never sees the private key of a request.
type Assembler struct {
	params     *chaincfg.Params
	codec      AddressCodec
	estimator  txfee.Estimator
	maxFeeRate btcunit.SatPerVByte
}

// NewAssembler creates an assembler for the given network.
func NewAssembler(params *chaincfg.Params, codec AddressCodec,
	estimator txfee.Estimator, maxFeeRate btcunit.SatPerVByte) *Assembler {

	return &Assembler{
		params:     params,
		codec:      codec,
		estimator:  estimator,
		maxFeeRate: maxFeeRate,
	}
}

// Assemble builds the unsigned transaction of a request. Inputs and outputs
// keep the order of the request, and a change output is appended last if the
// change exceeds DustThreshold.
func (a *Assembler) Assemble(req *offline.SigningRequest) (*Transaction,
	error) {

	if len(req.Inputs) == 0 {
		return nil, offline.ErrNoInputs
	}

	feeRate, err := a.feeRate(req.FeeRate)
	if err != nil {
		return nil, err
	}

	tx := wire.NewMsgTx(TxVersion)
	tx.LockTime = 0

	var (
		prevScripts = make([][]byte, 0, len(req.Inputs))
		prevValues  = make([]btcutil.Amount, 0, len(req.Inputs))
		classes     = make([]ScriptClass, 0, len(req.Inputs))
		seen        = fn.NewSet[wire.OutPoint]()
		topo        txfee.Topology
		totalIn     btcutil.Amount
	)
	for i, in := range req.Inputs {
		outPoint, err := parseOutPoint(in.TxID, in.Vout)
		if err != nil {
			return nil, err
		}

		if seen.Contains(outPoint) {
			return nil, fmt.Errorf("%w: input %d spends %v",
				offline.ErrDuplicatedInput, i, outPoint)
		}
		seen.Add(outPoint)

		amount, err := in.Amount.Satoshis()
		if err != nil {
			return nil, err
		}

		class, pkScript, err := a.codec.Decode(in.Address)
		if err != nil {
			return nil, err
		}

		switch class {
		case ScriptClassPubKeyHash:
			topo.LegacyInputs++

		case ScriptClassWitnessPubKeyHash:
			topo.SegwitInputs++

		default:
			return nil, &offline.UnsupportedError{
				Component: "script_pubkey type",
				Input:     in.Address,
				Expected:  supportedScriptClasses,
			}
		}

		// The unlocking script and witness stay empty until signing.
		tx.AddTxIn(wire.NewTxIn(&outPoint, nil, nil))

		prevScripts = append(prevScripts, pkScript)
		prevValues = append(prevValues, amount)
		classes = append(classes, class)

		totalIn, err = addAmount(totalIn, amount, "inputs")
		if err != nil {
			return nil, err
		}
	}

	var totalOut btcutil.Amount
	for _, out := range req.Outputs {
		amount, err := out.Amount.Satoshis()
		if err != nil {
			return nil, err
		}

		_, pkScript, err := a.codec.Decode(out.Address)
		if err != nil {
			return nil, err
		}

		txOut := wire.NewTxOut(int64(amount), pkScript)
		err = txrules.CheckOutput(txOut, relayFeeRate.Val())
		if err != nil {
			log.Warnf("Output paying %v to %s is not standard: %v",
				amount, out.Address, err)
		}

		tx.AddTxOut(txOut)

		totalOut, err = addAmount(totalOut, amount, "outputs")
		if err != nil {
			return nil, err
		}
	}

	// The change address only has to be valid if change is added, but
	// its script size feeds the exact estimator either way.
	_, changeScript, changeErr := a.codec.Decode(req.ChangeAddress)
	topo.ChangeScriptSize = txsizes.P2PKHPkScriptSize
	if changeErr == nil {
		topo.ChangeScriptSize = len(changeScript)
	}
	topo.Outputs = tx.TxOut

	vsize := a.estimator.EstimateVSize(topo)
	fee := feeRate.FeeForVByte(vsize)

	if totalOut+fee > totalIn {
		return nil, fmt.Errorf("%w: inputs %v, outputs %v, fee %v",
			offline.ErrInsufficientFunds, totalIn, totalOut, fee)
	}

	changeIndex := -1
	change := totalIn - totalOut - fee
	if change > DustThreshold {
		if changeErr != nil {
			return nil, changeErr
		}

		changeIndex = len(tx.TxOut)
		tx.AddTxOut(wire.NewTxOut(int64(change), changeScript))
	} else {
		log.Debugf("Change of %v is not above the dust threshold "+
			"of %v, adding it to the fee", change, DustThreshold)

		fee += change
	}

	if len(tx.TxOut) == 0 {
		return nil, offline.ErrNoTxOutputs
	}

	log.Debugf("Assembled tx with %d inputs and %d outputs, estimated "+
		"%v at %v using the %s estimator", len(tx.TxIn), len(tx.TxOut),
		vsize, feeRate, a.estimator.Name())
	log.Tracef("Unsigned tx: %v", newLogClosure(func() string {
		return spew.Sdump(tx)
	}))

	return &Transaction{
		authored: &txauthor.AuthoredTx{
			Tx:              tx,
			PrevScripts:     prevScripts,
			PrevInputValues: prevValues,
			TotalInput:      totalIn,
			ChangeIndex:     changeIndex,
		},
		classes:      classes,
		states:       make([]InputState, len(tx.TxIn)),
		fee:          fee,
		estimatedFee: feeRate.FeeForVByte(vsize),
		feeRate:      feeRate,
		vsize:        vsize,
		params:       a.params,
	}, nil
}

// addAmount adds amount to total, refusing a total above the max supply so
// the sums can never overflow.
func addAmount(total, amount btcutil.Amount, side string) (btcutil.Amount,
	error) {

	if amount > btcutil.MaxSatoshi-total {
		return 0, fmt.Errorf("%w: %s add up to more than %v",
			offline.ErrAmountOverflow, side,
			btcutil.Amount(btcutil.MaxSatoshi))
	}

	return total + amount, nil
}

// feeRate checks the fee rate of a request against the configured maximum.
func (a *Assembler) feeRate(rate uint64) (btcunit.SatPerVByte, error) {
	if rate == 0 {
		return btcunit.ZeroSatPerVByte, offline.ErrMissingFeeRate
	}

	if rate > uint64(btcutil.MaxSatoshi) {
		return btcunit.ZeroSatPerVByte, fmt.Errorf("%w: %d sat/vb",
			offline.ErrFeeRateTooLarge, rate)
	}

	feeRate := btcunit.NewSatPerVByte(btcutil.Amount(rate))
	if feeRate.GreaterThan(a.maxFeeRate) {
		return btcunit.ZeroSatPerVByte, fmt.Errorf("%w: %v is above "+
			"the max of %v", offline.ErrFeeRateTooLarge, feeRate,
			a.maxFeeRate)
	}

	return feeRate, nil
}

// parseOutPoint builds the outpoint an input spends. The txid must be given
// in full, in the usual byte-reversed display order.
func parseOutPoint(txid string, vout uint32) (wire.OutPoint, error) {
	if len(txid) != txidStringLen {
		return wire.OutPoint{}, offline.NewParseError(
			"string", "Txid", errBadTxIDLength,
		)
	}

	hash, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return wire.OutPoint{}, offline.NewParseError(
			"string", "Txid", err,
		)
	}

	return *wire.NewOutPoint(hash, vout), nil
}
