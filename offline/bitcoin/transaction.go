// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bitcoin

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcwallet/wallet/txauthor"
	"github.com/btcsuite/offlinetx/offline"
	"github.com/btcsuite/offlinetx/pkg/btcunit"
)

// InputState is the signing state of a single input.
type InputState uint8

const (
	// InputUnsigned is the state of an input with no unlocking data.
	InputUnsigned InputState = iota

	// InputDigestComputed is the state of an input whose signature digest
	// has been computed but whose unlocking data has not been written yet.
	InputDigestComputed

	// InputSigned is the state of an input carrying valid unlocking data.
	InputSigned
)

// String returns the name of the state.
func (s InputState) String() string {
	switch s {
	case InputUnsigned:
		return "unsigned"

	case InputDigestComputed:
		return "digest-computed"

	case InputSigned:
		return "signed"

	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// InputContext is what the signer needs to know about the output an input
// spends.
type InputContext struct {
	// Amount is the value of the spent output.
	Amount btcutil.Amount

	// PkScript is the locking script of the spent output.
	PkScript []byte

	// Class is the class of PkScript.
	Class ScriptClass
}

// Transaction is a bitcoin transaction under construction. It is owned by a
// single pipeline run; only the unlocking scripts and witnesses of its
// inputs change after assembly.
type Transaction struct {
	// authored holds the unsigned tx together with the scripts and values
	// of the outputs it spends, indexed like its inputs.
	authored *txauthor.AuthoredTx

	classes []ScriptClass
	states  []InputState

	// fee is what the transaction pays, including change that was too
	// small to keep. estimatedFee is the fee for the estimated vsize.
	fee          btcutil.Amount
	estimatedFee btcutil.Amount
	feeRate      btcunit.SatPerVByte
	vsize        btcunit.VByte

	params *chaincfg.Params

	signed bool
}

// A compile time check to ensure Transaction implements the interfaces.
var (
	_ offline.Transaction    = (*Transaction)(nil)
	_ offline.PacketExporter = (*Transaction)(nil)
)

// MsgTx returns a deep copy of the transaction in its current state.
func (t *Transaction) MsgTx() *wire.MsgTx {
	return t.authored.Tx.Copy()
}

// NumInputs returns the number of inputs.
func (t *Transaction) NumInputs() int {
	return len(t.authored.Tx.TxIn)
}

// InputContext returns the context of the input at the given index.
func (t *Transaction) InputContext(idx int) (InputContext, error) {
	if err := t.checkIndex(idx); err != nil {
		return InputContext{}, err
	}

	return InputContext{
		Amount:   t.authored.PrevInputValues[idx],
		PkScript: t.authored.PrevScripts[idx],
		Class:    t.classes[idx],
	}, nil
}

// InputState returns the signing state of the input at the given index.
func (t *Transaction) InputState(idx int) (InputState, error) {
	if err := t.checkIndex(idx); err != nil {
		return InputUnsigned, err
	}

	return t.states[idx], nil
}

// checkIndex returns ErrInputIndexOutOfRange if the transaction has no input
// at idx.
func (t *Transaction) checkIndex(idx int) error {
	if idx < 0 || idx >= t.NumInputs() {
		return fmt.Errorf("%w: %d of %d",
			offline.ErrInputIndexOutOfRange, idx, t.NumInputs())
	}

	return nil
}

// ChangeIndex returns the index of the change output, or -1 if the change
// was left to the fee.
func (t *Transaction) ChangeIndex() int {
	return t.authored.ChangeIndex
}

// TotalInput returns the summed value of all inputs.
func (t *Transaction) TotalInput() btcutil.Amount {
	return t.authored.TotalInput
}

// FeeAmount returns the fee paid by the transaction.
func (t *Transaction) FeeAmount() btcutil.Amount {
	return t.fee
}

// Fee returns the fee paid by the transaction in satoshis.
func (t *Transaction) Fee() int64 {
	return int64(t.fee)
}

// EstimatedFee returns the fee the estimator asked for. It is below FeeAmount
// when dust change was added to the fee.
func (t *Transaction) EstimatedFee() btcutil.Amount {
	return t.estimatedFee
}

// FeeRate returns the fee rate the transaction was assembled with.
func (t *Transaction) FeeRate() btcunit.SatPerVByte {
	return t.feeRate
}

// EstimatedVSize returns the virtual size the fee was estimated for.
func (t *Transaction) EstimatedVSize() btcunit.VByte {
	return t.vsize
}

// IsSigned returns true once every input has been signed.
func (t *Transaction) IsSigned() bool {
	return t.signed
}

// TxID returns the transaction id. The id does not commit to witness data,
// so for a transaction spending only segwit inputs it is already final
// before signing.
func (t *Transaction) TxID() string {
	return t.authored.Tx.TxHash().String()
}

// VSize returns the virtual size of the transaction in its current state.
func (t *Transaction) VSize() btcunit.VByte {
	weight := blockchain.GetTransactionWeight(btcutil.NewTx(t.authored.Tx))

	return btcunit.NewWeightUnit(uint64(weight)).ToVB()
}

// Hex returns the hex encoded serialization of the signed transaction.
func (t *Transaction) Hex() (string, error) {
	if !t.signed {
		return "", offline.ErrTxNotSigned
	}

	return t.serialize()
}

// UnsignedHex returns the hex encoded serialization regardless of the
// signing state.
func (t *Transaction) UnsignedHex() string {
	if !t.signed {
		log.Warnf("Serializing transaction %s which is not signed, it "+
			"cannot be broadcast", t.TxID())
	}

	// Serializing into a bytes.Buffer cannot fail.
	txHex, _ := t.serialize()

	return txHex
}

// serialize encodes the transaction, with witness data if any input has
// some.
func (t *Transaction) serialize() (string, error) {
	var buf bytes.Buffer
	buf.Grow(t.authored.Tx.SerializeSize())

	if err := t.authored.Tx.Serialize(&buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf.Bytes()), nil
}
