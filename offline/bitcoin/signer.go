// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bitcoin

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcwallet/wallet/txauthor"
	"github.com/btcsuite/offlinetx/offline"
)

// sigHashType is the only sighash type used. It commits to all inputs and
// all outputs.
const sigHashType = txscript.SigHashAll

var (
	// ErrInvalidDigest is returned when asked to sign something that is
	// not a 32 byte digest.
	ErrInvalidDigest = errors.New("digest must be 32 bytes")

	// ErrScriptValidation is returned when a signed transaction does not
	// pass script validation, e.g. because the key does not match the
	// source address of an input.
	ErrScriptValidation = errors.New("script validation failed")
)

// DigestSigner produces ECDSA signatures for a single key.
type DigestSigner interface {
	// SignDigest signs a 32 byte digest and returns the DER encoded
	// signature, without a sighash type.
	SignDigest(digest []byte) ([]byte, error)

	// PubKey returns the serialized public key, compressed or not as
	// the key was encoded.
	PubKey() []byte
}

// PrivKeySigner is a DigestSigner over an in-memory private key. Signatures
// use RFC6979 nonces, so signing the same digest twice gives the same
// signature.
type PrivKeySigner struct {
	privKey *btcec.PrivateKey
	pubKey  []byte
}

// A compile time check to ensure PrivKeySigner implements the interface.
var _ DigestSigner = (*PrivKeySigner)(nil)

// ParsePrivateKey decodes a WIF encoded key of the given network.
func ParsePrivateKey(key offline.Secret,
	params *chaincfg.Params) (*PrivKeySigner, error) {

	wif, err := btcutil.DecodeWIF(key.Reveal())
	if err != nil {
		return nil, offline.NewParseError(
			"WIF string", "PrivateKey", err,
		)
	}

	if !wif.IsForNet(params) {
		return nil, &offline.ParseError{
			From:   "WIF string",
			To:     "PrivateKey",
			Reason: fmt.Sprintf("key is not for %s", params.Name),
		}
	}

	return &PrivKeySigner{
		privKey: wif.PrivKey,
		pubKey:  wif.SerializePubKey(),
	}, nil
}

// SignDigest signs a 32 byte digest.
func (s *PrivKeySigner) SignDigest(digest []byte) ([]byte, error) {
	if len(digest) != chainhash.HashSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDigest,
			len(digest))
	}

	return ecdsa.Sign(s.privKey, digest).Serialize(), nil
}

// PubKey returns the serialized public key.
func (s *PrivKeySigner) PubKey() []byte {
	return s.pubKey
}

// Zero clears the private key from memory. The signer must not be used
// afterwards.
func (s *PrivKeySigner) Zero() {
	s.privKey.Zero()
}

// Sign signs every input with the given WIF encoded key. The key is decoded
// before any input is touched and cleared from memory once signing is over.
func (t *Transaction) Sign(privateKey offline.Secret) error {
	if t.signed {
		log.Debugf("Transaction %s is already signed", t.TxID())
		return nil
	}

	signer, err := ParsePrivateKey(privateKey, t.params)
	if err != nil {
		return err
	}
	defer signer.Zero()

	return SignTransaction(t, signer)
}

// SignTransaction signs every input of tx in input order. Script classes are
// checked for all inputs first, so an unsupported input fails the call
// before anything is written. If signing an input fails, earlier inputs keep
// their unlocking data and the transaction stays unsigned.
//
// Calling SignTransaction on a signed transaction is a no-op.
func SignTransaction(tx *Transaction, signer DigestSigner) error {
	if tx.signed {
		return nil
	}

	for i, class := range tx.classes {
		if class == ScriptClassUnsupported {
			pkScript := tx.authored.PrevScripts[i]
			return unsupportedScriptError(pkScript)
		}
	}

	sigHashes, err := tx.sigHashes()
	if err != nil {
		return err
	}

	// Inputs are signed strictly in order. Segwit digests don't depend on
	// sibling inputs, but legacy ones are computed over the tx as it is.
	for i := range tx.authored.Tx.TxIn {
		if err := SignInput(tx, i, signer, sigHashes); err != nil {
			return err
		}
	}

	if err := tx.Verify(); err != nil {
		return err
	}

	tx.signed = true

	log.Debugf("Signed %d inputs of transaction %s", tx.NumInputs(),
		tx.TxID())

	return nil
}

// SignInput signs a single input and writes its unlocking data. For a
// p2pkh input the unlocking script is set and the witness cleared, for a
// p2wpkh input the witness is set and the unlocking script cleared.
//
// sigHashes may be nil, in which case it is computed from the transaction.
// Signing an already signed input again yields identical unlocking data.
func SignInput(tx *Transaction, idx int, signer DigestSigner,
	sigHashes *txscript.TxSigHashes) error {

	inCtx, err := tx.InputContext(idx)
	if err != nil {
		return err
	}

	var (
		msgTx  = tx.authored.Tx
		digest []byte
	)
	switch inCtx.Class {
	case ScriptClassPubKeyHash:
		digest, err = txscript.CalcSignatureHash(
			inCtx.PkScript, sigHashType, msgTx, idx,
		)

	case ScriptClassWitnessPubKeyHash:
		if sigHashes == nil {
			sigHashes, err = tx.sigHashes()
			if err != nil {
				return err
			}
		}

		// For p2wpkh the script code is derived from the pkScript by
		// the digest function itself.
		digest, err = txscript.CalcWitnessSigHash(
			inCtx.PkScript, sigHashes, sigHashType, msgTx, idx,
			int64(inCtx.Amount),
		)

	default:
		return unsupportedScriptError(inCtx.PkScript)
	}
	if err != nil {
		return &offline.HasherError{
			Reason: fmt.Sprintf("input %d: %v", idx, err),
		}
	}
	tx.states[idx] = InputDigestComputed

	sig, err := signer.SignDigest(digest)
	if err != nil {
		return fmt.Errorf("unable to sign input %d: %w", idx, err)
	}
	sig = append(sig, byte(sigHashType))

	txIn := msgTx.TxIn[idx]
	if inCtx.Class.IsSegwit() {
		txIn.SignatureScript = nil
		txIn.Witness = wire.TxWitness{sig, signer.PubKey()}
	} else {
		sigScript, err := txscript.NewScriptBuilder().
			AddData(sig).
			AddData(signer.PubKey()).
			Script()
		if err != nil {
			return fmt.Errorf("unable to build unlocking script "+
				"for input %d: %w", idx, err)
		}

		txIn.SignatureScript = sigScript
		txIn.Witness = nil
	}
	tx.states[idx] = InputSigned

	log.Tracef("Signed %s input %d of transaction %s", inCtx.Class, idx,
		tx.TxID())

	return nil
}

// Verify runs every input of the transaction through the script engine.
func (t *Transaction) Verify() error {
	fetcher, err := txauthor.TXPrevOutFetcher(
		t.authored.Tx, t.authored.PrevScripts,
		t.authored.PrevInputValues,
	)
	if err != nil {
		return err
	}

	sigHashes := txscript.NewTxSigHashes(t.authored.Tx, fetcher)
	for i, prevScript := range t.authored.PrevScripts {
		vm, err := txscript.NewEngine(
			prevScript, t.authored.Tx, i,
			txscript.StandardVerifyFlags, nil, sigHashes,
			int64(t.authored.PrevInputValues[i]), fetcher,
		)
		if err != nil {
			return fmt.Errorf("%w: cannot create script engine "+
				"for input %d: %v", ErrScriptValidation, i, err)
		}

		if err := vm.Execute(); err != nil {
			return fmt.Errorf("%w: input %d: %v",
				ErrScriptValidation, i, err)
		}
	}

	return nil
}

// sigHashes computes the segwit sighash midstate of the transaction.
func (t *Transaction) sigHashes() (*txscript.TxSigHashes, error) {
	fetcher, err := txauthor.TXPrevOutFetcher(
		t.authored.Tx, t.authored.PrevScripts,
		t.authored.PrevInputValues,
	)
	if err != nil {
		return nil, &offline.HasherError{Reason: err.Error()}
	}

	return txscript.NewTxSigHashes(t.authored.Tx, fetcher), nil
}

// unsupportedScriptError reports a locking script that cannot be signed.
func unsupportedScriptError(pkScript []byte) error {
	return &offline.UnsupportedError{
		Component: "script_pubkey type",
		Input:     txscript.GetScriptClass(pkScript).String(),
		Expected:  supportedScriptClasses,
	}
}
