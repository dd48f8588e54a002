// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bitcoin

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/offlinetx/offline"
)

// ScriptClass is the kind of locking script an output has, as far as
// signing is concerned.
type ScriptClass uint8

const (
	// ScriptClassUnsupported is any script this package cannot sign for.
	ScriptClassUnsupported ScriptClass = iota

	// ScriptClassPubKeyHash is a legacy pay-to-pubkey-hash script.
	ScriptClassPubKeyHash

	// ScriptClassWitnessPubKeyHash is a segwit v0
	// pay-to-witness-pubkey-hash script.
	ScriptClassWitnessPubKeyHash
)

// supportedScriptClasses lists the classes that can be signed, for error
// messages.
const supportedScriptClasses = "p2pkh, p2wpkh"

// String returns the short name of the script class.
func (c ScriptClass) String() string {
	switch c {
	case ScriptClassPubKeyHash:
		return "p2pkh"

	case ScriptClassWitnessPubKeyHash:
		return "p2wpkh"

	default:
		return "unsupported"
	}
}

// IsSegwit returns true for classes spent through the witness.
func (c ScriptClass) IsSegwit() bool {
	return c == ScriptClassWitnessPubKeyHash
}

// ClassifyScript returns the class of a locking script.
func ClassifyScript(pkScript []byte) ScriptClass {
	switch txscript.GetScriptClass(pkScript) {
	case txscript.PubKeyHashTy:
		return ScriptClassPubKeyHash

	case txscript.WitnessV0PubKeyHashTy:
		return ScriptClassWitnessPubKeyHash

	default:
		return ScriptClassUnsupported
	}
}

// AddressCodec decodes addresses into locking scripts.
type AddressCodec interface {
	// Decode returns the class and locking script of an address.
	Decode(address string) (ScriptClass, []byte, error)
}

// addressCodec decodes addresses of a single network.
type addressCodec struct {
	params *chaincfg.Params
}

// A compile time check to ensure addressCodec implements the interface.
var _ AddressCodec = (*addressCodec)(nil)

// NewAddressCodec returns a codec for addresses of the given network.
func NewAddressCodec(params *chaincfg.Params) AddressCodec {
	return &addressCodec{params: params}
}

// Decode returns the class and locking script of an address. Addresses of
// other networks are rejected.
func (c *addressCodec) Decode(address string) (ScriptClass, []byte,
	error) {

	addr, err := btcutil.DecodeAddress(address, c.params)
	if err != nil {
		return ScriptClassUnsupported, nil, offline.NewParseError(
			"string", "Address", err,
		)
	}

	if !addr.IsForNet(c.params) {
		return ScriptClassUnsupported, nil, &offline.ParseError{
			From: "string",
			To:   "Address",
			Reason: fmt.Sprintf("address %s is not for %s",
				address, c.params.Name),
		}
	}

	pkScript, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return ScriptClassUnsupported, nil, offline.NewParseError(
			"Address", "Script", err,
		)
	}

	return ClassifyScript(pkScript), pkScript, nil
}
