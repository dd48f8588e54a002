// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bitcoin

import (
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/wire"
)

// Packet returns the transaction as an unsigned PSBT. Unlocking data that
// was already written is not carried over.
//
// Segwit inputs get their witness UTXO. Legacy inputs get no UTXO
// information at all since the full previous transaction is not known
// offline, so an external signer has to look it up.
func (t *Transaction) Packet() (*psbt.Packet, error) {
	unsignedTx := t.authored.Tx.Copy()
	for _, txIn := range unsignedTx.TxIn {
		txIn.SignatureScript = nil
		txIn.Witness = nil
	}

	packet, err := psbt.NewFromUnsignedTx(unsignedTx)
	if err != nil {
		return nil, err
	}

	for i := range packet.Inputs {
		in := &packet.Inputs[i]
		in.SighashType = sigHashType

		if !t.classes[i].IsSegwit() {
			log.Debugf("Input %d spends a legacy output, the "+
				"packet carries no UTXO for it", i)

			continue
		}

		in.WitnessUtxo = &wire.TxOut{
			Value:    int64(t.authored.PrevInputValues[i]),
			PkScript: t.authored.PrevScripts[i],
		}
	}

	return packet, nil
}

// ExportPacket returns the base64 encoded unsigned PSBT of the transaction.
func (t *Transaction) ExportPacket() (string, error) {
	packet, err := t.Packet()
	if err != nil {
		return "", err
	}

	return packet.B64Encode()
}
