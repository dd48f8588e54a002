// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package offline

// TransactionBackend builds transactions for one blockchain. Supporting a
// new chain means adding a new implementation, the pipeline itself does not
// change.
type TransactionBackend interface {
	// Network returns the normalized name of the chain, as it appears in
	// the network key of a request document.
	Network() string

	// Assemble turns a request into an unsigned transaction. It never
	// touches the private key of the request.
	Assemble(req *SigningRequest) (Transaction, error)
}

// Transaction is an assembled transaction owned by a single pipeline run.
//
// A transaction starts out unsigned and becomes signed exactly once, after
// all of its inputs were signed. If signing fails midway the inputs before
// the failing one keep their unlocking data but the transaction stays
// unsigned and must not be broadcast.
type Transaction interface {
	// Sign signs every input, in input order, with the given WIF encoded
	// key. Calling Sign on a transaction that is already signed is a
	// no-op.
	Sign(privateKey Secret) error

	// IsSigned returns true once every input has been signed.
	IsSigned() bool

	// TxID returns the transaction id.
	TxID() string

	// Fee returns the fee paid by the transaction in minor units.
	Fee() int64

	// Hex returns the hex encoded serialization of the signed
	// transaction, or ErrTxNotSigned if it is not signed yet.
	Hex() (string, error)

	// UnsignedHex returns the hex encoded serialization regardless of
	// the signing state. A warning is logged if it is not signed.
	UnsignedHex() string
}

// PacketExporter is implemented by transactions that can be exported as a
// partially signed packet for an external signer.
type PacketExporter interface {
	// ExportPacket returns the base64 encoded unsigned packet.
	ExportPacket() (string, error)
}
