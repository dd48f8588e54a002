// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bitcoin

import (
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/offlinetx/offline"
	"github.com/btcsuite/offlinetx/pkg/btcunit"
	"github.com/btcsuite/offlinetx/pkg/txfee"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	// senderKeyHex and receiverKeyHex are fixed private keys so that
	// addresses and signatures are the same on every run.
	senderKeyHex = "22a47fa09a223f2aa079edf85a7c2d4f8720ee63e502ee2869afab7" +
		"de234b80c"
	receiverKeyHex = "0f3e1cbd38a1d1b2e3c4a5968778695a4b3c2d1e0f1a2b3c4d5e6" +
		"f708192a3b4"
)

// testKey bundles a private key with the encodings tests need.
type testKey struct {
	wif    offline.Secret
	pubKey []byte
	p2pkh  string
	p2wpkh string
}

// newTestKey derives the WIF and both single key addresses of a key.
func newTestKey(t *testing.T, keyHex string,
	params *chaincfg.Params) testKey {

	t.Helper()

	pkBytes, err := hex.DecodeString(keyHex)
	require.NoError(t, err)

	privKey, pubKey := btcec.PrivKeyFromBytes(pkBytes)
	wif, err := btcutil.NewWIF(privKey, params, true)
	require.NoError(t, err)

	pubKeyBytes := pubKey.SerializeCompressed()
	pubKeyHash := btcutil.Hash160(pubKeyBytes)

	p2pkh, err := btcutil.NewAddressPubKeyHash(pubKeyHash, params)
	require.NoError(t, err)

	p2wpkh, err := btcutil.NewAddressWitnessPubKeyHash(pubKeyHash, params)
	require.NoError(t, err)

	return testKey{
		wif:    offline.Secret(wif.String()),
		pubKey: pubKeyBytes,
		p2pkh:  p2pkh.EncodeAddress(),
		p2wpkh: p2wpkh.EncodeAddress(),
	}
}

// p2shAddress returns a pay-to-script-hash address, which cannot be signed
// for.
func p2shAddress(t *testing.T, params *chaincfg.Params) string {
	t.Helper()

	addr, err := btcutil.NewAddressScriptHashFromHash(
		make([]byte, 20), params,
	)
	require.NoError(t, err)

	return addr.EncodeAddress()
}

// addrScript returns the locking script of an address.
func addrScript(t *testing.T, address string,
	params *chaincfg.Params) []byte {

	t.Helper()

	addr, err := btcutil.DecodeAddress(address, params)
	require.NoError(t, err)

	pkScript, err := txscript.PayToAddrScript(addr)
	require.NoError(t, err)

	return pkScript
}

// testTxID returns a valid txid made of a repeated byte.
func testTxID(b byte) string {
	return strings.Repeat(fmt.Sprintf("%02x", b), 32)
}

// newTestAssembler creates a mainnet assembler with the default max fee
// rate.
func newTestAssembler(estimator txfee.Estimator) *Assembler {
	params := &chaincfg.MainNetParams

	return NewAssembler(
		params, NewAddressCodec(params), estimator,
		btcunit.NewSatPerVByte(DefaultMaxFeeRate),
	)
}

// singleInputRequest spends one input of the given amount from address and
// pays 0.5 BTC to the receiver, sending the change back to address.
func singleInputRequest(sender testKey, address string,
	receiver testKey) *offline.SigningRequest {

	return &offline.SigningRequest{
		Inputs: []offline.InputSpec{{
			TxID:    testTxID(0x11),
			Vout:    0,
			Amount:  "1.0",
			Address: address,
		}},
		Outputs: []offline.OutputSpec{{
			Address: receiver.p2pkh,
			Amount:  "0.5",
		}},
		ChangeAddress: address,
		PrivateKey:    sender.wif,
		FeeRate:       1,
	}
}

// inputState returns the signing state of an input that must exist.
func inputState(t *testing.T, tx *Transaction, idx int) InputState {
	t.Helper()

	state, err := tx.InputState(idx)
	require.NoError(t, err)

	return state
}

// mockEstimator is a fee estimator returning whatever vsize a test asks
// for.
type mockEstimator struct {
	mock.Mock
}

// A compile time check to ensure mockEstimator implements the interface.
var _ txfee.Estimator = (*mockEstimator)(nil)

func (m *mockEstimator) Name() string {
	return "mock"
}

func (m *mockEstimator) EstimateVSize(topo txfee.Topology) btcunit.VByte {
	args := m.Called(topo)

	return args.Get(0).(btcunit.VByte)
}

// mockDigestSigner is a DigestSigner whose behavior is set per test.
type mockDigestSigner struct {
	mock.Mock
}

// A compile time check to ensure mockDigestSigner implements the interface.
var _ DigestSigner = (*mockDigestSigner)(nil)

func (m *mockDigestSigner) SignDigest(digest []byte) ([]byte, error) {
	args := m.Called(digest)

	// Allow tests to compute the signature from the digest.
	if signFn, ok := args.Get(0).(func([]byte) []byte); ok {
		return signFn(digest), args.Error(1)
	}
	sig, _ := args.Get(0).([]byte)

	return sig, args.Error(1)
}

func (m *mockDigestSigner) PubKey() []byte {
	args := m.Called()
	pubKey, _ := args.Get(0).([]byte)

	return pubKey
}
