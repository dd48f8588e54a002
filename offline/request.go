// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package offline

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
)

// redacted is what a Secret prints as.
const redacted = "[redacted]"

var (
	// errNegativeAmount is returned for amounts below zero.
	errNegativeAmount = errors.New("amount is negative")

	// errAmountNotFinite is returned for NaN and infinite amounts.
	errAmountNotFinite = errors.New("amount is not a finite number")

	// errAmountTooLarge is returned for amounts above the total supply.
	errAmountTooLarge = errors.New("amount exceeds max supply")

	// errAmountNotDecimal is returned when a JSON amount is neither a
	// string nor a number.
	errAmountNotDecimal = errors.New("amount must be a decimal string " +
		"or number")
)

// Secret holds private key material. It never prints its value, so a
// request can be logged or dumped without leaking the key.
type Secret string

// Reveal returns the secret value.
func (s Secret) Reveal() string {
	return string(s)
}

// String implements fmt.Stringer.
func (s Secret) String() string {
	return redacted
}

// GoString implements fmt.GoStringer.
func (s Secret) GoString() string {
	return redacted
}

// Format implements fmt.Formatter so that no verb prints the value.
func (s Secret) Format(f fmt.State, _ rune) {
	_, _ = f.Write([]byte(redacted))
}

// DecimalAmount is an amount in whole coins written as a decimal, e.g.
// "0.5". In a JSON document it may be given either as a string or as a
// number.
type DecimalAmount string

// UnmarshalJSON implements json.Unmarshaler.
func (d *DecimalAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*d = DecimalAmount(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return errAmountNotDecimal
	}

	*d = DecimalAmount(num.String())

	return nil
}

// Satoshis converts the amount to satoshis. The conversion multiplies the
// floating point value by 1e8 and truncates, so any precision below one
// satoshi is dropped and values that are not exactly representable may lose
// a satoshi, e.g. "0.29" converts to 28999999.
func (d DecimalAmount) Satoshis() (btcutil.Amount, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(string(d)), 64)
	if err != nil {
		return 0, NewParseError("decimal amount", "satoshis", err)
	}

	switch {
	case math.IsNaN(value) || math.IsInf(value, 0):
		return 0, NewParseError(
			"decimal amount", "satoshis", errAmountNotFinite,
		)

	case value < 0:
		return 0, NewParseError(
			"decimal amount", "satoshis", errNegativeAmount,
		)

	case value*btcutil.SatoshiPerBitcoin > btcutil.MaxSatoshi:
		return 0, NewParseError(
			"decimal amount", "satoshis", errAmountTooLarge,
		)
	}

	return btcutil.Amount(value * btcutil.SatoshiPerBitcoin), nil
}

// InputSpec is an unspent output the caller asserts is spendable with the
// request's private key. Nothing checks that the output actually exists.
type InputSpec struct {
	// TxID is the hex encoded hash of the transaction that created the
	// output.
	TxID string `json:"txid"`

	// Vout is the index of the output in that transaction.
	Vout uint32 `json:"vout"`

	// Amount is the value of the output.
	Amount DecimalAmount `json:"amount"`

	// Address is the address the output pays to.
	Address string `json:"address"`
}

// OutputSpec is a payment the transaction makes.
type OutputSpec struct {
	// Address is the destination of the payment.
	Address string `json:"address"`

	// Amount is the value of the payment.
	Amount DecimalAmount `json:"amount"`
}

// SigningRequest describes a single transaction to be built and signed. A
// request is never modified once constructed.
type SigningRequest struct {
	// Inputs are spent in the given order.
	Inputs []InputSpec

	// Outputs are paid in the given order, followed by the change output
	// if there is one.
	Outputs []OutputSpec

	// ChangeAddress receives the change if it is above the dust
	// threshold.
	ChangeAddress string

	// PrivateKey is the WIF encoded key every input is signed with.
	PrivateKey Secret

	// FeeRate is the fee rate in minor units per virtual byte.
	FeeRate uint64
}

// Validate performs the checks that do not depend on the chain the request
// is for.
func (r *SigningRequest) Validate() error {
	if len(r.Inputs) == 0 {
		return ErrNoInputs
	}

	if r.FeeRate == 0 {
		return ErrMissingFeeRate
	}

	return nil
}
