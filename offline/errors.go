// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package offline

import (
	"errors"
	"fmt"
)

var (
	// ErrNoInputs is returned when a request does not spend any input.
	ErrNoInputs = errors.New("request has no inputs")

	// ErrNoTxOutputs is returned when the assembled transaction would not
	// have a single output, which happens when a request has no recipient
	// outputs and the change is below the dust threshold.
	ErrNoTxOutputs = errors.New("tx has no outputs")

	// ErrDuplicatedInput is returned when the same outpoint is spent more
	// than once by a request.
	ErrDuplicatedInput = errors.New("duplicated input")

	// ErrMissingFeeRate is returned when a request has a zero fee rate.
	ErrMissingFeeRate = errors.New("missing fee rate")

	// ErrFeeRateTooLarge is returned when the fee rate of a request is
	// above the configured max fee rate.
	ErrFeeRateTooLarge = errors.New("fee rate too large")

	// ErrInsufficientFunds is returned when the inputs of a request do not
	// cover its outputs plus the fee.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAmountOverflow is returned when the inputs or the outputs of a
	// request add up to more than the total supply.
	ErrAmountOverflow = errors.New("total amount above max supply")

	// ErrTxNotSigned is returned when the signed serialization of a
	// transaction is requested before all of its inputs were signed.
	ErrTxNotSigned = errors.New("transaction is not signed")

	// ErrInputIndexOutOfRange is returned when an input is addressed by an
	// index the transaction does not have.
	ErrInputIndexOutOfRange = errors.New("input index out of range")
)

// Kinder is implemented by every error of the taxonomy so callers can report
// the category of a failure without a type switch.
type Kinder interface {
	Kind() string
}

// FileNotFoundError is returned when the request document does not exist.
type FileNotFoundError struct {
	Path string
}

// Error implements the error interface.
func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// Kind returns the error category.
func (e *FileNotFoundError) Kind() string {
	return "FileNotFound"
}

// InvalidFileError is returned when a path exists but is not the kind of
// file that was expected.
type InvalidFileError struct {
	Path         string
	ExpectedType string
}

// Error implements the error interface.
func (e *InvalidFileError) Error() string {
	return fmt.Sprintf("invalid file: %s, expected %s file", e.Path,
		e.ExpectedType)
}

// Kind returns the error category.
func (e *InvalidFileError) Kind() string {
	return "InvalidFile"
}

// FileOperationError is returned when reading or writing a file fails.
type FileOperationError struct {
	Operation string
	Reason    string
}

// Error implements the error interface.
func (e *FileOperationError) Error() string {
	return fmt.Sprintf("file %s failed: %s", e.Operation, e.Reason)
}

// Kind returns the error category.
func (e *FileOperationError) Kind() string {
	return "FileOperationError"
}

// ParseError is returned when a value cannot be decoded from one
// representation into another, e.g. a hex string into a txid.
type ParseError struct {
	From   string
	To     string
	Reason string
}

// NewParseError creates a ParseError from the error returned by the
// underlying decoder.
func NewParseError(from, to string, err error) *ParseError {
	return &ParseError{From: from, To: to, Reason: err.Error()}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse from %s to %s: %s", e.From, e.To,
		e.Reason)
}

// Kind returns the error category.
func (e *ParseError) Kind() string {
	return "ParseError"
}

// UnsupportedError is returned when a value is well-formed but not one this
// package can handle, such as an unknown network or a script class that
// cannot be signed.
type UnsupportedError struct {
	Component string
	Input     string
	Expected  string
}

// Error implements the error interface.
func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported %s: %s, expected one of [%s]",
		e.Component, e.Input, e.Expected)
}

// Kind returns the error category.
func (e *UnsupportedError) Kind() string {
	return "UnsupportedError"
}

// HasherError is returned when a signature digest cannot be computed.
type HasherError struct {
	Reason string
}

// Error implements the error interface.
func (e *HasherError) Error() string {
	return fmt.Sprintf("hasher error: %s", e.Reason)
}

// Kind returns the error category.
func (e *HasherError) Kind() string {
	return "HasherError"
}

// A compile time check to ensure every error of the taxonomy reports its
// kind.
var (
	_ Kinder = (*FileNotFoundError)(nil)
	_ Kinder = (*InvalidFileError)(nil)
	_ Kinder = (*FileOperationError)(nil)
	_ Kinder = (*ParseError)(nil)
	_ Kinder = (*UnsupportedError)(nil)
	_ Kinder = (*HasherError)(nil)
)

// ErrorKind returns the category of err, or "Error" if err is not part of
// the taxonomy.
func ErrorKind(err error) string {
	var kinder Kinder
	if errors.As(err, &kinder) {
		return kinder.Kind()
	}

	return "Error"
}
