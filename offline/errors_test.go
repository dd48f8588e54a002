// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package offline

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestErrorMessages checks the kind and message of every error of the
// taxonomy.
func TestErrorMessages(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		err     error
		kind    string
		message string
	}{
		{
			err:     &FileNotFoundError{Path: "req.json"},
			kind:    "FileNotFound",
			message: "file not found: req.json",
		},
		{
			err:     &InvalidFileError{Path: "dir", ExpectedType: "json"},
			kind:    "InvalidFile",
			message: "invalid file: dir, expected json file",
		},
		{
			err: &FileOperationError{
				Operation: "write", Reason: "disk full",
			},
			kind:    "FileOperationError",
			message: "file write failed: disk full",
		},
		{
			err:     NewParseError("string", "Txid", errors.New("bad")),
			kind:    "ParseError",
			message: "failed to parse from string to Txid: bad",
		},
		{
			err: &UnsupportedError{
				Component: "network",
				Input:     "dogecoin",
				Expected:  "bitcoin",
			},
			kind:    "UnsupportedError",
			message: "unsupported network: dogecoin, expected one " +
				"of [bitcoin]",
		},
		{
			err:     &HasherError{Reason: "boom"},
			kind:    "HasherError",
			message: "hasher error: boom",
		},
		{
			err:     ErrInsufficientFunds,
			kind:    "Error",
			message: "insufficient funds",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.kind, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.kind, ErrorKind(tc.err))
			require.EqualError(t, tc.err, tc.message)

			// The kind survives wrapping.
			wrapped := fmt.Errorf("context: %w", tc.err)
			require.Equal(t, tc.kind, ErrorKind(wrapped))
		})
	}
}
