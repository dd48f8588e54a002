// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package offline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// errMissingNetwork is the reason given when a document lacks the network
// key.
var errMissingNetwork = errors.New("input json needs to include " +
	"'network' key")

// networkHeader is decoded first so the document can be routed to a backend
// before the rest of it is interpreted.
type networkHeader struct {
	Network *string `json:"network"`
}

// requestDocument mirrors the JSON request. Required keys are pointers so
// an absent key can be told apart from a zero value.
type requestDocument struct {
	Inputs        *[]InputSpec  `json:"inputs"`
	Outputs       *[]OutputSpec `json:"outputs"`
	ChangeAddress *string       `json:"changeAddress"`
	PrivateKey    *string       `json:"privateKey"`
	FeeRate       *uint64       `json:"feeRate"`
}

// DocumentOptions alter how a request document is interpreted.
type DocumentOptions struct {
	// KeyOptional allows the privateKey key to be absent, for callers
	// that obtain the key some other way.
	KeyOptional bool
}

// ReadDocument reads the request document at path.
func ReadDocument(path string) ([]byte, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, &FileNotFoundError{Path: path}

	case err != nil:
		return nil, &FileOperationError{
			Operation: "stat", Reason: err.Error(),
		}

	case !info.Mode().IsRegular():
		return nil, &InvalidFileError{Path: path, ExpectedType: "json"}
	}

	// #nosec G304 -- the path is supplied by the operator.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileOperationError{
			Operation: "read", Reason: err.Error(),
		}
	}

	return data, nil
}

// ParseNetwork returns the normalized network a request document is for.
func ParseNetwork(data []byte) (string, error) {
	var header networkHeader
	err := json.Unmarshal(data, &header)
	if err != nil || header.Network == nil {
		return "", &ParseError{
			From:   "Json",
			To:     "Network",
			Reason: errMissingNetwork.Error(),
		}
	}

	return strings.ToLower(strings.TrimSpace(*header.Network)), nil
}

// ParseRequest decodes the signing request held by a document.
func ParseRequest(data []byte, opts DocumentOptions) (*SigningRequest,
	error) {

	var doc requestDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, NewParseError("Json", "SigningRequest", err)
	}

	missing := func(key string) error {
		return &ParseError{
			From:   "Json",
			To:     "SigningRequest",
			Reason: fmt.Sprintf("missing field `%s`", key),
		}
	}

	switch {
	case doc.Inputs == nil:
		return nil, missing("inputs")

	case doc.Outputs == nil:
		return nil, missing("outputs")

	case doc.ChangeAddress == nil:
		return nil, missing("changeAddress")

	case doc.PrivateKey == nil && !opts.KeyOptional:
		return nil, missing("privateKey")

	case doc.FeeRate == nil:
		return nil, missing("feeRate")
	}

	req := &SigningRequest{
		Inputs:        *doc.Inputs,
		Outputs:       *doc.Outputs,
		ChangeAddress: *doc.ChangeAddress,
		FeeRate:       *doc.FeeRate,
	}
	if doc.PrivateKey != nil {
		req.PrivateKey = Secret(*doc.PrivateKey)
	}

	return req, nil
}
