// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package offline builds and signs a single transaction without any network
// access, from a declarative description of the inputs to spend and the
// outputs to pay.
//
// The chain specific work is done by a TransactionBackend. The Pipeline
// routes a request to the backend of its network and sequences assembly and
// signing:
//
//	pipeline := offline.NewPipeline(bitcoin.New(cfg))
//	network, req, err := pipeline.LoadFile(path, offline.DocumentOptions{})
//	...
//	tx, err := pipeline.Run(network, req)
//	...
//	txHex, err := tx.Hex()
package offline

import (
	"sort"
	"strings"
)

// Pipeline sequences assembly and signing. A pipeline holds no per-request
// state, so one pipeline can serve any number of runs.
type Pipeline struct {
	backends map[string]TransactionBackend
}

// NewPipeline creates a pipeline serving the given backends. A backend
// registered later replaces an earlier one for the same network.
func NewPipeline(backends ...TransactionBackend) *Pipeline {
	p := &Pipeline{
		backends: make(map[string]TransactionBackend, len(backends)),
	}
	for _, backend := range backends {
		p.backends[backend.Network()] = backend
	}

	return p
}

// Networks returns the sorted names of the supported networks.
func (p *Pipeline) Networks() []string {
	names := make([]string, 0, len(p.backends))
	for name := range p.backends {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Backend returns the backend for the given network.
func (p *Pipeline) Backend(network string) (TransactionBackend, error) {
	backend, ok := p.backends[network]
	if !ok {
		return nil, &UnsupportedError{
			Component: "network",
			Input:     network,
			Expected:  strings.Join(p.Networks(), ", "),
		}
	}

	return backend, nil
}

// LoadFile reads the request document at path. The network is resolved
// before the rest of the document is decoded, so an unsupported network is
// reported as such even if the document is otherwise malformed.
func (p *Pipeline) LoadFile(path string, opts DocumentOptions) (string,
	*SigningRequest, error) {

	data, err := ReadDocument(path)
	if err != nil {
		return "", nil, err
	}

	return p.Load(data, opts)
}

// Load decodes a request document.
func (p *Pipeline) Load(data []byte, opts DocumentOptions) (string,
	*SigningRequest, error) {

	network, err := ParseNetwork(data)
	if err != nil {
		return "", nil, err
	}

	if _, err := p.Backend(network); err != nil {
		return "", nil, err
	}

	req, err := ParseRequest(data, opts)
	if err != nil {
		return "", nil, err
	}

	log.Debugf("Loaded %s request with %d inputs and %d outputs",
		network, len(req.Inputs), len(req.Outputs))

	return network, req, nil
}

// Assemble validates the request and builds its unsigned transaction.
func (p *Pipeline) Assemble(network string, req *SigningRequest) (
	Transaction, error) {

	backend, err := p.Backend(network)
	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	tx, err := backend.Assemble(req)
	if err != nil {
		return nil, err
	}

	log.Infof("Assembled %s transaction %s paying a fee of %d", network,
		tx.TxID(), tx.Fee())

	return tx, nil
}

// Run assembles the request and signs every input with the request's key.
// The returned transaction is signed; on error nothing usable is returned.
func (p *Pipeline) Run(network string, req *SigningRequest) (Transaction,
	error) {

	tx, err := p.Assemble(network, req)
	if err != nil {
		return nil, err
	}

	if err := tx.Sign(req.PrivateKey); err != nil {
		return nil, err
	}

	log.Infof("Signed %s transaction %s", network, tx.TxID())

	return tx, nil
}
