// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package offline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend failure")

// mockBackend is a TransactionBackend whose behavior is set per test.
type mockBackend struct {
	mock.Mock

	network string
}

func (m *mockBackend) Network() string {
	return m.network
}

func (m *mockBackend) Assemble(req *SigningRequest) (Transaction, error) {
	args := m.Called(req)
	tx, _ := args.Get(0).(Transaction)

	return tx, args.Error(1)
}

// mockTransaction is a Transaction whose behavior is set per test.
type mockTransaction struct {
	mock.Mock
}

func (m *mockTransaction) Sign(privateKey Secret) error {
	return m.Called(privateKey).Error(0)
}

func (m *mockTransaction) IsSigned() bool {
	return m.Called().Bool(0)
}

func (m *mockTransaction) TxID() string {
	return "txid"
}

func (m *mockTransaction) Fee() int64 {
	return 0
}

func (m *mockTransaction) Hex() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *mockTransaction) UnsignedHex() string {
	return m.Called().String(0)
}

// A compile time check to ensure the mocks implement the interfaces.
var (
	_ TransactionBackend = (*mockBackend)(nil)
	_ Transaction        = (*mockTransaction)(nil)
)

// validRequest returns a request passing Validate.
func validRequest() *SigningRequest {
	return &SigningRequest{
		Inputs:     []InputSpec{{TxID: "aa", Amount: "1"}},
		PrivateKey: "wif",
		FeeRate:    1,
	}
}

// TestPipelineRouting checks that requests are routed by network and that
// unknown networks are reported with the supported ones.
func TestPipelineRouting(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(
		&mockBackend{network: "bitcoin"}, &mockBackend{network: "alpha"},
	)
	require.Equal(t, []string{"alpha", "bitcoin"}, pipeline.Networks())

	backend, err := pipeline.Backend("bitcoin")
	require.NoError(t, err)
	require.Equal(t, "bitcoin", backend.Network())

	_, err = pipeline.Backend("dogecoin")

	var unsupportedErr *UnsupportedError
	require.ErrorAs(t, err, &unsupportedErr)
	require.Equal(t, "network", unsupportedErr.Component)
	require.Equal(t, "dogecoin", unsupportedErr.Input)
	require.Equal(t, "alpha, bitcoin", unsupportedErr.Expected)
}

// TestPipelineLoad checks that the network is checked before the rest of
// the document.
func TestPipelineLoad(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(&mockBackend{network: "bitcoin"})

	network, req, err := pipeline.Load(
		[]byte(testDocument), DocumentOptions{},
	)
	require.NoError(t, err)
	require.Equal(t, "bitcoin", network)
	require.Len(t, req.Inputs, 1)

	// An unknown network wins over a malformed body.
	_, _, err = pipeline.Load(
		[]byte(`{"network": "ethereum", "inputs": 5}`), DocumentOptions{},
	)
	require.Equal(t, "UnsupportedError", ErrorKind(err))

	_, _, err = pipeline.Load(
		[]byte(`{"network": "bitcoin", "inputs": 5}`), DocumentOptions{},
	)
	require.Equal(t, "ParseError", ErrorKind(err))

	_, _, err = pipeline.LoadFile("/does/not/exist.json", DocumentOptions{})
	require.Equal(t, "FileNotFound", ErrorKind(err))
}

// TestPipelineRun checks the sequencing of assembly and signing.
func TestPipelineRun(t *testing.T) {
	t.Parallel()

	// Arrange: A backend assembling a transaction that signs fine.
	req := validRequest()
	tx := &mockTransaction{}
	tx.On("Sign", Secret("wif")).Return(nil).Once()

	backend := &mockBackend{network: "bitcoin"}
	backend.On("Assemble", req).Return(tx, nil).Once()

	// Act: Run the request.
	result, err := NewPipeline(backend).Run("bitcoin", req)

	// Assert: The assembled transaction was signed and returned.
	require.NoError(t, err)
	require.Same(t, tx, result)
	backend.AssertExpectations(t)
	tx.AssertExpectations(t)
}

// TestPipelineRunFail checks that every stage failure ends the run.
func TestPipelineRunFail(t *testing.T) {
	t.Parallel()

	t.Run("invalid request", func(t *testing.T) {
		t.Parallel()

		backend := &mockBackend{network: "bitcoin"}
		req := validRequest()
		req.FeeRate = 0

		_, err := NewPipeline(backend).Run("bitcoin", req)
		require.ErrorIs(t, err, ErrMissingFeeRate)
		backend.AssertNotCalled(t, "Assemble", mock.Anything)
	})

	t.Run("assembly", func(t *testing.T) {
		t.Parallel()

		backend := &mockBackend{network: "bitcoin"}
		backend.On("Assemble", mock.Anything).Return(nil, errBackend)

		_, err := NewPipeline(backend).Run("bitcoin", validRequest())
		require.ErrorIs(t, err, errBackend)
	})

	t.Run("signing", func(t *testing.T) {
		t.Parallel()

		tx := &mockTransaction{}
		tx.On("Sign", mock.Anything).Return(&HasherError{Reason: "x"})

		backend := &mockBackend{network: "bitcoin"}
		backend.On("Assemble", mock.Anything).Return(tx, nil)

		result, err := NewPipeline(backend).Run("bitcoin", validRequest())
		require.Nil(t, result)
		require.Equal(t, "HasherError", ErrorKind(err))
	})

	t.Run("unknown network", func(t *testing.T) {
		t.Parallel()

		_, err := NewPipeline().Run("bitcoin", validRequest())
		require.Equal(t, "UnsupportedError", ErrorKind(err))
	})
}
