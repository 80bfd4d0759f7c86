package state

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MussinaLin/protocolink-go/state/runtime"
	"github.com/MussinaLin/protocolink-go/types"
)

// scriptedRuntime runs a canned function, standing in for contract code.
type scriptedRuntime struct {
	fn func(c *runtime.Contract, host runtime.Host) *runtime.ExecutionResult
}

func (s *scriptedRuntime) Run(c *runtime.Contract, host runtime.Host) *runtime.ExecutionResult {
	return s.fn(c, host)
}

func newTestTransition(t *testing.T) (*Transition, *Txn) {
	t.Helper()

	txn := NewTxn()

	return NewTransition(nil, txn), txn
}

func TestTransitionTransfer(t *testing.T) {
	t.Parallel()

	host, txn := newTestTransition(t)
	txn.SetBalance(addr1, big.NewInt(100))

	require.NoError(t, host.Transfer(addr1, addr2, big.NewInt(60)))
	assert.Equal(t, int64(40), host.GetBalance(addr1).Int64())
	assert.Equal(t, int64(60), host.GetBalance(addr2).Int64())

	err := host.Transfer(addr1, addr2, big.NewInt(100))
	assert.ErrorIs(t, err, runtime.ErrInsufficientBalance)

	// nil amount is a no-op
	assert.NoError(t, host.Transfer(addr1, addr2, nil))
}

func TestTransitionGetCode(t *testing.T) {
	t.Parallel()

	host, _ := newTestTransition(t)

	assert.Nil(t, host.GetCode(addr1))

	host.Register(addr1, &scriptedRuntime{})
	assert.NotEmpty(t, host.GetCode(addr1))
}

func TestCallxPlainValueTransfer(t *testing.T) {
	t.Parallel()

	host, txn := newTestTransition(t)
	txn.SetBalance(addr1, big.NewInt(100))

	res := host.Callx(runtime.NewContractCall(1, addr1, addr1, addr2, big.NewInt(30), nil))
	require.NoError(t, res.Err)

	assert.Equal(t, int64(30), txn.GetBalance(addr2).Int64())
}

func TestCallxNoCodeWithInputFails(t *testing.T) {
	t.Parallel()

	host, _ := newTestTransition(t)

	res := host.Callx(runtime.NewContractCall(1, addr1, addr1, addr2, nil, []byte{0x01}))
	assert.ErrorIs(t, res.Err, runtime.ErrNoCodeAtAddress)
}

func TestCallxRevertsFailedFrame(t *testing.T) {
	t.Parallel()

	host, txn := newTestTransition(t)
	txn.SetBalance(addr1, big.NewInt(100))

	host.Register(addr2, &scriptedRuntime{
		fn: func(c *runtime.Contract, h runtime.Host) *runtime.ExecutionResult {
			h.SetStorage(addr2, hash1, hash2)

			return &runtime.ExecutionResult{Err: runtime.ErrExecutionReverted}
		},
	})

	res := host.Callx(runtime.NewContractCall(1, addr1, addr1, addr2, big.NewInt(30), []byte{0x01}))
	require.True(t, res.Reverted())

	// the value transfer and the storage write both rolled back
	assert.Equal(t, int64(100), txn.GetBalance(addr1).Int64())
	assert.Zero(t, txn.GetBalance(addr2).Sign())
	assert.Equal(t, types.ZeroHash, txn.GetState(addr2, hash1))
}

func TestCallxKeepsSuccessfulFrame(t *testing.T) {
	t.Parallel()

	host, txn := newTestTransition(t)

	host.Register(addr2, &scriptedRuntime{
		fn: func(c *runtime.Contract, h runtime.Host) *runtime.ExecutionResult {
			h.SetStorage(addr2, hash1, hash2)

			return &runtime.ExecutionResult{ReturnValue: []byte{0x2a}}
		},
	})

	res := host.Callx(runtime.NewContractCall(1, addr1, addr1, addr2, nil, []byte{0x01}))
	require.NoError(t, res.Err)
	assert.Equal(t, []byte{0x2a}, res.ReturnValue)
	assert.Equal(t, hash2, txn.GetState(addr2, hash1))
}

func TestCallxDepthLimit(t *testing.T) {
	t.Parallel()

	host, _ := newTestTransition(t)

	res := host.Callx(runtime.NewContractCall(maxCallDepth+1, addr1, addr1, addr2, nil, nil))
	assert.ErrorIs(t, res.Err, runtime.ErrDepth)
}

func TestCallxInsufficientValue(t *testing.T) {
	t.Parallel()

	host, _ := newTestTransition(t)

	res := host.Callx(runtime.NewContractCall(1, addr1, addr1, addr2, big.NewInt(5), nil))
	assert.True(t, errors.Is(res.Err, runtime.ErrInsufficientBalance))
}
