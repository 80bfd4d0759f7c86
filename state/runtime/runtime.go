package runtime

import (
	"errors"
	"math/big"

	"github.com/MussinaLin/protocolink-go/types"
)

var (
	ErrNotEnoughFunds       = errors.New("not enough funds")
	ErrInsufficientBalance  = errors.New("insufficient balance for transfer")
	ErrInvalidInputData     = errors.New("invalid input data")
	ErrUnauthorizedCaller   = errors.New("unauthorized caller")
	ErrExecutionReverted    = errors.New("execution reverted")
	ErrDepth                = errors.New("max call depth exceeded")
	ErrNoCodeAtAddress      = errors.New("no code at call target")
	ErrStateAlreadyReleased = errors.New("state already released")
)

// Host is the set of world-state operations available to contract code
// during a call. The host owns snapshotting: a failed frame must leave no
// trace in balances, storage, or logs.
type Host interface {
	GetBalance(addr types.Address) *big.Int
	Transfer(from, to types.Address, amount *big.Int) error

	GetStorage(addr types.Address, key types.Hash) types.Hash
	SetStorage(addr types.Address, key types.Hash, value types.Hash)

	GetCode(addr types.Address) []byte

	EmitLog(addr types.Address, topics []types.Hash, data []byte)

	// Callx dispatches a nested call frame. Value transfer, snapshotting and
	// revert-on-failure happen inside.
	Callx(c *Contract) *ExecutionResult
}

// Runtime is a contract deployed as native Go code at an address, the same
// shape a chain gives its precompiles.
type Runtime interface {
	Run(c *Contract, host Host) *ExecutionResult
}

// Contract is one call frame.
type Contract struct {
	Depth   int
	Caller  types.Address
	Origin  types.Address
	Address types.Address
	Value   *big.Int
	Input   []byte
}

// NewContractCall builds a frame for a plain call. Value may be nil for a
// zero-value call.
func NewContractCall(depth int, origin, caller, to types.Address, value *big.Int, input []byte) *Contract {
	return &Contract{
		Depth:   depth,
		Caller:  caller,
		Origin:  origin,
		Address: to,
		Value:   value,
		Input:   input,
	}
}

// ExecutionResult is the outcome of one call frame.
type ExecutionResult struct {
	ReturnValue []byte
	Err         error
}

func (r *ExecutionResult) Succeeded() bool {
	return r.Err == nil
}

func (r *ExecutionResult) Failed() bool {
	return r.Err != nil
}

func (r *ExecutionResult) Reverted() bool {
	return errors.Is(r.Err, ErrExecutionReverted)
}
