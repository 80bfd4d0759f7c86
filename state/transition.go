package state

import (
	"errors"
	"math/big"

	"github.com/hashicorp/go-hclog"

	"github.com/MussinaLin/protocolink-go/state/runtime"
	"github.com/MussinaLin/protocolink-go/types"
)

const maxCallDepth = 1024

// nativeCodeMarker stands in for bytecode at addresses backed by Go
// runtimes, so code-size probes behave as they would on chain.
var nativeCodeMarker = []byte{0xfe}

// Transition hosts contract execution over a Txn. Contracts are Go Runtime
// implementations registered per address; everything they touch goes through
// the runtime.Host interface so frames stay revertible.
type Transition struct {
	logger   hclog.Logger
	state    *Txn
	runtimes map[types.Address]runtime.Runtime
}

func NewTransition(logger hclog.Logger, txn *Txn) *Transition {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Transition{
		logger:   logger.Named("state"),
		state:    txn,
		runtimes: map[types.Address]runtime.Runtime{},
	}
}

// Register deploys a Go runtime at the given address.
func (t *Transition) Register(addr types.Address, r runtime.Runtime) {
	t.runtimes[addr] = r
}

func (t *Transition) Txn() *Txn {
	return t.state
}

func (t *Transition) GetBalance(addr types.Address) *big.Int {
	return t.state.GetBalance(addr)
}

func (t *Transition) Transfer(from, to types.Address, amount *big.Int) error {
	if amount == nil {
		return nil
	}

	if err := t.state.SubBalance(from, amount); err != nil {
		if errors.Is(err, runtime.ErrNotEnoughFunds) {
			return runtime.ErrInsufficientBalance
		}

		return err
	}

	t.state.AddBalance(to, amount)

	return nil
}

func (t *Transition) GetStorage(addr types.Address, key types.Hash) types.Hash {
	return t.state.GetState(addr, key)
}

func (t *Transition) SetStorage(addr types.Address, key types.Hash, value types.Hash) {
	t.state.SetState(addr, key, value)
}

func (t *Transition) GetCode(addr types.Address) []byte {
	if _, ok := t.runtimes[addr]; ok {
		return nativeCodeMarker
	}

	return nil
}

func (t *Transition) EmitLog(addr types.Address, topics []types.Hash, data []byte) {
	t.state.EmitLog(addr, topics, data)
}

// Callx dispatches one call frame: snapshot, value transfer, runtime run,
// revert on failure. A frame with no input against an address without a
// runtime degrades to a plain value transfer.
func (t *Transition) Callx(c *runtime.Contract) *runtime.ExecutionResult {
	if c.Depth > maxCallDepth {
		return &runtime.ExecutionResult{Err: runtime.ErrDepth}
	}

	snap := t.state.Snapshot()

	if c.Value != nil && c.Value.Sign() > 0 {
		if err := t.Transfer(c.Caller, c.Address, c.Value); err != nil {
			t.state.DiscardSnapshot(snap)

			return &runtime.ExecutionResult{Err: err}
		}
	}

	result := t.runFrame(c)

	if result.Failed() {
		t.logger.Debug("call frame reverted",
			"to", c.Address, "caller", c.Caller, "err", result.Err)

		if err := t.state.RevertToSnapshot(snap); err != nil {
			return &runtime.ExecutionResult{Err: err}
		}

		return result
	}

	t.state.DiscardSnapshot(snap)

	return result
}

func (t *Transition) runFrame(c *runtime.Contract) *runtime.ExecutionResult {
	r, ok := t.runtimes[c.Address]
	if !ok {
		if len(c.Input) == 0 {
			// plain value transfer, already applied above
			return &runtime.ExecutionResult{}
		}

		return &runtime.ExecutionResult{Err: runtime.ErrNoCodeAtAddress}
	}

	return r.Run(c, t)
}
