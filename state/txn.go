package state

import (
	"fmt"
	"math/big"

	"github.com/MussinaLin/protocolink-go/state/runtime"
	"github.com/MussinaLin/protocolink-go/types"
)

// Txn is the transient world state for one top-level execution: account
// balances, contract storage, and emitted logs. It journals full snapshots so
// a failed call frame can be rolled back without partial effects.
type Txn struct {
	balances map[types.Address]*big.Int
	storage  map[types.Address]map[types.Hash]types.Hash
	logs     []*types.Log

	snapshots []*snapshot
}

type snapshot struct {
	balances map[types.Address]*big.Int
	storage  map[types.Address]map[types.Hash]types.Hash
	logCount int
}

func NewTxn() *Txn {
	return &Txn{
		balances: map[types.Address]*big.Int{},
		storage:  map[types.Address]map[types.Hash]types.Hash{},
	}
}

func (t *Txn) GetBalance(addr types.Address) *big.Int {
	b, ok := t.balances[addr]
	if !ok {
		return new(big.Int)
	}

	return new(big.Int).Set(b)
}

func (t *Txn) SetBalance(addr types.Address, amount *big.Int) {
	t.balances[addr] = new(big.Int).Set(amount)
}

func (t *Txn) AddBalance(addr types.Address, amount *big.Int) {
	if amount == nil || amount.Sign() == 0 {
		if _, ok := t.balances[addr]; !ok {
			t.balances[addr] = new(big.Int)
		}

		return
	}

	t.balances[addr] = new(big.Int).Add(t.GetBalance(addr), amount)
}

func (t *Txn) SubBalance(addr types.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}

	balance := t.GetBalance(addr)
	if balance.Cmp(amount) < 0 {
		return runtime.ErrNotEnoughFunds
	}

	t.balances[addr] = balance.Sub(balance, amount)

	return nil
}

func (t *Txn) GetState(addr types.Address, key types.Hash) types.Hash {
	slots, ok := t.storage[addr]
	if !ok {
		return types.ZeroHash
	}

	return slots[key]
}

func (t *Txn) SetState(addr types.Address, key, value types.Hash) {
	slots, ok := t.storage[addr]
	if !ok {
		slots = map[types.Hash]types.Hash{}
		t.storage[addr] = slots
	}

	if value == types.ZeroHash {
		delete(slots, key)

		return
	}

	slots[key] = value
}

func (t *Txn) EmitLog(addr types.Address, topics []types.Hash, data []byte) {
	t.logs = append(t.logs, &types.Log{
		Address: addr,
		Topics:  append([]types.Hash{}, topics...),
		Data:    append([]byte{}, data...),
	})
}

func (t *Txn) Logs() []*types.Log {
	return t.logs
}

// Snapshot records the current state and returns an id for RevertToSnapshot.
func (t *Txn) Snapshot() int {
	s := &snapshot{
		balances: make(map[types.Address]*big.Int, len(t.balances)),
		storage:  make(map[types.Address]map[types.Hash]types.Hash, len(t.storage)),
		logCount: len(t.logs),
	}

	for addr, b := range t.balances {
		s.balances[addr] = new(big.Int).Set(b)
	}

	for addr, slots := range t.storage {
		cp := make(map[types.Hash]types.Hash, len(slots))
		for k, v := range slots {
			cp[k] = v
		}

		s.storage[addr] = cp
	}

	t.snapshots = append(t.snapshots, s)

	return len(t.snapshots) - 1
}

// RevertToSnapshot restores the state recorded by Snapshot and discards that
// snapshot along with any taken after it.
func (t *Txn) RevertToSnapshot(id int) error {
	if id < 0 || id >= len(t.snapshots) {
		return fmt.Errorf("snapshot id %d out of range", id)
	}

	s := t.snapshots[id]

	t.balances = s.balances
	t.storage = s.storage
	t.logs = t.logs[:s.logCount]
	t.snapshots = t.snapshots[:id]

	return nil
}

// DiscardSnapshot drops a snapshot taken by a frame that completed
// successfully, keeping the journal from growing over long executions.
func (t *Txn) DiscardSnapshot(id int) {
	if id == len(t.snapshots)-1 {
		t.snapshots = t.snapshots[:id]
	}
}
