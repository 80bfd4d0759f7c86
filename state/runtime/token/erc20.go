// Package token implements fungible-token contracts as native Go runtimes.
// Balances and allowances live in host storage under the canonical Solidity
// mapping-slot schema, so frame snapshots cover token state for free.
package token

import (
	"bytes"
	"math/big"

	ethgo "github.com/umbracle/ethgo"
	ethabi "github.com/umbracle/ethgo/abi"

	"github.com/MussinaLin/protocolink-go/contracts/routerabi"
	"github.com/MussinaLin/protocolink-go/crypto"
	"github.com/MussinaLin/protocolink-go/state/runtime"
	"github.com/MussinaLin/protocolink-go/types"
)

var erc20ABI = ethabi.MustNewABI(routerabi.ERC20ABI)

const (
	slotBalances    uint64 = 0
	slotAllowances  uint64 = 1
	slotTotalSupply uint64 = 2
)

// MaxUint256 doubles as the infinite-allowance marker: transferFrom does not
// decrement it.
var MaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// ERC20 is an EIP-20 token runtime.
type ERC20 struct {
	addr types.Address

	// strictApproval models deployed tokens (USDT-shaped) that revert when
	// approve would change a nonzero allowance to another nonzero value.
	strictApproval bool
}

type Option func(*ERC20)

// WithStrictApproval makes approve reject nonzero -> nonzero changes.
func WithStrictApproval() Option {
	return func(e *ERC20) {
		e.strictApproval = true
	}
}

func NewERC20(addr types.Address, opts ...Option) *ERC20 {
	e := &ERC20{addr: addr}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *ERC20) Address() types.Address {
	return e.addr
}

func (e *ERC20) Run(c *runtime.Contract, host runtime.Host) *runtime.ExecutionResult {
	if len(c.Input) < 4 {
		return &runtime.ExecutionResult{Err: runtime.ErrInvalidInputData}
	}

	selector := c.Input[:4]

	switch {
	case bytes.Equal(selector, erc20ABI.GetMethod("totalSupply").ID()):
		return e.encodeU256(e.loadU256(host, crypto.U256Slot(slotTotalSupply)))

	case bytes.Equal(selector, erc20ABI.GetMethod("balanceOf").ID()):
		args, err := decodeArgs(erc20ABI.GetMethod("balanceOf"), c.Input)
		if err != nil {
			return &runtime.ExecutionResult{Err: err}
		}

		account := types.Address(args["account"].(ethgo.Address))

		return e.encodeU256(e.balanceOf(host, account))

	case bytes.Equal(selector, erc20ABI.GetMethod("allowance").ID()):
		args, err := decodeArgs(erc20ABI.GetMethod("allowance"), c.Input)
		if err != nil {
			return &runtime.ExecutionResult{Err: err}
		}

		owner := types.Address(args["owner"].(ethgo.Address))
		spender := types.Address(args["spender"].(ethgo.Address))

		return e.encodeU256(e.allowance(host, owner, spender))

	case bytes.Equal(selector, erc20ABI.GetMethod("transfer").ID()):
		args, err := decodeArgs(erc20ABI.GetMethod("transfer"), c.Input)
		if err != nil {
			return &runtime.ExecutionResult{Err: err}
		}

		to := types.Address(args["to"].(ethgo.Address))
		amount := args["amount"].(*big.Int)

		if err := e.move(host, c.Caller, to, amount); err != nil {
			return &runtime.ExecutionResult{Err: err}
		}

		return e.encodeBool(erc20ABI.GetMethod("transfer"), true)

	case bytes.Equal(selector, erc20ABI.GetMethod("approve").ID()):
		args, err := decodeArgs(erc20ABI.GetMethod("approve"), c.Input)
		if err != nil {
			return &runtime.ExecutionResult{Err: err}
		}

		spender := types.Address(args["spender"].(ethgo.Address))
		amount := args["amount"].(*big.Int)

		if err := e.approve(host, c.Caller, spender, amount); err != nil {
			return &runtime.ExecutionResult{Err: err}
		}

		return e.encodeBool(erc20ABI.GetMethod("approve"), true)

	case bytes.Equal(selector, erc20ABI.GetMethod("transferFrom").ID()):
		args, err := decodeArgs(erc20ABI.GetMethod("transferFrom"), c.Input)
		if err != nil {
			return &runtime.ExecutionResult{Err: err}
		}

		from := types.Address(args["from"].(ethgo.Address))
		to := types.Address(args["to"].(ethgo.Address))
		amount := args["amount"].(*big.Int)

		if err := e.spendAllowance(host, from, c.Caller, amount); err != nil {
			return &runtime.ExecutionResult{Err: err}
		}

		if err := e.move(host, from, to, amount); err != nil {
			return &runtime.ExecutionResult{Err: err}
		}

		return e.encodeBool(erc20ABI.GetMethod("transferFrom"), true)

	case bytes.Equal(selector, erc20ABI.GetMethod("mint").ID()):
		args, err := decodeArgs(erc20ABI.GetMethod("mint"), c.Input)
		if err != nil {
			return &runtime.ExecutionResult{Err: err}
		}

		to := types.Address(args["to"].(ethgo.Address))
		amount := args["amount"].(*big.Int)

		e.mint(host, to, amount)

		return &runtime.ExecutionResult{}

	default:
		return &runtime.ExecutionResult{Err: runtime.ErrInvalidInputData}
	}
}

func (e *ERC20) balanceOf(host runtime.Host, account types.Address) *big.Int {
	return e.loadU256(host, crypto.MappingSlotKey(account, slotBalances))
}

func (e *ERC20) allowance(host runtime.Host, owner, spender types.Address) *big.Int {
	return e.loadU256(host, crypto.NestedMappingSlotKey(owner, spender, slotAllowances))
}

func (e *ERC20) move(host runtime.Host, from, to types.Address, amount *big.Int) error {
	if amount == nil {
		amount = new(big.Int)
	}

	fromKey := crypto.MappingSlotKey(from, slotBalances)

	balance := e.loadU256(host, fromKey)
	if balance.Cmp(amount) < 0 {
		return runtime.ErrExecutionReverted
	}

	e.storeU256(host, fromKey, balance.Sub(balance, amount))

	toKey := crypto.MappingSlotKey(to, slotBalances)
	e.storeU256(host, toKey, new(big.Int).Add(e.loadU256(host, toKey), amount))

	return nil
}

func (e *ERC20) approve(host runtime.Host, owner, spender types.Address, amount *big.Int) error {
	key := crypto.NestedMappingSlotKey(owner, spender, slotAllowances)

	if e.strictApproval {
		current := e.loadU256(host, key)
		if current.Sign() != 0 && amount != nil && amount.Sign() != 0 {
			return runtime.ErrExecutionReverted
		}
	}

	e.storeU256(host, key, amount)

	return nil
}

func (e *ERC20) spendAllowance(host runtime.Host, owner, spender types.Address, amount *big.Int) error {
	key := crypto.NestedMappingSlotKey(owner, spender, slotAllowances)

	current := e.loadU256(host, key)
	if current.Cmp(MaxUint256) == 0 {
		return nil
	}

	if current.Cmp(amount) < 0 {
		return runtime.ErrExecutionReverted
	}

	e.storeU256(host, key, current.Sub(current, amount))

	return nil
}

func (e *ERC20) mint(host runtime.Host, to types.Address, amount *big.Int) {
	toKey := crypto.MappingSlotKey(to, slotBalances)
	e.storeU256(host, toKey, new(big.Int).Add(e.loadU256(host, toKey), amount))

	supplyKey := crypto.U256Slot(slotTotalSupply)
	e.storeU256(host, supplyKey, new(big.Int).Add(e.loadU256(host, supplyKey), amount))
}

func (e *ERC20) burn(host runtime.Host, from types.Address, amount *big.Int) error {
	fromKey := crypto.MappingSlotKey(from, slotBalances)

	balance := e.loadU256(host, fromKey)
	if balance.Cmp(amount) < 0 {
		return runtime.ErrExecutionReverted
	}

	e.storeU256(host, fromKey, balance.Sub(balance, amount))

	supplyKey := crypto.U256Slot(slotTotalSupply)
	supply := e.loadU256(host, supplyKey)

	if supply.Cmp(amount) >= 0 {
		e.storeU256(host, supplyKey, supply.Sub(supply, amount))
	}

	return nil
}

func (e *ERC20) loadU256(host runtime.Host, key types.Hash) *big.Int {
	v := host.GetStorage(e.addr, key)
	if v == types.ZeroHash {
		return new(big.Int)
	}

	return new(big.Int).SetBytes(v[:])
}

func (e *ERC20) storeU256(host runtime.Host, key types.Hash, v *big.Int) {
	var buf [32]byte

	if v != nil {
		v.FillBytes(buf[:])
	}

	host.SetStorage(e.addr, key, types.BytesToHash(buf[:]))
}

func (e *ERC20) encodeU256(v *big.Int) *runtime.ExecutionResult {
	var buf [32]byte

	v.FillBytes(buf[:])

	return &runtime.ExecutionResult{ReturnValue: buf[:]}
}

func (e *ERC20) encodeBool(m *ethabi.Method, b bool) *runtime.ExecutionResult {
	out, err := m.Outputs.Encode([]interface{}{b})
	if err != nil {
		return &runtime.ExecutionResult{Err: err}
	}

	return &runtime.ExecutionResult{ReturnValue: out}
}

func decodeArgs(m *ethabi.Method, input []byte) (map[string]interface{}, error) {
	vals, err := m.Inputs.Decode(input[4:])
	if err != nil {
		return nil, runtime.ErrInvalidInputData
	}

	args, ok := vals.(map[string]interface{})
	if !ok {
		return nil, runtime.ErrInvalidInputData
	}

	return args, nil
}
