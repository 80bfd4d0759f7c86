package router

import (
	"fmt"
	"math/big"

	ethgo "github.com/umbracle/ethgo"

	"github.com/MussinaLin/protocolink-go/contracts"
	"github.com/MussinaLin/protocolink-go/state/runtime"
	"github.com/MussinaLin/protocolink-go/types"
)

// call dispatches one outbound frame from the agent. value may be nil.
func (a *Agent) call(to types.Address, value *big.Int, data []byte) *runtime.ExecutionResult {
	return a.host.Callx(runtime.NewContractCall(1, a.addr, a.addr, to, value, data))
}

// tokenBalance reads the agent's live balance of a token; the native
// sentinel reads the native balance.
func (a *Agent) tokenBalance(token types.Address) *big.Int {
	if token == contracts.NativeToken {
		return a.host.GetBalance(a.addr)
	}

	data, err := erc20ABI.GetMethod("balanceOf").Encode([]interface{}{ethgo.Address(a.addr)})
	if err != nil {
		return new(big.Int)
	}

	res := a.call(token, nil, data)
	if res.Failed() {
		return new(big.Int)
	}

	return new(big.Int).SetBytes(res.ReturnValue)
}

// tokenAllowance reads allowance(agent -> spender) on an ERC-20 token.
func (a *Agent) tokenAllowance(token, spender types.Address) *big.Int {
	data, err := erc20ABI.GetMethod("allowance").Encode([]interface{}{
		ethgo.Address(a.addr),
		ethgo.Address(spender),
	})
	if err != nil {
		return new(big.Int)
	}

	res := a.call(token, nil, data)
	if res.Failed() {
		return new(big.Int)
	}

	return new(big.Int).SetBytes(res.ReturnValue)
}

// tokenTransfer moves an amount from the agent to a recipient, in native
// currency or through the token contract.
func (a *Agent) tokenTransfer(token, to types.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}

	if token == contracts.NativeToken {
		return a.host.Transfer(a.addr, to, amount)
	}

	data, err := erc20ABI.GetMethod("transfer").Encode([]interface{}{
		ethgo.Address(to),
		amount,
	})
	if err != nil {
		return err
	}

	if res := a.call(token, nil, data); res.Failed() {
		return fmt.Errorf("transfer of %s failed: %w", token, res.Err)
	}

	return nil
}

// wrapNative deposits the given amount of native currency into the wrapped
// asset.
func (a *Agent) wrapNative(amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}

	data, err := wethABI.GetMethod("deposit").Encode([]interface{}{})
	if err != nil {
		return err
	}

	if res := a.call(a.dispatcher.WrappedNative(), amount, data); res.Failed() {
		return fmt.Errorf("wrap of %s failed: %w", amount, res.Err)
	}

	return nil
}

// unwrapNative withdraws the given amount of the wrapped asset back into
// native currency.
func (a *Agent) unwrapNative(amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}

	data, err := wethABI.GetMethod("withdraw").Encode([]interface{}{amount})
	if err != nil {
		return err
	}

	if res := a.call(a.dispatcher.WrappedNative(), nil, data); res.Failed() {
		return fmt.Errorf("unwrap of %s failed: %w", amount, res.Err)
	}

	return nil
}
