package token

import (
	"bytes"
	"math/big"

	ethabi "github.com/umbracle/ethgo/abi"

	"github.com/MussinaLin/protocolink-go/contracts/routerabi"
	"github.com/MussinaLin/protocolink-go/state/runtime"
	"github.com/MussinaLin/protocolink-go/types"
)

var wethABI = ethabi.MustNewABI(routerabi.WETHABI)

// WETH wraps native currency as an ERC-20 (WETH9 shaped): deposit mints
// against attached value, withdraw burns and pays native back out.
type WETH struct {
	*ERC20
}

func NewWETH(addr types.Address) *WETH {
	return &WETH{ERC20: NewERC20(addr)}
}

func (w *WETH) Run(c *runtime.Contract, host runtime.Host) *runtime.ExecutionResult {
	// deposit() is also the receive() path: plain value transfers wrap.
	if len(c.Input) == 0 {
		w.deposit(host, c)

		return &runtime.ExecutionResult{}
	}

	if len(c.Input) < 4 {
		return &runtime.ExecutionResult{Err: runtime.ErrInvalidInputData}
	}

	selector := c.Input[:4]

	switch {
	case bytes.Equal(selector, wethABI.GetMethod("deposit").ID()):
		w.deposit(host, c)

		return &runtime.ExecutionResult{}

	case bytes.Equal(selector, wethABI.GetMethod("withdraw").ID()):
		args, err := decodeArgs(wethABI.GetMethod("withdraw"), c.Input)
		if err != nil {
			return &runtime.ExecutionResult{Err: err}
		}

		amount := args["amount"].(*big.Int)

		if err := w.burn(host, c.Caller, amount); err != nil {
			return &runtime.ExecutionResult{Err: err}
		}

		if err := host.Transfer(w.addr, c.Caller, amount); err != nil {
			return &runtime.ExecutionResult{Err: err}
		}

		return &runtime.ExecutionResult{}

	default:
		return w.ERC20.Run(c, host)
	}
}

func (w *WETH) deposit(host runtime.Host, c *runtime.Contract) {
	value := c.Value
	if value == nil {
		value = new(big.Int)
	}

	// the host already moved the attached value to the token address
	w.mint(host, c.Caller, value)
}
