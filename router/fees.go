package router

import (
	"math/big"

	"github.com/MussinaLin/protocolink-go/types"
)

// Fee is one protocol fee computed by a calculator: an amount of a token the
// agent owes the fee collector.
type Fee struct {
	// Token the fee is denominated in. contracts.FeeTokenIsCallTarget is
	// reinterpreted as the step's call target for transferFrom-shaped calls
	// whose token is the target itself.
	Token types.Address

	Amount *big.Int
}

// FeeCalculator computes the fees owed for one call. Implementations are
// registered per 4-byte selector on the dispatcher and are never mutated by
// the engine.
//
// For the reserved native-value selector, data is the 32-byte big-endian
// encoding of the total native value attached to the execution.
type FeeCalculator interface {
	Fees(to types.Address, data []byte) ([]Fee, error)
}

// FeeCalculatorFunc adapts a function to the FeeCalculator interface.
type FeeCalculatorFunc func(to types.Address, data []byte) ([]Fee, error)

func (f FeeCalculatorFunc) Fees(to types.Address, data []byte) ([]Fee, error) {
	return f(to, data)
}

// nativeFeeData encodes an attached native value the way native fee
// calculators receive it.
func nativeFeeData(value *big.Int) []byte {
	var buf [32]byte

	if value != nil {
		value.FillBytes(buf[:])
	}

	return buf[:]
}
