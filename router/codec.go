package router

import (
	"fmt"
	"math/big"

	ethgo "github.com/umbracle/ethgo"

	"github.com/MussinaLin/protocolink-go/state/runtime"
	"github.com/MussinaLin/protocolink-go/types"
)

// On the wire both sentinels are the max uint256, the value no real basis
// points or payload offset can take.
var wireSentinel = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// EncodeExecute builds ROUTER_EXECUTE calldata. Callback contracts use it to
// re-enter the agent during a step.
func EncodeExecute(logics []Logic, tokensReturn []types.Address, feeEnabled bool) ([]byte, error) {
	wireLogics := make([]map[string]interface{}, len(logics))

	for i := range logics {
		logic := &logics[i]

		wireInputs := make([]map[string]interface{}, len(logic.Inputs))

		for j := range logic.Inputs {
			in := &logic.Inputs[j]

			balanceBps := wireSentinel
			amountOrOffset := new(big.Int)

			if in.BalanceBps == BpsNotUsed {
				if in.Amount != nil {
					amountOrOffset = in.Amount
				}
			} else {
				if in.BalanceBps < 0 {
					return nil, fmt.Errorf("%w: %d", ErrInvalidBps, in.BalanceBps)
				}

				balanceBps = big.NewInt(int64(in.BalanceBps))

				if in.Offset == OffsetNotUsed {
					amountOrOffset = wireSentinel
				} else if in.Offset < 0 {
					return nil, fmt.Errorf("%w: %d", ErrInvalidOffset, in.Offset)
				} else {
					amountOrOffset = big.NewInt(int64(in.Offset))
				}
			}

			wireInputs[j] = map[string]interface{}{
				"token":          ethgo.Address(in.Token),
				"balanceBps":     balanceBps,
				"amountOrOffset": amountOrOffset,
			}
		}

		wireLogics[i] = map[string]interface{}{
			"to":        ethgo.Address(logic.To),
			"data":      logic.Data,
			"inputs":    wireInputs,
			"wrapMode":  uint8(logic.WrapMode),
			"approveTo": ethgo.Address(logic.ApproveTo),
			"callback":  ethgo.Address(logic.Callback),
		}
	}

	wireTokens := make([]ethgo.Address, len(tokensReturn))
	for i, t := range tokensReturn {
		wireTokens[i] = ethgo.Address(t)
	}

	return executeMethod.Encode(map[string]interface{}{
		"logics":       wireLogics,
		"tokensReturn": wireTokens,
		"feeEnabled":   feeEnabled,
	})
}

func decodeExecute(input []byte) ([]Logic, []types.Address, bool, error) {
	vals, err := executeMethod.Inputs.Decode(input[selectorSize:])
	if err != nil {
		return nil, nil, false, runtime.ErrInvalidInputData
	}

	args, ok := vals.(map[string]interface{})
	if !ok {
		return nil, nil, false, runtime.ErrInvalidInputData
	}

	wireLogics, ok := args["logics"].([]map[string]interface{})
	if !ok {
		return nil, nil, false, runtime.ErrInvalidInputData
	}

	logics := make([]Logic, len(wireLogics))

	for i, wl := range wireLogics {
		logic, err := decodeLogic(wl)
		if err != nil {
			return nil, nil, false, err
		}

		logics[i] = logic
	}

	wireTokens, ok := args["tokensReturn"].([]ethgo.Address)
	if !ok {
		return nil, nil, false, runtime.ErrInvalidInputData
	}

	tokensReturn := make([]types.Address, len(wireTokens))
	for i, t := range wireTokens {
		tokensReturn[i] = types.Address(t)
	}

	feeEnabled, ok := args["feeEnabled"].(bool)
	if !ok {
		return nil, nil, false, runtime.ErrInvalidInputData
	}

	return logics, tokensReturn, feeEnabled, nil
}

func decodeLogic(wl map[string]interface{}) (Logic, error) {
	wireInputs, ok := wl["inputs"].([]map[string]interface{})
	if !ok {
		return Logic{}, runtime.ErrInvalidInputData
	}

	inputs := make([]Input, len(wireInputs))

	for i, wi := range wireInputs {
		in, err := decodeInput(wi)
		if err != nil {
			return Logic{}, err
		}

		inputs[i] = in
	}

	return Logic{
		To:        types.Address(wl["to"].(ethgo.Address)),
		Data:      wl["data"].([]byte),
		Inputs:    inputs,
		WrapMode:  WrapMode(wl["wrapMode"].(uint8)),
		ApproveTo: types.Address(wl["approveTo"].(ethgo.Address)),
		Callback:  types.Address(wl["callback"].(ethgo.Address)),
	}, nil
}

func decodeInput(wi map[string]interface{}) (Input, error) {
	balanceBps := wi["balanceBps"].(*big.Int)
	amountOrOffset := wi["amountOrOffset"].(*big.Int)

	in := Input{
		Token: types.Address(wi["token"].(ethgo.Address)),
	}

	if balanceBps.Cmp(wireSentinel) == 0 {
		in.BalanceBps = BpsNotUsed
		in.Amount = amountOrOffset
		in.Offset = OffsetNotUsed

		return in, nil
	}

	// range validation happens at resolution; the decoder only guards
	// against values no int can hold
	if !balanceBps.IsInt64() {
		return Input{}, fmt.Errorf("%w: %s", ErrInvalidBps, balanceBps)
	}

	in.BalanceBps = int(balanceBps.Int64())

	if amountOrOffset.Cmp(wireSentinel) == 0 {
		in.Offset = OffsetNotUsed
	} else {
		if !amountOrOffset.IsInt64() {
			return Input{}, fmt.Errorf("%w: %s", ErrInvalidOffset, amountOrOffset)
		}

		in.Offset = int(amountOrOffset.Int64())
	}

	return in, nil
}
