package router

import (
	"fmt"
	"math/big"

	"github.com/MussinaLin/protocolink-go/types"
)

const (
	// BpsBase is the basis-points denominator: 10000 = 100%.
	BpsBase = 10000

	// BpsNotUsed selects literal-amount mode for an Input.
	BpsNotUsed = -1

	// OffsetNotUsed means the resolved amount is not written back into the
	// call payload (the target receives it some other way, e.g. as attached
	// native value).
	OffsetNotUsed = -1

	selectorSize = 4
	wordSize     = 32
)

// WrapMode controls native currency handling around one logic step.
type WrapMode uint8

const (
	WrapModeNone WrapMode = iota
	// WrapBefore wraps the summed wrapped-asset input amounts from native
	// currency before the step's call.
	WrapBefore
	// UnwrapAfter unwraps whatever wrapped balance the step's call deposited
	// into the agent back into native currency.
	UnwrapAfter
)

func (m WrapMode) String() string {
	switch m {
	case WrapModeNone:
		return "none"
	case WrapBefore:
		return "wrap-before"
	case UnwrapAfter:
		return "unwrap-after"
	default:
		return fmt.Sprintf("wrap-mode-%d", uint8(m))
	}
}

// Input describes one token amount a logic step consumes.
type Input struct {
	// Token the amount is denominated in; contracts.NativeToken means the
	// native currency.
	Token types.Address

	// BalanceBps is either BpsNotUsed (literal mode) or a share of the live
	// balance in basis points, valid in (0, BpsBase].
	BalanceBps int

	// Amount is the literal amount, read only when BalanceBps == BpsNotUsed.
	Amount *big.Int

	// Offset is the byte offset into the payload argument region where the
	// resolved amount is patched in, or OffsetNotUsed. Only consulted in
	// basis-points mode; literal payloads already carry their amounts.
	Offset int
}

// ResolveAmount turns the Input into a concrete amount given the live
// balance its basis points apply to. balance may be nil in literal mode.
func (in *Input) ResolveAmount(balance *big.Int) (*big.Int, error) {
	if in.BalanceBps == BpsNotUsed {
		if in.Amount == nil {
			return new(big.Int), nil
		}

		return new(big.Int).Set(in.Amount), nil
	}

	if in.BalanceBps <= 0 || in.BalanceBps > BpsBase {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBps, in.BalanceBps)
	}

	if balance == nil {
		balance = new(big.Int)
	}

	amount := new(big.Int).Mul(balance, big.NewInt(int64(in.BalanceBps)))

	return amount.Div(amount, big.NewInt(BpsBase)), nil
}

// Logic is one step of an execution: a target call plus its
// argument-resolution and safety metadata. Immutable once constructed.
type Logic struct {
	// To is the call target.
	To types.Address

	// Data is the call payload: 4-byte selector followed by ABI-encoded
	// arguments. Empty data degrades the step to a plain value transfer.
	Data []byte

	// Inputs are resolved in order before the call.
	Inputs []Input

	WrapMode WrapMode

	// ApproveTo overrides the allowance target; zero defaults to To.
	ApproveTo types.Address

	// Callback, when set, is the single address authorized to re-enter the
	// agent exactly once during this step.
	Callback types.Address
}

func (l *Logic) approvalTarget() types.Address {
	if l.ApproveTo == types.ZeroAddress {
		return l.To
	}

	return l.ApproveTo
}

// patchAmount writes amount as a 32-byte big-endian word into the payload
// argument region at the given byte offset. The offset is relative to the
// first argument word, i.e. payload byte selectorSize+offset.
func patchAmount(data []byte, offset int, amount *big.Int) error {
	if offset < 0 {
		return fmt.Errorf("%w: negative offset %d", ErrInvalidOffset, offset)
	}

	start := selectorSize + offset
	if start+wordSize > len(data) {
		return fmt.Errorf("%w: offset %d exceeds payload of %d bytes", ErrInvalidOffset, offset, len(data))
	}

	amount.FillBytes(data[start : start+wordSize])

	return nil
}

// payloadSelector extracts the 4-byte function selector, ok=false for
// payloads too short to carry one.
func payloadSelector(data []byte) ([4]byte, bool) {
	var sel [4]byte

	if len(data) < selectorSize {
		return sel, false
	}

	copy(sel[:], data[:selectorSize])

	return sel, true
}
