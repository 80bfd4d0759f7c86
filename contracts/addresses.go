package contracts

import (
	"github.com/MussinaLin/protocolink-go/types"
)

// NativeToken is the reserved sentinel address meaning "the native currency"
// wherever a token identifier is expected.
var NativeToken = types.StringToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

// FeeTokenIsCallTarget marks a fee whose token is implicit in the step's call
// target (transferFrom-shaped calls); fee calculators return it instead of a
// concrete token address.
var FeeTokenIsCallTarget = types.StringToAddress("0xFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF")

// NativeFeeSelector is the reserved registry key for the calculator applied
// to the native value attached to a top-level execution. It never collides
// with a real function selector.
var NativeFeeSelector = [4]byte{0xee, 0xee, 0xee, 0xee}
