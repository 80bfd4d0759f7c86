package router

import (
	"github.com/MussinaLin/protocolink-go/types"
)

// Dispatcher is what an agent sees of the router that owns it. The agent
// trusts it completely for the duration of a call and only ever reads from
// it.
type Dispatcher interface {
	// Address is the canonical identity the callback slot rests at.
	Address() types.Address

	// WrappedNative is the wrapped-asset token address.
	WrappedNative() types.Address

	// FeeCollector receives charged fees.
	FeeCollector() types.Address

	// CurrentUser is the sweep destination of the execution in flight.
	CurrentUser() types.Address

	// FeeCalculator looks up the calculator registered for a call selector.
	FeeCalculator(selector [4]byte) (FeeCalculator, bool)
}
