// Package router implements a callback-aware transaction router: ordered
// external contract calls ("logics") composed into one atomic execution,
// run on behalf of a user by a disposable per-user agent.
//
// The agent resolves call amounts from live balances, manages approvals,
// wraps and unwraps the native asset, enforces a one-shot callback re-entry
// discipline, charges protocol fees, and sweeps residual balances back to
// the user. Execution is single-threaded per agent; isolation between
// in-flight calls comes from the callback-slot protocol, not locks.
package router

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	ethgo "github.com/umbracle/ethgo"

	"github.com/MussinaLin/protocolink-go/contracts"
	"github.com/MussinaLin/protocolink-go/state/runtime"
	"github.com/MussinaLin/protocolink-go/types"
)

// Agent is one user's execution context. It doubles as a runtime contract
// so callback targets can re-enter execute on-chain style.
type Agent struct {
	logger     hclog.Logger
	host       runtime.Host
	dispatcher Dispatcher
	addr       types.Address
	metrics    *Metrics

	initialized bool

	// caller is the callback gate: the single identity allowed to enter
	// execute. Outside of an active step it always equals the dispatcher
	// identity.
	caller types.Address
}

func NewAgent(logger hclog.Logger, host runtime.Host, dispatcher Dispatcher, addr types.Address, metrics *Metrics) *Agent {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Agent{
		logger:     logger.Named("agent").With("agent", addr),
		host:       host,
		dispatcher: dispatcher,
		addr:       addr,
		metrics:    metrics,
	}
}

func (a *Agent) Address() types.Address {
	return a.addr
}

// Initialize establishes the authorized-identity slot. One-shot.
func (a *Agent) Initialize() error {
	if a.initialized {
		return ErrInitialized
	}

	a.initialized = true
	a.caller = a.dispatcher.Address()

	return nil
}

// checkCaller admits only the currently authorized identity. Entering as an
// authorized callback burns the grant: the slot snaps back to the dispatcher
// identity, so a callback gets exactly one re-entry.
func (a *Agent) checkCaller(caller types.Address) error {
	if !a.initialized {
		return ErrNotInitialized
	}

	if caller != a.caller {
		return fmt.Errorf("%w: %s", ErrInvalidCaller, caller)
	}

	if a.caller != a.dispatcher.Address() {
		a.caller = a.dispatcher.Address()
	}

	return nil
}

// Execute runs the logic steps in order, charges the native-value fee once,
// and sweeps the tokensReturn balances to the current user. value is the
// native amount forwarded with this call; it must already sit in the agent's
// balance.
//
// World-state effects unwind through the caller's snapshot on failure; the
// callback slot lives outside the journal and is restored here.
func (a *Agent) Execute(
	caller types.Address,
	value *big.Int,
	logics []Logic,
	tokensReturn []types.Address,
	feeEnabled bool,
) (err error) {
	if err := a.checkCaller(caller); err != nil {
		return err
	}

	defer func() {
		if err != nil {
			a.caller = a.dispatcher.Address()
		}
	}()

	logger := a.logger.With("exec", uuid.NewString())
	logger.Debug("execution started",
		"caller", caller, "steps", len(logics), "value", value, "feeEnabled", feeEnabled)

	for i := range logics {
		if err := a.executeLogic(logger, &logics[i], feeEnabled); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}

	if feeEnabled {
		if err := a.chargeNativeFee(value); err != nil {
			return err
		}
	}

	if err := a.sweep(tokensReturn); err != nil {
		return err
	}

	logger.Debug("execution finished")

	return nil
}

func (a *Agent) executeLogic(logger hclog.Logger, logic *Logic, feeEnabled bool) error {
	// patching must not leak into the caller's Logic
	data := append([]byte{}, logic.Data...)

	var (
		value         = new(big.Int)
		wrappedAmount = new(big.Int)
		wrapped       = a.dispatcher.WrappedNative()
	)

	for i := range logic.Inputs {
		in := &logic.Inputs[i]

		var balance *big.Int

		if in.BalanceBps != BpsNotUsed {
			if logic.WrapMode == WrapBefore && in.Token == wrapped {
				// wrapping happens after resolution, so the base is the
				// agent's native balance
				balance = a.host.GetBalance(a.addr)
			} else {
				balance = a.tokenBalance(in.Token)
			}
		}

		amount, err := in.ResolveAmount(balance)
		if err != nil {
			return err
		}

		if in.BalanceBps != BpsNotUsed && in.Offset != OffsetNotUsed {
			if err := patchAmount(data, in.Offset, amount); err != nil {
				return err
			}
		}

		if logic.WrapMode == WrapBefore && in.Token == wrapped {
			wrappedAmount.Add(wrappedAmount, amount)
		}

		if in.Token == contracts.NativeToken {
			value.Add(value, amount)

			continue
		}

		if approveTo := logic.approvalTarget(); in.Token != approveTo {
			if err := a.ensureApproval(in.Token, approveTo, amount); err != nil {
				return err
			}
		}
	}

	var wrappedBefore *big.Int

	switch logic.WrapMode {
	case WrapBefore:
		if err := a.wrapNative(wrappedAmount); err != nil {
			return err
		}
	case UnwrapAfter:
		wrappedBefore = a.tokenBalance(wrapped)
	}

	if cb := logic.Callback; cb != types.ZeroAddress {
		a.caller = cb
	}

	logger.Debug("dispatching step call",
		"to", logic.To, "value", value, "wrapMode", logic.WrapMode, "callback", logic.Callback)

	if res := a.call(logic.To, value, data); res.Failed() {
		return fmt.Errorf("call to %s failed: %w", logic.To, res.Err)
	}

	// the declared callback must have re-entered exactly once by now
	if a.caller != a.dispatcher.Address() {
		return ErrUnresetCallback
	}

	if logic.WrapMode == UnwrapAfter {
		delta := new(big.Int).Sub(a.tokenBalance(wrapped), wrappedBefore)
		if delta.Sign() > 0 {
			if err := a.unwrapNative(delta); err != nil {
				return err
			}
		}
	}

	if feeEnabled {
		if err := a.chargeFee(logic.To, data); err != nil {
			return err
		}
	}

	a.metrics.observeStep()

	return nil
}

// chargeFee settles the per-step fee: calculators are looked up under the
// payload's leading selector on the dispatcher's registry.
func (a *Agent) chargeFee(to types.Address, data []byte) error {
	selector, ok := payloadSelector(data)
	if !ok {
		return nil
	}

	calc, ok := a.dispatcher.FeeCalculator(selector)
	if !ok {
		return nil
	}

	fees, err := calc.Fees(to, data)
	if err != nil {
		return fmt.Errorf("fee calculation for %s: %w", to, err)
	}

	return a.payFees(fees, to)
}

// chargeNativeFee settles the once-per-execution fee on attached native
// value, under the reserved native selector.
func (a *Agent) chargeNativeFee(value *big.Int) error {
	if value == nil || value.Sign() == 0 {
		return nil
	}

	calc, ok := a.dispatcher.FeeCalculator(contracts.NativeFeeSelector)
	if !ok {
		return nil
	}

	fees, err := calc.Fees(contracts.NativeToken, nativeFeeData(value))
	if err != nil {
		return fmt.Errorf("native fee calculation: %w", err)
	}

	return a.payFees(fees, types.ZeroAddress)
}

func (a *Agent) payFees(fees []Fee, callTarget types.Address) error {
	collector := a.dispatcher.FeeCollector()

	for _, fee := range fees {
		if fee.Amount == nil || fee.Amount.Sign() == 0 {
			continue
		}

		token := fee.Token
		if token == contracts.FeeTokenIsCallTarget {
			token = callTarget
		}

		if err := a.tokenTransfer(token, collector, fee.Amount); err != nil {
			return fmt.Errorf("fee transfer: %w", err)
		}

		a.emitCharged(token, fee.Amount, collector)
		a.metrics.observeFee(token.String(), fee.Amount)
	}

	return nil
}

func (a *Agent) emitCharged(token types.Address, amount *big.Int, collector types.Address) {
	data, err := chargedEvent.Inputs.Encode([]interface{}{
		ethgo.Address(token),
		amount,
		ethgo.Address(collector),
	})
	if err != nil {
		return
	}

	id := chargedEvent.ID()
	a.host.EmitLog(a.addr, []types.Hash{types.BytesToHash(id[:])}, data)
}

// sweep transfers the agent's whole balance of each listed token to the
// current user. Tokens not listed stay in the agent on purpose: multi-call
// compositions accumulate intermediate balances across executions.
func (a *Agent) sweep(tokens []types.Address) error {
	if len(tokens) == 0 {
		return nil
	}

	user := a.dispatcher.CurrentUser()
	if user == types.ZeroAddress {
		return ErrUnknownUser
	}

	for _, token := range tokens {
		balance := a.tokenBalance(token)
		if balance.Sign() == 0 {
			continue
		}

		if err := a.tokenTransfer(token, user, balance); err != nil {
			return fmt.Errorf("sweep of %s: %w", token, err)
		}
	}

	return nil
}

// Run makes the agent addressable as a contract: callback targets re-enter
// by calling ROUTER_EXECUTE at the agent's address.
func (a *Agent) Run(c *runtime.Contract, _ runtime.Host) *runtime.ExecutionResult {
	if len(c.Input) < selectorSize || !bytes.Equal(c.Input[:selectorSize], executeMethod.ID()) {
		return &runtime.ExecutionResult{Err: runtime.ErrInvalidInputData}
	}

	logics, tokensReturn, feeEnabled, err := decodeExecute(c.Input)
	if err != nil {
		return &runtime.ExecutionResult{Err: err}
	}

	if err := a.Execute(c.Caller, c.Value, logics, tokensReturn, feeEnabled); err != nil {
		return &runtime.ExecutionResult{Err: err}
	}

	out, err := executeMethod.Outputs.Encode([]interface{}{true})
	if err != nil {
		return &runtime.ExecutionResult{Err: err}
	}

	return &runtime.ExecutionResult{ReturnValue: out}
}
