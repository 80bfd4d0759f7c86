package router

import (
	"fmt"
	"math/big"

	ethgo "github.com/umbracle/ethgo"

	"github.com/MussinaLin/protocolink-go/state/runtime"
	"github.com/MussinaLin/protocolink-go/types"
)

// maxUint256 is the approve-to-maximum amount; tokens commonly treat it as an
// infinite allowance.
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// ensureApproval guarantees allowance(agent -> spender) >= amount before a
// call. An already-sufficient allowance short-circuits without an approve
// call; otherwise the allowance is raised to the maximum.
func (a *Agent) ensureApproval(token, spender types.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}

	if a.tokenAllowance(token, spender).Cmp(amount) >= 0 {
		return nil
	}

	return a.approveWithFallback(token, spender, maxUint256)
}

// approveExact sets allowance(agent -> spender) to exactly the given amount,
// tolerating tokens that reject nonzero -> nonzero approval changes.
func (a *Agent) approveExact(token, spender types.Address, amount *big.Int) error {
	return a.approveWithFallback(token, spender, amount)
}

// revokeApproval tears an allowance down to exactly zero.
func (a *Agent) revokeApproval(token, spender types.Address) error {
	return a.approveWithFallback(token, spender, new(big.Int))
}

// approveWithFallback is the two-phase approve: attempt the target amount,
// and when the token rejects it, reset the allowance to zero and retry once.
// Non-standard tokens (USDT-shaped) revert on nonzero -> nonzero changes,
// which is the only failure this recovers from; a second failure propagates.
func (a *Agent) approveWithFallback(token, spender types.Address, amount *big.Int) error {
	if res := a.approve(token, spender, amount); res.Succeeded() {
		return nil
	}

	if res := a.approve(token, spender, new(big.Int)); res.Failed() {
		return fmt.Errorf("approval reset on %s failed: %w", token, res.Err)
	}

	if res := a.approve(token, spender, amount); res.Failed() {
		return fmt.Errorf("approval on %s failed after reset: %w", token, res.Err)
	}

	return nil
}

// approve issues a single approve call. No return-data validation happens
// beyond the revert signal: legacy tokens do not uniformly return booleans.
func (a *Agent) approve(token, spender types.Address, amount *big.Int) *runtime.ExecutionResult {
	data, err := erc20ABI.GetMethod("approve").Encode([]interface{}{
		ethgo.Address(spender),
		amount,
	})
	if err != nil {
		return &runtime.ExecutionResult{Err: err}
	}

	return a.call(token, nil, data)
}
