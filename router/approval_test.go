package router

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MussinaLin/protocolink-go/state/runtime/token"
)

func TestEnsureApprovalRaisesToMax(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	agent := env.agent(addrUser)

	require.NoError(t, agent.ensureApproval(addrTokenA, addrPuller, big.NewInt(100)))
	assert.Zero(t, env.allowance(addrTokenA, agent.Address(), addrPuller).Cmp(token.MaxUint256))
}

func TestEnsureApprovalShortCircuits(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	agent := env.agent(addrUser)

	// the strict token rejects nonzero -> nonzero approve calls, so a second
	// ensureApproval can only pass by not approving again
	require.NoError(t, agent.ensureApproval(addrStrict, addrPuller, big.NewInt(100)))
	require.NoError(t, agent.ensureApproval(addrStrict, addrPuller, big.NewInt(5000)))

	assert.Zero(t, env.allowance(addrStrict, agent.Address(), addrPuller).Cmp(token.MaxUint256))
}

func TestEnsureApprovalZeroAmountIsNoop(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	agent := env.agent(addrUser)

	require.NoError(t, agent.ensureApproval(addrTokenA, addrPuller, nil))
	require.NoError(t, agent.ensureApproval(addrTokenA, addrPuller, new(big.Int)))

	assert.Zero(t, env.allowance(addrTokenA, agent.Address(), addrPuller).Sign())
}

func TestApproveExactResetsStrictTokens(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	agent := env.agent(addrUser)

	// nonzero -> nonzero forces the zero-then-retry fallback
	require.NoError(t, agent.approveExact(addrStrict, addrPuller, big.NewInt(100)))
	require.NoError(t, agent.approveExact(addrStrict, addrPuller, big.NewInt(200)))

	assert.Equal(t, int64(200), env.allowance(addrStrict, agent.Address(), addrPuller).Int64())
}

func TestRevokeApproval(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	agent := env.agent(addrUser)

	require.NoError(t, agent.approveExact(addrStrict, addrPuller, big.NewInt(100)))
	require.NoError(t, agent.revokeApproval(addrStrict, addrPuller))

	assert.Zero(t, env.allowance(addrStrict, agent.Address(), addrPuller).Sign())
}
