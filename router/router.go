package router

import (
	"fmt"
	"math/big"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/MussinaLin/protocolink-go/crypto"
	"github.com/MussinaLin/protocolink-go/state"
	"github.com/MussinaLin/protocolink-go/types"
)

// Config wires a Router to its world state and protocol addresses.
type Config struct {
	Logger        hclog.Logger
	Host          *state.Transition
	Address       types.Address
	WrappedNative types.Address
	FeeCollector  types.Address
	Metrics       *Metrics
}

func (c *Config) validate() error {
	var result *multierror.Error

	if c.Host == nil {
		result = multierror.Append(result, fmt.Errorf("host is required"))
	}

	if c.Address == types.ZeroAddress {
		result = multierror.Append(result, fmt.Errorf("router address is required"))
	}

	if c.WrappedNative == types.ZeroAddress {
		result = multierror.Append(result, fmt.Errorf("wrapped native address is required"))
	}

	if c.FeeCollector == types.ZeroAddress {
		result = multierror.Append(result, fmt.Errorf("fee collector address is required"))
	}

	return result.ErrorOrNil()
}

// Router is the top-level dispatcher: it creates one agent per user, owns
// the fee-calculator registry, and forwards authorized executions. One
// execution is in flight at a time per router; agents of different routers
// share nothing.
type Router struct {
	logger  hclog.Logger
	host    *state.Transition
	addr    types.Address
	wrapped types.Address

	feeCollector types.Address
	calculators  map[[4]byte]FeeCalculator

	agents      map[types.Address]*Agent
	currentUser types.Address
	paused      bool

	metrics *Metrics
}

func NewRouter(cfg Config) (*Router, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("router config: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Router{
		logger:       logger.Named("router"),
		host:         cfg.Host,
		addr:         cfg.Address,
		wrapped:      cfg.WrappedNative,
		feeCollector: cfg.FeeCollector,
		calculators:  map[[4]byte]FeeCalculator{},
		agents:       map[types.Address]*Agent{},
		metrics:      cfg.Metrics,
	}, nil
}

// Dispatcher surface, read by agents.

func (r *Router) Address() types.Address       { return r.addr }
func (r *Router) WrappedNative() types.Address { return r.wrapped }
func (r *Router) FeeCollector() types.Address  { return r.feeCollector }
func (r *Router) CurrentUser() types.Address   { return r.currentUser }

func (r *Router) FeeCalculator(selector [4]byte) (FeeCalculator, bool) {
	calc, ok := r.calculators[selector]

	return calc, ok
}

// SetFeeCalculator registers (or replaces) the calculator for a selector.
func (r *Router) SetFeeCalculator(selector [4]byte, calc FeeCalculator) {
	r.calculators[selector] = calc
}

func (r *Router) Pause()   { r.paused = true }
func (r *Router) Unpause() { r.paused = false }

// AgentFor returns the user's agent, creating, initializing, and deploying
// it on first use. Agent addresses derive deterministically from the router
// and user.
func (r *Router) AgentFor(user types.Address) (*Agent, error) {
	if agent, ok := r.agents[user]; ok {
		return agent, nil
	}

	addr := types.BytesToAddress(crypto.Keccak256(r.addr[:], user[:])[12:])

	agent := NewAgent(r.logger, r.host, r, addr, r.metrics)
	if err := agent.Initialize(); err != nil {
		return nil, err
	}

	r.host.Register(addr, agent)
	r.agents[user] = agent

	r.logger.Info("agent created", "user", user, "agent", addr)

	return agent, nil
}

// Execute runs one top-level call for a user. value is native currency
// pulled from the user's balance and forwarded to the agent. All world-state
// effects are atomic: any failure restores the pre-call snapshot.
func (r *Router) Execute(
	user types.Address,
	logics []Logic,
	tokensReturn []types.Address,
	feeEnabled bool,
	value *big.Int,
) (*types.Receipt, error) {
	if r.paused {
		return nil, ErrPaused
	}

	if user == types.ZeroAddress {
		return nil, ErrUnknownUser
	}

	agent, err := r.AgentFor(user)
	if err != nil {
		return nil, err
	}

	r.currentUser = user
	defer func() { r.currentUser = types.ZeroAddress }()

	txn := r.host.Txn()
	snap := txn.Snapshot()
	logsBefore := len(txn.Logs())

	if value != nil && value.Sign() > 0 {
		if err := r.host.Transfer(user, agent.Address(), value); err != nil {
			txn.DiscardSnapshot(snap)
			r.metrics.observeExecution(false)

			return nil, fmt.Errorf("forwarding native value: %w", err)
		}
	}

	if err := agent.Execute(r.addr, value, logics, tokensReturn, feeEnabled); err != nil {
		if revertErr := txn.RevertToSnapshot(snap); revertErr != nil {
			return nil, revertErr
		}

		r.metrics.observeExecution(false)
		r.logger.Error("execution failed", "user", user, "err", err)

		return nil, err
	}

	txn.DiscardSnapshot(snap)
	r.metrics.observeExecution(true)

	return &types.Receipt{
		Success: true,
		Logs:    append([]*types.Log{}, txn.Logs()[logsBefore:]...),
	}, nil
}
