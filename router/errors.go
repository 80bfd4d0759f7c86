package router

import "errors"

var (
	// ErrInvalidCaller rejects an execute invocation whose caller does not
	// match the currently authorized identity.
	ErrInvalidCaller = errors.New("invalid caller")

	// ErrInvalidBps rejects basis-points values outside (0, 10000].
	ErrInvalidBps = errors.New("invalid basis points")

	// ErrInvalidOffset rejects payload patch offsets outside the argument
	// region.
	ErrInvalidOffset = errors.New("invalid payload offset")

	// ErrUnresetCallback fires when a step declared a callback but the
	// authorized address never re-entered the agent before the call returned.
	ErrUnresetCallback = errors.New("callback was not reset")

	// ErrInitialized guards the one-time agent setup.
	ErrInitialized = errors.New("agent already initialized")

	// ErrNotInitialized fires when execute is reached before setup.
	ErrNotInitialized = errors.New("agent not initialized")

	// ErrPaused rejects executions while the router is paused.
	ErrPaused = errors.New("router is paused")

	// ErrUnknownUser fires when an execution is requested for the zero user.
	ErrUnknownUser = errors.New("unknown user")
)
