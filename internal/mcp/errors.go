package mcp

import (
	"errors"
	"fmt"
)

// Sentinel errors for session lifecycle violations, checked with errors.Is().
var (
	// ErrNotConnected indicates an operation that requires a ready session
	// was attempted before Connect succeeded or after Close.
	ErrNotConnected = errors.New("tool server session not connected")

	// ErrAlreadyConnected indicates Connect was called on a session that has
	// already been used; a fresh session is required to reconnect.
	ErrAlreadyConnected = errors.New("tool server session already used")
)

// InvocationError reports a failure that the tool itself returned (the server
// executed the call and flagged the result as an error). It is recoverable:
// the orchestrator may feed it back to the model so it can adapt.
//
// Transport- and protocol-level failures are NOT wrapped in InvocationError;
// they propagate as plain errors and abort the current turn.
type InvocationError struct {
	Tool    string
	Message string
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("tool %q failed: %s", e.Tool, e.Message)
}
