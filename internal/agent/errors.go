package agent

import "errors"

// Sentinel errors for orchestration, checked with errors.Is().
var (
	// ErrUnknownTool indicates the model requested a tool name that is not
	// in the connect-time tool set. The call is never dispatched; the turn
	// fails visibly instead.
	ErrUnknownTool = errors.New("model requested unknown tool")

	// ErrNoResponse indicates the model returned no usable candidates.
	ErrNoResponse = errors.New("model returned no response")

	// ErrTurnLimit indicates the tool call/response loop hit the configured
	// turn cap without producing a final text answer.
	ErrTurnLimit = errors.New("tool loop exceeded max turns")
)
