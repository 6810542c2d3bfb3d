package agent

import (
	"errors"
	"fmt"

	"github.com/chris/rednote/internal/llm"
)

var (
	// ErrTransportFault means the model invocation could not be completed.
	ErrTransportFault = errors.New("model transport fault")
	// ErrBudgetExhausted means the round budget ran out before an artifact was parsed.
	ErrBudgetExhausted = errors.New("iteration budget exhausted")
	// ErrEmptyReply is a protocol violation: no tool calls and no text.
	ErrEmptyReply = errors.New("model reply has neither tool calls nor text")
	// ErrNotYetStructured is returned by ParseArtifact when no record can be extracted.
	ErrNotYetStructured = errors.New("reply is not yet structured")
	// ErrToolArguments marks tool call arguments that are not a JSON object.
	ErrToolArguments = errors.New("tool arguments are not a JSON object")
	// ErrOrphanedToolCall means the conversation would be sent with an unanswered tool call.
	ErrOrphanedToolCall = errors.New("conversation has an orphaned tool call")
)

// State is a position in the agent loop.
type State int

const (
	StateAwaitingModel State = iota
	StateHandlingToolCalls
	StateHandlingText
	StateDone
	StateExhausted
	StateFaulted
)

func (s State) String() string {
	switch s {
	case StateAwaitingModel:
		return "AWAITING_MODEL"
	case StateHandlingToolCalls:
		return "HANDLING_TOOL_CALLS"
	case StateHandlingText:
		return "HANDLING_TEXT"
	case StateDone:
		return "DONE"
	case StateExhausted:
		return "EXHAUSTED"
	case StateFaulted:
		return "FAULTED"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateExhausted || s == StateFaulted
}

// RunError is returned when a run ends in EXHAUSTED or FAULTED. Messages is
// the conversation as it stood at termination.
type RunError struct {
	RunID    string
	State    State
	Rounds   int
	Messages []llm.Message
	Err      error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("agent run %s %s after %d round(s): %v", e.RunID, e.State, e.Rounds, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }
