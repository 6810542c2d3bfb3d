package agent

import (
	"fmt"

	"github.com/chris/rednote/internal/llm"
)

// Conversation is the ordered message log of one run. Messages are only ever
// appended; earlier entries are never rewritten. It is owned by a single run
// and not safe for concurrent use.
type Conversation struct {
	messages []llm.Message
}

func NewConversation(seed ...llm.Message) *Conversation {
	c := &Conversation{}
	for _, m := range seed {
		c.Append(m)
	}
	return c
}

// Append adds m to the end of the log. The message's tool calls are copied so
// later changes by the caller do not leak in.
func (c *Conversation) Append(m llm.Message) {
	c.messages = append(c.messages, cloneMessage(m))
}

// Snapshot returns a copy of the full ordered log.
func (c *Conversation) Snapshot() []llm.Message {
	out := make([]llm.Message, len(c.messages))
	for i, m := range c.messages {
		out[i] = cloneMessage(m)
	}
	return out
}

func (c *Conversation) Len() int { return len(c.messages) }

// Validate checks tool pairing: every tool message answers exactly one
// unanswered call from the closest preceding assistant turn, and no call is
// left unanswered.
func (c *Conversation) Validate() error {
	return validatePairing(c.messages)
}

func validatePairing(messages []llm.Message) error {
	pending := map[string]bool{}
	for i, m := range messages {
		switch {
		case m.Role == llm.RoleTool:
			if !pending[m.ToolCallID] {
				return fmt.Errorf("message %d answers unknown tool call %q", i, m.ToolCallID)
			}
			delete(pending, m.ToolCallID)
		default:
			if len(pending) > 0 {
				return fmt.Errorf("%w: %d call(s) unanswered before message %d", ErrOrphanedToolCall, len(pending), i)
			}
			for _, tc := range m.ToolCalls {
				if pending[tc.ID] {
					return fmt.Errorf("message %d repeats tool call id %q", i, tc.ID)
				}
				pending[tc.ID] = true
			}
		}
	}
	if len(pending) > 0 {
		return fmt.Errorf("%w: %d call(s) unanswered", ErrOrphanedToolCall, len(pending))
	}
	return nil
}

func cloneMessage(m llm.Message) llm.Message {
	if m.ToolCalls != nil {
		calls := make([]llm.ToolCall, len(m.ToolCalls))
		copy(calls, m.ToolCalls)
		m.ToolCalls = calls
	}
	return m
}
