package llm

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

type Message struct {
	Role       string     `json:"role"` // system, user, assistant, tool
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"` // for tool result messages
}

// ToolCall is a model request to run a named tool. Arguments is the raw JSON
// text as emitted by the model; decoding it is the caller's job.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// Response is what a provider returned for one invocation, before
// classification. Use Reply to get the shape the agent acts on.
type Response struct {
	Content   string
	ToolCalls []ToolCall
}

// Reply is one of ToolCallBatch, TextReply or EmptyReply.
type Reply interface {
	isReply()
}

// ToolCallBatch is a reply requesting one or more tool executions. Content
// carries any text the model sent alongside the calls.
type ToolCallBatch struct {
	Content string
	Calls   []ToolCall
}

// TextReply is a reply with free text and no tool calls.
type TextReply struct {
	Text string
}

// EmptyReply is a reply with neither tool calls nor text.
type EmptyReply struct{}

func (ToolCallBatch) isReply() {}
func (TextReply) isReply()     {}
func (EmptyReply) isReply()    {}

// Reply classifies the response. Tool calls take precedence over text.
func (r *Response) Reply() Reply {
	if r == nil {
		return EmptyReply{}
	}
	if len(r.ToolCalls) > 0 {
		return ToolCallBatch{Content: r.Content, Calls: r.ToolCalls}
	}
	if r.Content != "" {
		return TextReply{Text: r.Content}
	}
	return EmptyReply{}
}

// Client invokes a chat model. Messages include the system message; tools are
// offered with the model free to choose between calling them and answering.
type Client interface {
	Chat(ctx context.Context, messages []Message, tools []Tool) (*Response, error)
}
