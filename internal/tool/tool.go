// Package tool holds the registry the agent dispatches model tool calls
// through. Handlers are black boxes: the registry does not validate arguments
// against the declared schema, it only routes by name and normalizes failures
// into *ToolError.
package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownTool      = errors.New("unknown tool")
	ErrInvalidArguments = errors.New("invalid tool arguments")
	ErrToolNameEmpty    = errors.New("tool name is empty")
	ErrNilHandler       = errors.New("tool handler is nil")
	ErrDuplicateTool    = errors.New("tool already registered")
)

// Error codes carried by ToolError.
const (
	CodeUnknownTool    = "UNKNOWN_TOOL"
	CodeArgumentError  = "ARGUMENT_ERROR"
	CodeExecutionError = "EXECUTION_ERROR"
	CodePanic          = "PANIC"
)

// Handler executes one tool call with decoded arguments.
type Handler func(ctx context.Context, args map[string]any) (Result, error)

// Result is a handler's output: either a single text or an ordered list of texts.
type Result struct {
	text  string
	items []string
	list  bool
}

// Text wraps a plain string result.
func Text(s string) Result { return Result{text: s} }

// List wraps an ordered sequence of strings.
func List(items ...string) Result {
	cp := make([]string, len(items))
	copy(cp, items)
	return Result{items: cp, list: true}
}

// IsList reports whether the result is a sequence.
func (r Result) IsList() bool { return r.list }

// Items returns the sequence elements, or the text as a single element.
func (r Result) Items() []string {
	if r.list {
		cp := make([]string, len(r.items))
		copy(cp, r.items)
		return cp
	}
	return []string{r.text}
}

// String renders the result as observation text. Lists are encoded as a JSON array.
func (r Result) String() string {
	if !r.list {
		return r.text
	}
	items := r.items
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items) // []string marshal cannot fail
	return string(b)
}

// ToolError represents a failed dispatch.
type ToolError struct {
	Tool    string `json:"tool"`
	Code    string `json:"code"`
	Message string `json:"message"`
	err     error
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

func (e *ToolError) Unwrap() error { return e.err }
