package tool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chris/rednote/internal/llm"
)

type entry struct {
	def     llm.Tool
	handler Handler
}

// Registry maps tool names to handlers and their declared schemas. It is
// safe for concurrent use; handlers must carry no shared mutable state for
// concurrent runs to stay independent.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]entry
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]entry)}
}

// Register adds a tool. Names must be unique.
func (r *Registry) Register(name, description string, schema map[string]any, handler Handler) error {
	if name == "" {
		return ErrToolNameEmpty
	}
	if handler == nil {
		return fmt.Errorf("%w: %q", ErrNilHandler, name)
	}
	if schema == nil {
		schema = Object(nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateTool, name)
	}
	r.tools[name] = entry{
		def:     llm.Tool{Name: name, Description: description, Parameters: schema},
		handler: handler,
	}
	r.order = append(r.order, name)
	return nil
}

// Definitions returns the declared schemas in registration order.
func (r *Registry) Definitions() []llm.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]llm.Tool, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].def)
	}
	return defs
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// Dispatch runs the named tool. Every failure, including a handler panic, is
// returned as *ToolError; unknown names wrap ErrUnknownTool.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) (res Result, err error) {
	r.mu.RLock()
	e, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return Result{}, &ToolError{
			Tool:    name,
			Code:    CodeUnknownTool,
			Message: fmt.Sprintf("unknown tool '%s'", name),
			err:     ErrUnknownTool,
		}
	}
	if args == nil {
		args = map[string]any{}
	}

	defer func() {
		if p := recover(); p != nil {
			res = Result{}
			err = &ToolError{Tool: name, Code: CodePanic, Message: fmt.Sprint(p)}
		}
	}()

	res, err = e.handler(ctx, args)
	if err == nil {
		return res, nil
	}

	var te *ToolError
	if errors.As(err, &te) {
		return Result{}, te
	}
	code := CodeExecutionError
	if errors.Is(err, ErrInvalidArguments) {
		code = CodeArgumentError
	}
	return Result{}, &ToolError{Tool: name, Code: code, Message: err.Error(), err: err}
}
