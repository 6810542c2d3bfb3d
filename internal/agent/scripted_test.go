package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/chris/rednote/internal/llm"
)

// step is one scripted model turn.
type step struct {
	resp *llm.Response
	err  error
}

// scriptedClient replays a fixed sequence of model turns and records every
// request it receives.
type scriptedClient struct {
	mu       sync.Mutex
	steps    []step
	index    int
	requests [][]llm.Message
	tools    [][]llm.Tool
}

func newScriptedClient(steps ...step) *scriptedClient {
	cloned := make([]step, len(steps))
	copy(cloned, steps)
	return &scriptedClient{steps: cloned}
}

var _ llm.Client = (*scriptedClient)(nil)

func (c *scriptedClient) Chat(ctx context.Context, messages []llm.Message, tools []llm.Tool) (*llm.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requests = append(c.requests, messages)
	c.tools = append(c.tools, tools)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.index >= len(c.steps) {
		return nil, fmt.Errorf("script exhausted at step %d", c.index+1)
	}
	current := c.steps[c.index]
	c.index++
	return current.resp, current.err
}

func (c *scriptedClient) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

func textStep(s string) step {
	return step{resp: &llm.Response{Content: s}}
}

func toolStep(calls ...llm.ToolCall) step {
	return step{resp: &llm.Response{ToolCalls: calls}}
}
