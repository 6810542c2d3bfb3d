package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chris/rednote/internal/llm"
	"github.com/chris/rednote/internal/tool"
	"github.com/google/uuid"
	"github.com/tidwall/sjson"
)

const DefaultMaxIterations = 5

// Options tune an Agent. Zero values pick the defaults.
type Options struct {
	// MaxIterations caps model invocations per run.
	MaxIterations int
	// CallTimeout bounds each model invocation. Zero means no per-call limit.
	CallTimeout time.Duration
	// SystemPrompt overrides llm.SystemPrompt.
	SystemPrompt string
	Logger       *slog.Logger
}

// Agent drives the model/tool loop. An Agent holds no per-run state and may
// serve concurrent runs.
type Agent struct {
	client        llm.Client
	tools         *tool.Registry
	logger        *slog.Logger
	maxIterations int
	callTimeout   time.Duration
	systemPrompt  string
}

func New(client llm.Client, tools *tool.Registry, opts Options) *Agent {
	a := &Agent{
		client:        client,
		tools:         tools,
		logger:        opts.Logger,
		maxIterations: opts.MaxIterations,
		callTimeout:   opts.CallTimeout,
		systemPrompt:  opts.SystemPrompt,
	}
	if a.tools == nil {
		a.tools = tool.NewRegistry()
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.maxIterations <= 0 {
		a.maxIterations = DefaultMaxIterations
	}
	if a.systemPrompt == "" {
		a.systemPrompt = llm.SystemPrompt
	}
	return a
}

// Task is one generation request.
type Task struct {
	Product string
	Style   string
	// Avoid lists titles already used for this product.
	Avoid []string
	// MaxIterations overrides the agent's budget when positive.
	MaxIterations int
}

// Result is a successful run.
type Result struct {
	RunID    string
	Artifact Artifact
	Rounds   int
	Messages []llm.Message
}

// Run seeds a conversation with the system directive and the task, then
// alternates model invocations and tool dispatch until a structured artifact
// is parsed. Failures are *RunError wrapping ErrTransportFault or
// ErrBudgetExhausted.
func (a *Agent) Run(ctx context.Context, task Task) (*Result, error) {
	runID := uuid.NewString()
	log := a.logger.With("run_id", runID, "product", task.Product)

	budget := task.MaxIterations
	if budget <= 0 {
		budget = a.maxIterations
	}

	conv := NewConversation(
		llm.Message{Role: llm.RoleSystem, Content: a.systemPrompt},
		llm.Message{Role: llm.RoleUser, Content: llm.UserPrompt(task.Product, task.Style, task.Avoid)},
	)
	tools := a.tools.Definitions()
	toolTokens := llm.EstimateToolsTokens(tools)

	fail := func(state State, rounds int, err error) (*Result, error) {
		log.Warn("agent.finished", "state", state, "rounds", rounds, "err", err)
		return nil, &RunError{RunID: runID, State: state, Rounds: rounds, Messages: conv.Snapshot(), Err: err}
	}

	state := StateAwaitingModel
	for round := 1; ; round++ {
		if err := conv.Validate(); err != nil {
			return fail(StateFaulted, round-1, err)
		}
		snapshot := conv.Snapshot()
		log.Info("agent.round", "round", round, "budget", budget, "messages", len(snapshot),
			"est_tokens", llm.EstimateMessagesTokens(snapshot)+toolTokens)

		resp, err := a.invoke(ctx, snapshot, tools)
		if err != nil {
			return fail(StateFaulted, round, fmt.Errorf("%w: %w", ErrTransportFault, err))
		}

		switch reply := resp.Reply().(type) {
		case llm.ToolCallBatch:
			state = StateHandlingToolCalls
			calls := assignCallIDs(reply.Calls)
			if reply.Content != "" {
				log.Info("agent.thought", "round", round, "text", truncate(reply.Content, 200))
			}
			conv.Append(llm.Message{Role: llm.RoleAssistant, Content: reply.Content, ToolCalls: calls})
			for _, m := range a.observe(ctx, log, calls) {
				conv.Append(m)
			}
			// Cancellation mid-batch is a fault, not a spent budget.
			if err := ctx.Err(); err != nil {
				return fail(StateFaulted, round, fmt.Errorf("%w: %w", ErrTransportFault, err))
			}

		case llm.TextReply:
			state = StateHandlingText
			artifact, perr := ParseArtifact(reply.Text)
			conv.Append(llm.Message{Role: llm.RoleAssistant, Content: reply.Text})
			if perr == nil {
				state = StateDone
				log.Info("agent.finished", "state", state, "rounds", round, "title", artifact.Title)
				return &Result{RunID: runID, Artifact: artifact, Rounds: round, Messages: conv.Snapshot()}, nil
			}
			log.Info("agent.thought", "round", round, "text", truncate(reply.Text, 200), "parse", perr)

		default:
			return fail(StateFaulted, round, fmt.Errorf("%w: %w", ErrTransportFault, ErrEmptyReply))
		}

		if round >= budget {
			return fail(StateExhausted, round, fmt.Errorf("%w: no artifact after %d round(s)", ErrBudgetExhausted, round))
		}
		log.Debug("agent.transition", "from", state, "to", StateAwaitingModel)
		state = StateAwaitingModel
	}
}

func (a *Agent) invoke(ctx context.Context, messages []llm.Message, tools []llm.Tool) (*llm.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.callTimeout)
		defer cancel()
	}
	return a.client.Chat(ctx, messages, tools)
}

// observe resolves every call of a batch in order and returns one tool
// message per call. Nothing here aborts the run: argument and dispatch
// failures become error observations.
func (a *Agent) observe(ctx context.Context, log *slog.Logger, calls []llm.ToolCall) []llm.Message {
	out := make([]llm.Message, 0, len(calls))
	for _, tc := range calls {
		start := time.Now()
		content, err := a.dispatch(ctx, tc)
		log.Info("agent.action", "tool", tc.Name, "call_id", tc.ID, "args", truncate(tc.Arguments, 200),
			"duration", time.Since(start), "ok", err == nil)
		if err != nil {
			log.Warn("agent.observation", "tool", tc.Name, "err", err)
		} else {
			log.Info("agent.observation", "tool", tc.Name, "result", truncate(content, 200))
		}
		out = append(out, llm.Message{Role: llm.RoleTool, Content: content, ToolCallID: tc.ID})
	}
	return out
}

// dispatch returns the observation text for one call. The error is only for
// logging; its text is already folded into the observation.
func (a *Agent) dispatch(ctx context.Context, tc llm.ToolCall) (string, error) {
	args, err := decodeArguments(tc.Arguments)
	if err != nil {
		return errorObservation(tc.Name, "ARGUMENT_ERROR", err), err
	}
	res, err := a.tools.Dispatch(ctx, tc.Name, args)
	if err != nil {
		code := tool.CodeExecutionError
		var te *tool.ToolError
		if errors.As(err, &te) {
			code = te.Code
		}
		return errorObservation(tc.Name, code, err), err
	}
	return res.String(), nil
}

// decodeArguments parses a call's raw arguments. Blank input is an empty
// record; anything other than a JSON object is rejected.
func decodeArguments(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrToolArguments, err)
	}
	if args == nil {
		return nil, fmt.Errorf("%w: got null", ErrToolArguments)
	}
	return args, nil
}

func errorObservation(toolName, code string, err error) string {
	out, _ := sjson.Set(`{}`, "error", err.Error())
	out, _ = sjson.Set(out, "code", code)
	out, _ = sjson.Set(out, "tool", toolName)
	return out
}

// assignCallIDs returns a copy of calls where every id is non-empty and
// unique within the batch.
func assignCallIDs(calls []llm.ToolCall) []llm.ToolCall {
	out := make([]llm.ToolCall, len(calls))
	seen := make(map[string]bool, len(calls))
	for i, tc := range calls {
		if tc.ID == "" || seen[tc.ID] {
			tc.ID = "call_" + uuid.NewString()
		}
		seen[tc.ID] = true
		out[i] = tc
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
