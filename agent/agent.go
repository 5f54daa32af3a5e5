// Package agent implements the language model agent: an immutable
// configuration bundle (name, instructions, model, tools) with a single Run
// capability. There is no agent hierarchy; one concrete type parameterized by
// configuration covers every agent in the pipeline.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/finassist/finassist/logging"
	"github.com/finassist/finassist/model"
	"github.com/finassist/finassist/tool"
)

// InvocationError wraps any failure of an agent run: the model call failed or
// timed out, or a tool handler raised unexpectedly. It is caught at the
// pipeline boundary, never surfaced to the end user.
type InvocationError struct {
	Agent string
	Err   error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("agent %s invocation failed: %v", e.Agent, e.Err)
}

// Unwrap returns the underlying cause.
func (e *InvocationError) Unwrap() error { return e.Err }

// Options configures an Agent instance.
//
// Use functional options with New to override defaults.
type Options struct {
	// Tools the model may call during a run, in declaration order.
	Tools []tool.Tool
	// MaxToolRounds bounds how many tool-call round trips a single run may
	// make before it is treated as a failed invocation.
	MaxToolRounds int
	// Logger receives per-run and per-tool-call log entries.
	Logger logging.Logger
}

// Agent is a configured language model call target. Configuration is fixed at
// construction and shared read-only across requests, so an Agent is safe for
// concurrent use.
type Agent struct {
	name          string
	instructions  string
	llm           model.Model
	tools         map[string]tool.Tool
	toolDefs      []model.ToolDefinition
	maxToolRounds int
	logger        logging.Logger
}

// New creates an agent with the given name, system instructions and model.
func New(name, instructions string, llm model.Model, optFns ...func(o *Options)) *Agent {
	opts := Options{
		MaxToolRounds: 5,
		Logger:        logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	tools := make(map[string]tool.Tool, len(opts.Tools))
	toolDefs := make([]model.ToolDefinition, 0, len(opts.Tools))
	for _, t := range opts.Tools {
		tools[t.Name()] = t
		toolDefs = append(toolDefs, model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}

	return &Agent{
		name:          name,
		instructions:  instructions,
		llm:           llm,
		tools:         tools,
		toolDefs:      toolDefs,
		maxToolRounds: opts.MaxToolRounds,
		logger:        opts.Logger,
	}
}

// Name returns the agent's name, used only as a trace label.
func (a *Agent) Name() string { return a.name }

// Instructions returns the agent's immutable system prompt.
func (a *Agent) Instructions() string { return a.instructions }

// Run produces exactly one final text output for the given input, invoking
// zero or more of the agent's declared tools along the way. Failures are
// wrapped in *InvocationError; retry policy is a caller concern.
func (a *Agent) Run(ctx context.Context, input string) (string, error) {
	messages := []model.Message{{Role: model.RoleUser, Text: input}}

	for round := 0; round <= a.maxToolRounds; round++ {
		resp, err := a.llm.Generate(ctx, model.Request{
			Instructions: a.instructions,
			Messages:     messages,
			Tools:        a.toolDefs,
		})
		if err != nil {
			return "", &InvocationError{Agent: a.name, Err: err}
		}

		if len(resp.ToolCalls) == 0 {
			a.logger.Debug("agent.run.done", "agent", a.name, "rounds", round)
			return resp.Text, nil
		}

		messages = append(messages, model.Message{
			Role:      model.RoleAssistant,
			Text:      resp.Text,
			ToolCalls: resp.ToolCalls,
		})

		for _, tc := range resp.ToolCalls {
			result, err := a.callTool(ctx, tc)
			if err != nil {
				return "", &InvocationError{Agent: a.name, Err: err}
			}
			messages = append(messages, model.Message{
				Role:       model.RoleTool,
				Text:       result,
				ToolCallID: tc.ID,
			})
		}
	}

	return "", &InvocationError{
		Agent: a.name,
		Err:   fmt.Errorf("exceeded max tool rounds: %d", a.maxToolRounds),
	}
}

// callTool resolves and executes a single requested tool call. Malformed
// input (unknown tool, bad JSON, schema violation) is recovered into a
// descriptive result string fed back to the model; genuine execution failures
// propagate and abort the run.
func (a *Agent) callTool(ctx context.Context, tc model.ToolCall) (string, error) {
	t, ok := a.tools[tc.Name]
	if !ok {
		a.logger.Warn("agent.tool.unknown", "agent", a.name, "tool", tc.Name)
		return fmt.Sprintf("Unknown tool %q.", tc.Name), nil
	}

	args := map[string]any{}
	if tc.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil {
			a.logger.Warn("agent.tool.bad_input", "agent", a.name, "tool", tc.Name, "error", err.Error())
			return "Invalid input format. Please pass JSON matching the tool schema.", nil
		}
	}

	result, err := t.Call(ctx, args)
	if err != nil {
		var toolErr *tool.ToolError
		if errors.As(err, &toolErr) && toolErr.Code == tool.CodeValidation {
			return toolErr.Message, nil
		}
		return "", err
	}
	return result, nil
}
