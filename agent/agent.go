// Package agent implements the model-backed agent: a named persona bound to a
// set of tools and an instruction string. The agent drives a sequential
// function-calling loop against its model and returns narrative text plus the
// structured payload of the last executed tool.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/logging"
	"github.com/hupe1980/agentgate/model"
	"github.com/hupe1980/agentgate/observability"
	"github.com/hupe1980/agentgate/tool"
)

// Options configures a ModelAgent instance.
//
// Use functional options with New to override defaults.
type Options struct {
	// Instruction is the persona system prompt passed to the model.
	Instruction string
	// MaxToolIterations bounds the generate → execute-tool cycles per query,
	// guarding against a model that keeps requesting calls.
	MaxToolIterations int
	// MaxHistoryMessages bounds how many prior conversation turns are
	// included in the model context.
	MaxHistoryMessages int
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// ModelAgent integrates a language model with registered tools to answer one
// query per Respond call. It decides per query whether and which bound tool
// to invoke, delegated to the model's function-calling capability, then asks
// the model to summarize the tool output. A ModelAgent has no mutable state
// after construction and is safe for concurrent use.
type ModelAgent struct {
	name               string
	instruction        string
	llm                model.Model
	tools              map[string]tool.Tool
	maxToolIterations  int
	maxHistoryMessages int
	logger             logging.Logger
}

// New creates a model-backed agent with the given persona and tools.
func New(name string, llm model.Model, tools []tool.Tool, optFns ...func(o *Options)) *ModelAgent {
	opts := Options{
		Instruction:        fmt.Sprintf("You are %s, a helpful assistant.", name),
		MaxToolIterations:  4,
		MaxHistoryMessages: 20,
		Logger:             logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	registry := make(map[string]tool.Tool, len(tools))
	for _, t := range tools {
		registry[t.Name()] = t
	}

	return &ModelAgent{
		name:               name,
		instruction:        opts.Instruction,
		llm:                llm,
		tools:              registry,
		maxToolIterations:  opts.MaxToolIterations,
		maxHistoryMessages: opts.MaxHistoryMessages,
		logger:             opts.Logger,
	}
}

// Name returns the agent's human-readable name.
func (a *ModelAgent) Name() string { return a.name }

// Tools returns the names of the agent's registered tools.
func (a *ModelAgent) Tools() []string {
	names := make([]string, 0, len(a.tools))
	for name := range a.tools {
		names = append(names, name)
	}
	return names
}

// Respond answers a single query. History carries optional prior turns (most
// recent last) that are prepended, bounded by MaxHistoryMessages. The
// returned AgentResponse holds the model's final text and the payload of the
// last tool executed during the loop, nil when no tool ran.
func (a *ModelAgent) Respond(ctx context.Context, query core.Query, history []core.Content) (core.AgentResponse, error) {
	if len(history) > a.maxHistoryMessages {
		history = history[len(history)-a.maxHistoryMessages:]
	}

	contents := make([]core.Content, 0, len(history)+1)
	contents = append(contents, history...)
	contents = append(contents, core.NewUserText(query.Text))

	defs := make([]model.ToolDefinition, 0, len(a.tools))
	for _, t := range a.tools {
		defs = append(defs, tool.Definition(t))
	}

	var lastResult *core.ToolResult

	for iteration := 0; ; iteration++ {
		if iteration > a.maxToolIterations {
			return core.AgentResponse{}, &core.GenerationError{
				Agent:   a.name,
				Message: fmt.Sprintf("model kept requesting tools after %d iterations", a.maxToolIterations),
			}
		}

		start := time.Now()
		resp, err := a.llm.Generate(ctx, model.Request{
			Instructions: a.instruction,
			Contents:     contents,
			Tools:        defs,
		})
		observability.ObserveModelCall(a.llm.Info().Provider, time.Since(start), err)
		if err != nil {
			return core.AgentResponse{}, &core.GenerationError{Agent: a.name, Message: "model call failed", Err: err}
		}

		calls := resp.Content.FunctionCalls()
		if len(calls) == 0 {
			text := resp.Content.Text()
			if text == "" {
				return core.AgentResponse{}, &core.GenerationError{Agent: a.name, Message: "model returned empty content"}
			}
			a.logger.Debug("agent.respond.complete",
				"agent", a.name,
				"iterations", iteration,
				"tool_used", lastResult != nil,
			)
			return core.AgentResponse{Text: text, Data: lastResult}, nil
		}

		contents = append(contents, resp.Content)
		for _, call := range calls {
			result, responsePart, err := a.executeCall(ctx, call)
			if err != nil {
				return core.AgentResponse{}, err
			}
			lastResult = result
			contents = append(contents, core.Content{Role: "tool", Parts: []core.Part{responsePart}})
		}
	}
}

// executeCall validates and runs one model-issued tool call. Errors propagate
// unchanged so the orchestrator's error mapping sees the original taxonomy.
func (a *ModelAgent) executeCall(ctx context.Context, call core.FunctionCall) (*core.ToolResult, core.FunctionResponsePart, error) {
	t, exists := a.tools[call.Name]
	if !exists {
		return nil, core.FunctionResponsePart{}, &core.GenerationError{
			Agent:   a.name,
			Message: fmt.Sprintf("model requested unknown tool %q", call.Name),
		}
	}

	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return nil, core.FunctionResponsePart{}, &core.GenerationError{
				Agent:   a.name,
				Message: fmt.Sprintf("model produced unparseable arguments for tool %q", call.Name),
				Err:     err,
			}
		}
	}

	if err := tool.ValidateArgs(t, args); err != nil {
		a.logger.Warn("agent.tool.validation_failed", "agent", a.name, "tool", call.Name, "error", err.Error())
		return nil, core.FunctionResponsePart{}, err
	}

	fcID := call.ID
	if fcID == "" {
		fcID = core.NewID()
	}
	toolCtx := core.NewToolContext(ctx, a.logger, fcID)

	a.logger.Debug("agent.tool.start", "agent", a.name, "tool", call.Name, "fc_id", fcID)
	start := time.Now()
	result, err := t.Call(toolCtx, args)
	observability.ObserveProviderCall(string(t.Kind()), time.Since(start), err)
	if err != nil {
		a.logger.Error("agent.tool.error", "agent", a.name, "tool", call.Name, "error", err.Error())
		return nil, core.FunctionResponsePart{}, err
	}

	payload, err := json.Marshal(result.Data)
	if err != nil {
		return nil, core.FunctionResponsePart{}, &core.GenerationError{
			Agent:   a.name,
			Message: fmt.Sprintf("tool %q produced unserializable payload", call.Name),
			Err:     err,
		}
	}

	a.logger.Info("agent.tool.executed",
		"agent", a.name,
		"tool", call.Name,
		"fc_id", fcID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, core.FunctionResponsePart{FunctionResponse: core.FunctionResponse{
		ID:       fcID,
		Name:     call.Name,
		Response: string(payload),
	}}, nil
}
