// Package model defines the normalized language model abstraction the agents
// and the triage router are built on. Providers adapt their SDKs to the Model
// interface; callers never branch on the vendor.
package model

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentgate/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures the normalized model input produced by agents.
type Request struct {
	Instructions string           `json:"instructions"` // system prompt
	Contents     []core.Content   `json:"contents"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the completed model output: assistant content that may contain
// text parts, function call parts or both.
type Response struct {
	Content      core.Content `json:"content"`
	FinishReason string       `json:"finish_reason"` // "stop", "length", "tool_calls", etc.
	Usage        *TokenUsage  `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required by agents to drive generation.
// Generate blocks until the provider returns a complete response; the request
// context bounds the call.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Responses are keyed by the text of the last content in the request; a key
// can be bound to a sequence of responses consumed in order, which lets tests
// script a tool-call turn followed by a summary turn.
type MockModel struct {
	info      Info
	responses map[string][]Response
	requests  []Request
	err       error
}

// NewMockModel constructs a MockModel with tool support enabled.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info: Info{
			Name:          name,
			Provider:      "mock",
			SupportsTools: true,
		},
		responses: make(map[string][]Response),
	}
}

// AddTextResponse registers a canned plain-text completion for an input prompt.
func (m *MockModel) AddTextResponse(prompt, response string) {
	m.AddResponse(prompt, Response{
		Content:      core.NewAssistantText(response),
		FinishReason: "stop",
	})
}

// AddResponse appends a canned response to the sequence bound to prompt.
func (m *MockModel) AddResponse(prompt string, resp Response) {
	m.responses[prompt] = append(m.responses[prompt], resp)
}

// FailWith makes every Generate call return err.
func (m *MockModel) FailWith(err error) { m.err = err }

// Requests returns every request seen by the mock, in order.
func (m *MockModel) Requests() []Request { return m.requests }

// Generate implements Model.
func (m *MockModel) Generate(_ context.Context, req Request) (*Response, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	if len(req.Contents) == 0 {
		return nil, fmt.Errorf("no contents provided")
	}

	// Key on the last content carrying text; a trailing tool-response turn maps
	// back to the user prompt so scripted sequences advance per model turn.
	var key string
	for i := len(req.Contents) - 1; i >= 0; i-- {
		if text := req.Contents[i].Text(); text != "" {
			key = text
			break
		}
	}
	if queued := m.responses[key]; len(queued) > 0 {
		resp := queued[0]
		m.responses[key] = queued[1:]
		return &resp, nil
	}

	return &Response{
		Content:      core.NewAssistantText(fmt.Sprintf("Mock response to: %s", key)),
		FinishReason: "stop",
	}, nil
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
