package core

import (
	"context"

	"github.com/hupe1980/agentgate/logging"
)

// ToolContext carries per-invocation facilities into a tool call: the request
// context (cancellation + deadline propagate to the outbound provider call),
// a logger and the function call id correlating the model's request with the
// execution.
type ToolContext struct {
	ctx            context.Context
	logger         logging.Logger
	functionCallID string
}

// NewToolContext constructs a ToolContext. A nil logger is substituted with a
// NoOpLogger so tools never need nil checks.
func NewToolContext(ctx context.Context, logger logging.Logger, functionCallID string) *ToolContext {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &ToolContext{ctx: ctx, logger: logger, functionCallID: functionCallID}
}

// Context returns the request context governing the tool's outbound call.
func (tc *ToolContext) Context() context.Context { return tc.ctx }

// Logger returns the invocation logger.
func (tc *ToolContext) Logger() logging.Logger { return tc.logger }

// FunctionCallID returns the id correlating model request and tool execution.
func (tc *ToolContext) FunctionCallID() string { return tc.functionCallID }
