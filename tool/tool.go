// Package tool implements the tool-client abstraction that lets agents invoke
// external data providers with schema validated arguments and consistent
// error handling. Each tool issues exactly one kind of outbound API call and
// normalizes the provider response into a tagged core.ToolResult.
package tool

import (
	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/internal/util"
	"github.com/hupe1980/agentgate/model"
)

// Tool defines the contract for external capabilities exposed to agents.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions (snake_case names)
//   - Define proper JSON schema for parameters
//   - Issue exactly one outbound call per Call and never retry internally
//   - Be safe for concurrent use
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description of what this tool does.
	// This description is provided to the LLM to help it understand when and
	// how to use the tool.
	Description() string

	// Parameters returns a JSON schema describing the expected input format.
	Parameters() map[string]any

	// Kind tags the structured payload this tool produces.
	Kind() core.ToolKind

	// Call executes the tool with already-parsed arguments. Implementations
	// must honor the ToolContext's context for cancellation and deadlines.
	// Missing or malformed arguments yield *core.ValidationError; failed or
	// unparseable provider responses yield *core.ProviderError.
	Call(toolCtx *core.ToolContext, args map[string]any) (*core.ToolResult, error)
}

// ValidateArgs checks args against the tool's declared schema. It is invoked
// by the agent layer before dispatching a model-issued call so every tool sees
// only schema-conformant input.
func ValidateArgs(t Tool, args map[string]any) error {
	return util.ValidateParameters(args, t.Parameters())
}

// Definition converts a Tool into the normalized function declaration exposed
// to models.
func Definition(t Tool) model.ToolDefinition {
	return model.ToolDefinition{
		Type: "function",
		Function: model.FunctionDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		},
	}
}

// StringArg extracts a string argument, reporting whether it was present and
// non-empty.
func StringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// FloatArg extracts a numeric argument. JSON decoding always produces
// float64, but int literals from hand-built argument maps are accepted too.
func FloatArg(args map[string]any, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}
