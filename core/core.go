// Package core defines the data model shared by every layer of the gateway:
// the request/response envelope types, the normalized message content used to
// talk to language models, the provider-tagged tool payloads and the error
// taxonomy. All entities are transient and constructed per request; nothing in
// this package holds cross-request state.
package core

import "github.com/google/uuid"

// Query is the immutable user input handed to the orchestrator. The
// conversation id is opaque: it is echoed back verbatim and never interpreted.
type Query struct {
	Text           string `json:"text"`
	ConversationID string `json:"conversation_id"`
}

// ToolKind tags a ToolResult with the provider that produced it.
type ToolKind string

const (
	// ToolKindWeather marks payloads from the OpenWeather current-conditions API.
	ToolKindWeather ToolKind = "weather"
	// ToolKindStockQuote marks latest OHLCV snapshots from FMP /quote.
	ToolKindStockQuote ToolKind = "stock_quote"
	// ToolKindHistoricalStock marks FMP /historical-price-full record sequences.
	ToolKindHistoricalStock ToolKind = "historical_stock"
)

// ToolResult is the structured payload produced by a single tool invocation.
// Data keys are provider-defined; only the presence of required keys is
// guaranteed by the producing tool, not their semantics.
type ToolResult struct {
	Kind ToolKind       `json:"kind"`
	Data map[string]any `json:"data"`
}

// AgentResponse is what an agent returns to the orchestrator: the narrative
// text generated by the model and, when a tool was invoked, its payload.
type AgentResponse struct {
	Text string      `json:"text"`
	Data *ToolResult `json:"data,omitempty"`
}

// ChatResponse is the terminal envelope returned to the HTTP caller.
type ChatResponse struct {
	Response       string      `json:"response"`
	ConversationID string      `json:"conversation_id"`
	StructuredData *ToolResult `json:"structured_data"`
}

// NewID generates a unique identifier used for request and function call
// correlation in logs.
func NewID() string { return uuid.NewString() }
