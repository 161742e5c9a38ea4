// Package orchestrator wires triage and agents into the single entry point
// behind the HTTP surface: one query in, one ChatResponse out. Each call is an
// independent, sequential execution: route, respond, envelope. The only state
// the orchestrator may touch across requests is the optional conversation
// memory, which is disabled by default.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentgate/agent"
	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/logging"
	"github.com/hupe1980/agentgate/session"
	"github.com/hupe1980/agentgate/triage"
)

// FallbackText is the fixed response for queries no agent supports.
const FallbackText = "I can currently only help with weather questions, current stock prices or historical stock data."

// Options configures an Orchestrator.
type Options struct {
	// Memory enables cross-turn conversation history when non-nil.
	Memory *session.InMemoryStore
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Orchestrator routes each query to exactly one agent and assembles the
// response envelope.
type Orchestrator struct {
	router *triage.Router
	agents map[triage.Variant]*agent.ModelAgent
	memory *session.InMemoryStore
	logger logging.Logger
}

// New constructs an Orchestrator over a router and its agents. The agents map
// must cover every variant except VariantUnsupported.
func New(router *triage.Router, agents map[triage.Variant]*agent.ModelAgent, optFns ...func(o *Options)) (*Orchestrator, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	for _, variant := range []triage.Variant{triage.VariantWeather, triage.VariantStockQuote, triage.VariantHistoricalStock} {
		if _, ok := agents[variant]; !ok {
			return nil, fmt.Errorf("no agent registered for variant %q", variant)
		}
	}

	return &Orchestrator{
		router: router,
		agents: agents,
		memory: opts.Memory,
		logger: opts.Logger,
	}, nil
}

// Handle processes one query end to end. The caller-supplied conversation id
// is echoed back verbatim, including the empty string. On the unsupported
// path no agent or tool is invoked and structured data is nil.
func (o *Orchestrator) Handle(ctx context.Context, query core.Query) (core.ChatResponse, error) {
	variant, err := o.router.Select(ctx, query)
	if err != nil {
		return core.ChatResponse{}, err
	}

	o.logger.Info("orchestrator.routed",
		"conversation_id", query.ConversationID,
		"variant", string(variant),
	)

	if variant == triage.VariantUnsupported {
		resp := core.ChatResponse{
			Response:       FallbackText,
			ConversationID: query.ConversationID,
		}
		o.remember(query, resp.Response)
		return resp, nil
	}

	var history []core.Content
	if o.memory != nil {
		history = o.memory.History(query.ConversationID)
	}

	agentResp, err := o.agents[variant].Respond(ctx, query, history)
	if err != nil {
		return core.ChatResponse{}, err
	}

	resp := core.ChatResponse{
		Response:       agentResp.Text,
		ConversationID: query.ConversationID,
		StructuredData: agentResp.Data,
	}
	o.remember(query, resp.Response)
	return resp, nil
}

// remember appends the completed turn to conversation memory when enabled.
func (o *Orchestrator) remember(query core.Query, response string) {
	if o.memory == nil {
		return
	}
	o.memory.Append(query.ConversationID,
		core.NewUserText(query.Text),
		core.NewAssistantText(response),
	)
}
