// Package triage implements the classification step selecting which agent
// handles a given query. Classification is delegated to a language model
// treated as an external oracle behind a narrow interface, so it can be
// swapped or mocked in tests. The variant set is closed: anything the oracle
// emits outside of it resolves to VariantUnsupported.
package triage

import (
	"context"
	"strings"

	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/logging"
	"github.com/hupe1980/agentgate/model"
	"github.com/hupe1980/agentgate/observability"
)

// Variant identifies the downstream agent a query is routed to.
type Variant string

const (
	// VariantWeather routes to the weather agent.
	VariantWeather Variant = "weather"
	// VariantStockQuote routes to the latest-quote stock agent.
	VariantStockQuote Variant = "stock_quote"
	// VariantHistoricalStock routes to the historical stock agent.
	VariantHistoricalStock Variant = "historical_stock"
	// VariantUnsupported means no agent handles the query; the orchestrator
	// answers with its fixed fallback instead.
	VariantUnsupported Variant = "unsupported"
)

// Oracle classifies free text into one of the variant labels. Implementations
// may be backed by a model call or, in tests, by a canned table.
type Oracle interface {
	Classify(ctx context.Context, text string) (string, error)
}

const classifierInstruction = `You are a request classifier. Categorize the user's request into exactly one of these labels:
- weather: current weather conditions or forecasts for a location
- stock_quote: the current price of a specific stock
- historical_stock: historical stock data over a period, e.g. past performance or a date range
- unsupported: anything else, including ambiguous or general requests

Respond with the label only, nothing else.`

// ModelOracle implements Oracle with a single no-tools model call.
type ModelOracle struct {
	llm model.Model
}

// NewModelOracle constructs a ModelOracle.
func NewModelOracle(llm model.Model) *ModelOracle {
	return &ModelOracle{llm: llm}
}

// Classify asks the model for a single label.
func (o *ModelOracle) Classify(ctx context.Context, text string) (string, error) {
	resp, err := o.llm.Generate(ctx, model.Request{
		Instructions: classifierInstruction,
		Contents:     []core.Content{core.NewUserText(text)},
	})
	if err != nil {
		return "", err
	}
	return resp.Content.Text(), nil
}

// Router selects the agent variant for a query.
type Router struct {
	oracle Oracle
	logger logging.Logger
}

// NewRouter constructs a Router. A nil logger disables logging.
func NewRouter(oracle Oracle, logger logging.Logger) *Router {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Router{oracle: oracle, logger: logger}
}

// Select classifies the query into exactly one variant. Oracle output that
// does not map to a known variant yields VariantUnsupported; an oracle
// transport failure is a GenerationError.
func (r *Router) Select(ctx context.Context, query core.Query) (Variant, error) {
	label, err := r.oracle.Classify(ctx, query.Text)
	if err != nil {
		return VariantUnsupported, &core.GenerationError{
			Agent:   "triage",
			Message: "classification call failed",
			Err:     err,
		}
	}

	variant := parseVariant(label)
	observability.ObserveTriageDecision(string(variant))
	r.logger.Debug("triage.select", "label", label, "variant", string(variant))

	return variant, nil
}

// parseVariant normalizes an oracle label into the closed variant set.
func parseVariant(label string) Variant {
	normalized := strings.ToLower(strings.TrimSpace(label))
	normalized = strings.Trim(normalized, `"'.`)

	switch Variant(normalized) {
	case VariantWeather, VariantStockQuote, VariantHistoricalStock:
		return Variant(normalized)
	default:
		return VariantUnsupported
	}
}
