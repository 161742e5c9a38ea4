// Package agentgate provides a high-level façade over the triage router, the
// specialist agents and their tools, enabling construction of the full
// request-routing gateway from a Config in one call. Most applications
// interact with this package by:
//  1. Loading a config.Config
//  2. Creating a Gate via New()
//  3. Serving it over HTTP (server.New) or calling Handle directly
//
// The façade delegates per-request orchestration to orchestrator.Orchestrator
// while keeping setup ergonomics concise.
package agentgate

import (
	"context"
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/agentgate/agent"
	"github.com/hupe1980/agentgate/config"
	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/logging"
	"github.com/hupe1980/agentgate/model"
	"github.com/hupe1980/agentgate/model/anthropic"
	"github.com/hupe1980/agentgate/model/openai"
	"github.com/hupe1980/agentgate/orchestrator"
	"github.com/hupe1980/agentgate/provider/fmp"
	"github.com/hupe1980/agentgate/provider/openweather"
	"github.com/hupe1980/agentgate/session"
	"github.com/hupe1980/agentgate/tool"
	"github.com/hupe1980/agentgate/triage"
)

// Persona instructions for the specialist agents.
const (
	weatherInstruction = "You are a helpful assistant that provides real-time weather updates based on user queries. " +
		"Use the available tool to fetch the data, then summarize it concisely for the user."

	stockQuoteInstruction = "You are an assistant that provides the latest stock price for a given ticker symbol " +
		"using the available tool. Mention the price, day high/low and volume."

	historicalStockInstruction = "You are an assistant that provides historical end-of-day stock data " +
		"(open, high, low, close, volume) for a specific ticker symbol between a start and end date. " +
		"Use the available tool to fetch the data. When presenting the data, mention the symbol and the " +
		"date range clearly. If there are many data points, summarize key trends or provide the first few " +
		"and last few data points, rather than listing everything."
)

// Options configures the Gate beyond what config.Config carries.
type Options struct {
	// Model overrides the config-selected LLM (useful in tests).
	Model model.Model
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Gate is the high-level façade aggregating router, agents and orchestrator.
type Gate struct {
	orch   *orchestrator.Orchestrator
	logger logging.Logger
}

// New wires the full gateway from configuration: the LLM adapter, the three
// provider tools, the specialist agents, the triage router and the
// orchestrator.
func New(cfg *config.Config, optFns ...func(o *Options)) (*Gate, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	llm := opts.Model
	if llm == nil {
		var err error
		if llm, err = buildModel(cfg); err != nil {
			return nil, err
		}
	}

	weatherTool := openweather.New(cfg.OpenWeatherAPIKey, func(o *openweather.Options) {
		o.Timeout = cfg.ProviderTimeout
	})
	fmpClient := fmp.NewClient(cfg.FMPAPIKey, func(o *fmp.Options) {
		o.Timeout = cfg.ProviderTimeout
	})

	newAgent := func(name, instruction string, tools ...tool.Tool) *agent.ModelAgent {
		return agent.New(name, llm, tools, func(o *agent.Options) {
			o.Instruction = instruction
			o.Logger = opts.Logger
		})
	}

	agents := map[triage.Variant]*agent.ModelAgent{
		triage.VariantWeather:         newAgent("Weather Agent", weatherInstruction, weatherTool),
		triage.VariantStockQuote:      newAgent("Stock Agent", stockQuoteInstruction, fmp.NewQuoteTool(fmpClient)),
		triage.VariantHistoricalStock: newAgent("Historical Stock Agent", historicalStockInstruction, fmp.NewHistoricalTool(fmpClient)),
	}

	router := triage.NewRouter(triage.NewModelOracle(llm), opts.Logger)

	var memory *session.InMemoryStore
	if cfg.SessionMemoryEnabled {
		memory = session.NewInMemoryStore(func(o *session.Options) {
			o.TTL = cfg.SessionTTL
		})
	}

	orch, err := orchestrator.New(router, agents, func(o *orchestrator.Options) {
		o.Memory = memory
		o.Logger = opts.Logger
	})
	if err != nil {
		return nil, err
	}

	return &Gate{orch: orch, logger: opts.Logger}, nil
}

// Handle processes one query end to end. It satisfies server.Handler.
func (g *Gate) Handle(ctx context.Context, query core.Query) (core.ChatResponse, error) {
	return g.orch.Handle(ctx, query)
}

// buildModel selects the LLM adapter from configuration.
func buildModel(cfg *config.Config) (model.Model, error) {
	switch cfg.LLMProvider {
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			o.APIKey = cfg.OpenAIAPIKey
			if cfg.LLMModel != "" {
				o.Model = cfg.LLMModel
			}
		}), nil
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.APIKey = cfg.AnthropicAPIKey
			if cfg.LLMModel != "" {
				o.Model = anthropicsdk.Model(cfg.LLMModel)
			}
		}), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}
