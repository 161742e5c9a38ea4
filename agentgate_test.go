package agentgate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentgate/config"
	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/model"
	"github.com/hupe1980/agentgate/orchestrator"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:              "8080",
		RequestTimeout:    60 * time.Second,
		LLMProvider:       "openai",
		OpenAIAPIKey:      "sk-test",
		OpenWeatherAPIKey: "ow-test",
		FMPAPIKey:         "fmp-test",
		ProviderTimeout:   15 * time.Second,
	}
}

func TestGateHandlesWeatherQuery(t *testing.T) {
	llm := model.NewMockModel("test")
	// First turn classifies, second answers.
	llm.AddTextResponse("weather in Berlin", "weather")
	llm.AddTextResponse("weather in Berlin", "It is sunny in Berlin today.")

	gate, err := New(testConfig(), func(o *Options) { o.Model = llm })
	require.NoError(t, err)

	resp, err := gate.Handle(context.Background(), core.Query{
		Text:           "weather in Berlin",
		ConversationID: "conv-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "It is sunny in Berlin today.", resp.Response)
	assert.Equal(t, "conv-1", resp.ConversationID)

	// The classifier turn carries no tools; the agent turn carries exactly one.
	reqs := llm.Requests()
	require.Len(t, reqs, 2)
	assert.Empty(t, reqs[0].Tools)
	require.Len(t, reqs[1].Tools, 1)
	assert.Equal(t, "fetch_weather", reqs[1].Tools[0].Function.Name)
}

func TestGateHandlesUnsupportedQuery(t *testing.T) {
	llm := model.NewMockModel("test")
	llm.AddTextResponse("tell me a joke", "unsupported")

	gate, err := New(testConfig(), func(o *Options) { o.Model = llm })
	require.NoError(t, err)

	resp, err := gate.Handle(context.Background(), core.Query{Text: "tell me a joke"})
	require.NoError(t, err)

	assert.Equal(t, orchestrator.FallbackText, resp.Response)
	assert.Nil(t, resp.StructuredData)

	// Only the classifier ran.
	assert.Len(t, llm.Requests(), 1)
}

func TestGateAgentToolBindings(t *testing.T) {
	llm := model.NewMockModel("test")
	llm.AddTextResponse("AAPL price", "stock_quote")
	llm.AddTextResponse("AAPL price", "AAPL trades at 189.84.")

	gate, err := New(testConfig(), func(o *Options) { o.Model = llm })
	require.NoError(t, err)

	_, err = gate.Handle(context.Background(), core.Query{Text: "AAPL price"})
	require.NoError(t, err)

	reqs := llm.Requests()
	require.Len(t, reqs, 2)
	require.Len(t, reqs[1].Tools, 1)
	assert.Equal(t, "fetch_stock_quote", reqs[1].Tools[0].Function.Name)
}

func TestGateRejectsUnknownProvider(t *testing.T) {
	cfg := testConfig()
	cfg.LLMProvider = "gemini"

	_, err := New(cfg)
	assert.Error(t, err)
}
