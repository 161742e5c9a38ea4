package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentgate/core"
)

func TestMockModelCannedResponse(t *testing.T) {
	m := NewMockModel("test")
	m.AddTextResponse("hello", "hi there")

	resp, err := m.Generate(context.Background(), Request{
		Contents: []core.Content{core.NewUserText("hello")},
	})
	require.NoError(t, err)
	assert.Equal(t, "hi there", resp.Content.Text())
	assert.Equal(t, "stop", resp.FinishReason)
}

func TestMockModelDefaultResponse(t *testing.T) {
	m := NewMockModel("test")

	resp, err := m.Generate(context.Background(), Request{
		Contents: []core.Content{core.NewUserText("anything")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: anything", resp.Content.Text())
}

func TestMockModelSequence(t *testing.T) {
	m := NewMockModel("test")
	m.AddResponse("weather in Berlin", Response{
		Content: core.Content{Role: "assistant", Parts: []core.Part{
			core.FunctionCallPart{FunctionCall: core.FunctionCall{
				ID:        "fc-1",
				Name:      "fetch_weather",
				Arguments: `{"location":"Berlin"}`,
			}},
		}},
		FinishReason: "tool_calls",
	})
	m.AddTextResponse("weather in Berlin", "Sunny, 21 degrees in Berlin.")

	// First model turn emits the tool call.
	resp, err := m.Generate(context.Background(), Request{
		Contents: []core.Content{core.NewUserText("weather in Berlin")},
	})
	require.NoError(t, err)
	require.Len(t, resp.Content.FunctionCalls(), 1)

	// Second turn appends the assistant call and the tool response; the mock
	// keys on the user prompt since the trailing contents carry no text.
	resp2, err := m.Generate(context.Background(), Request{
		Contents: []core.Content{
			core.NewUserText("weather in Berlin"),
			resp.Content,
			{Role: "tool", Parts: []core.Part{core.FunctionResponsePart{
				FunctionResponse: core.FunctionResponse{ID: "fc-1", Name: "fetch_weather", Response: "{}"},
			}}},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, resp2.Content.FunctionCalls())
	assert.Equal(t, "Sunny, 21 degrees in Berlin.", resp2.Content.Text())
}

func TestMockModelFailWith(t *testing.T) {
	m := NewMockModel("test")
	m.FailWith(errors.New("boom"))

	_, err := m.Generate(context.Background(), Request{
		Contents: []core.Content{core.NewUserText("x")},
	})
	assert.Error(t, err)
}

func TestMockModelEmptyContents(t *testing.T) {
	m := NewMockModel("test")
	_, err := m.Generate(context.Background(), Request{})
	assert.Error(t, err)
}

func TestMockModelRecordsRequests(t *testing.T) {
	m := NewMockModel("test")
	_, _ = m.Generate(context.Background(), Request{
		Instructions: "be brief",
		Contents:     []core.Content{core.NewUserText("a")},
	})
	_, _ = m.Generate(context.Background(), Request{
		Contents: []core.Content{core.NewUserText("b")},
	})

	reqs := m.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "be brief", reqs[0].Instructions)
	assert.Equal(t, "b", reqs[1].Contents[0].Text())
}

func TestMockModelInfo(t *testing.T) {
	m := NewMockModel("test")
	info := m.Info()
	assert.Equal(t, "test", info.Name)
	assert.Equal(t, "mock", info.Provider)
	assert.True(t, info.SupportsTools)
}
