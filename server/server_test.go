package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentgate/core"
)

// stubHandler returns a canned response or error for every query.
type stubHandler struct {
	resp    core.ChatResponse
	err     error
	lastQry core.Query
}

func (h *stubHandler) Handle(_ context.Context, query core.Query) (core.ChatResponse, error) {
	h.lastQry = query
	if h.err != nil {
		return core.ChatResponse{}, h.err
	}
	resp := h.resp
	resp.ConversationID = query.ConversationID
	return resp, nil
}

func postChat(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestChatSuccess(t *testing.T) {
	h := &stubHandler{resp: core.ChatResponse{
		Response: "Sunny, 21.5 degrees in Berlin.",
		StructuredData: &core.ToolResult{
			Kind: core.ToolKindWeather,
			Data: map[string]any{"temperature": 21.5},
		},
	}}
	srv := New(h, ":0")

	rec := postChat(t, srv.Router(), `{"query":"weather in Berlin","conversation_id":"conv-1"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Sunny, 21.5 degrees in Berlin.", resp.Response)
	assert.Equal(t, "conv-1", resp.ConversationID)
	require.NotNil(t, resp.StructuredData)
	assert.Equal(t, core.ToolKindWeather, resp.StructuredData.Kind)

	assert.Equal(t, "weather in Berlin", h.lastQry.Text)
	assert.Equal(t, "conv-1", h.lastQry.ConversationID)
}

func TestChatNullStructuredData(t *testing.T) {
	h := &stubHandler{resp: core.ChatResponse{Response: "fallback"}}
	srv := New(h, ":0")

	rec := postChat(t, srv.Router(), `{"query":"tell me a joke"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, "null", string(raw["structured_data"]))
	assert.Equal(t, `""`, string(raw["conversation_id"]))
}

func TestChatBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing query", `{}`},
		{"empty query", `{"query":""}`},
		{"whitespace query", `{"query":"   "}`},
	}

	srv := New(&stubHandler{}, ":0")
	router := srv.Router()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postChat(t, router, tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestChatErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			"validation error",
			&core.ValidationError{Field: "start_date", Message: "invalid date, use YYYY-MM-DD"},
			http.StatusBadRequest,
		},
		{
			"provider error",
			&core.ProviderError{Provider: "openweather", StatusCode: 404, Message: "location not found"},
			http.StatusBadGateway,
		},
		{
			"generation error",
			&core.GenerationError{Agent: "Weather Agent", Message: "model call failed"},
			http.StatusInternalServerError,
		},
		{
			"unclassified error",
			context.DeadlineExceeded,
			http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New(&stubHandler{err: tt.err}, ":0")

			rec := postChat(t, srv.Router(), `{"query":"anything"}`)

			require.Equal(t, tt.wantStatus, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.err.Error(), resp.Error)
		})
	}
}

func TestChatMethodNotAllowed(t *testing.T) {
	srv := New(&stubHandler{}, ":0")

	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthz(t *testing.T) {
	srv := New(&stubHandler{}, ":0")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := New(&stubHandler{}, ":0")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsDisabled(t *testing.T) {
	srv := New(&stubHandler{}, ":0", func(o *Options) {
		o.MetricsEnabled = false
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
