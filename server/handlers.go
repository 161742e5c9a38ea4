package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/observability"
)

// ChatRequest is the POST /chat request body.
type ChatRequest struct {
	Query          string `json:"query"`
	ConversationID string `json:"conversation_id"`
}

// ChatResponse is the POST /chat response body. StructuredData is null when
// no tool contributed a payload.
type ChatResponse struct {
	Response       string           `json:"response"`
	ConversationID string           `json:"conversation_id"`
	StructuredData *core.ToolResult `json:"structured_data"`
}

// ErrorResponse is the error body returned on every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.ObserveChatRequest("bad_request", time.Since(start))
		s.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		observability.ObserveChatRequest("bad_request", time.Since(start))
		s.writeError(w, "query is required", http.StatusBadRequest)
		return
	}

	resp, err := s.handler.Handle(r.Context(), core.Query{
		Text:           req.Query,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		status, outcome := classifyError(err)
		observability.ObserveChatRequest(outcome, time.Since(start))
		s.logger.Error("server.chat.error",
			"error", err.Error(),
			"status", status,
			"conversation_id", req.ConversationID,
		)
		s.writeError(w, err.Error(), status)
		return
	}

	observability.ObserveChatRequest("success", time.Since(start))
	s.writeJSON(w, ChatResponse{
		Response:       resp.Response,
		ConversationID: resp.ConversationID,
		StructuredData: resp.StructuredData,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// classifyError maps the error taxonomy onto HTTP statuses: user-caused
// validation problems are 400, upstream provider failures 502 and model
// failures (or anything unclassified) 500.
func classifyError(err error) (status int, outcome string) {
	switch {
	case isValidation(err):
		return http.StatusBadRequest, "validation_error"
	case isProvider(err):
		return http.StatusBadGateway, "provider_error"
	case isGeneration(err):
		return http.StatusInternalServerError, "generation_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func isValidation(err error) bool { _, ok := core.AsValidationError(err); return ok }
func isProvider(err error) bool   { _, ok := core.AsProviderError(err); return ok }
func isGeneration(err error) bool { _, ok := core.AsGenerationError(err); return ok }

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
