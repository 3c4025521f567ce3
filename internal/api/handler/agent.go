package handler

import (
	"encoding/json"
	"net/http"

	"github.com/purva-labs/sahayak-api/internal/api/response"
	"github.com/purva-labs/sahayak-api/internal/domain"
	"github.com/purva-labs/sahayak-api/internal/service"
)

// AgentHandler handles the main agent and hyper-local content endpoints
type AgentHandler struct {
	agent   *service.AgentService
	content *service.ContentService
}

// NewAgentHandler creates a new agent handler
func NewAgentHandler(agent *service.AgentService, content *service.ContentService) *AgentHandler {
	return &AgentHandler{agent: agent, content: content}
}

// Query routes a natural language query to the right agent
func (h *AgentHandler) Query(w http.ResponseWriter, r *http.Request) {
	var input domain.AgentRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	resp := h.agent.Process(r.Context(), input)
	response.OK(w, resp)
}

// HyperLocalContent generates culturally grounded educational content
func (h *AgentHandler) HyperLocalContent(w http.ResponseWriter, r *http.Request) {
	var input domain.HyperLocalContentRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	resp := h.content.Generate(r.Context(), input)
	response.OK(w, resp)
}
