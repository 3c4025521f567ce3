package handler

import (
	"encoding/json"
	"net/http"

	"github.com/purva-labs/sahayak-api/internal/api/response"
	"github.com/purva-labs/sahayak-api/internal/domain"
	"github.com/purva-labs/sahayak-api/internal/service"
)

// VisualAidHandler handles visual aid generation endpoints
type VisualAidHandler struct {
	visualAids *service.VisualAidService
}

// NewVisualAidHandler creates a new visual aid handler
func NewVisualAidHandler(visualAids *service.VisualAidService) *VisualAidHandler {
	return &VisualAidHandler{visualAids: visualAids}
}

// Generate produces blackboard-friendly drawing instructions
func (h *VisualAidHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var input domain.VisualAidRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	resp := h.visualAids.Generate(r.Context(), input)
	response.OK(w, resp)
}
