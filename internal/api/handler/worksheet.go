package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/purva-labs/sahayak-api/internal/api/response"
	"github.com/purva-labs/sahayak-api/internal/domain"
	"github.com/purva-labs/sahayak-api/internal/service"
)

// WorksheetHandler handles worksheet generation endpoints
type WorksheetHandler struct {
	worksheets *service.WorksheetService
}

// NewWorksheetHandler creates a new worksheet handler
func NewWorksheetHandler(worksheets *service.WorksheetService) *WorksheetHandler {
	return &WorksheetHandler{worksheets: worksheets}
}

// Generate produces a printable worksheet PDF
func (h *WorksheetHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var input domain.WorksheetRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	resp, err := h.worksheets.Generate(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "failed to generate worksheet: "+err.Error())
		return
	}
	response.OK(w, resp)
}

// Types lists the supported worksheet formats
func (h *WorksheetHandler) Types(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{
		"worksheet_types": domain.WorksheetTypes(),
	})
}
