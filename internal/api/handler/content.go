package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/purva-labs/sahayak-api/internal/api/response"
	"github.com/purva-labs/sahayak-api/internal/domain"
	"github.com/purva-labs/sahayak-api/internal/service"
)

// Multipart bodies larger than this are rejected at parse time.
const maxMultipartMemory = 32 << 20

// ContentHandler handles content generation from uploaded material
type ContentHandler struct {
	analysis *service.AnalysisService
}

// NewContentHandler creates a new content handler
func NewContentHandler(analysis *service.AnalysisService) *ContentHandler {
	return &ContentHandler{analysis: analysis}
}

type base64ContentRequest struct {
	FileData string                `json:"file_data" validate:"required"`
	FileType string                `json:"file_type" validate:"required,oneof=image pdf"`
	Target   domain.AnalysisTarget `json:"content_type"`
	Format   domain.AnalysisFormat `json:"output_format"`
	Depth    domain.AnalysisDepth  `json:"research_depth"`
	Length   domain.AnalysisLength `json:"content_length"`
	Language string                `json:"local_language"`
	UserID   string                `json:"user_id"`
}

func mimeTypeFor(fileType string) string {
	if fileType == "pdf" {
		return "application/pdf"
	}
	return "image/jpeg"
}

// uploadMIMEType classifies the uploaded part as image or PDF. Unknown
// types are rejected.
func uploadMIMEType(header *multipart.FileHeader) (string, bool) {
	contentType := header.Header.Get("Content-Type")
	switch {
	case strings.Contains(contentType, "image"):
		return contentType, true
	case strings.Contains(contentType, "pdf"),
		strings.HasSuffix(strings.ToLower(header.Filename), ".pdf"):
		return "application/pdf", true
	}
	return "", false
}

// GenerateFromUpload derives study material from a multipart file upload.
// The form carries the same fields as the JSON variant.
func (h *ContentHandler) GenerateFromUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		response.BadRequest(w, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "file is required")
		return
	}
	defer file.Close()

	mimeType, ok := uploadMIMEType(header)
	if !ok {
		response.BadRequest(w, "unsupported file type, upload an image or a PDF")
		return
	}

	req := domain.AnalysisRequest{
		Target:   domain.AnalysisTarget(r.FormValue("content_type")),
		Format:   domain.AnalysisFormat(r.FormValue("output_format")),
		Depth:    domain.AnalysisDepth(r.FormValue("research_depth")),
		Length:   domain.AnalysisLength(r.FormValue("content_length")),
		Language: r.FormValue("local_language"),
		UserID:   r.FormValue("user_id"),
	}
	if req.Language == "" {
		req.Language = domain.DefaultLanguage
	}
	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(w, "reading upload: "+err.Error())
		return
	}

	resp, err := h.analysis.Analyze(r.Context(), req, data, mimeType)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "content analysis failed: "+err.Error())
		return
	}
	response.OK(w, resp)
}

// GenerateFromBase64 derives study material from base64-encoded media
func (h *ContentHandler) GenerateFromBase64(w http.ResponseWriter, r *http.Request) {
	var input base64ContentRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	// Accept data URLs by stripping everything up to the base64 marker.
	raw := input.FileData
	if idx := strings.Index(raw, "base64,"); idx >= 0 {
		raw = raw[idx+len("base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		response.BadRequest(w, "invalid base64 encoding: "+err.Error())
		return
	}

	req := domain.AnalysisRequest{
		Target:   input.Target,
		Format:   input.Format,
		Depth:    input.Depth,
		Length:   input.Length,
		Language: input.Language,
		UserID:   input.UserID,
	}
	if req.Target == "" {
		req.Target = domain.AnalysisStudyGuide
	}
	if req.Format == "" {
		req.Format = domain.FormatQA
	}
	if req.Depth == "" {
		req.Depth = domain.DepthModerate
	}
	if req.Length == "" {
		req.Length = domain.LengthModerate
	}
	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	resp, err := h.analysis.Analyze(r.Context(), req, data, mimeTypeFor(input.FileType))
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "content analysis failed: "+err.Error())
		return
	}
	response.OK(w, resp)
}
