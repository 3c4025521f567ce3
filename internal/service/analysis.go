package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/purva-labs/sahayak-api/internal/domain"
	"github.com/purva-labs/sahayak-api/internal/llm"
	"github.com/purva-labs/sahayak-api/internal/session"
)

// maxUploadBytes bounds decoded upload size (10 MiB).
const maxUploadBytes = 10 << 20

// AnalysisService derives study material from uploaded images and
// PDFs. The media goes to the model as an inline part; no local text
// extraction is attempted.
type AnalysisService struct {
	provider llm.Provider
	sessions *session.Manager
	logger   zerolog.Logger
}

func NewAnalysisService(provider llm.Provider, sessions *session.Manager, logger zerolog.Logger) *AnalysisService {
	return &AnalysisService{
		provider: provider,
		sessions: sessions,
		logger:   logger.With().Str("component", "analysis_service").Logger(),
	}
}

func sourceTypeFor(mimeType string) (string, error) {
	switch {
	case mimeType == "application/pdf":
		return "pdf", nil
	case strings.HasPrefix(mimeType, "image/"):
		return "image", nil
	default:
		return "", fmt.Errorf("unsupported media type %q: %w", mimeType, domain.ErrValidation)
	}
}

// Analyze produces study material from the uploaded media.
func (s *AnalysisService) Analyze(ctx context.Context, req domain.AnalysisRequest, data []byte, mimeType string) (*domain.AnalysisResponse, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty upload: %w", domain.ErrValidation)
	}
	if len(data) > maxUploadBytes {
		return nil, fmt.Errorf("upload exceeds %d bytes: %w", maxUploadBytes, domain.ErrValidation)
	}
	sourceType, err := sourceTypeFor(mimeType)
	if err != nil {
		return nil, err
	}
	if req.Language == "" {
		req.Language = string(domain.LanguageEnglish)
	}

	prompt := llm.AnalysisPrompt(req, sourceType)

	content, err := s.provider.GenerateFromMedia(ctx, prompt, data, mimeType)
	if err != nil {
		return nil, fmt.Errorf("content analysis: %w", err)
	}

	resp := &domain.AnalysisResponse{
		Content:    content,
		Language:   req.Language,
		Target:     req.Target,
		Format:     req.Format,
		SourceType: sourceType,
		UserID:     req.UserID,
	}

	if req.UserID != "" {
		metadata := map[string]any{
			"source_type":   sourceType,
			"content_type":  string(req.Target),
			"output_format": string(req.Format),
		}
		sessionID, recErr := s.sessions.AppendMessage(ctx, req.UserID,
			fmt.Sprintf("Analyzed %s upload (%s as %s)", sourceType, req.Target, req.Format),
			string(domain.AgentContentAnalysis), metadata)
		if recErr != nil {
			s.logger.Warn().Err(recErr).Str("user_id", req.UserID).Msg("failed to record analysis event")
		} else {
			resp.SessionID = sessionID
			contextUpdate := map[string]any{
				"last_content_generation": map[string]any{
					"timestamp":     time.Now().UTC().Format(time.RFC3339),
					"source_type":   sourceType,
					"output_format": string(req.Format),
					"language":      req.Language,
				},
			}
			if _, ctxErr := s.sessions.UpdateContext(ctx, sessionID, contextUpdate); ctxErr != nil {
				s.logger.Warn().Err(ctxErr).Str("session_id", sessionID).Msg("failed to update session context")
			}
		}
	}

	s.logger.Info().Str("source_type", sourceType).Str("target", string(req.Target)).Msg("generated analysis content")
	return resp, nil
}
