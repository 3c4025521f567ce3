package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/purva-labs/sahayak-api/internal/domain"
	"github.com/purva-labs/sahayak-api/internal/llm"
)

// educationalTemperature keeps classroom content varied but on topic.
const educationalTemperature = 0.6

// ContentService generates hyper-local, culturally grounded
// educational content.
type ContentService struct {
	provider llm.Provider
	logger   zerolog.Logger
}

func NewContentService(provider llm.Provider, logger zerolog.Logger) *ContentService {
	return &ContentService{
		provider: provider,
		logger:   logger.With().Str("component", "content_service").Logger(),
	}
}

// Generate produces content for the request. Model failures degrade to
// a status "error" response rather than an error return so callers
// always have something to show the teacher.
func (s *ContentService) Generate(ctx context.Context, req domain.HyperLocalContentRequest) *domain.AgentResponse {
	if req.Language == "" {
		req.Language = domain.LanguageEnglish
	}
	if req.ContentType == "" {
		req.ContentType = domain.ContentStory
	}
	if req.CulturalContext == "" {
		req.CulturalContext = "Indian rural context"
	}

	prompt := llm.EducationalPrompt(llm.ContentPrompt(req), req.Language)

	text, err := s.provider.GenerateContent(ctx, prompt, educationalTemperature)
	if err != nil {
		s.logger.Error().Err(err).Str("topic", req.Topic).Msg("content generation failed")
		return &domain.AgentResponse{
			Status:       "error",
			AgentType:    domain.AgentHyperLocal,
			Response:     "I apologize, but I couldn't generate the requested content about " + req.Topic + ". Please try rephrasing your request.",
			Language:     req.Language,
			ErrorMessage: err.Error(),
		}
	}

	return &domain.AgentResponse{
		Status:    "success",
		AgentType: domain.AgentHyperLocal,
		Response:  text,
		Language:  req.Language,
		Metadata: map[string]any{
			"topic":            req.Topic,
			"content_type":     string(req.ContentType),
			"grade_levels":     req.GradeLevels,
			"cultural_context": req.CulturalContext,
		},
	}
}
