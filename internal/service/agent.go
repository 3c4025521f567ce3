package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/purva-labs/sahayak-api/internal/domain"
	"github.com/purva-labs/sahayak-api/internal/language"
	"github.com/purva-labs/sahayak-api/internal/llm"
	"github.com/purva-labs/sahayak-api/internal/session"
)

// hyperLocalKeywords route a query to the hyper-local content agent.
var hyperLocalKeywords = []string{
	"story", "create", "generate", "content", "local", "cultural",
	"farmers", "rural", "village", "explain", "teach about",
	"कहानी", "कथा", "વાર્તા", "গল্প", "கதை", "కథ", "ಕಥೆ", "കഥ", "ਕਹਾਣੀ",
}

// AgentService is the front door for free-form teacher queries. It
// detects language and intent and dispatches to the specialized
// content generation path, recording the exchange on the caller's
// session.
type AgentService struct {
	content  *ContentService
	provider llm.Provider
	sessions *session.Manager
	logger   zerolog.Logger
}

func NewAgentService(content *ContentService, provider llm.Provider, sessions *session.Manager, logger zerolog.Logger) *AgentService {
	return &AgentService{
		content:  content,
		provider: provider,
		sessions: sessions,
		logger:   logger.With().Str("component", "agent_service").Logger(),
	}
}

func determineAgentType(query string) domain.AgentType {
	lower := strings.ToLower(query)
	for _, keyword := range hyperLocalKeywords {
		if strings.Contains(lower, keyword) {
			return domain.AgentHyperLocal
		}
	}
	// Everything routes to hyper-local content until more agents exist.
	return domain.AgentHyperLocal
}

// Process answers a teacher query. The response always carries a
// status; model failures come back as status "error" with an apology
// the teacher can read.
func (s *AgentService) Process(ctx context.Context, req domain.AgentRequest) *domain.AgentResponse {
	if req.Language == "" {
		req.Language = domain.LanguageEnglish
	}
	if strings.TrimSpace(req.UserID) == "" {
		req.UserID = domain.AnonymousUserID
	}

	// A query written in a regional script wins over a default or
	// stale english preference.
	if detected := language.Detect(req.Query); req.Language == domain.LanguageEnglish && detected != domain.LanguageEnglish {
		s.logger.Info().Str("detected", string(detected)).Msg("updated request language from detection")
		req.Language = detected
	}

	s.recordMessage(ctx, req.UserID, req.Query, domain.AgentUser, map[string]any{
		"language": string(req.Language),
	})

	var resp *domain.AgentResponse
	switch determineAgentType(req.Query) {
	case domain.AgentHyperLocal:
		resp = s.handleHyperLocalContent(ctx, req)
	default:
		resp = s.handleGeneric(ctx, req)
	}

	s.recordMessage(ctx, req.UserID, resp.Response, resp.AgentType, map[string]any{
		"language": string(resp.Language),
		"status":   resp.Status,
	})
	s.attachSession(ctx, req.UserID, resp)
	return resp
}

func (s *AgentService) handleHyperLocalContent(ctx context.Context, req domain.AgentRequest) *domain.AgentResponse {
	topic := language.ExtractTopic(req.Query)
	intent := language.DetectIntent(req.Query)

	return s.content.Generate(ctx, domain.HyperLocalContentRequest{
		Topic:           topic,
		Language:        req.Language,
		GradeLevels:     intent.GradeLevels,
		CulturalContext: "Indian rural context",
		ContentType:     intent.ContentType,
		Subject:         intent.Subject,
	})
}

func (s *AgentService) handleGeneric(ctx context.Context, req domain.AgentRequest) *domain.AgentResponse {
	prompt := llm.EducationalPrompt(llm.GenericAssistPrompt(req.Query), req.Language)

	text, err := s.provider.GenerateContent(ctx, prompt, educationalTemperature)
	if err != nil {
		s.logger.Error().Err(err).Msg("generic response generation failed")
		return &domain.AgentResponse{
			Status:       "error",
			AgentType:    domain.AgentMain,
			Response:     "I'm here to help you with educational content and teaching assistance. Could you please rephrase your request?",
			Language:     req.Language,
			ErrorMessage: err.Error(),
		}
	}

	return &domain.AgentResponse{
		Status:    "success",
		AgentType: domain.AgentMain,
		Response:  text,
		Language:  req.Language,
		Metadata: map[string]any{
			"response_type": "generic_educational_assistance",
		},
	}
}

// recordMessage appends to the session history, logging failures
// instead of failing the request.
func (s *AgentService) recordMessage(ctx context.Context, userID, content string, agentType domain.AgentType, metadata map[string]any) {
	if strings.TrimSpace(content) == "" {
		return
	}
	if _, err := s.sessions.AppendMessage(ctx, userID, content, string(agentType), metadata); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to record session message")
	}
}

func (s *AgentService) attachSession(ctx context.Context, userID string, resp *domain.AgentResponse) {
	summary, err := s.sessions.GetSessionDetails(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to load session summary")
		return
	}
	resp.Session = summary
}
