package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/purva-labs/sahayak-api/internal/config"
	"github.com/purva-labs/sahayak-api/internal/domain"
	"github.com/purva-labs/sahayak-api/internal/llm"
	"github.com/purva-labs/sahayak-api/internal/session"
)

const imageURLPrefix = "/generated_images"

var (
	instructionsSectionRe = regexp.MustCompile(`(?is)STEP-BY-STEP DRAWING INSTRUCTIONS:(.*?)(?:KEY LABELS:|TEACHING TIPS:|$)`)
	labelsSectionRe       = regexp.MustCompile(`(?is)KEY LABELS:(.*?)(?:TEACHING TIPS:|$)`)
	tipsSectionRe         = regexp.MustCompile(`(?is)TEACHING TIPS:(.*)`)
	listItemSplitRe       = regexp.MustCompile(`\d+\.|-`)
)

// VisualAidService produces blackboard-friendly drawing instructions
// and a rendered reference image.
type VisualAidService struct {
	provider llm.Provider
	sessions *session.Manager
	imageDir string
	baseURL  string
	logger   zerolog.Logger
	now      func() time.Time
}

func NewVisualAidService(provider llm.Provider, sessions *session.Manager, cfg config.AssetsConfig, logger zerolog.Logger) (*VisualAidService, error) {
	if err := os.MkdirAll(cfg.ImageDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating image directory: %w", err)
	}
	return &VisualAidService{
		provider: provider,
		sessions: sessions,
		imageDir: cfg.ImageDir,
		baseURL:  cfg.BaseURL,
		logger:   logger.With().Str("component", "visual_aid_service").Logger(),
		now:      time.Now,
	}, nil
}

// Generate builds the visual aid. Failures come back as a status
// "error" response carrying the session so clients keep their context.
func (s *VisualAidService) Generate(ctx context.Context, req domain.VisualAidRequest) *domain.VisualAidResponse {
	start := s.now()

	if req.Language == "" {
		req.Language = domain.LanguageEnglish
	}
	if req.VisualType == "" {
		req.VisualType = domain.VisualDiagram
	}
	if req.Complexity == "" {
		req.Complexity = "medium"
	}

	if req.UserID != "" {
		s.recordMessage(ctx, req.UserID,
			fmt.Sprintf("Generate %s about %s for grades %v", req.VisualType, req.Topic, req.GradeLevels),
			domain.AgentUser, map[string]any{
				"language":    string(req.Language),
				"topic":       req.Topic,
				"visual_type": string(req.VisualType),
				"subject":     req.Subject,
			})
	}

	text, err := s.provider.GenerateContent(ctx, llm.EducationalPrompt(llm.VisualAidPrompt(req), req.Language), educationalTemperature)
	if err != nil {
		s.logger.Error().Err(err).Str("topic", req.Topic).Msg("visual aid generation failed")
		return s.errorResponse(ctx, req, start, err)
	}

	imagePath, imageURL := s.generateImage(ctx, req)

	aid := domain.VisualAid{
		Title:                fmt.Sprintf("%s - %s", req.Topic, req.VisualType),
		Description:          req.Description,
		ImageURL:             imageURL,
		ImagePath:            imagePath,
		DrawingInstructions:  extractInstructions(text),
		VisualType:           req.VisualType,
		Complexity:           req.Complexity,
		EstimatedDrawingTime: estimateDrawingTime(req.Complexity),
		Labels:               extractSectionItems(labelsSectionRe, text),
		TeachingTips:         extractSectionItems(tipsSectionRe, text),
	}

	resp := &domain.VisualAidResponse{
		Status:         "success",
		AgentType:      domain.AgentVisualAids,
		Language:       req.Language,
		Subject:        req.Subject,
		GradeLevels:    req.GradeLevels,
		VisualAids:     []domain.VisualAid{aid},
		GenerationTime: s.now().Sub(start).String(),
		Metadata: map[string]any{
			"topic":       req.Topic,
			"visual_type": string(req.VisualType),
			"complexity":  req.Complexity,
		},
	}

	if req.UserID != "" {
		s.recordMessage(ctx, req.UserID, "Generated visual aid for "+req.Topic,
			domain.AgentVisualAids, map[string]any{
				"language":    string(req.Language),
				"topic":       req.Topic,
				"visual_type": string(req.VisualType),
				"status":      "success",
			})
		s.attachSession(ctx, req.UserID, resp)
	}
	return resp
}

func (s *VisualAidService) errorResponse(ctx context.Context, req domain.VisualAidRequest, start time.Time, cause error) *domain.VisualAidResponse {
	resp := &domain.VisualAidResponse{
		Status:         "error",
		AgentType:      domain.AgentVisualAids,
		Language:       req.Language,
		Subject:        req.Subject,
		GradeLevels:    req.GradeLevels,
		VisualAids:     []domain.VisualAid{},
		ErrorMessage:   cause.Error(),
		GenerationTime: s.now().Sub(start).String(),
	}
	if req.UserID != "" {
		s.recordMessage(ctx, req.UserID,
			fmt.Sprintf("Error generating visual aid for %s: %v", req.Topic, cause),
			domain.AgentVisualAids, map[string]any{
				"status":        "error",
				"error_message": cause.Error(),
			})
		s.attachSession(ctx, req.UserID, resp)
	}
	return resp
}

// generateImage renders a reference image and stores it locally. Image
// generation is best effort: the drawing instructions stand alone.
func (s *VisualAidService) generateImage(ctx context.Context, req domain.VisualAidRequest) (path, url string) {
	data, mimeType, err := s.provider.GenerateImage(ctx, llm.ImagePrompt(req, req.Topic))
	if err != nil {
		s.logger.Warn().Err(err).Str("topic", req.Topic).Msg("image generation failed, continuing without image")
		return "", ""
	}

	ext := "png"
	if strings.Contains(mimeType, "jpeg") || strings.Contains(mimeType, "jpg") {
		ext = "jpg"
	}
	filename := fmt.Sprintf("visual_%d_%s.%s", s.now().Unix(), uuid.New().String()[:8], ext)
	fullPath := filepath.Join(s.imageDir, filename)

	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		s.logger.Warn().Err(err).Str("path", fullPath).Msg("failed to save generated image")
		return "", ""
	}
	return fullPath, s.baseURL + imageURLPrefix + "/" + filename
}

// extractInstructions returns the numbered drawing steps. When the
// section marker is missing, the whole text is one instruction.
func extractInstructions(text string) []string {
	m := instructionsSectionRe.FindStringSubmatch(text)
	if m == nil {
		return []string{strings.TrimSpace(text)}
	}
	items := splitListItems(m[1])
	if len(items) == 0 {
		return []string{strings.TrimSpace(m[1])}
	}
	return items
}

func extractSectionItems(re *regexp.Regexp, text string) []string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return splitListItems(m[1])
}

func splitListItems(section string) []string {
	var items []string
	for _, part := range listItemSplitRe.Split(section, -1) {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func estimateDrawingTime(complexity string) string {
	times := map[string]string{
		"simple":   "2-3",
		"medium":   "4-6",
		"detailed": "7-10",
	}
	t, ok := times[strings.ToLower(complexity)]
	if !ok {
		t = "5"
	}
	return t + " minutes"
}

func (s *VisualAidService) recordMessage(ctx context.Context, userID, content string, agentType domain.AgentType, metadata map[string]any) {
	if _, err := s.sessions.AppendMessage(ctx, userID, content, string(agentType), metadata); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to record session message")
	}
}

func (s *VisualAidService) attachSession(ctx context.Context, userID string, resp *domain.VisualAidResponse) {
	summary, err := s.sessions.GetSessionDetails(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to load session summary")
		return
	}
	resp.Session = summary
}
