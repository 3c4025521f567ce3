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
	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog"

	"github.com/purva-labs/sahayak-api/internal/config"
	"github.com/purva-labs/sahayak-api/internal/domain"
	"github.com/purva-labs/sahayak-api/internal/llm"
	"github.com/purva-labs/sahayak-api/internal/session"
)

const (
	defaultQuestionCount = 10
	answerKeyMarker      = "Answer Key"
	worksheetTemperature = 0.2
	pdfURLPrefix         = "/generated_pdfs"
)

var questionSplitRe = regexp.MustCompile(`\n\s*\d+\.`)

// WorksheetService generates printable worksheets as PDF files.
type WorksheetService struct {
	provider llm.Provider
	sessions *session.Manager
	pdfDir   string
	baseURL  string
	logger   zerolog.Logger
	now      func() time.Time
}

func NewWorksheetService(provider llm.Provider, sessions *session.Manager, cfg config.AssetsConfig, logger zerolog.Logger) (*WorksheetService, error) {
	if err := os.MkdirAll(cfg.PDFDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating pdf directory: %w", err)
	}
	return &WorksheetService{
		provider: provider,
		sessions: sessions,
		pdfDir:   cfg.PDFDir,
		baseURL:  cfg.BaseURL,
		logger:   logger.With().Str("component", "worksheet_service").Logger(),
		now:      time.Now,
	}, nil
}

// worksheetContent is the parsed model output ready for rendering.
type worksheetContent struct {
	title     string
	questions []string
	answers   string
}

// Generate builds the worksheet content, renders the PDF and records
// the event on the user's session.
func (s *WorksheetService) Generate(ctx context.Context, req domain.WorksheetRequest) (*domain.WorksheetResponse, error) {
	if req.NumQuestions == 0 {
		req.NumQuestions = defaultQuestionCount
	}
	includeAnswers := req.IncludeAnswers == nil || *req.IncludeAnswers

	raw, err := s.provider.GenerateContent(ctx, llm.WorksheetPrompt(req), worksheetTemperature)
	if err != nil {
		return nil, fmt.Errorf("worksheet content generation: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("empty worksheet content from model")
	}

	content := parseWorksheetContent(raw, includeAnswers)

	pdfURL, err := s.renderPDF(content, req, includeAnswers)
	if err != nil {
		return nil, err
	}

	title := req.Title
	if title == "" {
		title = defaultWorksheetTitle(req)
	}

	var sessionID string
	if req.UserID != "" {
		sessionID = s.recordGeneration(ctx, req, pdfURL)
	}

	s.logger.Info().
		Str("worksheet_type", string(req.WorksheetType)).
		Str("subject", req.Subject).
		Str("grade", req.Grade).
		Msg("generated worksheet")

	return &domain.WorksheetResponse{
		PDFURL:        pdfURL,
		WorksheetType: req.WorksheetType,
		Subject:       req.Subject,
		Grade:         req.Grade,
		Topic:         req.Topic,
		Title:         title,
		QuestionCount: req.NumQuestions,
		SessionID:     sessionID,
	}, nil
}

func defaultWorksheetTitle(req domain.WorksheetRequest) string {
	words := strings.Split(string(req.WorksheetType), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return fmt.Sprintf("%s %s %s Worksheet", req.Subject, req.Topic, strings.Join(words, " "))
}

// parseWorksheetContent splits the raw model output into a title, a
// question list and an answer key section.
func parseWorksheetContent(raw string, includeAnswers bool) worksheetContent {
	parts := strings.SplitN(raw, answerKeyMarker, 2)

	questionsSection := strings.TrimSpace(parts[0])
	answers := ""
	if len(parts) > 1 && includeAnswers {
		answers = strings.TrimSpace(strings.TrimLeft(parts[1], ":* \n"))
	}

	// First line doubles as a title when followed by a blank line.
	title := ""
	lines := strings.SplitN(questionsSection, "\n", 3)
	if len(lines) >= 2 && strings.TrimSpace(lines[1]) == "" {
		title = strings.TrimSpace(lines[0])
		if len(lines) == 3 {
			questionsSection = lines[2]
		} else {
			questionsSection = ""
		}
	}

	var questions []string
	blocks := questionSplitRe.Split("\n"+questionsSection, -1)
	if len(blocks) > 1 {
		for _, block := range blocks[1:] {
			if q := strings.TrimSpace(block); q != "" {
				questions = append(questions, q)
			}
		}
	} else {
		for _, block := range strings.Split(questionsSection, "\n\n") {
			if q := strings.TrimSpace(block); q != "" {
				questions = append(questions, q)
			}
		}
	}

	return worksheetContent{title: title, questions: questions, answers: answers}
}

func worksheetInstructions(worksheetType domain.WorksheetType) string {
	switch worksheetType {
	case domain.WorksheetMultipleChoice:
		return "Instructions: Circle the letter of the correct answer for each question."
	case domain.WorksheetFillInBlanks:
		return "Instructions: Fill in the blanks with the correct word or phrase."
	default:
		return "Instructions: Answer each question with complete sentences."
	}
}

func (s *WorksheetService) renderPDF(content worksheetContent, req domain.WorksheetRequest, includeAnswers bool) (string, error) {
	subjectSlug := strings.ToLower(strings.ReplaceAll(req.Subject, " ", "_"))
	topicSlug := strings.ToLower(strings.ReplaceAll(req.Topic, " ", "_"))
	filename := fmt.Sprintf("worksheet_%s_%s_%s_%d_%s.pdf",
		subjectSlug, topicSlug, req.WorksheetType, s.now().Unix(), uuid.New().String()[:8])
	path := filepath.Join(s.pdfDir, filename)

	title := req.Title
	if title == "" {
		title = content.title
	}
	if title == "" {
		title = defaultWorksheetTitle(req)
	}

	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.MultiCell(0, 8, title, "", "C", false)
	pdf.Ln(2)

	pdf.SetFont("Arial", "I", 11)
	subtitle := fmt.Sprintf("Grade %s - %s", req.Grade, s.now().Format("January 2, 2006"))
	pdf.MultiCell(0, 6, subtitle, "", "C", false)
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 6, worksheetInstructions(req.WorksheetType), "", "L", false)
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 14)
	pdf.MultiCell(0, 7, "Questions:", "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 11)
	for i, question := range content.questions {
		pdf.MultiCell(0, 6, fmt.Sprintf("%d. %s", i+1, question), "", "L", false)
		pdf.Ln(4)
	}

	if includeAnswers && content.answers != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.MultiCell(0, 7, "Answer Key:", "", "L", false)
		pdf.Ln(2)
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 6, content.answers, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("writing worksheet pdf: %w", err)
	}

	return s.baseURL + pdfURLPrefix + "/" + filename, nil
}

func (s *WorksheetService) recordGeneration(ctx context.Context, req domain.WorksheetRequest, pdfURL string) string {
	metadata := map[string]any{
		"worksheet_type": string(req.WorksheetType),
		"subject":        req.Subject,
		"grade":          req.Grade,
		"topic":          req.Topic,
		"pdf_url":        pdfURL,
	}
	content := fmt.Sprintf("Generated %s worksheet for %s, grade %s, topic: %s",
		req.WorksheetType, req.Subject, req.Grade, req.Topic)

	sessionID, err := s.sessions.AppendMessage(ctx, req.UserID, content, string(domain.AgentWorksheet), metadata)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", req.UserID).Msg("failed to record worksheet generation")
		return ""
	}
	return sessionID
}
