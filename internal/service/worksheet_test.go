package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/purva-labs/sahayak-api/internal/config"
	"github.com/purva-labs/sahayak-api/internal/domain"
)

const sampleWorksheet = `Photosynthesis Worksheet

1. What do plants need to make food?
A) Sunlight
B) Darkness
C) Plastic
D) Metal

2. The green pigment in leaves is called ____.

Answer Key
1. A
2. Chlorophyll`

func newTestWorksheets(t *testing.T, provider *MockProvider) *WorksheetService {
	t.Helper()
	svc, err := NewWorksheetService(provider, newTestSessions(), config.AssetsConfig{
		PDFDir:  t.TempDir(),
		BaseURL: "http://localhost:8080",
	}, zerolog.Nop())
	assert.NoError(t, err)
	return svc
}

func TestWorksheetService_Generate(t *testing.T) {
	provider := new(MockProvider)
	svc := newTestWorksheets(t, provider)

	provider.On("GenerateContent", mock.Anything, mock.Anything, float32(worksheetTemperature)).
		Return(sampleWorksheet, nil)

	resp, err := svc.Generate(context.Background(), domain.WorksheetRequest{
		Subject:       "Science",
		Grade:         "5",
		Topic:         "Photosynthesis",
		WorksheetType: domain.WorksheetMultipleChoice,
		NumQuestions:  2,
		UserID:        "teacher42",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.WorksheetMultipleChoice, resp.WorksheetType)
	assert.Equal(t, "Science", resp.Subject)
	assert.Equal(t, 2, resp.QuestionCount)
	assert.NotEmpty(t, resp.SessionID)
	assert.True(t, strings.HasPrefix(resp.PDFURL, "http://localhost:8080/generated_pdfs/worksheet_science_photosynthesis_multiple_choice_"))

	// The PDF must exist on disk under the configured directory.
	filename := filepath.Base(resp.PDFURL)
	_, statErr := os.Stat(filepath.Join(svc.pdfDir, filename))
	assert.NoError(t, statErr)
}

func TestWorksheetService_Generate_DefaultQuestionCount(t *testing.T) {
	provider := new(MockProvider)
	svc := newTestWorksheets(t, provider)

	provider.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(sampleWorksheet, nil)

	resp, err := svc.Generate(context.Background(), domain.WorksheetRequest{
		Subject:       "Math",
		Grade:         "3",
		Topic:         "Fractions",
		WorksheetType: domain.WorksheetShortAnswers,
	})

	assert.NoError(t, err)
	assert.Equal(t, defaultQuestionCount, resp.QuestionCount)
	assert.Empty(t, resp.SessionID)
	assert.Equal(t, "Math Fractions Short Answers Worksheet", resp.Title)
}

func TestWorksheetService_Generate_ProviderFailure(t *testing.T) {
	provider := new(MockProvider)
	svc := newTestWorksheets(t, provider)

	provider.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("model unavailable"))

	_, err := svc.Generate(context.Background(), domain.WorksheetRequest{
		Subject:       "Science",
		Grade:         "5",
		Topic:         "Plants",
		WorksheetType: domain.WorksheetFillInBlanks,
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "worksheet content generation")
}

func TestParseWorksheetContent(t *testing.T) {
	content := parseWorksheetContent(sampleWorksheet, true)

	assert.Equal(t, "Photosynthesis Worksheet", content.title)
	assert.Len(t, content.questions, 2)
	assert.Contains(t, content.questions[0], "What do plants need")
	assert.Contains(t, content.questions[1], "green pigment")
	assert.Contains(t, content.answers, "Chlorophyll")
}

func TestParseWorksheetContent_AnswersExcluded(t *testing.T) {
	content := parseWorksheetContent(sampleWorksheet, false)
	assert.Empty(t, content.answers)
	assert.Len(t, content.questions, 2)
}

func TestParseWorksheetContent_UnnumberedFallback(t *testing.T) {
	raw := "What is soil made of?\nWhy is water important?\n\nName three crops grown in your region."
	content := parseWorksheetContent(raw, true)
	assert.Len(t, content.questions, 2)
	assert.Empty(t, content.title)
	assert.Empty(t, content.answers)
}
