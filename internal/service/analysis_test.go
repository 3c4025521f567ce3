package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/purva-labs/sahayak-api/internal/domain"
)

func validAnalysisRequest() domain.AnalysisRequest {
	return domain.AnalysisRequest{
		Target: domain.AnalysisKeyPoints,
		Format: domain.FormatBulletPoints,
		Depth:  domain.DepthModerate,
		Length: domain.LengthBrief,
	}
}

func TestAnalysisService_Analyze_PDF(t *testing.T) {
	provider := new(MockProvider)
	svc := NewAnalysisService(provider, newTestSessions(), zerolog.Nop())

	data := []byte("%PDF-1.4 fake")
	provider.On("GenerateFromMedia", mock.Anything, mock.Anything, data, "application/pdf").
		Return("• Point one\n• Point two", nil)

	resp, err := svc.Analyze(context.Background(), validAnalysisRequest(), data, "application/pdf")

	assert.NoError(t, err)
	assert.Equal(t, "pdf", resp.SourceType)
	assert.Equal(t, "english", resp.Language)
	assert.Equal(t, domain.AnalysisKeyPoints, resp.Target)
	assert.Contains(t, resp.Content, "Point one")
}

func TestAnalysisService_Analyze_ImageRecordsSession(t *testing.T) {
	provider := new(MockProvider)
	svc := NewAnalysisService(provider, newTestSessions(), zerolog.Nop())

	provider.On("GenerateFromMedia", mock.Anything, mock.Anything, mock.Anything, "image/png").
		Return("summary", nil)

	req := validAnalysisRequest()
	req.UserID = "teacher42"

	resp, err := svc.Analyze(context.Background(), req, []byte{0x89, 0x50}, "image/png")

	assert.NoError(t, err)
	assert.Equal(t, "image", resp.SourceType)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "teacher42", resp.UserID)
}

func TestAnalysisService_Analyze_StampsGenerationContext(t *testing.T) {
	provider := new(MockProvider)
	sessions := newTestSessions()
	svc := NewAnalysisService(provider, sessions, zerolog.Nop())

	provider.On("GenerateFromMedia", mock.Anything, mock.Anything, mock.Anything, "image/png").
		Return("summary", nil)

	req := validAnalysisRequest()
	req.UserID = "teacher42"

	resp, err := svc.Analyze(context.Background(), req, []byte{0x89, 0x50}, "image/png")
	assert.NoError(t, err)

	session, err := sessions.GetSessionByID(context.Background(), resp.SessionID, "teacher42")
	assert.NoError(t, err)
	generation, ok := session.Context["last_content_generation"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "image", generation["source_type"])
	assert.Equal(t, string(domain.FormatBulletPoints), generation["output_format"])
}

func TestAnalysisService_Analyze_UnsupportedMediaType(t *testing.T) {
	provider := new(MockProvider)
	svc := NewAnalysisService(provider, newTestSessions(), zerolog.Nop())

	_, err := svc.Analyze(context.Background(), validAnalysisRequest(), []byte("hello"), "text/plain")

	assert.ErrorIs(t, err, domain.ErrValidation)
	provider.AssertNotCalled(t, "GenerateFromMedia", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalysisService_Analyze_EmptyUpload(t *testing.T) {
	provider := new(MockProvider)
	svc := NewAnalysisService(provider, newTestSessions(), zerolog.Nop())

	_, err := svc.Analyze(context.Background(), validAnalysisRequest(), nil, "image/png")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAnalysisService_Analyze_ProviderFailure(t *testing.T) {
	provider := new(MockProvider)
	svc := NewAnalysisService(provider, newTestSessions(), zerolog.Nop())

	provider.On("GenerateFromMedia", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("deadline exceeded"))

	_, err := svc.Analyze(context.Background(), validAnalysisRequest(), []byte{1, 2, 3}, "image/jpeg")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "content analysis")
}
