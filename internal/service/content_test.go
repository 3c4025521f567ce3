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

func TestContentService_Generate(t *testing.T) {
	provider := new(MockProvider)
	svc := NewContentService(provider, zerolog.Nop())

	provider.On("GenerateContent", mock.Anything, mock.Anything, float32(educationalTemperature)).
		Return("Once upon a time in a village...", nil)

	resp := svc.Generate(context.Background(), domain.HyperLocalContentRequest{
		Topic:       "soil types",
		Language:    domain.LanguageMarathi,
		GradeLevels: []int{3, 4},
		ContentType: domain.ContentStory,
		Subject:     "science",
	})

	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, domain.AgentHyperLocal, resp.AgentType)
	assert.Equal(t, domain.LanguageMarathi, resp.Language)
	assert.Equal(t, "Once upon a time in a village...", resp.Response)
	assert.Equal(t, "soil types", resp.Metadata["topic"])
	assert.Equal(t, "story", resp.Metadata["content_type"])
}

func TestContentService_Generate_DefaultsApplied(t *testing.T) {
	provider := new(MockProvider)
	svc := NewContentService(provider, zerolog.Nop())

	var captured string
	provider.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.String(1) }).
		Return("content", nil)

	resp := svc.Generate(context.Background(), domain.HyperLocalContentRequest{Topic: "festivals"})

	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, domain.LanguageEnglish, resp.Language)
	assert.Contains(t, captured, "educational story")
	assert.Contains(t, captured, "Indian rural context")
}

func TestContentService_Generate_ProviderFailure(t *testing.T) {
	provider := new(MockProvider)
	svc := NewContentService(provider, zerolog.Nop())

	provider.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("model unavailable"))

	resp := svc.Generate(context.Background(), domain.HyperLocalContentRequest{
		Topic:    "water cycle",
		Language: domain.LanguageHindi,
	})

	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, domain.AgentHyperLocal, resp.AgentType)
	assert.Contains(t, resp.Response, "water cycle")
	assert.Equal(t, "model unavailable", resp.ErrorMessage)
}
