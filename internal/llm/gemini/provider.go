package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/purva-labs/sahayak-api/internal/config"
)

// Provider generates content through the Gemini API. A client is
// created per call so a dropped connection never poisons later
// requests.
type Provider struct {
	apiKey     string
	model      string
	imageModel string
}

func NewProvider(cfg config.GeminiConfig) *Provider {
	return &Provider{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		imageModel: cfg.ImageModel,
	}
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) DefaultModel() string {
	if p.model != "" {
		return p.model
	}
	return "gemini-2.5-flash"
}

func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

// safetySettings tuned for classroom content.
func safetySettings() []*genai.SafetySetting {
	return []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockOnlyHigh},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockMediumAndAbove},
	}
}

func (p *Provider) newModel(client *genai.Client, name string, temperature float32) *genai.GenerativeModel {
	model := client.GenerativeModel(name)
	model.Temperature = &temperature
	var topP float32 = 0.8
	model.TopP = &topP
	var topK int32 = 40
	model.TopK = &topK
	var maxTokens int32 = 2048
	model.MaxOutputTokens = &maxTokens
	model.SafetySettings = safetySettings()
	return model
}

func (p *Provider) generate(ctx context.Context, modelName string, temperature float32, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	if !p.IsConfigured() {
		return nil, fmt.Errorf("gemini provider is not configured (missing API key)")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := p.newModel(client, modelName, temperature)

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}
	return resp, nil
}

func collectText(resp *genai.GenerateContentResponse) string {
	var output string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			output += string(text)
		}
	}
	return output
}

func (p *Provider) GenerateContent(ctx context.Context, prompt string, temperature float32) (string, error) {
	resp, err := p.generate(ctx, p.DefaultModel(), temperature, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return collectText(resp), nil
}

func (p *Provider) GenerateFromMedia(ctx context.Context, prompt string, data []byte, mimeType string) (string, error) {
	resp, err := p.generate(ctx, p.DefaultModel(), 0.2,
		genai.Blob{MIMEType: mimeType, Data: data},
		genai.Text(prompt),
	)
	if err != nil {
		return "", err
	}
	return collectText(resp), nil
}

// GenerateImage renders an image with the image-capable model and
// returns the first inline image part.
func (p *Provider) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	modelName := p.imageModel
	if modelName == "" {
		modelName = "gemini-2.0-flash-preview-image-generation"
	}

	resp, err := p.generate(ctx, modelName, 0.7, genai.Text(prompt))
	if err != nil {
		return nil, "", err
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if blob, ok := part.(genai.Blob); ok {
			return blob.Data, blob.MIMEType, nil
		}
	}
	return nil, "", fmt.Errorf("no image data in gemini response")
}
