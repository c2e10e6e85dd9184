package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiModel is the default Gemini model for summarization and Q&A.
const GeminiModel = "gemini-2.5-flash"

// GeminiProvider calls the Gemini API via the official genai SDK.
type GeminiProvider struct {
	apiKey string
	model  string
}

func NewGemini(apiKey, model string) *GeminiProvider {
	if model == "" {
		model = GeminiModel
	}
	return &GeminiProvider{apiKey: apiKey, model: model}
}

func (g *GeminiProvider) ID() ID { return Gemini }

func (g *GeminiProvider) Generate(ctx context.Context, req Request) (string, error) {
	if g.apiKey == "" {
		return "", errors.New("gemini: api key not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("gemini: create client: %w", err)
	}

	cfg := &genai.GenerateContentConfig{}
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}

	result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", errors.New("gemini: empty response")
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("gemini: no text parts in response")
	}
	return sb.String(), nil
}
