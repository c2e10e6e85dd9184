package provider

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// GroqBaseURL is Groq's OpenAI-compatible endpoint.
	GroqBaseURL = "https://api.groq.com/openai/v1"
	// GroqModel is the default Groq model.
	GroqModel = "llama-3.3-70b-versatile"
)

// GroqProvider calls Groq through its OpenAI-compatible chat completions API
// using the official openai-go SDK with an overridden base URL.
type GroqProvider struct {
	apiKey string
	model  string
}

func NewGroq(apiKey, model string) *GroqProvider {
	if model == "" {
		model = GroqModel
	}
	return &GroqProvider{apiKey: apiKey, model: model}
}

func (g *GroqProvider) ID() ID { return Groq }

func (g *GroqProvider) Generate(ctx context.Context, req Request) (string, error) {
	if g.apiKey == "" {
		return "", errors.New("groq: api key not configured")
	}

	client := openai.NewClient(
		option.WithAPIKey(g.apiKey),
		option.WithBaseURL(GroqBaseURL),
	)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("groq: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("groq: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
