package align

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/eric0324/wisdom-video/internal/errs"
)

// ReasoningClient sends one prompt to the reasoning service and returns the
// raw text response. Calls are synchronous; callers impose timeouts through
// the context if they want one.
type ReasoningClient interface {
	GenerateContent(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

const placeholderAPIKey = "your-api-key-here"

// GeminiClient is the Gemini-backed ReasoningClient.
type GeminiClient struct {
	apiKey string
	model  string
}

// NewGeminiClient validates the credentials and returns a client. A missing
// or placeholder key yields a ConfigurationError, which callers use to
// select the fallback strategy before any guided attempt is made.
func NewGeminiClient(apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" || apiKey == placeholderAPIKey {
		return nil, &errs.ConfigurationError{Reason: "reasoning-service API key is not set"}
	}
	if model == "" {
		return nil, &errs.ConfigurationError{Reason: "reasoning-service model is not set"}
	}
	return &GeminiClient{apiKey: apiKey, model: model}, nil
}

func (c *GeminiClient) GenerateContent(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create reasoning client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, c.model, genai.Text(userPrompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.3),
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from reasoning service")
	}

	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return text, nil
}
