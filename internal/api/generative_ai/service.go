package generativeAI

import (
	"context"
	"fmt"
	"os"
	"time"

	"google.golang.org/genai"
)

// Apology is returned by callers that must hand back user-facing content
// even when the model is unavailable.
const Apology = "죄송해요, AI가 잠시 휴식 중이에요 ㅠㅠ"

// Generator is the narrow language-generation contract consumed by the
// pipeline. Callers decide how a failure degrades (fallback keyword,
// default intent, apology summary).
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

var _ Generator = (*AIClient)(nil)

type AIClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewAIClient(ctx context.Context, model string, timeout time.Duration) (*AIClient, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AIClient{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

func (ai *AIClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, ai.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0.7)}
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	txt := result.Text()
	if txt == "" {
		return "", fmt.Errorf("empty response from model %s", ai.model)
	}
	return txt, nil
}

// GenerateOrApology applies the degrade-to-content policy for narrative
// summaries: a generation failure becomes the fixed apology string, never
// an error.
func GenerateOrApology(ctx context.Context, g Generator, prompt string) string {
	txt, err := g.GenerateContent(ctx, prompt)
	if err != nil {
		return Apology
	}
	return txt
}
