package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/arishali16742/SOW/internal/domain/ai"
)

const (
	defaultModel     = "gemini-2.0-flash"
	defaultMaxTokens = 4096
)

// Client implements ai.Client using Google's Gemini API
type Client struct {
	client      *genai.Client
	Model       string
	MaxTokens   int
	Temperature float32
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{client: client, Model: model}, nil
}

func (c *Client) Generate(ctx context.Context, p ai.Prompt) (string, error) {
	maxTokens := c.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	config := &genai.GenerateContentConfig{
		MaxOutputTokens:  genai.Ptr(int32(maxTokens)),
		Temperature:      genai.Ptr(c.Temperature),
		ResponseMIMEType: "application/json",
	}
	if p.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: p.System}},
		}
	}

	result, err := c.client.Models.GenerateContent(ctx, c.Model, []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: p.User}},
		},
	}, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", classify(err))
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", ai.InvalidOutput(p.Name, "", "no content generated")
	}
	var b strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String(), nil
}

// classify relies on the status text the API puts in every error message.
func classify(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(msg, "Error 429") {
		return fmt.Errorf("%w: %v", ai.ErrQuotaExceeded, err)
	}
	return fmt.Errorf("%w: %v", ai.ErrModelUnavailable, err)
}
