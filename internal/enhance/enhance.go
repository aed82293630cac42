// Package enhance rewrites post drafts with Gemini before publishing.
package enhance

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const rewritePrompt = `You are a helpful writing assistant. Your task is to improve the following text to make it more engaging, clear, and well-written while maintaining its original meaning and tone. Keep the same language as the input text.

Text to improve:
%s

Provide only the improved text without any explanations or additional commentary.`

// Enhancer rewrites a post draft. Implementations must return the rewritten
// text or an error; they never return an empty string on success.
type Enhancer interface {
	Enhance(ctx context.Context, content string) (string, error)
}

// GeminiEnhancer calls the Gemini API to rewrite drafts.
type GeminiEnhancer struct {
	client *genai.Client
	model  string
}

// NewGeminiEnhancer creates an Enhancer backed by the Gemini API.
func NewGeminiEnhancer(ctx context.Context, apiKey, model string) (*GeminiEnhancer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash-exp"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiEnhancer{client: client, model: model}, nil
}

// Enhance sends the draft through the rewrite prompt and returns the model's text.
func (e *GeminiEnhancer) Enhance(ctx context.Context, content string) (string, error) {
	prompt := fmt.Sprintf(rewritePrompt, content)

	result, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 ||
		result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	text := strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return text, nil
}
