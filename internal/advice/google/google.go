// Package google implements the advice.Generator port on top of the
// Generative Language API (Gemini).
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	genlang "google.golang.org/api/generativelanguage/v1beta"
	goption "google.golang.org/api/option"

	"fintrack/internal/advice"
)

// DefaultModel is used when GEMINI_MODEL is not set.
const DefaultModel = "gemini-2.5-flash"

type Client struct {
	svc   *genlang.Service
	model string
}

// Ensure interface conformance
var _ advice.Generator = (*Client)(nil)

// New creates a Gemini client with the given API key and model name.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("missing Gemini API key")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}

	svc, err := genlang.NewService(ctx, goption.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("generative language service: %w", err)
	}

	return &Client{svc: svc, model: model}, nil
}

// NewFromEnv creates a Gemini client from environment variables.
// Required: GEMINI_API_KEY. Optional: GEMINI_MODEL.
func NewFromEnv(ctx context.Context) (*Client, error) {
	return New(ctx, os.Getenv("GEMINI_API_KEY"), os.Getenv("GEMINI_MODEL"))
}

// Generate sends the prompt to the model and returns the first candidate's
// text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	req := &genlang.GenerateContentRequest{
		Contents: []*genlang.Content{
			{
				Role:  "user",
				Parts: []*genlang.Part{{Text: prompt}},
			},
		},
	}

	resp, err := c.svc.Models.GenerateContent("models/"+c.model, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := extractText(resp)
	if text == "" {
		return "", errors.New("empty model response")
	}
	return text, nil
}

func extractText(resp *genlang.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil {
				b.WriteString(part.Text)
			}
		}
		// First candidate only; the rest are alternates.
		break
	}
	return strings.TrimSpace(b.String())
}
