// Package services provides external service integrations and technical concerns like dispatch, generation, and tokens
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/salesloop/outreach/config"
	"google.golang.org/genai"
)

// GeneratorService produces outreach message bodies from a prompt
type GeneratorService interface {
	Generate(ctx context.Context, prompt string, maxLength int) (string, error)
}

// GenAIGeneratorService implements GeneratorService using Google's Gemini API
type GenAIGeneratorService struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGenAIGeneratorService creates a new GenAI-backed generator service
func NewGenAIGeneratorService(ctx context.Context, cfg *config.GeneratorConfig) (GeneratorService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("generator API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIGeneratorService{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
	}, nil
}

// Generate produces a message body for the given prompt. The result is
// trimmed and truncated to maxLength when the model overshoots.
func (g *GenAIGeneratorService) Generate(ctx context.Context, prompt string, maxLength int) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(g.temperature),
		},
	)
	if err != nil {
		return "", fmt.Errorf("GenAI generation failed: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("no content returned from generator")
	}

	if maxLength > 0 && len(text) > maxLength {
		text = text[:maxLength]
	}
	return text, nil
}

// MockGeneratorService implements GeneratorService for testing
type MockGeneratorService struct {
	Prompts []string

	// GenerateFunc overrides the default canned response when set
	GenerateFunc func(ctx context.Context, prompt string, maxLength int) (string, error)
}

// NewMockGeneratorService creates a new mock generator service
func NewMockGeneratorService() *MockGeneratorService {
	return &MockGeneratorService{
		Prompts: make([]string, 0),
	}
}

func (m *MockGeneratorService) Generate(ctx context.Context, prompt string, maxLength int) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, maxLength)
	}
	text := "Generated draft for: " + prompt
	if maxLength > 0 && len(text) > maxLength {
		text = text[:maxLength]
	}
	return text, nil
}
