package gemini

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"leetviz/internal/llm"
	"leetviz/pkg/types"
)

// Provider implements llm.Provider for Google Gemini
type Provider struct {
	client    *genai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	enabled   bool
}

// NewProvider creates a new Gemini provider
func NewProvider(config types.GoogleConfig) (*Provider, error) {
	if config.APIKey == "" {
		return &Provider{enabled: false}, nil
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: config.APIKey,
	})
	if err != nil {
		return nil, err
	}

	return &Provider{
		client:    client,
		model:     config.Model,
		maxTokens: config.MaxTokens,
		timeout:   config.Timeout,
		enabled:   true,
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "gemini"
}

// IsEnabled returns whether the provider is configured
func (p *Provider) IsEnabled() bool {
	return p.enabled
}

// Complete sends a single prompt and returns the text response
func (p *Provider) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	if !p.enabled {
		return "", fmt.Errorf("gemini provider is not configured")
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(req.System)},
		}
	}
	switch {
	case req.MaxTokens > 0:
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	case p.maxTokens > 0:
		cfg.MaxOutputTokens = int32(p.maxTokens)
	}

	response, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := response.Text()
	if text == "" {
		return "", fmt.Errorf("Gemini returned no text content")
	}
	return text, nil
}
