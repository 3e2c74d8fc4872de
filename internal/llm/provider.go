package llm

import "context"

// CompletionRequest is a single system+user exchange. Every LLM call the
// pipeline makes (analysis, walkthrough, frame generation) is independent,
// so providers only need request/response completion.
type CompletionRequest struct {
	System    string
	Prompt    string
	MaxTokens int // 0 means provider default
}

// Provider abstracts the explanation model (Claude, GPT, Gemini)
type Provider interface {
	// Name returns the provider name
	Name() string

	// IsEnabled returns whether the provider is configured with valid credentials
	IsEnabled() bool

	// Complete sends one prompt and returns the model's text output
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Each provider package (providers/claude, providers/openai,
// providers/gemini) exports a NewProvider function that cmd/leetviz
// calls directly, avoiding import cycles.
