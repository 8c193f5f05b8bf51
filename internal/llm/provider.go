package llm

import "context"

// Request contains generation parameters. Temperature is fixed at 0 by all
// providers so classification-adjacent prompts stay deterministic.
type Request struct {
	Prompt string
	Model  string
}

// Response contains the generation result
type Response struct {
	Text       string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for text-generation providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Generate produces free text from a prompt
	Generate(ctx context.Context, req Request) (*Response, error)
}
