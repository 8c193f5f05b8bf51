package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/hospital-chat/internal/config"
	"github.com/Rrens/hospital-chat/internal/llm"
	openai "github.com/sashabaranov/go-openai"
)

// Provider implements llm.Provider against the OpenAI chat completion API
type Provider struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewProvider creates a new OpenAI provider
func NewProvider(cfg config.OpenAIConfig) *Provider {
	return &Provider{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		client: openai.NewClient(cfg.APIKey),
	}
}

func (p *Provider) Name() string {
	return "openai"
}

func (p *Provider) AvailableModels() []string {
	return []string{
		"gpt-4o",
		"gpt-4o-mini",
		"gpt-4-turbo",
		"gpt-3.5-turbo",
	}
}

func (p *Provider) DefaultModel() string {
	if p.model != "" {
		return p.model
	}
	return "gpt-4o-mini"
}

func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

func (p *Provider) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if !p.IsConfigured() {
		return nil, fmt.Errorf("openai provider is not configured (missing API key)")
	}

	model := req.Model
	if model == "" {
		model = p.DefaultModel()
	}

	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: 0,
	})
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return nil, fmt.Errorf("openai generation error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from openai")
	}

	return &llm.Response{
		Text:       resp.Choices[0].Message.Content,
		Model:      model,
		TokensUsed: resp.Usage.TotalTokens,
		LatencyMs:  latency,
	}, nil
}
