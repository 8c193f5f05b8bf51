package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Router manages generation providers and routes requests to the configured
// default. It also satisfies the engine's Generator contract so services
// depend on a single Generate call rather than provider plumbing.
type Router struct {
	providers       map[string]Provider
	defaultProvider string
	requestTimeout  time.Duration
	mu              sync.RWMutex
}

// NewRouter creates a new provider router. requestTimeout bounds each
// Generate call; zero means no per-call deadline beyond the caller's context.
func NewRouter(defaultProvider string, requestTimeout time.Duration) *Router {
	return &Router{
		providers:       make(map[string]Provider),
		defaultProvider: defaultProvider,
		requestTimeout:  requestTimeout,
	}
}

// RegisterProvider registers a generation provider
func (r *Router) RegisterProvider(provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[provider.Name()] = provider
}

// GetProvider returns a provider by name, or the default for ""
func (r *Router) GetProvider(name string) (Provider, error) {
	if name == "" {
		name = r.defaultProvider
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider not found: %s", name)
	}

	if !p.IsConfigured() {
		return nil, fmt.Errorf("provider not configured: %s", name)
	}

	return p, nil
}

// Generate routes a prompt to the default provider and returns its text
// output. This is the call the chat engine consumes.
func (r *Router) Generate(ctx context.Context, prompt string) (string, error) {
	p, err := r.GetProvider("")
	if err != nil {
		return "", err
	}

	if r.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.requestTimeout)
		defer cancel()
	}

	resp, err := p.Generate(ctx, Request{Prompt: prompt})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// DefaultProvider returns the default provider name
func (r *Router) DefaultProvider() string {
	return r.defaultProvider
}

// ProviderInfo contains information about a generation provider
type ProviderInfo struct {
	Name       string   `json:"name"`
	Models     []string `json:"models"`
	Default    bool     `json:"default"`
	Configured bool     `json:"configured"`
}

// GetProvidersInfo returns information about all registered providers
func (r *Router) GetProvidersInfo() []ProviderInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var infos []ProviderInfo
	for name, p := range r.providers {
		infos = append(infos, ProviderInfo{
			Name:       name,
			Models:     p.AvailableModels(),
			Default:    name == r.defaultProvider,
			Configured: p.IsConfigured(),
		})
	}
	return infos
}
