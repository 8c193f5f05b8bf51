package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name       string
	configured bool
	reply      string
	lastCtx    context.Context
}

func (p *fakeProvider) Name() string              { return p.name }
func (p *fakeProvider) AvailableModels() []string { return []string{"fake-1"} }
func (p *fakeProvider) DefaultModel() string      { return "fake-1" }
func (p *fakeProvider) IsConfigured() bool        { return p.configured }

func (p *fakeProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	p.lastCtx = ctx
	return &Response{Text: p.reply, Model: "fake-1"}, nil
}

func TestRouter_GenerateRoutesToDefault(t *testing.T) {
	router := NewRouter("fake", 0)
	provider := &fakeProvider{name: "fake", configured: true, reply: "answer"}
	router.RegisterProvider(provider)

	text, err := router.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "answer", text)
}

func TestRouter_GenerateAppliesRequestTimeout(t *testing.T) {
	router := NewRouter("fake", 30*time.Second)
	provider := &fakeProvider{name: "fake", configured: true, reply: "answer"}
	router.RegisterProvider(provider)

	before := time.Now()
	_, err := router.Generate(context.Background(), "prompt")
	require.NoError(t, err)

	deadline, ok := provider.lastCtx.Deadline()
	require.True(t, ok, "provider context should carry a deadline")
	assert.WithinDuration(t, before.Add(30*time.Second), deadline, time.Second)
}

func TestRouter_GenerateWithoutTimeoutKeepsCallerContext(t *testing.T) {
	router := NewRouter("fake", 0)
	provider := &fakeProvider{name: "fake", configured: true, reply: "answer"}
	router.RegisterProvider(provider)

	_, err := router.Generate(context.Background(), "prompt")
	require.NoError(t, err)

	_, ok := provider.lastCtx.Deadline()
	assert.False(t, ok)
}

func TestRouter_GenerateUnconfiguredProvider(t *testing.T) {
	router := NewRouter("fake", 0)
	router.RegisterProvider(&fakeProvider{name: "fake", configured: false})

	_, err := router.Generate(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestRouter_GetProviderUnknown(t *testing.T) {
	router := NewRouter("missing", 0)

	_, err := router.GetProvider("")
	assert.Error(t, err)
}
