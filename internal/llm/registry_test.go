package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-ai/internal/config"
)

type stubAdapter struct {
	provider Provider
}

func (s stubAdapter) Name() Provider { return s.provider }

func (s stubAdapter) Complete(_ context.Context, _ string, opts Options) (*Response, error) {
	return &Response{Content: "ok", Provider: s.provider, Model: opts.Model}, nil
}

func TestNewRegistry_OnlyConfiguredProviders(t *testing.T) {
	cfg := config.Default()
	cfg.Providers.Groq.APIKey = "gsk-test"

	r, err := NewRegistry(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	a, err := r.Get(ProviderGroq)
	require.NoError(t, err)
	assert.Equal(t, ProviderGroq, a.Name())

	_, err = r.Get(ProviderOpenAI)
	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Contains(t, upstream.Message, "not configured")
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewRegistryWith(stubAdapter{provider: ProviderOpenAI})
	r.Register(stubAdapter{provider: ProviderOpenAI})

	a, err := r.Get(ProviderOpenAI)
	require.NoError(t, err)

	resp, err := a.Complete(context.Background(), "p", Options{Model: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", resp.Model)
	assert.NoError(t, r.Close())
}

func TestUpstreamError_Format(t *testing.T) {
	cause := errors.New("connection reset")
	err := &UpstreamError{Provider: ProviderGroq, Model: "m", StatusCode: 503, Message: "request failed", Cause: cause}

	assert.Equal(t, "upstream generation failed (groq m): status 503: request failed: connection reset", err.Error())
	assert.True(t, errors.Is(err, cause))
}
