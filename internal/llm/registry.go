package llm

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/jonathan/resume-ai/internal/config"
)

// Registry holds one adapter per configured provider.
// Providers without an API key are skipped; asking for them fails at call time.
type Registry struct {
	adapters map[Provider]Adapter
}

// NewRegistry builds the adapters for every provider that has credentials.
func NewRegistry(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Providers.Timeout()
	r := &Registry{adapters: make(map[Provider]Adapter)}

	if cfg.Providers.OpenAI.APIKey != "" {
		a, err := NewOpenAIAdapter(cfg.Providers.OpenAI, timeout, logger)
		if err != nil {
			return nil, err
		}
		r.Register(a)
	}
	if cfg.Providers.Groq.APIKey != "" {
		a, err := NewGroqAdapter(cfg.Providers.Groq, timeout, logger)
		if err != nil {
			return nil, err
		}
		r.Register(a)
	}
	if cfg.Providers.Anthropic.APIKey != "" {
		a, err := NewAnthropicAdapter(cfg.Providers.Anthropic, timeout, logger)
		if err != nil {
			return nil, err
		}
		r.Register(a)
	}
	if cfg.Providers.Gemini.APIKey != "" {
		a, err := NewGeminiAdapter(ctx, cfg.Providers.Gemini, timeout, logger)
		if err != nil {
			_ = r.Close()
			return nil, err
		}
		r.Register(a)
	}

	if len(r.adapters) == 0 {
		logger.Warn("[llm] no provider credentials configured; every generation call will fail")
	}
	return r, nil
}

// NewRegistryWith creates a registry from prebuilt adapters.
func NewRegistryWith(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[Provider]Adapter, len(adapters))}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// Register adds or replaces the adapter for its provider.
func (r *Registry) Register(a Adapter) {
	r.adapters[a.Name()] = a
}

// Get returns the adapter for a provider.
func (r *Registry) Get(p Provider) (Adapter, error) {
	a, ok := r.adapters[p]
	if !ok {
		return nil, &UpstreamError{Provider: p, Message: fmt.Sprintf("provider %q is not configured", p)}
	}
	return a, nil
}

// Close releases adapters that hold resources.
func (r *Registry) Close() error {
	var errs []error
	for _, a := range r.adapters {
		if c, ok := a.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
