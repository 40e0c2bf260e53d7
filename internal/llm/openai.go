package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/jonathan/resume-ai/internal/config"
)

const (
	openAIDefaultMaxTokens   = 16000
	openAIDefaultTemperature = 0.1
	groqDefaultMaxTokens     = 20000
	groqDefaultTemperature   = 0.1
)

// OpenAIAdapter calls an OpenAI-compatible chat completions endpoint.
// It serves both OpenAI and Groq, which differ only in base URL and defaults.
type OpenAIAdapter struct {
	provider           Provider
	client             *resty.Client
	ceilings           map[string]int
	defaultMaxTokens   int
	defaultTemperature float64
	logger             *zap.Logger
}

// NewOpenAIAdapter creates an adapter for the OpenAI API.
func NewOpenAIAdapter(cfg config.ProviderConfig, timeout time.Duration, logger *zap.Logger) (*OpenAIAdapter, error) {
	return newChatCompletionsAdapter(ProviderOpenAI, cfg, timeout, openAIDefaultMaxTokens, openAIDefaultTemperature, logger)
}

// NewGroqAdapter creates an adapter for Groq's OpenAI-compatible API.
func NewGroqAdapter(cfg config.ProviderConfig, timeout time.Duration, logger *zap.Logger) (*OpenAIAdapter, error) {
	return newChatCompletionsAdapter(ProviderGroq, cfg, timeout, groqDefaultMaxTokens, groqDefaultTemperature, logger)
}

func newChatCompletionsAdapter(p Provider, cfg config.ProviderConfig, timeout time.Duration, maxTokens int, temperature float64, logger *zap.Logger) (*OpenAIAdapter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", p)
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%s base URL is required", p)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &OpenAIAdapter{
		provider:           p,
		client:             client,
		ceilings:           cfg.TokenCeilings,
		defaultMaxTokens:   maxTokens,
		defaultTemperature: temperature,
		logger:             logger,
	}, nil
}

// Name returns the provider this adapter talks to
func (a *OpenAIAdapter) Name() Provider {
	return a.provider
}

// Complete sends one chat completion request.
func (a *OpenAIAdapter) Complete(ctx context.Context, prompt string, opts Options) (*Response, error) {
	model := opts.Model
	maxTokens := ClampTokens(opts.maxTokens(a.defaultMaxTokens), TokenCeiling(model, a.ceilings))

	body := map[string]any{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": opts.system()},
			{"role": "user", "content": prompt},
		},
	}
	if RestrictedParameters(model) {
		body["max_completion_tokens"] = maxTokens
	} else {
		body["max_tokens"] = maxTokens
		body["temperature"] = opts.temperature(a.defaultTemperature)
	}
	if opts.JSON {
		body["response_format"] = map[string]string{"type": "json_object"}
	}

	a.logger.Debug("[llm] chat completion request",
		zap.String("provider", string(a.provider)),
		zap.String("model", model),
		zap.Int("max_tokens", maxTokens),
		zap.Bool("json", opts.JSON))

	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		return nil, &UpstreamError{Provider: a.provider, Model: model, Message: "request failed", Cause: err}
	}
	raw := resp.String()
	if resp.IsError() {
		msg := gjson.Get(raw, "error.message").String()
		if msg == "" {
			msg = resp.Status()
		}
		return nil, &UpstreamError{Provider: a.provider, Model: model, StatusCode: resp.StatusCode(), Message: msg}
	}

	content := gjson.Get(raw, "choices.0.message.content").String()
	if strings.TrimSpace(content) == "" {
		return nil, &UpstreamError{Provider: a.provider, Model: model, StatusCode: resp.StatusCode(), Message: "empty content in response"}
	}

	usage := gjson.Get(raw, "usage")
	return &Response{
		Content: content,
		Usage: Usage{
			PromptTokens:     int(usage.Get("prompt_tokens").Int()),
			CompletionTokens: int(usage.Get("completion_tokens").Int()),
			TotalTokens:      int(usage.Get("total_tokens").Int()),
			CachedTokens:     int(usage.Get("prompt_tokens_details.cached_tokens").Int()),
		},
		Provider: a.provider,
		Model:    model,
	}, nil
}
