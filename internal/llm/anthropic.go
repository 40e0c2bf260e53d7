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
	anthropicVersion            = "2023-06-01"
	anthropicDefaultMaxTokens   = 20000
	anthropicDefaultTemperature = 0.5
)

// AnthropicAdapter calls the Anthropic messages API.
type AnthropicAdapter struct {
	client   *resty.Client
	ceilings map[string]int
	logger   *zap.Logger
}

// NewAnthropicAdapter creates an adapter for the Anthropic API.
func NewAnthropicAdapter(cfg config.ProviderConfig, timeout time.Duration, logger *zap.Logger) (*AnthropicAdapter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("anthropic base URL is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("x-api-key", cfg.APIKey).
		SetHeader("anthropic-version", anthropicVersion).
		SetHeader("Content-Type", "application/json")

	return &AnthropicAdapter{client: client, ceilings: cfg.TokenCeilings, logger: logger}, nil
}

// Name returns the provider this adapter talks to
func (a *AnthropicAdapter) Name() Provider {
	return ProviderAnthropic
}

// Complete sends one message request. Anthropic has no JSON response mode, so opts.JSON relies
// on the prompt's output contract.
func (a *AnthropicAdapter) Complete(ctx context.Context, prompt string, opts Options) (*Response, error) {
	model := opts.Model
	maxTokens := ClampTokens(opts.maxTokens(anthropicDefaultMaxTokens), TokenCeiling(model, a.ceilings))

	body := map[string]any{
		"model":       model,
		"max_tokens":  maxTokens,
		"temperature": opts.temperature(anthropicDefaultTemperature),
		"system":      opts.system(),
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	a.logger.Debug("[llm] messages request",
		zap.String("provider", string(ProviderAnthropic)),
		zap.String("model", model),
		zap.Int("max_tokens", maxTokens))

	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/messages")
	if err != nil {
		return nil, &UpstreamError{Provider: ProviderAnthropic, Model: model, Message: "request failed", Cause: err}
	}
	raw := resp.String()
	if resp.IsError() {
		msg := gjson.Get(raw, "error.message").String()
		if msg == "" {
			msg = resp.Status()
		}
		return nil, &UpstreamError{Provider: ProviderAnthropic, Model: model, StatusCode: resp.StatusCode(), Message: msg}
	}

	var sb strings.Builder
	for _, block := range gjson.Get(raw, "content").Array() {
		if block.Get("type").String() == "text" {
			sb.WriteString(block.Get("text").String())
		}
	}
	content := sb.String()
	if strings.TrimSpace(content) == "" {
		return nil, &UpstreamError{Provider: ProviderAnthropic, Model: model, StatusCode: resp.StatusCode(), Message: "empty content in response"}
	}

	usage := gjson.Get(raw, "usage")
	input := int(usage.Get("input_tokens").Int())
	output := int(usage.Get("output_tokens").Int())
	return &Response{
		Content: content,
		Usage: Usage{
			PromptTokens:     input,
			CompletionTokens: output,
			TotalTokens:      input + output,
			CachedTokens:     int(usage.Get("cache_read_input_tokens").Int()),
		},
		Provider: ProviderAnthropic,
		Model:    model,
	}, nil
}
