package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/jonathan/resume-ai/internal/config"
)

const (
	geminiDefaultMaxTokens   = 8192
	geminiDefaultTemperature = 0.1
)

// GeminiAdapter implements Adapter for Google Gemini
type GeminiAdapter struct {
	client   *genai.Client
	timeout  time.Duration
	ceilings map[string]int
	logger   *zap.Logger
}

// NewGeminiAdapter creates a new Gemini adapter. Every call is bounded by timeout.
func NewGeminiAdapter(ctx context.Context, cfg config.ProviderConfig, timeout time.Duration, logger *zap.Logger) (*GeminiAdapter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiAdapter{client: client, timeout: timeout, ceilings: cfg.TokenCeilings, logger: logger}, nil
}

// Name returns the provider this adapter talks to
func (a *GeminiAdapter) Name() Provider {
	return ProviderGemini
}

// Complete generates content with the requested model
func (a *GeminiAdapter) Complete(ctx context.Context, prompt string, opts Options) (*Response, error) {
	modelName := opts.Model
	maxTokens := ClampTokens(opts.maxTokens(geminiDefaultMaxTokens), TokenCeiling(modelName, a.ceilings))

	model := a.client.GenerativeModel(modelName)
	model.SetTemperature(float32(opts.temperature(geminiDefaultTemperature)))
	model.SetMaxOutputTokens(int32(maxTokens))
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(opts.system())}}
	if opts.JSON {
		model.ResponseMIMEType = "application/json"
	}

	a.logger.Debug("[llm] generate content request",
		zap.String("provider", string(ProviderGemini)),
		zap.String("model", modelName),
		zap.Int("max_tokens", maxTokens))

	ctx, cancel := withCallTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, &UpstreamError{Provider: ProviderGemini, Model: modelName, Message: "failed to generate content", Cause: err}
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, &UpstreamError{Provider: ProviderGemini, Model: modelName, Message: err.Error()}
	}

	out := &Response{Content: text, Provider: ProviderGemini, Model: modelName}
	if md := resp.UsageMetadata; md != nil {
		out.Usage = Usage{
			PromptTokens:     int(md.PromptTokenCount),
			CompletionTokens: int(md.CandidatesTokenCount),
			TotalTokens:      int(md.TotalTokenCount),
			CachedTokens:     int(md.CachedContentTokenCount),
		}
	}
	return out, nil
}

// Close releases resources held by the client
func (a *GeminiAdapter) Close() error {
	if a.client != nil {
		return a.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	text := strings.Join(parts, "")
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text parts in response")
	}
	return text, nil
}
