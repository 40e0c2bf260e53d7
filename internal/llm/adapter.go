package llm

import (
	"context"
	"fmt"
	"time"
)

// DefaultSystemPrompt is sent when a call does not supply its own system prompt
const DefaultSystemPrompt = "You are an expert in human resources and professional resume writing. Generate optimized and structured CVs."

// Adapter is a single vendor's chat-completion endpoint.
// Every implementation clamps the requested output tokens to the model ceiling, reports
// normalized usage, and fails with *UpstreamError on transport errors, non-2xx responses,
// timeouts and empty content. Adapters never retry or fail over to another vendor.
type Adapter interface {
	// Name returns the provider this adapter talks to
	Name() Provider
	// Complete sends one prompt and returns the model's text
	Complete(ctx context.Context, prompt string, opts Options) (*Response, error)
}

// withCallTimeout bounds one vendor call. A zero timeout leaves ctx as it is;
// an earlier deadline already on ctx still applies.
func withCallTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// Options are the per-call generation settings
type Options struct {
	Model string
	// Temperature is nil to use the adapter default
	Temperature *float64
	// MaxTokens is zero to use the adapter default
	MaxTokens int
	// JSON asks the vendor for a JSON object response where supported
	JSON bool
	// System is empty to use DefaultSystemPrompt
	System string
}

// Float returns a pointer to v, for Options.Temperature
func Float(v float64) *float64 {
	return &v
}

func (o Options) temperature(def float64) float64 {
	if o.Temperature != nil {
		return *o.Temperature
	}
	return def
}

func (o Options) maxTokens(def int) int {
	if o.MaxTokens > 0 {
		return o.MaxTokens
	}
	return def
}

func (o Options) system() string {
	if o.System != "" {
		return o.System
	}
	return DefaultSystemPrompt
}

// Usage is the normalized token accounting of one call
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
	CachedTokens     int `json:"cached_tokens"`
}

// Response is the text and usage returned by an adapter
type Response struct {
	Content  string
	Usage    Usage
	Provider Provider
	Model    string
}

// UpstreamError is returned when a vendor call fails or returns no content.
// It is the only error type an Adapter returns.
type UpstreamError struct {
	Provider   Provider
	Model      string
	StatusCode int
	Message    string
	Cause      error
}

func (e *UpstreamError) Error() string {
	prefix := fmt.Sprintf("upstream generation failed (%s %s)", e.Provider, e.Model)
	if e.StatusCode != 0 {
		prefix = fmt.Sprintf("%s: status %d", prefix, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}
