// Package pipeline provides the generation entry points. Each runs the same sequence:
// prompt builder, provider selection, adapter call, usage tracking, response parsing and
// output validation.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-ai/internal/llm"
	"github.com/jonathan/resume-ai/internal/tasks"
	"github.com/jonathan/resume-ai/internal/types"
	"github.com/jonathan/resume-ai/internal/usage"
)

// suspiciousInputPreview is how much of a rejected input is logged
const suspiciousInputPreview = 100

// Pipeline runs generation tasks against the configured providers.
// It holds no per-call state and is safe for concurrent use.
type Pipeline struct {
	registry *llm.Registry
	selector *llm.Selector
	tracker  *usage.Tracker
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithClock replaces the time source used for resume metadata
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a pipeline. A nil tracker disables usage tracking.
func New(registry *llm.Registry, selector *llm.Selector, tracker *usage.Tracker, logger *zap.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pipeline{
		registry: registry,
		selector: selector,
		tracker:  tracker,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// call sends one prompt for a task on the tier of rc and records its usage.
// Usage is tracked as soon as the provider answers, before the content is parsed.
func (p *Pipeline) call(ctx context.Context, task tasks.Task, rc types.AIRequestContext, prompt string) (*llm.Response, error) {
	def, err := tasks.Get(task)
	if err != nil {
		return nil, err
	}
	choice := p.selector.ForTier(def.Tier(rc.IsPremium))

	adapter, err := p.registry.Get(choice.Provider)
	if err != nil {
		p.logger.Error("[pipeline] provider unavailable",
			zap.String("task", string(task)), zap.String("provider", string(choice.Provider)), zap.Error(err))
		return nil, err
	}

	start := time.Now()
	resp, err := adapter.Complete(ctx, prompt, def.Options(choice.Model))
	if err != nil {
		p.logger.Error("[pipeline] AI call failed",
			zap.String("task", string(task)),
			zap.String("choice", choice.String()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, err
	}
	if resp.Provider == "" {
		resp.Provider = choice.Provider
	}
	if resp.Model == "" {
		resp.Model = choice.Model
	}

	p.logger.Debug("[pipeline] AI call completed",
		zap.String("task", string(task)),
		zap.String("choice", choice.String()),
		zap.Int("tokens", resp.Usage.TotalTokens),
		zap.Duration("elapsed", time.Since(start)))

	p.tracker.Track(usage.Event{
		UserID:    rc.UserID,
		ResumeID:  rc.ResumeID,
		IsPremium: rc.IsPremium || def.ForcePremium,
		Endpoint:  def.UsageEndpoint,
		Provider:  resp.Provider,
		Model:     resp.Model,
		Usage:     resp.Usage,
	})
	return resp, nil
}

// LogSuspiciousActivity records a rejected input. Only the first characters of the input are kept.
func (p *Pipeline) LogSuspiciousActivity(userID, endpoint, reason, input string) {
	logSuspiciousActivity(p.logger, userID, endpoint, reason, input)
}

func logSuspiciousActivity(logger *zap.Logger, userID, endpoint, reason, input string) {
	runes := []rune(input)
	if len(runes) > suspiciousInputPreview {
		runes = runes[:suspiciousInputPreview]
	}
	logger.Warn("[security] suspicious activity detected",
		zap.String("user_id", userID),
		zap.String("endpoint", endpoint),
		zap.String("reason", reason),
		zap.String("input", string(runes)))
}
