// Package ratelimit provides per-user, per-endpoint fixed-window rate limiting with refunds.
package ratelimit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-ai/internal/config"
)

// Window is the request count of one user on one endpoint within the active window.
type Window struct {
	Key         string
	UserID      string
	Endpoint    string
	Count       int
	WindowStart time.Time
	// ExpiresAt is when the record may be purged from the store
	ExpiresAt time.Time
}

// Hit is one request to apply to a window
type Hit struct {
	Key       string
	UserID    string
	Endpoint  string
	Now       time.Time
	Max       int
	Window    time.Duration
	Retention time.Duration
}

// Store persists windows. Apply must read, decide and write a window as one step.
type Store interface {
	// Apply counts one request against the window at h.Key and reports whether it is allowed
	Apply(ctx context.Context, h Hit) (Window, bool, error)
	// Refund gives one request back; it reports false when there was nothing to refund
	Refund(ctx context.Context, key string) (bool, error)
	// DeleteExpired removes windows whose retention ended before now
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Key returns the store key of a user and endpoint
func Key(userID, endpoint string) string {
	return userID + "-" + endpoint
}

// advance applies one request to w in place and reports whether it is allowed.
// A window older than the window length is replaced by a new one holding this request.
func advance(w *Window, h Hit) bool {
	if w.WindowStart.IsZero() || h.Now.Sub(w.WindowStart) > h.Window {
		w.Count = 1
		w.WindowStart = h.Now
		w.ExpiresAt = h.Now.Add(h.Retention)
		return true
	}
	if w.Count >= h.Max {
		return false
	}
	w.Count++
	return true
}

// Limiter checks and refunds requests against a Store.
type Limiter struct {
	store  Store
	cfg    config.RateLimitConfig
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Limiter
type Option func(*Limiter)

// WithClock replaces the time source
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// NewLimiter creates a limiter over store using the per-endpoint limits in cfg.
func NewLimiter(store Store, cfg config.RateLimitConfig, logger *zap.Logger, opts ...Option) *Limiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Limiter{
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow checks a request against the configured limit of an endpoint for the caller's tier.
// When rate limiting is disabled every request is allowed.
func (l *Limiter) Allow(ctx context.Context, userID, endpoint string, isPremium bool) Info {
	if !l.cfg.Enabled {
		return Info{Allowed: true}
	}
	return l.Check(ctx, userID, endpoint, l.cfg.Limit(endpoint).Max(isPremium), l.cfg.Window())
}

// Check counts one request against the window of userID on endpoint.
// Requests without a user or endpoint are denied. When the store fails the request is allowed.
func (l *Limiter) Check(ctx context.Context, userID, endpoint string, max int, window time.Duration) Info {
	if userID == "" || endpoint == "" {
		return Info{Allowed: false, Limit: max, Remaining: 0}
	}

	now := l.now()
	w, allowed, err := l.store.Apply(ctx, Hit{
		Key:       Key(userID, endpoint),
		UserID:    userID,
		Endpoint:  endpoint,
		Now:       now,
		Max:       max,
		Window:    window,
		Retention: l.retention(),
	})
	if err != nil {
		l.logger.Error("[rate-limit] check failed, allowing request",
			zap.String("user_id", userID), zap.String("endpoint", endpoint), zap.Error(err))
		return Info{Allowed: true, Limit: max, Remaining: max, ResetTime: now.Add(window)}
	}

	reset := w.WindowStart.Add(window)
	if !allowed {
		retryAfter := reset.Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
		l.logger.Info("[rate-limit] limit exceeded",
			zap.String("user_id", userID), zap.String("endpoint", endpoint), zap.Int("limit", max))
		return Info{Allowed: false, Limit: max, Remaining: 0, ResetTime: reset, RetryAfter: retryAfter}
	}

	remaining := max - w.Count
	if remaining < 0 {
		remaining = 0
	}
	return Info{Allowed: true, Limit: max, Remaining: remaining, ResetTime: reset}
}

// Refund gives back one request to userID on endpoint. The count never drops below zero and
// a missing window is left alone. Failures are logged.
func (l *Limiter) Refund(ctx context.Context, userID, endpoint string) {
	if userID == "" || endpoint == "" {
		return
	}
	refunded, err := l.store.Refund(ctx, Key(userID, endpoint))
	if err != nil {
		l.logger.Error("[rate-limit] refund failed",
			zap.String("user_id", userID), zap.String("endpoint", endpoint), zap.Error(err))
		return
	}
	if refunded {
		l.logger.Info("[rate-limit] refunded",
			zap.String("user_id", userID), zap.String("endpoint", endpoint))
	}
}

// Purge deletes windows whose retention has ended.
func (l *Limiter) Purge(ctx context.Context) (int64, error) {
	return l.store.DeleteExpired(ctx, l.now())
}

func (l *Limiter) retention() time.Duration {
	if r := l.cfg.Retention(); r > 0 {
		return r
	}
	return time.Hour
}
