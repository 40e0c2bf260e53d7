package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/resume-ai/internal/ratelimit"
	"github.com/jonathan/resume-ai/internal/types"
)

// Guard charges the caller's quota for an endpoint around a generation call.
type Guard struct {
	limiter *ratelimit.Limiter
	logger  *zap.Logger
}

// NewGuard creates a guard. A nil limiter lets every call through.
func NewGuard(limiter *ratelimit.Limiter, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{limiter: limiter, logger: logger}
}

// Do checks the quota of rc on endpoint, runs fn when allowed, and refunds the charged unit
// exactly once when fn fails with a provider or parse error. A denied call returns
// *RateLimitedError without running fn.
func (g *Guard) Do(ctx context.Context, rc types.AIRequestContext, endpoint string, fn func(context.Context) error) (ratelimit.Info, error) {
	if g.limiter == nil {
		return ratelimit.Info{Allowed: true}, fn(ctx)
	}

	info := g.limiter.Allow(ctx, rc.UserID, endpoint, rc.IsPremium)
	if !info.Allowed {
		return info, &RateLimitedError{
			Endpoint:   endpoint,
			Limit:      info.Limit,
			ResetTime:  info.ResetTime,
			RetryAfter: info.RetryAfter,
		}
	}

	err := fn(ctx)
	if err != nil && Refundable(err) {
		g.logger.Info("[pipeline] refunding quota after failed generation",
			zap.String("user_id", rc.UserID), zap.String("endpoint", endpoint), zap.Error(err))
		// the refund must land even when the caller's context is already cancelled
		g.limiter.Refund(context.WithoutCancel(ctx), rc.UserID, endpoint)
		if info.Remaining < info.Limit {
			info.Remaining++
		}
	}
	return info, err
}
