// Package usage records the token usage and cost of every AI call. Tracking never blocks or
// fails the call it describes: writes run in the background and their errors are only logged.
package usage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-ai/internal/config"
	"github.com/jonathan/resume-ai/internal/llm"
)

// IDPrefix starts every usage record ID
const IDPrefix = "ailog_"

// defaultWriteTimeout bounds the background writes of one record
const defaultWriteTimeout = 10 * time.Second

// Event describes one completed AI call
type Event struct {
	UserID    string
	ResumeID  string
	IsPremium bool
	// Endpoint is the usage endpoint name, e.g. "improveSection"
	Endpoint string
	Provider llm.Provider
	Model    string
	Usage    llm.Usage
}

// Tracker writes usage records asynchronously.
type Tracker struct {
	store     Store
	logger    *zap.Logger
	enabled   bool
	retention time.Duration
	timeout   time.Duration
	now       func() time.Time

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// Option configures a Tracker
type Option func(*Tracker)

// WithClock replaces the time source
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithWriteTimeout bounds the background writes of each record
func WithWriteTimeout(d time.Duration) Option {
	return func(t *Tracker) { t.timeout = d }
}

// NewTracker creates a tracker. A nil store or a disabled config yields a tracker that
// drops every event.
func NewTracker(store Store, cfg config.UsageConfig, logger *zap.Logger, opts ...Option) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{
		store:     store,
		logger:    logger,
		enabled:   cfg.Enabled && store != nil,
		retention: cfg.Retention(),
		timeout:   defaultWriteTimeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Track records an event in the background and returns immediately.
func (t *Tracker) Track(ev Event) {
	if t == nil || !t.enabled {
		return
	}
	if ev.UserID == "" {
		t.logger.Debug("[usage] skipping AI call without a user", zap.String("endpoint", ev.Endpoint))
		return
	}

	rec := t.NewRecord(ev)

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		t.logger.Warn("[usage] tracker closed, dropping usage record", zap.String("id", rec.ID))
		return
	}
	t.wg.Add(1)
	t.mu.Unlock()

	go func() {
		defer t.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()
		t.write(ctx, rec)
	}()
}

// NewRecord builds the record of an event: ID, timestamps and cost.
func (t *Tracker) NewRecord(ev Event) Record {
	ts := t.now().UTC()
	return Record{
		ID:        IDPrefix + uuid.NewString(),
		UserID:    ev.UserID,
		ResumeID:  ev.ResumeID,
		Endpoint:  ev.Endpoint,
		Provider:  ev.Provider,
		Model:     ev.Model,
		Usage:     ev.Usage,
		CostUSD:   CalculateCost(ev.Provider, ev.Model, ev.Usage),
		IsPremium: ev.IsPremium,
		Timestamp: ts,
		ExpiresAt: ts.Add(t.retention),
	}
}

// write performs the independent writes of one record in parallel and logs each failure
func (t *Tracker) write(ctx context.Context, rec Record) {
	fields := []zap.Field{
		zap.String("id", rec.ID),
		zap.String("user_id", rec.UserID),
		zap.String("endpoint", rec.Endpoint),
		zap.String("provider", string(rec.Provider)),
		zap.String("model", rec.Model),
	}

	var g errgroup.Group
	g.Go(func() error {
		if err := t.store.AppendLog(ctx, rec); err != nil {
			t.logger.Error("[usage] failed to log AI usage", append(fields, zap.Error(err))...)
			return err
		}
		t.logger.Info("[usage] AI usage logged", append(fields,
			zap.Int("tokens", rec.Usage.TotalTokens),
			zap.Float64("cost_usd", rec.CostUSD),
			zap.Bool("is_premium", rec.IsPremium))...)
		return nil
	})
	g.Go(func() error {
		if err := t.store.AddUserUsage(ctx, rec); err != nil {
			t.logger.Error("[usage] failed to update user aggregates", append(fields, zap.Error(err))...)
			return err
		}
		return nil
	})
	if rec.ResumeID != "" {
		category := CategoryFor(rec.Endpoint)
		g.Go(func() error {
			if err := t.store.AddResumeCost(ctx, rec, category); err != nil {
				t.logger.Error("[usage] failed to update resume cost", append(fields,
					zap.String("resume_id", rec.ResumeID), zap.Error(err))...)
				return err
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Close stops accepting events and waits for in-flight writes.
func (t *Tracker) Close() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	t.wg.Wait()
}

// Purge deletes usage records whose retention has ended.
func (t *Tracker) Purge(ctx context.Context) (int64, error) {
	if t == nil || t.store == nil {
		return 0, nil
	}
	n, err := t.store.DeleteExpired(ctx, t.now().UTC())
	if err != nil {
		return 0, err
	}
	t.logger.Info("[usage] purged expired usage records", zap.Int64("deleted", n))
	return n, nil
}
