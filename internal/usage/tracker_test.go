package usage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/resume-ai/internal/config"
	"github.com/jonathan/resume-ai/internal/llm"
)

func TestMain(m *testing.M) {
	// the Gemini SDK's metrics worker starts when llm is imported and never stops
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

var trackerNow = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

func enabledConfig() config.UsageConfig {
	return config.UsageConfig{Enabled: true, RetentionDays: 90}
}

func sampleEvent() Event {
	return Event{
		UserID:    "user-1",
		ResumeID:  "resume-1",
		IsPremium: true,
		Endpoint:  "generateResume",
		Provider:  llm.ProviderOpenAI,
		Model:     "gpt-4o",
		Usage:     llm.Usage{PromptTokens: 1000, CompletionTokens: 1000, TotalTokens: 2000},
	}
}

func TestTracker_WritesLogAndAggregates(t *testing.T) {
	store := NewMemoryStore()
	tracker := NewTracker(store, enabledConfig(), nil, WithClock(func() time.Time { return trackerNow }))

	tracker.Track(sampleEvent())
	tracker.Close()

	ctx := context.Background()
	logs, err := store.RecentLogs(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)

	rec := logs[0]
	assert.True(t, strings.HasPrefix(rec.ID, IDPrefix))
	assert.Equal(t, trackerNow, rec.Timestamp)
	assert.Equal(t, trackerNow.Add(90*24*time.Hour), rec.ExpiresAt)
	assert.InDelta(t, 0.0125, rec.CostUSD, 1e-9)
	assert.True(t, rec.IsPremium)

	summary, err := store.UserSummary(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, int64(1000), summary.TotalInputTokens)
	assert.Equal(t, int64(1000), summary.TotalOutputTokens)
	assert.Equal(t, int64(1), summary.TotalAICalls)
	assert.Equal(t, trackerNow, summary.LastAICallAt)
	require.Len(t, summary.Monthly, 1)
	assert.Equal(t, "2025-03", summary.Monthly[0].Month)
	assert.Equal(t, int64(1), summary.Monthly[0].CallCount)

	cost, err := store.ResumeCost(ctx, "resume-1")
	require.NoError(t, err)
	require.NotNil(t, cost)
	assert.InDelta(t, 0.0125, cost.TotalCostUSD, 1e-9)
	assert.InDelta(t, 0.0125, cost.CallBreakdown[CategoryGeneration], 1e-9)
}

func TestTracker_MonthlyBucketsAccumulate(t *testing.T) {
	store := NewMemoryStore()
	now := trackerNow
	tracker := NewTracker(store, enabledConfig(), nil, WithClock(func() time.Time { return now }))

	ev := sampleEvent()
	ev.ResumeID = ""
	tracker.Track(ev)
	tracker.Track(ev)
	tracker.Close()

	next := NewTracker(store, enabledConfig(), nil, WithClock(func() time.Time { return now.AddDate(0, 1, 0) }))
	next.Track(ev)
	next.Close()

	summary, err := store.UserSummary(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, int64(3), summary.TotalAICalls)
	require.Len(t, summary.Monthly, 2)
	assert.Equal(t, "2025-04", summary.Monthly[0].Month)
	assert.Equal(t, int64(1), summary.Monthly[0].CallCount)
	assert.Equal(t, "2025-03", summary.Monthly[1].Month)
	assert.Equal(t, int64(2), summary.Monthly[1].CallCount)
	assert.Equal(t, int64(2000), summary.Monthly[1].InputTokens)
}

func TestTracker_NoResumeSkipsResumeCost(t *testing.T) {
	store := NewMemoryStore()
	tracker := NewTracker(store, enabledConfig(), nil)

	ev := sampleEvent()
	ev.ResumeID = ""
	tracker.Track(ev)
	tracker.Close()

	cost, err := store.ResumeCost(context.Background(), "resume-1")
	require.NoError(t, err)
	assert.Nil(t, cost)
}

func TestTracker_DisabledOrAnonymousDropsEvents(t *testing.T) {
	store := NewMemoryStore()

	disabled := NewTracker(store, config.UsageConfig{Enabled: false, RetentionDays: 90}, nil)
	disabled.Track(sampleEvent())
	disabled.Close()

	anonymous := NewTracker(store, enabledConfig(), nil)
	ev := sampleEvent()
	ev.UserID = ""
	anonymous.Track(ev)
	anonymous.Close()

	withoutStore := NewTracker(nil, enabledConfig(), nil)
	withoutStore.Track(sampleEvent())
	withoutStore.Close()

	var nilTracker *Tracker
	nilTracker.Track(sampleEvent())
	nilTracker.Close()

	logs, err := store.RecentLogs(context.Background(), "user-1", 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestTracker_DropsEventsAfterClose(t *testing.T) {
	store := NewMemoryStore()
	tracker := NewTracker(store, enabledConfig(), nil)
	tracker.Close()
	tracker.Track(sampleEvent())

	logs, err := store.RecentLogs(context.Background(), "user-1", 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

// blockingStore holds AppendLog until release is closed
type blockingStore struct {
	*MemoryStore
	release chan struct{}
}

func (s *blockingStore) AppendLog(ctx context.Context, rec Record) error {
	<-s.release
	return s.MemoryStore.AppendLog(ctx, rec)
}

func TestTracker_TrackDoesNotBlock(t *testing.T) {
	store := &blockingStore{MemoryStore: NewMemoryStore(), release: make(chan struct{})}
	tracker := NewTracker(store, enabledConfig(), nil)

	returned := make(chan struct{})
	go func() {
		tracker.Track(sampleEvent())
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("Track blocked on the store")
	}

	close(store.release)
	tracker.Close()

	logs, err := store.RecentLogs(context.Background(), "user-1", 0)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

// failingLogStore fails AppendLog only
type failingLogStore struct {
	*MemoryStore
}

func (s *failingLogStore) AppendLog(context.Context, Record) error {
	return errors.New("table unavailable")
}

func TestTracker_WriteFailuresAreLoggedAndIndependent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	store := &failingLogStore{MemoryStore: NewMemoryStore()}
	tracker := NewTracker(store, enabledConfig(), zap.New(core))

	tracker.Track(sampleEvent())
	tracker.Close()

	failures := logs.FilterMessage("[usage] failed to log AI usage").All()
	require.Len(t, failures, 1)
	assert.Equal(t, "table unavailable", failures[0].ContextMap()["error"])

	summary, err := store.UserSummary(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, int64(1), summary.TotalAICalls)

	cost, err := store.ResumeCost(context.Background(), "resume-1")
	require.NoError(t, err)
	assert.NotNil(t, cost)
}

func TestTracker_NewRecord(t *testing.T) {
	tracker := NewTracker(NewMemoryStore(), config.UsageConfig{Enabled: true, RetentionDays: 30}, nil,
		WithClock(func() time.Time { return trackerNow.In(time.FixedZone("CET", 3600)) }))

	a := tracker.NewRecord(sampleEvent())
	b := tracker.NewRecord(sampleEvent())

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, time.UTC, a.Timestamp.Location())
	assert.Equal(t, trackerNow, a.Timestamp)
	assert.Equal(t, trackerNow.Add(30*24*time.Hour), a.ExpiresAt)
	assert.Equal(t, "2025-03", a.Month())
}

func TestMemoryStore_DeleteExpired(t *testing.T) {
	store := NewMemoryStore()
	tracker := NewTracker(store, enabledConfig(), nil, WithClock(func() time.Time { return trackerNow }))
	ctx := context.Background()

	old := tracker.NewRecord(sampleEvent())
	fresh := tracker.NewRecord(sampleEvent())
	fresh.ExpiresAt = trackerNow.Add(365 * 24 * time.Hour)
	require.NoError(t, store.AppendLog(ctx, old))
	require.NoError(t, store.AppendLog(ctx, fresh))

	n, err := store.DeleteExpired(ctx, trackerNow.Add(100*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	logs, err := store.RecentLogs(ctx, "user-1", 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, fresh.ID, logs[0].ID)
}

func TestTracker_Purge(t *testing.T) {
	store := NewMemoryStore()
	tracker := NewTracker(store, enabledConfig(), nil, WithClock(func() time.Time { return trackerNow }))
	require.NoError(t, store.AppendLog(context.Background(), tracker.NewRecord(sampleEvent())))

	later := NewTracker(store, enabledConfig(), nil, WithClock(func() time.Time { return trackerNow.AddDate(1, 0, 0) }))
	n, err := later.Purge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var nilTracker *Tracker
	n, err = nilTracker.Purge(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
