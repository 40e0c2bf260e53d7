package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-ai/internal/config"
)

func TestWithCallTimeout(t *testing.T) {
	ctx, cancel := withCallTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 40*time.Millisecond)

	select {
	case <-ctx.Done():
		assert.ErrorIs(t, ctx.Err(), context.DeadlineExceeded)
	case <-time.After(2 * time.Second):
		t.Fatal("call context never expired")
	}
}

func TestWithCallTimeout_KeepsEarlierDeadline(t *testing.T) {
	parent, cancelParent := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancelParent()
	want, _ := parent.Deadline()

	ctx, cancel := withCallTimeout(parent, time.Hour)
	defer cancel()
	got, ok := ctx.Deadline()
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestWithCallTimeout_Zero(t *testing.T) {
	ctx, cancel := withCallTimeout(context.Background(), 0)
	_, ok := ctx.Deadline()
	assert.False(t, ok)
	cancel()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestNewGeminiAdapter_KeepsTimeout(t *testing.T) {
	a, err := NewGeminiAdapter(context.Background(), config.ProviderConfig{APIKey: "test-key"}, 7*time.Second, nil)
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, 7*time.Second, a.timeout)
	assert.Equal(t, ProviderGemini, a.Name())

	_, err = NewGeminiAdapter(context.Background(), config.ProviderConfig{}, time.Second, nil)
	assert.Error(t, err)
}
