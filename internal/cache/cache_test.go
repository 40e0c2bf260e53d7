package cache

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-ai/internal/types"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Senior Software Engineer", "senior software engineer"},
		{"  Senior   Software\tEngineer \n", "senior software engineer"},
		{"INGENIERO DE SOFTWARE", "ingeniero de software"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeKey(tt.in), "NormalizeKey(%q)", tt.in)
	}
}

func TestCache_GetIgnoresCasingAndWhitespace(t *testing.T) {
	c := New(NewMemoryStore(), NamespaceJobTitleAchievements)
	ctx := context.Background()
	payload := []string{"a", "b", "c", "d", "e"}

	require.NoError(t, c.Put(ctx, "senior software engineer", payload, types.LanguageEN))

	entry, err := c.Get(ctx, "Senior   Software Engineer", types.LanguageEN)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "senior software engineer", entry.Key)
	assert.Equal(t, payload, entry.Payload)
}

func TestCache_MissesAcrossLanguagesAndNamespaces(t *testing.T) {
	store := NewMemoryStore()
	achievements := New(store, NamespaceJobTitleAchievements)
	skills := New(store, NamespaceProfessionSkills)
	ctx := context.Background()

	require.NoError(t, achievements.Put(ctx, "nurse", []string{"x"}, types.LanguageES))

	entry, err := achievements.Get(ctx, "nurse", types.LanguageEN)
	require.NoError(t, err)
	assert.Nil(t, entry)

	entry, err = skills.Get(ctx, "nurse", types.LanguageES)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestCache_PutOverwritesPayloadAndKeepsCreatedAt(t *testing.T) {
	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := first
	c := New(NewMemoryStore(), NamespaceJobTitleAchievements, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "chef", []string{"old"}, types.LanguageEN))
	now = first.Add(48 * time.Hour)
	require.NoError(t, c.Put(ctx, "chef", []string{"new"}, types.LanguageEN))

	entry, err := c.Get(ctx, "chef", types.LanguageEN)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, []string{"new"}, entry.Payload)
	assert.Equal(t, first, entry.CreatedAt)
	assert.Equal(t, now, entry.UpdatedAt)
}

func TestCache_PayloadIsCopied(t *testing.T) {
	c := New(NewMemoryStore(), NamespaceJobTitleAchievements)
	ctx := context.Background()
	payload := []string{"a", "b"}

	require.NoError(t, c.Put(ctx, "k", payload, types.LanguageEN))
	payload[0] = "mutated"

	entry, err := c.Get(ctx, "k", types.LanguageEN)
	require.NoError(t, err)
	entry.Payload[1] = "mutated too"

	again, err := c.Get(ctx, "k", types.LanguageEN)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, again.Payload)
}

func TestCache_SampleN(t *testing.T) {
	c := New(NewMemoryStore(), NamespaceJobTitleAchievements, WithRand(rand.New(rand.NewSource(42))))
	payload := []string{"a", "b", "c", "d", "e"}

	for i := 0; i < 20; i++ {
		sample := c.SampleN(payload, 3)
		require.Len(t, sample, 3)

		seen := map[string]bool{}
		for _, s := range sample {
			assert.Contains(t, payload, s)
			assert.False(t, seen[s], "duplicate %q in sample", s)
			seen[s] = true
		}
	}

	assert.Equal(t, []string{"a", "b"}, c.SampleN([]string{"a", "b"}, 3))
	assert.Equal(t, payload, c.SampleN(payload, 5))
	assert.Empty(t, c.SampleN(payload, 0))
	assert.Empty(t, c.SampleN(nil, 3))
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, payload, "input must not be reordered")
}

func TestCache_SampleNIsDeterministicForASeed(t *testing.T) {
	payload := []string{"a", "b", "c", "d", "e", "f"}
	a := New(NewMemoryStore(), NamespaceJobTitleAchievements, WithRand(rand.New(rand.NewSource(7))))
	b := New(NewMemoryStore(), NamespaceJobTitleAchievements, WithRand(rand.New(rand.NewSource(7))))

	assert.Equal(t, a.SampleN(payload, 3), b.SampleN(payload, 3))
}

// failingStore fails every call
type failingStore struct{}

func (failingStore) Get(context.Context, string, string, types.Language) (*Entry, error) {
	return nil, errors.New("table missing")
}

func (failingStore) Put(context.Context, string, Entry) error {
	return errors.New("table missing")
}

func TestProfessionCache(t *testing.T) {
	store := NewMemoryStore()
	pc := NewProfessionCache(store, nil)
	ctx := context.Background()

	assert.False(t, pc.IsValid(ctx, "Software Engineer"))

	pc.Remember(ctx, "  Software Engineer ")
	assert.True(t, pc.IsValid(ctx, "software   engineer"))
	assert.True(t, pc.IsValid(ctx, "SOFTWARE ENGINEER"))
	assert.False(t, pc.IsValid(ctx, "Data Engineer"))

	entry, err := store.Get(ctx, NamespaceValidatedProfessions, "software engineer", "")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, []string{"Software Engineer"}, entry.Payload)
}

func TestProfessionCache_EmptyAndErrors(t *testing.T) {
	ctx := context.Background()

	pc := NewProfessionCache(NewMemoryStore(), nil)
	pc.Remember(ctx, "   ")
	assert.False(t, pc.IsValid(ctx, ""))
	assert.False(t, pc.IsValid(ctx, "   "))

	broken := NewProfessionCache(failingStore{}, nil)
	broken.Remember(ctx, "Teacher")
	assert.False(t, broken.IsValid(ctx, "Teacher"))
}
