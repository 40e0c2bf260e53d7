// Package cache stores generated suggestion lists keyed by a normalized lookup string and language.
// Entries never expire; a newer generation overwrites the stored payload.
package cache

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/resume-ai/internal/types"
)

// Namespaces of the shared cache table
const (
	NamespaceJobTitleAchievements = "job-title-achievements"
	NamespaceProfessionSkills     = "profession-skills"
	NamespaceValidatedProfessions = "validated-professions"
)

// Entry is one cached payload
type Entry struct {
	Key       string         `json:"key"`
	Language  types.Language `json:"language"`
	Payload   []string       `json:"payload"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Store persists entries. Get returns nil without error on a miss.
type Store interface {
	Get(ctx context.Context, namespace, key string, lang types.Language) (*Entry, error)
	// Put inserts or overwrites an entry; CreatedAt of an existing entry is kept
	Put(ctx context.Context, namespace string, e Entry) error
}

// NormalizeKey lower-cases s, trims it and collapses internal whitespace to single spaces.
func NormalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Cache is a Store view bound to one namespace.
type Cache struct {
	store     Store
	namespace string
	now       func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// Option configures a Cache
type Option func(*Cache)

// WithClock replaces the time source
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithRand replaces the random source used by SampleN
func WithRand(r *rand.Rand) Option {
	return func(c *Cache) { c.rnd = r }
}

// New creates a cache over store for one namespace.
func New(store Store, namespace string, opts ...Option) *Cache {
	c := &Cache{
		store:     store,
		namespace: namespace,
		now:       time.Now,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the entry for key in lang, or nil on a miss.
func (c *Cache) Get(ctx context.Context, key string, lang types.Language) (*Entry, error) {
	return c.store.Get(ctx, c.namespace, NormalizeKey(key), lang)
}

// Put stores payload for key in lang, replacing any previous payload.
func (c *Cache) Put(ctx context.Context, key string, payload []string, lang types.Language) error {
	now := c.now().UTC()
	return c.store.Put(ctx, c.namespace, Entry{
		Key:       NormalizeKey(key),
		Language:  lang,
		Payload:   append([]string(nil), payload...),
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// SampleN returns n distinct items of payload in random order, or a copy of the whole payload
// when it has n items or fewer.
func (c *Cache) SampleN(payload []string, n int) []string {
	if n <= 0 {
		return []string{}
	}
	if len(payload) <= n {
		return append([]string(nil), payload...)
	}

	c.mu.Lock()
	perm := c.rnd.Perm(len(payload))
	c.mu.Unlock()

	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = payload[perm[i]]
	}
	return out
}
