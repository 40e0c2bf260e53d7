package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps windows in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]Window
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]Window)}
}

func (s *MemoryStore) Apply(ctx context.Context, h Hit) (Window, bool, error) {
	if err := ctx.Err(); err != nil {
		return Window{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[h.Key]
	if !ok {
		w = Window{Key: h.Key, UserID: h.UserID, Endpoint: h.Endpoint}
	}
	allowed := advance(&w, h)
	s.windows[h.Key] = w
	return w, allowed, nil
}

func (s *MemoryStore) Refund(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || w.Count <= 0 {
		return false, nil
	}
	w.Count--
	s.windows[key] = w
	return true, nil
}

func (s *MemoryStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for key, w := range s.windows {
		if w.ExpiresAt.Before(now) {
			delete(s.windows, key)
			n++
		}
	}
	return n, nil
}

// Get returns a copy of the window at key, for inspection
func (s *MemoryStore) Get(key string) (Window, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[key]
	return w, ok
}
