package cache

import (
	"context"
	"sync"

	"github.com/jonathan/resume-ai/internal/types"
)

type memoryKey struct {
	namespace string
	key       string
	language  types.Language
}

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[memoryKey]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[memoryKey]Entry)}
}

func (s *MemoryStore) Get(ctx context.Context, namespace, key string, lang types.Language) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	e, ok := s.entries[memoryKey{namespace, key, lang}]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	e.Payload = append([]string(nil), e.Payload...)
	return &e, nil
}

func (s *MemoryStore) Put(ctx context.Context, namespace string, e Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k := memoryKey{namespace, e.Key, e.Language}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.entries[k]; ok {
		e.CreatedAt = existing.CreatedAt
	}
	e.Payload = append([]string(nil), e.Payload...)
	s.entries[k] = e
	return nil
}

// Len returns the number of stored entries
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
