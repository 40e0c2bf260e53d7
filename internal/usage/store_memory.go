package usage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps usage in process memory. It is used when no database is configured
// and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	logs    []Record
	users   map[string]*UserSummary
	resumes map[string]*ResumeCost
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]*UserSummary),
		resumes: make(map[string]*ResumeCost),
	}
}

func (s *MemoryStore) AppendLog(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, rec)
	return nil
}

func (s *MemoryStore) AddUserUsage(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[rec.UserID]
	if !ok {
		u = &UserSummary{UserID: rec.UserID}
		s.users[rec.UserID] = u
	}
	u.TotalInputTokens += int64(rec.Usage.PromptTokens)
	u.TotalOutputTokens += int64(rec.Usage.CompletionTokens)
	u.TotalCostUSD += rec.CostUSD
	u.TotalAICalls++
	if rec.Timestamp.After(u.LastAICallAt) {
		u.LastAICallAt = rec.Timestamp
	}

	month := rec.Month()
	idx := -1
	for i := range u.Monthly {
		if u.Monthly[i].Month == month {
			idx = i
			break
		}
	}
	if idx < 0 {
		u.Monthly = append(u.Monthly, MonthlyStats{Month: month})
		idx = len(u.Monthly) - 1
	}
	m := &u.Monthly[idx]
	m.InputTokens += int64(rec.Usage.PromptTokens)
	m.OutputTokens += int64(rec.Usage.CompletionTokens)
	m.CostUSD += rec.CostUSD
	m.CallCount++
	return nil
}

func (s *MemoryStore) AddResumeCost(ctx context.Context, rec Record, category Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.resumes[rec.ResumeID]
	if !ok {
		r = &ResumeCost{ResumeID: rec.ResumeID, UserID: rec.UserID, CallBreakdown: make(map[Category]float64)}
		s.resumes[rec.ResumeID] = r
	}
	r.TotalInputTokens += int64(rec.Usage.PromptTokens)
	r.TotalOutputTokens += int64(rec.Usage.CompletionTokens)
	r.TotalCostUSD += rec.CostUSD
	r.CallBreakdown[category] += rec.CostUSD
	return nil
}

func (s *MemoryStore) UserSummary(ctx context.Context, userID string) (*UserSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	out := *u
	out.Monthly = append([]MonthlyStats(nil), u.Monthly...)
	sort.Slice(out.Monthly, func(i, j int) bool { return out.Monthly[i].Month > out.Monthly[j].Month })
	return &out, nil
}

func (s *MemoryStore) ResumeCost(ctx context.Context, resumeID string) (*ResumeCost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.resumes[resumeID]
	if !ok {
		return nil, nil
	}
	out := *r
	out.CallBreakdown = make(map[Category]float64, len(r.CallBreakdown))
	for k, v := range r.CallBreakdown {
		out.CallBreakdown[k] = v
	}
	return &out, nil
}

func (s *MemoryStore) RecentLogs(ctx context.Context, userID string, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for i := len(s.logs) - 1; i >= 0; i-- {
		if s.logs[i].UserID != userID {
			continue
		}
		out = append(out, s.logs[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.logs[:0]
	var n int64
	for _, rec := range s.logs {
		if rec.ExpiresAt.Before(now) {
			n++
			continue
		}
		kept = append(kept, rec)
	}
	s.logs = kept
	return n, nil
}
