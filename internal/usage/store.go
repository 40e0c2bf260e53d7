package usage

import (
	"context"
	"time"

	"github.com/jonathan/resume-ai/internal/llm"
)

// Record is one logged AI call. Records are append-only.
type Record struct {
	ID        string
	UserID    string
	ResumeID  string
	Endpoint  string
	Provider  llm.Provider
	Model     string
	Usage     llm.Usage
	CostUSD   float64
	IsPremium bool
	Timestamp time.Time
	// ExpiresAt is when the row may be purged
	ExpiresAt time.Time
}

// Month returns the aggregate bucket of the record, formatted YYYY-MM in UTC
func (r Record) Month() string {
	return r.Timestamp.UTC().Format("2006-01")
}

// MonthlyStats is one user's usage within a calendar month
type MonthlyStats struct {
	Month        string  `json:"month"`
	InputTokens  int64   `json:"inputTokens"`
	OutputTokens int64   `json:"outputTokens"`
	CostUSD      float64 `json:"costUSD"`
	CallCount    int64   `json:"callCount"`
}

// UserSummary is the running total of a user's AI usage
type UserSummary struct {
	UserID            string         `json:"userId"`
	TotalInputTokens  int64          `json:"totalInputTokens"`
	TotalOutputTokens int64          `json:"totalOutputTokens"`
	TotalCostUSD      float64        `json:"totalCostUSD"`
	TotalAICalls      int64          `json:"totalAICalls"`
	LastAICallAt      time.Time      `json:"lastAICallAt"`
	Monthly           []MonthlyStats `json:"monthlyStats"`
}

// ResumeCost is the running AI cost of one resume
type ResumeCost struct {
	ResumeID          string               `json:"resumeId"`
	UserID            string               `json:"userId"`
	TotalInputTokens  int64                `json:"totalInputTokens"`
	TotalOutputTokens int64                `json:"totalOutputTokens"`
	TotalCostUSD      float64              `json:"totalCostUSD"`
	CallBreakdown     map[Category]float64 `json:"callBreakdown"`
}

// Store persists usage records and their aggregates.
// The three write methods are independent; a failure in one does not undo another.
type Store interface {
	// AppendLog stores one record
	AppendLog(ctx context.Context, rec Record) error
	// AddUserUsage adds a record to the user totals and its monthly bucket
	AddUserUsage(ctx context.Context, rec Record) error
	// AddResumeCost adds a record's cost to the resume total and the category breakdown
	AddResumeCost(ctx context.Context, rec Record, category Category) error

	// UserSummary returns nil when the user has no usage
	UserSummary(ctx context.Context, userID string) (*UserSummary, error)
	// ResumeCost returns nil when the resume has no usage
	ResumeCost(ctx context.Context, resumeID string) (*ResumeCost, error)
	// RecentLogs returns a user's newest records first
	RecentLogs(ctx context.Context, userID string, limit int) ([]Record, error)
	// DeleteExpired removes records whose retention ended before now
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
