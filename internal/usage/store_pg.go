package usage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/resume-ai/internal/llm"
)

// PGStore is the Postgres-backed usage store
type PGStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed usage store.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{DB: db}
}

func (s *PGStore) AppendLog(ctx context.Context, rec Record) error {
	var resumeID any
	if rec.ResumeID != "" {
		resumeID = rec.ResumeID
	}
	_, err := s.DB.ExecContext(ctx, `
INSERT INTO ai_usage_logs (id, user_id, resume_id, endpoint, provider, model,
	input_tokens, output_tokens, total_tokens, cached_tokens, cost_usd, is_premium, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		rec.ID, rec.UserID, resumeID, rec.Endpoint, string(rec.Provider), rec.Model,
		rec.Usage.PromptTokens, rec.Usage.CompletionTokens, rec.Usage.TotalTokens, rec.Usage.CachedTokens,
		rec.CostUSD, rec.IsPremium, rec.Timestamp, rec.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to append usage log: %w", err)
	}
	return nil
}

func (s *PGStore) AddUserUsage(ctx context.Context, rec Record) (err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin user usage update: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
INSERT INTO ai_user_usage (user_id, total_input_tokens, total_output_tokens, total_cost_usd, total_calls, last_call_at)
VALUES ($1, $2, $3, $4, 1, $5)
ON CONFLICT (user_id) DO UPDATE SET
	total_input_tokens = ai_user_usage.total_input_tokens + EXCLUDED.total_input_tokens,
	total_output_tokens = ai_user_usage.total_output_tokens + EXCLUDED.total_output_tokens,
	total_cost_usd = ai_user_usage.total_cost_usd + EXCLUDED.total_cost_usd,
	total_calls = ai_user_usage.total_calls + 1,
	last_call_at = GREATEST(ai_user_usage.last_call_at, EXCLUDED.last_call_at)`,
		rec.UserID, rec.Usage.PromptTokens, rec.Usage.CompletionTokens, rec.CostUSD, rec.Timestamp); err != nil {
		return fmt.Errorf("failed to update user usage: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `
INSERT INTO ai_user_usage_monthly (user_id, month, input_tokens, output_tokens, cost_usd, call_count)
VALUES ($1, $2, $3, $4, $5, 1)
ON CONFLICT (user_id, month) DO UPDATE SET
	input_tokens = ai_user_usage_monthly.input_tokens + EXCLUDED.input_tokens,
	output_tokens = ai_user_usage_monthly.output_tokens + EXCLUDED.output_tokens,
	cost_usd = ai_user_usage_monthly.cost_usd + EXCLUDED.cost_usd,
	call_count = ai_user_usage_monthly.call_count + 1`,
		rec.UserID, rec.Month(), rec.Usage.PromptTokens, rec.Usage.CompletionTokens, rec.CostUSD); err != nil {
		return fmt.Errorf("failed to update monthly usage: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user usage: %w", err)
	}
	return nil
}

func (s *PGStore) AddResumeCost(ctx context.Context, rec Record, category Category) (err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin resume cost update: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
INSERT INTO ai_resume_costs (resume_id, user_id, total_input_tokens, total_output_tokens, total_cost_usd)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (resume_id) DO UPDATE SET
	total_input_tokens = ai_resume_costs.total_input_tokens + EXCLUDED.total_input_tokens,
	total_output_tokens = ai_resume_costs.total_output_tokens + EXCLUDED.total_output_tokens,
	total_cost_usd = ai_resume_costs.total_cost_usd + EXCLUDED.total_cost_usd`,
		rec.ResumeID, rec.UserID, rec.Usage.PromptTokens, rec.Usage.CompletionTokens, rec.CostUSD); err != nil {
		return fmt.Errorf("failed to update resume cost: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `
INSERT INTO ai_resume_cost_breakdown (resume_id, category, cost_usd)
VALUES ($1, $2, $3)
ON CONFLICT (resume_id, category) DO UPDATE SET
	cost_usd = ai_resume_cost_breakdown.cost_usd + EXCLUDED.cost_usd`,
		rec.ResumeID, string(category), rec.CostUSD); err != nil {
		return fmt.Errorf("failed to update resume cost breakdown: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit resume cost: %w", err)
	}
	return nil
}

func (s *PGStore) UserSummary(ctx context.Context, userID string) (*UserSummary, error) {
	u := UserSummary{UserID: userID}
	err := s.DB.QueryRowContext(ctx, `
SELECT total_input_tokens, total_output_tokens, total_cost_usd, total_calls, last_call_at
FROM ai_user_usage WHERE user_id = $1`, userID).
		Scan(&u.TotalInputTokens, &u.TotalOutputTokens, &u.TotalCostUSD, &u.TotalAICalls, &u.LastAICallAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user usage: %w", err)
	}

	rows, err := s.DB.QueryContext(ctx, `
SELECT month, input_tokens, output_tokens, cost_usd, call_count
FROM ai_user_usage_monthly WHERE user_id = $1 ORDER BY month DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list monthly usage: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m MonthlyStats
		if err := rows.Scan(&m.Month, &m.InputTokens, &m.OutputTokens, &m.CostUSD, &m.CallCount); err != nil {
			return nil, fmt.Errorf("failed to scan monthly usage: %w", err)
		}
		u.Monthly = append(u.Monthly, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list monthly usage: %w", err)
	}
	return &u, nil
}

func (s *PGStore) ResumeCost(ctx context.Context, resumeID string) (*ResumeCost, error) {
	r := ResumeCost{ResumeID: resumeID, CallBreakdown: make(map[Category]float64)}
	err := s.DB.QueryRowContext(ctx, `
SELECT user_id, total_input_tokens, total_output_tokens, total_cost_usd
FROM ai_resume_costs WHERE resume_id = $1`, resumeID).
		Scan(&r.UserID, &r.TotalInputTokens, &r.TotalOutputTokens, &r.TotalCostUSD)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume cost: %w", err)
	}

	rows, err := s.DB.QueryContext(ctx, `
SELECT category, cost_usd FROM ai_resume_cost_breakdown WHERE resume_id = $1`, resumeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resume cost breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var cost float64
		if err := rows.Scan(&category, &cost); err != nil {
			return nil, fmt.Errorf("failed to scan resume cost breakdown: %w", err)
		}
		r.CallBreakdown[Category(category)] = cost
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list resume cost breakdown: %w", err)
	}
	return &r, nil
}

func (s *PGStore) RecentLogs(ctx context.Context, userID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.DB.QueryContext(ctx, `
SELECT id, user_id, COALESCE(resume_id, ''), endpoint, provider, model,
	input_tokens, output_tokens, total_tokens, cached_tokens, cost_usd, is_premium, created_at, expires_at
FROM ai_usage_logs WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage logs: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var provider string
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.ResumeID, &rec.Endpoint, &provider, &rec.Model,
			&rec.Usage.PromptTokens, &rec.Usage.CompletionTokens, &rec.Usage.TotalTokens, &rec.Usage.CachedTokens,
			&rec.CostUSD, &rec.IsPremium, &rec.Timestamp, &rec.ExpiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan usage log: %w", err)
		}
		rec.Provider = llm.Provider(provider)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list usage logs: %w", err)
	}
	return out, nil
}

func (s *PGStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM ai_usage_logs WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge usage logs: %w", err)
	}
	return res.RowsAffected()
}
