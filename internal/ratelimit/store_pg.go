package ratelimit

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PGStore keeps windows in Postgres. Apply locks the row for the duration of its transaction.
type PGStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed rate limit store.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{DB: db}
}

func (s *PGStore) Apply(ctx context.Context, h Hit) (w Window, allowed bool, err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Window{}, false, fmt.Errorf("failed to begin rate limit check: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// A zero window start marks a row created here; advance opens a new window for it
	if _, err = tx.ExecContext(ctx, `
INSERT INTO rate_limit_windows (key, user_id, endpoint, request_count, window_start, expires_at)
VALUES ($1, $2, $3, 0, 'epoch', $4)
ON CONFLICT (key) DO NOTHING`,
		h.Key, h.UserID, h.Endpoint, h.Now.Add(h.Retention)); err != nil {
		return Window{}, false, fmt.Errorf("failed to create rate limit window: %w", err)
	}

	w = Window{Key: h.Key, UserID: h.UserID, Endpoint: h.Endpoint}
	if err = tx.QueryRowContext(ctx, `
SELECT request_count, window_start, expires_at FROM rate_limit_windows WHERE key = $1 FOR UPDATE`, h.Key).
		Scan(&w.Count, &w.WindowStart, &w.ExpiresAt); err != nil {
		return Window{}, false, fmt.Errorf("failed to read rate limit window: %w", err)
	}
	if w.WindowStart.Unix() == 0 {
		w.WindowStart = time.Time{}
	}

	allowed = advance(&w, h)
	if allowed {
		if _, err = tx.ExecContext(ctx, `
UPDATE rate_limit_windows SET request_count = $1, window_start = $2, expires_at = $3 WHERE key = $4`,
			w.Count, w.WindowStart, w.ExpiresAt, h.Key); err != nil {
			return Window{}, false, fmt.Errorf("failed to update rate limit window: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return Window{}, false, fmt.Errorf("failed to commit rate limit check: %w", err)
	}
	return w, allowed, nil
}

func (s *PGStore) Refund(ctx context.Context, key string) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `
UPDATE rate_limit_windows SET request_count = GREATEST(request_count - 1, 0)
WHERE key = $1 AND request_count > 0`, key)
	if err != nil {
		return false, fmt.Errorf("failed to refund rate limit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to refund rate limit: %w", err)
	}
	return n > 0, nil
}

func (s *PGStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM rate_limit_windows WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge rate limit windows: %w", err)
	}
	return res.RowsAffected()
}
