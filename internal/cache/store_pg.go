package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/resume-ai/internal/types"
)

// PGStore keeps entries in the suggestion_cache table.
type PGStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed cache store.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{DB: db}
}

func (s *PGStore) Get(ctx context.Context, namespace, key string, lang types.Language) (*Entry, error) {
	e := Entry{Key: key, Language: lang}
	var payload []byte
	err := s.DB.QueryRowContext(ctx, `
SELECT payload, created_at, updated_at FROM suggestion_cache
WHERE namespace = $1 AND cache_key = $2 AND language = $3`, namespace, key, string(lang)).
		Scan(&payload, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cache entry %s/%s: %w", namespace, key, err)
	}
	if err := json.Unmarshal(payload, &e.Payload); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry %s/%s: %w", namespace, key, err)
	}
	return &e, nil
}

func (s *PGStore) Put(ctx context.Context, namespace string, e Entry) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal cache payload: %w", err)
	}
	_, err = s.DB.ExecContext(ctx, `
INSERT INTO suggestion_cache (namespace, cache_key, language, payload, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (namespace, cache_key, language) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		namespace, e.Key, string(e.Language), payload, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save cache entry %s/%s: %w", namespace, e.Key, err)
	}
	return nil
}
