package cache

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// ProfessionCache remembers professions that were validated as real.
// Only valid professions are stored, so a hit means valid. Store errors count as a miss.
type ProfessionCache struct {
	cache  *Cache
	logger *zap.Logger
}

// NewProfessionCache creates a profession cache over store.
func NewProfessionCache(store Store, logger *zap.Logger, opts ...Option) *ProfessionCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfessionCache{
		cache:  New(store, NamespaceValidatedProfessions, opts...),
		logger: logger,
	}
}

// IsValid reports whether profession was validated before.
func (p *ProfessionCache) IsValid(ctx context.Context, profession string) bool {
	key := NormalizeKey(profession)
	if key == "" {
		return false
	}

	entry, err := p.cache.Get(ctx, key, "")
	if err != nil {
		p.logger.Error("[profession-cache] lookup failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if entry == nil {
		p.logger.Debug("[profession-cache] miss", zap.String("key", key))
		return false
	}
	p.logger.Debug("[profession-cache] hit", zap.String("key", key), zap.Time("validated_at", entry.UpdatedAt))
	return true
}

// Remember stores a profession the model confirmed as valid. Failures are logged.
func (p *ProfessionCache) Remember(ctx context.Context, profession string) {
	original := strings.TrimSpace(profession)
	if original == "" {
		return
	}
	if err := p.cache.Put(ctx, original, []string{original}, ""); err != nil {
		p.logger.Error("[profession-cache] failed to cache profession",
			zap.String("key", NormalizeKey(original)), zap.Error(err))
		return
	}
	p.logger.Info("[profession-cache] cached valid profession", zap.String("profession", original))
}
