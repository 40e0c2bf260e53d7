// Package suggestions serves cached suggestion lists and profession validation in front of the
// generation pipeline. Free callers read the shared cache first; premium callers always get a
// fresh generation, which then replaces the cached entry.
package suggestions

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jonathan/resume-ai/internal/cache"
	"github.com/jonathan/resume-ai/internal/config"
	"github.com/jonathan/resume-ai/internal/parsing"
	"github.com/jonathan/resume-ai/internal/pipeline"
	"github.com/jonathan/resume-ai/internal/ratelimit"
	"github.com/jonathan/resume-ai/internal/sanitize"
	"github.com/jonathan/resume-ai/internal/tasks"
	"github.com/jonathan/resume-ai/internal/types"
)

// SampleSize is the default number of job-title achievements returned per request
const SampleSize = 3

// Generator runs the generation tasks the service caches. *pipeline.Pipeline implements it.
type Generator interface {
	GenerateJobTitleAchievements(ctx context.Context, rc types.AIRequestContext, req types.JobTitleAchievementsRequest) ([]string, error)
	GenerateProfessionSuggestions(ctx context.Context, rc types.AIRequestContext, req types.ProfessionRequest) (*types.ProfessionSkills, error)
	ValidateProfession(ctx context.Context, rc types.AIRequestContext, req types.ProfessionRequest) (types.ProfessionValidation, error)
}

// Result is a suggestion list and where it came from
type Result struct {
	Suggestions []string       `json:"suggestions"`
	FromCache   bool           `json:"fromCache"`
	RateLimit   ratelimit.Info `json:"-"`
}

// ProfessionResult is a profession verdict and whether it was answered from the cache
type ProfessionResult struct {
	types.ProfessionValidation
	Cached    bool           `json:"cached"`
	RateLimit ratelimit.Info `json:"-"`
}

// Service fronts the generator with the suggestion caches and the quota guard.
type Service struct {
	gen          Generator
	guard        *pipeline.Guard
	achievements *cache.Cache
	skills       *cache.Cache
	professions  *cache.ProfessionCache
	sampleSize   int
	logger       *zap.Logger
}

// New creates a service. All caches share store under their own namespaces.
func New(gen Generator, guard *pipeline.Guard, store cache.Store, cfg config.CacheConfig, logger *zap.Logger, opts ...cache.Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	sampleSize := cfg.SampleSize
	if sampleSize <= 0 {
		sampleSize = SampleSize
	}
	if guard == nil {
		guard = pipeline.NewGuard(nil, logger)
	}
	return &Service{
		gen:          gen,
		guard:        guard,
		achievements: cache.New(store, cache.NamespaceJobTitleAchievements, opts...),
		skills:       cache.New(store, cache.NamespaceProfessionSkills, opts...),
		professions:  cache.NewProfessionCache(store, logger, opts...),
		sampleSize:   sampleSize,
		logger:       logger,
	}
}

// JobTitleAchievements returns a random sample of the achievements typical for jobTitle.
func (s *Service) JobTitleAchievements(ctx context.Context, rc types.AIRequestContext, jobTitle string, lang types.Language) (*Result, error) {
	lang = sanitize.Language(string(lang))
	key := cache.NormalizeKey(jobTitle)
	if key == "" {
		return nil, pipeline.Invalid("jobTitle", "job title is required")
	}

	result := &Result{}
	info, err := s.guard.Do(ctx, rc, endpoint(tasks.GenerateJobTitleAchievements), func(ctx context.Context) error {
		if !rc.IsPremium {
			if payload := s.lookup(ctx, s.achievements, key, lang); payload != nil {
				result.Suggestions = payload
				result.FromCache = true
				return nil
			}
		}

		title := strings.Join(strings.Fields(jobTitle), " ")
		payload, err := s.gen.GenerateJobTitleAchievements(ctx, rc, types.JobTitleAchievementsRequest{JobTitle: title, Language: lang})
		if err != nil {
			return err
		}
		s.store(ctx, s.achievements, key, payload, lang)
		result.Suggestions = payload
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Suggestions = s.achievements.SampleN(result.Suggestions, s.sampleSize)
	result.RateLimit = info
	return result, nil
}

// ProfessionSkills returns the skill list of profession in lang. Generation produces both
// languages and caches each of them.
func (s *Service) ProfessionSkills(ctx context.Context, rc types.AIRequestContext, profession string, lang types.Language) (*Result, error) {
	if lang != types.LanguageES && lang != types.LanguageEN {
		return nil, pipeline.Invalid("language", `language must be "es" or "en"`)
	}
	key := cache.NormalizeKey(profession)
	if key == "" {
		return nil, pipeline.Invalid("profession", "profession is required")
	}

	result := &Result{}
	info, err := s.guard.Do(ctx, rc, endpoint(tasks.GenerateProfessionSuggestions), func(ctx context.Context) error {
		if !rc.IsPremium {
			if payload := s.lookup(ctx, s.skills, key, lang); payload != nil {
				result.Suggestions = payload
				result.FromCache = true
				return nil
			}
		}

		skills, err := s.gen.GenerateProfessionSuggestions(ctx, rc, types.ProfessionRequest{Profession: profession, Language: lang})
		if err != nil {
			return err
		}
		s.store(ctx, s.skills, key, skills.ES, types.LanguageES)
		s.store(ctx, s.skills, key, skills.EN, types.LanguageEN)
		result.Suggestions = skills.ForLanguage(lang)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.Suggestions == nil {
		result.Suggestions = []string{}
	}
	result.RateLimit = info
	return result, nil
}

// ValidateProfession tells whether profession is a real profession or job title.
// Professions validated before are answered from the cache without charging the caller's quota.
// Provider and parse failures are refunded and reported as an invalid verdict.
func (s *Service) ValidateProfession(ctx context.Context, rc types.AIRequestContext, profession string) (*ProfessionResult, error) {
	trimmed := strings.TrimSpace(profession)
	if trimmed == "" {
		return nil, pipeline.Invalid("profession", "profession cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > pipeline.MaxProfessionLength {
		return nil, pipeline.Invalid("profession", "profession exceeds maximum length of 200 characters")
	}

	if s.professions.IsValid(ctx, trimmed) {
		return &ProfessionResult{ProfessionValidation: types.ProfessionValidation{IsValid: true}, Cached: true}, nil
	}

	var verdict types.ProfessionValidation
	info, err := s.guard.Do(ctx, rc, endpoint(tasks.ValidateProfession), func(ctx context.Context) error {
		var err error
		verdict, err = s.gen.ValidateProfession(ctx, rc, types.ProfessionRequest{Profession: trimmed})
		return err
	})
	if err != nil {
		if !pipeline.Refundable(err) {
			return nil, err
		}
		s.logger.Warn("[suggestions] profession validation failed, reporting invalid",
			zap.String("user_id", rc.UserID), zap.Error(err))
		verdict = types.ProfessionValidation{IsValid: false, Message: parsing.ValidationFailedMessage}
	}

	if verdict.IsValid {
		s.professions.Remember(ctx, trimmed)
	}
	return &ProfessionResult{ProfessionValidation: verdict, RateLimit: info}, nil
}

// lookup reads a cached payload. Read failures are logged and count as a miss.
func (s *Service) lookup(ctx context.Context, c *cache.Cache, key string, lang types.Language) []string {
	entry, err := c.Get(ctx, key, lang)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.Error("[suggestions] cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	if entry == nil || len(entry.Payload) == 0 {
		return nil
	}
	return entry.Payload
}

// store writes a payload to the cache. Failures are logged and do not fail the request.
func (s *Service) store(ctx context.Context, c *cache.Cache, key string, payload []string, lang types.Language) {
	if len(payload) == 0 {
		return
	}
	if err := c.Put(ctx, key, payload, lang); err != nil {
		s.logger.Error("[suggestions] cache write failed",
			zap.String("key", key), zap.String("language", string(lang)), zap.Error(err))
	}
}

func endpoint(task tasks.Task) string {
	return tasks.MustGet(task).Endpoint
}
