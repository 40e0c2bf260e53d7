// Package config provides the pipeline configuration: provider credentials, tier selection,
// token ceilings, rate limits and storage. A Config is loaded once and never mutated afterwards.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config is the pipeline configuration passed to every component constructor.
type Config struct {
	Providers   ProvidersConfig `json:"providers" yaml:"providers"`
	Selection   SelectionConfig `json:"selection" yaml:"selection"`
	RateLimit   RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`
	Cache       CacheConfig     `json:"cache" yaml:"cache"`
	Usage       UsageConfig     `json:"usage" yaml:"usage"`
	Storage     string          `json:"storage" yaml:"storage" validate:"oneof=memory postgres"`
	DatabaseURL string          `json:"database_url,omitempty" yaml:"database_url" validate:"required_if=Storage postgres"`
	Verbose     bool            `json:"verbose,omitempty" yaml:"verbose"`
}

// ProviderConfig holds the credentials and endpoint of one vendor.
type ProviderConfig struct {
	APIKey  string `json:"api_key,omitempty" yaml:"api_key"`
	BaseURL string `json:"base_url,omitempty" yaml:"base_url" validate:"omitempty,url"`
	// TokenCeilings overrides the built-in per-model output token ceilings, keyed by model prefix
	TokenCeilings map[string]int `json:"token_ceilings,omitempty" yaml:"token_ceilings" validate:"dive,min=1"`
}

// ProvidersConfig holds every vendor's configuration.
type ProvidersConfig struct {
	OpenAI         ProviderConfig `json:"openai" yaml:"openai"`
	Groq           ProviderConfig `json:"groq" yaml:"groq"`
	Anthropic      ProviderConfig `json:"anthropic" yaml:"anthropic"`
	Gemini         ProviderConfig `json:"gemini" yaml:"gemini"`
	TimeoutSeconds int            `json:"timeout_seconds" yaml:"timeout_seconds" validate:"min=1,max=600"`
}

// Timeout returns the per-request provider timeout.
func (p ProvidersConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// SelectionConfig maps subscription tiers to providers and models.
// An empty PremiumModel resolves to the premium provider's default model.
type SelectionConfig struct {
	FreeProvider    string `json:"free_provider" yaml:"free_provider" validate:"required,oneof=openai groq anthropic gemini"`
	FreeModel       string `json:"free_model" yaml:"free_model" validate:"required"`
	PremiumProvider string `json:"premium_provider" yaml:"premium_provider" validate:"required,oneof=openai groq anthropic gemini"`
	PremiumModel    string `json:"premium_model,omitempty" yaml:"premium_model"`
}

// EndpointLimit is the number of calls allowed per window for each tier.
type EndpointLimit struct {
	Free    int `json:"free" yaml:"free" validate:"min=1"`
	Premium int `json:"premium" yaml:"premium" validate:"min=1"`
}

// Max returns the limit for a tier.
func (l EndpointLimit) Max(isPremium bool) int {
	if isPremium {
		return l.Premium
	}
	return l.Free
}

// RateLimitConfig holds per-endpoint fixed-window limits.
type RateLimitConfig struct {
	Enabled          bool                     `json:"enabled" yaml:"enabled"`
	WindowSeconds    int                      `json:"window_seconds" yaml:"window_seconds" validate:"min=1"`
	RetentionSeconds int                      `json:"retention_seconds" yaml:"retention_seconds" validate:"min=1"`
	Default          EndpointLimit            `json:"default" yaml:"default"`
	Endpoints        map[string]EndpointLimit `json:"endpoints,omitempty" yaml:"endpoints" validate:"dive"`
}

// Window returns the rate-limit window.
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// Retention returns how long a window record is kept in the store.
func (r RateLimitConfig) Retention() time.Duration {
	return time.Duration(r.RetentionSeconds) * time.Second
}

// Limit returns the configured limit for an endpoint, falling back to Default.
func (r RateLimitConfig) Limit(endpoint string) EndpointLimit {
	if limit, ok := r.Endpoints[endpoint]; ok {
		return limit
	}
	return r.Default
}

// CacheConfig configures the suggestion cache.
type CacheConfig struct {
	SampleSize int `json:"sample_size" yaml:"sample_size" validate:"min=1"`
}

// UsageConfig configures usage tracking.
type UsageConfig struct {
	Enabled       bool `json:"enabled" yaml:"enabled"`
	RetentionDays int  `json:"retention_days" yaml:"retention_days" validate:"min=1"`
}

// Retention returns how long a usage log row is kept.
func (u UsageConfig) Retention() time.Duration {
	return time.Duration(u.RetentionDays) * 24 * time.Hour
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Providers: ProvidersConfig{
			OpenAI:         ProviderConfig{BaseURL: "https://api.openai.com/v1"},
			Groq:           ProviderConfig{BaseURL: "https://api.groq.com/openai/v1"},
			Anthropic:      ProviderConfig{BaseURL: "https://api.anthropic.com/v1"},
			Gemini:         ProviderConfig{},
			TimeoutSeconds: 120,
		},
		Selection: SelectionConfig{
			FreeProvider:    "groq",
			FreeModel:       "openai/gpt-oss-20b",
			PremiumProvider: "openai",
		},
		RateLimit: RateLimitConfig{
			Enabled:          true,
			WindowSeconds:    60,
			RetentionSeconds: 3600,
			Default:          EndpointLimit{Free: 5, Premium: 5},
			Endpoints:        DefaultEndpointLimits(),
		},
		Cache: CacheConfig{SampleSize: 3},
		Usage: UsageConfig{Enabled: true, RetentionDays: 90},

		Storage: StorageMemory,
	}
}

// DefaultEndpointLimits returns the per-endpoint limits for a 60 second window.
func DefaultEndpointLimits() map[string]EndpointLimit {
	return map[string]EndpointLimit{
		// Tier 1: full document generation
		"generate-resume":       {Free: 1, Premium: 5},
		"linkedin-data-parsing": {Free: 1, Premium: 5},

		// Tier 2: section rewrites
		"improve-section":     {Free: 1, Premium: 10},
		"summary-suggestions": {Free: 1, Premium: 10},
		"ai-enhance":          {Free: 5, Premium: 5},
		"ai-direct-enhance":   {Free: 10, Premium: 10},

		// Tier 3: short suggestions
		"achievement-suggestions":        {Free: 5, Premium: 5},
		"experience-achievements":        {Free: 5, Premium: 5},
		"profession-suggestions":         {Free: 5, Premium: 5},
		"validate-profession":            {Free: 2, Premium: 5},
		"generate-enhancement-questions": {Free: 10, Premium: 10},
		"generate-answer-suggestion":     {Free: 20, Premium: 20},
	}
}

// Load builds a Config from defaults, an optional JSON or YAML file and environment overrides,
// then validates it. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}
	return nil
}

// applyEnv overlays environment variables on top of file values.
func (c *Config) applyEnv() {
	c.Providers.OpenAI.APIKey = getEnvString("OPENAI_API_KEY", c.Providers.OpenAI.APIKey)
	c.Providers.Groq.APIKey = getEnvString("GROQ_API_KEY", c.Providers.Groq.APIKey)
	c.Providers.Anthropic.APIKey = getEnvString("ANTHROPIC_API_KEY", c.Providers.Anthropic.APIKey)
	c.Providers.Gemini.APIKey = getEnvString("GEMINI_API_KEY", c.Providers.Gemini.APIKey)
	c.Providers.OpenAI.BaseURL = getEnvString("OPENAI_BASE_URL", c.Providers.OpenAI.BaseURL)
	c.Providers.Groq.BaseURL = getEnvString("GROQ_BASE_URL", c.Providers.Groq.BaseURL)
	c.Providers.Anthropic.BaseURL = getEnvString("ANTHROPIC_BASE_URL", c.Providers.Anthropic.BaseURL)
	c.Providers.TimeoutSeconds = int(getEnvDuration("AI_REQUEST_TIMEOUT", c.Providers.Timeout()).Seconds())

	c.Selection.FreeModel = getEnvString("FREE_AI_MODEL", c.Selection.FreeModel)
	c.Selection.PremiumProvider = strings.ToLower(getEnvString("PREMIUM_AI_PROVIDER", c.Selection.PremiumProvider))
	// AI_MODEL names an OpenAI model and only applies when premium calls go to OpenAI
	if c.Selection.PremiumProvider == "openai" {
		c.Selection.PremiumModel = getEnvString("AI_MODEL", c.Selection.PremiumModel)
	}

	c.RateLimit.Enabled = getEnvBool("RATE_LIMIT_ENABLED", c.RateLimit.Enabled)
	c.RateLimit.WindowSeconds = int(getEnvDuration("RATE_LIMIT_WINDOW", c.RateLimit.Window()).Seconds())

	c.Usage.Enabled = getEnvBool("AI_USAGE_TRACKING_ENABLED", c.Usage.Enabled)

	c.DatabaseURL = getEnvString("DATABASE_URL", c.DatabaseURL)
	c.Storage = strings.ToLower(getEnvString("STORAGE_BACKEND", c.Storage))
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// Get returns the configuration of a provider by name.
func (p ProvidersConfig) Get(provider string) (ProviderConfig, bool) {
	switch provider {
	case "openai":
		return p.OpenAI, true
	case "groq":
		return p.Groq, true
	case "anthropic":
		return p.Anthropic, true
	case "gemini":
		return p.Gemini, true
	default:
		return ProviderConfig{}, false
	}
}
