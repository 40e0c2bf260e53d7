package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/resume-ai/internal/cache"
	"github.com/jonathan/resume-ai/internal/config"
	"github.com/jonathan/resume-ai/internal/db"
	"github.com/jonathan/resume-ai/internal/llm"
	"github.com/jonathan/resume-ai/internal/pipeline"
	"github.com/jonathan/resume-ai/internal/ratelimit"
	"github.com/jonathan/resume-ai/internal/suggestions"
	"github.com/jonathan/resume-ai/internal/types"
	"github.com/jonathan/resume-ai/internal/usage"
)

// app holds the components shared by every subcommand
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *db.DB

	registry    *llm.Registry
	usageStore  usage.Store
	tracker     *usage.Tracker
	limiter     *ratelimit.Limiter
	pipeline    *pipeline.Pipeline
	guard       *pipeline.Guard
	suggestions *suggestions.Service
}

// newLogger builds the production logger, or the development one with --verbose
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// loadConfig reads the config file and environment and applies command line overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg.Verbose = cfg.Verbose || verbose
	return cfg, nil
}

// newApp wires the stores, providers and services selected by the configuration.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}

	var (
		windows ratelimit.Store
		entries cache.Store
	)
	switch cfg.Storage {
	case config.StoragePostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.db = database
		a.usageStore = usage.NewPGStore(database.SQL())
		windows = ratelimit.NewPGStore(database.SQL())
		entries = cache.NewPGStore(database.SQL())
	default:
		a.usageStore = usage.NewMemoryStore()
		windows = ratelimit.NewMemoryStore()
		entries = cache.NewMemoryStore()
	}

	registry, err := llm.NewRegistry(ctx, cfg, logger)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to create providers: %w", err)
	}
	a.registry = registry

	a.tracker = usage.NewTracker(a.usageStore, cfg.Usage, logger)
	a.limiter = ratelimit.NewLimiter(windows, cfg.RateLimit, logger)
	a.pipeline = pipeline.New(registry, llm.NewSelector(cfg.Selection), a.tracker, logger)
	a.guard = pipeline.NewGuard(a.limiter, logger)
	a.suggestions = suggestions.New(a.pipeline, a.guard, entries, cfg.Cache, logger)

	logger.Debug("[app] initialized",
		zap.String("storage", cfg.Storage),
		zap.String("free_provider", cfg.Selection.FreeProvider),
		zap.String("premium_provider", cfg.Selection.PremiumProvider))
	return a, nil
}

// requestContext identifies the caller from the global flags
func (a *app) requestContext() types.AIRequestContext {
	return types.AIRequestContext{UserID: userID, ResumeID: resumeID, IsPremium: premium}
}

// close waits for pending usage writes and releases connections
func (a *app) close() {
	if a.tracker != nil {
		a.tracker.Close()
	}
	if a.registry != nil {
		if err := a.registry.Close(); err != nil {
			a.logger.Warn("[app] failed to close providers", zap.Error(err))
		}
	}
	if a.db != nil {
		a.db.Close()
	}
	_ = a.logger.Sync()
}

// withApp loads the configuration, builds the app and runs fn with it
func withApp(ctx context.Context, fn func(ctx context.Context, a *app) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(ctx, a)
}
