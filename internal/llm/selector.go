package llm

import (
	"github.com/jonathan/resume-ai/internal/config"
)

// Selector maps a subscription tier to a provider and model.
// It is a pure lookup and never looks at request content.
type Selector struct {
	free    Choice
	premium Choice
}

// NewSelector creates a Selector from the tier selection config.
func NewSelector(cfg config.SelectionConfig) *Selector {
	premium := Choice{Provider: Provider(cfg.PremiumProvider), Model: cfg.PremiumModel}
	if premium.Model == "" {
		premium.Model = DefaultModels[premium.Provider]
	}
	free := Choice{Provider: Provider(cfg.FreeProvider), Model: cfg.FreeModel}
	if free.Model == "" {
		free.Model = DefaultModels[free.Provider]
	}
	return &Selector{free: free, premium: premium}
}

// Select returns the choice for a premium flag.
func (s *Selector) Select(isPremium bool) Choice {
	return s.ForTier(TierFor(isPremium))
}

// ForTier returns the choice for a tier.
func (s *Selector) ForTier(tier Tier) Choice {
	if tier == TierPremium {
		return s.premium
	}
	return s.free
}
