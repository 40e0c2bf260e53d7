package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-ai/internal/config"
)

func TestSelector_Defaults(t *testing.T) {
	s := NewSelector(config.Default().Selection)

	assert.Equal(t, Choice{Provider: ProviderGroq, Model: "openai/gpt-oss-20b"}, s.Select(false))
	assert.Equal(t, Choice{Provider: ProviderOpenAI, Model: "gpt-4o"}, s.Select(true))
}

func TestSelector_GroqPremiumUsesGroqDefaultModel(t *testing.T) {
	s := NewSelector(config.SelectionConfig{
		FreeProvider:    "groq",
		FreeModel:       "openai/gpt-oss-20b",
		PremiumProvider: "groq",
	})

	assert.Equal(t, Choice{Provider: ProviderGroq, Model: "llama-3.3-70b-versatile"}, s.ForTier(TierPremium))
}

func TestSelector_ExplicitPremiumModel(t *testing.T) {
	s := NewSelector(config.SelectionConfig{
		FreeProvider:    "groq",
		FreeModel:       "llama-3.1-8b-instant",
		PremiumProvider: "anthropic",
		PremiumModel:    "claude-3-opus-20240229",
	})

	assert.Equal(t, "anthropic/claude-3-opus-20240229", s.Select(true).String())
	assert.Equal(t, "groq/llama-3.1-8b-instant", s.Select(false).String())
}

func TestTierFor(t *testing.T) {
	assert.Equal(t, TierPremium, TierFor(true))
	assert.Equal(t, TierFree, TierFor(false))
}
