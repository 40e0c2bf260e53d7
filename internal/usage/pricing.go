package usage

import (
	"math"
	"strings"

	"github.com/jonathan/resume-ai/internal/llm"
)

// Price is the USD cost per one million tokens
type Price struct {
	Input  float64
	Output float64
}

type modelPrice struct {
	model string
	price Price
}

// providerPricing lists known models most specific first, so "gpt-4o-mini" is tried before "gpt-4o".
// fallback applies to models that match nothing.
type providerPricing struct {
	fallback Price
	models   []modelPrice
}

// groqPrice is also the price of providers missing from the table
var groqPrice = Price{Input: 0.075, Output: 0.30}

var pricing = map[llm.Provider]providerPricing{
	llm.ProviderGroq: {
		fallback: groqPrice,
		models: []modelPrice{
			{"openai/gpt-oss-20b", groqPrice},
			{"gpt-oss-20b", groqPrice},
		},
	},
	llm.ProviderOpenAI: {
		fallback: Price{Input: 2.5, Output: 10},
		models: []modelPrice{
			{"gpt-4o-mini", Price{Input: 0.15, Output: 0.60}},
			{"gpt-4o", Price{Input: 2.5, Output: 10}},
			{"gpt-4-turbo", Price{Input: 10, Output: 30}},
			{"gpt-4", Price{Input: 30, Output: 60}},
		},
	},
	llm.ProviderAnthropic: {
		fallback: Price{Input: 15, Output: 75},
		models: []modelPrice{
			{"claude-3-opus", Price{Input: 15, Output: 75}},
			{"claude-3-5-sonnet", Price{Input: 3, Output: 15}},
			{"claude-3-sonnet", Price{Input: 3, Output: 15}},
			{"claude-3-haiku", Price{Input: 0.25, Output: 1.25}},
		},
	},
	llm.ProviderGemini: {
		fallback: Price{Input: 0.30, Output: 2.50},
		models: []modelPrice{
			{"gemini-2.5-flash", Price{Input: 0.30, Output: 2.50}},
			{"gemini-2.5-pro", Price{Input: 1.25, Output: 10}},
		},
	},
}

// normalizeModel drops the "openai/" routing prefix and lower-cases the name
func normalizeModel(model string) string {
	m := strings.ToLower(strings.TrimSpace(model))
	return strings.TrimPrefix(m, "openai/")
}

// PriceFor returns the price of a model. Matching tries an exact name, then a known model
// contained in the name, then a name contained in a known model. Unknown models use the
// provider fallback and unknown providers use Groq pricing.
func PriceFor(provider llm.Provider, model string) Price {
	table, ok := pricing[provider]
	if !ok {
		return groqPrice
	}

	name := normalizeModel(model)
	if name == "" {
		return table.fallback
	}
	for _, mp := range table.models {
		if normalizeModel(mp.model) == name {
			return mp.price
		}
	}
	for _, mp := range table.models {
		if strings.Contains(name, normalizeModel(mp.model)) {
			return mp.price
		}
	}
	for _, mp := range table.models {
		if strings.Contains(normalizeModel(mp.model), name) {
			return mp.price
		}
	}
	return table.fallback
}

// CalculateCost returns the USD cost of one call, rounded to 8 decimal places.
func CalculateCost(provider llm.Provider, model string, u llm.Usage) float64 {
	price := PriceFor(provider, model)
	cost := float64(u.PromptTokens)/1_000_000*price.Input +
		float64(u.CompletionTokens)/1_000_000*price.Output
	return math.Round(cost*1e8) / 1e8
}

// Category groups endpoints in the per-resume cost breakdown
type Category string

// Breakdown categories
const (
	CategoryGeneration      Category = "generation"
	CategoryScoring         Category = "scoring"
	CategorySuggestions     Category = "suggestions"
	CategoryEnhancements    Category = "enhancements"
	CategoryLinkedInParsing Category = "linkedInParsing"
	CategoryTranslation     Category = "translation"
)

// Categories lists every breakdown category in display order
var Categories = []Category{
	CategoryGeneration,
	CategoryScoring,
	CategorySuggestions,
	CategoryEnhancements,
	CategoryLinkedInParsing,
	CategoryTranslation,
}

var endpointCategories = map[string]Category{
	"generateResume":         CategoryGeneration,
	"scoreResume":            CategoryScoring,
	"professionSuggestions":  CategorySuggestions,
	"achievementSuggestions": CategorySuggestions,
	"summarySuggestions":     CategorySuggestions,
	"jobTitleAchievements":   CategorySuggestions,
	"enhanceText":            CategoryEnhancements,
	"improveSection":         CategoryEnhancements,
	"enhancementQuestions":   CategoryEnhancements,
	"answerSuggestion":       CategoryEnhancements,
	"linkedInParsing":        CategoryLinkedInParsing,
	"translateResume":        CategoryTranslation,
}

// CategoryFor returns the breakdown category of a usage endpoint.
// Endpoints without an explicit category count as enhancements.
func CategoryFor(endpoint string) Category {
	if c, ok := endpointCategories[endpoint]; ok {
		return c
	}
	return CategoryEnhancements
}
