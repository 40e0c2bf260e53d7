// Package llm provides the provider adapter layer: one Adapter per vendor behind a single
// interface, and the Selector that maps a subscription tier to a provider and model.
package llm

// Tier represents the subscription tier of the caller
type Tier string

const (
	// TierFree routes to the cheap, fast provider
	TierFree Tier = "free"
	// TierPremium routes to the high-quality provider
	TierPremium Tier = "premium"
)

// TierFor returns the tier for a premium flag
func TierFor(isPremium bool) Tier {
	if isPremium {
		return TierPremium
	}
	return TierFree
}

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGroq is the Groq provider (OpenAI-compatible API)
	ProviderGroq Provider = "groq"
	// ProviderOpenAI is the OpenAI provider
	ProviderOpenAI Provider = "openai"
	// ProviderAnthropic is the Anthropic/Claude provider
	ProviderAnthropic Provider = "anthropic"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// DefaultModels is the model used for a provider when the configuration names none
var DefaultModels = map[Provider]string{
	ProviderGroq:      "llama-3.3-70b-versatile",
	ProviderOpenAI:    "gpt-4o",
	ProviderAnthropic: "claude-3-5-sonnet-20241022",
	ProviderGemini:    "gemini-2.5-flash",
}

// Choice is the provider and model selected for one call
type Choice struct {
	Provider Provider
	Model    string
}

func (c Choice) String() string {
	return string(c.Provider) + "/" + c.Model
}
