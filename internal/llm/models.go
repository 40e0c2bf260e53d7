package llm

import (
	"strings"
)

// ceiling is the maximum output tokens for models whose lower-cased name starts with prefix
type ceiling struct {
	prefix string
	tokens int
}

// defaultCeiling applies to models with no matching prefix
const defaultCeiling = 8000

// modelCeilings are ordered so that a longer prefix is checked before its shorter form
var modelCeilings = []ceiling{
	// OpenAI
	{"gpt-4o-mini", 16384},
	{"gpt-4o", 16384},
	{"gpt-4-turbo", 4096},
	{"gpt-4", 8192},
	{"gpt-5", 4000},
	{"o1-", 4000},
	{"o3-", 4000},

	// Groq
	{"openai/gpt-oss", 32768},
	{"llama-3.3-70b", 32768},
	{"llama-3.1-8b", 8192},

	// Anthropic
	{"claude-3-5", 8192},
	{"claude-3", 4096},

	// Gemini
	{"gemini-2.5", 65536},
	{"gemini", 8192},
}

// restrictedPrefixes are reasoning model families that reject temperature and
// take max_completion_tokens instead of max_tokens
var restrictedPrefixes = []string{"gpt-5", "o1-", "o3-"}

// RestrictedParameters reports whether model belongs to a family with restricted sampling parameters.
func RestrictedParameters(model string) bool {
	m := strings.ToLower(model)
	for _, prefix := range restrictedPrefixes {
		if strings.HasPrefix(m, prefix) {
			return true
		}
	}
	return false
}

// TokenCeiling returns the output token ceiling for model.
// overrides are keyed by model prefix and win over the built-in table; the longest matching prefix wins.
func TokenCeiling(model string, overrides map[string]int) int {
	m := strings.ToLower(model)

	best, bestLen := 0, -1
	for prefix, tokens := range overrides {
		p := strings.ToLower(prefix)
		if strings.HasPrefix(m, p) && len(p) > bestLen {
			best, bestLen = tokens, len(p)
		}
	}
	if bestLen >= 0 {
		return best
	}

	for _, c := range modelCeilings {
		if strings.HasPrefix(m, c.prefix) {
			return c.tokens
		}
	}
	return defaultCeiling
}

// ClampTokens limits requested to the model ceiling.
func ClampTokens(requested, ceiling int) int {
	return min(requested, ceiling)
}
