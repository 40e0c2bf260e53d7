// Package tasks provides the fixed set of generation tasks and the per-task call policy:
// quota endpoint, usage endpoint, sampling options, response format and schema.
package tasks

import (
	"fmt"
	"sort"

	"github.com/jonathan/resume-ai/internal/llm"
	"github.com/jonathan/resume-ai/internal/schemas"
)

// Task names a generation task
type Task string

// Generation tasks
const (
	GenerateResume                Task = "generateResume"
	EnhanceText                   Task = "enhanceText"
	ImproveSection                Task = "improveSection"
	ParseLinkedInData             Task = "parseLinkedInData"
	GenerateAchievements          Task = "generateAchievements"
	GenerateSummary               Task = "generateSummary"
	GenerateJobTitleAchievements  Task = "generateJobTitleAchievements"
	ValidateProfession            Task = "validateProfession"
	GenerateEnhancementQuestions  Task = "generateEnhancementQuestions"
	GenerateAnswerSuggestion      Task = "generateAnswerSuggestion"
	DirectEnhance                 Task = "directEnhance"
	GenerateProfessionSuggestions Task = "generateProfessionSuggestions"
)

// Format is how a task's model output is decoded
type Format string

// Response formats
const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Definition defines the call policy of a task
type Definition struct {
	Name Task
	// Endpoint is the rate-limit endpoint charged for the task
	Endpoint string
	// UsageEndpoint is the endpoint recorded in usage logs
	UsageEndpoint string
	Format        Format
	Schema        schemas.Name
	// JSONMode asks the provider for a JSON object response. Tasks returning a top-level
	// array leave it off and rely on the prompt contract.
	JSONMode    bool
	Temperature *float64
	// MaxTokens of zero uses the adapter default
	MaxTokens int
	// RestrictedMaxTokens replaces MaxTokens for models that reject sampling parameters
	RestrictedMaxTokens int
	// ForcePremium routes the task to the premium provider regardless of tier
	ForcePremium bool
}

// Registry holds all task definitions
var Registry = map[Task]Definition{
	GenerateResume: {
		Name:          GenerateResume,
		Endpoint:      "generate-resume",
		UsageEndpoint: "generateResume",
		Format:        FormatJSON,
		Schema:        schemas.Resume,
		JSONMode:      true,
	},
	EnhanceText: {
		Name:          EnhanceText,
		Endpoint:      "ai-enhance",
		UsageEndpoint: "enhanceText",
		Format:        FormatText,
	},
	ImproveSection: {
		Name:          ImproveSection,
		Endpoint:      "improve-section",
		UsageEndpoint: "improveSection",
		Format:        FormatText,
		Temperature:   llm.Float(0.3),
		MaxTokens:     2000,
	},
	ParseLinkedInData: {
		Name:                ParseLinkedInData,
		Endpoint:            "linkedin-data-parsing",
		UsageEndpoint:       "linkedInParsing",
		Format:              FormatJSON,
		Schema:              schemas.LinkedIn,
		JSONMode:            true,
		Temperature:         llm.Float(0.1),
		MaxTokens:           6000,
		RestrictedMaxTokens: 16000,
	},
	GenerateAchievements: {
		Name:          GenerateAchievements,
		Endpoint:      "achievement-suggestions",
		UsageEndpoint: "achievementSuggestions",
		Format:        FormatJSON,
		Schema:        schemas.Achievements,
	},
	GenerateSummary: {
		Name:          GenerateSummary,
		Endpoint:      "summary-suggestions",
		UsageEndpoint: "summarySuggestions",
		Format:        FormatJSON,
		Schema:        schemas.StringList,
	},
	GenerateJobTitleAchievements: {
		Name:          GenerateJobTitleAchievements,
		Endpoint:      "experience-achievements",
		UsageEndpoint: "jobTitleAchievements",
		Format:        FormatJSON,
		Schema:        schemas.StringList,
	},
	ValidateProfession: {
		Name:          ValidateProfession,
		Endpoint:      "validate-profession",
		UsageEndpoint: "validateProfession",
		Format:        FormatJSON,
		Schema:        schemas.ProfessionValidation,
		JSONMode:      true,
		Temperature:   llm.Float(0.1),
		MaxTokens:     200,
	},
	GenerateEnhancementQuestions: {
		Name:          GenerateEnhancementQuestions,
		Endpoint:      "generate-enhancement-questions",
		UsageEndpoint: "enhancementQuestions",
		Format:        FormatJSON,
		Schema:        schemas.EnhancementQuestions,
		JSONMode:      true,
		Temperature:   llm.Float(0.7),
		MaxTokens:     1500,
		ForcePremium:  true,
	},
	GenerateAnswerSuggestion: {
		Name:          GenerateAnswerSuggestion,
		Endpoint:      "generate-answer-suggestion",
		UsageEndpoint: "answerSuggestion",
		Format:        FormatText,
		Temperature:   llm.Float(0.7),
		MaxTokens:     1500,
		ForcePremium:  true,
	},
	DirectEnhance: {
		Name:          DirectEnhance,
		Endpoint:      "ai-direct-enhance",
		UsageEndpoint: "directEnhance",
		Format:        FormatText,
		Temperature:   llm.Float(0.3),
		MaxTokens:     2000,
		ForcePremium:  true,
	},
	GenerateProfessionSuggestions: {
		Name:          GenerateProfessionSuggestions,
		Endpoint:      "profession-suggestions",
		UsageEndpoint: "professionSuggestions",
		Format:        FormatJSON,
		Schema:        schemas.ProfessionSkills,
		JSONMode:      true,
	},
}

// UnknownTaskError is returned for a task name that is not in the registry
type UnknownTaskError struct {
	Task Task
}

func (e *UnknownTaskError) Error() string {
	return fmt.Sprintf("unknown task: %s", e.Task)
}

// Get returns the definition of a task
func Get(t Task) (Definition, error) {
	def, ok := Registry[t]
	if !ok {
		return Definition{}, &UnknownTaskError{Task: t}
	}
	return def, nil
}

// MustGet returns the definition of a task and panics on an unknown task
func MustGet(t Task) Definition {
	def, err := Get(t)
	if err != nil {
		panic(err)
	}
	return def
}

// All returns every task name in lexical order
func All() []Task {
	names := make([]Task, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Tier returns the tier a call runs on. ForcePremium tasks always run premium.
func (d Definition) Tier(isPremium bool) llm.Tier {
	return llm.TierFor(isPremium || d.ForcePremium)
}

// Options returns the adapter options for a call to model
func (d Definition) Options(model string) llm.Options {
	opts := llm.Options{
		Model:       model,
		Temperature: d.Temperature,
		MaxTokens:   d.MaxTokens,
		JSON:        d.JSONMode,
	}
	if d.RestrictedMaxTokens > 0 && llm.RestrictedParameters(model) {
		opts.MaxTokens = d.RestrictedMaxTokens
	}
	return opts
}
