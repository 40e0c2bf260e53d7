package tasks

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-ai/internal/config"
	"github.com/jonathan/resume-ai/internal/llm"
)

func TestRegistry(t *testing.T) {
	expected := []Task{
		GenerateResume, EnhanceText, ImproveSection, ParseLinkedInData,
		GenerateAchievements, GenerateSummary, GenerateJobTitleAchievements,
		ValidateProfession, GenerateEnhancementQuestions, GenerateAnswerSuggestion,
		DirectEnhance, GenerateProfessionSuggestions,
	}

	require.Len(t, Registry, len(expected))
	for _, name := range expected {
		def, ok := Registry[name]
		require.True(t, ok, "Task %s should be in registry", name)
		assert.Equal(t, name, def.Name)
		assert.NotEmpty(t, def.Endpoint)
		assert.NotEmpty(t, def.UsageEndpoint)
	}
}

func TestRegistry_EndpointsHaveRateLimits(t *testing.T) {
	limits := config.DefaultEndpointLimits()
	for name, def := range Registry {
		_, ok := limits[def.Endpoint]
		assert.True(t, ok, "Task %s endpoint %s should have a configured limit", name, def.Endpoint)
	}
}

func TestRegistry_FormatsAndSchemas(t *testing.T) {
	for name, def := range Registry {
		switch def.Format {
		case FormatJSON:
			assert.NotEmpty(t, def.Schema, "JSON task %s needs a schema", name)
		case FormatText:
			assert.Empty(t, def.Schema, "text task %s has no schema", name)
			assert.False(t, def.JSONMode, "text task %s cannot use JSON mode", name)
		default:
			t.Errorf("task %s has unknown format %q", name, def.Format)
		}
	}

	// Top-level arrays cannot be requested through JSON object mode
	for _, name := range []Task{GenerateAchievements, GenerateSummary, GenerateJobTitleAchievements} {
		assert.False(t, Registry[name].JSONMode, name)
	}
}

func TestDefinition_Tier(t *testing.T) {
	forced := []Task{GenerateEnhancementQuestions, GenerateAnswerSuggestion, DirectEnhance}
	for _, name := range forced {
		def := MustGet(name)
		assert.Equal(t, llm.TierPremium, def.Tier(false), name)
		assert.Equal(t, llm.TierPremium, def.Tier(true), name)
	}

	def := MustGet(ImproveSection)
	assert.Equal(t, llm.TierFree, def.Tier(false))
	assert.Equal(t, llm.TierPremium, def.Tier(true))
}

func TestDefinition_Options(t *testing.T) {
	tests := []struct {
		name      string
		task      Task
		model     string
		wantTemp  *float64
		wantMax   int
		wantJSON  bool
		wantModel string
	}{
		{"improve section", ImproveSection, "gpt-4o", llm.Float(0.3), 2000, false, "gpt-4o"},
		{"validate profession", ValidateProfession, "openai/gpt-oss-20b", llm.Float(0.1), 200, true, "openai/gpt-oss-20b"},
		{"linkedin default model", ParseLinkedInData, "gpt-4o", llm.Float(0.1), 6000, true, "gpt-4o"},
		{"linkedin restricted model", ParseLinkedInData, "o3-mini", llm.Float(0.1), 16000, true, "o3-mini"},
		{"resume uses adapter defaults", GenerateResume, "gpt-4o", nil, 0, true, "gpt-4o"},
		{"questions", GenerateEnhancementQuestions, "gpt-4o", llm.Float(0.7), 1500, true, "gpt-4o"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := MustGet(tt.task).Options(tt.model)
			assert.Equal(t, tt.wantModel, opts.Model)
			assert.Equal(t, tt.wantTemp, opts.Temperature)
			assert.Equal(t, tt.wantMax, opts.MaxTokens)
			assert.Equal(t, tt.wantJSON, opts.JSON)
		})
	}
}

func TestGet_UnknownTask(t *testing.T) {
	_, err := Get("translateResume")

	var unknown *UnknownTaskError
	require.True(t, errors.As(err, &unknown))
	assert.Contains(t, err.Error(), "unknown task")
	assert.Panics(t, func() { MustGet("translateResume") })
}

func TestAll_Sorted(t *testing.T) {
	all := All()
	require.Len(t, all, len(Registry))
	for i := 1; i < len(all); i++ {
		assert.Less(t, string(all[i-1]), string(all[i]))
	}
}
