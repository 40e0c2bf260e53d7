//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImproveSectionRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request ImproveSectionRequest
		wantErr bool
	}{
		{
			name: "valid request",
			request: ImproveSectionRequest{
				SectionType:      SectionSummary,
				OriginalText:     "Backend engineer working on payments",
				UserInstructions: "make it more concise",
				Language:         LanguageEN,
			},
		},
		{
			name: "valid without instructions or language",
			request: ImproveSectionRequest{
				SectionType:  SectionExperience,
				OriginalText: "Built internal tools",
			},
		},
		{
			name: "unknown section type",
			request: ImproveSectionRequest{
				SectionType:  "hobbies",
				OriginalText: "Chess",
			},
			wantErr: true,
		},
		{
			name: "missing original text",
			request: ImproveSectionRequest{
				SectionType: SectionSummary,
			},
			wantErr: true,
		},
		{
			name: "instructions too long",
			request: ImproveSectionRequest{
				SectionType:      SectionSummary,
				OriginalText:     "text",
				UserInstructions: strings.Repeat("a", 501),
			},
			wantErr: true,
		},
		{
			name: "unsupported language",
			request: ImproveSectionRequest{
				SectionType:  SectionSummary,
				OriginalText: "text",
				Language:     "fr",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProfessionRequest_Validation(t *testing.T) {
	assert.NoError(t, (&ProfessionRequest{Profession: "Software Engineer"}).Validate())
	assert.Error(t, (&ProfessionRequest{}).Validate())
	assert.Error(t, (&ProfessionRequest{Profession: strings.Repeat("x", 201)}).Validate())
}

func TestSummarySuggestionsRequest_Validation(t *testing.T) {
	assert.NoError(t, (&SummarySuggestionsRequest{Profession: "Nurse", Type: SummaryExperience}).Validate())
	assert.Error(t, (&SummarySuggestionsRequest{Profession: "Nurse", Type: "other"}).Validate())
}

func TestLinkedInParseRequest_HasContent(t *testing.T) {
	assert.False(t, (&LinkedInParseRequest{Profession: "Designer"}).HasContent())
	assert.True(t, (&LinkedInParseRequest{Skills: "Figma"}).HasContent())
}

func TestResumeData_JSONRoundTripKeepsCamelCase(t *testing.T) {
	data := ResumeData{
		FirstName:   "Ana",
		LastName:    "García",
		TargetLevel: LevelSenior,
		SkillsRaw:   []string{"Go"},
		Experience: []WorkExperience{
			{ID: "exp-1", Title: "Engineer", Company: "Acme", IsCurrent: true},
		},
	}

	raw, err := json.Marshal(data)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"firstName":"Ana"`)
	assert.Contains(t, string(raw), `"skillsRaw":["Go"]`)
	assert.Contains(t, string(raw), `"isCurrent":true`)
	assert.Equal(t, "Ana García", data.FullName())
}

func TestProfessionSkills_ForLanguage(t *testing.T) {
	skills := ProfessionSkills{ES: []string{"Liderazgo"}, EN: []string{"Leadership"}}
	assert.Equal(t, []string{"Leadership"}, skills.ForLanguage(LanguageEN))
	assert.Equal(t, []string{"Liderazgo"}, skills.ForLanguage(LanguageES))
	assert.Equal(t, []string{"Liderazgo"}, skills.ForLanguage(""))
}
