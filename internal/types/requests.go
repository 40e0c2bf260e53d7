package types

import (
	"github.com/go-playground/validator/v10"
)

// GenerateResumeRequest asks for a full resume from the builder draft.
type GenerateResumeRequest struct {
	Resume ResumeData `json:"resume"`
}

// EnhanceTextRequest asks for a single text to be rewritten in a context.
type EnhanceTextRequest struct {
	Text     string         `json:"text" validate:"required,max=2000"`
	Context  EnhanceContext `json:"context" validate:"required,oneof=achievement summary project responsibility differentiators"`
	JobTitle string         `json:"jobTitle,omitempty" validate:"max=200"`
	Language Language       `json:"language,omitempty" validate:"omitempty,oneof=es en"`
}

// ImproveSectionRequest asks for a resume section to be improved following user instructions.
type ImproveSectionRequest struct {
	SectionType      SectionType         `json:"sectionType" validate:"required,oneof=summary experience education certification project achievement language skills"`
	OriginalText     string              `json:"originalText" validate:"required,max=10000"`
	UserInstructions string              `json:"userInstructions,omitempty" validate:"max=500"`
	GatheredContext  []EnhancementAnswer `json:"gatheredContext,omitempty" validate:"max=10"`
	Language         Language            `json:"language,omitempty" validate:"omitempty,oneof=es en"`
}

// DirectEnhanceRequest asks for a checklist-driven mechanical fix.
type DirectEnhanceRequest struct {
	ChecklistItemID string      `json:"checklistItemId" validate:"required,max=100"`
	SectionType     SectionType `json:"sectionType" validate:"required"`
	OriginalText    string      `json:"originalText" validate:"required,max=10000"`
	Language        Language    `json:"language,omitempty" validate:"omitempty,oneof=es en"`
}

// AchievementSuggestionsRequest asks for achievement ideas for a profession.
type AchievementSuggestionsRequest struct {
	Profession string    `json:"profession" validate:"required,max=200"`
	Projects   []Project `json:"projects,omitempty"`
	Language   Language  `json:"language,omitempty" validate:"omitempty,oneof=es en"`
}

// SummarySuggestionsRequest asks for summary sentence ideas.
type SummarySuggestionsRequest struct {
	Profession  string           `json:"profession" validate:"required,max=200"`
	Type        SummaryType      `json:"type" validate:"required,oneof=experience differentiators"`
	TargetLevel TargetLevel      `json:"targetLevel,omitempty"`
	Experience  []WorkExperience `json:"experience,omitempty"`
	SkillsRaw   []string         `json:"skillsRaw,omitempty"`
	Language    Language         `json:"language,omitempty" validate:"omitempty,oneof=es en"`
}

// JobTitleAchievementsRequest asks for typical achievements of a job title.
type JobTitleAchievementsRequest struct {
	JobTitle string   `json:"jobTitle" validate:"required,max=200"`
	Language Language `json:"language,omitempty" validate:"omitempty,oneof=es en"`
}

// ProfessionRequest carries a single profession for validation or skill suggestions.
type ProfessionRequest struct {
	Profession string   `json:"profession" validate:"required,max=200"`
	Language   Language `json:"language,omitempty" validate:"omitempty,oneof=es en"`
}

// EnhancementQuestionsRequest asks for follow-up questions about a section.
type EnhancementQuestionsRequest struct {
	SectionType    SectionType `json:"sectionType" validate:"required"`
	Recommendation string      `json:"recommendation,omitempty" validate:"max=1000"`
	OriginalText   string      `json:"originalText" validate:"required,max=10000"`
	Language       Language    `json:"language,omitempty" validate:"omitempty,oneof=es en"`
}

// AnswerSuggestionRequest asks for a suggested answer to an enhancement question.
type AnswerSuggestionRequest struct {
	Question         string      `json:"question" validate:"required,max=500"`
	QuestionCategory string      `json:"questionCategory,omitempty" validate:"max=50"`
	Recommendation   string      `json:"recommendation,omitempty" validate:"max=1000"`
	SectionType      SectionType `json:"sectionType" validate:"required"`
	OriginalText     string      `json:"originalText" validate:"max=10000"`
	Language         Language    `json:"language,omitempty" validate:"omitempty,oneof=es en"`
}

// LinkedInParseRequest carries the raw sections of a LinkedIn profile export.
type LinkedInParseRequest struct {
	Profession      string      `json:"profession,omitempty" validate:"max=200"`
	About           string      `json:"about,omitempty"`
	Experience      string      `json:"experience,omitempty"`
	Education       string      `json:"education,omitempty"`
	Certifications  string      `json:"certifications,omitempty"`
	Projects        string      `json:"projects,omitempty"`
	Skills          string      `json:"skills,omitempty"`
	Recommendations string      `json:"recommendations,omitempty"`
	TargetLanguage  Language    `json:"targetLanguage,omitempty" validate:"omitempty,oneof=es en"`
	TargetLevel     TargetLevel `json:"targetLevel,omitempty" validate:"omitempty,oneof=entry mid senior executive"`
}

// LinkedInSection is one pasted profile section and its request field name
type LinkedInSection struct {
	Field string
	Text  string
}

// Sections returns the profile sections in prompt order.
func (r *LinkedInParseRequest) Sections() []LinkedInSection {
	return []LinkedInSection{
		{"about", r.About},
		{"experience", r.Experience},
		{"education", r.Education},
		{"certifications", r.Certifications},
		{"projects", r.Projects},
		{"skills", r.Skills},
		{"recommendations", r.Recommendations},
	}
}

// HasContent reports whether at least one section carries text.
func (r *LinkedInParseRequest) HasContent() bool {
	for _, s := range r.Sections() {
		if s.Text != "" {
			return true
		}
	}
	return false
}

// Validate validates the EnhanceTextRequest using the validator.
func (r *EnhanceTextRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the ImproveSectionRequest using the validator.
func (r *ImproveSectionRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the DirectEnhanceRequest using the validator.
func (r *DirectEnhanceRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the AchievementSuggestionsRequest using the validator.
func (r *AchievementSuggestionsRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the SummarySuggestionsRequest using the validator.
func (r *SummarySuggestionsRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the JobTitleAchievementsRequest using the validator.
func (r *JobTitleAchievementsRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the ProfessionRequest using the validator.
func (r *ProfessionRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the EnhancementQuestionsRequest using the validator.
func (r *EnhancementQuestionsRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the AnswerSuggestionRequest using the validator.
func (r *AnswerSuggestionRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the LinkedInParseRequest using the validator.
func (r *LinkedInParseRequest) Validate() error {
	return validator.New().Struct(r)
}
