package types

// Language is a content language code
type Language string

// Supported content languages
const (
	LanguageES Language = "es"
	LanguageEN Language = "en"
)

// SectionType identifies the resume section being improved
type SectionType string

// Resume sections accepted by the section improvement task
const (
	SectionSummary       SectionType = "summary"
	SectionExperience    SectionType = "experience"
	SectionEducation     SectionType = "education"
	SectionCertification SectionType = "certification"
	SectionProject       SectionType = "project"
	SectionAchievement   SectionType = "achievement"
	SectionLanguage      SectionType = "language"
	SectionSkills        SectionType = "skills"
)

// SectionTypes lists every section type in display order
var SectionTypes = []SectionType{
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionCertification,
	SectionProject,
	SectionAchievement,
	SectionLanguage,
	SectionSkills,
}

// EnhanceContext is the kind of text handled by the enhanceText task
type EnhanceContext string

// Enhance contexts
const (
	EnhanceAchievement     EnhanceContext = "achievement"
	EnhanceSummary         EnhanceContext = "summary"
	EnhanceProject         EnhanceContext = "project"
	EnhanceResponsibility  EnhanceContext = "responsibility"
	EnhanceDifferentiators EnhanceContext = "differentiators"
)

// SummaryType selects which summary suggestions are requested
type SummaryType string

// Summary suggestion types
const (
	SummaryExperience      SummaryType = "experience"
	SummaryDifferentiators SummaryType = "differentiators"
)

// AIRequestContext identifies who is paying for a generation call
type AIRequestContext struct {
	UserID    string
	ResumeID  string
	IsPremium bool
}

// AchievementSuggestion is a single suggested achievement
type AchievementSuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// EnhancementQuestion is a follow-up question asked before improving a section
type EnhancementQuestion struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Category string `json:"category"`
	Required bool   `json:"required"`
}

// EnhancementAnswer pairs a question with the user's answer
type EnhancementAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ProfessionSkills holds the bilingual skill lists for a profession
type ProfessionSkills struct {
	ES []string `json:"es"`
	EN []string `json:"en"`
}

// ForLanguage returns the skill list for a language
func (p ProfessionSkills) ForLanguage(lang Language) []string {
	if lang == LanguageEN {
		return p.EN
	}
	return p.ES
}

// ProfessionValidation is the verdict on whether a text is a real profession
type ProfessionValidation struct {
	IsValid bool   `json:"isValid"`
	Message string `json:"message"`
}

// ImprovementResult is the outcome of an improvement-style task.
// When the output validator rejects the model text, Text is the original and Reason explains why.
type ImprovementResult struct {
	Text        string `json:"text"`
	FellBack    bool   `json:"fellBack"`
	Reason      string `json:"reason,omitempty"`
	TokensUsed  int    `json:"tokensUsed"`
	Provider    string `json:"provider"`
	Model       string `json:"model"`
	SectionType string `json:"sectionType,omitempty"`
}
