// Package types provides type definitions for structured data used throughout the resume-ai system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// TargetLevel is the seniority a resume is written for
type TargetLevel string

// Target levels accepted by the resume builder
const (
	LevelEntry     TargetLevel = "entry"
	LevelMid       TargetLevel = "mid"
	LevelSenior    TargetLevel = "senior"
	LevelExecutive TargetLevel = "executive"
)

// Tone is the writing register requested for generated content
type Tone string

// Supported tones
const (
	ToneProfessional Tone = "professional"
	ToneCreative     Tone = "creative"
	ToneTechnical    Tone = "technical"
	ToneFriendly     Tone = "friendly"
)

// ResumeData is the user-entered resume draft as stored by the resume builder
type ResumeData struct {
	FirstName       string           `json:"firstName"`
	LastName        string           `json:"lastName"`
	Country         string           `json:"country"`
	LinkedIn        string           `json:"linkedin"`
	Language        Language         `json:"language"`
	TargetLevel     TargetLevel      `json:"targetLevel"`
	Profession      string           `json:"profession"`
	Tone            Tone             `json:"tone"`
	Phone           string           `json:"phone"`
	Email           string           `json:"email"`
	SkillsRaw       []string         `json:"skillsRaw"`
	Experience      []WorkExperience `json:"experience"`
	Education       []Education      `json:"education"`
	Certifications  []Certification  `json:"certifications"`
	Projects        []Project        `json:"projects"`
	Languages       []LanguageSkill  `json:"languages"`
	Achievements    []Achievement    `json:"achievements"`
	Summary         string           `json:"summary"`
	JobDescription  string           `json:"jobDescription"`
	CompletedSteps  []int            `json:"completedSteps"`
	CurrentStep     int              `json:"currentStep"`
	TotalCharacters int              `json:"totalCharacters"`
	LastSaved       string           `json:"lastSaved,omitempty"`
}

// FullName joins first and last name
func (r *ResumeData) FullName() string {
	switch {
	case r.FirstName == "":
		return r.LastName
	case r.LastName == "":
		return r.FirstName
	default:
		return r.FirstName + " " + r.LastName
	}
}

// WorkExperience is a single job entry
type WorkExperience struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	IsCurrent        bool     `json:"isCurrent"`
	Achievements     []string `json:"achievements"`
	Responsibilities []string `json:"responsibilities"`
}

// Education is a single education entry
type Education struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	IsCompleted bool   `json:"isCompleted"`
	GPA         string `json:"gpa,omitempty"`
}

// Certification is a professional certification
type Certification struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	Date         string `json:"date"`
	CredentialID string `json:"credentialId,omitempty"`
	URL          string `json:"url,omitempty"`
}

// Project is a portfolio project
type Project struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url,omitempty"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate,omitempty"`
	IsOngoing    bool     `json:"isOngoing"`
}

// LanguageSkill is a spoken language and its level
type LanguageSkill struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

// Achievement is a standalone accomplishment
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Year        string `json:"year,omitempty"`
}
