package types

// GeneratedResume is the structured resume produced by the generateResume task
type GeneratedResume struct {
	ProfessionalSummary string                  `json:"professionalSummary"`
	Experience          []EnhancedExperience    `json:"experience"`
	Education           []EnhancedEducation     `json:"education"`
	Skills              SkillGroups             `json:"skills"`
	Projects            []EnhancedProject       `json:"projects"`
	Certifications      []EnhancedCertification `json:"certifications"`
	Achievements        []string                `json:"achievements"`
	Languages           []LanguageProficiency   `json:"languages"`
	ContactInfo         ContactInfo             `json:"contactInfo"`
	Metadata            GenerationMetadata      `json:"metadata"`
}

// EnhancedExperience is a rewritten work experience entry
type EnhancedExperience struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Duration     string   `json:"duration"`
	Location     string   `json:"location,omitempty"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
	Skills       []string `json:"skills"`
	Impact       string   `json:"impact,omitempty"`
}

// EnhancedEducation is a rewritten education entry
type EnhancedEducation struct {
	Degree             string   `json:"degree"`
	Institution        string   `json:"institution"`
	Field              string   `json:"field"`
	Duration           string   `json:"duration"`
	GPA                string   `json:"gpa,omitempty"`
	RelevantCoursework []string `json:"relevantCoursework,omitempty"`
	Honors             []string `json:"honors,omitempty"`
}

// EnhancedProject is a rewritten project entry
type EnhancedProject struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Duration     string   `json:"duration,omitempty"`
	URL          string   `json:"url,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
	Impact       string   `json:"impact,omitempty"`
}

// EnhancedCertification is a rewritten certification entry
type EnhancedCertification struct {
	Name         string   `json:"name"`
	Issuer       string   `json:"issuer"`
	Date         string   `json:"date"`
	CredentialID string   `json:"credentialId,omitempty"`
	URL          string   `json:"url,omitempty"`
	Skills       []string `json:"skills,omitempty"`
}

// SkillGroups splits skills into technical, soft and tools
type SkillGroups struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
	Tools     []string `json:"tools"`
}

// LanguageProficiency is a language with its level
type LanguageProficiency struct {
	Language       string   `json:"language"`
	Level          string   `json:"level"`
	Certifications []string `json:"certifications,omitempty"`
}

// ContactInfo is the header block of a generated resume
type ContactInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// GenerationMetadata records how a resume was produced
type GenerationMetadata struct {
	GeneratedAt string `json:"generatedAt"`
	TokensUsed  int    `json:"tokensUsed"`
	AIProvider  string `json:"aiProvider"`
	Model       string `json:"model"`
}
