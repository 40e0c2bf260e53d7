package prompts

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-ai/internal/sanitize"
	"github.com/jonathan/resume-ai/internal/types"
)

// Prompt template files
const (
	securityFile    = "security.json"
	generationFile  = "generation.json"
	improvementFile = "improvement.json"
	suggestionsFile = "suggestions.json"
	linkedInFile    = "linkedin.json"
	professionFile  = "profession.json"
)

// notProvided stands in for absent optional values so templates never have empty slots
const notProvided = "not provided"

// BuildResume builds the full resume generation prompt.
func BuildResume(r types.ResumeData) string {
	level := r.TargetLevel
	if level == "" {
		level = types.LevelMid
	}
	tone := r.Tone
	if tone == "" {
		tone = types.ToneProfessional
	}

	levelGuidance, err := Get(generationFile, "level-"+string(level))
	if err != nil {
		levelGuidance = MustGet(generationFile, "level-mid")
	}
	toneGuidance, err := Get(generationFile, "tone-"+string(tone))
	if err != nil {
		toneGuidance = MustGet(generationFile, "tone-professional")
	}

	return secure(render(generationFile, "resume", map[string]string{
		"OutputLanguage": languageName(r.Language),
		"Tone":           sanitize.UserInput(string(tone)),
		"TargetLevel":    sanitize.UserInput(string(level)),
		"LevelGuidance":  levelGuidance,
		"ToneGuidance":   toneGuidance,
		"UserData":       formatResumeData(r),
		"NoFabrication":  MustGet(securityFile, "no-fabrication"),
	}))
}

// BuildEnhanceText builds the prompt that rewrites a single text in a context.
func BuildEnhanceText(req types.EnhanceTextRequest) string {
	instructions, err := Get(improvementFile, "context-"+string(req.Context))
	if err != nil {
		instructions = MustGet(improvementFile, "context-achievement")
	}

	return secure(render(improvementFile, "enhance-text", map[string]string{
		"Context":             orNotProvided(sanitize.UserInput(string(req.Context))),
		"Language":            languageName(req.Language),
		"JobTitle":            orNotProvided(sanitize.UserInput(req.JobTitle)),
		"Text":                sanitize.ForPrompt(req.Text, sanitize.MaxPromptLength),
		"ContextInstructions": instructions,
	}))
}

// BuildSectionImprovement builds the section improvement prompt. The context-aware variant, with
// per-section format rules, is used when the user answered enhancement questions.
func BuildSectionImprovement(req types.ImproveSectionRequest) string {
	section := sectionName(req.SectionType)
	data := map[string]string{
		"SectionType":      section,
		"Language":         languageName(req.Language),
		"OriginalText":     sanitize.ForPrompt(req.OriginalText, sanitize.MaxMultilineLength),
		"UserInstructions": orNotProvided(sanitize.UserInput(req.UserInstructions)),
	}

	gathered := formatGatheredContext(req.GatheredContext)
	if gathered == "" {
		return secure(render(improvementFile, "section-secure", data))
	}

	data["GatheredContext"] = gathered
	data["FormatRules"] = ""
	if rules, err := Get(improvementFile, "format-"+section); err == nil {
		data["FormatRules"] = rules
	}
	return secure(render(improvementFile, "section-context-aware", data))
}

// BuildEnhancementQuestions builds the prompt asking for follow-up questions about a section.
func BuildEnhancementQuestions(req types.EnhancementQuestionsRequest) string {
	return secure(render(improvementFile, "enhancement-questions", map[string]string{
		"SectionType":    sectionName(req.SectionType),
		"Recommendation": orNotProvided(sanitize.ForPrompt(req.Recommendation, 1000)),
		"Language":       languageName(req.Language),
		"OriginalText":   sanitize.ForPrompt(req.OriginalText, sanitize.MaxMultilineLength),
		"Contract":       EnhancementQuestionsContract().String(),
	}))
}

// BuildAnswerSuggestion builds the prompt drafting an answer to one enhancement question.
func BuildAnswerSuggestion(req types.AnswerSuggestionRequest) string {
	return secure(render(improvementFile, "answer-suggestion", map[string]string{
		"SectionType":      sectionName(req.SectionType),
		"Recommendation":   orNotProvided(sanitize.ForPrompt(req.Recommendation, 1000)),
		"Question":         sanitize.ForPrompt(req.Question, sanitize.MaxUserInputLength),
		"QuestionCategory": orNotProvided(sanitize.UserInput(req.QuestionCategory)),
		"OriginalText":     orNotProvided(sanitize.ForPrompt(req.OriginalText, sanitize.MaxMultilineLength)),
		"Language":         languageName(req.Language),
	}))
}

// BuildDirectEnhance builds the checklist-driven prompt for a mechanical fix.
// Unknown checklist items use the generic improvement prompt.
func BuildDirectEnhance(req types.DirectEnhanceRequest) string {
	lang := sanitize.Language(string(req.Language))
	data := map[string]string{
		"SectionType":  sectionName(req.SectionType),
		"Language":     languageName(lang),
		"OriginalText": sanitize.ForPrompt(req.OriginalText, sanitize.MaxMultilineLength),
	}

	instruction, err := Get(improvementFile, "direct-"+req.ChecklistItemID+"-"+string(lang))
	if err != nil {
		return secure(render(improvementFile, "direct-generic", data))
	}
	data["Instruction"] = instruction
	return secure(render(improvementFile, "direct-enhance", data))
}

// BuildAchievements builds the achievement suggestions prompt for a profession.
func BuildAchievements(req types.AchievementSuggestionsRequest) string {
	profession := sanitize.UserInput(req.Profession)
	projects := formatProjects(req.Projects)

	projectContext := render(suggestionsFile, "achievements-general", map[string]string{"Profession": profession})
	if projects != "" {
		projectContext = render(suggestionsFile, "achievements-projects", map[string]string{
			"Profession": profession,
			"Projects":   projects,
		})
	}

	prompt := render(suggestionsFile, "achievements", map[string]string{
		"Profession":     profession,
		"ProjectContext": projectContext,
		"Language":       languageName(req.Language),
		"Contract":       AchievementsContract().String(),
	})
	if projects != "" {
		return secure(prompt)
	}
	return prompt
}

// BuildSummary builds the summary suggestions prompt.
func BuildSummary(req types.SummarySuggestionsRequest) string {
	summaryType := req.Type
	if summaryType != types.SummaryDifferentiators {
		summaryType = types.SummaryExperience
	}

	return secure(render(suggestionsFile, "summary", map[string]string{
		"Profession":       sanitize.UserInput(req.Profession),
		"Language":         languageName(req.Language),
		"Type":             string(summaryType),
		"TargetLevel":      orNotProvided(sanitize.UserInput(string(req.TargetLevel))),
		"Experience":       orNotProvided(formatExperience(req.Experience)),
		"Skills":           orNotProvided(joinSanitized(req.SkillsRaw, ", ")),
		"TypeInstructions": MustGet(suggestionsFile, "summary-"+string(summaryType)),
		"Contract":         SummaryContract().String(),
	}))
}

// BuildJobTitleAchievements builds the prompt for typical achievements of a job title.
func BuildJobTitleAchievements(jobTitle string, lang types.Language) string {
	return render(suggestionsFile, "job-title-achievements", map[string]string{
		"JobTitle": sanitize.UserInput(jobTitle),
		"Language": languageName(lang),
		"Contract": JobTitleAchievementsContract().String(),
	})
}

// BuildProfessionValidation builds the prompt that decides whether a text is a real profession.
func BuildProfessionValidation(profession string, lang types.Language) string {
	return render(professionFile, "validate", map[string]string{
		"Profession": sanitize.UserInput(profession),
		"Language":   languageName(lang),
		"Contract":   ProfessionValidationContract().String(),
	})
}

// BuildProfessionSuggestions builds the bilingual skill suggestions prompt.
func BuildProfessionSuggestions(profession string) string {
	return render(professionFile, "skills", map[string]string{
		"Profession": sanitize.UserInput(profession),
	})
}

// BuildLinkedInParsing builds the prompt converting LinkedIn sections into resume data.
func BuildLinkedInParsing(req types.LinkedInParseRequest) string {
	lang := sanitize.Language(string(req.TargetLanguage))

	levelHint := ""
	if req.TargetLevel != "" {
		levelHint = fmt.Sprintf("\n- The user selected the target level %q; use it instead of inferring one", sanitize.UserInput(string(req.TargetLevel)))
	}

	return secure(render(linkedInFile, "parse", map[string]string{
		"OutputLanguage":  languageName(lang),
		"LanguageCode":    string(lang),
		"Profession":      orNotProvided(sanitize.UserInput(req.Profession)),
		"About":           orNotProvided(sanitize.UserMultiline(req.About, 0)),
		"Experience":      orNotProvided(sanitize.UserMultiline(req.Experience, 0)),
		"Education":       orNotProvided(sanitize.UserMultiline(req.Education, 0)),
		"Certifications":  orNotProvided(sanitize.UserMultiline(req.Certifications, 0)),
		"Projects":        orNotProvided(sanitize.UserMultiline(req.Projects, 0)),
		"Skills":          orNotProvided(sanitize.UserMultiline(req.Skills, 0)),
		"Recommendations": orNotProvided(sanitize.UserMultiline(req.Recommendations, 0)),
		"LevelHint":       levelHint,
	}))
}

// --- helpers ---

func render(file, key string, data map[string]string) string {
	return Format(MustGet(file, key), data)
}

// secure prepends the security preamble
func secure(prompt string) string {
	return MustGet(securityFile, "preamble") + "\n\n" + prompt
}

func languageName(lang types.Language) string {
	if sanitize.Language(string(lang)) == types.LanguageEN {
		return "English"
	}
	return "Spanish"
}

func orNotProvided(value string) string {
	if strings.TrimSpace(value) == "" {
		return notProvided
	}
	return value
}

func sectionName(section types.SectionType) string {
	if st, ok := sanitize.SectionType(string(section)); ok {
		return string(st)
	}
	return orNotProvided(sanitize.UserInput(string(section)))
}

func joinSanitized(values []string, sep string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s := sanitize.UserInput(v); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, sep)
}

func formatGatheredContext(answers []types.EnhancementAnswer) string {
	var sb strings.Builder
	for _, a := range answers {
		answer := sanitize.ForPrompt(a.Answer, sanitize.MaxUserInputLength)
		if answer == "" {
			continue
		}
		if q := sanitize.ForPrompt(a.Question, sanitize.MaxUserInputLength); q != "" {
			fmt.Fprintf(&sb, "- Q: %s\n  A: %s\n", q, answer)
		} else {
			fmt.Fprintf(&sb, "- %s\n", answer)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatProjects(projects []types.Project) string {
	var lines []string
	for _, p := range projects {
		name := sanitize.UserInput(p.Name)
		if name == "" {
			continue
		}
		line := fmt.Sprintf("- %s: %s", name, orNotProvided(sanitize.ForPrompt(p.Description, 1000)))
		if techs := joinSanitized(p.Technologies, ", "); techs != "" {
			line += fmt.Sprintf(" (Technologies: %s)", techs)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func formatExperience(experience []types.WorkExperience) string {
	var sb strings.Builder
	for _, exp := range experience {
		fmt.Fprintf(&sb, "- %s (%s)\n", orNotProvided(sanitize.UserInput(exp.Title)), orNotProvided(sanitize.UserInput(exp.Company)))
		if s := joinForPrompt(exp.Responsibilities); s != "" {
			fmt.Fprintf(&sb, "  Responsibilities: %s\n", s)
		}
		if s := joinForPrompt(exp.Achievements); s != "" {
			fmt.Fprintf(&sb, "  Achievements: %s\n", s)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func joinForPrompt(values []string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s := sanitize.ForPrompt(v, 1000); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "; ")
}

func formatResumeData(r types.ResumeData) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Profession: %s\n", orNotProvided(sanitize.UserInput(r.Profession)))
	fmt.Fprintf(&sb, "Desired position description: %s\n",
		orNotProvided(sanitize.ForPrompt(r.JobDescription, sanitize.MaxPromptLength)))

	contact := []string{
		sanitize.UserInput(r.FullName()),
		sanitize.UserInput(r.Email),
		sanitize.UserInput(r.Phone),
		sanitize.UserInput(r.Country),
	}
	fmt.Fprintf(&sb, "Personal data: %s\n", strings.Join(contact, " | "))
	fmt.Fprintf(&sb, "LinkedIn: %s\n", orNotProvided(sanitize.UserInput(r.LinkedIn)))

	summary := sanitize.ForPrompt(r.Summary, sanitize.MaxPromptLength)
	if summary == "" {
		summary = "not provided; write one in first person from the information available"
	}
	fmt.Fprintf(&sb, "\nProfessional summary:\n%s\n", summary)
	fmt.Fprintf(&sb, "\nSkills (including tools and technologies): %s\n", orNotProvided(joinSanitized(r.SkillsRaw, ", ")))

	sb.WriteString("\nWork experience:\n")
	if len(r.Experience) == 0 {
		sb.WriteString("- not provided\n")
	}
	for _, exp := range r.Experience {
		end := sanitize.UserInput(exp.EndDate)
		if exp.IsCurrent {
			end = "Current"
		}
		fmt.Fprintf(&sb, "- %s (%s, %s - %s)\n",
			sanitize.UserInput(exp.Title), sanitize.UserInput(exp.Company), sanitize.UserInput(exp.StartDate), end)
		fmt.Fprintf(&sb, "  Responsibilities: %s\n", orNotProvided(joinForPrompt(exp.Responsibilities)))
		fmt.Fprintf(&sb, "  Achievements: %s\n", orNotProvided(joinForPrompt(exp.Achievements)))
	}

	sb.WriteString("\nEducation:\n")
	if len(r.Education) == 0 {
		sb.WriteString("- not provided\n")
	}
	for _, edu := range r.Education {
		end := sanitize.UserInput(edu.EndDate)
		if !edu.IsCompleted {
			end = "In progress"
		}
		fmt.Fprintf(&sb, "- %s in %s (%s, %s - %s)\n",
			sanitize.UserInput(edu.Degree), sanitize.UserInput(edu.Field), sanitize.UserInput(edu.Institution),
			sanitize.UserInput(edu.StartDate), end)
	}

	sb.WriteString("\nCertifications:\n")
	if len(r.Certifications) == 0 {
		sb.WriteString("- not provided\n")
	}
	for _, cert := range r.Certifications {
		fmt.Fprintf(&sb, "- %s (%s, %s)\n",
			sanitize.UserInput(cert.Name), sanitize.UserInput(cert.Issuer), sanitize.UserInput(cert.Date))
	}

	sb.WriteString("\nProjects:\n")
	if len(r.Projects) == 0 {
		sb.WriteString("- not provided\n")
	}
	for _, proj := range r.Projects {
		end := sanitize.UserInput(proj.EndDate)
		if proj.IsOngoing {
			end = "Ongoing"
		}
		fmt.Fprintf(&sb, "- %s: %s (%s - %s)\n  Technologies: %s\n",
			sanitize.UserInput(proj.Name), sanitize.ForPrompt(proj.Description, 1000),
			sanitize.UserInput(proj.StartDate), end, orNotProvided(joinSanitized(proj.Technologies, ", ")))
	}

	sb.WriteString("\nLanguages:\n")
	if len(r.Languages) == 0 {
		sb.WriteString("- not provided\n")
	}
	for _, lang := range r.Languages {
		fmt.Fprintf(&sb, "- %s (%s)\n", sanitize.UserInput(lang.Name), sanitize.UserInput(lang.Level))
	}

	sb.WriteString("\nAdditional achievements:\n")
	if len(r.Achievements) == 0 {
		sb.WriteString("- not provided\n")
	}
	for _, ach := range r.Achievements {
		line := sanitize.ForPrompt(ach.Description, 1000)
		if line == "" {
			line = sanitize.UserInput(ach.Title)
		}
		if year := sanitize.UserInput(ach.Year); year != "" {
			line += " (" + year + ")"
		}
		fmt.Fprintf(&sb, "- %s\n", line)
	}

	return strings.TrimRight(sb.String(), "\n")
}
