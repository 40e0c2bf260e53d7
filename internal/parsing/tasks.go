package parsing

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/jonathan/resume-ai/internal/sanitize"
	"github.com/jonathan/resume-ai/internal/schemas"
	"github.com/jonathan/resume-ai/internal/tasks"
	"github.com/jonathan/resume-ai/internal/types"
)

// Fixed verdict messages
const (
	ValidationFailedMessage  = "Validation failed - please try again"
	InvalidProfessionMessage = "The provided text does not appear to be a valid profession or job title."
)

// Resume decodes a generated resume and defaults every absent list to empty.
func Resume(raw string) (*types.GeneratedResume, error) {
	var resume types.GeneratedResume
	if err := decode(tasks.GenerateResume, schemas.Resume, raw, &resume); err != nil {
		return nil, err
	}

	resume.Experience = orEmpty(resume.Experience)
	for i := range resume.Experience {
		resume.Experience[i].Achievements = orEmpty(resume.Experience[i].Achievements)
		resume.Experience[i].Skills = orEmpty(resume.Experience[i].Skills)
	}
	resume.Education = orEmpty(resume.Education)
	resume.Skills.Technical = orEmpty(resume.Skills.Technical)
	resume.Skills.Soft = orEmpty(resume.Skills.Soft)
	resume.Skills.Tools = orEmpty(resume.Skills.Tools)
	resume.Projects = orEmpty(resume.Projects)
	for i := range resume.Projects {
		resume.Projects[i].Technologies = orEmpty(resume.Projects[i].Technologies)
	}
	resume.Certifications = orEmpty(resume.Certifications)
	resume.Achievements = orEmpty(resume.Achievements)
	resume.Languages = orEmpty(resume.Languages)

	return &resume, nil
}

// Achievements decodes achievement suggestions.
func Achievements(raw string) ([]types.AchievementSuggestion, error) {
	var items []types.AchievementSuggestion
	if err := decodeArray(tasks.GenerateAchievements, schemas.Achievements, raw, &items); err != nil {
		return nil, err
	}

	out := make([]types.AchievementSuggestion, 0, len(items))
	for _, item := range items {
		item.Title = strings.TrimSpace(item.Title)
		item.Description = strings.TrimSpace(item.Description)
		if item.Title == "" {
			continue
		}
		out = append(out, item)
	}
	if len(out) == 0 {
		return nil, &ParseError{Task: tasks.GenerateAchievements, Message: "no achievements in response"}
	}
	return out, nil
}

// StringList decodes a task whose contract is a JSON array of strings.
func StringList(task tasks.Task, raw string) ([]string, error) {
	var items []string
	if err := decodeArray(task, schemas.StringList, raw, &items); err != nil {
		return nil, err
	}

	out := trimAll(items)
	if len(out) == 0 {
		return nil, &ParseError{Task: task, Message: "no suggestions in response"}
	}
	return out, nil
}

// EnhancementQuestions decodes follow-up questions. Missing ids are numbered q1, q2, ...
// and a missing category becomes "context".
func EnhancementQuestions(raw string) ([]types.EnhancementQuestion, error) {
	var body struct {
		Questions []types.EnhancementQuestion `json:"questions"`
	}
	if err := decode(tasks.GenerateEnhancementQuestions, schemas.EnhancementQuestions, raw, &body); err != nil {
		return nil, err
	}

	out := make([]types.EnhancementQuestion, 0, len(body.Questions))
	for _, q := range body.Questions {
		q.Question = strings.TrimSpace(q.Question)
		if q.Question == "" {
			continue
		}
		q.ID = strings.TrimSpace(q.ID)
		if q.ID == "" {
			q.ID = fmt.Sprintf("q%d", len(out)+1)
		}
		if q.Category == "" {
			q.Category = "context"
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		return nil, &ParseError{Task: tasks.GenerateEnhancementQuestions, Message: "no questions in response"}
	}
	return out, nil
}

// ProfessionValidation decodes a profession verdict. It fails closed: on any decode failure
// the verdict is invalid with ValidationFailedMessage, and the error is returned alongside it.
func ProfessionValidation(raw string) (types.ProfessionValidation, error) {
	var body struct {
		IsValid bool    `json:"isValid"`
		Message *string `json:"message"`
	}
	if err := decode(tasks.ValidateProfession, schemas.ProfessionValidation, raw, &body); err != nil {
		return types.ProfessionValidation{IsValid: false, Message: ValidationFailedMessage}, err
	}

	verdict := types.ProfessionValidation{IsValid: body.IsValid}
	if body.Message != nil {
		verdict.Message = strings.TrimSpace(*body.Message)
	}
	if verdict.IsValid {
		verdict.Message = ""
	} else if verdict.Message == "" {
		verdict.Message = InvalidProfessionMessage
	}
	return verdict, nil
}

// ProfessionSkills decodes bilingual skill suggestions. A model refusal returns
// *ProfessionRejectedError; legacy "tools" lists are merged into "skills".
func ProfessionSkills(raw string) (*types.ProfessionSkills, error) {
	doc, err := clean(tasks.GenerateProfessionSuggestions, raw)
	if err != nil {
		return nil, err
	}

	if gjson.Get(doc, "error").String() == "invalid_profession" {
		message := strings.TrimSpace(gjson.Get(doc, "message").String())
		if message == "" {
			message = InvalidProfessionMessage
		}
		return nil, &ProfessionRejectedError{Message: message}
	}

	type languageSkills struct {
		Skills []string `json:"skills"`
		Tools  []string `json:"tools"`
	}
	var body struct {
		ES languageSkills `json:"es"`
		EN languageSkills `json:"en"`
	}
	if err := validateAndDecode(tasks.GenerateProfessionSuggestions, schemas.ProfessionSkills, doc, &body); err != nil {
		return nil, err
	}

	skills := &types.ProfessionSkills{
		ES: NormalizeSkills(body.ES.Skills, body.ES.Tools),
		EN: NormalizeSkills(body.EN.Skills, body.EN.Tools),
	}
	if len(skills.ES) == 0 || len(skills.EN) == 0 {
		return nil, &ParseError{Task: tasks.GenerateProfessionSuggestions, Message: "empty skill list in response"}
	}
	return skills, nil
}

// LinkedInOptions carries the user choices applied on top of the model's LinkedIn output
type LinkedInOptions struct {
	// Profession, when set, replaces the profession the model inferred
	Profession string
	Language   types.Language
	// TargetLevel, when set, replaces the level the model inferred
	TargetLevel types.TargetLevel
	// Now stamps lastSaved; zero uses the current time
	Now time.Time
}

// yearsByLevel are the experience figures used in the synthesized job description
var yearsByLevel = map[types.TargetLevel]string{
	types.LevelEntry:     "2+",
	types.LevelMid:       "5+",
	types.LevelSenior:    "10+",
	types.LevelExecutive: "15+",
}

// defaultCompletedSteps marks every resume builder step as done
var defaultCompletedSteps = []int{1, 2, 3, 4, 5, 6, 7}

// LinkedIn decodes resume data extracted from a LinkedIn export.
func LinkedIn(raw string, opts LinkedInOptions) (*types.ResumeData, error) {
	var body struct {
		types.ResumeData
		ToolsRaw []string `json:"toolsRaw"`
	}
	if err := decode(tasks.ParseLinkedInData, schemas.LinkedIn, raw, &body); err != nil {
		return nil, err
	}
	data := body.ResumeData

	data.SkillsRaw = NormalizeSkills(data.SkillsRaw, body.ToolsRaw)
	data.Experience = orEmpty(data.Experience)
	for i := range data.Experience {
		data.Experience[i].Achievements = orEmpty(data.Experience[i].Achievements)
		data.Experience[i].Responsibilities = orEmpty(data.Experience[i].Responsibilities)
	}
	data.Education = orEmpty(data.Education)
	data.Certifications = orEmpty(data.Certifications)
	data.Projects = orEmpty(data.Projects)
	for i := range data.Projects {
		data.Projects[i].Technologies = orEmpty(data.Projects[i].Technologies)
	}
	data.Languages = orEmpty(data.Languages)
	data.Achievements = orEmpty(data.Achievements)

	if profession := strings.TrimSpace(opts.Profession); profession != "" {
		data.Profession = profession
	}
	if opts.TargetLevel != "" {
		data.TargetLevel = opts.TargetLevel
	}
	if _, known := yearsByLevel[data.TargetLevel]; !known {
		data.TargetLevel = types.LevelMid
	}
	data.Language = sanitize.Language(string(opts.Language))

	if strings.TrimSpace(data.JobDescription) == "" {
		data.JobDescription = DefaultJobDescription(&data)
	}

	if len(data.CompletedSteps) == 0 {
		data.CompletedSteps = append([]int(nil), defaultCompletedSteps...)
	}
	if data.CurrentStep == 0 {
		data.CurrentStep = 1
	}
	if data.LastSaved == "" {
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		data.LastSaved = now.UTC().Format(time.RFC3339)
	}

	return &data, nil
}

// DefaultJobDescription builds the fixed-template job description used when the model left it
// empty. It only restates fields already present in data.
func DefaultJobDescription(data *types.ResumeData) string {
	profession := strings.TrimSpace(data.Profession)
	if profession == "" {
		profession = "Professional"
	}
	years, ok := yearsByLevel[data.TargetLevel]
	if !ok {
		years = yearsByLevel[types.LevelMid]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s with %s years of experience", profession, years)

	skills := data.SkillsRaw
	if len(skills) > 3 {
		skills = skills[:3]
	}
	if len(skills) > 0 {
		sb.WriteString(" specializing in " + strings.Join(skills, ", "))
	}
	if len(data.Experience) > 0 {
		if company := strings.TrimSpace(data.Experience[0].Company); company != "" {
			sb.WriteString(" with experience at " + company)
		}
	}
	sb.WriteString(". Proven track record in delivering high-quality solutions and technical leadership.")
	return sb.String()
}
