package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jonathan/resume-ai/internal/parsing"
	"github.com/jonathan/resume-ai/internal/prompts"
	"github.com/jonathan/resume-ai/internal/sanitize"
	"github.com/jonathan/resume-ai/internal/tasks"
	"github.com/jonathan/resume-ai/internal/types"
)

// MaxProfessionLength is the longest profession accepted for validation
const MaxProfessionLength = 200

// GenerateResume generates a full structured resume from the builder draft and stamps its metadata.
func (p *Pipeline) GenerateResume(ctx context.Context, rc types.AIRequestContext, req types.GenerateResumeRequest) (*types.GeneratedResume, error) {
	resp, err := p.call(ctx, tasks.GenerateResume, rc, prompts.BuildResume(req.Resume))
	if err != nil {
		return nil, err
	}

	resume, err := parsing.Resume(resp.Content)
	if err != nil {
		p.logger.Error("[pipeline] failed to parse generated resume", zap.Error(err))
		return nil, err
	}
	resume.Metadata = types.GenerationMetadata{
		GeneratedAt: p.now().UTC().Format(time.RFC3339),
		TokensUsed:  resp.Usage.TotalTokens,
		AIProvider:  string(resp.Provider),
		Model:       resp.Model,
	}
	return resume, nil
}

// ParseLinkedInData extracts resume data from the sections of a LinkedIn export.
// The profession and level chosen by the user override whatever the model inferred.
func (p *Pipeline) ParseLinkedInData(ctx context.Context, rc types.AIRequestContext, req types.LinkedInParseRequest) (*types.ResumeData, error) {
	if err := fromValidator(req.Validate()); err != nil {
		return nil, err
	}
	if !req.HasContent() {
		return nil, Invalid("linkedin", "at least one profile section is required")
	}
	for _, section := range req.Sections() {
		if verdict := sanitize.ValidateInputLarge(section.Text, 0); !verdict.Valid {
			return nil, Invalid(section.Field, verdict.Reason)
		}
	}

	resp, err := p.call(ctx, tasks.ParseLinkedInData, rc, prompts.BuildLinkedInParsing(req))
	if err != nil {
		return nil, err
	}

	data, err := parsing.LinkedIn(resp.Content, parsing.LinkedInOptions{
		Profession:  req.Profession,
		Language:    req.TargetLanguage,
		TargetLevel: req.TargetLevel,
		Now:         p.now(),
	})
	if err != nil {
		p.logger.Error("[pipeline] failed to parse LinkedIn data", zap.Error(err))
		return nil, err
	}
	return data, nil
}

// ValidateProfession asks the model whether a text is a real profession.
// The verdict fails closed: whenever err is non-nil the verdict is invalid.
func (p *Pipeline) ValidateProfession(ctx context.Context, rc types.AIRequestContext, req types.ProfessionRequest) (types.ProfessionValidation, error) {
	failed := types.ProfessionValidation{IsValid: false, Message: parsing.ValidationFailedMessage}

	profession := strings.TrimSpace(req.Profession)
	if profession == "" {
		return failed, Invalid("profession", "profession is required")
	}
	if utf8.RuneCountInString(profession) > MaxProfessionLength {
		return failed, Invalid("profession", "profession must be at most 200 characters")
	}

	lang := sanitize.Language(string(req.Language))
	resp, err := p.call(ctx, tasks.ValidateProfession, rc, prompts.BuildProfessionValidation(profession, lang))
	if err != nil {
		return failed, err
	}

	verdict, err := parsing.ProfessionValidation(resp.Content)
	if err != nil {
		p.logger.Warn("[pipeline] profession verdict unreadable, failing closed", zap.Error(err))
		return verdict, err
	}
	return verdict, nil
}

// GenerateProfessionSuggestions returns the skill lists of a profession in both languages.
// A profession the model refuses yields *InvalidProfessionError.
func (p *Pipeline) GenerateProfessionSuggestions(ctx context.Context, rc types.AIRequestContext, req types.ProfessionRequest) (*types.ProfessionSkills, error) {
	req.Profession = strings.TrimSpace(req.Profession)
	if err := fromValidator(req.Validate()); err != nil {
		return nil, err
	}

	resp, err := p.call(ctx, tasks.GenerateProfessionSuggestions, rc, prompts.BuildProfessionSuggestions(req.Profession))
	if err != nil {
		return nil, err
	}

	skills, err := parsing.ProfessionSkills(resp.Content)
	if err != nil {
		var rejected *parsing.ProfessionRejectedError
		if errors.As(err, &rejected) {
			return nil, &InvalidProfessionError{Message: rejected.Message}
		}
		return nil, err
	}
	return skills, nil
}
