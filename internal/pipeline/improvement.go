package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-ai/internal/parsing"
	"github.com/jonathan/resume-ai/internal/prompts"
	"github.com/jonathan/resume-ai/internal/sanitize"
	"github.com/jonathan/resume-ai/internal/tasks"
	"github.com/jonathan/resume-ai/internal/types"
	"github.com/jonathan/resume-ai/internal/validation"
)

// EnhanceText rewrites a single text for its context. A rewrite rejected by the output
// validator is replaced by the original text.
func (p *Pipeline) EnhanceText(ctx context.Context, rc types.AIRequestContext, req types.EnhanceTextRequest) (*types.ImprovementResult, error) {
	if err := fromValidator(req.Validate()); err != nil {
		return nil, err
	}
	req.Language = sanitize.Language(string(req.Language))

	resp, err := p.call(ctx, tasks.EnhanceText, rc, prompts.BuildEnhanceText(req))
	if err != nil {
		return nil, err
	}
	text, err := parsing.Text(tasks.EnhanceText, resp.Content)
	if err != nil {
		return nil, err
	}

	verdict := validation.ImprovedText(text, req.Text, validation.Options{AllowSubstantialRewrite: true})
	if verdict.Valid {
		verdict = validation.NoFabricatedMetrics(text, req.Text, req.JobTitle)
	}
	return p.improvement(tasks.EnhanceText, text, req.Text, verdict, resp.Usage.TotalTokens, string(resp.Provider), resp.Model, ""), nil
}

// ImproveSection rewrites a resume section following the user's instructions and, when present,
// the answers gathered from enhancement questions.
func (p *Pipeline) ImproveSection(ctx context.Context, rc types.AIRequestContext, req types.ImproveSectionRequest) (*types.ImprovementResult, error) {
	endpoint := tasks.MustGet(tasks.ImproveSection).Endpoint

	section, ok := sanitize.SectionType(string(req.SectionType))
	if !ok {
		p.LogSuspiciousActivity(rc.UserID, endpoint, "Invalid section type", string(req.SectionType))
		return nil, Invalid("sectionType", "unknown section type")
	}

	instructions := sanitize.UserInput(req.UserInstructions)
	if check := sanitize.ValidateInput(instructions); !check.Valid {
		p.LogSuspiciousActivity(rc.UserID, endpoint, "Invalid input: "+check.Reason, instructions)
		return nil, Invalid("userInstructions", check.Reason)
	}
	if strings.TrimSpace(req.OriginalText) == "" {
		return nil, Invalid("originalText", "original text is required")
	}

	clean := types.ImproveSectionRequest{
		SectionType:      section,
		OriginalText:     req.OriginalText,
		UserInstructions: instructions,
		GatheredContext:  sanitizeAnswers(req.GatheredContext),
		Language:         sanitize.Language(string(req.Language)),
	}
	if err := fromValidator(clean.Validate()); err != nil {
		return nil, err
	}

	resp, err := p.call(ctx, tasks.ImproveSection, rc, prompts.BuildSectionImprovement(clean))
	if err != nil {
		return nil, err
	}
	text, err := parsing.Text(tasks.ImproveSection, resp.Content)
	if err != nil {
		return nil, err
	}

	verdict := validation.ImprovedText(text, clean.OriginalText, validation.Options{
		AllowSubstantialRewrite: len(clean.GatheredContext) > 0,
	})
	if verdict.Valid && (section == types.SectionSummary || section == types.SectionAchievement) {
		sources := []string{clean.OriginalText, clean.UserInstructions}
		for _, a := range clean.GatheredContext {
			sources = append(sources, a.Answer)
		}
		verdict = validation.NoFabricatedMetrics(text, sources...)
	}
	return p.improvement(tasks.ImproveSection, text, clean.OriginalText, verdict, resp.Usage.TotalTokens, string(resp.Provider), resp.Model, string(section)), nil
}

// DirectEnhance applies a checklist-driven mechanical fix to a section. The output goes through
// the mechanical validator; a rejection returns the original text.
func (p *Pipeline) DirectEnhance(ctx context.Context, rc types.AIRequestContext, req types.DirectEnhanceRequest) (*types.ImprovementResult, error) {
	section, ok := sanitize.SectionType(string(req.SectionType))
	if !ok {
		p.LogSuspiciousActivity(rc.UserID, tasks.MustGet(tasks.DirectEnhance).Endpoint, "Invalid section type", string(req.SectionType))
		return nil, Invalid("sectionType", "unknown section type")
	}
	req.SectionType = section
	req.ChecklistItemID = sanitize.UserInput(req.ChecklistItemID)
	req.Language = sanitize.Language(string(req.Language))
	if err := fromValidator(req.Validate()); err != nil {
		return nil, err
	}

	resp, err := p.call(ctx, tasks.DirectEnhance, rc, prompts.BuildDirectEnhance(req))
	if err != nil {
		return nil, err
	}
	text, err := parsing.Text(tasks.DirectEnhance, resp.Content)
	if err != nil {
		return nil, err
	}

	verdict := validation.MechanicalEnhancement(text, req.OriginalText)
	if verdict.Valid {
		verdict = validation.NoFabricatedMetrics(text, req.OriginalText)
	}
	return p.improvement(tasks.DirectEnhance, text, req.OriginalText, verdict, resp.Usage.TotalTokens, string(resp.Provider), resp.Model, string(section)), nil
}

// GenerateEnhancementQuestions asks for follow-up questions that gather facts before a section
// is improved.
func (p *Pipeline) GenerateEnhancementQuestions(ctx context.Context, rc types.AIRequestContext, req types.EnhancementQuestionsRequest) ([]types.EnhancementQuestion, error) {
	section, ok := sanitize.SectionType(string(req.SectionType))
	if !ok {
		p.LogSuspiciousActivity(rc.UserID, tasks.MustGet(tasks.GenerateEnhancementQuestions).Endpoint, "Invalid section type", string(req.SectionType))
		return nil, Invalid("sectionType", "unknown section type")
	}
	req.SectionType = section
	req.Language = sanitize.Language(string(req.Language))
	if err := fromValidator(req.Validate()); err != nil {
		return nil, err
	}

	resp, err := p.call(ctx, tasks.GenerateEnhancementQuestions, rc, prompts.BuildEnhancementQuestions(req))
	if err != nil {
		return nil, err
	}
	return parsing.EnhancementQuestions(resp.Content)
}

// GenerateAnswerSuggestion drafts an answer to one enhancement question.
func (p *Pipeline) GenerateAnswerSuggestion(ctx context.Context, rc types.AIRequestContext, req types.AnswerSuggestionRequest) (string, error) {
	section, ok := sanitize.SectionType(string(req.SectionType))
	if !ok {
		p.LogSuspiciousActivity(rc.UserID, tasks.MustGet(tasks.GenerateAnswerSuggestion).Endpoint, "Invalid section type", string(req.SectionType))
		return "", Invalid("sectionType", "unknown section type")
	}
	req.SectionType = section
	req.Language = sanitize.Language(string(req.Language))
	if err := fromValidator(req.Validate()); err != nil {
		return "", err
	}

	resp, err := p.call(ctx, tasks.GenerateAnswerSuggestion, rc, prompts.BuildAnswerSuggestion(req))
	if err != nil {
		return "", err
	}
	text, err := parsing.Text(tasks.GenerateAnswerSuggestion, resp.Content)
	if err != nil {
		return "", err
	}
	if verdict := validation.DetectOutputInjection(text); !verdict.Valid {
		return "", &parsing.ParseError{Task: tasks.GenerateAnswerSuggestion, Message: verdict.Reason}
	}
	return text, nil
}

// improvement builds the result of an improvement-style task, replacing a rejected rewrite by
// the original text
func (p *Pipeline) improvement(task tasks.Task, text, original string, verdict validation.Result, tokens int, provider, model, section string) *types.ImprovementResult {
	result := &types.ImprovementResult{
		Text:        strings.TrimSpace(text),
		TokensUsed:  tokens,
		Provider:    provider,
		Model:       model,
		SectionType: section,
	}
	if !verdict.Valid {
		p.logger.Warn("[pipeline] output validation failed, returning original text",
			zap.String("task", string(task)), zap.String("reason", verdict.Reason))
		result.Text = original
		result.FellBack = true
		result.Reason = verdict.Reason
	}
	return result
}

// sanitizeAnswers cleans gathered answers and drops incomplete pairs
func sanitizeAnswers(answers []types.EnhancementAnswer) []types.EnhancementAnswer {
	var out []types.EnhancementAnswer
	for _, a := range answers {
		q := sanitize.UserInput(a.Question)
		ans := sanitize.UserInput(a.Answer)
		if q == "" || ans == "" {
			continue
		}
		out = append(out, types.EnhancementAnswer{Question: q, Answer: ans})
	}
	return out
}
