package pipeline

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-ai/internal/parsing"
	"github.com/jonathan/resume-ai/internal/prompts"
	"github.com/jonathan/resume-ai/internal/sanitize"
	"github.com/jonathan/resume-ai/internal/tasks"
	"github.com/jonathan/resume-ai/internal/types"
	"github.com/jonathan/resume-ai/internal/validation"
)

// GenerateAchievements suggests achievements for a profession. Suggestions quoting figures that
// appear nowhere in the request are dropped.
func (p *Pipeline) GenerateAchievements(ctx context.Context, rc types.AIRequestContext, req types.AchievementSuggestionsRequest) ([]types.AchievementSuggestion, error) {
	req.Profession = strings.TrimSpace(req.Profession)
	req.Language = sanitize.Language(string(req.Language))
	if err := fromValidator(req.Validate()); err != nil {
		return nil, err
	}

	resp, err := p.call(ctx, tasks.GenerateAchievements, rc, prompts.BuildAchievements(req))
	if err != nil {
		return nil, err
	}
	items, err := parsing.Achievements(resp.Content)
	if err != nil {
		return nil, err
	}

	sources := []string{req.Profession, marshalSource(req.Projects)}
	return keepGrounded(p.logger, tasks.GenerateAchievements, items, func(a types.AchievementSuggestion) string {
		return a.Title + " " + a.Description
	}, sources)
}

// GenerateSummary suggests summary sentences of the requested type.
func (p *Pipeline) GenerateSummary(ctx context.Context, rc types.AIRequestContext, req types.SummarySuggestionsRequest) ([]string, error) {
	req.Profession = strings.TrimSpace(req.Profession)
	req.Language = sanitize.Language(string(req.Language))
	if err := fromValidator(req.Validate()); err != nil {
		return nil, err
	}

	resp, err := p.call(ctx, tasks.GenerateSummary, rc, prompts.BuildSummary(req))
	if err != nil {
		return nil, err
	}
	items, err := parsing.StringList(tasks.GenerateSummary, resp.Content)
	if err != nil {
		return nil, err
	}

	sources := []string{req.Profession, marshalSource(req.Experience), strings.Join(req.SkillsRaw, " ")}
	return keepGrounded(p.logger, tasks.GenerateSummary, items, identity, sources)
}

// GenerateJobTitleAchievements suggests typical achievements for a job title.
func (p *Pipeline) GenerateJobTitleAchievements(ctx context.Context, rc types.AIRequestContext, req types.JobTitleAchievementsRequest) ([]string, error) {
	req.JobTitle = strings.TrimSpace(req.JobTitle)
	req.Language = sanitize.Language(string(req.Language))
	if err := fromValidator(req.Validate()); err != nil {
		return nil, err
	}

	resp, err := p.call(ctx, tasks.GenerateJobTitleAchievements, rc, prompts.BuildJobTitleAchievements(req.JobTitle, req.Language))
	if err != nil {
		return nil, err
	}
	items, err := parsing.StringList(tasks.GenerateJobTitleAchievements, resp.Content)
	if err != nil {
		return nil, err
	}
	return keepGrounded(p.logger, tasks.GenerateJobTitleAchievements, items, identity, []string{req.JobTitle})
}

func identity(s string) string { return s }

// keepGrounded drops the items that quote figures absent from sources. Dropping every item is
// a parse failure.
func keepGrounded[T any](logger *zap.Logger, task tasks.Task, items []T, text func(T) string, sources []string) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if validation.NoFabricatedMetrics(text(item), sources...).Valid {
			out = append(out, item)
		}
	}
	if dropped := len(items) - len(out); dropped > 0 {
		logger.Warn("[pipeline] dropped suggestions with figures not present in the input",
			zap.String("task", string(task)), zap.Int("dropped", dropped), zap.Int("kept", len(out)))
	}
	if len(out) == 0 {
		return nil, &parsing.ParseError{Task: task, Message: "every suggestion introduced figures not present in the input"}
	}
	return out, nil
}

// marshalSource renders structured request data as text for the figure check
func marshalSource(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
