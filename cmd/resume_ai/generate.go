package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-ai/internal/pipeline"
	"github.com/jonathan/resume-ai/internal/ratelimit"
	"github.com/jonathan/resume-ai/internal/tasks"
	"github.com/jonathan/resume-ai/internal/types"
)

// taskCommands run one pipeline entry point on a JSON request
var taskCommands = []*cobra.Command{
	{
		Use:   "generate-resume",
		Short: "Generate a complete resume from a builder draft",
		RunE:  taskRunner(tasks.GenerateResume, (*pipeline.Pipeline).GenerateResume),
	},
	{
		Use:   "enhance-text",
		Short: "Rewrite a single text for its resume context",
		RunE:  taskRunner(tasks.EnhanceText, (*pipeline.Pipeline).EnhanceText),
	},
	{
		Use:   "improve-section",
		Short: "Improve a resume section following user instructions",
		RunE:  taskRunner(tasks.ImproveSection, (*pipeline.Pipeline).ImproveSection),
	},
	{
		Use:   "parse-linkedin",
		Short: "Extract resume data from LinkedIn profile sections",
		RunE:  taskRunner(tasks.ParseLinkedInData, (*pipeline.Pipeline).ParseLinkedInData),
	},
	{
		Use:   "achievements",
		Short: "Suggest achievements for a profession",
		RunE:  taskRunner(tasks.GenerateAchievements, (*pipeline.Pipeline).GenerateAchievements),
	},
	{
		Use:   "summary",
		Short: "Suggest professional summary sentences",
		RunE:  taskRunner(tasks.GenerateSummary, (*pipeline.Pipeline).GenerateSummary),
	},
	{
		Use:   "enhancement-questions",
		Short: "Generate follow-up questions before improving a section",
		RunE:  taskRunner(tasks.GenerateEnhancementQuestions, (*pipeline.Pipeline).GenerateEnhancementQuestions),
	},
	{
		Use:   "answer-suggestion",
		Short: "Draft an answer to an enhancement question",
		RunE:  taskRunner(tasks.GenerateAnswerSuggestion, (*pipeline.Pipeline).GenerateAnswerSuggestion),
	},
	{
		Use:   "direct-enhance",
		Short: "Apply a checklist fix to a resume section",
		RunE:  taskRunner(tasks.DirectEnhance, (*pipeline.Pipeline).DirectEnhance),
	},
}

func init() {
	for _, cmd := range taskCommands {
		cmd.Args = cobra.NoArgs
		addIOFlags(cmd)
		rootCmd.AddCommand(cmd)
	}
}

// taskRunner returns a RunE that reads the request, charges the caller's quota for the task's
// endpoint, runs method and writes its result.
func taskRunner[Req, Resp any](task tasks.Task, method func(*pipeline.Pipeline, context.Context, types.AIRequestContext, Req) (Resp, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		var req Req
		if err := readRequest(cmd, &req); err != nil {
			return err
		}

		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			rc := a.requestContext()
			var resp Resp
			info, err := a.guard.Do(ctx, rc, tasks.MustGet(task).Endpoint, func(ctx context.Context) error {
				var err error
				resp, err = method(a.pipeline, ctx, rc, req)
				return err
			})
			logQuota(a, task, info)
			if err != nil {
				return err
			}
			return render(cmd, resp)
		})
	}
}

func logQuota(a *app, task tasks.Task, info ratelimit.Info) {
	a.logger.Debug("[cli] quota",
		zap.String("task", string(task)),
		zap.Bool("allowed", info.Allowed),
		zap.Int("remaining", info.Remaining),
		zap.Time("reset", info.ResetTime))
}
