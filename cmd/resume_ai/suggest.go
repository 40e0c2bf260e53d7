package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-ai/internal/tasks"
	"github.com/jonathan/resume-ai/internal/types"
)

var (
	suggestJobTitle   string
	suggestProfession string
	suggestLanguage   string
)

var jobTitleAchievementsCmd = &cobra.Command{
	Use:   "job-title-achievements",
	Short: "Suggest typical achievements for a job title",
	Long:  "Suggest typical achievements for a job title. Free callers are served from the shared cache when possible.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			res, err := a.suggestions.JobTitleAchievements(ctx, a.requestContext(), suggestJobTitle, types.Language(suggestLanguage))
			if err != nil {
				return err
			}
			logQuota(a, tasks.GenerateJobTitleAchievements, res.RateLimit)
			return writeJSON(cmd, res)
		})
	},
}

var professionSkillsCmd = &cobra.Command{
	Use:   "profession-skills",
	Short: "Suggest skills for a profession",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			res, err := a.suggestions.ProfessionSkills(ctx, a.requestContext(), suggestProfession, types.Language(suggestLanguage))
			if err != nil {
				return err
			}
			logQuota(a, tasks.GenerateProfessionSuggestions, res.RateLimit)
			return writeJSON(cmd, res)
		})
	},
}

var validateProfessionCmd = &cobra.Command{
	Use:   "validate-profession",
	Short: "Check whether a text is a real profession or job title",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			res, err := a.suggestions.ValidateProfession(ctx, a.requestContext(), suggestProfession)
			if err != nil {
				return err
			}
			logQuota(a, tasks.ValidateProfession, res.RateLimit)
			return writeJSON(cmd, res)
		})
	},
}

func init() {
	jobTitleAchievementsCmd.Flags().StringVar(&suggestJobTitle, "title", "", "Job title (required)")
	jobTitleAchievementsCmd.Flags().StringVar(&suggestLanguage, "lang", "es", "Language of the suggestions (es or en)")
	_ = jobTitleAchievementsCmd.MarkFlagRequired("title")

	professionSkillsCmd.Flags().StringVar(&suggestProfession, "profession", "", "Profession (required)")
	professionSkillsCmd.Flags().StringVar(&suggestLanguage, "lang", "es", "Language of the suggestions (es or en)")
	_ = professionSkillsCmd.MarkFlagRequired("profession")

	validateProfessionCmd.Flags().StringVar(&suggestProfession, "profession", "", "Profession to validate (required)")
	_ = validateProfessionCmd.MarkFlagRequired("profession")

	for _, cmd := range []*cobra.Command{jobTitleAchievementsCmd, professionSkillsCmd, validateProfessionCmd} {
		addOutputFlag(cmd)
		rootCmd.AddCommand(cmd)
	}
}
