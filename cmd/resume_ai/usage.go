package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-ai/internal/usage"
)

var usageLimit int

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Inspect AI usage and cost",
}

var usageSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the token and cost totals of a user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			summary, err := a.usageStore.UserSummary(ctx, userID)
			if err != nil {
				return err
			}
			if summary == nil {
				return fmt.Errorf("no usage recorded for user %s", userID)
			}
			return render(cmd, summary)
		})
	},
}

var usageResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Show the AI cost of a resume by category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if resumeID == "" {
			return fmt.Errorf("--resume is required")
		}
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			cost, err := a.usageStore.ResumeCost(ctx, resumeID)
			if err != nil {
				return err
			}
			if cost == nil {
				return fmt.Errorf("no usage recorded for resume %s", resumeID)
			}
			return render(cmd, cost)
		})
	},
}

var usageLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "List the most recent AI calls of a user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			logs, err := a.usageStore.RecentLogs(ctx, userID, usageLimit)
			if err != nil {
				return err
			}
			if logs == nil {
				logs = []usage.Record{}
			}
			return render(cmd, logs)
		})
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired rate limit windows and usage logs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			windows, err := a.limiter.Purge(ctx)
			if err != nil {
				return fmt.Errorf("failed to purge rate limit windows: %w", err)
			}
			logs, err := a.tracker.Purge(ctx)
			if err != nil {
				return err
			}
			a.logger.Info("[cli] purge complete", zap.Int64("windows", windows), zap.Int64("usage_logs", logs))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d rate limit windows and %d usage logs\n", windows, logs)
			return nil
		})
	},
}

func init() {
	usageLogsCmd.Flags().IntVar(&usageLimit, "limit", 20, "Number of records to show")
	for _, cmd := range []*cobra.Command{usageSummaryCmd, usageResumeCmd, usageLogsCmd} {
		addOutputFlag(cmd)
		usageCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(usageCmd, purgeCmd)
}
