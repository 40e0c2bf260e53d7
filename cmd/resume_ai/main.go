// Package main provides the resume_ai command line: one subcommand per generation task, plus
// database migrations and usage maintenance.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	userID     string
	resumeID   string
	premium    bool
)

var rootCmd = &cobra.Command{
	Use:           "resume_ai",
	Short:         "AI generation and validation pipeline for resumes",
	Long:          "resume_ai turns untrusted resume content into validated AI-generated content, with rate limiting, usage accounting and suggestion caching.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable development logging")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "cli", "User ID charged for the call")
	rootCmd.PersistentFlags().StringVar(&resumeID, "resume", "", "Resume ID the call is accounted to")
	rootCmd.PersistentFlags().BoolVar(&premium, "premium", false, "Run the call on the premium tier")
	rootCmd.PersistentFlags().BoolVar(&prettyOutput, "pretty", false, "Print reports and improvements as boxed text instead of JSON")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}
