package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-ai/internal/observability"
	"github.com/jonathan/resume-ai/internal/pipeline"
	"github.com/jonathan/resume-ai/internal/types"
	"github.com/jonathan/resume-ai/internal/usage"
)

var (
	inputFile    string
	outputFile   string
	prettyOutput bool
)

// addIOFlags registers the request and response file flags of a task command
func addIOFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&inputFile, "in", "i", "-", "Path to the JSON request, or - for stdin")
	addOutputFlag(cmd)
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputFile, "out", "o", "-", "Path to write the JSON response, or - for stdout")
}

// readRequest decodes the JSON request of a command into v
func readRequest(cmd *cobra.Command, v any) error {
	var r io.Reader = cmd.InOrStdin()
	if inputFile != "" && inputFile != "-" {
		f, err := os.Open(inputFile)
		if err != nil {
			return fmt.Errorf("failed to open request file: %w", err)
		}
		defer f.Close()
		r = f
	}
	return decodeRequest(r, v)
}

func decodeRequest(r io.Reader, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return pipeline.Invalid("request", "request body is required")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return pipeline.Invalid("request", "invalid JSON in request body: "+err.Error())
	}
	return nil
}

// writeJSON writes v as indented JSON to the command output or the --out file
func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')

	if outputFile == "" || outputFile == "-" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// render writes v as a boxed report when --pretty is set and v has one, and as JSON otherwise
func render(cmd *cobra.Command, v any) error {
	if prettyOutput && (outputFile == "" || outputFile == "-") {
		p := observability.NewPrinter(cmd.OutOrStdout())
		switch r := v.(type) {
		case *usage.UserSummary:
			p.PrintUsageSummary(r)
			return nil
		case *usage.ResumeCost:
			p.PrintResumeCost(r)
			return nil
		case []usage.Record:
			p.PrintRecentLogs(r)
			return nil
		case *types.ImprovementResult:
			p.PrintImprovement(r)
			return nil
		}
	}
	return writeJSON(cmd, v)
}

// exitCode maps an error to the process exit status
func exitCode(err error) int {
	switch pipeline.StatusCode(err) {
	case http.StatusOK:
		return 0
	case http.StatusBadRequest:
		return 2
	case http.StatusUnprocessableEntity:
		return 3
	case http.StatusTooManyRequests:
		return 4
	case http.StatusBadGateway:
		return 5
	default:
		return 1
	}
}
