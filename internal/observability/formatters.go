// Package observability renders usage reports and generation results as boxed text for the CLI.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-ai/internal/types"
	"github.com/jonathan/resume-ai/internal/usage"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer writes boxed reports
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// wrap splits text into lines of at most width runes, keeping at most maxLines lines
func wrap(text string, width, maxLines int) []string {
	var lines []string
	var line string
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = truncate(lines[maxLines-1]+" ...", width)
	}
	return lines
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintUsageSummary outputs a user's token and cost totals with the latest months.
func (p *Printer) PrintUsageSummary(summary *usage.UserSummary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("User:      %s\n", summary.UserID))
	sb.WriteString(fmt.Sprintf("Calls:     %d\n", summary.TotalAICalls))
	sb.WriteString(fmt.Sprintf("Tokens:    %d in / %d out\n", summary.TotalInputTokens, summary.TotalOutputTokens))
	sb.WriteString(fmt.Sprintf("Cost:      $%.4f\n", summary.TotalCostUSD))
	if !summary.LastAICallAt.IsZero() {
		sb.WriteString(fmt.Sprintf("Last call: %s\n", summary.LastAICallAt.UTC().Format("2006-01-02 15:04:05")))
	}

	if len(summary.Monthly) > 0 {
		months := append([]usage.MonthlyStats(nil), summary.Monthly...)
		sort.Slice(months, func(i, j int) bool { return months[i].Month > months[j].Month })

		sb.WriteString("\nMonthly:\n")
		count := min(len(months), maxItemsToShow)
		for i := 0; i < count; i++ {
			m := months[i]
			sb.WriteString(fmt.Sprintf("  • %s  %d calls  $%.4f\n", m.Month, m.CallCount, m.CostUSD))
		}
		if len(months) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(months)-maxItemsToShow))
		}
	}

	p.printBox("AI USAGE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResumeCost outputs the cost of a resume broken down by call category.
func (p *Printer) PrintResumeCost(cost *usage.ResumeCost) {
	if cost == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Resume:  %s\n", cost.ResumeID))
	sb.WriteString(fmt.Sprintf("Tokens:  %d in / %d out\n", cost.TotalInputTokens, cost.TotalOutputTokens))
	sb.WriteString(fmt.Sprintf("Cost:    $%.4f\n", cost.TotalCostUSD))

	if len(cost.CallBreakdown) > 0 {
		categories := make([]string, 0, len(cost.CallBreakdown))
		for c := range cost.CallBreakdown {
			categories = append(categories, string(c))
		}
		sort.Strings(categories)

		sb.WriteString("\nBy category:\n")
		for _, c := range categories {
			sb.WriteString(fmt.Sprintf("  • %-16s $%.4f\n", c, cost.CallBreakdown[usage.Category(c)]))
		}
	}

	p.printBox("RESUME AI COST", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecentLogs outputs the newest usage records of a user.
func (p *Printer) PrintRecentLogs(records []usage.Record) {
	if len(records) == 0 {
		p.printBox("RECENT AI CALLS", "No calls recorded")
		return
	}

	var sb strings.Builder
	for i, rec := range records {
		sb.WriteString(fmt.Sprintf("%s  %s\n", rec.Timestamp.UTC().Format("2006-01-02 15:04"), rec.Endpoint))
		sb.WriteString(fmt.Sprintf("    %s/%s  %d tokens  $%.5f\n", rec.Provider, rec.Model, rec.Usage.TotalTokens, rec.CostUSD))
		if i < len(records)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("RECENT AI CALLS", sb.String())
}

// PrintImprovement outputs an improvement result, flagging a fallback to the original text.
func (p *Printer) PrintImprovement(result *types.ImprovementResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	if result.SectionType != "" {
		sb.WriteString(fmt.Sprintf("Section:  %s\n", result.SectionType))
	}
	sb.WriteString(fmt.Sprintf("Model:    %s/%s (%d tokens)\n", result.Provider, result.Model, result.TokensUsed))
	if result.FellBack {
		sb.WriteString(fmt.Sprintf("⚠ Kept original text: %s\n", result.Reason))
	} else {
		sb.WriteString("✓ Output passed validation\n")
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Join(wrap(result.Text, boxWidth-4, 3), "\n"))

	p.printBox("IMPROVEMENT", sb.String())
}
