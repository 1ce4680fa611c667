// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/requirement-resolver/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRequirements outputs a human-readable summary of the requirement list.
func (p *Printer) PrintRequirements(requirements []types.Requirement) {
	if len(requirements) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total requirements: %d\n\n", len(requirements)))

	count := min(len(requirements), maxItemsToShow)
	for i := 0; i < count; i++ {
		req := requirements[i]
		sb.WriteString(fmt.Sprintf("• %s (%s, weight %d)", req.Canonical, req.Type, req.Weight))
		if req.MustHave {
			sb.WriteString(" [must-have]")
		}
		sb.WriteString("\n")
	}
	if len(requirements) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(requirements)-maxItemsToShow))
	}

	p.printBox("REQUIREMENTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReport outputs the per-requirement resolution report with status
// indicators.
func (p *Printer) PrintReport(report []types.ReportEntry) {
	if len(report) == 0 {
		return
	}

	counts := map[types.ResolutionStatus]int{}
	for _, entry := range report {
		counts[entry.Status]++
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Resolved %d of %d requirements\n\n",
		counts[types.StatusAlreadyMentioned]+counts[types.StatusEdited], len(report)))

	for i, entry := range report {
		sb.WriteString(fmt.Sprintf("%s %s\n", statusMarker(entry.Status), entry.Canonical))
		path := entry.MatchedPath
		if entry.EditedPath != "" {
			path = entry.EditedPath
		}
		if path != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", path))
		}
		if entry.Status == types.StatusUnresolved && entry.Reason != "" {
			reason := entry.Reason
			if len(reason) > 45 {
				reason = reason[:42] + "..."
			}
			sb.WriteString(fmt.Sprintf("  %s\n", reason))
		}
		if i < len(report)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("RESOLUTION REPORT", sb.String())
}

func statusMarker(status types.ResolutionStatus) string {
	switch status {
	case types.StatusAlreadyMentioned:
		return "✓"
	case types.StatusEdited:
		return "✎"
	case types.StatusLockedNoEdit:
		return "🔒"
	default:
		return "✗"
	}
}

// PrintOperations outputs the proposed edit operations.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintOperations(operations []types.EditOperation) {
	if len(operations) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO EDITS PROPOSED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Proposed %d edits:\n\n", len(operations)))

	count := min(len(operations), maxItemsToShow)
	for i := 0; i < count; i++ {
		op := operations[i]
		sb.WriteString(fmt.Sprintf("• %s\n", op.Path))
		value := op.Value
		if len(value) > 50 {
			value = value[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("  %s\n", value))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(operations) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more edits", len(operations)-maxItemsToShow))
	}

	p.printBox("PROPOSED EDITS", sb.String())
}

// PrintTransientNotice prints the retry affordance for runs that made no
// progress due to a temporary service failure.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintTransientNotice(result *types.ResolveResult) {
	if result == nil || !result.TransientFailure {
		return
	}
	fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "⚠ TEMPORARY SERVICE ISSUE, PLEASE RETRY")
	fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
}
