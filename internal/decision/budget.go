// Package decision implements the constrained decision loop: a bounded,
// self-repairing structured-generation fallback used when deterministic
// resolution fails. One generation call per attempt, validated against a
// JSON schema and the target element's length budget, with repair prompts
// naming the exact violation.
package decision

import (
	"fmt"
	"strings"

	"github.com/jonathan/requirement-resolver/internal/types"
)

// EstimateWrappedLineCount estimates how many rendered lines text occupies
// when wrapped at maxCharsPerLine: per input line, ceil(length/width) with
// a floor of one line for any non-empty content.
func EstimateWrappedLineCount(text string, maxCharsPerLine int) int {
	if maxCharsPerLine <= 0 {
		maxCharsPerLine = 1
	}

	total := 0
	for _, line := range strings.Split(text, "\n") {
		length := len([]rune(line))
		if length == 0 {
			continue
		}
		total += (length + maxCharsPerLine - 1) / maxCharsPerLine
	}
	return total
}

// CheckBudget verifies a proposed replacement against the candidate's
// length budget. The returned error names the exact overage so it can be
// fed back to the model as a repair diagnostic.
func CheckBudget(replacement string, candidate *types.CandidateElement) error {
	charCount := len([]rune(replacement))
	if candidate.MaxCharsTotal > 0 && charCount > candidate.MaxCharsTotal {
		return fmt.Errorf("suggested edit for %s is %d characters, %d over the %d character budget",
			candidate.Path, charCount, charCount-candidate.MaxCharsTotal, candidate.MaxCharsTotal)
	}

	lines := EstimateWrappedLineCount(replacement, candidate.MaxCharsPerLine)
	if candidate.MaxLines > 0 && lines > candidate.MaxLines {
		return fmt.Errorf("suggested edit for %s wraps to %d lines at %d characters per line, exceeding the %d line budget",
			candidate.Path, lines, candidate.MaxCharsPerLine, candidate.MaxLines)
	}
	return nil
}
