package decision

import (
	"encoding/json"

	"github.com/jonathan/requirement-resolver/internal/prompts"
	"github.com/jonathan/requirement-resolver/internal/types"
)

// promptRequirement is the requirement payload sent to the model.
type promptRequirement struct {
	ID         string   `json:"id"`
	Canonical  string   `json:"canonical"`
	Type       string   `json:"type"`
	Weight     int      `json:"weight"`
	MustHave   bool     `json:"must_have"`
	Aliases    []string `json:"aliases,omitempty"`
	JDEvidence []string `json:"jd_evidence,omitempty"`
}

// promptCandidate is the candidate payload sent to the model: path, text,
// budgets, and word list, in traversal order.
type promptCandidate struct {
	Path            string   `json:"path"`
	Text            string   `json:"text"`
	MaxLines        int      `json:"max_lines"`
	MaxCharsPerLine int      `json:"max_chars_per_line"`
	MaxCharsTotal   int      `json:"max_chars_total"`
	Words           []string `json:"words,omitempty"`
}

// buildDecisionPrompt assembles the base prompt for one requirement:
// system instructions, the locked note when applicable, and the
// requirement/candidate payload.
func buildDecisionPrompt(req *types.Requirement, candidates []types.CandidateElement, locked bool) (string, error) {
	reqPayload, err := json.MarshalIndent(promptRequirement{
		ID:         req.ID,
		Canonical:  req.Canonical,
		Type:       string(req.Type),
		Weight:     req.Weight,
		MustHave:   req.MustHave,
		Aliases:    req.Aliases,
		JDEvidence: req.JDEvidence,
	}, "", "  ")
	if err != nil {
		return "", err
	}

	candPayload := make([]promptCandidate, 0, len(candidates))
	for _, c := range candidates {
		candPayload = append(candPayload, promptCandidate{
			Path:            c.Path,
			Text:            c.Text,
			MaxLines:        c.MaxLines,
			MaxCharsPerLine: c.MaxCharsPerLine,
			MaxCharsTotal:   c.MaxCharsTotal,
			Words:           c.Words,
		})
	}
	candJSON, err := json.MarshalIndent(candPayload, "", "  ")
	if err != nil {
		return "", err
	}

	system, err := prompts.Get("resolution.json", "decision-system")
	if err != nil {
		return "", err
	}

	prompt := system
	if locked {
		lockedNote, err := prompts.Get("resolution.json", "decision-locked-note")
		if err != nil {
			return "", err
		}
		prompt += "\n\n" + lockedNote
	}

	task, err := prompts.Get("resolution.json", "decision-task")
	if err != nil {
		return "", err
	}
	prompt += "\n\n" + prompts.Format(task, map[string]string{
		"Requirement": string(reqPayload),
		"Candidates":  string(candJSON),
	})
	return prompt, nil
}

// buildRepairPrompt renders the repair instruction appended after a
// rejected attempt.
func buildRepairPrompt(diagnostic, previous string) string {
	template, err := prompts.Get("resolution.json", "repair-instruction")
	if err != nil {
		// The template is embedded at compile time; a missing key is a
		// programming error, but a bare diagnostic still repairs.
		return "Your previous response was rejected: " + diagnostic
	}
	return prompts.Format(template, map[string]string{
		"Diagnostic": diagnostic,
		"Previous":   previous,
	})
}
