package decision

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/requirement-resolver/internal/schemas"
)

// decisionSchema constrains the structured-generation response. A response
// that fails this schema is a retryable validation failure, never fatal.
const decisionSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["path", "mentioned", "feasible_edit", "edited", "suggested_edit", "reason"],
	"additionalProperties": false,
	"properties": {
		"path": {"type": ["string", "null"]},
		"mentioned": {"type": "string", "enum": ["yes", "implied", "none"]},
		"feasible_edit": {"type": "boolean"},
		"edited": {"type": "boolean"},
		"suggested_edit": {"type": "string"},
		"reason": {"type": "string"}
	}
}`

// decisionResponse is the parsed shape of one generation attempt.
type decisionResponse struct {
	Path          *string `json:"path"`
	Mentioned     string  `json:"mentioned"`
	FeasibleEdit  bool    `json:"feasible_edit"`
	Edited        bool    `json:"edited"`
	SuggestedEdit string  `json:"suggested_edit"`
	Reason        string  `json:"reason"`
}

// parseDecisionResponse unmarshals and schema-validates one raw response.
// Malformed JSON and schema violations come back as repairable errors; a
// broken embedded schema is an internal error and is not retried.
func parseDecisionResponse(raw string) (*decisionResponse, error) {
	var probe any
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil, Repairable("response is not valid JSON: %v", err)
	}

	if err := schemas.ValidateJSONString(decisionSchema, raw); err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			return nil, Repairable("response does not match the required schema: %s", compactFieldErrors(ve))
		}
		return nil, fmt.Errorf("decision schema is invalid: %w", err)
	}

	var resp decisionResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, Repairable("response could not be decoded: %v", err)
	}
	return &resp, nil
}

func compactFieldErrors(ve *schemas.ValidationError) string {
	parts := make([]string, 0, len(ve.Errors))
	for _, fe := range ve.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	out, _ := json.Marshal(parts)
	return string(out)
}
