package decision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/requirement-resolver/internal/llm"
	"github.com/jonathan/requirement-resolver/internal/types"
)

// MaxAttempts bounds the generation attempts per requirement, repairs and
// transient retries included.
const MaxAttempts = 3

// reasonAttemptsExhausted is reported when every attempt produced an
// invalid response.
const reasonAttemptsExhausted = "could not reach a valid decision within the attempt budget"

// ReasonTemporaryServiceIssue marks unresolved entries caused by a
// temporary service failure. The caller keys a retry affordance off it.
const ReasonTemporaryServiceIssue = "temporary service issue, please retry"

// Decider runs the constrained decision loop against a generation client.
type Decider struct {
	client llm.Client
	tier   llm.ModelTier
	logger *zap.Logger
}

// NewDecider creates a Decider. A nil logger disables debug logging.
func NewDecider(client llm.Client, tier llm.ModelTier, logger *zap.Logger) *Decider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decider{client: client, tier: tier, logger: logger}
}

// Decide resolves one requirement against the candidate list via bounded,
// self-repairing generation. locked forbids Edit outcomes entirely.
//
// The returned error is non-nil only for permanent failures (non-retryable
// service errors, broken internal schema); every recoverable condition
// degrades to an Unresolved decision.
func (d *Decider) Decide(ctx context.Context, req *types.Requirement, candidates []types.CandidateElement, locked bool) (types.Decision, error) {
	basePrompt, err := buildDecisionPrompt(req, candidates, locked)
	if err != nil {
		return nil, fmt.Errorf("failed to build decision prompt: %w", err)
	}

	byPath := make(map[string]*types.CandidateElement, len(candidates))
	for i := range candidates {
		byPath[candidates[i].Path] = &candidates[i]
	}

	gen := func(ctx context.Context, prompt string) (string, error) {
		return d.client.GenerateJSON(ctx, prompt, d.tier)
	}

	decision, err := GenerateConstrained(ctx, gen, basePrompt, buildRepairPrompt, MaxAttempts,
		func(raw string) (types.Decision, error) {
			resp, err := parseDecisionResponse(raw)
			if err != nil {
				return nil, err
			}
			return interpret(resp, byPath, locked)
		})

	switch {
	case err == nil:
		return decision, nil
	case errors.Is(err, ErrTransientService):
		d.logger.Warn("decision loop exhausted on transient failures",
			zap.String("requirement_id", req.ID))
		return types.Unresolved{
			Mentioned: types.MentionNone,
			Reason:    ReasonTemporaryServiceIssue,
			Transient: true,
		}, nil
	case errors.Is(err, ErrAttemptsExhausted):
		d.logger.Warn("decision loop exhausted attempt budget",
			zap.String("requirement_id", req.ID))
		return types.Unresolved{
			Mentioned: types.MentionNone,
			Reason:    reasonAttemptsExhausted,
		}, nil
	default:
		return nil, err
	}
}

// interpret applies the decision policy to a schema-valid response.
// Violations of candidate-set membership, locked-no-edit rules, or length
// budgets come back as repairable errors.
func interpret(resp *decisionResponse, byPath map[string]*types.CandidateElement, locked bool) (types.Decision, error) {
	mentioned := types.Mention(resp.Mentioned)

	path := ""
	if resp.Path != nil {
		path = strings.TrimSpace(*resp.Path)
	}

	var target *types.CandidateElement
	if path != "" {
		var ok bool
		target, ok = byPath[path]
		if !ok {
			return nil, Repairable("path %q is not one of the candidate paths; choose a path from the provided list or null", path)
		}
	}

	if locked {
		if mentioned == types.MentionYes {
			if target == nil {
				return nil, Repairable(`mentioned "yes" requires the path of the element that evidences the requirement`)
			}
			return types.Already{Path: path, Reason: resp.Reason}, nil
		}
		// No edit is ever permitted for locked requirements, whatever the
		// model proposed.
		return types.Unresolved{Path: path, Mentioned: mentioned, Reason: resp.Reason}, nil
	}

	if mentioned == types.MentionYes {
		if target == nil {
			return nil, Repairable(`mentioned "yes" requires the path of the element that evidences the requirement`)
		}
		return types.Already{Path: path, Reason: resp.Reason}, nil
	}

	if resp.Edited || resp.FeasibleEdit {
		if target == nil {
			return nil, Repairable("an edit requires a target path from the candidate list")
		}
		replacement := strings.TrimSpace(resp.SuggestedEdit)
		if replacement == "" {
			return nil, Repairable("an edit requires non-empty suggested_edit text")
		}
		if err := CheckBudget(replacement, target); err != nil {
			return nil, Repairable("%s; shorten the text to fit", err.Error())
		}
		return types.Edit{
			Path:        path,
			Mentioned:   mentioned,
			Replacement: replacement,
			Reason:      resp.Reason,
		}, nil
	}

	return types.Unresolved{Path: path, Mentioned: mentioned, Reason: resp.Reason}, nil
}
