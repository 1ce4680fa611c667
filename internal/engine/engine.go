// Package engine orchestrates requirement resolution: candidates are built
// once, each requirement flows through the deterministic resolver and then
// the constrained decision loop, and the run accumulates edit operations
// plus a per-requirement report under global resolution policies.
package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/requirement-resolver/internal/candidates"
	"github.com/jonathan/requirement-resolver/internal/lexical"
	"github.com/jonathan/requirement-resolver/internal/resolver"
	"github.com/jonathan/requirement-resolver/internal/types"
)

// Decider is the constrained decision loop interface consumed by the
// engine. Production wires internal/decision; tests script it.
type Decider interface {
	Decide(ctx context.Context, req *types.Requirement, cands []types.CandidateElement, locked bool) (types.Decision, error)
}

// ProgressFunc receives one event after each requirement completes.
type ProgressFunc func(types.ProgressEvent)

// InvalidInputError rejects a malformed request before any processing.
type InvalidInputError struct {
	Message string
	Cause   error
}

func (e *InvalidInputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid input: %s: %v", e.Message, e.Cause)
	}
	return "invalid input: " + e.Message
}

func (e *InvalidInputError) Unwrap() error { return e.Cause }

// Input is the full payload of one resolution run.
type Input struct {
	Requirements []types.Requirement
	Document     *types.ResumeDocument
	Profiles     []types.ElementProfile
}

// Engine resolves a weighted requirement list against a resume document.
// It is stateless across runs; resolution counts and candidate lists are
// built fresh per invocation.
type Engine struct {
	decider Decider
	logger  *zap.Logger
}

// New creates an Engine. A nil logger disables logging.
func New(decider Decider, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{decider: decider, logger: logger}
}

// validate rejects malformed input wholesale (error class: invalid input).
func validate(in Input) error {
	if in.Document == nil {
		return &InvalidInputError{Message: "document is required"}
	}
	for i := range in.Requirements {
		if err := in.Requirements[i].Validate(); err != nil {
			return &InvalidInputError{
				Message: fmt.Sprintf("requirement %d (%s)", i, in.Requirements[i].ID),
				Cause:   err,
			}
		}
	}
	for i := range in.Profiles {
		if err := in.Profiles[i].Validate(); err != nil {
			return &InvalidInputError{
				Message: fmt.Sprintf("element profile %d (%s)", i, in.Profiles[i].Path),
				Cause:   err,
			}
		}
	}
	return nil
}

// Resolve runs the full requirement list sequentially and returns the
// accumulated operations and report. progress may be nil.
//
// Requirements are processed strictly in input order: resolution counts
// are a shared resource across iterations, so concurrent resolution
// against the same candidate set would race the cap accounting. A
// permanent generation failure aborts the run and is returned as an
// error; every recoverable condition degrades to a report entry.
func (e *Engine) Resolve(ctx context.Context, in Input, progress ProgressFunc) (*types.ResolveResult, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	cands := candidates.Build(in.Document, types.BuildProfileMap(in.Profiles))
	counts := make(resolutionCounts)

	result := &types.ResolveResult{
		Operations: make([]types.EditOperation, 0),
		Report:     make([]types.ReportEntry, 0, len(in.Requirements)),
	}
	sawTransient := false
	total := len(in.Requirements)

	for i := range in.Requirements {
		req := &in.Requirements[i]

		entry, transient, err := e.resolveOne(ctx, req, cands, counts, result)
		if err != nil {
			return nil, err
		}
		if transient {
			sawTransient = true
		}
		result.Report = append(result.Report, entry)

		if progress != nil {
			progress(types.ProgressEvent{
				Completed:     i + 1,
				Total:         total,
				RequirementID: req.ID,
				Canonical:     req.Canonical,
				Status:        entry.Status,
			})
		}
	}

	if len(result.Operations) == 0 && sawTransient {
		result.TransientFailure = true
	}
	return result, nil
}

// resolveOne runs the per-requirement state machine and returns the report
// entry, whether the failure (if any) was transient, and a non-nil error
// only on a permanent generation failure.
func (e *Engine) resolveOne(
	ctx context.Context,
	req *types.Requirement,
	cands []types.CandidateElement,
	counts resolutionCounts,
	result *types.ResolveResult,
) (types.ReportEntry, bool, error) {
	locked := req.Type == types.TypeEducation || resolver.IsYearsRequirement(req)

	available := eligibleCandidates(req, cands, counts)
	if len(available) == 0 {
		e.logger.Debug("no eligible candidates remain",
			zap.String("requirement_id", req.ID))
		return types.ReportEntry{
			RequirementID: req.ID,
			Canonical:     req.Canonical,
			Status:        unresolvedStatus(locked),
			Mentioned:     types.MentionNone,
			Reason:        "no eligible document elements remain for this requirement",
		}, false, nil
	}

	// Fast path: deterministic rules, no generation call.
	if path, ok := resolver.Resolve(req, available); ok {
		counts.increment(path)
		return types.ReportEntry{
			RequirementID: req.ID,
			Canonical:     req.Canonical,
			Status:        resolvedStatus(locked),
			Mentioned:     types.MentionYes,
			MatchedPath:   path,
		}, false, nil
	}

	dec, err := e.decider.Decide(ctx, req, available, locked)
	if err != nil {
		return types.ReportEntry{}, false, fmt.Errorf("requirement %s: %w", req.ID, err)
	}

	switch d := dec.(type) {
	case types.Already:
		counts.increment(d.Path)
		return types.ReportEntry{
			RequirementID: req.ID,
			Canonical:     req.Canonical,
			Status:        resolvedStatus(locked),
			Mentioned:     types.MentionYes,
			MatchedPath:   d.Path,
			Reason:        d.Reason,
		}, false, nil

	case types.Edit:
		// Locked requirements never reach here: the decider refuses Edit
		// outcomes when locked. Guard anyway so the invariant survives a
		// misbehaving Decider implementation.
		if locked {
			return types.ReportEntry{
				RequirementID: req.ID,
				Canonical:     req.Canonical,
				Status:        types.StatusLockedNoEdit,
				Mentioned:     d.Mentioned,
				Reason:        d.Reason,
			}, false, nil
		}

		value := lexical.NormalizeValue(d.Replacement)
		current := currentText(available, d.Path)
		if value == lexical.NormalizeValue(current) {
			// The model judged no change was needed. The source treats
			// this as unresolved rather than resolved; preserved as-is
			// because changing it would alter reported resolution rates.
			return types.ReportEntry{
				RequirementID: req.ID,
				Canonical:     req.Canonical,
				Status:        types.StatusUnresolved,
				Mentioned:     d.Mentioned,
				MatchedPath:   d.Path,
				Reason:        d.Reason,
			}, false, nil
		}

		result.Operations = append(result.Operations, types.EditOperation{
			Op:            "replace",
			Path:          d.Path,
			Value:         value,
			RequirementID: req.ID,
			Mentioned:     d.Mentioned,
			FeasibleEdit:  true,
			Edited:        true,
		})
		counts.increment(d.Path)
		return types.ReportEntry{
			RequirementID: req.ID,
			Canonical:     req.Canonical,
			Status:        types.StatusEdited,
			Mentioned:     d.Mentioned,
			EditedPath:    d.Path,
			Reason:        d.Reason,
		}, false, nil

	case types.Unresolved:
		return types.ReportEntry{
			RequirementID: req.ID,
			Canonical:     req.Canonical,
			Status:        unresolvedStatus(locked),
			Mentioned:     d.Mentioned,
			MatchedPath:   d.Path,
			Reason:        d.Reason,
		}, d.Transient, nil

	default:
		return types.ReportEntry{}, false, fmt.Errorf("requirement %s: unknown decision type %T", req.ID, dec)
	}
}

// eligibleCandidates filters the candidate list to paths below the
// resolution cap and categories eligible for the requirement type.
// Education-field elements are addressable only by education requirements;
// every other category is always eligible.
func eligibleCandidates(req *types.Requirement, cands []types.CandidateElement, counts resolutionCounts) []types.CandidateElement {
	out := make([]types.CandidateElement, 0, len(cands))
	for _, c := range cands {
		if !counts.available(c.Path) {
			continue
		}
		if c.Category == types.CategoryEducationField && req.Type != types.TypeEducation {
			continue
		}
		out = append(out, c)
	}
	return out
}

func currentText(cands []types.CandidateElement, path string) string {
	for _, c := range cands {
		if c.Path == path {
			return c.Text
		}
	}
	return ""
}

func resolvedStatus(locked bool) types.ResolutionStatus {
	if locked {
		return types.StatusLockedNoEdit
	}
	return types.StatusAlreadyMentioned
}

func unresolvedStatus(locked bool) types.ResolutionStatus {
	if locked {
		return types.StatusLockedNoEdit
	}
	return types.StatusUnresolved
}
