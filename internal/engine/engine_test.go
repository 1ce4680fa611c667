package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/requirement-resolver/internal/types"
)

// scriptedDecider replays decisions keyed by requirement ID and records
// what it was asked.
type scriptedDecider struct {
	decisions map[string]types.Decision
	errs      map[string]error
	calls     []string
	locked    map[string]bool
	cands     map[string][]types.CandidateElement
}

func newScriptedDecider() *scriptedDecider {
	return &scriptedDecider{
		decisions: make(map[string]types.Decision),
		errs:      make(map[string]error),
		locked:    make(map[string]bool),
		cands:     make(map[string][]types.CandidateElement),
	}
}

func (d *scriptedDecider) Decide(_ context.Context, req *types.Requirement, cands []types.CandidateElement, locked bool) (types.Decision, error) {
	d.calls = append(d.calls, req.ID)
	d.locked[req.ID] = locked
	d.cands[req.ID] = cands
	if err, ok := d.errs[req.ID]; ok {
		return nil, err
	}
	if dec, ok := d.decisions[req.ID]; ok {
		return dec, nil
	}
	return types.Unresolved{Mentioned: types.MentionNone, Reason: "unscripted"}, nil
}

func testDocument() *types.ResumeDocument {
	return &types.ResumeDocument{
		Subtitle: "Senior Engineer | 8 years of experience",
		Experience: []types.ExperienceEntry{
			{Company: "Acme", Role: "Engineer", Bullets: []string{
				"Built data pipelines in Python",
				"Led a team of four engineers",
			}},
		},
		Education: []types.EducationEntry{
			{Institution: "State University", Field: "B.S. in Computer Science"},
		},
		Skills: []types.SkillEntry{{Name: "Docker"}},
		Sections: types.SectionVisibility{
			Subtitle: true, Experience: true, Projects: true, Education: true, Skills: true,
		},
	}
}

func testProfiles() []types.ElementProfile {
	paths := []string{
		"subtitle",
		"experience[0].bullets[0]",
		"experience[0].bullets[1]",
		"education[0].field",
		"skills[0].name",
	}
	profiles := make([]types.ElementProfile, 0, len(paths))
	for _, p := range paths {
		profiles = append(profiles, types.ElementProfile{
			Path: p, MaxLines: 2, MaxCharsPerLine: 90, MaxCharsTotal: 180,
		})
	}
	return profiles
}

func req(id, canonical string, typ types.RequirementType) types.Requirement {
	return types.Requirement{ID: id, Canonical: canonical, Type: typ, Weight: 50}
}

func TestResolve_InvalidInput(t *testing.T) {
	e := New(newScriptedDecider(), nil)

	_, err := e.Resolve(context.Background(), Input{Document: nil}, nil)
	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)

	_, err = e.Resolve(context.Background(), Input{
		Document:     testDocument(),
		Requirements: []types.Requirement{{ID: "r1", Canonical: "Python", Type: "gadget"}},
	}, nil)
	require.ErrorAs(t, err, &invalid)
}

func TestResolve_ZeroBudgetProfileRejected(t *testing.T) {
	decider := newScriptedDecider()
	decider.decisions["r1"] = types.Edit{
		Path:        "experience[0].bullets[1]",
		Mentioned:   types.MentionNone,
		Replacement: strings.Repeat("x", 5000),
		Reason:      "unbounded",
	}
	e := New(decider, nil)

	// A profile with zero budgets would disable length enforcement entirely,
	// so it must be rejected up front rather than let an oversized edit
	// through.
	profiles := testProfiles()
	profiles[2] = types.ElementProfile{Path: "experience[0].bullets[1]"}

	result, err := e.Resolve(context.Background(), Input{
		Requirements: []types.Requirement{req("r1", "Terraform", types.TypeTool)},
		Document:     testDocument(),
		Profiles:     profiles,
	}, nil)
	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Nil(t, result)
	assert.Empty(t, decider.calls, "malformed input is rejected before any decision")
}

func TestResolve_DeterministicSkipsDecider(t *testing.T) {
	decider := newScriptedDecider()
	e := New(decider, nil)

	result, err := e.Resolve(context.Background(), Input{
		Requirements: []types.Requirement{req("r1", "Python", types.TypeTool)},
		Document:     testDocument(),
		Profiles:     testProfiles(),
	}, nil)
	require.NoError(t, err)

	require.Len(t, result.Report, 1)
	assert.Equal(t, types.StatusAlreadyMentioned, result.Report[0].Status)
	assert.Equal(t, types.MentionYes, result.Report[0].Mentioned)
	assert.Equal(t, "experience[0].bullets[0]", result.Report[0].MatchedPath)
	assert.Empty(t, result.Operations)
	assert.Empty(t, decider.calls, "deterministic match must not invoke the decider")
}

func TestResolve_EditProducesOperation(t *testing.T) {
	decider := newScriptedDecider()
	decider.decisions["r1"] = types.Edit{
		Path:        "experience[0].bullets[1]",
		Mentioned:   types.MentionImplied,
		Replacement: "Led a team of four engineers using Terraform for infrastructure",
		Reason:      "truthful extension",
	}
	e := New(decider, nil)

	result, err := e.Resolve(context.Background(), Input{
		Requirements: []types.Requirement{req("r1", "Terraform", types.TypeTool)},
		Document:     testDocument(),
		Profiles:     testProfiles(),
	}, nil)
	require.NoError(t, err)

	require.Len(t, result.Operations, 1)
	op := result.Operations[0]
	assert.Equal(t, "replace", op.Op)
	assert.Equal(t, "experience[0].bullets[1]", op.Path)
	assert.Equal(t, "r1", op.RequirementID)
	assert.True(t, op.Edited)

	require.Len(t, result.Report, 1)
	assert.Equal(t, types.StatusEdited, result.Report[0].Status)
	assert.Equal(t, "experience[0].bullets[1]", result.Report[0].EditedPath)
	assert.False(t, result.TransientFailure)
}

func TestResolve_NoOpEditSuppressed(t *testing.T) {
	decider := newScriptedDecider()
	decider.decisions["r1"] = types.Edit{
		Path:        "experience[0].bullets[1]",
		Mentioned:   types.MentionImplied,
		Replacement: "Led a team of four engineers\r\n",
		Reason:      "no real change",
	}
	e := New(decider, nil)

	result, err := e.Resolve(context.Background(), Input{
		Requirements: []types.Requirement{req("r1", "Terraform", types.TypeTool)},
		Document:     testDocument(),
		Profiles:     testProfiles(),
	}, nil)
	require.NoError(t, err)

	assert.Empty(t, result.Operations, "a replacement equal to the current text is not an edit")
	require.Len(t, result.Report, 1)
	assert.Equal(t, types.StatusUnresolved, result.Report[0].Status)
}

func TestResolve_ResolutionCapEnforced(t *testing.T) {
	decider := newScriptedDecider()
	for i := 1; i <= 3; i++ {
		decider.decisions[fmt.Sprintf("r%d", i)] = types.Already{
			Path: "experience[0].bullets[1]", Reason: "leadership shown",
		}
	}
	e := New(decider, nil)

	result, err := e.Resolve(context.Background(), Input{
		Requirements: []types.Requirement{
			req("r1", "Mentoring", types.TypeLeadership),
			req("r2", "Team leadership", types.TypeLeadership),
			req("r3", "People management", types.TypeLeadership),
		},
		Document: testDocument(),
		Profiles: testProfiles(),
	}, nil)
	require.NoError(t, err)

	// After two resolutions the path drops out of the candidate set, so the
	// third requirement's decider call must not see it.
	require.Len(t, decider.calls, 3)
	for _, c := range decider.cands["r3"] {
		assert.NotEqual(t, "experience[0].bullets[1]", c.Path)
	}
	assert.Equal(t, types.StatusAlreadyMentioned, result.Report[0].Status)
	assert.Equal(t, types.StatusAlreadyMentioned, result.Report[1].Status)
}

func TestResolve_LockedYearsRequirement(t *testing.T) {
	decider := newScriptedDecider()
	e := New(decider, nil)

	// Subtitle mentions 8 years; at least 5 required, so the deterministic
	// rule resolves it without touching the document.
	result, err := e.Resolve(context.Background(), Input{
		Requirements: []types.Requirement{req("r1", "at least 5 years of experience", types.TypeConstraint)},
		Document:     testDocument(),
		Profiles:     testProfiles(),
	}, nil)
	require.NoError(t, err)

	require.Len(t, result.Report, 1)
	assert.Equal(t, types.StatusLockedNoEdit, result.Report[0].Status)
	assert.Equal(t, types.MentionYes, result.Report[0].Mentioned)
	assert.Equal(t, "subtitle", result.Report[0].MatchedPath)
	assert.Empty(t, result.Operations)
	assert.Empty(t, decider.calls)
}

func TestResolve_LockedRequirementNeverEmitsOperation(t *testing.T) {
	decider := newScriptedDecider()
	// A misbehaving decider returns an Edit for a locked requirement; the
	// engine must refuse it.
	decider.decisions["r1"] = types.Edit{
		Path:        "subtitle",
		Mentioned:   types.MentionNone,
		Replacement: "Senior Engineer | 12 years of experience",
		Reason:      "inflated",
	}
	e := New(decider, nil)

	result, err := e.Resolve(context.Background(), Input{
		Requirements: []types.Requirement{req("r1", "12+ years of experience", types.TypeConstraint)},
		Document:     testDocument(),
		Profiles:     testProfiles(),
	}, nil)
	require.NoError(t, err)

	require.Len(t, decider.calls, 1)
	assert.True(t, decider.locked["r1"])
	assert.Empty(t, result.Operations)
	require.Len(t, result.Report, 1)
	assert.Equal(t, types.StatusLockedNoEdit, result.Report[0].Status)
}

func TestResolve_EducationFieldOnlyForEducationRequirements(t *testing.T) {
	decider := newScriptedDecider()
	e := New(decider, nil)

	_, err := e.Resolve(context.Background(), Input{
		Requirements: []types.Requirement{req("r1", "Terraform", types.TypeTool)},
		Document:     testDocument(),
		Profiles:     testProfiles(),
	}, nil)
	require.NoError(t, err)

	for _, c := range decider.cands["r1"] {
		assert.NotEqual(t, types.CategoryEducationField, c.Category,
			"non-education requirements must not see education fields")
	}
}

func TestResolve_EducationDeterministic(t *testing.T) {
	decider := newScriptedDecider()
	e := New(decider, nil)

	result, err := e.Resolve(context.Background(), Input{
		Requirements: []types.Requirement{req("r1", "Bachelor's degree in a technical field", types.TypeEducation)},
		Document:     testDocument(),
		Profiles:     testProfiles(),
	}, nil)
	require.NoError(t, err)

	require.Len(t, result.Report, 1)
	assert.Equal(t, types.StatusLockedNoEdit, result.Report[0].Status)
	assert.Equal(t, "education[0].field", result.Report[0].MatchedPath)
	assert.Empty(t, decider.calls)
}

func TestResolve_TransientFailureFlag(t *testing.T) {
	decider := newScriptedDecider()
	decider.decisions["r1"] = types.Unresolved{
		Mentioned: types.MentionNone,
		Reason:    "temporary service issue, please retry",
		Transient: true,
	}
	e := New(decider, nil)

	result, err := e.Resolve(context.Background(), Input{
		Requirements: []types.Requirement{req("r1", "Terraform", types.TypeTool)},
		Document:     testDocument(),
		Profiles:     testProfiles(),
	}, nil)
	require.NoError(t, err)

	assert.True(t, result.TransientFailure)
	require.Len(t, result.Report, 1)
	assert.Equal(t, types.StatusUnresolved, result.Report[0].Status)
}

func TestResolve_TransientFlagClearedByAnyOperation(t *testing.T) {
	decider := newScriptedDecider()
	decider.decisions["r1"] = types.Unresolved{
		Mentioned: types.MentionNone, Reason: "temporary service issue, please retry", Transient: true,
	}
	decider.decisions["r2"] = types.Edit{
		Path:        "experience[0].bullets[1]",
		Mentioned:   types.MentionNone,
		Replacement: "Led a team of four engineers and ran Kubernetes workloads",
		Reason:      "truthful",
	}
	e := New(decider, nil)

	result, err := e.Resolve(context.Background(), Input{
		Requirements: []types.Requirement{
			req("r1", "Terraform", types.TypeTool),
			req("r2", "Kubernetes", types.TypePlatform),
		},
		Document: testDocument(),
		Profiles: testProfiles(),
	}, nil)
	require.NoError(t, err)

	assert.False(t, result.TransientFailure, "partial progress disables the blanket retry flag")
	assert.Len(t, result.Operations, 1)
}

func TestResolve_PermanentFailureAbortsRun(t *testing.T) {
	decider := newScriptedDecider()
	decider.errs["r1"] = errors.New("api key rejected")
	e := New(decider, nil)

	_, err := e.Resolve(context.Background(), Input{
		Requirements: []types.Requirement{
			req("r1", "Terraform", types.TypeTool),
			req("r2", "Kubernetes", types.TypePlatform),
		},
		Document: testDocument(),
		Profiles: testProfiles(),
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "r1")
	assert.Len(t, decider.calls, 1, "the run aborts at the first permanent failure")
}

func TestResolve_ProgressEvents(t *testing.T) {
	decider := newScriptedDecider()
	e := New(decider, nil)

	var events []types.ProgressEvent
	_, err := e.Resolve(context.Background(), Input{
		Requirements: []types.Requirement{
			req("r1", "Python", types.TypeTool),
			req("r2", "Terraform", types.TypeTool),
		},
		Document: testDocument(),
		Profiles: testProfiles(),
	}, func(ev types.ProgressEvent) { events = append(events, ev) })
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, 1, events[0].Completed)
	assert.Equal(t, 2, events[0].Total)
	assert.Equal(t, "r1", events[0].RequirementID)
	assert.Equal(t, types.StatusAlreadyMentioned, events[0].Status)
	assert.Equal(t, 2, events[1].Completed)
	assert.Equal(t, "r2", events[1].RequirementID)
}

func TestResolve_NoProfilesMeansNoCandidates(t *testing.T) {
	decider := newScriptedDecider()
	e := New(decider, nil)

	result, err := e.Resolve(context.Background(), Input{
		Requirements: []types.Requirement{req("r1", "Python", types.TypeTool)},
		Document:     testDocument(),
	}, nil)
	require.NoError(t, err)

	require.Len(t, result.Report, 1)
	assert.Equal(t, types.StatusUnresolved, result.Report[0].Status)
	assert.Empty(t, decider.calls)
}

func TestResolve_Idempotence(t *testing.T) {
	decider := newScriptedDecider()
	decider.decisions["r1"] = types.Edit{
		Path:        "experience[0].bullets[1]",
		Mentioned:   types.MentionNone,
		Replacement: "Led a team of four engineers with Terraform-managed environments",
		Reason:      "truthful",
	}
	e := New(decider, nil)

	in := Input{
		Requirements: []types.Requirement{req("r1", "Terraform", types.TypeTool)},
		Document:     testDocument(),
		Profiles:     testProfiles(),
	}
	first, err := e.Resolve(context.Background(), in, nil)
	require.NoError(t, err)
	require.Len(t, first.Operations, 1)

	// Apply the edit and rerun. The requirement is now explicitly mentioned,
	// so the deterministic pass resolves it and no new operation is emitted.
	edited := testDocument()
	edited.Experience[0].Bullets[1] = first.Operations[0].Value
	in.Document = edited

	second, err := e.Resolve(context.Background(), in, nil)
	require.NoError(t, err)
	assert.Empty(t, second.Operations)
	require.Len(t, second.Report, 1)
	assert.Equal(t, types.StatusAlreadyMentioned, second.Report[0].Status)
}
