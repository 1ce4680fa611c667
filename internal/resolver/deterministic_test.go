package resolver

import (
	"testing"

	"github.com/jonathan/requirement-resolver/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bullet(path, text string) types.CandidateElement {
	return types.CandidateElement{
		Path:     path,
		Category: types.CategoryForPath(path),
		Text:     text,
	}
}

func TestResolve_PhraseMatch(t *testing.T) {
	req := &types.Requirement{ID: "r1", Canonical: "Python", Type: types.TypeTool}
	cands := []types.CandidateElement{
		bullet("experience[0].bullets[0]", "Managed a team of analysts"),
		bullet("experience[0].bullets[1]", "Built data pipelines in Python"),
	}

	path, ok := Resolve(req, cands)
	require.True(t, ok)
	assert.Equal(t, "experience[0].bullets[1]", path)
}

func TestResolve_PhraseMatchViaAlias(t *testing.T) {
	req := &types.Requirement{
		ID: "r1", Canonical: "Amazon Web Services", Type: types.TypePlatform,
		Aliases: []string{"AWS"},
	}
	cands := []types.CandidateElement{
		bullet("experience[0].bullets[0]", "Deployed services on AWS Lambda"),
	}

	path, ok := Resolve(req, cands)
	require.True(t, ok)
	assert.Equal(t, "experience[0].bullets[0]", path)
}

func TestResolve_PhraseFirstCandidateWins(t *testing.T) {
	req := &types.Requirement{ID: "r1", Canonical: "SQL", Type: types.TypeTool}
	cands := []types.CandidateElement{
		bullet("experience[0].bullets[0]", "Tuned SQL queries"),
		bullet("skills[0].name", "SQL"),
	}

	path, ok := Resolve(req, cands)
	require.True(t, ok)
	assert.Equal(t, "experience[0].bullets[0]", path)
}

func TestResolve_YearsRequirementSatisfied(t *testing.T) {
	req := &types.Requirement{
		ID: "r1", Canonical: "5 years of data engineering experience",
		Type:       types.TypeResponsibility,
		JDEvidence: []string{"at least 5 years of data engineering"},
	}
	cands := []types.CandidateElement{
		bullet("experience[0].bullets[0]", "3 years building dashboards"),
		bullet("experience[0].bullets[1]", "7 years of data platform work"),
	}

	path, ok := Resolve(req, cands)
	require.True(t, ok)
	assert.Equal(t, "experience[0].bullets[1]", path)
}

func TestResolve_YearsRequirementUnsatisfied(t *testing.T) {
	req := &types.Requirement{
		ID: "r1", Canonical: "5 years of data engineering experience",
		Type: types.TypeResponsibility,
	}
	cands := []types.CandidateElement{
		bullet("experience[0].bullets[0]", "3 years building dashboards"),
	}

	_, ok := Resolve(req, cands)
	assert.False(t, ok)
}

func TestResolve_EducationHigherLevelSatisfies(t *testing.T) {
	req := &types.Requirement{
		ID: "r1", Canonical: "Bachelor's degree in a technical field",
		Type: types.TypeEducation,
	}
	cands := []types.CandidateElement{
		bullet("experience[0].bullets[0]", "Bachelor of hard knocks"), // wrong category, skipped
		bullet("education[0].field", "Master's degree in Computer Science"),
	}

	path, ok := Resolve(req, cands)
	require.True(t, ok)
	assert.Equal(t, "education[0].field", path)
}

func TestResolve_EducationGenericRequirement(t *testing.T) {
	req := &types.Requirement{
		ID: "r1", Canonical: "a degree in a related field",
		Type: types.TypeEducation,
	}
	cands := []types.CandidateElement{
		bullet("education[0].field", "Associate degree in Nursing"),
	}

	path, ok := Resolve(req, cands)
	require.True(t, ok)
	assert.Equal(t, "education[0].field", path)
}

func TestResolve_EducationLowerLevelFails(t *testing.T) {
	req := &types.Requirement{
		ID: "r1", Canonical: "Master's degree in Computer Science",
		Type: types.TypeEducation,
	}
	cands := []types.CandidateElement{
		bullet("education[0].field", "B.S. in Computer Science"),
	}

	_, ok := Resolve(req, cands)
	assert.False(t, ok)
}

func TestResolve_NoMatch(t *testing.T) {
	req := &types.Requirement{ID: "r1", Canonical: "Terraform", Type: types.TypeTool}
	cands := []types.CandidateElement{
		bullet("experience[0].bullets[0]", "Built data pipelines in Python"),
	}

	_, ok := Resolve(req, cands)
	assert.False(t, ok)
}

func TestIsYearsRequirement(t *testing.T) {
	assert.True(t, IsYearsRequirement(&types.Requirement{
		Canonical: "5 years of data engineering experience",
	}))
	assert.True(t, IsYearsRequirement(&types.Requirement{
		Canonical:  "Production experience",
		JDEvidence: []string{"minimum 3 years supporting production systems"},
	}))
	assert.False(t, IsYearsRequirement(&types.Requirement{Canonical: "Python"}))
}
