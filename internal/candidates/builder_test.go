package candidates

import (
	"testing"

	"github.com/jonathan/requirement-resolver/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument() *types.ResumeDocument {
	return &types.ResumeDocument{
		Subtitle: "Senior Data Engineer",
		Experience: []types.ExperienceEntry{
			{Company: "Acme", Role: "Engineer", Bullets: []string{"Built ETL in Python", "Led on-call rotation"}},
		},
		Projects: []types.ProjectEntry{
			{Name: "Side", Bullets: []string{"Wrote a CLI in Go"}},
		},
		Education: []types.EducationEntry{
			{Institution: "State U", Field: "B.S. in Computer Science"},
		},
		Skills: []types.SkillEntry{{Name: "Python"}, {Name: "SQL"}},
		Sections: types.SectionVisibility{
			Subtitle: true, Experience: true, Projects: true, Education: true, Skills: true,
		},
	}
}

func testProfiles(paths ...string) types.ProfileMap {
	profiles := make([]types.ElementProfile, 0, len(paths))
	for _, p := range paths {
		profiles = append(profiles, types.ElementProfile{
			Path: p, MaxLines: 2, MaxCharsPerLine: 90, MaxCharsTotal: 180, TotalCharCount: 40,
		})
	}
	return types.BuildProfileMap(profiles)
}

func allTestPaths() []string {
	return []string{
		"experience[0].bullets[0]",
		"experience[0].bullets[1]",
		"projects[0].bullets[0]",
		"education[0].field",
		"subtitle",
		"skills[0].name",
		"skills[1].name",
	}
}

func TestBuild_FixedSectionOrder(t *testing.T) {
	got := Build(testDocument(), testProfiles(allTestPaths()...))
	require.Len(t, got, 7)

	paths := make([]string, len(got))
	for i, c := range got {
		paths[i] = c.Path
	}
	assert.Equal(t, allTestPaths(), paths)

	assert.Equal(t, types.CategoryExperienceBullet, got[0].Category)
	assert.Equal(t, types.CategoryProjectBullet, got[2].Category)
	assert.Equal(t, types.CategoryEducationField, got[3].Category)
	assert.Equal(t, types.CategorySubtitle, got[4].Category)
	assert.Equal(t, types.CategorySkillName, got[5].Category)
	assert.Equal(t, "Built ETL in Python", got[0].Text)
	assert.Equal(t, 180, got[0].MaxCharsTotal)
}

func TestBuild_SkipsHiddenSections(t *testing.T) {
	doc := testDocument()
	doc.Sections.Projects = false
	doc.Sections.Skills = false

	got := Build(doc, testProfiles(allTestPaths()...))
	require.Len(t, got, 4)
	for _, c := range got {
		assert.NotEqual(t, types.CategoryProjectBullet, c.Category)
		assert.NotEqual(t, types.CategorySkillName, c.Category)
	}
}

func TestBuild_SkipsPathsWithoutProfiles(t *testing.T) {
	got := Build(testDocument(), testProfiles("subtitle", "skills[1].name"))
	require.Len(t, got, 2)
	assert.Equal(t, "subtitle", got[0].Path)
	assert.Equal(t, "skills[1].name", got[1].Path)
}

func TestBuild_EmptyDocument(t *testing.T) {
	doc := &types.ResumeDocument{Sections: types.SectionVisibility{Experience: true}}
	assert.Empty(t, Build(doc, testProfiles(allTestPaths()...)))
}
