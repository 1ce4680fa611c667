// Package candidates derives the ordered list of addressable, length-bounded
// document elements eligible for requirement matching and editing.
package candidates

import (
	"fmt"

	"github.com/jonathan/requirement-resolver/internal/types"
)

// Build produces the candidate list for one resolver invocation.
//
// Sections are visited in a fixed order (experience bullets, project
// bullets, education fields, subtitle, skill names) because that order is
// the tie-break priority of the deterministic resolver and the traversal
// hint given to the decision loop. Sections whose visibility flag is off
// are skipped, as is any path absent from the profile map: an element the
// length-budget collaborator did not measure is not addressable.
func Build(doc *types.ResumeDocument, profiles types.ProfileMap) []types.CandidateElement {
	var out []types.CandidateElement

	add := func(path, text string) {
		profile, ok := profiles[path]
		if !ok {
			return
		}
		out = append(out, types.CandidateElement{
			Path:            path,
			Category:        types.CategoryForPath(path),
			Text:            text,
			MaxLines:        profile.MaxLines,
			MaxCharsPerLine: profile.MaxCharsPerLine,
			MaxCharsTotal:   profile.MaxCharsTotal,
			TotalCharCount:  profile.TotalCharCount,
			Words:           profile.Words,
		})
	}

	if doc.Sections.Experience {
		for i, entry := range doc.Experience {
			for j, bullet := range entry.Bullets {
				add(fmt.Sprintf("experience[%d].bullets[%d]", i, j), bullet)
			}
		}
	}

	if doc.Sections.Projects {
		for i, project := range doc.Projects {
			for j, bullet := range project.Bullets {
				add(fmt.Sprintf("projects[%d].bullets[%d]", i, j), bullet)
			}
		}
	}

	if doc.Sections.Education {
		for i, entry := range doc.Education {
			add(fmt.Sprintf("education[%d].field", i), entry.Field)
		}
	}

	if doc.Sections.Subtitle {
		add("subtitle", doc.Subtitle)
	}

	if doc.Sections.Skills {
		for i, skill := range doc.Skills {
			add(fmt.Sprintf("skills[%d].name", i), skill.Name)
		}
	}

	return out
}
