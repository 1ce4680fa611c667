// Package resolver implements deterministic requirement resolution: fixed
// linguistic rules applied before any generation call.
package resolver

import (
	"github.com/jonathan/requirement-resolver/internal/lexical"
	"github.com/jonathan/requirement-resolver/internal/types"
)

// IsYearsRequirement reports whether the requirement expresses a
// years-of-experience demand in any of its texts. Such requirements are
// locked: they may be detected but never edited in.
func IsYearsRequirement(req *types.Requirement) bool {
	for _, text := range req.Texts() {
		if _, ok := lexical.ExtractMinimumYears(text); ok {
			return true
		}
	}
	return false
}

// RequiredMinimumYears returns the highest minimum-years demand found
// across the requirement's texts.
func RequiredMinimumYears(req *types.Requirement) (years int, ok bool) {
	best := -1
	for _, text := range req.Texts() {
		if n, found := lexical.ExtractMinimumYears(text); found && n > best {
			best = n
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// RequiredDegreeLevel returns the highest degree level demanded across the
// requirement's texts.
func RequiredDegreeLevel(req *types.Requirement) (level int, ok bool) {
	best := -1
	for _, text := range req.Texts() {
		if lvl, found := lexical.DegreeLevel(text); found && lvl > best {
			best = lvl
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// Resolve applies the deterministic rules against the candidate list in
// priority order and returns the first candidate path that resolves the
// requirement. ok is false when no rule matched and the caller must fall
// through to the constrained decision loop.
//
// Rule order: years-of-experience, education degree level, then stemmed
// phrase matching of the canonical text and each alias.
func Resolve(req *types.Requirement, candidates []types.CandidateElement) (path string, ok bool) {
	if IsYearsRequirement(req) {
		required, _ := RequiredMinimumYears(req)
		for _, c := range candidates {
			if mentioned, found := lexical.ExtractMentionedYears(c.Text); found && mentioned >= required {
				return c.Path, true
			}
		}
		return "", false
	}

	if req.Type == types.TypeEducation {
		required, hasLevel := RequiredDegreeLevel(req)
		for _, c := range candidates {
			if c.Category != types.CategoryEducationField && c.Category != types.CategorySubtitle {
				continue
			}
			level, found := lexical.DegreeLevel(c.Text)
			if !found {
				continue
			}
			// A requirement with no concrete level is satisfied by any
			// degree mention.
			if !hasLevel || required == lexical.DegreeGeneric || level >= required {
				return c.Path, true
			}
		}
		return "", false
	}

	phrases := append([]string{req.Canonical}, req.Aliases...)
	for _, c := range candidates {
		for _, phrase := range phrases {
			if lexical.IsPhraseExplicitlyMentioned(phrase, c.Text) {
				return c.Path, true
			}
		}
	}
	return "", false
}
