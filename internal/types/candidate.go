package types

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// ElementCategory partitions candidate elements by their path pattern.
type ElementCategory string

// Element category constants.
const (
	CategoryExperienceBullet ElementCategory = "experience-bullet"
	CategoryProjectBullet    ElementCategory = "project-bullet"
	CategorySubtitle         ElementCategory = "subtitle"
	CategorySkillName        ElementCategory = "skill-name"
	CategoryEducationField   ElementCategory = "education-field"
	CategoryUnknown          ElementCategory = "unknown"
)

var (
	experienceBulletPattern = regexp.MustCompile(`^experience\[\d+\]\.bullets\[\d+\]$`)
	projectBulletPattern    = regexp.MustCompile(`^projects\[\d+\]\.bullets\[\d+\]$`)
	educationFieldPattern   = regexp.MustCompile(`^education\[\d+\]\.field$`)
	skillNamePattern        = regexp.MustCompile(`^skills\[\d+\]\.name$`)
)

// CategoryForPath classifies a document path into its element category.
func CategoryForPath(path string) ElementCategory {
	switch {
	case path == "subtitle":
		return CategorySubtitle
	case experienceBulletPattern.MatchString(path):
		return CategoryExperienceBullet
	case projectBulletPattern.MatchString(path):
		return CategoryProjectBullet
	case educationFieldPattern.MatchString(path):
		return CategoryEducationField
	case skillNamePattern.MatchString(path):
		return CategorySkillName
	default:
		return CategoryUnknown
	}
}

// ElementProfile is the length-budget profile of one addressable element,
// computed by the external font/width measuring collaborator.
type ElementProfile struct {
	Path            string   `json:"path" validate:"required"`
	MaxLines        int      `json:"max_lines" validate:"min=1"`
	MaxCharsPerLine int      `json:"max_chars_per_line" validate:"min=1"`
	MaxCharsTotal   int      `json:"max_chars_total" validate:"min=1"`
	TotalCharCount  int      `json:"total_char_count" validate:"min=0"`
	Words           []string `json:"words,omitempty"`
}

// Validate validates the ElementProfile using the validator.
func (p *ElementProfile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// ProfileMap indexes element profiles by path.
type ProfileMap map[string]ElementProfile

// BuildProfileMap converts a profile list into a path-keyed map.
// Later entries win on duplicate paths.
func BuildProfileMap(profiles []ElementProfile) ProfileMap {
	m := make(ProfileMap, len(profiles))
	for _, p := range profiles {
		m[p.Path] = p
	}
	return m
}

// CandidateElement is one addressable, length-bounded text field eligible
// for matching or rewriting. Candidates are derived once per invocation and
// never mutated.
type CandidateElement struct {
	Path            string          `json:"path"`
	Category        ElementCategory `json:"category"`
	Text            string          `json:"text"`
	MaxLines        int             `json:"max_lines"`
	MaxCharsPerLine int             `json:"max_chars_per_line"`
	MaxCharsTotal   int             `json:"max_chars_total"`
	TotalCharCount  int             `json:"total_char_count"`
	Words           []string        `json:"words,omitempty"`
}
