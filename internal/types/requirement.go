// Package types provides type definitions for structured data used throughout the requirement-resolver system.
package types

import (
	"github.com/go-playground/validator/v10"
)

// RequirementType is the fixed taxonomy of requirement categories produced
// by the upstream extraction step.
type RequirementType string

// Requirement type constants define the taxonomy.
const (
	TypeTool           RequirementType = "tool"
	TypePlatform       RequirementType = "platform"
	TypeMethod         RequirementType = "method"
	TypeResponsibility RequirementType = "responsibility"
	TypeDomain         RequirementType = "domain"
	TypeGovernance     RequirementType = "governance"
	TypeLeadership     RequirementType = "leadership"
	TypeCommercial     RequirementType = "commercial"
	TypeEducation      RequirementType = "education"
	TypeConstraint     RequirementType = "constraint"
)

// MaxRequirementAliases bounds the alias and evidence lists per requirement.
const MaxRequirementAliases = 8

// Requirement is one weighted, typed atomic unit extracted from a job
// posting. It is immutable input; the resolver never modifies it.
type Requirement struct {
	ID         string          `json:"id" validate:"required"`
	Canonical  string          `json:"canonical" validate:"required,min=1"`
	Type       RequirementType `json:"type" validate:"required,oneof=tool platform method responsibility domain governance leadership commercial education constraint"`
	Weight     int             `json:"weight" validate:"min=0,max=100"`
	MustHave   bool            `json:"must_have"`
	Aliases    []string        `json:"aliases,omitempty" validate:"max=8,dive,min=1"`
	JDEvidence []string        `json:"jd_evidence,omitempty" validate:"max=8,dive,min=1"`
}

// Texts returns the canonical text, aliases, and evidence snippets as one
// slice, in that order. This is the text set consulted by the deterministic
// matching rules (years phrases, degree levels).
func (r *Requirement) Texts() []string {
	texts := make([]string, 0, 1+len(r.Aliases)+len(r.JDEvidence))
	texts = append(texts, r.Canonical)
	texts = append(texts, r.Aliases...)
	texts = append(texts, r.JDEvidence...)
	return texts
}

// Validate validates the Requirement using the validator.
func (r *Requirement) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
