package types

// SectionVisibility carries the per-section display flags of a resume.
// Hidden sections contribute no candidate elements.
type SectionVisibility struct {
	Subtitle   bool `json:"subtitle"`
	Experience bool `json:"experience"`
	Projects   bool `json:"projects"`
	Education  bool `json:"education"`
	Skills     bool `json:"skills"`
}

// ExperienceEntry is one work-history entry with its achievement bullets.
type ExperienceEntry struct {
	Company string   `json:"company"`
	Role    string   `json:"role"`
	Dates   string   `json:"dates,omitempty"`
	Bullets []string `json:"bullets"`
}

// ProjectEntry is one project entry with its description bullets.
type ProjectEntry struct {
	Name    string   `json:"name"`
	Bullets []string `json:"bullets"`
}

// EducationEntry is one education entry. Field holds the degree and field
// of study text (e.g. "B.S. in Computer Science").
type EducationEntry struct {
	Institution string `json:"institution"`
	Field       string `json:"field"`
	Dates       string `json:"dates,omitempty"`
}

// SkillEntry is one named skill in the skills section.
type SkillEntry struct {
	Name string `json:"name"`
}

// ResumeDocument is the structured personal document the resolver matches
// requirements against. The resolver reads it and proposes edits; it never
// mutates it. Persistence is owned by an external collaborator.
type ResumeDocument struct {
	Subtitle   string            `json:"subtitle,omitempty"`
	Experience []ExperienceEntry `json:"experience,omitempty"`
	Projects   []ProjectEntry    `json:"projects,omitempty"`
	Education  []EducationEntry  `json:"education,omitempty"`
	Skills     []SkillEntry      `json:"skills,omitempty"`
	Sections   SectionVisibility `json:"sections"`
}
