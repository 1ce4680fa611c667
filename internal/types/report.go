package types

// ResolutionStatus is the per-requirement outcome recorded in the report.
type ResolutionStatus string

// Resolution status constants.
const (
	StatusAlreadyMentioned ResolutionStatus = "already_mentioned"
	StatusEdited           ResolutionStatus = "edited"
	StatusUnresolved       ResolutionStatus = "unresolved"
	StatusLockedNoEdit     ResolutionStatus = "locked_no_edit"
)

// EditOperation is the only operation kind the resolver emits: an inline
// text replacement at a stable document path. It never inserts or deletes
// structural elements.
type EditOperation struct {
	Op            string  `json:"op"`
	Path          string  `json:"path"`
	Value         string  `json:"value"`
	RequirementID string  `json:"requirement_id"`
	Mentioned     Mention `json:"mentioned"`
	FeasibleEdit  bool    `json:"feasible_edit"`
	Edited        bool    `json:"edited"`
}

// ReportEntry is the audit record for one requirement, emitted in input
// order.
type ReportEntry struct {
	RequirementID string           `json:"requirement_id"`
	Canonical     string           `json:"canonical"`
	Status        ResolutionStatus `json:"status"`
	Mentioned     Mention          `json:"mentioned"`
	MatchedPath   string           `json:"matched_path,omitempty"`
	EditedPath    string           `json:"edited_path,omitempty"`
	Reason        string           `json:"reason,omitempty"`
}

// ResolveResult is the terminal payload of one engine run.
// TransientFailure is set when no operations were produced and at least one
// requirement failed for a transient service reason, so the caller can
// offer a blanket retry.
type ResolveResult struct {
	Operations       []EditOperation `json:"operations"`
	Report           []ReportEntry   `json:"report"`
	TransientFailure bool            `json:"transient_failure,omitempty"`
}

// ProgressEvent is one incremental completion event delivered while a
// batch run is in flight.
type ProgressEvent struct {
	Completed     int              `json:"completed"`
	Total         int              `json:"total"`
	RequirementID string           `json:"requirement_id"`
	Canonical     string           `json:"canonical"`
	Status        ResolutionStatus `json:"status"`
}
