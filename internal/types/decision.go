package types

// Mention classifies how a requirement is evidenced in the document.
type Mention string

// Mention constants.
const (
	MentionYes     Mention = "yes"
	MentionImplied Mention = "implied"
	MentionNone    Mention = "none"
)

// Decision is the per-requirement outcome produced by either the
// deterministic resolver or the constrained decision loop. It is a sealed
// sum type; consumers switch exhaustively over the three variants.
type Decision interface {
	isDecision()
}

// Already reports that a candidate element already evidences the
// requirement; no edit is needed.
type Already struct {
	Path   string
	Reason string
}

// Edit proposes a truthful inline replacement of a candidate element's
// text. The replacement has already passed the element's length budget.
type Edit struct {
	Path        string
	Mentioned   Mention
	Replacement string
	Reason      string
}

// Unresolved reports that the requirement could not be evidenced or edited
// in. Transient marks failures caused by a temporary service issue so the
// caller can surface a retry affordance.
type Unresolved struct {
	Path      string
	Mentioned Mention
	Reason    string
	Transient bool
}

func (Already) isDecision()    {}
func (Edit) isDecision()       {}
func (Unresolved) isDecision() {}
