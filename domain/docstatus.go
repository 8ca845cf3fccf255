package domain

// DocStatus is the document lifecycle status a workflow state maps to.
type DocStatus int

const (
	StatusExpired       DocStatus = -3
	StatusObsolete      DocStatus = -2
	StatusRejected      DocStatus = -1
	StatusDraftReview   DocStatus = 0
	StatusDraftApproval DocStatus = 1
	StatusReleased      DocStatus = 2
	StatusInWorkflow    DocStatus = 3
)

// Terminal reports whether reaching a state with this status changes the
// document's own status. Only the rejected and released kinds do; every other
// value leaves the document untouched.
func (s DocStatus) Terminal() bool {
	return s == StatusRejected || s == StatusReleased
}

func (s DocStatus) String() string {
	switch s {
	case StatusExpired:
		return "EXPIRED"
	case StatusObsolete:
		return "OBSOLETE"
	case StatusRejected:
		return "REJECTED"
	case StatusDraftReview:
		return "DRAFT_REVIEW"
	case StatusDraftApproval:
		return "DRAFT_APPROVAL"
	case StatusReleased:
		return "RELEASED"
	case StatusInWorkflow:
		return "IN_WORKFLOW"
	}
	return "UNKNOWN"
}
