package workflow

// Status represents a claim state in the adjudication lifecycle
type Status string

const (
	StatusDraft           Status = "DRAFT"
	StatusSubmitted       Status = "SUBMITTED"
	StatusUnderReview     Status = "UNDER_REVIEW"
	StatusReturnedForInfo Status = "RETURNED_FOR_INFO"
	StatusApproved        Status = "APPROVED"
	StatusRejected        Status = "REJECTED"
	StatusSettled         Status = "SETTLED"
)

// statusFlags holds the static facts attached to each status
type statusFlags struct {
	requiresReviewerAction bool
	terminal               bool
	allowsEdit             bool
}

var statusTable = map[Status]statusFlags{
	StatusDraft:           {allowsEdit: true},
	StatusSubmitted:       {},
	StatusUnderReview:     {},
	StatusReturnedForInfo: {requiresReviewerAction: true, allowsEdit: true},
	StatusApproved:        {requiresReviewerAction: true},
	StatusRejected:        {requiresReviewerAction: true, terminal: true},
	StatusSettled:         {terminal: true},
}

// AllStatuses returns every status in lifecycle order
func AllStatuses() []Status {
	return []Status{
		StatusDraft,
		StatusSubmitted,
		StatusUnderReview,
		StatusReturnedForInfo,
		StatusApproved,
		StatusRejected,
		StatusSettled,
	}
}

// IsTerminal returns true if no further transition is allowed from the status
func (s Status) IsTerminal() bool {
	return statusTable[s].terminal
}

// AllowsEdit returns true if claim fields may be edited while in this status
func (s Status) AllowsEdit() bool {
	return statusTable[s].allowsEdit
}

// RequiresReviewerAction returns true if the status can only be reached by a reviewer decision.
// Entering such a status for the first time stamps the claim's reviewedAt.
func (s Status) RequiresReviewerAction() bool {
	return statusTable[s].requiresReviewerAction
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is a known claim status
func (s Status) IsValid() bool {
	_, ok := statusTable[s]
	return ok
}
