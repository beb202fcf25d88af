package workflow

// transitionTable is the legal transition graph. No path leads back to DRAFT.
var transitionTable = map[Status][]Status{
	StatusDraft:           {StatusSubmitted},
	StatusSubmitted:       {StatusUnderReview},
	StatusUnderReview:     {StatusApproved, StatusRejected, StatusReturnedForInfo},
	StatusReturnedForInfo: {StatusSubmitted},
	StatusApproved:        {StatusSettled},
	StatusRejected:        {},
	StatusSettled:         {},
}

// ValidTransitions returns the statuses reachable in one step from s.
// The returned slice is a copy and may be modified by the caller.
func ValidTransitions(s Status) []Status {
	targets := transitionTable[s]
	out := make([]Status, len(targets))
	copy(out, targets)
	return out
}

// CanTransitionTo reports whether moving from one status to another is legal
func CanTransitionTo(from, to Status) bool {
	for _, target := range transitionTable[from] {
		if target == to {
			return true
		}
	}
	return false
}
