package workflow

// Trigger represents a reviewer or submitter action that moves a claim
type Trigger string

const (
	TriggerSubmit        Trigger = "SUBMIT"
	TriggerStartReview   Trigger = "START_REVIEW"
	TriggerApprove       Trigger = "APPROVE"
	TriggerReject        Trigger = "REJECT"
	TriggerReturnForInfo Trigger = "RETURN_FOR_INFO"
	TriggerSettle        Trigger = "SETTLE"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}

// Target returns the status the trigger leads to
func (t Trigger) Target() Status {
	return triggerTargets[t]
}

var triggerTargets = map[Trigger]Status{
	TriggerSubmit:        StatusSubmitted,
	TriggerStartReview:   StatusUnderReview,
	TriggerApprove:       StatusApproved,
	TriggerReject:        StatusRejected,
	TriggerReturnForInfo: StatusReturnedForInfo,
	TriggerSettle:        StatusSettled,
}
