package workflow

// claimBuilder is configured once from the transition table so the machine and
// CanTransitionTo never disagree.
var claimBuilder = newClaimBuilder()

func newClaimBuilder() StateMachineBuilder {
	builder := NewBuilder()

	for _, from := range AllStatuses() {
		config := builder.Configure(from)
		for trigger, to := range triggerTargets {
			if CanTransitionTo(from, to) {
				config.Permit(trigger, to)
			}
		}
	}

	// REJECTED and SETTLED are terminal: configured with no outgoing transitions
	return builder
}

// ClaimMachine creates a state machine positioned at the claim's current status
func ClaimMachine(current Status) StateMachine {
	return claimBuilder.Build(current)
}
