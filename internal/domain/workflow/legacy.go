package workflow

// legacyStatuses maps status names used by the previous claims system.
// Best-effort default for imported rows only; not a business rule.
var legacyStatuses = map[string]Status{
	"PENDING_REVIEW":     StatusSubmitted,
	"PREAPPROVED":        StatusSubmitted,
	"PARTIALLY_APPROVED": StatusApproved,
	"CANCELLED":          StatusRejected,
}

// ParseLegacyStatus converts a stored status string, possibly written by the
// previous system, into a current Status. Unrecognized values become DRAFT.
func ParseLegacyStatus(raw string) Status {
	if s := Status(raw); s.IsValid() {
		return s
	}
	if s, ok := legacyStatuses[raw]; ok {
		return s
	}
	return StatusDraft
}
