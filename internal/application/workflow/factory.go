package workflow

import (
	"github.com/garyjia/tpa-claims/internal/domain/entity"
	"github.com/garyjia/tpa-claims/internal/domain/event"
)

// newCommittedEvent builds the event announcing a committed claim mutation
func newCommittedEvent(c *entity.Claim, entry *entity.AuditEntry) *event.Event {
	payload := map[string]interface{}{
		"change_type":    entry.ChangeType.String(),
		"new_status":     c.Status.String(),
		"version":        c.Version,
		"actor_user_id":  entry.ActorUserID,
		"actor_username": entry.ActorUsername,
		"claim_type":     string(c.ClaimType),
		"member_id":      c.MemberID,
	}
	if entry.PreviousStatus != "" {
		payload["previous_status"] = entry.PreviousStatus.String()
	}
	if c.ApprovedAmount != nil {
		payload["approved_amount"] = c.ApprovedAmount.String()
	}
	if c.PaymentReference != "" {
		payload["payment_reference"] = c.PaymentReference
	}
	if entry.Comment != "" {
		payload["comment"] = entry.Comment
	}

	return event.NewEvent(event.TypeForChange(entry.ChangeType), c.ID, payload)
}
