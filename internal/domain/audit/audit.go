// Package audit builds immutable claim audit entries with full before/after snapshots.
package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/garyjia/tpa-claims/internal/domain/entity"
	"github.com/garyjia/tpa-claims/internal/domain/workflow"
)

// Snapshot serializes the full claim state, including lines and attachments
func Snapshot(c *entity.Claim) (string, error) {
	if c == nil {
		return "", nil
	}
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal claim snapshot: %w", err)
	}
	return string(data), nil
}

// Restore decodes a snapshot back into a claim
func Restore(snapshot string) (*entity.Claim, error) {
	if snapshot == "" {
		return nil, nil
	}
	var c entity.Claim
	if err := json.Unmarshal([]byte(snapshot), &c); err != nil {
		return nil, fmt.Errorf("unmarshal claim snapshot: %w", err)
	}
	return &c, nil
}

// Record builds an audit entry for one claim mutation. before is nil on creation.
// The timestamp is taken from after.UpdatedAt so the entry and the claim agree.
func Record(claimID string, changeType entity.ChangeType, before, after *entity.Claim, actor entity.Actor, comment string) (*entity.AuditEntry, error) {
	beforeSnap, err := Snapshot(before)
	if err != nil {
		return nil, err
	}
	afterSnap, err := Snapshot(after)
	if err != nil {
		return nil, err
	}

	entry := &entity.AuditEntry{
		ClaimID:        claimID,
		ChangeType:     changeType,
		ActorUserID:    actor.UserID,
		ActorUsername:  actor.Username,
		ActorRole:      actor.Role,
		IPAddress:      actor.IPAddress,
		Comment:        comment,
		BeforeSnapshot: beforeSnap,
		AfterSnapshot:  afterSnap,
	}

	if before != nil {
		entry.PreviousStatus = before.Status
		entry.PreviousRequestedAmount = before.RequestedAmount.Ptr()
		if before.ApprovedAmount != nil {
			entry.PreviousApprovedAmount = before.ApprovedAmount.Ptr()
		}
	}
	if after != nil {
		entry.NewStatus = after.Status
		entry.NewRequestedAmount = after.RequestedAmount.Ptr()
		if after.ApprovedAmount != nil {
			entry.NewApprovedAmount = after.ApprovedAmount.Ptr()
		}
		entry.Timestamp = after.UpdatedAt
	}

	stamp(entry)
	return entry, nil
}

// stamp assigns the timestamp once; an entry that already carries one keeps it
func stamp(entry *entity.AuditEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
}

// NewCreated records a claim entering DRAFT
func NewCreated(after *entity.Claim, actor entity.Actor) (*entity.AuditEntry, error) {
	return Record(after.ID, entity.ChangeTypeCreated, nil, after, actor, "Claim created")
}

// NewSubmitted records DRAFT/RETURNED_FOR_INFO -> SUBMITTED
func NewSubmitted(before, after *entity.Claim, actor entity.Actor) (*entity.AuditEntry, error) {
	return statusEntry(entity.ChangeTypeSubmitted, before, after, workflow.StatusSubmitted, actor, "")
}

// NewStatusChange records a plain status move with no additional payload
func NewStatusChange(before, after *entity.Claim, actor entity.Actor, comment string) (*entity.AuditEntry, error) {
	return statusEntry(entity.ChangeTypeStatusChange, before, after, after.Status, actor, comment)
}

// NewApproval records UNDER_REVIEW -> APPROVED
func NewApproval(before, after *entity.Claim, actor entity.Actor) (*entity.AuditEntry, error) {
	return statusEntry(entity.ChangeTypeApproval, before, after, workflow.StatusApproved, actor,
		fmt.Sprintf("Approved amount %s", after.ApprovedAmount))
}

// NewRejection records UNDER_REVIEW -> REJECTED with the reviewer's comment
func NewRejection(before, after *entity.Claim, actor entity.Actor) (*entity.AuditEntry, error) {
	return statusEntry(entity.ChangeTypeRejection, before, after, workflow.StatusRejected, actor, after.ReviewerComment)
}

// NewSettlement records APPROVED -> SETTLED
func NewSettlement(before, after *entity.Claim, actor entity.Actor) (*entity.AuditEntry, error) {
	return statusEntry(entity.ChangeTypeSettlement, before, after, workflow.StatusSettled, actor,
		fmt.Sprintf("Payment reference %s", after.PaymentReference))
}

func statusEntry(changeType entity.ChangeType, before, after *entity.Claim, want workflow.Status, actor entity.Actor, comment string) (*entity.AuditEntry, error) {
	if after.Status != want {
		return nil, fmt.Errorf("%s entry expects new status %s, got %s", changeType, want, after.Status)
	}
	return Record(after.ID, changeType, before, after, actor, comment)
}
