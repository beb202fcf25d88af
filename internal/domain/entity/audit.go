package entity

import (
	"time"

	"github.com/garyjia/tpa-claims/internal/domain/workflow"
)

// ChangeType identifies what a claim audit entry records
type ChangeType string

const (
	ChangeTypeStatusChange      ChangeType = "STATUS_CHANGE"
	ChangeTypeAmountChange      ChangeType = "AMOUNT_CHANGE"
	ChangeTypeApproval          ChangeType = "APPROVAL"
	ChangeTypeRejection         ChangeType = "REJECTION"
	ChangeTypeCreated           ChangeType = "CREATED"
	ChangeTypeSubmitted         ChangeType = "SUBMITTED"
	ChangeTypeAssignment        ChangeType = "ASSIGNMENT"
	ChangeTypeCommentAdded      ChangeType = "COMMENT_ADDED"
	ChangeTypeAttachmentChange  ChangeType = "ATTACHMENT_CHANGE"
	ChangeTypePreApprovalLinked ChangeType = "PREAPPROVAL_LINKED"
	ChangeTypeSettlement        ChangeType = "SETTLEMENT"
	ChangeTypeReturnedForInfo   ChangeType = "RETURNED_FOR_INFO"
	ChangeTypeUpdated           ChangeType = "UPDATED"
)

// String returns the string representation of the change type
func (t ChangeType) String() string {
	return string(t)
}

// Actor identifies who performed a claim mutation
type Actor struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	IPAddress string `json:"ip_address,omitempty"`
}

// Name returns the most readable identifier for the actor
func (a Actor) Name() string {
	if a.Username != "" {
		return a.Username
	}
	return a.UserID
}

// AuditEntry is an immutable record of one claim mutation.
// Entries are only ever inserted; there is no update or delete path.
type AuditEntry struct {
	ID         int64      `json:"id"`
	ClaimID    string     `json:"claim_id"`
	ChangeType ChangeType `json:"change_type"`

	PreviousStatus workflow.Status `json:"previous_status,omitempty"`
	NewStatus      workflow.Status `json:"new_status,omitempty"`

	PreviousRequestedAmount *Money `json:"previous_requested_amount,omitempty"`
	NewRequestedAmount      *Money `json:"new_requested_amount,omitempty"`
	PreviousApprovedAmount  *Money `json:"previous_approved_amount,omitempty"`
	NewApprovedAmount       *Money `json:"new_approved_amount,omitempty"`

	ActorUserID   string `json:"actor_user_id"`
	ActorUsername string `json:"actor_username"`
	ActorRole     string `json:"actor_role"`
	IPAddress     string `json:"ip_address,omitempty"`

	Timestamp time.Time `json:"timestamp"`
	Comment   string    `json:"comment,omitempty"`

	BeforeSnapshot string `json:"before_snapshot,omitempty"`
	AfterSnapshot  string `json:"after_snapshot,omitempty"`
}
