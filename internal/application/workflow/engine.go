package workflow

import (
	"context"

	"github.com/garyjia/tpa-claims/internal/application/port"
	"github.com/garyjia/tpa-claims/internal/domain/claim"
	"github.com/garyjia/tpa-claims/internal/domain/entity"
)

// ClaimWorkflow orchestrates every claim mutation. Each call is one transaction:
// the claim write and its audit entry commit together or not at all.
type ClaimWorkflow interface {
	// Create stores a new DRAFT claim
	Create(ctx context.Context, fields claim.Fields, req ActionRequest) (*entity.Claim, error)

	// Get loads an active claim
	Get(ctx context.Context, id string) (*entity.Claim, error)

	// List returns active claims matching the filter
	List(ctx context.Context, filter port.ClaimFilter) ([]*entity.Claim, error)

	// Edit replaces submitter fields on a DRAFT or RETURNED_FOR_INFO claim
	Edit(ctx context.Context, id string, fields claim.Fields, req ActionRequest) (*entity.Claim, error)

	// Submit moves DRAFT or RETURNED_FOR_INFO to SUBMITTED.
	// From DRAFT the required attachment categories must be present.
	Submit(ctx context.Context, id string, req ActionRequest) (*entity.Claim, error)

	// StartReview moves SUBMITTED to UNDER_REVIEW
	StartReview(ctx context.Context, id string, req ActionRequest) (*entity.Claim, error)

	// Approve moves UNDER_REVIEW to APPROVED with a positive approved amount
	Approve(ctx context.Context, id string, approvedAmount entity.Money, req ActionRequest) (*entity.Claim, error)

	// Reject moves UNDER_REVIEW to REJECTED; the reviewer comment must not be blank
	Reject(ctx context.Context, id string, reviewerComment string, req ActionRequest) (*entity.Claim, error)

	// ReturnForInfo moves UNDER_REVIEW to RETURNED_FOR_INFO with an optional comment
	ReturnForInfo(ctx context.Context, id string, comment string, req ActionRequest) (*entity.Claim, error)

	// Settle moves APPROVED to SETTLED and records the payment reference
	Settle(ctx context.Context, id string, settlement Settlement, req ActionRequest) (*entity.Claim, error)

	// AttachDocument adds a supporting document to an editable claim
	AttachDocument(ctx context.Context, id string, input claim.AttachmentInput, req ActionRequest) (*entity.Claim, error)

	// DetachDocument removes a supporting document from an editable claim
	DetachDocument(ctx context.Context, id string, attachmentID string, req ActionRequest) (*entity.Claim, error)

	// AssignReviewer records who reviews a SUBMITTED or UNDER_REVIEW claim
	AssignReviewer(ctx context.Context, id string, reviewerID, reviewerName string, req ActionRequest) (*entity.Claim, error)

	// LinkPreApproval references a prior authorization from an editable claim
	LinkPreApproval(ctx context.Context, id string, preApprovalID string, req ActionRequest) (*entity.Claim, error)

	// Deactivate soft-deletes an editable claim
	Deactivate(ctx context.Context, id string, req ActionRequest) (*entity.Claim, error)
}

// ActionRequest carries who is acting and, optionally, the claim version they last read
type ActionRequest struct {
	Actor entity.Actor

	// ExpectedVersion pins the caller's read; 0 means "whatever is current"
	ExpectedVersion int64
}

// Settlement is the payload of a settle action. Neither field is validated.
type Settlement struct {
	PaymentReference string `json:"payment_reference"`
	SettlementNotes  string `json:"settlement_notes,omitempty"`
}

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}
