// Package claim holds the claim aggregate: every mutation works on a copy,
// validates the proposed state and recomputes derived fields before returning it.
package claim

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/tpa-claims/internal/domain/entity"
	"github.com/garyjia/tpa-claims/internal/domain/workflow"
)

// Fields carries the submitter-editable attributes of a claim
type Fields struct {
	MemberID         string           `json:"member_id"`
	InsuranceOrgID   string           `json:"insurance_org_id"`
	PolicyID         *string          `json:"policy_id,omitempty"`
	BenefitPackageID *string          `json:"benefit_package_id,omitempty"`
	ClaimType        entity.ClaimType `json:"claim_type"`
	ProviderName     string           `json:"provider_name"`
	DoctorName       string           `json:"doctor_name,omitempty"`
	Diagnosis        string           `json:"diagnosis,omitempty"`
	VisitDate        *time.Time       `json:"visit_date,omitempty"`
	RequestedAmount  entity.Money     `json:"requested_amount"`

	PatientCoPay      *entity.Money `json:"patient_co_pay,omitempty"`
	NetProviderAmount *entity.Money `json:"net_provider_amount,omitempty"`
	CoPayPercent      *float64      `json:"co_pay_percent,omitempty"`
	DeductibleApplied *entity.Money `json:"deductible_applied,omitempty"`

	// Lines replaces the claim's service lines; nil keeps the current ones on edit
	Lines []LineInput `json:"lines,omitempty"`
}

// LineInput describes one billed service
type LineInput struct {
	ServiceCode string       `json:"service_code"`
	Description string       `json:"description,omitempty"`
	Quantity    int          `json:"quantity"`
	UnitPrice   entity.Money `json:"unit_price"`
	ServiceDate *time.Time   `json:"service_date,omitempty"`
}

// AttachmentInput describes a supporting document being attached
type AttachmentInput struct {
	Category entity.AttachmentCategory `json:"category"`
	FileName string                    `json:"file_name"`
}

// StatusChange carries the payload that accompanies a status transition
type StatusChange struct {
	ApprovedAmount   *entity.Money
	ReviewerComment  *string
	PaymentReference string
	SettlementNotes  string
}

// Create builds a new DRAFT claim owned by the submitting actor
func Create(fields Fields, actor entity.Actor, now time.Time) (*entity.Claim, error) {
	c := &entity.Claim{
		ID:          uuid.NewString(),
		Status:      workflow.StatusDraft,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   actor.Name(),
		UpdatedBy:   actor.Name(),
		Lines:       []entity.ClaimLine{},
		Attachments: []entity.ClaimAttachment{},
	}
	applyFields(c, fields)

	if err := validateFields(c); err != nil {
		return nil, err
	}
	if err := Validate(c); err != nil {
		return nil, err
	}

	Recompute(c)
	return c, nil
}

// ApplyEdit updates submitter fields; only DRAFT and RETURNED_FOR_INFO claims are editable
func ApplyEdit(c *entity.Claim, fields Fields, actor entity.Actor, now time.Time) (*entity.Claim, error) {
	if !c.Status.AllowsEdit() {
		return nil, &InvalidStateError{Action: "EDIT", Current: c.Status}
	}

	next := c.Clone()
	applyFields(next, fields)
	touch(next, actor, now)

	if err := validateFields(next); err != nil {
		return nil, err
	}
	if err := Validate(next); err != nil {
		return nil, err
	}

	Recompute(next)
	return next, nil
}

// ApplyStatusChange moves the claim to target and applies the accompanying payload.
// The transition table is not consulted here; callers check it first.
func ApplyStatusChange(c *entity.Claim, target workflow.Status, change StatusChange, actor entity.Actor, now time.Time) (*entity.Claim, error) {
	if !target.IsValid() {
		return nil, &ValidationError{Field: "status", Reason: "unknown status " + string(target)}
	}

	next := c.Clone()
	next.Status = target

	if change.ApprovedAmount != nil {
		next.ApprovedAmount = change.ApprovedAmount.Ptr()
	}
	if change.ReviewerComment != nil {
		next.ReviewerComment = *change.ReviewerComment
	}
	if target == workflow.StatusSettled {
		next.PaymentReference = change.PaymentReference
		next.SettlementNotes = change.SettlementNotes
		settledAt := now
		next.SettledAt = &settledAt
	}

	if err := Validate(next); err != nil {
		return nil, err
	}

	// reviewedAt is set once, the first time a reviewer decision status is reached
	if target.RequiresReviewerAction() && next.ReviewedAt == nil {
		reviewedAt := now
		next.ReviewedAt = &reviewedAt
	}

	touch(next, actor, now)
	Recompute(next)
	return next, nil
}

// AttachDocument adds a supporting document and returns the updated claim and the new attachment
func AttachDocument(c *entity.Claim, input AttachmentInput, actor entity.Actor, now time.Time) (*entity.Claim, entity.ClaimAttachment, error) {
	if !c.Status.AllowsEdit() {
		return nil, entity.ClaimAttachment{}, &InvalidStateError{Action: "ATTACH", Current: c.Status}
	}
	if !input.Category.IsValid() {
		return nil, entity.ClaimAttachment{}, &ValidationError{Field: "category", Reason: "unknown attachment category " + string(input.Category)}
	}
	if isBlank(input.FileName) {
		return nil, entity.ClaimAttachment{}, &ValidationError{Field: "file_name", Reason: "must not be blank"}
	}

	attachment := entity.ClaimAttachment{
		ID:         uuid.NewString(),
		ClaimID:    c.ID,
		Category:   input.Category,
		FileName:   strings.TrimSpace(input.FileName),
		UploadedBy: actor.Name(),
		UploadedAt: now,
	}

	next := c.Clone()
	next.Attachments = append(next.Attachments, attachment)
	touch(next, actor, now)
	if err := Validate(next); err != nil {
		return nil, entity.ClaimAttachment{}, err
	}

	Recompute(next)
	return next, attachment, nil
}

// DetachDocument removes an attachment from the claim; the stored row is deleted with the claim write
func DetachDocument(c *entity.Claim, attachmentID string, actor entity.Actor, now time.Time) (*entity.Claim, error) {
	if !c.Status.AllowsEdit() {
		return nil, &InvalidStateError{Action: "DETACH", Current: c.Status}
	}

	next := c.Clone()
	kept := next.Attachments[:0]
	found := false
	for _, a := range next.Attachments {
		if a.ID == attachmentID {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		return nil, &NotFoundError{Entity: "attachment", ID: attachmentID}
	}
	next.Attachments = kept

	touch(next, actor, now)
	if err := Validate(next); err != nil {
		return nil, err
	}

	Recompute(next)
	return next, nil
}

// AssignReviewer records the reviewer responsible for a submitted or in-review claim
func AssignReviewer(c *entity.Claim, reviewerID, reviewerName string, actor entity.Actor, now time.Time) (*entity.Claim, error) {
	if c.Status != workflow.StatusSubmitted && c.Status != workflow.StatusUnderReview {
		return nil, &InvalidStateError{Action: "ASSIGN", Current: c.Status}
	}
	if isBlank(reviewerID) {
		return nil, &ValidationError{Field: "reviewer_id", Reason: "must not be blank"}
	}

	next := c.Clone()
	next.ReviewerID = strings.TrimSpace(reviewerID)
	next.ReviewerName = strings.TrimSpace(reviewerName)
	touch(next, actor, now)
	if err := Validate(next); err != nil {
		return nil, err
	}

	Recompute(next)
	return next, nil
}

// LinkPreApproval attaches a prior authorization reference to an editable claim
func LinkPreApproval(c *entity.Claim, preApprovalID string, actor entity.Actor, now time.Time) (*entity.Claim, error) {
	if !c.Status.AllowsEdit() {
		return nil, &InvalidStateError{Action: "LINK_PREAPPROVAL", Current: c.Status}
	}
	if isBlank(preApprovalID) {
		return nil, &ValidationError{Field: "pre_approval_id", Reason: "must not be blank"}
	}

	next := c.Clone()
	id := strings.TrimSpace(preApprovalID)
	next.PreApprovalID = &id
	touch(next, actor, now)
	if err := Validate(next); err != nil {
		return nil, err
	}

	Recompute(next)
	return next, nil
}

// Deactivate soft-deletes an editable claim. Claims are never physically removed.
func Deactivate(c *entity.Claim, actor entity.Actor, now time.Time) (*entity.Claim, error) {
	if !c.Status.AllowsEdit() {
		return nil, &InvalidStateError{Action: "DEACTIVATE", Current: c.Status}
	}

	next := c.Clone()
	next.Active = false
	touch(next, actor, now)
	if err := Validate(next); err != nil {
		return nil, err
	}

	Recompute(next)
	return next, nil
}

func applyFields(c *entity.Claim, f Fields) {
	c.MemberID = strings.TrimSpace(f.MemberID)
	c.InsuranceOrgID = strings.TrimSpace(f.InsuranceOrgID)
	c.PolicyID = f.PolicyID
	c.BenefitPackageID = f.BenefitPackageID
	c.ClaimType = f.ClaimType
	c.ProviderName = strings.TrimSpace(f.ProviderName)
	c.DoctorName = strings.TrimSpace(f.DoctorName)
	c.Diagnosis = strings.TrimSpace(f.Diagnosis)
	c.VisitDate = f.VisitDate
	c.RequestedAmount = f.RequestedAmount
	c.PatientCoPay = f.PatientCoPay
	c.NetProviderAmount = f.NetProviderAmount
	c.CoPayPercent = f.CoPayPercent
	c.DeductibleApplied = f.DeductibleApplied

	if f.Lines != nil {
		lines := make([]entity.ClaimLine, len(f.Lines))
		for i, in := range f.Lines {
			lines[i] = entity.ClaimLine{
				ID:          uuid.NewString(),
				ClaimID:     c.ID,
				ServiceCode: strings.TrimSpace(in.ServiceCode),
				Description: strings.TrimSpace(in.Description),
				Quantity:    in.Quantity,
				UnitPrice:   in.UnitPrice,
				ServiceDate: in.ServiceDate,
			}
		}
		c.Lines = lines
	}
}

func touch(c *entity.Claim, actor entity.Actor, now time.Time) {
	c.UpdatedAt = now
	c.UpdatedBy = actor.Name()
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
