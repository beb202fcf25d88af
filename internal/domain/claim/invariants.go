package claim

import (
	"fmt"

	"github.com/garyjia/tpa-claims/internal/domain/entity"
	"github.com/garyjia/tpa-claims/internal/domain/workflow"
)

// Validate checks the status-dependent amount and comment invariants on a proposed claim state
func Validate(c *entity.Claim) error {
	if !c.RequestedAmount.IsPositive() {
		return &ValidationError{Field: "requested_amount", Reason: "must be greater than zero"}
	}

	if c.ApprovedAmount != nil && *c.ApprovedAmount < 0 {
		return &ValidationError{Field: "approved_amount", Reason: "must not be negative"}
	}

	if c.Status == workflow.StatusApproved || c.Status == workflow.StatusSettled {
		if c.ApprovedAmount == nil || !c.ApprovedAmount.IsPositive() {
			return &ValidationError{Field: "approved_amount", Reason: "approved amount required for APPROVED/SETTLED status"}
		}
	}

	if c.Status == workflow.StatusRejected && isBlank(c.ReviewerComment) {
		return &ValidationError{Field: "reviewer_comment", Reason: "reviewer comment required for REJECTED status"}
	}

	return nil
}

// validateFields checks the submitter-supplied attributes
func validateFields(c *entity.Claim) error {
	if isBlank(c.MemberID) {
		return &ValidationError{Field: "member_id", Reason: "must not be blank"}
	}
	if isBlank(c.InsuranceOrgID) {
		return &ValidationError{Field: "insurance_org_id", Reason: "must not be blank"}
	}
	if !c.ClaimType.IsValid() {
		return &ValidationError{Field: "claim_type", Reason: fmt.Sprintf("unknown claim type %q", c.ClaimType)}
	}

	financial := []struct {
		field  string
		amount *entity.Money
	}{
		{"patient_co_pay", c.PatientCoPay},
		{"net_provider_amount", c.NetProviderAmount},
		{"deductible_applied", c.DeductibleApplied},
	}
	for _, f := range financial {
		if f.amount != nil && *f.amount < 0 {
			return &ValidationError{Field: f.field, Reason: "must not be negative"}
		}
	}
	if c.CoPayPercent != nil && (*c.CoPayPercent < 0 || *c.CoPayPercent > 100) {
		return &ValidationError{Field: "co_pay_percent", Reason: "must be between 0 and 100"}
	}

	for i, line := range c.Lines {
		if isBlank(line.ServiceCode) {
			return &ValidationError{Field: fmt.Sprintf("lines[%d].service_code", i), Reason: "must not be blank"}
		}
		if line.Quantity <= 0 {
			return &ValidationError{Field: fmt.Sprintf("lines[%d].quantity", i), Reason: "must be greater than zero"}
		}
		if line.UnitPrice < 0 {
			return &ValidationError{Field: fmt.Sprintf("lines[%d].unit_price", i), Reason: "must not be negative"}
		}
		if _, err := line.UnitPrice.Times(line.Quantity); err != nil {
			return &ValidationError{Field: fmt.Sprintf("lines[%d].amount", i), Reason: "quantity times unit price is out of range"}
		}
	}

	return nil
}

// Recompute derives differenceAmount, line amounts and the collection counts.
// Every mutation calls it last; callers cannot set these fields themselves.
func Recompute(c *entity.Claim) {
	if c.ApprovedAmount != nil {
		diff := c.RequestedAmount.Sub(*c.ApprovedAmount)
		c.DifferenceAmount = &diff
	} else {
		c.DifferenceAmount = nil
	}

	if c.Lines == nil {
		c.Lines = []entity.ClaimLine{}
	}
	if c.Attachments == nil {
		c.Attachments = []entity.ClaimAttachment{}
	}
	for i := range c.Lines {
		c.Lines[i].ClaimID = c.ID
		// validateFields has already rejected lines that overflow
		amount, _ := c.Lines[i].UnitPrice.Times(c.Lines[i].Quantity)
		c.Lines[i].Amount = amount
	}

	c.ServiceCount = len(c.Lines)
	c.AttachmentsCount = len(c.Attachments)
}
