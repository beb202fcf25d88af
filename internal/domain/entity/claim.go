package entity

import (
	"time"

	"github.com/garyjia/tpa-claims/internal/domain/workflow"
)

// ClaimType classifies a claim by the kind of care it reimburses
type ClaimType string

const (
	ClaimTypeOutpatient    ClaimType = "OUTPATIENT"
	ClaimTypeInpatient     ClaimType = "INPATIENT"
	ClaimTypeEmergency     ClaimType = "EMERGENCY"
	ClaimTypeLaboratory    ClaimType = "LABORATORY"
	ClaimTypeRadiology     ClaimType = "RADIOLOGY"
	ClaimTypePharmacy      ClaimType = "PHARMACY"
	ClaimTypeDental        ClaimType = "DENTAL"
	ClaimTypeOptical       ClaimType = "OPTICAL"
	ClaimTypeMaternity     ClaimType = "MATERNITY"
	ClaimTypeSurgery       ClaimType = "SURGERY"
	ClaimTypeChronicCare   ClaimType = "CHRONIC_CARE"
	ClaimTypePhysiotherapy ClaimType = "PHYSIOTHERAPY"
	ClaimTypeGeneral       ClaimType = "GENERAL"
)

// IsValid returns true if the claim type is one of the defined constants
func (t ClaimType) IsValid() bool {
	switch t {
	case ClaimTypeOutpatient,
		ClaimTypeInpatient,
		ClaimTypeEmergency,
		ClaimTypeLaboratory,
		ClaimTypeRadiology,
		ClaimTypePharmacy,
		ClaimTypeDental,
		ClaimTypeOptical,
		ClaimTypeMaternity,
		ClaimTypeSurgery,
		ClaimTypeChronicCare,
		ClaimTypePhysiotherapy,
		ClaimTypeGeneral:
		return true
	default:
		return false
	}
}

// Claim is a request for reimbursement tied to a member's medical visit.
// Mutate it only through the claim aggregate; DifferenceAmount, ServiceCount
// and AttachmentsCount are always recomputed there.
type Claim struct {
	ID               string    `json:"id"`
	MemberID         string    `json:"member_id"`
	InsuranceOrgID   string    `json:"insurance_org_id"`
	PolicyID         *string   `json:"policy_id,omitempty"`
	BenefitPackageID *string   `json:"benefit_package_id,omitempty"`
	PreApprovalID    *string   `json:"pre_approval_id,omitempty"`
	ClaimType        ClaimType `json:"claim_type"`

	ProviderName string     `json:"provider_name"`
	DoctorName   string     `json:"doctor_name,omitempty"`
	Diagnosis    string     `json:"diagnosis,omitempty"`
	VisitDate    *time.Time `json:"visit_date,omitempty"`

	RequestedAmount  Money  `json:"requested_amount"`
	ApprovedAmount   *Money `json:"approved_amount,omitempty"`
	DifferenceAmount *Money `json:"difference_amount,omitempty"`

	Status          workflow.Status `json:"status"`
	ReviewerID      string          `json:"reviewer_id,omitempty"`
	ReviewerName    string          `json:"reviewer_name,omitempty"`
	ReviewerComment string          `json:"reviewer_comment,omitempty"`
	ReviewedAt      *time.Time      `json:"reviewed_at,omitempty"`

	// Financial snapshot at adjudication time
	PatientCoPay      *Money   `json:"patient_co_pay,omitempty"`
	NetProviderAmount *Money   `json:"net_provider_amount,omitempty"`
	CoPayPercent      *float64 `json:"co_pay_percent,omitempty"`
	DeductibleApplied *Money   `json:"deductible_applied,omitempty"`

	// Settlement is recorded, not executed
	PaymentReference string     `json:"payment_reference,omitempty"`
	SettledAt        *time.Time `json:"settled_at,omitempty"`
	SettlementNotes  string     `json:"settlement_notes,omitempty"`

	ServiceCount     int               `json:"service_count"`
	AttachmentsCount int               `json:"attachments_count"`
	Lines            []ClaimLine       `json:"lines"`
	Attachments      []ClaimAttachment `json:"attachments"`

	Active    bool      `json:"active"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by"`
	UpdatedBy string    `json:"updated_by"`
}

// ClaimLine is a single billed service on a claim
type ClaimLine struct {
	ID          string     `json:"id"`
	ClaimID     string     `json:"claim_id"`
	ServiceCode string     `json:"service_code"`
	Description string     `json:"description,omitempty"`
	Quantity    int        `json:"quantity"`
	UnitPrice   Money      `json:"unit_price"`
	Amount      Money      `json:"amount"`
	ServiceDate *time.Time `json:"service_date,omitempty"`
}

// ClaimAttachment references a supporting document by category; file bytes live elsewhere
type ClaimAttachment struct {
	ID         string             `json:"id"`
	ClaimID    string             `json:"claim_id"`
	Category   AttachmentCategory `json:"category"`
	FileName   string             `json:"file_name"`
	UploadedBy string             `json:"uploaded_by,omitempty"`
	UploadedAt time.Time          `json:"uploaded_at"`
}

// Clone returns a deep copy of the claim, including its owned collections
func (c *Claim) Clone() *Claim {
	if c == nil {
		return nil
	}

	out := *c
	out.PolicyID = cloneString(c.PolicyID)
	out.BenefitPackageID = cloneString(c.BenefitPackageID)
	out.PreApprovalID = cloneString(c.PreApprovalID)
	out.VisitDate = cloneTime(c.VisitDate)
	out.ApprovedAmount = cloneMoney(c.ApprovedAmount)
	out.DifferenceAmount = cloneMoney(c.DifferenceAmount)
	out.ReviewedAt = cloneTime(c.ReviewedAt)
	out.PatientCoPay = cloneMoney(c.PatientCoPay)
	out.NetProviderAmount = cloneMoney(c.NetProviderAmount)
	out.DeductibleApplied = cloneMoney(c.DeductibleApplied)
	out.SettledAt = cloneTime(c.SettledAt)
	if c.CoPayPercent != nil {
		v := *c.CoPayPercent
		out.CoPayPercent = &v
	}

	out.Lines = make([]ClaimLine, len(c.Lines))
	for i, line := range c.Lines {
		line.ServiceDate = cloneTime(line.ServiceDate)
		out.Lines[i] = line
	}
	out.Attachments = make([]ClaimAttachment, len(c.Attachments))
	copy(out.Attachments, c.Attachments)

	return &out
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneMoney(p *Money) *Money {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
