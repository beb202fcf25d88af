package entity

// AttachmentCategory identifies the kind of supporting document on a claim
type AttachmentCategory string

const (
	CategoryMedicalReport       AttachmentCategory = "MEDICAL_REPORT"
	CategoryDischargeSummary    AttachmentCategory = "DISCHARGE_SUMMARY"
	CategoryPreApproval         AttachmentCategory = "PREAPPROVAL"
	CategoryInvoice             AttachmentCategory = "INVOICE"
	CategoryReceipt             AttachmentCategory = "RECEIPT"
	CategoryPrescription        AttachmentCategory = "PRESCRIPTION"
	CategoryLabResult           AttachmentCategory = "LAB_RESULT"
	CategoryRadiologyReport     AttachmentCategory = "RADIOLOGY_REPORT"
	CategorySurgicalReport      AttachmentCategory = "SURGICAL_REPORT"
	CategoryEmergencyReport     AttachmentCategory = "EMERGENCY_REPORT"
	CategoryReferralLetter      AttachmentCategory = "REFERRAL_LETTER"
	CategoryIDDocument          AttachmentCategory = "ID_DOCUMENT"
	CategoryInsuranceCard       AttachmentCategory = "INSURANCE_CARD"
	CategoryDentalChart         AttachmentCategory = "DENTAL_CHART"
	CategoryOpticalPrescription AttachmentCategory = "OPTICAL_PRESCRIPTION"
	CategoryMaternityRecord     AttachmentCategory = "MATERNITY_RECORD"
	CategoryTreatmentPlan       AttachmentCategory = "TREATMENT_PLAN"
	CategoryPhysiotherapyPlan   AttachmentCategory = "PHYSIOTHERAPY_PLAN"
	CategoryOther               AttachmentCategory = "OTHER"
)

var attachmentCategories = map[AttachmentCategory]bool{
	CategoryMedicalReport:       true,
	CategoryDischargeSummary:    true,
	CategoryPreApproval:         true,
	CategoryInvoice:             true,
	CategoryReceipt:             true,
	CategoryPrescription:        true,
	CategoryLabResult:           true,
	CategoryRadiologyReport:     true,
	CategorySurgicalReport:      true,
	CategoryEmergencyReport:     true,
	CategoryReferralLetter:      true,
	CategoryIDDocument:          true,
	CategoryInsuranceCard:       true,
	CategoryDentalChart:         true,
	CategoryOpticalPrescription: true,
	CategoryMaternityRecord:     true,
	CategoryTreatmentPlan:       true,
	CategoryPhysiotherapyPlan:   true,
	CategoryOther:               true,
}

// IsValid returns true if the category is one of the defined constants
func (c AttachmentCategory) IsValid() bool {
	return attachmentCategories[c]
}

// String returns the string representation of the category
func (c AttachmentCategory) String() string {
	return string(c)
}
