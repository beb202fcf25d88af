// Package requirement holds the per claim type table of supporting documents
// a claim needs before it may leave DRAFT.
package requirement

import "github.com/garyjia/tpa-claims/internal/domain/entity"

// Requirement lists required and optional attachment categories for one claim type
type Requirement struct {
	ClaimType entity.ClaimType            `json:"claim_type"`
	Required  []entity.AttachmentCategory `json:"required"`
	Optional  []entity.AttachmentCategory `json:"optional"`
}

var table = map[entity.ClaimType]Requirement{
	entity.ClaimTypeOutpatient: {
		Required: cats(entity.CategoryMedicalReport, entity.CategoryInvoice),
		Optional: cats(entity.CategoryPrescription, entity.CategoryLabResult, entity.CategoryReceipt, entity.CategoryReferralLetter),
	},
	entity.ClaimTypeInpatient: {
		Required: cats(entity.CategoryMedicalReport, entity.CategoryDischargeSummary, entity.CategoryInvoice),
		Optional: cats(entity.CategoryLabResult, entity.CategoryRadiologyReport, entity.CategoryPrescription, entity.CategoryPreApproval),
	},
	entity.ClaimTypeEmergency: {
		Required: cats(entity.CategoryEmergencyReport, entity.CategoryInvoice),
		Optional: cats(entity.CategoryMedicalReport, entity.CategoryLabResult, entity.CategoryRadiologyReport),
	},
	entity.ClaimTypeLaboratory: {
		Required: cats(entity.CategoryLabResult, entity.CategoryInvoice),
		Optional: cats(entity.CategoryReferralLetter, entity.CategoryPrescription),
	},
	entity.ClaimTypeRadiology: {
		Required: cats(entity.CategoryRadiologyReport, entity.CategoryInvoice),
		Optional: cats(entity.CategoryReferralLetter, entity.CategoryMedicalReport),
	},
	entity.ClaimTypePharmacy: {
		Required: cats(entity.CategoryPrescription, entity.CategoryInvoice),
		Optional: cats(entity.CategoryReceipt),
	},
	entity.ClaimTypeDental: {
		Required: cats(entity.CategoryDentalChart, entity.CategoryInvoice),
		Optional: cats(entity.CategoryTreatmentPlan, entity.CategoryRadiologyReport),
	},
	entity.ClaimTypeOptical: {
		Required: cats(entity.CategoryOpticalPrescription, entity.CategoryInvoice),
		Optional: cats(entity.CategoryReceipt),
	},
	entity.ClaimTypeMaternity: {
		Required: cats(entity.CategoryMedicalReport, entity.CategoryMaternityRecord, entity.CategoryInvoice),
		Optional: cats(entity.CategoryDischargeSummary, entity.CategoryLabResult, entity.CategoryRadiologyReport),
	},
	entity.ClaimTypeSurgery: {
		Required: cats(entity.CategoryPreApproval, entity.CategoryMedicalReport, entity.CategorySurgicalReport),
		Optional: cats(entity.CategoryInvoice, entity.CategoryDischargeSummary, entity.CategoryLabResult, entity.CategoryRadiologyReport),
	},
	entity.ClaimTypeChronicCare: {
		Required: cats(entity.CategoryMedicalReport, entity.CategoryTreatmentPlan),
		Optional: cats(entity.CategoryPrescription, entity.CategoryLabResult, entity.CategoryInvoice),
	},
	entity.ClaimTypePhysiotherapy: {
		Required: cats(entity.CategoryReferralLetter, entity.CategoryPhysiotherapyPlan),
		Optional: cats(entity.CategoryMedicalReport, entity.CategoryInvoice),
	},
	entity.ClaimTypeGeneral: {
		Required: cats(entity.CategoryInvoice),
		Optional: cats(entity.CategoryMedicalReport, entity.CategoryReceipt, entity.CategoryIDDocument, entity.CategoryInsuranceCard, entity.CategoryOther),
	},
}

func cats(c ...entity.AttachmentCategory) []entity.AttachmentCategory {
	return c
}

// For returns the requirement entry for a claim type; unknown types require nothing
func For(claimType entity.ClaimType) Requirement {
	r := table[claimType]
	return Requirement{
		ClaimType: claimType,
		Required:  RequiredCategories(claimType),
		Optional:  append([]entity.AttachmentCategory{}, r.Optional...),
	}
}

// RequiredCategories returns the categories that must be present before submission
func RequiredCategories(claimType entity.ClaimType) []entity.AttachmentCategory {
	return append([]entity.AttachmentCategory{}, table[claimType].Required...)
}

// OptionalCategories returns the categories accepted but not required
func OptionalCategories(claimType entity.ClaimType) []entity.AttachmentCategory {
	return append([]entity.AttachmentCategory{}, table[claimType].Optional...)
}

// Missing returns the required categories absent from present, in table order
func Missing(claimType entity.ClaimType, present []entity.AttachmentCategory) []entity.AttachmentCategory {
	have := make(map[entity.AttachmentCategory]bool, len(present))
	for _, c := range present {
		have[c] = true
	}

	var missing []entity.AttachmentCategory
	for _, c := range table[claimType].Required {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

// IsSatisfied reports whether every required category is present
func IsSatisfied(claimType entity.ClaimType, present []entity.AttachmentCategory) bool {
	return len(Missing(claimType, present)) == 0
}

// RequiresPreApproval reports whether PREAPPROVAL is a required category for the claim type
func RequiresPreApproval(claimType entity.ClaimType) bool {
	for _, c := range table[claimType].Required {
		if c == entity.CategoryPreApproval {
			return true
		}
	}
	return false
}
