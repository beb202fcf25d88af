package port

import (
	"context"

	"github.com/garyjia/tpa-claims/internal/domain/entity"
)

// AttachmentCategorySource reports which document categories are currently on file for a claim.
// It backs the submission precondition of the attachment requirement policy.
type AttachmentCategorySource interface {
	PresentCategories(ctx context.Context, claimID string) ([]entity.AttachmentCategory, error)
}
