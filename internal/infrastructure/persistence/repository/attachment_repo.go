package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/tpa-claims/internal/application/port"
	"github.com/garyjia/tpa-claims/internal/domain/entity"
	"github.com/garyjia/tpa-claims/internal/infrastructure/persistence/sqlite"
)

// AttachmentCategoryRepository implements port.AttachmentCategorySource over claim_attachments
type AttachmentCategoryRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewAttachmentCategoryRepository creates a new attachment category source
func NewAttachmentCategoryRepository(db *sqlite.DB, logger *zap.Logger) port.AttachmentCategorySource {
	return &AttachmentCategoryRepository{
		db:     db,
		logger: logger,
	}
}

// PresentCategories returns the distinct categories on file for a claim, in upload order
func (r *AttachmentCategoryRepository) PresentCategories(ctx context.Context, claimID string) ([]entity.AttachmentCategory, error) {
	query := `
		SELECT category
		FROM claim_attachments
		WHERE claim_id = ?
		GROUP BY category
		ORDER BY MIN(position)
	`

	rows, err := sqlite.ExecutorFor(ctx, r.db.DB).QueryContext(ctx, query, claimID)
	if err != nil {
		r.logger.Error("Failed to load attachment categories", zap.String("claim_id", claimID), zap.Error(err))
		return nil, fmt.Errorf("failed to load attachment categories: %w", err)
	}
	defer rows.Close()

	var categories []entity.AttachmentCategory
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan attachment category: %w", err)
		}
		categories = append(categories, entity.AttachmentCategory(category))
	}

	return categories, rows.Err()
}

// Verify interface compliance
var _ port.AttachmentCategorySource = (*AttachmentCategoryRepository)(nil)
