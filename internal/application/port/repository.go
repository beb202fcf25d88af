package port

import (
	"context"

	"github.com/garyjia/tpa-claims/internal/domain/entity"
	"github.com/garyjia/tpa-claims/internal/domain/workflow"
)

// ClaimFilter narrows a claim listing. Zero values mean "any".
type ClaimFilter struct {
	Status         workflow.Status
	MemberID       string
	InsuranceOrgID string
	ReviewerID     string
	Limit          int
	Offset         int
}

// ClaimRepository defines persistence operations for Claim with its lines and attachments.
// Reads only see active claims; a deactivated claim is reported as not found.
type ClaimRepository interface {
	// GetByID returns the claim or a claim.NotFoundError
	GetByID(ctx context.Context, id string) (*entity.Claim, error)

	// List returns active claims matching the filter, newest first
	List(ctx context.Context, filter ClaimFilter) ([]*entity.Claim, error)

	// Create inserts a new claim at version 1
	Create(ctx context.Context, c *entity.Claim) error

	// Update writes the claim only if the stored version still equals expectedVersion,
	// replacing its lines and attachments. On success c.Version is advanced.
	// A stale version yields claim.ConcurrencyConflictError.
	Update(ctx context.Context, c *entity.Claim, expectedVersion int64) error
}

// AuditRepository is append-only: there is deliberately no update or delete operation
type AuditRepository interface {
	// Append inserts the entry and assigns its ID
	Append(ctx context.Context, entry *entity.AuditEntry) error

	// ListByClaimID returns the claim's entries in insertion order
	ListByClaimID(ctx context.Context, claimID string) ([]*entity.AuditEntry, error)

	// CountByClaimID returns the number of entries recorded for a claim
	CountByClaimID(ctx context.Context, claimID string) (int, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
