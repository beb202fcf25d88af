package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/tpa-claims/internal/application/port"
	"github.com/garyjia/tpa-claims/internal/domain/entity"
	"github.com/garyjia/tpa-claims/internal/domain/workflow"
	"github.com/garyjia/tpa-claims/internal/infrastructure/persistence/sqlite"
)

// AuditRepository implements port.AuditRepository.
// It only inserts and selects; the table's triggers reject UPDATE and DELETE as well.
type AuditRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sqlite.DB, logger *zap.Logger) port.AuditRepository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// Append inserts a new audit entry and assigns its ID
func (r *AuditRepository) Append(ctx context.Context, entry *entity.AuditEntry) error {
	query := `
		INSERT INTO claim_audit_logs (
			claim_id, change_type, previous_status, new_status,
			previous_requested_amount_cents, new_requested_amount_cents,
			previous_approved_amount_cents, new_approved_amount_cents,
			actor_user_id, actor_username, actor_role, ip_address,
			timestamp, comment, before_snapshot, after_snapshot
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		entry.ClaimID,
		string(entry.ChangeType),
		string(entry.PreviousStatus),
		string(entry.NewStatus),
		nullMoney(entry.PreviousRequestedAmount),
		nullMoney(entry.NewRequestedAmount),
		nullMoney(entry.PreviousApprovedAmount),
		nullMoney(entry.NewApprovedAmount),
		entry.ActorUserID,
		entry.ActorUsername,
		entry.ActorRole,
		entry.IPAddress,
		entry.Timestamp,
		entry.Comment,
		entry.BeforeSnapshot,
		entry.AfterSnapshot,
	)
	if err != nil {
		r.logger.Error("Failed to append audit entry",
			zap.String("claim_id", entry.ClaimID),
			zap.String("change_type", string(entry.ChangeType)),
			zap.Error(err))
		return writeError("audit_entry", "failed to append audit entry", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	entry.ID = id
	return nil
}

// ListByClaimID retrieves a claim's audit entries in insertion order
func (r *AuditRepository) ListByClaimID(ctx context.Context, claimID string) ([]*entity.AuditEntry, error) {
	query := `
		SELECT id, claim_id, change_type, previous_status, new_status,
			previous_requested_amount_cents, new_requested_amount_cents,
			previous_approved_amount_cents, new_approved_amount_cents,
			actor_user_id, actor_username, actor_role, ip_address,
			timestamp, comment, before_snapshot, after_snapshot
		FROM claim_audit_logs
		WHERE claim_id = ?
		ORDER BY id ASC
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, claimID)
	if err != nil {
		r.logger.Error("Failed to list audit entries", zap.String("claim_id", claimID), zap.Error(err))
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.AuditEntry
	for rows.Next() {
		var e entity.AuditEntry
		var changeType, previousStatus, newStatus string
		var prevRequested, newRequested, prevApproved, newApproved sql.NullInt64

		err := rows.Scan(
			&e.ID, &e.ClaimID, &changeType, &previousStatus, &newStatus,
			&prevRequested, &newRequested, &prevApproved, &newApproved,
			&e.ActorUserID, &e.ActorUsername, &e.ActorRole, &e.IPAddress,
			&e.Timestamp, &e.Comment, &e.BeforeSnapshot, &e.AfterSnapshot,
		)
		if err != nil {
			r.logger.Error("Failed to scan audit entry", zap.String("claim_id", claimID), zap.Error(err))
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}

		e.ChangeType = entity.ChangeType(changeType)
		e.PreviousStatus = workflow.Status(previousStatus)
		e.NewStatus = workflow.Status(newStatus)
		e.PreviousRequestedAmount = moneyPtr(prevRequested)
		e.NewRequestedAmount = moneyPtr(newRequested)
		e.PreviousApprovedAmount = moneyPtr(prevApproved)
		e.NewApprovedAmount = moneyPtr(newApproved)

		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

// CountByClaimID returns how many audit entries a claim has
func (r *AuditRepository) CountByClaimID(ctx context.Context, claimID string) (int, error) {
	var count int
	err := r.getExecutor(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM claim_audit_logs WHERE claim_id = ?`, claimID).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count audit entries", zap.String("claim_id", claimID), zap.Error(err))
		return 0, fmt.Errorf("failed to count audit entries: %w", err)
	}
	return count, nil
}

func (r *AuditRepository) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFor(ctx, r.db.DB)
}

// Verify interface compliance
var _ port.AuditRepository = (*AuditRepository)(nil)
