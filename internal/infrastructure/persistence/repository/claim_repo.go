package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/garyjia/tpa-claims/internal/application/port"
	"github.com/garyjia/tpa-claims/internal/domain/claim"
	"github.com/garyjia/tpa-claims/internal/domain/entity"
	"github.com/garyjia/tpa-claims/internal/domain/workflow"
	"github.com/garyjia/tpa-claims/internal/infrastructure/persistence/sqlite"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

const claimColumns = `
	id, member_id, insurance_org_id, policy_id, benefit_package_id, pre_approval_id,
	claim_type, provider_name, doctor_name, diagnosis, visit_date,
	requested_amount_cents, approved_amount_cents, difference_amount_cents,
	status, reviewer_id, reviewer_name, reviewer_comment, reviewed_at,
	patient_co_pay_cents, net_provider_amount_cents, co_pay_percent, deductible_applied_cents,
	payment_reference, settled_at, settlement_notes,
	service_count, attachments_count, active, version,
	created_at, updated_at, created_by, updated_by`

// ClaimRepository implements port.ClaimRepository on SQLite.
// Lines and attachments are owned rows, replaced wholesale on every update.
type ClaimRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewClaimRepository creates a new claim repository
func NewClaimRepository(db *sqlite.DB, logger *zap.Logger) port.ClaimRepository {
	return &ClaimRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves an active claim with its lines and attachments
func (r *ClaimRepository) GetByID(ctx context.Context, id string) (*entity.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = ? AND active = 1`

	c, err := r.scanClaim(r.getExecutor(ctx).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &claim.NotFoundError{Entity: "claim", ID: id}
	}
	if err != nil {
		r.logger.Error("Failed to get claim by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get claim: %w", err)
	}

	if err := r.loadChildren(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List retrieves active claims matching filter, newest first
func (r *ClaimRepository) List(ctx context.Context, filter port.ClaimFilter) ([]*entity.Claim, error) {
	conditions := []string{"active = 1"}
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.MemberID != "" {
		conditions = append(conditions, "member_id = ?")
		args = append(args, filter.MemberID)
	}
	if filter.InsuranceOrgID != "" {
		conditions = append(conditions, "insurance_org_id = ?")
		args = append(args, filter.InsuranceOrgID)
	}
	if filter.ReviewerID != "" {
		conditions = append(conditions, "reviewer_id = ?")
		args = append(args, filter.ReviewerID)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	query := `SELECT ` + claimColumns + ` FROM claims WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list claims", zap.Error(err))
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	defer rows.Close()

	var claims []*entity.Claim
	for rows.Next() {
		c, err := r.scanClaim(rows)
		if err != nil {
			r.logger.Error("Failed to scan claim", zap.Error(err))
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		claims = append(claims, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate claims: %w", err)
	}

	for _, c := range claims {
		if err := r.loadChildren(ctx, c); err != nil {
			return nil, err
		}
	}
	return claims, nil
}

// Create inserts a new claim at version 1 together with its lines and attachments
func (r *ClaimRepository) Create(ctx context.Context, c *entity.Claim) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context) error {
		query := `INSERT INTO claims (` + claimColumns + `) VALUES (
			?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

		args := append([]interface{}{c.ID}, claimValues(c)...)
		args = append(args, c.Active, int64(1), c.CreatedAt, c.UpdatedAt, c.CreatedBy, c.UpdatedBy)

		if _, err := r.getExecutor(ctx).ExecContext(ctx, query, args...); err != nil {
			r.logger.Error("Failed to create claim", zap.String("id", c.ID), zap.Error(err))
			return writeError("claim", "failed to create claim", err)
		}

		if err := r.writeChildren(ctx, c); err != nil {
			return err
		}

		c.Version = 1
		return nil
	})
}

// Update writes c if the stored version still equals expectedVersion
func (r *ClaimRepository) Update(ctx context.Context, c *entity.Claim, expectedVersion int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context) error {
		query := `
			UPDATE claims SET
				member_id = ?, insurance_org_id = ?, policy_id = ?, benefit_package_id = ?, pre_approval_id = ?,
				claim_type = ?, provider_name = ?, doctor_name = ?, diagnosis = ?, visit_date = ?,
				requested_amount_cents = ?, approved_amount_cents = ?, difference_amount_cents = ?,
				status = ?, reviewer_id = ?, reviewer_name = ?, reviewer_comment = ?, reviewed_at = ?,
				patient_co_pay_cents = ?, net_provider_amount_cents = ?, co_pay_percent = ?, deductible_applied_cents = ?,
				payment_reference = ?, settled_at = ?, settlement_notes = ?,
				service_count = ?, attachments_count = ?, active = ?,
				updated_at = ?, updated_by = ?,
				version = version + 1
			WHERE id = ? AND version = ?
		`

		args := claimValues(c)
		args = append(args, c.Active, c.UpdatedAt, c.UpdatedBy, c.ID, expectedVersion)

		result, err := r.getExecutor(ctx).ExecContext(ctx, query, args...)
		if err != nil {
			if sqlite.IsBusy(err) {
				r.logger.Info("Claim write lost the database lock", zap.String("id", c.ID), zap.Error(err))
				return &claim.ConcurrencyConflictError{ClaimID: c.ID, ExpectedVersion: expectedVersion}
			}
			r.logger.Error("Failed to update claim", zap.String("id", c.ID), zap.Error(err))
			return writeError("claim", "failed to update claim", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return r.missingOrStale(ctx, c.ID, expectedVersion)
		}

		if err := r.writeChildren(ctx, c); err != nil {
			return err
		}

		c.Version = expectedVersion + 1
		return nil
	})
}

// missingOrStale explains a zero-row versioned update
func (r *ClaimRepository) missingOrStale(ctx context.Context, id string, expectedVersion int64) error {
	var version int64
	err := r.getExecutor(ctx).QueryRowContext(ctx, `SELECT version FROM claims WHERE id = ?`, id).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return &claim.NotFoundError{Entity: "claim", ID: id}
	}
	if err != nil {
		return fmt.Errorf("failed to read claim version: %w", err)
	}

	r.logger.Info("Stale claim write rejected",
		zap.String("id", id),
		zap.Int64("expected_version", expectedVersion),
		zap.Int64("stored_version", version))
	return &claim.ConcurrencyConflictError{ClaimID: id, ExpectedVersion: expectedVersion}
}

// writeChildren replaces the claim's lines and attachments
func (r *ClaimRepository) writeChildren(ctx context.Context, c *entity.Claim) error {
	exec := r.getExecutor(ctx)

	if _, err := exec.ExecContext(ctx, `DELETE FROM claim_lines WHERE claim_id = ?`, c.ID); err != nil {
		return fmt.Errorf("failed to clear claim lines: %w", err)
	}
	for i, line := range c.Lines {
		_, err := exec.ExecContext(ctx, `
			INSERT INTO claim_lines (
				id, claim_id, position, service_code, description,
				quantity, unit_price_cents, amount_cents, service_date
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			line.ID, c.ID, i, line.ServiceCode, line.Description,
			line.Quantity, line.UnitPrice.Cents(), line.Amount.Cents(), nullTime(line.ServiceDate),
		)
		if err != nil {
			r.logger.Error("Failed to insert claim line", zap.String("claim_id", c.ID), zap.Error(err))
			return writeError(fmt.Sprintf("lines[%d]", i), "failed to insert claim line", err)
		}
	}

	if _, err := exec.ExecContext(ctx, `DELETE FROM claim_attachments WHERE claim_id = ?`, c.ID); err != nil {
		return fmt.Errorf("failed to clear claim attachments: %w", err)
	}
	for i, att := range c.Attachments {
		_, err := exec.ExecContext(ctx, `
			INSERT INTO claim_attachments (
				id, claim_id, position, category, file_name, uploaded_by, uploaded_at
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			att.ID, c.ID, i, string(att.Category), att.FileName, att.UploadedBy, att.UploadedAt,
		)
		if err != nil {
			r.logger.Error("Failed to insert claim attachment", zap.String("claim_id", c.ID), zap.Error(err))
			return writeError(fmt.Sprintf("attachments[%d]", i), "failed to insert claim attachment", err)
		}
	}

	return nil
}

// loadChildren fills the claim's lines and attachments in stored order
func (r *ClaimRepository) loadChildren(ctx context.Context, c *entity.Claim) error {
	exec := r.getExecutor(ctx)

	lineRows, err := exec.QueryContext(ctx, `
		SELECT id, claim_id, service_code, description, quantity,
			unit_price_cents, amount_cents, service_date
		FROM claim_lines
		WHERE claim_id = ?
		ORDER BY position
	`, c.ID)
	if err != nil {
		r.logger.Error("Failed to load claim lines", zap.String("claim_id", c.ID), zap.Error(err))
		return fmt.Errorf("failed to load claim lines: %w", err)
	}
	defer lineRows.Close()

	c.Lines = []entity.ClaimLine{}
	for lineRows.Next() {
		var line entity.ClaimLine
		var unitPrice, amount int64
		var serviceDate sql.NullTime
		if err := lineRows.Scan(&line.ID, &line.ClaimID, &line.ServiceCode, &line.Description,
			&line.Quantity, &unitPrice, &amount, &serviceDate); err != nil {
			return fmt.Errorf("failed to scan claim line: %w", err)
		}
		line.UnitPrice = entity.Cents(unitPrice)
		line.Amount = entity.Cents(amount)
		line.ServiceDate = timePtr(serviceDate)
		c.Lines = append(c.Lines, line)
	}
	if err := lineRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate claim lines: %w", err)
	}

	attRows, err := exec.QueryContext(ctx, `
		SELECT id, claim_id, category, file_name, uploaded_by, uploaded_at
		FROM claim_attachments
		WHERE claim_id = ?
		ORDER BY position
	`, c.ID)
	if err != nil {
		r.logger.Error("Failed to load claim attachments", zap.String("claim_id", c.ID), zap.Error(err))
		return fmt.Errorf("failed to load claim attachments: %w", err)
	}
	defer attRows.Close()

	c.Attachments = []entity.ClaimAttachment{}
	for attRows.Next() {
		var att entity.ClaimAttachment
		var category string
		if err := attRows.Scan(&att.ID, &att.ClaimID, &category, &att.FileName, &att.UploadedBy, &att.UploadedAt); err != nil {
			return fmt.Errorf("failed to scan claim attachment: %w", err)
		}
		att.Category = entity.AttachmentCategory(category)
		c.Attachments = append(c.Attachments, att)
	}
	return attRows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *ClaimRepository) scanClaim(row rowScanner) (*entity.Claim, error) {
	var c entity.Claim
	var (
		policyID, benefitPackageID, preApprovalID   sql.NullString
		visitDate, reviewedAt, settledAt            sql.NullTime
		approved, difference                        sql.NullInt64
		patientCoPay, netProviderAmount, deductible sql.NullInt64
		coPayPercent                                sql.NullFloat64
		requested                                   int64
		claimType, status                           string
	)

	err := row.Scan(
		&c.ID, &c.MemberID, &c.InsuranceOrgID, &policyID, &benefitPackageID, &preApprovalID,
		&claimType, &c.ProviderName, &c.DoctorName, &c.Diagnosis, &visitDate,
		&requested, &approved, &difference,
		&status, &c.ReviewerID, &c.ReviewerName, &c.ReviewerComment, &reviewedAt,
		&patientCoPay, &netProviderAmount, &coPayPercent, &deductible,
		&c.PaymentReference, &settledAt, &c.SettlementNotes,
		&c.ServiceCount, &c.AttachmentsCount, &c.Active, &c.Version,
		&c.CreatedAt, &c.UpdatedAt, &c.CreatedBy, &c.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	c.PolicyID = stringPtr(policyID)
	c.BenefitPackageID = stringPtr(benefitPackageID)
	c.PreApprovalID = stringPtr(preApprovalID)
	c.ClaimType = entity.ClaimType(claimType)
	c.VisitDate = timePtr(visitDate)
	c.RequestedAmount = entity.Cents(requested)
	c.ApprovedAmount = moneyPtr(approved)
	c.DifferenceAmount = moneyPtr(difference)
	c.ReviewedAt = timePtr(reviewedAt)
	c.PatientCoPay = moneyPtr(patientCoPay)
	c.NetProviderAmount = moneyPtr(netProviderAmount)
	c.DeductibleApplied = moneyPtr(deductible)
	c.SettledAt = timePtr(settledAt)
	if coPayPercent.Valid {
		v := coPayPercent.Float64
		c.CoPayPercent = &v
	}

	c.Status = workflow.Status(status)
	if !c.Status.IsValid() {
		// Rows imported from the previous claims system may carry retired status names
		c.Status = workflow.ParseLegacyStatus(status)
		r.logger.Warn("Mapped legacy claim status",
			zap.String("id", c.ID),
			zap.String("stored", status),
			zap.String("mapped", c.Status.String()))
	}

	return &c, nil
}

// claimValues lists the mutable columns in the order shared by INSERT (after id) and UPDATE
func claimValues(c *entity.Claim) []interface{} {
	return []interface{}{
		c.MemberID, c.InsuranceOrgID, nullString(c.PolicyID), nullString(c.BenefitPackageID), nullString(c.PreApprovalID),
		string(c.ClaimType), c.ProviderName, c.DoctorName, c.Diagnosis, nullTime(c.VisitDate),
		c.RequestedAmount.Cents(), nullMoney(c.ApprovedAmount), nullMoney(c.DifferenceAmount),
		string(c.Status), c.ReviewerID, c.ReviewerName, c.ReviewerComment, nullTime(c.ReviewedAt),
		nullMoney(c.PatientCoPay), nullMoney(c.NetProviderAmount), nullFloat(c.CoPayPercent), nullMoney(c.DeductibleApplied),
		c.PaymentReference, nullTime(c.SettledAt), c.SettlementNotes,
		c.ServiceCount, c.AttachmentsCount,
	}
}

func (r *ClaimRepository) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFor(ctx, r.db.DB)
}

// Verify interface compliance
var _ port.ClaimRepository = (*ClaimRepository)(nil)
