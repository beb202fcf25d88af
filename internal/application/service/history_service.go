package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/garyjia/tpa-claims/internal/application/port"
	"github.com/garyjia/tpa-claims/internal/domain/audit"
	"github.com/garyjia/tpa-claims/internal/domain/claim"
	"github.com/garyjia/tpa-claims/internal/domain/entity"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// HistoryService exposes the read side of the claim audit trail
type HistoryService interface {
	// History returns every audit entry for a claim in the order it was written
	History(ctx context.Context, claimID string) ([]*entity.AuditEntry, error)

	// StateAt rebuilds the claim as it stood right after the given audit entry
	StateAt(ctx context.Context, claimID string, entryID int64) (*entity.Claim, error)

	// Export renders the claim's trail with the configured exporter
	Export(ctx context.Context, claimID string, w io.Writer) error

	// ExportContentType is the MIME type Export produces
	ExportContentType() string
}

type historyServiceImpl struct {
	claimRepo port.ClaimRepository
	auditRepo port.AuditRepository
	exporter  port.AuditExporter
	logger    Logger
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(
	claimRepo port.ClaimRepository,
	auditRepo port.AuditRepository,
	exporter port.AuditExporter,
	logger Logger,
) HistoryService {
	return &historyServiceImpl{
		claimRepo: claimRepo,
		auditRepo: auditRepo,
		exporter:  exporter,
		logger:    logger,
	}
}

func (s *historyServiceImpl) History(ctx context.Context, claimID string) ([]*entity.AuditEntry, error) {
	entries, err := s.auditRepo.ListByClaimID(ctx, claimID)
	if err != nil {
		s.logger.Error("Failed to list audit entries", "error", err, "claim_id", claimID)
		return nil, fmt.Errorf("list audit entries: %w", err)
	}

	// Every stored claim has at least its CREATED entry
	if len(entries) == 0 {
		return nil, &claim.NotFoundError{Entity: "claim", ID: claimID}
	}
	return entries, nil
}

func (s *historyServiceImpl) StateAt(ctx context.Context, claimID string, entryID int64) (*entity.Claim, error) {
	entries, err := s.History(ctx, claimID)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.ID != entryID {
			continue
		}
		state, err := audit.Restore(entry.AfterSnapshot)
		if err != nil {
			s.logger.Error("Failed to restore snapshot", "error", err, "claim_id", claimID, "entry_id", entryID)
			return nil, err
		}
		return state, nil
	}

	return nil, &claim.NotFoundError{Entity: "audit entry", ID: fmt.Sprintf("%d", entryID)}
}

func (s *historyServiceImpl) Export(ctx context.Context, claimID string, w io.Writer) error {
	entries, err := s.History(ctx, claimID)
	if err != nil {
		return err
	}

	c, err := s.exportSubject(ctx, claimID, entries)
	if err != nil {
		return err
	}

	if err := s.exporter.Export(ctx, c, entries, w); err != nil {
		s.logger.Error("Failed to export audit trail", "error", err, "claim_id", claimID)
		return fmt.Errorf("export audit trail: %w", err)
	}

	s.logger.Info("Audit trail exported", "claim_id", claimID, "entries", len(entries))
	return nil
}

// exportSubject loads the live claim. A deactivated claim is hidden from the
// repository but keeps its trail, so it is rebuilt from the latest snapshot.
func (s *historyServiceImpl) exportSubject(ctx context.Context, claimID string, entries []*entity.AuditEntry) (*entity.Claim, error) {
	c, err := s.claimRepo.GetByID(ctx, claimID)
	if err == nil || !errors.Is(err, claim.ErrNotFound) {
		return c, err
	}

	last, restoreErr := audit.Restore(entries[len(entries)-1].AfterSnapshot)
	if restoreErr != nil {
		s.logger.Error("Failed to restore snapshot", "error", restoreErr, "claim_id", claimID)
		return nil, restoreErr
	}
	if last == nil {
		return nil, err
	}
	return last, nil
}

func (s *historyServiceImpl) ExportContentType() string {
	return s.exporter.ContentType()
}
