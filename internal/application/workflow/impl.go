package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/garyjia/tpa-claims/internal/application/dispatcher"
	"github.com/garyjia/tpa-claims/internal/application/port"
	"github.com/garyjia/tpa-claims/internal/domain/audit"
	"github.com/garyjia/tpa-claims/internal/domain/claim"
	"github.com/garyjia/tpa-claims/internal/domain/entity"
	"github.com/garyjia/tpa-claims/internal/domain/requirement"
	domainwf "github.com/garyjia/tpa-claims/internal/domain/workflow"
)

// DefaultTransactionTimeout bounds a single claim action when no timeout is configured
const DefaultTransactionTimeout = 5 * time.Second

// engineImpl is the concrete implementation of ClaimWorkflow
type engineImpl struct {
	claimRepo  port.ClaimRepository
	auditRepo  port.AuditRepository
	categories port.AttachmentCategorySource
	txManager  port.TransactionManager
	dispatcher dispatcher.Dispatcher
	logger     Logger

	txTimeout time.Duration
	now       func() time.Time
}

// EngineOption configures the workflow engine
type EngineOption func(*engineImpl)

// WithDispatcher sets the event dispatcher for emitting events after commit
func WithDispatcher(d dispatcher.Dispatcher) EngineOption {
	return func(e *engineImpl) {
		e.dispatcher = d
	}
}

// WithLogger sets a logger for the engine
func WithLogger(logger Logger) EngineOption {
	return func(e *engineImpl) {
		e.logger = logger
	}
}

// WithTransactionTimeout bounds each action's transaction
func WithTransactionTimeout(timeout time.Duration) EngineOption {
	return func(e *engineImpl) {
		if timeout > 0 {
			e.txTimeout = timeout
		}
	}
}

// WithClock overrides the time source used for claim and audit timestamps
func WithClock(now func() time.Time) EngineOption {
	return func(e *engineImpl) {
		e.now = now
	}
}

// NewEngine creates a new claim workflow engine
func NewEngine(
	claimRepo port.ClaimRepository,
	auditRepo port.AuditRepository,
	categories port.AttachmentCategorySource,
	txManager port.TransactionManager,
	opts ...EngineOption,
) ClaimWorkflow {
	e := &engineImpl{
		claimRepo:  claimRepo,
		auditRepo:  auditRepo,
		categories: categories,
		txManager:  txManager,
		txTimeout:  DefaultTransactionTimeout,
		now:        func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// mutation computes the next claim state and its audit entry from the freshly loaded claim
type mutation func(ctx context.Context, current *entity.Claim, now time.Time) (*entity.Claim, *entity.AuditEntry, error)

func (e *engineImpl) Create(ctx context.Context, fields claim.Fields, req ActionRequest) (*entity.Claim, error) {
	var created *entity.Claim
	var entry *entity.AuditEntry

	err := e.inTransaction(ctx, func(txCtx context.Context) error {
		c, err := claim.Create(fields, req.Actor, e.now())
		if err != nil {
			return err
		}
		if err := e.claimRepo.Create(txCtx, c); err != nil {
			return fmt.Errorf("failed to create claim: %w", err)
		}
		rec, err := audit.NewCreated(c, req.Actor)
		if err != nil {
			return err
		}
		if err := e.auditRepo.Append(txCtx, rec); err != nil {
			return fmt.Errorf("failed to append audit entry: %w", err)
		}
		created, entry = c, rec
		return nil
	})
	if err != nil {
		e.logFailure("CREATE", "", req, err)
		return nil, err
	}

	e.logSuccess("CREATE", created, entry)
	e.emit(ctx, created, entry)
	return created, nil
}

func (e *engineImpl) Get(ctx context.Context, id string) (*entity.Claim, error) {
	return e.claimRepo.GetByID(ctx, id)
}

func (e *engineImpl) List(ctx context.Context, filter port.ClaimFilter) ([]*entity.Claim, error) {
	return e.claimRepo.List(ctx, filter)
}

func (e *engineImpl) Edit(ctx context.Context, id string, fields claim.Fields, req ActionRequest) (*entity.Claim, error) {
	return e.mutate(ctx, "EDIT", id, req, func(_ context.Context, current *entity.Claim, now time.Time) (*entity.Claim, *entity.AuditEntry, error) {
		next, err := claim.ApplyEdit(current, fields, req.Actor, now)
		if err != nil {
			return nil, nil, err
		}

		changeType, comment := entity.ChangeTypeUpdated, "Claim updated"
		if next.RequestedAmount != current.RequestedAmount {
			changeType = entity.ChangeTypeAmountChange
			comment = fmt.Sprintf("Requested amount %s -> %s", current.RequestedAmount, next.RequestedAmount)
		}

		entry, err := audit.Record(id, changeType, current, next, req.Actor, comment)
		return next, entry, err
	})
}

func (e *engineImpl) Submit(ctx context.Context, id string, req ActionRequest) (*entity.Claim, error) {
	return e.mutate(ctx, "SUBMIT", id, req, func(txCtx context.Context, current *entity.Claim, now time.Time) (*entity.Claim, *entity.AuditEntry, error) {
		target, err := fire(txCtx, current, domainwf.TriggerSubmit)
		if err != nil {
			return nil, nil, err
		}

		// Resubmission after RETURNED_FOR_INFO was validated on the first submit.
		if current.Status == domainwf.StatusDraft {
			present, err := e.categories.PresentCategories(txCtx, current.ID)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to load attachment categories: %w", err)
			}
			if missing := requirement.Missing(current.ClaimType, present); len(missing) > 0 {
				return nil, nil, &claim.MissingAttachmentsError{ClaimType: current.ClaimType, Missing: missing}
			}
		}

		next, err := claim.ApplyStatusChange(current, target, claim.StatusChange{}, req.Actor, now)
		if err != nil {
			return nil, nil, err
		}
		entry, err := audit.NewSubmitted(current, next, req.Actor)
		return next, entry, err
	})
}

func (e *engineImpl) StartReview(ctx context.Context, id string, req ActionRequest) (*entity.Claim, error) {
	return e.mutate(ctx, "START_REVIEW", id, req, func(txCtx context.Context, current *entity.Claim, now time.Time) (*entity.Claim, *entity.AuditEntry, error) {
		target, err := fire(txCtx, current, domainwf.TriggerStartReview)
		if err != nil {
			return nil, nil, err
		}

		next, err := claim.ApplyStatusChange(current, target, claim.StatusChange{}, req.Actor, now)
		if err != nil {
			return nil, nil, err
		}
		entry, err := audit.NewStatusChange(current, next, req.Actor, "")
		return next, entry, err
	})
}

func (e *engineImpl) Approve(ctx context.Context, id string, approvedAmount entity.Money, req ActionRequest) (*entity.Claim, error) {
	return e.mutate(ctx, "APPROVE", id, req, func(txCtx context.Context, current *entity.Claim, now time.Time) (*entity.Claim, *entity.AuditEntry, error) {
		target, err := fire(txCtx, current, domainwf.TriggerApprove)
		if err != nil {
			return nil, nil, err
		}
		if !approvedAmount.IsPositive() {
			return nil, nil, &claim.ValidationError{Field: "approved_amount", Reason: "must be greater than zero"}
		}

		change := claim.StatusChange{ApprovedAmount: approvedAmount.Ptr()}
		next, err := claim.ApplyStatusChange(current, target, change, req.Actor, now)
		if err != nil {
			return nil, nil, err
		}
		entry, err := audit.NewApproval(current, next, req.Actor)
		return next, entry, err
	})
}

func (e *engineImpl) Reject(ctx context.Context, id string, reviewerComment string, req ActionRequest) (*entity.Claim, error) {
	return e.mutate(ctx, "REJECT", id, req, func(txCtx context.Context, current *entity.Claim, now time.Time) (*entity.Claim, *entity.AuditEntry, error) {
		target, err := fire(txCtx, current, domainwf.TriggerReject)
		if err != nil {
			return nil, nil, err
		}
		comment := strings.TrimSpace(reviewerComment)
		if comment == "" {
			return nil, nil, &claim.ValidationError{Field: "reviewer_comment", Reason: "must not be blank"}
		}

		next, err := claim.ApplyStatusChange(current, target, claim.StatusChange{ReviewerComment: &comment}, req.Actor, now)
		if err != nil {
			return nil, nil, err
		}
		entry, err := audit.NewRejection(current, next, req.Actor)
		return next, entry, err
	})
}

func (e *engineImpl) ReturnForInfo(ctx context.Context, id string, comment string, req ActionRequest) (*entity.Claim, error) {
	return e.mutate(ctx, "RETURN_FOR_INFO", id, req, func(txCtx context.Context, current *entity.Claim, now time.Time) (*entity.Claim, *entity.AuditEntry, error) {
		target, err := fire(txCtx, current, domainwf.TriggerReturnForInfo)
		if err != nil {
			return nil, nil, err
		}

		var change claim.StatusChange
		comment = strings.TrimSpace(comment)
		if comment != "" {
			change.ReviewerComment = &comment
		}

		next, err := claim.ApplyStatusChange(current, target, change, req.Actor, now)
		if err != nil {
			return nil, nil, err
		}
		entry, err := audit.Record(id, entity.ChangeTypeReturnedForInfo, current, next, req.Actor, comment)
		return next, entry, err
	})
}

func (e *engineImpl) Settle(ctx context.Context, id string, settlement Settlement, req ActionRequest) (*entity.Claim, error) {
	return e.mutate(ctx, "SETTLE", id, req, func(txCtx context.Context, current *entity.Claim, now time.Time) (*entity.Claim, *entity.AuditEntry, error) {
		target, err := fire(txCtx, current, domainwf.TriggerSettle)
		if err != nil {
			return nil, nil, err
		}

		change := claim.StatusChange{
			PaymentReference: strings.TrimSpace(settlement.PaymentReference),
			SettlementNotes:  strings.TrimSpace(settlement.SettlementNotes),
		}
		next, err := claim.ApplyStatusChange(current, target, change, req.Actor, now)
		if err != nil {
			return nil, nil, err
		}
		entry, err := audit.NewSettlement(current, next, req.Actor)
		return next, entry, err
	})
}

func (e *engineImpl) AttachDocument(ctx context.Context, id string, input claim.AttachmentInput, req ActionRequest) (*entity.Claim, error) {
	return e.mutate(ctx, "ATTACH", id, req, func(_ context.Context, current *entity.Claim, now time.Time) (*entity.Claim, *entity.AuditEntry, error) {
		next, attachment, err := claim.AttachDocument(current, input, req.Actor, now)
		if err != nil {
			return nil, nil, err
		}
		entry, err := audit.Record(id, entity.ChangeTypeAttachmentChange, current, next, req.Actor,
			fmt.Sprintf("Attached %s: %s", attachment.Category, attachment.FileName))
		return next, entry, err
	})
}

func (e *engineImpl) DetachDocument(ctx context.Context, id string, attachmentID string, req ActionRequest) (*entity.Claim, error) {
	return e.mutate(ctx, "DETACH", id, req, func(_ context.Context, current *entity.Claim, now time.Time) (*entity.Claim, *entity.AuditEntry, error) {
		next, err := claim.DetachDocument(current, attachmentID, req.Actor, now)
		if err != nil {
			return nil, nil, err
		}

		comment := "Detached attachment " + attachmentID
		for _, a := range current.Attachments {
			if a.ID == attachmentID {
				comment = fmt.Sprintf("Detached %s: %s", a.Category, a.FileName)
				break
			}
		}
		entry, err := audit.Record(id, entity.ChangeTypeAttachmentChange, current, next, req.Actor, comment)
		return next, entry, err
	})
}

func (e *engineImpl) AssignReviewer(ctx context.Context, id string, reviewerID, reviewerName string, req ActionRequest) (*entity.Claim, error) {
	return e.mutate(ctx, "ASSIGN", id, req, func(_ context.Context, current *entity.Claim, now time.Time) (*entity.Claim, *entity.AuditEntry, error) {
		next, err := claim.AssignReviewer(current, reviewerID, reviewerName, req.Actor, now)
		if err != nil {
			return nil, nil, err
		}

		assignee := next.ReviewerName
		if assignee == "" {
			assignee = next.ReviewerID
		}
		entry, err := audit.Record(id, entity.ChangeTypeAssignment, current, next, req.Actor, "Assigned to "+assignee)
		return next, entry, err
	})
}

func (e *engineImpl) LinkPreApproval(ctx context.Context, id string, preApprovalID string, req ActionRequest) (*entity.Claim, error) {
	return e.mutate(ctx, "LINK_PREAPPROVAL", id, req, func(_ context.Context, current *entity.Claim, now time.Time) (*entity.Claim, *entity.AuditEntry, error) {
		next, err := claim.LinkPreApproval(current, preApprovalID, req.Actor, now)
		if err != nil {
			return nil, nil, err
		}
		entry, err := audit.Record(id, entity.ChangeTypePreApprovalLinked, current, next, req.Actor,
			"Linked pre-approval "+*next.PreApprovalID)
		return next, entry, err
	})
}

func (e *engineImpl) Deactivate(ctx context.Context, id string, req ActionRequest) (*entity.Claim, error) {
	return e.mutate(ctx, "DEACTIVATE", id, req, func(_ context.Context, current *entity.Claim, now time.Time) (*entity.Claim, *entity.AuditEntry, error) {
		next, err := claim.Deactivate(current, req.Actor, now)
		if err != nil {
			return nil, nil, err
		}
		entry, err := audit.Record(id, entity.ChangeTypeUpdated, current, next, req.Actor, "Claim deactivated")
		return next, entry, err
	})
}

// mutate runs load -> mutation -> version-guarded write -> audit append in one transaction,
// then emits the committed event
func (e *engineImpl) mutate(ctx context.Context, action, id string, req ActionRequest, fn mutation) (*entity.Claim, error) {
	var result *entity.Claim
	var entry *entity.AuditEntry

	err := e.inTransaction(ctx, func(txCtx context.Context) error {
		current, err := e.claimRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if req.ExpectedVersion > 0 && current.Version != req.ExpectedVersion {
			return &claim.ConcurrencyConflictError{ClaimID: id, ExpectedVersion: req.ExpectedVersion}
		}

		next, rec, err := fn(txCtx, current, e.now())
		if err != nil {
			return err
		}

		if err := e.claimRepo.Update(txCtx, next, current.Version); err != nil {
			return err
		}
		// after-snapshot carries the committed version
		if rec.AfterSnapshot, err = audit.Snapshot(next); err != nil {
			return err
		}
		if err := e.auditRepo.Append(txCtx, rec); err != nil {
			return fmt.Errorf("failed to append audit entry: %w", err)
		}

		result, entry = next, rec
		return nil
	})
	if err != nil {
		e.logFailure(action, id, req, err)
		return nil, err
	}

	e.logSuccess(action, result, entry)
	e.emit(ctx, result, entry)
	return result, nil
}

// inTransaction bounds fn with the configured timeout; on expiry the transaction rolls back
func (e *engineImpl) inTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	txCtx, cancel := context.WithTimeout(ctx, e.txTimeout)
	defer cancel()

	if err := e.txManager.WithTransaction(txCtx, fn); err != nil {
		if txCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return fmt.Errorf("claim transaction exceeded %s: %w", e.txTimeout, err)
		}
		return err
	}
	return nil
}

// fire checks the transition table and advances a state machine positioned at the claim's status
func fire(ctx context.Context, current *entity.Claim, trigger domainwf.Trigger) (domainwf.Status, error) {
	target := trigger.Target()
	stateErr := &claim.InvalidStateError{Action: trigger.String(), Current: current.Status, Target: target}

	if !domainwf.CanTransitionTo(current.Status, target) {
		return "", stateErr
	}

	machine := domainwf.ClaimMachine(current.Status)
	if err := machine.Fire(ctx, trigger); err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		return "", stateErr
	}
	return machine.State(), nil
}

func (e *engineImpl) emit(ctx context.Context, c *entity.Claim, entry *entity.AuditEntry) {
	if e.dispatcher == nil {
		return
	}
	// handlers outlive the request that committed the change
	e.dispatcher.DispatchAsync(context.WithoutCancel(ctx), newCommittedEvent(c, entry))
}

func (e *engineImpl) logSuccess(action string, c *entity.Claim, entry *entity.AuditEntry) {
	if e.logger == nil {
		return
	}
	e.logger.Info("Claim action committed",
		"action", action,
		"claim_id", c.ID,
		"status", c.Status,
		"version", c.Version,
		"change_type", entry.ChangeType,
		"actor", entry.ActorUserID,
	)
}

func (e *engineImpl) logFailure(action, id string, req ActionRequest, err error) {
	if e.logger == nil {
		return
	}
	e.logger.Error("Claim action failed",
		"action", action,
		"claim_id", id,
		"actor", req.Actor.UserID,
		"error", err,
	)
}
