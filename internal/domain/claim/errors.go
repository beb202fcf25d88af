package claim

import (
	"errors"
	"fmt"
	"strings"

	"github.com/garyjia/tpa-claims/internal/domain/entity"
	"github.com/garyjia/tpa-claims/internal/domain/workflow"
)

var (
	// ErrValidation matches any ValidationError
	ErrValidation = errors.New("validation failed")

	// ErrInvalidState matches any InvalidStateError
	ErrInvalidState = errors.New("action not allowed in current claim status")

	// ErrMissingAttachments matches any MissingAttachmentsError
	ErrMissingAttachments = errors.New("required attachments missing")

	// ErrNotFound matches any NotFoundError
	ErrNotFound = errors.New("not found")

	// ErrConcurrencyConflict matches any ConcurrencyConflictError
	ErrConcurrencyConflict = errors.New("concurrent modification")
)

// ValidationError reports a failed invariant or action precondition.
// Nothing is applied when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// InvalidStateError reports an action that is not legal from the claim's current status
type InvalidStateError struct {
	Action  string
	Current workflow.Status
	Target  workflow.Status
}

func (e *InvalidStateError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("cannot %s claim in status %s", strings.ToLower(e.Action), e.Current)
	}
	return fmt.Sprintf("cannot %s claim: transition %s -> %s is not allowed", strings.ToLower(e.Action), e.Current, e.Target)
}

func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

// MissingAttachmentsError lists the required categories absent at submission
type MissingAttachmentsError struct {
	ClaimType entity.ClaimType
	Missing   []entity.AttachmentCategory
}

func (e *MissingAttachmentsError) Error() string {
	names := make([]string, len(e.Missing))
	for i, c := range e.Missing {
		names[i] = string(c)
	}
	return fmt.Sprintf("claim type %s is missing required attachments: %s", e.ClaimType, strings.Join(names, ", "))
}

func (e *MissingAttachmentsError) Is(target error) bool {
	return target == ErrMissingAttachments
}

// NotFoundError reports a missing (or deactivated) record
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConcurrencyConflictError reports a stale read-then-write on a claim.
// The caller should reload the claim and retry.
type ConcurrencyConflictError struct {
	ClaimID         string
	ExpectedVersion int64
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("claim %s was modified concurrently (expected version %d)", e.ClaimID, e.ExpectedVersion)
}

func (e *ConcurrencyConflictError) Is(target error) bool {
	return target == ErrConcurrencyConflict
}

// Retryable is always true: reloading and retrying is the expected recovery
func (e *ConcurrencyConflictError) Retryable() bool {
	return true
}
