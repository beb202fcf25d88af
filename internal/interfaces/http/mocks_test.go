package http

import (
	"context"
	"io"

	"github.com/garyjia/tpa-claims/internal/application/port"
	"github.com/garyjia/tpa-claims/internal/application/workflow"
	"github.com/garyjia/tpa-claims/internal/domain/claim"
	"github.com/garyjia/tpa-claims/internal/domain/entity"
)

type mockEngine struct {
	CreateFunc          func(ctx context.Context, fields claim.Fields, req workflow.ActionRequest) (*entity.Claim, error)
	GetFunc             func(ctx context.Context, id string) (*entity.Claim, error)
	ListFunc            func(ctx context.Context, filter port.ClaimFilter) ([]*entity.Claim, error)
	EditFunc            func(ctx context.Context, id string, fields claim.Fields, req workflow.ActionRequest) (*entity.Claim, error)
	SubmitFunc          func(ctx context.Context, id string, req workflow.ActionRequest) (*entity.Claim, error)
	StartReviewFunc     func(ctx context.Context, id string, req workflow.ActionRequest) (*entity.Claim, error)
	ApproveFunc         func(ctx context.Context, id string, amount entity.Money, req workflow.ActionRequest) (*entity.Claim, error)
	RejectFunc          func(ctx context.Context, id string, comment string, req workflow.ActionRequest) (*entity.Claim, error)
	ReturnForInfoFunc   func(ctx context.Context, id string, comment string, req workflow.ActionRequest) (*entity.Claim, error)
	SettleFunc          func(ctx context.Context, id string, s workflow.Settlement, req workflow.ActionRequest) (*entity.Claim, error)
	AttachDocumentFunc  func(ctx context.Context, id string, input claim.AttachmentInput, req workflow.ActionRequest) (*entity.Claim, error)
	DetachDocumentFunc  func(ctx context.Context, id string, attachmentID string, req workflow.ActionRequest) (*entity.Claim, error)
	AssignReviewerFunc  func(ctx context.Context, id string, reviewerID, reviewerName string, req workflow.ActionRequest) (*entity.Claim, error)
	LinkPreApprovalFunc func(ctx context.Context, id string, preApprovalID string, req workflow.ActionRequest) (*entity.Claim, error)
	DeactivateFunc      func(ctx context.Context, id string, req workflow.ActionRequest) (*entity.Claim, error)
}

func (m *mockEngine) Create(ctx context.Context, fields claim.Fields, req workflow.ActionRequest) (*entity.Claim, error) {
	return m.CreateFunc(ctx, fields, req)
}

func (m *mockEngine) Get(ctx context.Context, id string) (*entity.Claim, error) {
	return m.GetFunc(ctx, id)
}

func (m *mockEngine) List(ctx context.Context, filter port.ClaimFilter) ([]*entity.Claim, error) {
	return m.ListFunc(ctx, filter)
}

func (m *mockEngine) Edit(ctx context.Context, id string, fields claim.Fields, req workflow.ActionRequest) (*entity.Claim, error) {
	return m.EditFunc(ctx, id, fields, req)
}

func (m *mockEngine) Submit(ctx context.Context, id string, req workflow.ActionRequest) (*entity.Claim, error) {
	return m.SubmitFunc(ctx, id, req)
}

func (m *mockEngine) StartReview(ctx context.Context, id string, req workflow.ActionRequest) (*entity.Claim, error) {
	return m.StartReviewFunc(ctx, id, req)
}

func (m *mockEngine) Approve(ctx context.Context, id string, amount entity.Money, req workflow.ActionRequest) (*entity.Claim, error) {
	return m.ApproveFunc(ctx, id, amount, req)
}

func (m *mockEngine) Reject(ctx context.Context, id string, comment string, req workflow.ActionRequest) (*entity.Claim, error) {
	return m.RejectFunc(ctx, id, comment, req)
}

func (m *mockEngine) ReturnForInfo(ctx context.Context, id string, comment string, req workflow.ActionRequest) (*entity.Claim, error) {
	return m.ReturnForInfoFunc(ctx, id, comment, req)
}

func (m *mockEngine) Settle(ctx context.Context, id string, s workflow.Settlement, req workflow.ActionRequest) (*entity.Claim, error) {
	return m.SettleFunc(ctx, id, s, req)
}

func (m *mockEngine) AttachDocument(ctx context.Context, id string, input claim.AttachmentInput, req workflow.ActionRequest) (*entity.Claim, error) {
	return m.AttachDocumentFunc(ctx, id, input, req)
}

func (m *mockEngine) DetachDocument(ctx context.Context, id string, attachmentID string, req workflow.ActionRequest) (*entity.Claim, error) {
	return m.DetachDocumentFunc(ctx, id, attachmentID, req)
}

func (m *mockEngine) AssignReviewer(ctx context.Context, id string, reviewerID, reviewerName string, req workflow.ActionRequest) (*entity.Claim, error) {
	return m.AssignReviewerFunc(ctx, id, reviewerID, reviewerName, req)
}

func (m *mockEngine) LinkPreApproval(ctx context.Context, id string, preApprovalID string, req workflow.ActionRequest) (*entity.Claim, error) {
	return m.LinkPreApprovalFunc(ctx, id, preApprovalID, req)
}

func (m *mockEngine) Deactivate(ctx context.Context, id string, req workflow.ActionRequest) (*entity.Claim, error) {
	return m.DeactivateFunc(ctx, id, req)
}

type mockHistory struct {
	HistoryFunc func(ctx context.Context, claimID string) ([]*entity.AuditEntry, error)
	StateAtFunc func(ctx context.Context, claimID string, entryID int64) (*entity.Claim, error)
	ExportFunc  func(ctx context.Context, claimID string, w io.Writer) error
}

func (m *mockHistory) History(ctx context.Context, claimID string) ([]*entity.AuditEntry, error) {
	return m.HistoryFunc(ctx, claimID)
}

func (m *mockHistory) StateAt(ctx context.Context, claimID string, entryID int64) (*entity.Claim, error) {
	return m.StateAtFunc(ctx, claimID, entryID)
}

func (m *mockHistory) Export(ctx context.Context, claimID string, w io.Writer) error {
	return m.ExportFunc(ctx, claimID, w)
}

func (m *mockHistory) ExportContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}
