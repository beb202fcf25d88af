package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/tpa-claims/internal/domain/entity"
	"github.com/garyjia/tpa-claims/internal/domain/workflow"
)

var actor = entity.Actor{UserID: "u-2", Username: "bob", Role: "REVIEWER", IPAddress: "10.0.0.8"}

func sampleClaim(status workflow.Status) *entity.Claim {
	return &entity.Claim{
		ID:              "c-1",
		ClaimType:       entity.ClaimTypeOutpatient,
		RequestedAmount: entity.MustParseMoney("1000"),
		Status:          status,
		UpdatedAt:       time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Lines: []entity.ClaimLine{
			{ID: "l-1", ClaimID: "c-1", ServiceCode: "CONSULT", Quantity: 1, UnitPrice: 5000, Amount: 5000},
		},
		Attachments: []entity.ClaimAttachment{
			{ID: "a-1", ClaimID: "c-1", Category: entity.CategoryInvoice, FileName: "inv.pdf"},
		},
	}
}

func TestNewCreated(t *testing.T) {
	after := sampleClaim(workflow.StatusDraft)

	entry, err := NewCreated(after, actor)
	require.NoError(t, err)

	assert.Equal(t, entity.ChangeTypeCreated, entry.ChangeType)
	assert.Equal(t, workflow.Status(""), entry.PreviousStatus)
	assert.Equal(t, workflow.StatusDraft, entry.NewStatus)
	assert.Empty(t, entry.BeforeSnapshot)
	assert.NotEmpty(t, entry.AfterSnapshot)
	assert.Equal(t, after.UpdatedAt, entry.Timestamp)
	assert.Equal(t, "10.0.0.8", entry.IPAddress)
	assert.Equal(t, "REVIEWER", entry.ActorRole)
}

func TestNewApproval(t *testing.T) {
	before := sampleClaim(workflow.StatusUnderReview)
	after := sampleClaim(workflow.StatusApproved)
	after.ApprovedAmount = entity.MustParseMoney("800").Ptr()

	entry, err := NewApproval(before, after, actor)
	require.NoError(t, err)

	assert.Equal(t, entity.ChangeTypeApproval, entry.ChangeType)
	assert.Equal(t, workflow.StatusUnderReview, entry.PreviousStatus)
	assert.Equal(t, workflow.StatusApproved, entry.NewStatus)
	assert.Nil(t, entry.PreviousApprovedAmount)
	require.NotNil(t, entry.NewApprovedAmount)
	assert.Equal(t, entity.MustParseMoney("800"), *entry.NewApprovedAmount)
	assert.Equal(t, "Approved amount 800.00", entry.Comment)
}

func TestNewRejection(t *testing.T) {
	before := sampleClaim(workflow.StatusUnderReview)
	after := sampleClaim(workflow.StatusRejected)
	after.ReviewerComment = "bad docs"

	entry, err := NewRejection(before, after, actor)
	require.NoError(t, err)
	assert.Equal(t, entity.ChangeTypeRejection, entry.ChangeType)
	assert.Equal(t, "bad docs", entry.Comment)
}

func TestFactoryRejectsMismatchedStatus(t *testing.T) {
	before := sampleClaim(workflow.StatusUnderReview)
	after := sampleClaim(workflow.StatusUnderReview)

	_, err := NewSettlement(before, after, actor)
	assert.Error(t, err)
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := sampleClaim(workflow.StatusApproved)
	c.ApprovedAmount = entity.MustParseMoney("750.25").Ptr()

	snap, err := Snapshot(c)
	require.NoError(t, err)

	restored, err := Restore(snap)
	require.NoError(t, err)
	assert.Equal(t, c.Status, restored.Status)
	assert.Equal(t, *c.ApprovedAmount, *restored.ApprovedAmount)
	assert.Equal(t, c.Lines[0].ServiceCode, restored.Lines[0].ServiceCode)
	assert.Equal(t, c.Attachments[0].Category, restored.Attachments[0].Category)
}

func TestRecord_KeepsExistingTimestampAndStampsZero(t *testing.T) {
	after := sampleClaim(workflow.StatusDraft)
	after.UpdatedAt = time.Time{}

	entry, err := Record(after.ID, entity.ChangeTypeUpdated, nil, after, actor, "")
	require.NoError(t, err)
	assert.False(t, entry.Timestamp.IsZero())

	first := entry.Timestamp
	stamp(entry)
	assert.Equal(t, first, entry.Timestamp)
}
